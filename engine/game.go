package engine

import (
	"github.com/spaghettifunk/keyframer/engine/math"
	"github.com/spaghettifunk/keyframer/engine/scene"
)

/**
 * @brief The application side of the engine: it builds the scene and
 * consumes what the engine produces every frame.
 */
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
}

// RenderPacket is everything a renderer needs to draw one frame.
type RenderPacket struct {
	DeltaTime  float64
	Eye        math.RigidBodyTransform
	View       math.Mat4
	Projection math.Mat4
	Items      []scene.DrawItem
	// ArcballShown is false in ego mode.
	ArcballShown  bool
	ArcballCenter math.Vec3
	ArcballRadius float64
}

// Initialize populates the graph and returns the eye nodes, sky eye first.
type Initialize func(graph *scene.Graph) ([]scene.Node, error)
type Update func(deltaTime float64) error
type Render func(packet *RenderPacket) error
type OnResize func(width, height int) error
