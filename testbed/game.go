package testbed

import (
	"github.com/spaghettifunk/keyframer/engine"
	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/scene"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	scene  *Scene
	frames uint64
	width  int
	height int
}

// NewTestGame wires the demo scene into a headless game: rendering only
// reports what would be drawn.
func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}
	tg.FnInitialize = tg.Initialize
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(graph *scene.Graph) ([]scene.Node, error) {
	core.LogInfo("building testbed scene...")
	s, err := BuildScene(graph)
	if err != nil {
		return nil, err
	}
	g.state().scene = s
	return s.Eyes(), nil
}

// Scene returns the handles of the demo scene once initialized.
func (g *TestGame) Scene() *Scene {
	return g.state().scene
}

func (g *TestGame) Frames() uint64 {
	return g.state().frames
}

func (g *TestGame) Render(packet *engine.RenderPacket) error {
	state := g.state()
	state.frames++
	// once a second at 60 frames/s
	if state.frames%60 == 0 {
		eye := packet.Eye.Translation
		core.LogDebug("frame %d: %d shapes, eye at (%.2f, %.2f, %.2f)", state.frames, len(packet.Items), eye.X, eye.Y, eye.Z)
	}
	return nil
}

func (g *TestGame) OnResize(width, height int) error {
	state := g.state()
	state.width, state.height = width, height
	core.LogDebug("testbed resized to %dx%d", width, height)
	return nil
}
