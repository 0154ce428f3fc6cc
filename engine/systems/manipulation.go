package systems

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/math"
	"github.com/spaghettifunk/keyframer/engine/scene"
)

var ErrNoEyes = errors.New("manipulation needs at least one eye node")

type ManipulationMode int

const (
	// The picked node is the eye itself: drags move the viewpoint.
	MODE_EGO ManipulationMode = iota
	// A node other than the eye is picked: drags go through the arcball.
	MODE_OBJECT
	// The sky eye orbits the world origin.
	MODE_WORLD_SKY
)

func (mode ManipulationMode) String() string {
	switch mode {
	case MODE_EGO:
		return "ego"
	case MODE_OBJECT:
		return "object"
	case MODE_WORLD_SKY:
		return "world-sky"
	}
	return "unknown"
}

type ManipulationConfig struct {
	// Eyes lists the nodes that can serve as viewpoint. The first one is
	// the world overview (sky) eye, the only one allowing world-sky mode.
	Eyes []scene.Node
	// EgoScale converts pixels to units for translations while the arcball
	// is hidden.
	EgoScale float64
}

/**
 * @brief Turns mouse input into transform updates on the scene graph. It
 * owns the eye/pick selection and decides, for every drag, which auxiliary
 * frame the delta is expressed in.
 */
type ManipulationSystem struct {
	mu sync.Mutex

	graph  *scene.Graph
	camera *Camera

	eyes     []scene.Node
	eyeIndex int
	picked   scene.Node
	worldSky bool
	egoScale float64

	mouse   core.MouseState
	arcball Arcball
}

func NewManipulationSystem(graph *scene.Graph, camera *Camera, config ManipulationConfig) (*ManipulationSystem, error) {
	if len(config.Eyes) == 0 {
		core.LogError(ErrNoEyes.Error())
		return nil, ErrNoEyes
	}
	for _, eye := range config.Eyes {
		if kind, err := graph.Kind(eye); err != nil || kind != scene.NODE_KIND_TRANSFORM {
			err = errors.Wrapf(scene.ErrNoTransform, "eye %q", graph.Name(eye))
			core.LogError(err.Error())
			return nil, err
		}
	}
	if config.EgoScale <= 0 {
		config.EgoScale = 0.01
	}
	ms := &ManipulationSystem{
		graph:    graph,
		camera:   camera,
		eyes:     append([]scene.Node(nil), config.Eyes...),
		picked:   config.Eyes[0],
		egoScale: config.EgoScale,
		arcball:  Arcball{ScreenRadius: camera.ArcballScreenRadius(), Scale: 0.01},
	}
	return ms, nil
}

func (ms *ManipulationSystem) Eye() scene.Node {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.eyes[ms.eyeIndex]
}

func (ms *ManipulationSystem) Picked() scene.Node {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.picked
}

func (ms *ManipulationSystem) WorldSky() bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.worldSky
}

func (ms *ManipulationSystem) Arcball() Arcball {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.arcball
}

// CycleEye switches to the next eye, picks it and leaves world-sky mode.
func (ms *ManipulationSystem) CycleEye() scene.Node {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.eyeIndex = (ms.eyeIndex + 1) % len(ms.eyes)
	ms.picked = ms.eyes[ms.eyeIndex]
	ms.worldSky = false
	core.LogInfo("Viewing from %q", ms.graph.Name(ms.picked))
	return ms.picked
}

/**
 * @brief Selects the node to manipulate. Picking scene.Nil falls back to the
 * current eye. Only transform nodes can be picked.
 */
func (ms *ManipulationSystem) SetPicked(n scene.Node) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if n == scene.Nil {
		ms.picked = ms.eyes[ms.eyeIndex]
		return nil
	}
	kind, err := ms.graph.Kind(n)
	if err != nil {
		return err
	}
	if kind != scene.NODE_KIND_TRANSFORM {
		return errors.Wrapf(scene.ErrNoTransform, "cannot pick %q", ms.graph.Name(n))
	}
	ms.picked = n
	ms.worldSky = false
	return nil
}

/**
 * @brief Toggles world-sky mode. Turning it on is only possible while
 * viewing from the sky eye; otherwise the request is reported and ignored.
 * Returns the new state.
 */
func (ms *ManipulationSystem) ToggleWorldSky() bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.worldSky {
		ms.worldSky = false
		return false
	}
	if ms.eyeIndex != 0 {
		core.LogInfo("World-sky frame needs the bird's-eye view (%q)", ms.graph.Name(ms.eyes[0]))
		return false
	}
	ms.worldSky = true
	return true
}

// Reshape forwards a window resize to the camera and resizes the arcball.
func (ms *ManipulationSystem) Reshape(width, height int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if err := ms.camera.Reshape(width, height); err != nil {
		return err
	}
	ms.arcball.ScreenRadius = ms.camera.ArcballScreenRadius()
	return nil
}

// EyeRbt returns the world transform of the current eye.
func (ms *ManipulationSystem) EyeRbt() (math.RigidBodyTransform, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.graph.PathAccumRbt(ms.eyes[ms.eyeIndex], 0)
}

// Mode reports how the next drag will be interpreted.
func (ms *ManipulationSystem) Mode() ManipulationMode {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.mode()
}

func (ms *ManipulationSystem) mode() ManipulationMode {
	if ms.worldSky {
		return MODE_WORLD_SKY
	}
	if ms.picked == ms.eyes[ms.eyeIndex] {
		return MODE_EGO
	}
	if pivot, err := ms.pivot(); err != nil || pivot.Z > -math.K_EPSILON {
		return MODE_EGO
	}
	return MODE_OBJECT
}

// pivot returns the arcball center in eye coordinates.
func (ms *ManipulationSystem) pivot() (math.Vec3, error) {
	eye, err := ms.graph.PathAccumRbt(ms.eyes[ms.eyeIndex], 0)
	if err != nil {
		return math.Vec3{}, err
	}
	target := ms.graph.Root()
	if !ms.worldSky {
		target = ms.picked
	}
	world, err := ms.graph.PathAccumRbt(target, 0)
	if err != nil {
		return math.Vec3{}, err
	}
	return eye.Inverse().Mul(world).Translation, nil
}

// ArcballPivot returns the arcball center in eye coordinates and whether
// the arcball is shown at all.
func (ms *ManipulationSystem) ArcballPivot() (math.Vec3, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.mode() == MODE_EGO {
		return math.Vec3{}, false
	}
	pivot, err := ms.pivot()
	return pivot, err == nil
}

/**
 * @brief Returns the frame, expressed in the parent frame of the node being
 * manipulated, in which drag deltas are applied. It sits at the origin of
 * the manipulated node and is oriented like the eye. In world-sky mode it
 * sits at the world origin.
 */
func (ms *ManipulationSystem) AuxFrame() (math.RigidBodyTransform, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.auxFrame()
}

func (ms *ManipulationSystem) auxFrame() (math.RigidBodyTransform, error) {
	eye := ms.eyes[ms.eyeIndex]
	if ms.worldSky {
		world, err := ms.graph.Rbt(ms.graph.Root())
		if err != nil {
			return math.RBTCreate(), err
		}
		eyeRbt, err := ms.graph.Rbt(eye)
		if err != nil {
			return math.RBTCreate(), err
		}
		return math.MixedFrame(world, eyeRbt), nil
	}

	eyeWorld, err := ms.graph.PathAccumRbt(eye, 0)
	if err != nil {
		return math.RBTCreate(), err
	}
	parent, err := ms.graph.PathAccumRbt(ms.picked, 1)
	if err != nil {
		return math.RBTCreate(), err
	}
	pickedWorld, err := ms.graph.PathAccumRbt(ms.picked, 0)
	if err != nil {
		return math.RBTCreate(), err
	}
	return parent.Inverse().Mul(math.MixedFrame(pickedWorld, eyeWorld)), nil
}

// refreshScale recomputes the pixel to eye-space scale at the pivot depth.
// It is frozen during depth drags so that moving along the view axis does
// not change its own speed.
func (ms *ManipulationSystem) refreshScale() {
	if ms.mouse.DepthDrag() {
		return
	}
	pivot, err := ms.pivot()
	if err != nil {
		return
	}
	if scale, ok := ms.camera.ScreenToEyeScale(pivot.Z); ok {
		ms.arcball.Scale = scale
	}
}

// MouseButton records a button press or release at window position (x, y),
// with y measured from the top of the window.
func (ms *ManipulationSystem) MouseButton(button core.Button, pressed bool, x, y int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.mouse.ProcessButton(button, pressed, x, y, ms.camera.Height())
	if ms.mode() != MODE_EGO {
		ms.refreshScale()
	}
}

/**
 * @brief Handles the mouse moving to window position (x, y). While a button
 * is held the drag is turned into a delta and applied to the manipulated
 * node. Returns the delta that was applied.
 */
func (ms *ManipulationSystem) MouseMotion(x, y int) (math.RigidBodyTransform, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	from := math.NewVec2(ms.mouse.X, ms.mouse.Y)
	dx, dy := ms.mouse.ProcessMove(x, y, ms.camera.Height())
	to := math.NewVec2(ms.mouse.X, ms.mouse.Y)
	if !ms.mouse.AnyButtonDown() {
		return math.RBTCreate(), nil
	}

	mode := ms.mode()
	var delta math.RigidBodyTransform
	if mode == MODE_EGO {
		delta = EgoDelta(ms.mouse, dx, dy, ms.egoScale)
	} else {
		ms.refreshScale()
		pivot, err := ms.pivot()
		if err != nil {
			return math.RBTCreate(), err
		}
		center, _ := ms.camera.ScreenSpaceCoord(pivot)
		delta = ms.arcball.Delta(ms.mouse, center, from, to)
	}

	aux, err := ms.auxFrame()
	if err != nil {
		return math.RBTCreate(), err
	}

	target := ms.picked
	applied := delta
	if mode == MODE_WORLD_SKY {
		// orbit the eye: moving the eye against the drag moves the world with it
		target = ms.eyes[ms.eyeIndex]
		applied = delta.Inverse()
	}
	current, err := ms.graph.Rbt(target)
	if err != nil {
		return math.RBTCreate(), err
	}
	if err := ms.graph.SetRbt(target, math.TransformWithRespectTo(applied, current, aux)); err != nil {
		return math.RBTCreate(), err
	}
	return delta, nil
}
