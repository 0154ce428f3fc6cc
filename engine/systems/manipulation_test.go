package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/math"
	"github.com/spaghettifunk/keyframer/engine/scene"
)

// world
// ├── sky    (0, 0, 4)
// ├── ground (shape)
// └── robot  (0, 0, 0)
//     └── arm (1, 0, 0)
type rig struct {
	g                       *scene.Graph
	sky, ground, robot, arm scene.Node
	camera                  *Camera
	ms                      *ManipulationSystem
}

func newRig(t *testing.T) rig {
	t.Helper()

	r := rig{g: scene.NewGraph("world"), camera: newCamera(t)}
	var err error
	r.sky, err = r.g.AddTransform(r.g.Root(), "sky", math.RBTFromTranslation(math.NewVec3(0, 0, 4)))
	require.NoError(t, err)
	r.ground, err = r.g.AddShape(r.g.Root(), "ground", scene.Shape{Geometry: "cube", Scale: math.NewVec3(10, 0.1, 10)})
	require.NoError(t, err)
	r.robot, err = r.g.AddTransform(r.g.Root(), "robot", math.RBTCreate())
	require.NoError(t, err)
	r.arm, err = r.g.AddTransform(r.robot, "arm", math.RBTFromTranslation(math.NewVec3(1, 0, 0)))
	require.NoError(t, err)

	r.ms, err = NewManipulationSystem(r.g, r.camera, ManipulationConfig{Eyes: []scene.Node{r.sky, r.robot}, EgoScale: 0.01})
	require.NoError(t, err)
	return r
}

// drag presses button at window position (x, y), moves by (dx, dy) window
// pixels and releases.
func (r rig) drag(t *testing.T, button core.Button, x, y, dx, dy int) math.RigidBodyTransform {
	t.Helper()
	r.ms.MouseButton(button, true, x, y)
	delta, err := r.ms.MouseMotion(x+dx, y+dy)
	require.NoError(t, err)
	r.ms.MouseButton(button, false, x+dx, y+dy)
	return delta
}

func (r rig) world(t *testing.T, n scene.Node) math.RigidBodyTransform {
	t.Helper()
	w, err := r.g.PathAccumRbt(n, 0)
	require.NoError(t, err)
	return w
}

func assertVec3(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestManipulationNeedsEyes(t *testing.T) {
	r := newRig(t)

	_, err := NewManipulationSystem(r.g, r.camera, ManipulationConfig{})
	assert.ErrorIs(t, err, ErrNoEyes)

	_, err = NewManipulationSystem(r.g, r.camera, ManipulationConfig{Eyes: []scene.Node{r.ground}})
	assert.ErrorIs(t, err, scene.ErrNoTransform)
}

func TestEgoMotion(t *testing.T) {
	r := newRig(t)
	assert.Equal(t, MODE_EGO, r.ms.Mode())
	_, shown := r.ms.ArcballPivot()
	assert.False(t, shown)

	// window y grows downwards, so moving up by 5 is dy = +5
	delta := r.drag(t, core.BUTTON_RIGHT, 100, 100, 10, -5)
	assertVec3(t, math.NewVec3(0.1, 0.05, 0), delta.Translation)
	assertVec3(t, math.NewVec3(0.1, 0.05, 4), r.world(t, r.sky).Translation)

	r.drag(t, core.BUTTON_MIDDLE, 100, 100, 0, -10)
	assertVec3(t, math.NewVec3(0.1, 0.05, 3.9), r.world(t, r.sky).Translation)
}

func TestEgoTurnKeepsPosition(t *testing.T) {
	r := newRig(t)

	r.drag(t, core.BUTTON_LEFT, 100, 100, 30, 0)
	sky := r.world(t, r.sky)
	assertVec3(t, math.NewVec3(0, 0, 4), sky.Translation)
	assert.True(t, sky.Rotation.SameRotation(math.NewQuatYRotation(-30), 1e-9))
}

func TestMotionWithoutButtons(t *testing.T) {
	r := newRig(t)
	before := r.world(t, r.sky)

	delta, err := r.ms.MouseMotion(300, 300)
	require.NoError(t, err)
	assert.Equal(t, math.RBTCreate(), delta)
	assert.Equal(t, before, r.world(t, r.sky))
}

func TestObjectTranslation(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.ms.SetPicked(r.robot))
	assert.Equal(t, MODE_OBJECT, r.ms.Mode())

	pivot, shown := r.ms.ArcballPivot()
	assert.True(t, shown)
	assertVec3(t, math.NewVec3(0, 0, -4), pivot)

	scale, _ := r.camera.ScreenToEyeScale(-4)
	r.drag(t, core.BUTTON_RIGHT, 255, 256, 10, 0)
	assertVec3(t, math.NewVec3(10*scale, 0, 0), r.world(t, r.robot).Translation)
	assert.InDelta(t, scale, r.ms.Arcball().Scale, 1e-12)

	// the child follows its parent
	assertVec3(t, math.NewVec3(1+10*scale, 0, 0), r.world(t, r.arm).Translation)
}

func TestObjectRotationKeepsOrigin(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.ms.SetPicked(r.robot))

	delta := r.drag(t, core.BUTTON_LEFT, 255, 256, 10, 0)
	assert.False(t, delta.Rotation.SameRotation(math.NewQuatIdentity(), 1e-6))

	robot := r.world(t, r.robot)
	assertVec3(t, math.NewVec3Zero(), robot.Translation)
	assert.True(t, robot.Rotation.SameRotation(delta.Rotation, 1e-9))
	assert.InDelta(t, 1.0, robot.Rotation.Normal(), 1e-9)
}

func TestNestedNodeMovesInEyeAxes(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.g.SetRbt(r.robot, math.RBTFromYRotation(90)))
	require.NoError(t, r.ms.SetPicked(r.arm))

	before := r.world(t, r.arm)
	assertVec3(t, math.NewVec3(0, 0, -1), before.Translation)

	pivot, _ := r.ms.ArcballPivot()
	scale, _ := r.camera.ScreenToEyeScale(pivot.Z)
	r.drag(t, core.BUTTON_RIGHT, 255, 256, 10, 0)

	after := r.world(t, r.arm)
	assertVec3(t, math.NewVec3(10*scale, 0, -1), after.Translation)
	assert.True(t, after.Rotation.SameRotation(before.Rotation, 1e-9))
}

func TestAuxFrame(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.g.SetRbt(r.robot, math.RBTFromTranslationRotation(math.NewVec3(2, 0, 0), math.NewQuatYRotation(90))))
	require.NoError(t, r.ms.SetPicked(r.arm))

	aux, err := r.ms.AuxFrame()
	require.NoError(t, err)

	// expressed in the robot frame: at the arm origin, oriented like the eye
	robot := r.world(t, r.robot)
	inWorld := robot.Mul(aux)
	assertVec3(t, r.world(t, r.arm).Translation, inWorld.Translation)
	assert.True(t, inWorld.Rotation.SameRotation(r.world(t, r.sky).Rotation, 1e-9))
}

func TestWorldSkyOrbit(t *testing.T) {
	r := newRig(t)
	assert.True(t, r.ms.ToggleWorldSky())
	assert.Equal(t, MODE_WORLD_SKY, r.ms.Mode())

	pivot, shown := r.ms.ArcballPivot()
	assert.True(t, shown)
	assertVec3(t, math.NewVec3(0, 0, -4), pivot)

	scale, _ := r.camera.ScreenToEyeScale(-4)
	r.drag(t, core.BUTTON_RIGHT, 255, 256, 10, 0)
	// the sky eye moves against the drag so the world appears to follow it
	assertVec3(t, math.NewVec3(-10*scale, 0, 4), r.world(t, r.sky).Translation)

	before := r.world(t, r.sky)
	r.drag(t, core.BUTTON_LEFT, 255, 256, 20, 0)
	after := r.world(t, r.sky)
	assert.InDelta(t, before.Translation.Length(), after.Translation.Length(), 1e-9)
	assert.False(t, after.Rotation.SameRotation(before.Rotation, 1e-6))

	assert.False(t, r.ms.ToggleWorldSky())
	assert.Equal(t, MODE_EGO, r.ms.Mode())
}

func TestWorldSkyNeedsSkyEye(t *testing.T) {
	r := newRig(t)

	assert.Equal(t, r.robot, r.ms.CycleEye())
	assert.Equal(t, r.robot, r.ms.Eye())
	assert.Equal(t, r.robot, r.ms.Picked())
	assert.False(t, r.ms.ToggleWorldSky())
	assert.False(t, r.ms.WorldSky())

	assert.Equal(t, r.sky, r.ms.CycleEye())
	assert.True(t, r.ms.ToggleWorldSky())
	r.ms.CycleEye()
	assert.False(t, r.ms.WorldSky())
}

func TestPivotBehindEyeFallsBackToEgo(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.g.SetRbt(r.robot, math.RBTFromTranslation(math.NewVec3(0, 0, 10))))
	require.NoError(t, r.ms.SetPicked(r.robot))
	assert.Equal(t, MODE_EGO, r.ms.Mode())

	r.drag(t, core.BUTTON_RIGHT, 100, 100, 10, 0)
	assertVec3(t, math.NewVec3(0.1, 0, 10), r.world(t, r.robot).Translation)
}

func TestSetPicked(t *testing.T) {
	r := newRig(t)

	assert.ErrorIs(t, r.ms.SetPicked(r.ground), scene.ErrNoTransform)
	assert.ErrorIs(t, r.ms.SetPicked(scene.Node(42)), scene.ErrInvalidNode)
	assert.Equal(t, r.sky, r.ms.Picked())

	require.NoError(t, r.ms.SetPicked(r.arm))
	assert.Equal(t, r.arm, r.ms.Picked())
	require.NoError(t, r.ms.SetPicked(scene.Nil))
	assert.Equal(t, r.sky, r.ms.Picked())
}

func TestManipulationReshape(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.ms.Reshape(256, 512))
	assert.InDelta(t, 64.0, r.ms.Arcball().ScreenRadius, tol)
	assert.Error(t, r.ms.Reshape(0, 0))
}
