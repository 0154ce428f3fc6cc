package testbed

import (
	"path/filepath"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/keyframer/engine"
	"github.com/spaghettifunk/keyframer/engine/animation"
	"github.com/spaghettifunk/keyframer/engine/scene"
)

func TestBuildScene(t *testing.T) {
	g := scene.NewGraph("world")
	s, err := BuildScene(g)
	require.NoError(t, err)

	// sky, ground and two robots of ten joints each
	assert.Len(t, g.TransformNodes(), 22)
	assert.Len(t, g.DrawList(), 21)
	assert.Equal(t, []scene.Node{s.Sky, s.Robot1, s.Robot2}, s.Eyes())

	elbow, err := g.Find(JointName("robot1", "right_elbow"))
	require.NoError(t, err)
	w, err := g.PathAccumRbt(elbow, 0)
	require.NoError(t, err)
	assert.InDelta(t, -2+TORSO_WIDTH/2+ARM_LEN, w.Translation.X, 1e-9)
	assert.InDelta(t, 1+TORSO_LEN/2, w.Translation.Y, 1e-9)
}

func newEngine(t *testing.T) (*engine.Engine, *TestGame) {
	t.Helper()
	config := engine.DefaultConfig()
	config.Animation.KeyframeFile = filepath.Join(t.TempDir(), "keyframe.txt")
	game := NewTestGame(config)
	e, err := engine.New(game.Game, engine.WithClock(clock.NewMock()))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { _ = e.Shutdown() })
	return e, game
}

func TestRunDemo(t *testing.T) {
	e, game := newEngine(t)
	initial := e.Scene().DumpFrame()

	n, err := RunDemo(e, DemoSteps)
	require.NoError(t, err)
	assert.Equal(t, len(DemoSteps)+1, n)
	assert.Equal(t, game.Scene().Sky, e.Systems().Manipulation().Picked())

	frames := e.Keyframes().Frames()
	assert.Equal(t, animation.Frame(initial), frames[0])
	for i := 1; i < len(frames); i++ {
		assert.NotEqual(t, frames[i-1], frames[i], "step %d changed nothing", i)
		for _, rbt := range frames[i] {
			require.NoError(t, rbt.Validate())
		}
	}

	// robot2 was dragged left in the screen plane
	robot2 := frames[3][indexOf(t, e, game.Scene().Robot2)]
	assert.Less(t, robot2.Translation.X, 2.0)
	assert.InDelta(t, 1.0, robot2.Translation.Y, 1e-9)

	path := e.Config().Animation.KeyframeFile
	require.NoError(t, e.Keyframes().ExportFile(path))
	require.NoError(t, e.LoadKeyframes(path))
	assert.Equal(t, frames, e.Keyframes().Frames())
}

func indexOf(t *testing.T, e *engine.Engine, n scene.Node) int {
	t.Helper()
	for i, m := range e.Scene().TransformNodes() {
		if m == n {
			return i
		}
	}
	t.Fatalf("node %d is not a transform node", n)
	return -1
}

func TestHeadlessRender(t *testing.T) {
	e, game := newEngine(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, e.Tick())
	}
	assert.Equal(t, uint64(3), game.Frames())

	packet, err := e.RenderPacket(0)
	require.NoError(t, err)
	assert.Len(t, packet.Items, 21)
	assert.InDelta(t, 0.25, packet.Eye.Translation.Y, 1e-9)
	assert.InDelta(t, 4.0, packet.Eye.Translation.Z, 1e-9)
}
