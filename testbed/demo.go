package testbed

import (
	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine"
	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/scene"
)

// A scripted drag on a named node, followed by a new keyframe.
type DemoStep struct {
	Node   string
	Button core.Button
	DX, DY int
}

// DemoSteps poses both robots over five keyframes, after the initial one.
var DemoSteps = []DemoStep{
	{JointName("robot1", "right_shoulder"), core.BUTTON_LEFT, 0, -40},
	{JointName("robot1", "right_elbow"), core.BUTTON_LEFT, 0, -40},
	{"robot2", core.BUTTON_RIGHT, -60, 0},
	{JointName("robot2", "left_knee"), core.BUTTON_LEFT, 30, 0},
	{"robot1", core.BUTTON_LEFT, 50, 0},
}

/**
 * @brief Records an animation by driving the engine the way a user would:
 * a keyframe of the initial pose, then for every step pick the node, drag
 * it and add a keyframe. Returns the number of keyframes recorded.
 */
func RunDemo(e *engine.Engine, steps []DemoStep) (int, error) {
	if err := e.HandleKey('n'); err != nil {
		return 0, err
	}
	for _, step := range steps {
		n, err := e.Scene().Find(step.Node)
		if err != nil {
			return 0, err
		}
		if err := e.Systems().Manipulation().SetPicked(n); err != nil {
			return 0, err
		}
		if err := drag(e, step); err != nil {
			return 0, errors.Wrapf(err, "dragging %s", step.Node)
		}
		if err := e.HandleKey('n'); err != nil {
			return 0, err
		}
	}
	// back to ego motion for whoever uses the engine next
	if err := e.Systems().Manipulation().SetPicked(scene.Nil); err != nil {
		return 0, err
	}
	return e.Keyframes().Size(), nil
}

// drag presses at the arcball center when it is shown, or at the middle
// of the window otherwise, moves by (DX, DY) and releases.
func drag(e *engine.Engine, step DemoStep) error {
	camera := e.Systems().Camera()
	x, y := camera.Width()/2, camera.Height()/2
	if pivot, shown := e.Systems().Manipulation().ArcballPivot(); shown {
		if c, ok := camera.ScreenSpaceCoord(pivot); ok {
			x, y = int(c.X), camera.Height()-1-int(c.Y)
		}
	}

	if err := e.MouseButton(step.Button, true, x, y); err != nil {
		return err
	}
	if err := e.MouseMove(x+step.DX, y+step.DY); err != nil {
		return err
	}
	if err := e.MouseButton(step.Button, false, x+step.DX, y+step.DY); err != nil {
		return err
	}
	if n := e.ProcessEvents(); n != 3 {
		return errors.Errorf("expected 3 input events, dispatched %d", n)
	}
	return nil
}
