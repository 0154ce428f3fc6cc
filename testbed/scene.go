package testbed

import (
	"github.com/spaghettifunk/keyframer/engine/math"
	"github.com/spaghettifunk/keyframer/engine/scene"
)

const (
	ARM_LEN     = 0.7
	ARM_THICK   = 0.25
	LEG_LEN     = 0.7
	LEG_THICK   = 0.25
	TORSO_LEN   = 1.5
	TORSO_THICK = 0.25
	TORSO_WIDTH = 1.0
	HEAD_RADIUS = 0.4
	GROUND_Y    = -2.0
	GROUND_SIZE = 10.0
)

// Nodes of the demo scene that callers need by handle.
type Scene struct {
	Sky    scene.Node
	Ground scene.Node
	Robot1 scene.Node
	Robot2 scene.Node
}

// Eyes returns the viewpoints in cycling order, sky first.
func (s *Scene) Eyes() []scene.Node {
	return []scene.Node{s.Sky, s.Robot1, s.Robot2}
}

type jointDesc struct {
	name   string
	parent int
	offset math.Vec3
}

type shapeDesc struct {
	name     string
	joint    int
	offset   math.Vec3
	scale    math.Vec3
	geometry string
}

var robotJoints = []jointDesc{
	{"torso", -1, math.Vec3{}},
	{"head", 0, math.NewVec3(0, TORSO_LEN*2/3, 0)},
	{"right_shoulder", 0, math.NewVec3(TORSO_WIDTH/2, TORSO_LEN/2, 0)},
	{"left_shoulder", 0, math.NewVec3(-TORSO_WIDTH/2, TORSO_LEN/2, 0)},
	{"right_hip", 0, math.NewVec3(TORSO_WIDTH/2-0.2, -TORSO_LEN/2, 0)},
	{"left_hip", 0, math.NewVec3(-TORSO_WIDTH/2+0.2, -TORSO_LEN/2, 0)},
	{"right_elbow", 2, math.NewVec3(ARM_LEN, 0, 0)},
	{"left_elbow", 3, math.NewVec3(-ARM_LEN, 0, 0)},
	{"right_knee", 4, math.NewVec3(0, -LEG_LEN, 0)},
	{"left_knee", 5, math.NewVec3(0, -LEG_LEN, 0)},
}

var robotShapes = []shapeDesc{
	{"torso_shape", 0, math.Vec3{}, math.NewVec3(TORSO_WIDTH, TORSO_LEN, TORSO_THICK), "cube"},
	{"head_shape", 1, math.NewVec3(0, HEAD_RADIUS, 0), math.NewVec3(HEAD_RADIUS, HEAD_RADIUS, HEAD_RADIUS), "sphere"},
	{"upper_right_arm", 2, math.NewVec3(ARM_LEN/2, 0, 0), math.NewVec3(ARM_LEN, ARM_THICK, ARM_THICK), "cube"},
	{"upper_left_arm", 3, math.NewVec3(-ARM_LEN/2, 0, 0), math.NewVec3(ARM_LEN, ARM_THICK, ARM_THICK), "cube"},
	{"upper_right_leg", 4, math.NewVec3(0, -LEG_LEN/2, 0), math.NewVec3(LEG_THICK, LEG_LEN, LEG_THICK), "cube"},
	{"upper_left_leg", 5, math.NewVec3(0, -LEG_LEN/2, 0), math.NewVec3(LEG_THICK, LEG_LEN, LEG_THICK), "cube"},
	{"lower_right_arm", 6, math.NewVec3(ARM_LEN/2, 0, 0), math.NewVec3(ARM_LEN, ARM_THICK, ARM_THICK), "cube"},
	{"lower_left_arm", 7, math.NewVec3(-ARM_LEN/2, 0, 0), math.NewVec3(ARM_LEN, ARM_THICK, ARM_THICK), "cube"},
	{"lower_right_leg", 8, math.NewVec3(0, -LEG_LEN/2, 0), math.NewVec3(LEG_THICK, LEG_LEN, LEG_THICK), "cube"},
	{"lower_left_leg", 9, math.NewVec3(0, -LEG_LEN/2, 0), math.NewVec3(LEG_THICK, LEG_LEN, LEG_THICK), "cube"},
}

// JointName is the scene name of a robot joint, e.g. "robot1.right_elbow".
func JointName(robot, joint string) string {
	return robot + "." + joint
}

/**
 * @brief Builds the demo scene: a sky camera, the ground, and two
 * articulated robots (red on the left, blue on the right). Every joint is
 * a transform node named after its robot, so it can be picked by name.
 */
func BuildScene(g *scene.Graph) (*Scene, error) {
	s := &Scene{}
	var err error

	if s.Sky, err = g.AddTransform(g.Root(), "sky", math.RBTFromTranslation(math.NewVec3(0, 0.25, 4))); err != nil {
		return nil, err
	}
	if s.Ground, err = g.AddTransform(g.Root(), "ground", math.RBTCreate()); err != nil {
		return nil, err
	}
	if _, err = g.AddShape(s.Ground, "ground_shape", scene.Shape{
		Geometry: "plane",
		Color:    math.NewVec3(0.1, 0.95, 0.1),
		Offset:   math.RBTFromTranslation(math.NewVec3(0, GROUND_Y, 0)),
		Scale:    math.NewVec3(GROUND_SIZE, 1, GROUND_SIZE),
	}); err != nil {
		return nil, err
	}
	if s.Robot1, err = g.AddTransform(g.Root(), "robot1", math.RBTFromTranslation(math.NewVec3(-2, 1, 0))); err != nil {
		return nil, err
	}
	if err = buildRobot(g, "robot1", s.Robot1, math.NewVec3(1, 0, 0)); err != nil {
		return nil, err
	}
	if s.Robot2, err = g.AddTransform(g.Root(), "robot2", math.RBTFromTranslation(math.NewVec3(2, 1, 0))); err != nil {
		return nil, err
	}
	if err = buildRobot(g, "robot2", s.Robot2, math.NewVec3(0, 0, 1)); err != nil {
		return nil, err
	}
	return s, nil
}

func buildRobot(g *scene.Graph, name string, base scene.Node, color math.Vec3) error {
	joints := make([]scene.Node, len(robotJoints))
	for i, j := range robotJoints {
		if j.parent < 0 {
			joints[i] = base
			continue
		}
		n, err := g.AddTransform(joints[j.parent], JointName(name, j.name), math.RBTFromTranslation(j.offset))
		if err != nil {
			return err
		}
		joints[i] = n
	}
	for _, sd := range robotShapes {
		_, err := g.AddShape(joints[sd.joint], JointName(name, sd.name), scene.Shape{
			Geometry: sd.geometry,
			Color:    color,
			Offset:   math.RBTFromTranslation(sd.offset),
			Scale:    sd.scale,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
