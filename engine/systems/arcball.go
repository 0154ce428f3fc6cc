package systems

import (
	m "math"

	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/math"
)

/**
 * @brief Returns the height of the arcball sphere above the screen at p, for
 * a sphere of the given screen radius centered at center. Points outside the
 * sphere's silhouette return -1.
 */
func ScreenZ(radius float64, p, center math.Vec2) float64 {
	d := p.Sub(center)
	z2 := radius*radius - d.X*d.X - d.Y*d.Y
	if z2 < 0 {
		return -1
	}
	return m.Sqrt(z2)
}

// Arcball maps mouse drags around an on-screen pivot to rotations and translations.
type Arcball struct {
	// ScreenRadius of the virtual sphere, in pixels.
	ScreenRadius float64
	// Scale converts screen pixels to eye-space units at the pivot depth.
	Scale float64
}

/**
 * @brief Returns the rotation for a drag from one screen point to another
 * around center. When both points lie on the sphere the drag rotates in 3D;
 * when either falls outside, both are flattened onto the screen plane and
 * the drag rotates about the view axis.
 *
 * The quaternion is built directly as (v1·v2, v1×v2), which rotates by twice
 * the angle between v1 and v2.
 */
func (a Arcball) Rotation(center, from, to math.Vec2) math.Quaternion {
	d1 := from.Sub(center)
	d2 := to.Sub(center)
	v1 := math.NewVec3(d1.X, d1.Y, 0)
	v2 := math.NewVec3(d2.X, d2.Y, 0)

	z1 := ScreenZ(a.ScreenRadius, from, center)
	z2 := ScreenZ(a.ScreenRadius, to, center)
	if z1 >= 0 && z2 >= 0 {
		v1.Z = z1
		v2.Z = z2
	}

	if v1.LengthSquared() == 0 || v2.LengthSquared() == 0 {
		return math.NewQuatIdentity()
	}
	v1 = v1.Normalize()
	v2 = v2.Normalize()
	return math.NewQuatFromScalarVector(v1.Dot(v2), v1.Cross(v2))
}

/**
 * @brief Returns the translation for a drag of (dx, dy) pixels. A right drag
 * moves in the screen plane, a middle or left+right drag moves along the
 * view axis. Any other button state does not translate.
 */
func (a Arcball) Translation(mouse core.MouseState, dx, dy float64) math.Vec3 {
	switch {
	case mouse.RightOnly():
		return math.NewVec3(dx, dy, 0).MulScalar(a.Scale)
	case mouse.DepthDrag():
		return math.NewVec3(0, 0, -dy).MulScalar(a.Scale)
	}
	return math.NewVec3Zero()
}

/**
 * @brief Returns the delta transform for a drag while the arcball is shown:
 * a left drag rotates, anything else translates.
 */
func (a Arcball) Delta(mouse core.MouseState, center, from, to math.Vec2) math.RigidBodyTransform {
	if mouse.LeftOnly() {
		return math.RBTFromRotation(a.Rotation(center, from, to))
	}
	d := to.Sub(from)
	return math.RBTFromTranslation(a.Translation(mouse, d.X, d.Y))
}

/**
 * @brief Returns the delta transform for a drag while the arcball is hidden,
 * i.e. when moving the viewpoint itself. A left drag turns by dy degrees
 * about x and -dx degrees about y, a right drag moves in the view plane and
 * any other drag moves along the view axis.
 */
func EgoDelta(mouse core.MouseState, dx, dy, scale float64) math.RigidBodyTransform {
	switch {
	case mouse.LeftOnly():
		return math.RBTFromXRotation(dy).Mul(math.RBTFromYRotation(-dx))
	case mouse.RightOnly():
		return math.RBTFromTranslation(math.NewVec3(dx, dy, 0).MulScalar(scale))
	}
	return math.RBTFromTranslation(math.NewVec3(0, 0, -dy).MulScalar(scale))
}
