package math

// Lerp linearly interpolates between a and b. alpha 0 yields a, 1 yields b.
func Lerp(a, b Vec3, alpha float64) Vec3 {
	return a.MulScalar(1 - alpha).Add(b.MulScalar(alpha))
}

/**
 * @brief Spherically interpolates between two unit quaternions. The relative
 * rotation q1·q0⁻¹ is flipped onto the short arc before being raised to alpha,
 * so the result never takes the long way around.
 */
func Slerp(q0, q1 Quaternion, alpha float64) Quaternion {
	base := q1.Mul(q0.Inverse())
	if base.W < 0 {
		base = base.Negate()
	}
	return base.Pow(alpha).Mul(q0)
}

/**
 * @brief Evaluates the cubic Bezier curve (p0, p1, p2, p3) at alpha using
 * repeated linear interpolation.
 */
func BezierVec3(p0, p1, p2, p3 Vec3, alpha float64) Vec3 {
	f := Lerp(p0, p1, alpha)
	g := Lerp(p1, p2, alpha)
	h := Lerp(p2, p3, alpha)
	m := Lerp(f, g, alpha)
	n := Lerp(g, h, alpha)
	return Lerp(m, n, alpha)
}

/**
 * @brief Quaternion counterpart of BezierVec3, with every linear step
 * replaced by Slerp.
 */
func BezierQuat(q0, q1, q2, q3 Quaternion, alpha float64) Quaternion {
	f := Slerp(q0, q1, alpha)
	g := Slerp(q1, q2, alpha)
	h := Slerp(q2, q3, alpha)
	m := Slerp(f, g, alpha)
	n := Slerp(g, h, alpha)
	return Slerp(m, n, alpha)
}

/**
 * @brief Interpolates between c0 and c1 on the Catmull-Rom spline through
 * prev, c0, c1 and next. prev and next only shape the tangents at c0 and c1.
 *
 * The spline is evaluated as a cubic Bezier whose inner control points are
 *   d = (c1 - prev)/6 + c0    and    e = -(next - c0)/6 + c1
 * for translations, and
 *   d = (c1·prev⁻¹)^(1/6)·c0  and    e = (next·c0⁻¹)^(-1/6)·c1
 * for rotations. alpha must lie in [0, 1]; it is not clamped.
 */
func CatmullRom(prev, c0, c1, next RigidBodyTransform, alpha float64) RigidBodyTransform {
	d := c1.Translation.Sub(prev.Translation).MulScalar(1.0 / 6.0).Add(c0.Translation)
	e := next.Translation.Sub(c0.Translation).MulScalar(-1.0 / 6.0).Add(c1.Translation)
	translation := BezierVec3(c0.Translation, d, e, c1.Translation, alpha)

	dq := c1.Rotation.Mul(prev.Rotation.Inverse()).Pow(1.0 / 6.0).Mul(c0.Rotation)
	eq := next.Rotation.Mul(c0.Rotation.Inverse()).Pow(-1.0 / 6.0).Mul(c1.Rotation)
	rotation := BezierQuat(c0.Rotation, dq, eq, c1.Rotation, alpha)

	return RigidBodyTransform{Translation: translation, Rotation: rotation}
}
