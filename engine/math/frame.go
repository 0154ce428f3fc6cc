package math

/**
 * @brief Returns the frame with the origin of o and the axes of e: the
 * position of o as seen with the orientation of e.
 */
func MixedFrame(o, e RigidBodyTransform) RigidBodyTransform {
	return RigidBodyTransform{Translation: o.Translation, Rotation: e.Rotation}
}

/**
 * @brief Applies the delta m, expressed in the coordinates of frame a, to the
 * object transform o. Both o and a are expressed in the object's parent frame.
 * The result is a * m * a⁻¹ * o.
 *
 * When a equals o this reduces to o * m, a plain local manipulation.
 */
func TransformWithRespectTo(m, o, a RigidBodyTransform) RigidBodyTransform {
	return a.Mul(m).Mul(a.Inverse()).Mul(o)
}
