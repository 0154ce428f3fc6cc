package math

import "fmt"

/**
 * @brief Creates and returns the identity rigid body transform.
 */
func RBTCreate() RigidBodyTransform {
	return RigidBodyTransform{Rotation: NewQuatIdentity()}
}

/**
 * @brief Creates a transform that only translates by the given vector.
 */
func RBTFromTranslation(translation Vec3) RigidBodyTransform {
	return RigidBodyTransform{Translation: translation, Rotation: NewQuatIdentity()}
}

/**
 * @brief Creates a transform that only rotates by the given quaternion.
 */
func RBTFromRotation(rotation Quaternion) RigidBodyTransform {
	return RigidBodyTransform{Rotation: rotation}
}

/**
 * @brief Creates a transform that rotates first and then translates.
 */
func RBTFromTranslationRotation(translation Vec3, rotation Quaternion) RigidBodyTransform {
	return RigidBodyTransform{Translation: translation, Rotation: rotation}
}

// RBTFromXRotation returns a pure rotation about the x axis, in degrees.
func RBTFromXRotation(degrees float64) RigidBodyTransform {
	return RBTFromRotation(NewQuatXRotation(degrees))
}

// RBTFromYRotation returns a pure rotation about the y axis, in degrees.
func RBTFromYRotation(degrees float64) RigidBodyTransform {
	return RBTFromRotation(NewQuatYRotation(degrees))
}

// RBTFromZRotation returns a pure rotation about the z axis, in degrees.
func RBTFromZRotation(degrees float64) RigidBodyTransform {
	return RBTFromRotation(NewQuatZRotation(degrees))
}

/**
 * @brief Returns t * other: the transform that applies other first and then t.
 * The translation is t.T + t.R·other.T and the rotation is t.R·other.R.
 */
func (t RigidBodyTransform) Mul(other RigidBodyTransform) RigidBodyTransform {
	return RigidBodyTransform{
		Translation: t.Translation.Add(t.Rotation.Rotate(other.Translation)),
		Rotation:    t.Rotation.Mul(other.Rotation),
	}
}

// Compose multiplies the given transforms left to right. With no
// arguments it returns the identity.
func Compose(transforms ...RigidBodyTransform) RigidBodyTransform {
	out := RBTCreate()
	for _, t := range transforms {
		out = out.Mul(t)
	}
	return out
}

/**
 * @brief Returns the inverse transform. The rotation is inverted and the
 * negated translation is carried into the inverted frame, so that
 * t.Mul(t.Inverse()) is the identity.
 */
func (t RigidBodyTransform) Inverse() RigidBodyTransform {
	inv := t.Rotation.Inverse()
	return RigidBodyTransform{
		Translation: inv.Rotate(t.Translation).Negate(),
		Rotation:    inv,
	}
}

/**
 * @brief Applies the transform to a homogeneous coordinate. Points (w == 1)
 * are rotated and translated; vectors (w == 0) are only rotated.
 * Any other w is a programming error and panics.
 */
func (t RigidBodyTransform) Apply(v Vec4) Vec4 {
	switch v.W {
	case 1:
		return t.ApplyPoint(v.ToVec3()).ToVec4(1)
	case 0:
		return t.ApplyVector(v.ToVec3()).ToVec4(0)
	default:
		panic(fmt.Sprintf("rigid body transform applied to homogeneous coordinate with w=%v", v.W))
	}
}

// ApplyPoint rotates p and then translates it.
func (t RigidBodyTransform) ApplyPoint(p Vec3) Vec3 {
	return t.Rotation.Rotate(p).Add(t.Translation)
}

// ApplyVector rotates v. Translation has no effect on free vectors.
func (t RigidBodyTransform) ApplyVector(v Vec3) Vec3 {
	return t.Rotation.Rotate(v)
}

// TransFact keeps only the translation part of t.
func (t RigidBodyTransform) TransFact() RigidBodyTransform {
	return RBTFromTranslation(t.Translation)
}

// LinFact keeps only the rotation part of t.
func (t RigidBodyTransform) LinFact() RigidBodyTransform {
	return RBTFromRotation(t.Rotation)
}

/**
 * @brief Returns the column-major 4x4 matrix equivalent to the transform.
 */
func (t RigidBodyTransform) ToMat4() Mat4 {
	out_matrix := t.Rotation.ToMat4()
	out_matrix.Data[12] = t.Translation.X
	out_matrix.Data[13] = t.Translation.Y
	out_matrix.Data[14] = t.Translation.Z
	return out_matrix
}

/**
 * @brief Compares two transforms component-wise. Rotations q and -q are
 * treated as equal since they encode the same rotation.
 */
func (t RigidBodyTransform) Compare(other RigidBodyTransform, tolerance float64) bool {
	return t.Translation.Compare(other.Translation, tolerance) &&
		t.Rotation.SameRotation(other.Rotation, tolerance)
}

// Validate reports ErrNotUnitQuaternion when the rotation drifted away
// from unit norm.
func (t RigidBodyTransform) Validate() error {
	if !t.Rotation.IsUnit() {
		return ErrNotUnitQuaternion
	}
	return nil
}

func (t RigidBodyTransform) String() string {
	return fmt.Sprintf("t=(%g, %g, %g) r=(%g, %g, %g, %g)",
		t.Translation.X, t.Translation.Y, t.Translation.Z,
		t.Rotation.W, t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
}
