package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float64
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// Vec4 represents a 4D vector. When used as a homogeneous coordinate,
// W is 1 for points and 0 for free vectors.
type Vec4 struct {
	X, Y, Z, W float64
}

/**
 * @brief A quaternion, used to represent rotational orientation.
 * Only unit quaternions represent rotations; callers are responsible
 * for keeping them normalized.
 */
type Quaternion Vec4

/**
 * @brief a 4x4 matrix, stored column-major, typically used to hand
 * transforms over to the rendering boundary.
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float64
}

/**
 * @brief Represents a rigid body transform: a rotation followed by a
 * translation, with no scaling or shearing. RigidBodyTransforms are
 * plain values and form a group under Mul.
 */
type RigidBodyTransform struct {
	/** @brief The translation component. */
	Translation Vec3
	/** @brief The rotation component. Must have unit norm. */
	Rotation Quaternion
}
