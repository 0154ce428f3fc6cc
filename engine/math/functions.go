package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float64 = m.Pi
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float64 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float64 = 180.0 / K_PI
	/** @brief Tolerance used when comparing transforms produced by the algebra. */
	K_EPSILON float64 = 1e-6
	/**
	 * @brief Maximum distance from 1 allowed for the norm of a rotation
	 * quaternion. Loose enough to accept values printed with 6 digits.
	 */
	K_UNIT_NORM_EPSILON float64 = 1e-4
)

var ErrNotUnitQuaternion = errors.New("quaternion does not have unit norm")

// ------------------------------------------
// Vector 2
// ------------------------------------------

// NewVec2 creates a new 2-element vector.
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 */
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

/**
 * @brief Creates and returns a 3-component vector with all components set to 0.
 */
func NewVec3Zero() Vec3 {
	return Vec3{}
}

/**
 * @brief Returns a new vec4 using v as the x, y and z components and w for w.
 * Pass 1 for a point and 0 for a free vector.
 */
func (v Vec3) ToVec4(w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// MulScalar multiplies all elements of v by scalar.
func (v Vec3) MulScalar(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return m.Sqrt(v.LengthSquared())
}

/**
 * @brief Returns a normalized copy of the supplied vector. A zero-length
 * vector is returned unchanged.
 */
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

/**
 * @brief Returns the dot product between v and other.
 */
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

/**
 * @brief Calculates and returns the cross product of v and other.
 * The result is orthogonal to both vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 */
func (v Vec3) Compare(other Vec3, tolerance float64) bool {
	return m.Abs(v.X-other.X) <= tolerance &&
		m.Abs(v.Y-other.Y) <= tolerance &&
		m.Abs(v.Z-other.Z) <= tolerance
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

// NewVec4 creates a new 4-element vector.
func NewVec4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// ToVec3 drops the w component.
func (v Vec4) ToVec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

func (v Vec4) Compare(other Vec4, tolerance float64) bool {
	return v.ToVec3().Compare(other.ToVec3(), tolerance) && m.Abs(v.W-other.W) <= tolerance
}

// ------------------------------------------
// Matrix 4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix.
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Returns a translation matrix from the given position.
 */
func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	return out_matrix
}

/**
 * @brief Returns a uniform or non-uniform scale matrix.
 */
func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

// At returns the element at the given row and column.
func (mt Mat4) At(row, col int) float64 {
	return mt.Data[col*4+row]
}

/**
 * @brief Returns mt * other. The right-hand matrix is applied first when
 * the product multiplies a column vector.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := 0.0
			for i := 0; i < 4; i++ {
				sum += mt.Data[i*4+row] * other.Data[col*4+i]
			}
			out_matrix.Data[col*4+row] = sum
		}
	}
	return out_matrix
}

// MulVec4 multiplies the column vector v by mt.
func (mt Mat4) MulVec4(v Vec4) Vec4 {
	d := mt.Data
	return Vec4{
		X: d[0]*v.X + d[4]*v.Y + d[8]*v.Z + d[12]*v.W,
		Y: d[1]*v.X + d[5]*v.Y + d[9]*v.Z + d[13]*v.W,
		Z: d[2]*v.X + d[6]*v.Y + d[10]*v.Z + d[14]*v.W,
		W: d[3]*v.X + d[7]*v.Y + d[11]*v.Z + d[15]*v.W,
	}
}

// Mgl hands the matrix over to mathgl, which shares the column-major layout.
func (mt Mat4) Mgl() mgl64.Mat4 {
	return mgl64.Mat4(mt.Data)
}

// NewMat4FromMgl is the inverse of Mgl.
func NewMat4FromMgl(mat mgl64.Mat4) Mat4 {
	return Mat4{Data: [16]float64(mat)}
}

// ------------------------------------------
// Quaternion
// ------------------------------------------

/**
 * @brief Creates a quaternion from its scalar part w and vector part (x, y, z).
 */
func NewQuat(w, x, y, z float64) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

/**
 * @brief Builds a quaternion from a scalar part and a vector part.
 * No normalization happens here.
 */
func NewQuatFromScalarVector(w float64, v Vec3) Quaternion {
	return Quaternion{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

/**
 * @brief Creates an identity quaternion.
 */
func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

/**
 * @brief Creates a quaternion from the given axis and angle in radians.
 *
 * @param axis The axis of rotation, expected to be normalized.
 * @param angle The angle of rotation.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float64) Quaternion {
	half_angle := 0.5 * angle
	s := m.Sin(half_angle)
	return Quaternion{s * axis.X, s * axis.Y, s * axis.Z, m.Cos(half_angle)}
}

// NewQuatXRotation returns a rotation about the x axis, in degrees.
func NewQuatXRotation(degrees float64) Quaternion {
	return NewQuatFromAxisAngle(Vec3{1, 0, 0}, DegToRad(degrees))
}

// NewQuatYRotation returns a rotation about the y axis, in degrees.
func NewQuatYRotation(degrees float64) Quaternion {
	return NewQuatFromAxisAngle(Vec3{0, 1, 0}, DegToRad(degrees))
}

// NewQuatZRotation returns a rotation about the z axis, in degrees.
func NewQuatZRotation(degrees float64) Quaternion {
	return NewQuatFromAxisAngle(Vec3{0, 0, 1}, DegToRad(degrees))
}

// Vector returns the imaginary part of q.
func (q Quaternion) Vector() Vec3 {
	return Vec3{q.X, q.Y, q.Z}
}

/**
 * @brief Returns the norm of the provided quaternion.
 */
func (q Quaternion) Normal() float64 {
	return m.Sqrt(q.Dot(q))
}

/**
 * @brief Returns a normalized copy of the provided quaternion.
 */
func (q Quaternion) Normalize() Quaternion {
	normal := q.Normal()
	return Quaternion{q.X / normal, q.Y / normal, q.Z / normal, q.W / normal}
}

// IsUnit reports whether q has unit norm within K_UNIT_NORM_EPSILON.
func (q Quaternion) IsUnit() bool {
	return m.Abs(q.Normal()-1) <= K_UNIT_NORM_EPSILON
}

/**
 * @brief Returns the conjugate of the provided quaternion. That is,
 * the x, y and z elements are negated, but the w element is untouched.
 */
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

/**
 * @brief Returns the multiplicative inverse of q. For unit quaternions
 * this is the conjugate.
 */
func (q Quaternion) Inverse() Quaternion {
	n := q.Dot(q)
	c := q.Conjugate()
	return Quaternion{c.X / n, c.Y / n, c.Z / n, c.W / n}
}

// Negate flips the sign of all four components. -q and q encode the same rotation.
func (q Quaternion) Negate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, -q.W}
}

/**
 * @brief Multiplies the provided quaternions (Hamilton product q * other).
 * Applying the result rotates by other first, then by q.
 */
func (q Quaternion) Mul(other Quaternion) Quaternion {
	out_quaternion := Quaternion{}

	out_quaternion.X = q.X*other.W +
		q.Y*other.Z -
		q.Z*other.Y +
		q.W*other.X

	out_quaternion.Y = -q.X*other.Z +
		q.Y*other.W +
		q.Z*other.X +
		q.W*other.Y

	out_quaternion.Z = q.X*other.Y -
		q.Y*other.X +
		q.Z*other.W +
		q.W*other.Z

	out_quaternion.W = -q.X*other.X -
		q.Y*other.Y -
		q.Z*other.Z +
		q.W*other.W

	return out_quaternion
}

/**
 * @brief Calculates the dot product of the provided quaternions.
 */
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.X*other.X +
		q.Y*other.Y +
		q.Z*other.Z +
		q.W*other.W
}

// Rotate applies the rotation q to the vector v, computed as q * (0, v) * q⁻¹.
func (q Quaternion) Rotate(v Vec3) Vec3 {
	p := NewQuatFromScalarVector(0, v)
	return q.Mul(p).Mul(q.Inverse()).Vector()
}

/**
 * @brief Raises q to the real power alpha. For a unit quaternion encoding a
 * rotation by theta about k, the result rotates by alpha*theta about k.
 */
func (q Quaternion) Pow(alpha float64) Quaternion {
	if q.X == 0 && q.Y == 0 && q.Z == 0 {
		// real quaternions carry no axis; -1 is the identity rotation
		return NewQuat(m.Pow(m.Abs(q.W), alpha), 0, 0, 0)
	}
	n := quat.Pow(q.number(), quat.Number{Real: alpha})
	return Quaternion{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

/**
 * @brief Creates a column-major rotation matrix from the given quaternion.
 */
func (q Quaternion) ToMat4() Mat4 {
	out_matrix := NewMat4Identity()
	n := q

	out_matrix.Data[0] = 1.0 - 2.0*n.Y*n.Y - 2.0*n.Z*n.Z
	out_matrix.Data[1] = 2.0*n.X*n.Y + 2.0*n.Z*n.W
	out_matrix.Data[2] = 2.0*n.X*n.Z - 2.0*n.Y*n.W

	out_matrix.Data[4] = 2.0*n.X*n.Y - 2.0*n.Z*n.W
	out_matrix.Data[5] = 1.0 - 2.0*n.X*n.X - 2.0*n.Z*n.Z
	out_matrix.Data[6] = 2.0*n.Y*n.Z + 2.0*n.X*n.W

	out_matrix.Data[8] = 2.0*n.X*n.Z + 2.0*n.Y*n.W
	out_matrix.Data[9] = 2.0*n.Y*n.Z - 2.0*n.X*n.W
	out_matrix.Data[10] = 1.0 - 2.0*n.X*n.X - 2.0*n.Y*n.Y

	return out_matrix
}

// Compare reports whether q and other are component-wise within tolerance.
// It does not treat q and -q as equal.
func (q Quaternion) Compare(other Quaternion, tolerance float64) bool {
	return Vec4(q).Compare(Vec4(other), tolerance)
}

// SameRotation reports whether q and other encode the same rotation,
// accounting for the double cover.
func (q Quaternion) SameRotation(other Quaternion, tolerance float64) bool {
	return q.Compare(other, tolerance) || q.Compare(other.Negate(), tolerance)
}

/**
 * @brief Converts provided degrees to radians.
 */
func DegToRad(degrees float64) float64 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/**
 * @brief Converts provided radians to degrees.
 */
func RadToDeg(radians float64) float64 {
	return radians * K_RAD2DEG_MULTIPLIER
}
