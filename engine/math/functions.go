package math

import (
	m "math"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
	/** @brief Below this magnitude a projected w is treated as zero. */
	K_W_EPSILON float32 = 1e-6
)

/**
 * Note that these are here in order to prevent having to convert to
 * float64 everywhere.
 */
func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func ktan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

func kfinite(x float32) bool {
	return !m.IsNaN(float64(x)) && !m.IsInf(float64(x), 0)
}

// ------------------------------------------
// Vector 2
// ------------------------------------------

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 */
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	if kabs(v.X-other.X) > tolerance {
		return false
	}
	if kabs(v.Y-other.Y) > tolerance {
		return false
	}
	return true
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

/**
 * @brief Creates and returns a new 4-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @param z The z value.
 * @param w The w value.
 * @return A new 4-element vector.
 */
func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

/**
 * @brief Creates an affine point (w = 1).
 */
func NewVec4Point(x, y, z float32) Vec4 {
	return Vec4{x, y, z, 1.0}
}

/**
 * @brief Creates and returns a point at the origin.
 */
func NewVec4Zero() Vec4 {
	return Vec4{0.0, 0.0, 0.0, 1.0}
}

/**
 * @brief Creates and returns a vector pointing up (0, 1, 0).
 */
func NewVec4Up() Vec4 {
	return Vec4{0.0, 1.0, 0.0, 1.0}
}

/**
 * @brief Creates and returns a vector pointing into the screen (0, 0, 1).
 */
func NewVec4Forward() Vec4 {
	return Vec4{0.0, 0.0, 1.0, 1.0}
}

/**
 * @brief Adds other to v component-wise. The result is an affine point.
 */
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{
		v.X + other.X,
		v.Y + other.Y,
		v.Z + other.Z,
		1.0}
}

/**
 * @brief Subtracts other from v component-wise. The result is an affine point.
 */
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{
		v.X - other.X,
		v.Y - other.Y,
		v.Z - other.Z,
		1.0}
}

/**
 * @brief Multiplies x, y and z of v by scalar.
 */
func (v Vec4) MulScalar(scalar float32) Vec4 {
	return Vec4{
		v.X * scalar,
		v.Y * scalar,
		v.Z * scalar,
		1.0}
}

/**
 * @brief Divides x, y and z of v by scalar.
 *
 * @return ErrDivideByZero when scalar is zero.
 */
func (v Vec4) DivScalar(scalar float32) (Vec4, error) {
	if scalar == 0 {
		return Vec4{}, ErrDivideByZero
	}
	return Vec4{
		v.X / scalar,
		v.Y / scalar,
		v.Z / scalar,
		1.0}, nil
}

/**
 * @brief Returns the dot product of the x, y and z components.
 */
func (v Vec4) Dot(other Vec4) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

/**
 * @brief Calculates and returns the cross product of v and other. w is ignored.
 */
func (v Vec4) Cross(other Vec4) Vec4 {
	return Vec4{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
		1.0}
}

/**
 * @brief Returns the squared length of the x, y, z part.
 */
func (v Vec4) LengthSquared() float32 {
	return v.Dot(v)
}

/**
 * @brief Returns the length of the x, y, z part.
 */
func (v Vec4) Length() float32 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Returns a unit length copy of v.
 *
 * @return ErrZeroLength when v has no usable length.
 */
func (v Vec4) Normalize() (Vec4, error) {
	length := v.Length()
	if length == 0 || !kfinite(length) {
		return Vec4{}, ErrZeroLength
	}
	return Vec4{
		v.X / length,
		v.Y / length,
		v.Z / length,
		1.0}, nil
}

/**
 * @brief Divides x, y and z by w. Used right after a projection.
 *
 * @return ErrZeroW when |w| is below K_W_EPSILON.
 */
func (v Vec4) PerspectiveDivide() (Vec4, error) {
	if kabs(v.W) < K_W_EPSILON || !kfinite(v.W) {
		return Vec4{}, ErrZeroW
	}
	return Vec4{
		v.X / v.W,
		v.Y / v.W,
		v.Z / v.W,
		1.0}, nil
}

/**
 * @brief Multiplies v as a row vector by m (v * m). All four components take part.
 *
 * @param m The matrix to transform by.
 * @return A transformed copy of v.
 */
func (v Vec4) Transform(m Mat4) Vec4 {
	out := Vec4{}
	out.X = v.X*m.Data[0+0] + v.Y*m.Data[4+0] + v.Z*m.Data[8+0] + v.W*m.Data[12+0]
	out.Y = v.X*m.Data[0+1] + v.Y*m.Data[4+1] + v.Z*m.Data[8+1] + v.W*m.Data[12+1]
	out.Z = v.X*m.Data[0+2] + v.Y*m.Data[4+2] + v.Z*m.Data[8+2] + v.W*m.Data[12+2]
	out.W = v.X*m.Data[0+3] + v.Y*m.Data[4+3] + v.Z*m.Data[8+3] + v.W*m.Data[12+3]
	return out
}

/**
 * @brief Returns the x and y components as a Vec2.
 */
func (v Vec4) XY() Vec2 {
	return Vec2{v.X, v.Y}
}

/**
 * @brief Compares x, y and z of v and other and ensures the difference
 * is less than tolerance.
 *
 * @param other The vector to compare with.
 * @param tolerance The difference tolerance. Typically K_FLOAT_EPSILON or similar.
 * @return True if within tolerance; otherwise false.
 */
func (v Vec4) Compare(other Vec4, tolerance float32) bool {
	if kabs(v.X-other.X) > tolerance {
		return false
	}
	if kabs(v.Y-other.Y) > tolerance {
		return false
	}
	if kabs(v.Z-other.Z) > tolerance {
		return false
	}
	return true
}

// ------------------------------------------
// Matrix 4x4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 *
 * @return A new identity matrix
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

// At returns the element at row r, column c.
func (mt Mat4) At(r, c int) float32 {
	return mt.Data[r*4+c]
}

// Set writes the element at row r, column c.
func (mt *Mat4) Set(r, c int, value float32) {
	mt.Data[r*4+c] = value
}

/**
 * @brief Returns the result of multiplying mt and other (mt * other).
 * Applying the result to a row vector applies mt first, then other.
 *
 * @param other The second matrix to be multiplied.
 * @return The result of the matrix multiplication.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out_matrix.Data[row*4+col] = sum
		}
	}

	return out_matrix
}

/**
 * @brief Element-wise comparison of two matrices.
 */
func (mt Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := range mt.Data {
		if kabs(mt.Data[i]-other.Data[i]) > tolerance {
			return false
		}
	}
	return true
}

/**
 * @brief Creates and returns a perspective projection matrix.
 *
 * Depth is remapped non-linearly as z' = z*far/(far-near) - far*near/(far-near),
 * and [2][3] = 1 copies the view-space z into w for the perspective divide.
 *
 * @param fov_degrees The vertical field of view in degrees.
 * @param aspect_ratio Height divided by width of the target surface.
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance.
 * @return A new perspective matrix, or ErrInvalidProjection.
 */
func NewMat4Projection(fov_degrees, aspect_ratio, near_clip, far_clip float32) (Mat4, error) {
	if fov_degrees <= 0 || fov_degrees >= 180 {
		return Mat4{}, ErrInvalidProjection
	}
	if aspect_ratio <= 0 || near_clip <= 0 || far_clip <= near_clip {
		return Mat4{}, ErrInvalidProjection
	}
	fov_rad := 1.0 / ktan(fov_degrees*0.5*K_DEG2RAD_MULTIPLIER)

	out_matrix := Mat4{}
	out_matrix.Data[0] = aspect_ratio * fov_rad
	out_matrix.Data[5] = fov_rad
	out_matrix.Data[10] = far_clip / (far_clip - near_clip)
	out_matrix.Data[14] = (-far_clip * near_clip) / (far_clip - near_clip)
	out_matrix.Data[11] = 1.0
	out_matrix.Data[15] = 0.0
	return out_matrix, nil
}

/**
 * @brief Creates a camera-to-world matrix positioned at position and
 * oriented towards target. The basis is built with Gram-Schmidt:
 * forward = normalize(target - position), up loses its forward component,
 * right = up x forward.
 *
 * @param position The position of the camera.
 * @param target The position to "point at".
 * @param up The approximate up vector.
 * @return The camera matrix, or ErrZeroLength for a degenerate basis.
 */
func NewMat4PointAt(position, target, up Vec4) (Mat4, error) {
	forward, err := target.Sub(position).Normalize()
	if err != nil {
		return Mat4{}, err
	}

	a := forward.MulScalar(up.Dot(forward))
	newUp, err := up.Sub(a).Normalize()
	if err != nil {
		return Mat4{}, err
	}

	right := newUp.Cross(forward)

	out_matrix := Mat4{}
	out_matrix.Data[0] = right.X
	out_matrix.Data[1] = right.Y
	out_matrix.Data[2] = right.Z
	out_matrix.Data[3] = 0.0
	out_matrix.Data[4] = newUp.X
	out_matrix.Data[5] = newUp.Y
	out_matrix.Data[6] = newUp.Z
	out_matrix.Data[7] = 0.0
	out_matrix.Data[8] = forward.X
	out_matrix.Data[9] = forward.Y
	out_matrix.Data[10] = forward.Z
	out_matrix.Data[11] = 0.0
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	out_matrix.Data[15] = 1.0
	return out_matrix, nil
}

/**
 * @brief Inverts a rigid (rotation + translation) matrix by transposing the
 * rotation block and rotating the negated translation.
 * NOTE: The result is wrong for any matrix with scale, shear or projection.
 *
 * @return The inverse of mt.
 */
func (mt Mat4) QuickInverse() Mat4 {
	m := mt.Data
	out_matrix := Mat4{}
	o := &out_matrix.Data

	o[0] = m[0]
	o[1] = m[4]
	o[2] = m[8]
	o[3] = 0.0
	o[4] = m[1]
	o[5] = m[5]
	o[6] = m[9]
	o[7] = 0.0
	o[8] = m[2]
	o[9] = m[6]
	o[10] = m[10]
	o[11] = 0.0
	o[12] = -(m[12]*o[0] + m[13]*o[4] + m[14]*o[8])
	o[13] = -(m[12]*o[1] + m[13]*o[5] + m[14]*o[9])
	o[14] = -(m[12]*o[2] + m[13]*o[6] + m[14]*o[10])
	o[15] = 1.0
	return out_matrix
}

/**
 * @brief Creates and returns a translation matrix.
 */
func NewMat4Translation(x, y, z float32) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = x
	out_matrix.Data[13] = y
	out_matrix.Data[14] = z
	return out_matrix
}

/**
 * @brief Creates a rotation matrix about the x axis.
 *
 * @param angle_radians The x angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerX(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)

	out_matrix.Data[5] = c
	out_matrix.Data[6] = s
	out_matrix.Data[9] = -s
	out_matrix.Data[10] = c
	return out_matrix
}

/**
 * @brief Creates a rotation matrix about the y axis.
 *
 * @param angle_radians The y angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerY(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)

	out_matrix.Data[0] = c
	out_matrix.Data[2] = s
	out_matrix.Data[8] = -s
	out_matrix.Data[10] = c
	return out_matrix
}

/**
 * @brief Creates a rotation matrix about the z axis.
 *
 * @param angle_radians The z angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerZ(angle_radians float32) Mat4 {
	out_matrix := NewMat4Identity()

	c := kcos(angle_radians)
	s := ksin(angle_radians)

	out_matrix.Data[0] = c
	out_matrix.Data[1] = s
	out_matrix.Data[4] = -s
	out_matrix.Data[5] = c
	return out_matrix
}

/**
 * @brief Converts provided degrees to radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/**
 * @brief Converts provided radians to degrees.
 */
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}
