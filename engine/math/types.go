package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec4 represents a homogeneous 3D vector. Points carry W = 1; W becomes the
// perspective divisor after a projection.
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief a 4x4 matrix stored row-major. Element [r][c] lives at Data[r*4+c].
 * Vectors are treated as rows and multiplied on the left (v' = v * M), so the
 * translation part of an affine matrix sits in the last row.
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}
