package math

/**
 * @brief Computes the unit face normal of the triangle p0, p1, p2 as
 * normalize((p1 - p0) x (p2 - p0)).
 * NOTE: This just generates a face normal. Winding decides the direction.
 *
 * @return The normal, or ErrZeroLength when the triangle has no area.
 */
func TriangleNormal(p0, p1, p2 Vec4) (Vec4, error) {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	return edge1.Cross(edge2).Normalize()
}

/**
 * @brief Finds where the segment start->end crosses the plane through
 * plane_p with normal plane_n.
 *
 * @param plane_p Any point on the plane.
 * @param plane_n The plane normal. Does not need to be unit length.
 * @param start The segment start.
 * @param end The segment end.
 * @return The intersection point, the parameter t along start->end, and
 * ErrZeroLength for a zero normal or ErrDivideByZero when the segment is
 * parallel to the plane.
 */
func IntersectPlane(plane_p, plane_n, start, end Vec4) (Vec4, float32, error) {
	n, err := plane_n.Normalize()
	if err != nil {
		return Vec4{}, 0, err
	}
	plane_d := -n.Dot(plane_p)
	ad := start.Dot(n)
	bd := end.Dot(n)
	if bd == ad {
		return Vec4{}, 0, ErrDivideByZero
	}
	t := (-plane_d - ad) / (bd - ad)
	lineToIntersect := end.Sub(start).MulScalar(t)
	return start.Add(lineToIntersect), t, nil
}

/**
 * @brief Signed distance from point to the plane through plane_p with unit
 * normal plane_n. Positive on the side the normal points to.
 */
func PlaneDistance(plane_p, plane_n, point Vec4) float32 {
	return plane_n.Dot(point) - plane_n.Dot(plane_p)
}
