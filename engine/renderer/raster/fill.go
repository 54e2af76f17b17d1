package raster

import (
	"image/color"

	"github.com/spaghettifunk/tinyrender/engine/math"
)

// Span is one horizontal run of a filled triangle, X0 <= X1, both included.
type Span struct {
	Y  int
	X0 int
	X1 int
}

type point struct {
	x, y int
}

// edge walks an integer line from its top end to its bottom end, one row at
// a time, with the usual Bresenham error term.
type edge struct {
	x         int
	sx        int
	major     int
	minor     int
	err       int
	steep     bool
	remaining int
}

func newEdge(a, b point) edge {
	dx := b.x - a.x
	sx := 1
	if dx < 0 {
		dx = -dx
		sx = -1
	}
	dy := b.y - a.y

	e := edge{x: a.x, sx: sx}
	if dy > dx {
		e.steep = true
		e.major, e.minor = dy, dx
	} else {
		e.major, e.minor = dx, dy
	}
	e.err = e.major / 2
	e.remaining = e.major
	return e
}

// next returns the x range the edge covers on the current row and moves the
// walker to the first x of the following row.
func (e *edge) next() (int, int) {
	lo, hi := e.x, e.x
	if e.steep {
		if e.remaining > 0 {
			e.remaining--
			e.err += e.minor
			if e.err >= e.major {
				e.err -= e.major
				e.x += e.sx
			}
		}
		return lo, hi
	}

	for e.remaining > 0 {
		e.remaining--
		e.err += e.minor
		e.x += e.sx
		if e.err >= e.major {
			// y steps here, the new x opens the next row
			e.err -= e.major
			return lo, hi
		}
		lo = min(lo, e.x)
		hi = max(hi, e.x)
	}
	return lo, hi
}

// sortByY orders the vertices top to bottom. Equal rows keep their order.
func sortByY(v [3]point) [3]point {
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && v[j-1].y > v[j].y; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
	return v
}

// TriangleSpans appends to dst the horizontal spans covering the triangle
// p0 p1 p2, one per row from the top vertex to the bottom vertex. Coordinates
// are truncated to integers. Nothing is clipped.
func TriangleSpans(dst []Span, p0, p1, p2 math.Vec2) []Span {
	v := sortByY([3]point{
		{int(p0.X), int(p0.Y)},
		{int(p1.X), int(p1.Y)},
		{int(p2.X), int(p2.Y)},
	})

	long := newEdge(v[0], v[2])
	upper := newEdge(v[0], v[1])
	lower := newEdge(v[1], v[2])

	for y := v[0].y; y <= v[2].y; y++ {
		lo, hi := long.next()
		var slo, shi int
		if y < v[1].y {
			slo, shi = upper.next()
		} else {
			slo, shi = lower.next()
		}
		dst = append(dst, Span{Y: y, X0: min(lo, slo), X1: max(hi, shi)})
	}
	return dst
}

// FillTriangle scan-fills the triangle p0 p1 p2 with a flat colour.
func (f *Frame) FillTriangle(p0, p1, p2 math.Vec2, c color.RGBA) {
	f.spans = TriangleSpans(f.spans[:0], p0, p1, p2)
	for _, s := range f.spans {
		f.span(s, c)
	}
}

// span emits the part of s that lies inside the frame.
func (f *Frame) span(s Span, c color.RGBA) {
	if s.Y < 0 || s.Y >= f.height {
		return
	}
	x0 := max(s.X0, 0)
	x1 := min(s.X1, f.width-1)
	for x := x0; x <= x1; x++ {
		f.pixels = append(f.pixels, Pixel{Pos: math.Vec2{X: float32(x), Y: float32(s.Y)}, Color: c})
	}
}
