package raster

import (
	"image/color"

	"github.com/spaghettifunk/tinyrender/engine/math"
)

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Line draws an integer Bresenham line between the two points, both ends
// included. Coordinates are truncated to integers first. The pixels produced
// do not depend on the order of the endpoints.
func (f *Frame) Line(x1, y1, x2, y2 float32, c color.RGBA) {
	ax, ay := int(x1), int(y1)
	bx, by := int(x2), int(y2)

	dx := bx - ax
	dy := by - ay
	dx1 := iabs(dx)
	dy1 := iabs(dy)
	px := 2*dy1 - dx1
	py := 2*dx1 - dy1

	// the minor axis moves forward when both deltas share a sign
	step := -1
	if (dx < 0 && dy < 0) || (dx > 0 && dy > 0) {
		step = 1
	}

	if dy1 <= dx1 {
		x, y, xe := ax, ay, bx
		if dx < 0 {
			x, y, xe = bx, by, ax
		}
		f.Pixel(float32(x), float32(y), c)
		for x < xe {
			x++
			if px < 0 {
				px += 2 * dy1
			} else {
				y += step
				px += 2 * (dy1 - dx1)
			}
			f.Pixel(float32(x), float32(y), c)
		}
		return
	}

	x, y, ye := ax, ay, by
	if dy < 0 {
		x, y, ye = bx, by, ay
	}
	f.Pixel(float32(x), float32(y), c)
	for y < ye {
		y++
		if py <= 0 {
			py += 2 * dx1
		} else {
			x += step
			py += 2 * (dx1 - dy1)
		}
		f.Pixel(float32(x), float32(y), c)
	}
}

// Triangle outlines the triangle p0 p1 p2.
func (f *Frame) Triangle(p0, p1, p2 math.Vec2, c color.RGBA) {
	f.Line(p0.X, p0.Y, p1.X, p1.Y, c)
	f.Line(p1.X, p1.Y, p2.X, p2.Y, c)
	f.Line(p2.X, p2.Y, p0.X, p0.Y, c)
}
