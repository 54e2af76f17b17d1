package renderer

import (
	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

// plane keeps the half space its normal points into.
type plane struct {
	p math.Vec4
	n math.Vec4
}

// clipTriangle cuts tri against pl and writes the surviving 0, 1 or 2
// triangles to out. Points on the plane count as inside. changed reports
// whether the output differs from the input.
func clipTriangle(pl plane, tri metadata.Triangle, out *[2]metadata.Triangle) (n int, changed bool, err error) {
	var inside, outside [3]math.Vec4
	nIn, nOut := 0, 0
	for _, p := range tri.P {
		if math.PlaneDistance(pl.p, pl.n, p) >= 0 {
			inside[nIn] = p
			nIn++
		} else {
			outside[nOut] = p
			nOut++
		}
	}

	switch nIn {
	case 0:
		return 0, true, nil
	case 3:
		out[0] = tri
		return 1, false, nil
	case 1:
		// one point in, the triangle shrinks
		a, _, err := math.IntersectPlane(pl.p, pl.n, inside[0], outside[0])
		if err != nil {
			return 0, true, err
		}
		b, _, err := math.IntersectPlane(pl.p, pl.n, inside[0], outside[1])
		if err != nil {
			return 0, true, err
		}
		out[0] = metadata.Triangle{P: [3]math.Vec4{inside[0], a, b}, Illumination: tri.Illumination}
		return 1, true, nil
	default:
		// two points in, the quad left over becomes two triangles
		a, _, err := math.IntersectPlane(pl.p, pl.n, inside[0], outside[0])
		if err != nil {
			return 0, true, err
		}
		b, _, err := math.IntersectPlane(pl.p, pl.n, inside[1], outside[0])
		if err != nil {
			return 0, true, err
		}
		out[0] = metadata.Triangle{P: [3]math.Vec4{inside[0], inside[1], a}, Illumination: tri.Illumination}
		out[1] = metadata.Triangle{P: [3]math.Vec4{inside[1], a, b}, Illumination: tri.Illumination}
		return 2, true, nil
	}
}

// nearPlane is the z = near plane in view space, keeping what lies in front of it.
func nearPlane(near float32) plane {
	return plane{p: math.NewVec4Point(0, 0, near), n: math.NewVec4Point(0, 0, 1)}
}
