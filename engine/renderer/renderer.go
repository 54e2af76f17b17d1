package renderer

import (
	"fmt"
	"image/color"

	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

type Renderer struct {
	backend     Backend
	frameNumber uint64
}

func NewRenderer(backend Backend) *Renderer {
	return &Renderer{
		backend: backend,
	}
}

// FrameNumber counts the frames drawn so far.
func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

// Shade scales base by the illumination. Alpha is always opaque.
func Shade(base color.RGBA, illumination float32) color.RGBA {
	i := math.Clamp(illumination, 0, 1)
	return color.RGBA{
		R: uint8(float32(base.R) * i),
		G: uint8(float32(base.G) * i),
		B: uint8(float32(base.B) * i),
		A: 255,
	}
}

// DrawFrame fills the packet triangles in order, outlines them when asked,
// presents the result and clears the backend for the next frame.
func (r *Renderer) DrawFrame(packet *metadata.RenderPacket) error {
	for _, tri := range packet.Triangles {
		p0, p1, p2 := tri.P[0].XY(), tri.P[1].XY(), tri.P[2].XY()
		r.backend.FillTriangle(p0, p1, p2, Shade(packet.BaseColor, tri.Illumination))
		if packet.Wireframe {
			r.backend.Line(p0.X, p0.Y, p1.X, p1.Y, packet.WireframeColor)
			r.backend.Line(p1.X, p1.Y, p2.X, p2.Y, packet.WireframeColor)
			r.backend.Line(p2.X, p2.Y, p0.X, p0.Y, packet.WireframeColor)
		}
	}

	if o, ok := r.backend.(OverlayBackend); ok && len(packet.Overlay) > 0 {
		o.SetOverlay(packet.Overlay)
	}

	err := r.backend.Present()
	r.backend.Clear()
	r.frameNumber++
	if err != nil {
		return fmt.Errorf("present frame %d: %w", r.frameNumber, err)
	}
	return nil
}
