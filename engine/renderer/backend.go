package renderer

import (
	"image/color"

	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/renderer/raster"
)

// Backend is the set of drawing capabilities the renderer relies on.
type Backend interface {
	Clear()
	Pixel(x, y float32, c color.RGBA)
	Line(x1, y1, x2, y2 float32, c color.RGBA)
	FillTriangle(p0, p1, p2 math.Vec2, c color.RGBA)
	Present() error
}

// OverlayBackend is implemented by backends that can show text over the frame.
type OverlayBackend interface {
	SetOverlay(lines []string)
}

// Presenter shows a finished frame. Displays implement it.
type Presenter interface {
	Present(frame *raster.Frame) error
}

// FrameBackend rasterizes into a raster.Frame and hands it to a Presenter.
type FrameBackend struct {
	frame     *raster.Frame
	presenter Presenter
}

func NewFrameBackend(width, height int, presenter Presenter) *FrameBackend {
	return &FrameBackend{
		frame:     raster.NewFrame(width, height),
		presenter: presenter,
	}
}

func (b *FrameBackend) Frame() *raster.Frame {
	return b.frame
}

func (b *FrameBackend) Resize(width, height int) {
	b.frame.Resize(width, height)
}

func (b *FrameBackend) Clear() {
	b.frame.Clear()
}

func (b *FrameBackend) Pixel(x, y float32, c color.RGBA) {
	b.frame.Pixel(x, y, c)
}

func (b *FrameBackend) Line(x1, y1, x2, y2 float32, c color.RGBA) {
	b.frame.Line(x1, y1, x2, y2, c)
}

func (b *FrameBackend) FillTriangle(p0, p1, p2 math.Vec2, c color.RGBA) {
	b.frame.FillTriangle(p0, p1, p2, c)
}

func (b *FrameBackend) SetOverlay(lines []string) {
	b.frame.SetOverlay(lines)
}

func (b *FrameBackend) Present() error {
	if b.presenter == nil {
		return nil
	}
	return b.presenter.Present(b.frame)
}
