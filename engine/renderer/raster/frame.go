package raster

import (
	"image"
	"image/color"

	"github.com/spaghettifunk/tinyrender/engine/math"
)

// Pixel is a single coloured sample at an integral screen position.
type Pixel struct {
	Pos   math.Vec2
	Color color.RGBA
}

// Frame accumulates the pixels drawn during one frame. Pixels outside the
// frame bounds are dropped when they are drawn, so everything stored is
// presentable. Later pixels win over earlier ones at the same position.
type Frame struct {
	width   int
	height  int
	pixels  []Pixel
	spans   []Span
	overlay []string
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		width:  width,
		height: height,
		pixels: make([]Pixel, 0, width*height),
	}
}

func (f *Frame) Width() int {
	return f.width
}

func (f *Frame) Height() int {
	return f.height
}

// Len is the number of pixels drawn since the last Clear.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixels exposes the accumulated pixels in draw order. The slice is reused
// after Clear, callers that keep it across frames must copy it.
func (f *Frame) Pixels() []Pixel {
	return f.pixels
}

// Clear forgets every pixel and the overlay but keeps the backing storage.
func (f *Frame) Clear() {
	f.pixels = f.pixels[:0]
	f.overlay = f.overlay[:0]
}

// SetOverlay attaches text lines that displays draw on top of the pixels.
func (f *Frame) SetOverlay(lines []string) {
	f.overlay = append(f.overlay[:0], lines...)
}

func (f *Frame) Overlay() []string {
	return f.overlay
}

// Resize changes the frame bounds and clears it.
func (f *Frame) Resize(width, height int) {
	f.width = width
	f.height = height
	f.Clear()
}

func (f *Frame) inBounds(x, y float32) bool {
	return x >= 0 && x < float32(f.width) && y >= 0 && y < float32(f.height)
}

// Pixel records a pixel at (x, y). Out of range pixels are ignored.
func (f *Frame) Pixel(x, y float32, c color.RGBA) {
	if !f.inBounds(x, y) {
		return
	}
	f.pixels = append(f.pixels, Pixel{Pos: math.Vec2{X: x, Y: y}, Color: c})
}

// Draw paints the accumulated pixels, in order, onto img.
func (f *Frame) Draw(img *image.RGBA) {
	for _, p := range f.pixels {
		img.SetRGBA(int(p.Pos.X), int(p.Pos.Y), p.Color)
	}
}

// Image renders the frame onto a new image over background.
func (f *Frame) Image(background color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	if background != (color.RGBA{}) {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i+0] = background.R
			img.Pix[i+1] = background.G
			img.Pix[i+2] = background.B
			img.Pix[i+3] = background.A
		}
	}
	f.Draw(img)
	return img
}
