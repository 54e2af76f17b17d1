package platform

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var hudColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}

const hudMargin = 2

// DrawOverlay writes lines top to bottom in the upper left corner of img.
func DrawOverlay(img *image.RGBA, lines []string) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(hudColor),
		Face: face,
	}
	lineHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		d.Dot = fixed.P(hudMargin, hudMargin+ascent+i*lineHeight)
		d.DrawString(line)
	}
}
