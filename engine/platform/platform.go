package platform

import (
	"image"
	"image/color"
	"time"

	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/renderer/raster"
)

var startTime = time.Now()

// Background is the colour behind every presented frame.
var Background = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// Display is a surface that shows finished frames and reports keyboard input.
type Display interface {
	// Poll records the current key states into input. It returns false once
	// the user asked to quit (window closed, remote quit, frame budget spent).
	Poll(input *core.InputState) bool
	// Present shows frame. The frame is reused after Present returns.
	Present(frame *raster.Frame) error
	Shutdown() error
}

// GetAbsoluteTime returns seconds since the process started.
func GetAbsoluteTime() float64 {
	return time.Since(startTime).Seconds()
}

// Sleep on the thread for the provided ms. This blocks the main thread.
// Should only be used for giving time back to the OS for unused update power.
func Sleep(ms float64) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

// FrameImage renders frame with its overlay text into a new image.
func FrameImage(frame *raster.Frame) *image.RGBA {
	img := frame.Image(Background)
	DrawOverlay(img, frame.Overlay())
	return img
}
