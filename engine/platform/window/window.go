package window

import (
	"errors"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/platform"
	"github.com/spaghettifunk/tinyrender/engine/renderer/raster"
)

var keyMap = map[ebiten.Key]core.KeyCode{
	ebiten.KeyArrowUp:    core.KEY_UP,
	ebiten.KeyArrowDown:  core.KEY_DOWN,
	ebiten.KeyArrowLeft:  core.KEY_LEFT,
	ebiten.KeyArrowRight: core.KEY_RIGHT,
	ebiten.KeyW:          core.KEY_W,
	ebiten.KeyA:          core.KEY_A,
	ebiten.KeyS:          core.KEY_S,
	ebiten.KeyD:          core.KEY_D,
	ebiten.KeyQ:          core.KEY_Q,
	ebiten.KeyEscape:     core.KEY_ESCAPE,
	ebiten.KeySpace:      core.KEY_SPACE,
	ebiten.KeyEnter:      core.KEY_ENTER,
	ebiten.KeyF1:         core.KEY_F1,
}

// Display shows frames in a desktop window. ebiten owns the main OS thread,
// so the engine loop runs on its own goroutine (see Run) and the two sides
// only meet through the mutex guarded key snapshot and frame copy.
type Display struct {
	name   string
	width  int
	height int
	scale  int

	mu       sync.Mutex
	keys     [256]bool
	closing  bool
	loopDone bool
	loopErr  error
	front    *image.RGBA
}

func New(cfg config.WindowConfig) *Display {
	scale := cfg.Scale
	if scale < 1 {
		scale = 1
	}
	return &Display{
		name:   cfg.Name,
		width:  cfg.Width,
		height: cfg.Height,
		scale:  scale,
	}
}

/**
 * @brief Opens the window and runs loop on a separate goroutine. Blocks until
 * the window is gone. Must be called from the main goroutine.
 * @return The error returned by loop, if any.
 */
func (d *Display) Run(loop func() error) error {
	ebiten.SetWindowTitle(d.name)
	ebiten.SetWindowSize(d.width*d.scale, d.height*d.scale)
	ebiten.SetWindowClosingHandled(true)

	go func() {
		err := loop()
		d.mu.Lock()
		d.loopDone = true
		d.loopErr = err
		d.mu.Unlock()
	}()

	if err := ebiten.RunGame(d); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loopErr
}

// Update is called by ebiten on the main thread.
func (d *Display) Update() error {
	var keys [256]bool
	for k, code := range keyMap {
		keys[uint8(code)] = ebiten.IsKeyPressed(k)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys = keys
	if ebiten.IsWindowBeingClosed() {
		d.closing = true
	}
	if d.loopDone {
		return ebiten.Termination
	}
	return nil
}

// Draw is called by ebiten on the main thread.
func (d *Display) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.front == nil {
		return
	}
	if d.front.Bounds().Dx() == d.width && d.front.Bounds().Dy() == d.height {
		screen.WritePixels(d.front.Pix)
	}
}

func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	return d.width, d.height
}

func (d *Display) Poll(input *core.InputState) bool {
	d.mu.Lock()
	keys := d.keys
	closing := d.closing
	d.mu.Unlock()

	for _, code := range keyMap {
		input.ProcessKey(code, keys[uint8(code)])
	}
	return !closing
}

// Present copies the frame so the engine can reuse its accumulator right away.
func (d *Display) Present(frame *raster.Frame) error {
	img := platform.FrameImage(frame)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.front = img
	return nil
}

// Shutdown asks the window to close once the engine loop is done with it.
func (d *Display) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closing = true
	return nil
}
