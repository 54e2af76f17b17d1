package headless

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/platform"
	"github.com/spaghettifunk/tinyrender/engine/renderer/raster"
)

// Display renders without a window. Every SnapshotEvery-th frame is written
// to OutputDir as frame_NNNNN.png, and Poll reports quit after Frames frames.
type Display struct {
	cfg       config.HeadlessConfig
	presented int
	written   []string
}

func New(cfg config.HeadlessConfig) (*Display, error) {
	if cfg.SnapshotEvery > 0 {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: headless output dir: %w", core.ErrDisplayInit, err)
		}
	}
	core.LogInfo("headless display: %d frames, snapshot every %d into %s", cfg.Frames, cfg.SnapshotEvery, cfg.OutputDir)
	return &Display{cfg: cfg}, nil
}

func (d *Display) Poll(input *core.InputState) bool {
	if d.cfg.Frames > 0 && d.presented >= d.cfg.Frames {
		return false
	}
	return true
}

func (d *Display) Present(frame *raster.Frame) error {
	index := d.presented
	d.presented++
	if d.cfg.SnapshotEvery <= 0 || index%d.cfg.SnapshotEvery != 0 {
		return nil
	}

	path := filepath.Join(d.cfg.OutputDir, fmt.Sprintf("frame_%05d.png", index))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, platform.FrameImage(frame)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	d.written = append(d.written, path)
	core.LogDebug("wrote %s (%d pixels)", path, frame.Len())
	return nil
}

// Presented is the number of frames presented so far.
func (d *Display) Presented() int {
	return d.presented
}

// Written lists the snapshot files created so far, oldest first.
func (d *Display) Written() []string {
	return d.written
}

func (d *Display) Shutdown() error {
	core.LogInfo("headless display: %d frames presented, %d snapshots written", d.presented, len(d.written))
	return nil
}
