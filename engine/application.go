package engine

import (
	"image/color"

	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
)

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string
	// Surface width in pixels.
	Width int
	// Surface height in pixels.
	Height   int
	LogLevel core.LogLevel
	// Colour of a fully lit triangle.
	BaseColor color.RGBA
	// Everything else the engine reads at startup.
	Config *config.Config
}

// NewApplicationConfig derives the application settings from a validated configuration.
func NewApplicationConfig(cfg *config.Config) (*ApplicationConfig, error) {
	level, err := core.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &ApplicationConfig{
		Name:     cfg.Window.Name,
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		LogLevel: level,
		BaseColor: color.RGBA{
			R: cfg.Light.Color.R,
			G: cfg.Light.Color.G,
			B: cfg.Light.Color.B,
			A: 255,
		},
		Config: cfg,
	}, nil
}
