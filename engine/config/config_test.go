package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tinyrender.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: unexpected error %v", err)
	}
	def := Default()
	if cfg.Window != def.Window || cfg.Projection != def.Projection || cfg.Camera != def.Camera {
		t.Fatalf("Load (missing file)\nhave %+v\nwant %+v", cfg, def)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 100
height = 50

[projection]
fov_degrees = 60.0

[world]
translation = { x = 1.0, y = 2.0, z = 8.0 }

[display]
kind = "headless"

[display.headless]
frames = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error %v", err)
	}
	if cfg.Window.Width != 100 || cfg.Window.Height != 50 {
		t.Fatalf("Load window\nhave %dx%d\nwant 100x50", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Projection.FOVDegrees != 60 || cfg.Projection.Near != 0.1 {
		t.Fatalf("Load projection\nhave %+v\nwant fov 60, near 0.1", cfg.Projection)
	}
	if cfg.World.Translation != (Vec3{1, 2, 8}) {
		t.Fatalf("Load world translation\nhave %+v\nwant {1 2 8}", cfg.World.Translation)
	}
	if cfg.Display.Kind != DisplayHeadless || cfg.Display.Headless.Frames != 3 || cfg.Display.Headless.SnapshotEvery != 30 {
		t.Fatalf("Load display\nhave %+v", cfg.Display)
	}
	if a := cfg.Aspect(); a != 0.5 {
		t.Fatalf("Config.Aspect\nhave %v\nwant 0.5", a)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "[window]\nwidth = 100\n")
	t.Setenv("TINYRENDER_WINDOW_WIDTH", "320")
	t.Setenv("TINYRENDER_DISPLAY_KIND", "remote")
	t.Setenv("TINYRENDER_PROJECTION_FOV_DEGREES", "75")
	t.Setenv("TINYRENDER_DEBUG_WIREFRAME", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error %v", err)
	}
	if cfg.Window.Width != 320 {
		t.Fatalf("TINYRENDER_WINDOW_WIDTH\nhave %d\nwant 320", cfg.Window.Width)
	}
	if cfg.Display.Kind != DisplayRemote {
		t.Fatalf("TINYRENDER_DISPLAY_KIND\nhave %q\nwant remote", cfg.Display.Kind)
	}
	if cfg.Projection.FOVDegrees != 75 {
		t.Fatalf("TINYRENDER_PROJECTION_FOV_DEGREES\nhave %v\nwant 75", cfg.Projection.FOVDegrees)
	}
	if !cfg.Debug.Wireframe {
		t.Fatal("TINYRENDER_DEBUG_WIREFRAME: want true")
	}
	// untouched values keep their defaults
	if cfg.Window.Height != 240 {
		t.Fatalf("window height\nhave %d\nwant 240", cfg.Window.Height)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"syntax", "[window\nwidth = 1"},
		{"unknown key", "[window]\ncolour = 3\n"},
		{"zero width", "[window]\nwidth = 0\n"},
		{"near plane", "[projection]\nnear = 0.0\n"},
		{"far before near", "[projection]\nnear = 10.0\nfar = 5.0\n"},
		{"fov", "[projection]\nfov_degrees = 180.0\n"},
		{"display", "[display]\nkind = \"printer\"\n"},
		{"log level", "[log]\nlevel = \"chatty\"\n"},
		{"light", "[light]\ndirection = { x = 0.0, y = 0.0, z = 0.0 }\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Load\nhave %v\nwant %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Default().Encode()
	if err != nil {
		t.Fatalf("Config.Encode: unexpected error %v", err)
	}
	cfg := &Config{}
	if err := Decode(data, cfg); err != nil {
		t.Fatalf("Decode: unexpected error %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: unexpected error %v", err)
	}
}
