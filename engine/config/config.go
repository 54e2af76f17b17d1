package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/tinyrender/engine/core"
)

// EnvPrefix prefixes every environment override, e.g. TINYRENDER_WINDOW_WIDTH.
const EnvPrefix = "TINYRENDER"

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DisplayWindow   = "window"
	DisplayHeadless = "headless"
	DisplayRemote   = "remote"
)

type Vec3 struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
	Z float32 `toml:"z"`
}

type Color struct {
	R uint8 `toml:"r"`
	G uint8 `toml:"g"`
	B uint8 `toml:"b"`
}

type WindowConfig struct {
	// The application name used in windowing, if applicable.
	Name   string `toml:"name"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// Integer upscale applied by the window display.
	Scale int `toml:"scale"`
}

type ProjectionConfig struct {
	FOVDegrees float32 `toml:"fov_degrees" split_words:"true"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
}

type CameraConfig struct {
	Position  Vec3    `toml:"position"`
	Yaw       float32 `toml:"yaw"`
	MoveSpeed float32 `toml:"move_speed" split_words:"true"`
	TurnSpeed float32 `toml:"turn_speed" split_words:"true"`
}

type LightConfig struct {
	Direction Vec3 `toml:"direction"`
	// Lower bound of the diffuse term.
	Ambient float32 `toml:"ambient"`
	Color   Color   `toml:"color"`
}

type WorldConfig struct {
	Translation   Vec3    `toml:"translation"`
	Angle         float32 `toml:"angle"`
	RotationSpeed float32 `toml:"rotation_speed" split_words:"true"`
}

type FrameConfig struct {
	TargetFPS   int  `toml:"target_fps" split_words:"true"`
	LimitFrames bool `toml:"limit_frames" split_words:"true"`
	// Frames between two metrics log lines. 0 disables them.
	MetricsEvery int `toml:"metrics_every" split_words:"true"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type AssetsConfig struct {
	Dir           string `toml:"dir"`
	Mesh          string `toml:"mesh"`
	HotReload     bool   `toml:"hot_reload" split_words:"true"`
	MaxLineLength int    `toml:"max_line_length" split_words:"true"`
	Workers       int    `toml:"workers"`
}

type HeadlessConfig struct {
	OutputDir     string `toml:"output_dir" split_words:"true"`
	Frames        int    `toml:"frames"`
	SnapshotEvery int    `toml:"snapshot_every" split_words:"true"`
}

type RemoteConfig struct {
	Addr string `toml:"addr"`
}

type DisplayConfig struct {
	Kind     string         `toml:"kind"`
	Headless HeadlessConfig `toml:"headless"`
	Remote   RemoteConfig   `toml:"remote"`
}

type DebugConfig struct {
	Wireframe bool `toml:"wireframe"`
	NearClip  bool `toml:"near_clip" split_words:"true"`
	HUD       bool `toml:"hud"`
}

type Config struct {
	Window     WindowConfig     `toml:"window"`
	Projection ProjectionConfig `toml:"projection"`
	Camera     CameraConfig     `toml:"camera"`
	Light      LightConfig      `toml:"light"`
	World      WorldConfig      `toml:"world"`
	Frame      FrameConfig      `toml:"frame"`
	Log        LogConfig        `toml:"log"`
	Assets     AssetsConfig     `toml:"assets"`
	Display    DisplayConfig    `toml:"display"`
	Debug      DebugConfig      `toml:"debug"`
}

// Default returns the built-in configuration: a 256x240 surface, 90 degree
// field of view, camera at the origin and the model pushed 16 units forward.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Name:   "tinyrender",
			Width:  256,
			Height: 240,
			Scale:  4,
		},
		Projection: ProjectionConfig{
			FOVDegrees: 90,
			Near:       0.1,
			Far:        1000,
		},
		Camera: CameraConfig{
			MoveSpeed: 8,
			TurnSpeed: 2,
		},
		Light: LightConfig{
			Direction: Vec3{0, 0, -1},
			Ambient:   0.1,
			Color:     Color{255, 255, 255},
		},
		World: WorldConfig{
			Translation:   Vec3{0, 0, 16},
			RotationSpeed: 1,
		},
		Frame: FrameConfig{
			TargetFPS:    60,
			LimitFrames:  true,
			MetricsEvery: 300,
		},
		Log: LogConfig{
			Level: "info",
		},
		Assets: AssetsConfig{
			Dir:           "assets",
			Mesh:          "models/cube.obj",
			HotReload:     true,
			MaxLineLength: 256,
			Workers:       2,
		},
		Display: DisplayConfig{
			Kind: DisplayWindow,
			Headless: HeadlessConfig{
				OutputDir:     "out",
				Frames:        120,
				SnapshotEvery: 30,
			},
			Remote: RemoteConfig{
				Addr: ":8080",
			},
		},
		Debug: DebugConfig{
			NearClip: true,
			HUD:      true,
		},
	}
}

// Load builds the configuration from the defaults, the TOML file at path and
// the environment, in that order. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := Decode(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode applies a TOML document on top of cfg. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%w: line %d column %d: %s", ErrInvalidConfig, row, col, derr.String())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Aspect is height divided by width, the ratio the projection expects.
func (c *Config) Aspect() float32 {
	return float32(c.Window.Height) / float32(c.Window.Width)
}

func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Window.Scale > 0, "window scale %d must be positive", c.Window.Scale)
	check(c.Projection.FOVDegrees > 0 && c.Projection.FOVDegrees < 180, "fov %v must be in (0, 180)", c.Projection.FOVDegrees)
	check(c.Projection.Near > 0, "near plane %v must be positive", c.Projection.Near)
	check(c.Projection.Far > c.Projection.Near, "far plane %v must be beyond near plane %v", c.Projection.Far, c.Projection.Near)
	check(c.Camera.MoveSpeed >= 0 && c.Camera.TurnSpeed >= 0, "camera speeds must not be negative")
	check(c.Light.Direction != (Vec3{}), "light direction must not be zero")
	check(c.Light.Ambient >= 0 && c.Light.Ambient <= 1, "light ambient %v must be in [0, 1]", c.Light.Ambient)
	check(c.Frame.TargetFPS > 0, "target fps %d must be positive", c.Frame.TargetFPS)
	check(c.Frame.MetricsEvery >= 0, "metrics interval %d must not be negative", c.Frame.MetricsEvery)
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		check(false, "%v", err)
	}
	check(c.Assets.Mesh != "", "a mesh is required")
	check(c.Assets.MaxLineLength > 0, "max line length %d must be positive", c.Assets.MaxLineLength)
	check(c.Assets.Workers > 0, "worker count %d must be positive", c.Assets.Workers)
	check(c.Display.Headless.Frames >= 0, "headless frame count %d must not be negative", c.Display.Headless.Frames)
	check(c.Display.Headless.SnapshotEvery > 0, "headless snapshot interval %d must be positive", c.Display.Headless.SnapshotEvery)

	switch c.Display.Kind {
	case DisplayWindow, DisplayHeadless:
	case DisplayRemote:
		check(c.Display.Remote.Addr != "", "remote display needs an address")
	default:
		check(false, "unknown display %q", c.Display.Kind)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
