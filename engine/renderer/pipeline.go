package renderer

import (
	"cmp"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/renderer/components"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

var ErrInvalidPipeline = errors.New("invalid pipeline configuration")

type PipelineConfig struct {
	Width      int
	Height     int
	FOVDegrees float32
	Near       float32
	Far        float32
	// Direction the light shines from, does not need to be unit length.
	LightDirection math.Vec4
	// Lower bound of the diffuse term.
	Ambient          float32
	WorldTranslation math.Vec4
	// Initial world rotation angle in radians.
	WorldAngle float32
	// Radians per second added to the world angle by Advance.
	RotationSpeed float32
	NearClip      bool
}

func NewPipelineConfig(cfg *config.Config) PipelineConfig {
	return PipelineConfig{
		Width:            cfg.Window.Width,
		Height:           cfg.Window.Height,
		FOVDegrees:       cfg.Projection.FOVDegrees,
		Near:             cfg.Projection.Near,
		Far:              cfg.Projection.Far,
		LightDirection:   math.NewVec4Point(cfg.Light.Direction.X, cfg.Light.Direction.Y, cfg.Light.Direction.Z),
		Ambient:          cfg.Light.Ambient,
		WorldTranslation: math.NewVec4Point(cfg.World.Translation.X, cfg.World.Translation.Y, cfg.World.Translation.Z),
		WorldAngle:       cfg.World.Angle,
		RotationSpeed:    cfg.World.RotationSpeed,
		NearClip:         cfg.Debug.NearClip,
	}
}

// Pipeline turns model space triangles into sorted, lit screen space triangles.
type Pipeline struct {
	config     PipelineConfig
	projection math.Mat4
	light      math.Vec4
	theta      float32
	stats      metadata.PipelineStats
	projected  []metadata.Triangle
}

func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: surface %dx%d", ErrInvalidPipeline, cfg.Width, cfg.Height)
	}
	if cfg.Ambient < 0 || cfg.Ambient > 1 {
		return nil, fmt.Errorf("%w: ambient %v outside [0, 1]", ErrInvalidPipeline, cfg.Ambient)
	}
	light, err := cfg.LightDirection.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: light direction: %v", ErrInvalidPipeline, err)
	}
	p := &Pipeline{
		config: cfg,
		light:  light,
		theta:  cfg.WorldAngle,
	}
	if err := p.Resize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return p, nil
}

// Resize rebuilds the projection for a new surface size.
func (p *Pipeline) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: surface %dx%d", ErrInvalidPipeline, width, height)
	}
	aspect := float32(height) / float32(width)
	projection, err := math.NewMat4Projection(p.config.FOVDegrees, aspect, p.config.Near, p.config.Far)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}
	p.config.Width = width
	p.config.Height = height
	p.projection = projection
	return nil
}

// Advance spins the world by the configured rotation speed.
func (p *Pipeline) Advance(deltaTime float64) {
	p.theta += p.config.RotationSpeed * float32(deltaTime)
}

func (p *Pipeline) Angle() float32 {
	return p.theta
}

func (p *Pipeline) SetAngle(theta float32) {
	p.theta = theta
}

func (p *Pipeline) Projection() math.Mat4 {
	return p.projection
}

// Stats returns the counters of the last Process call.
func (p *Pipeline) Stats() metadata.PipelineStats {
	return p.stats
}

// World is RotZ(theta/2) * RotX(theta) * Translation.
func (p *Pipeline) World() math.Mat4 {
	t := p.config.WorldTranslation
	return math.NewMat4EulerZ(p.theta * 0.5).
		Mul(math.NewMat4EulerX(p.theta)).
		Mul(math.NewMat4Translation(t.X, t.Y, t.Z))
}

// Process runs every triangle of mesh through world, cull, light, view,
// clip, projection and viewport, then orders the survivors back to front.
// The result is appended to out[:0].
func (p *Pipeline) Process(mesh *metadata.Mesh, camera *components.Camera, out []metadata.Triangle) ([]metadata.Triangle, error) {
	p.stats.Reset()
	out = out[:0]
	p.projected = p.projected[:0]
	if mesh == nil {
		return out, nil
	}

	view, err := camera.View()
	if err != nil {
		return out, fmt.Errorf("camera view: %w", err)
	}
	world := p.World()
	near := nearPlane(p.config.Near)

	var pieces [2]metadata.Triangle
	for _, tri := range mesh.Triangles {
		p.stats.Submitted++

		var transformed metadata.Triangle
		for i := range tri.P {
			transformed.P[i] = tri.P[i].Transform(world)
		}

		normal, err := math.TriangleNormal(transformed.P[0], transformed.P[1], transformed.P[2])
		if err != nil {
			p.stats.Degenerate++
			continue
		}

		cameraRay := transformed.P[0].Sub(camera.Position)
		if normal.Dot(cameraRay) >= 0 {
			p.stats.Culled++
			continue
		}

		var viewed metadata.Triangle
		viewed.Illumination = max(p.config.Ambient, p.light.Dot(normal))
		for i := range transformed.P {
			viewed.P[i] = transformed.P[i].Transform(view)
		}

		n := 1
		pieces[0] = viewed
		if p.config.NearClip {
			var changed bool
			n, changed, err = clipTriangle(near, viewed, &pieces)
			if err != nil {
				return out, fmt.Errorf("near clip: %w", err)
			}
			if changed {
				p.stats.Clipped++
			}
		}

		for _, piece := range pieces[:n] {
			projected, ok := p.project(piece)
			if !ok {
				p.stats.DroppedW++
				continue
			}
			p.projected = append(p.projected, projected)
		}
	}

	// painter's order: farthest first, ties keep mesh order
	slices.SortStableFunc(p.projected, func(a, b metadata.Triangle) int {
		return cmp.Compare(b.MeanZ(), a.MeanZ())
	})

	// off-screen parts are left to the frame, which drops them per pixel
	out = append(out, p.projected...)

	p.stats.Emitted = len(out)
	return out, nil
}

// project moves a view space triangle to screen space. It reports false when
// a vertex cannot be divided by its w.
func (p *Pipeline) project(tri metadata.Triangle) (metadata.Triangle, bool) {
	halfW := 0.5 * float32(p.config.Width)
	halfH := 0.5 * float32(p.config.Height)

	out := metadata.Triangle{Illumination: tri.Illumination}
	for i, v := range tri.P {
		s, err := v.Transform(p.projection).PerspectiveDivide()
		if err != nil {
			return out, false
		}
		s.X = (s.X + 1.0) * halfW
		s.Y = (s.Y + 1.0) * halfH
		out.P[i] = s
	}
	return out, true
}
