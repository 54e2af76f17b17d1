package renderer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/renderer/components"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

const tolerance = 1e-3

func tri(a, b, c [3]float32) metadata.Triangle {
	return metadata.Triangle{P: [3]math.Vec4{
		math.NewVec4Point(a[0], a[1], a[2]),
		math.NewVec4Point(b[0], b[1], b[2]),
		math.NewVec4Point(c[0], c[1], c[2]),
	}}
}

func mesh(tris ...metadata.Triangle) *metadata.Mesh {
	m := metadata.NewMesh("test")
	m.Triangles = tris
	return m
}

func testConfig() PipelineConfig {
	return PipelineConfig{
		Width:            100,
		Height:           100,
		FOVDegrees:       90,
		Near:             0.1,
		Far:              1000,
		LightDirection:   math.NewVec4Point(0, 0, -1),
		Ambient:          0.1,
		WorldTranslation: math.NewVec4Point(0, 0, 16),
		NearClip:         true,
	}
}

func newTestPipeline(t *testing.T, cfg PipelineConfig) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline: unexpected error %v", err)
	}
	return p
}

func TestPipelineEndToEnd(t *testing.T) {
	// one face in the xy plane, wound so it faces +z in model space
	m := mesh(tri([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}))
	cam := components.NewCamera()

	p := newTestPipeline(t, testConfig())

	// unrotated, the face points away from the camera and is culled
	out, err := p.Process(m, cam, nil)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 0 || p.Stats().Culled != 1 {
		t.Fatalf("Pipeline.Process (theta 0)\nhave %v, stats %+v\nwant culled", out, p.Stats())
	}

	// half a turn around x flips it towards the camera
	p.SetAngle(math.K_PI)
	out, err = p.Process(m, cam, out)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Pipeline.Process (theta pi)\nhave %d triangles, stats %+v\nwant 1", len(out), p.Stats())
	}
	got := out[0]
	want := [3]math.Vec2{{X: 50, Y: 50}, {X: 50, Y: 46.875}, {X: 46.875, Y: 50}}
	for i := range want {
		if !got.P[i].XY().Compare(want[i], tolerance) {
			t.Fatalf("vertex %d\nhave %v\nwant %v", i, got.P[i].XY(), want[i])
		}
		if got.P[i].X < 0 || got.P[i].X >= 100 || got.P[i].Y < 0 || got.P[i].Y >= 100 {
			t.Fatalf("vertex %d off screen: %v", i, got.P[i])
		}
	}
	if got.Illumination < 0.1 || got.Illumination > 1 || got.Illumination < 1-tolerance {
		t.Fatalf("illumination\nhave %v\nwant 1", got.Illumination)
	}
	stats := p.Stats()
	if stats.Submitted != 1 || stats.Emitted != 1 || stats.Culled != 0 {
		t.Fatalf("stats\nhave %+v\nwant 1 submitted, 1 emitted", stats)
	}
}

func TestPipelineBackFaceCull(t *testing.T) {
	cfg := testConfig()
	p := newTestPipeline(t, cfg)
	cam := components.NewCamera()

	cases := []struct {
		name string
		tri  metadata.Triangle
		keep bool
	}{
		// normal (0, 0, -1) against a +z camera ray: dot < 0
		{"facing", tri([3]float32{0, 0, 0}, [3]float32{0, 1, 0}, [3]float32{1, 0, 0}), true},
		// normal (0, 0, 1): dot > 0
		{"away", tri([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}), false},
		// normal along x, perpendicular to the ray from the origin to (0, 0, 16): dot == 0
		{"edge on", tri([3]float32{0, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1}), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := p.Process(mesh(c.tri), cam, nil)
			if err != nil {
				t.Fatalf("Pipeline.Process: unexpected error %v", err)
			}
			if kept := len(out) == 1; kept != c.keep {
				t.Fatalf("kept\nhave %v (stats %+v)\nwant %v", kept, p.Stats(), c.keep)
			}
			if !c.keep && p.Stats().Culled != 1 {
				t.Fatalf("stats\nhave %+v\nwant 1 culled", p.Stats())
			}
		})
	}
}

func TestPipelineLighting(t *testing.T) {
	cfg := testConfig()
	cfg.LightDirection = math.NewVec4Point(0, 0, 1)
	p := newTestPipeline(t, cfg)

	out, err := p.Process(mesh(tri([3]float32{0, 0, 0}, [3]float32{0, 1, 0}, [3]float32{1, 0, 0})), components.NewCamera(), nil)
	if err != nil || len(out) != 1 {
		t.Fatalf("Pipeline.Process\nhave %v, %v\nwant one triangle", out, err)
	}
	// the light faces the same way as the normal, the ambient floor applies
	if out[0].Illumination != 0.1 {
		t.Fatalf("illumination\nhave %v\nwant 0.1", out[0].Illumination)
	}
}

func TestPipelinePainterOrder(t *testing.T) {
	cfg := testConfig()
	cfg.WorldTranslation = math.NewVec4Point(0, 0, 0)
	p := newTestPipeline(t, cfg)

	facing := func(x, z float32) metadata.Triangle {
		return tri([3]float32{x, 0, z}, [3]float32{x, 1, z}, [3]float32{x + 1, 0, z})
	}
	m := mesh(facing(0, 5), facing(-1, 20), facing(0.5, 10), facing(-2, 40), facing(1, 7))

	out, err := p.Process(m, components.NewCamera(), nil)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("Pipeline.Process\nhave %d triangles (stats %+v)\nwant 5", len(out), p.Stats())
	}
	for i := 1; i < len(out); i++ {
		if !(out[i-1].MeanZ() > out[i].MeanZ()) {
			t.Fatalf("draw order not strictly decreasing at %d: %v then %v", i, out[i-1].MeanZ(), out[i].MeanZ())
		}
	}
}

func TestPipelineStableOrder(t *testing.T) {
	cfg := testConfig()
	cfg.WorldTranslation = math.NewVec4Point(0, 0, 0)
	p := newTestPipeline(t, cfg)

	// same depth, told apart by their x offset
	m := mesh(
		tri([3]float32{-3, 0, 10}, [3]float32{-3, 1, 10}, [3]float32{-2, 0, 10}),
		tri([3]float32{0, 0, 10}, [3]float32{0, 1, 10}, [3]float32{1, 0, 10}),
		tri([3]float32{3, 0, 10}, [3]float32{3, 1, 10}, [3]float32{4, 0, 10}),
	)
	out, err := p.Process(m, components.NewCamera(), nil)
	if err != nil || len(out) != 3 {
		t.Fatalf("Pipeline.Process\nhave %d, %v\nwant 3 triangles", len(out), err)
	}
	if !(out[0].P[0].X < out[1].P[0].X && out[1].P[0].X < out[2].P[0].X) {
		t.Fatalf("equal depth triangles must keep mesh order: %v", out)
	}
}

func TestPipelineDegenerate(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	m := mesh(
		tri([3]float32{0, 0, 0}, [3]float32{1, 1, 1}, [3]float32{2, 2, 2}),
		tri([3]float32{1, 1, 1}, [3]float32{1, 1, 1}, [3]float32{1, 1, 1}),
	)
	out, err := p.Process(m, components.NewCamera(), nil)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 0 || p.Stats().Degenerate != 2 {
		t.Fatalf("Pipeline.Process\nhave %v, stats %+v\nwant 2 degenerate", out, p.Stats())
	}
}

func TestPipelineNearClip(t *testing.T) {
	cfg := testConfig()
	cfg.WorldTranslation = math.NewVec4Point(0, 0, 0)
	// one vertex behind the camera, two in front
	m := mesh(tri([3]float32{0, 0, -1}, [3]float32{1, 0, 5}, [3]float32{0, 1, 5}))

	p := newTestPipeline(t, cfg)
	out, err := p.Process(m, components.NewCamera(), nil)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 2 || p.Stats().Clipped != 1 {
		t.Fatalf("Pipeline.Process (near clip)\nhave %d triangles, stats %+v\nwant 2, 1 clipped", len(out), p.Stats())
	}
	for _, tr := range out {
		for _, v := range tr.P {
			if v.Z < -tolerance || v.Z > 1+tolerance {
				t.Fatalf("depth outside [0, 1] after near clip: %v", v)
			}
		}
	}

	cfg.NearClip = false
	p = newTestPipeline(t, cfg)
	out, err = p.Process(m, components.NewCamera(), nil)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 1 || p.Stats().Clipped != 0 {
		t.Fatalf("Pipeline.Process (no near clip)\nhave %d triangles, stats %+v\nwant 1", len(out), p.Stats())
	}
}

func TestPipelineKeepsOffScreenVertices(t *testing.T) {
	cfg := testConfig()
	cfg.WorldTranslation = math.NewVec4Point(0, 0, 0)
	p := newTestPipeline(t, cfg)

	// faces the camera and reaches well past every frame edge
	m := mesh(tri([3]float32{-20, -20, 5}, [3]float32{-20, 20, 5}, [3]float32{20, -20, 5}))
	out, err := p.Process(m, components.NewCamera(), nil)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 1 || p.Stats().Clipped != 0 {
		t.Fatalf("Pipeline.Process\nhave %d triangles, stats %+v\nwant 1, none clipped", len(out), p.Stats())
	}
	var left, right bool
	for _, v := range out[0].P {
		left = left || v.X < 0
		right = right || v.X > float32(cfg.Width)
	}
	if !left || !right {
		t.Fatalf("Pipeline.Process moved vertices onto the screen: %v", out[0].P)
	}
}

func TestPipelineDropsZeroW(t *testing.T) {
	cfg := testConfig()
	cfg.WorldTranslation = math.NewVec4Point(0, 0, 0)
	cfg.NearClip = false
	p := newTestPipeline(t, cfg)

	// the first vertex sits in the camera plane: view z, and so w, is 0
	m := mesh(tri([3]float32{1, 0, 0}, [3]float32{2, 0, 5}, [3]float32{1, 1, 5}))
	out, err := p.Process(m, components.NewCamera(), nil)
	if err != nil {
		t.Fatalf("Pipeline.Process: unexpected error %v", err)
	}
	if len(out) != 0 || p.Stats().DroppedW != 1 {
		t.Fatalf("Pipeline.Process\nhave %v, stats %+v\nwant 1 dropped", out, p.Stats())
	}
}

func TestPipelineAdvance(t *testing.T) {
	cfg := testConfig()
	cfg.RotationSpeed = 2
	p := newTestPipeline(t, cfg)
	p.Advance(0.25)
	p.Advance(0.25)
	if a := p.Angle(); a != 1 {
		t.Fatalf("Pipeline.Angle\nhave %v\nwant 1", a)
	}
}

func TestNewPipelineErrors(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*PipelineConfig)
	}{
		{"zero width", func(c *PipelineConfig) { c.Width = 0 }},
		{"zero light", func(c *PipelineConfig) { c.LightDirection = math.NewVec4Zero() }},
		{"near plane", func(c *PipelineConfig) { c.Near = 0 }},
		{"far plane", func(c *PipelineConfig) { c.Far = 0.05 }},
		{"fov", func(c *PipelineConfig) { c.FOVDegrees = 0 }},
		{"ambient", func(c *PipelineConfig) { c.Ambient = 2 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testConfig()
			c.modify(&cfg)
			if _, err := NewPipeline(cfg); !errors.Is(err, ErrInvalidPipeline) {
				t.Fatalf("NewPipeline\nhave %v\nwant %v", err, ErrInvalidPipeline)
			}
		})
	}
}
