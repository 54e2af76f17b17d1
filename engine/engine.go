package engine

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/spaghettifunk/tinyrender/engine/assets"
	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/platform"
	"github.com/spaghettifunk/tinyrender/engine/renderer"
	"github.com/spaghettifunk/tinyrender/engine/renderer/components"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
	"github.com/spaghettifunk/tinyrender/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released everything it owned
	EngineStageShutdown
)

var ErrWrongStage = errors.New("engine is not in the right stage")

// Jobs waiting for a worker before Submit blocks.
const jobQueueSize = 4

var wireframeColor = color.RGBA{R: 255, G: 64, B: 64, A: 255}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	cfg          *config.Config
	isRunning    atomic.Bool
	isSuspended  bool

	display      platform.Display
	jobSystem    *systems.JobSystem
	assetManager *assets.AssetManager
	pipeline     *renderer.Pipeline
	backend      *renderer.FrameBackend
	renderer     *renderer.Renderer

	camera       *components.Camera
	cameraConfig components.CameraConfig
	input        *core.InputState
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64

	mesh      *metadata.Mesh
	triangles []metadata.Triangle
	width     int
	height    int
}

func New(g *Game, display platform.Display) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil || g.ApplicationConfig.Config == nil {
		return nil, fmt.Errorf("%w: game without application config", config.ErrInvalidConfig)
	}
	cfg := g.ApplicationConfig.Config

	js, err := systems.NewJobSystem(cfg.Assets.Workers, jobQueueSize)
	if err != nil {
		return nil, err
	}

	am, err := assets.NewAssetManager(js)
	if err != nil {
		js.Shutdown()
		return nil, err
	}

	p, err := renderer.NewPipeline(renderer.NewPipelineConfig(cfg))
	if err != nil {
		am.Shutdown()
		js.Shutdown()
		return nil, err
	}

	backend := renderer.NewFrameBackend(cfg.Window.Width, cfg.Window.Height, display)

	camera := components.NewCamera()
	camera.SetPosition(math.NewVec4Point(cfg.Camera.Position.X, cfg.Camera.Position.Y, cfg.Camera.Position.Z))
	camera.SetYaw(cfg.Camera.Yaw)

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		cfg:          cfg,
		display:      display,
		jobSystem:    js,
		assetManager: am,
		pipeline:     p,
		backend:      backend,
		renderer:     renderer.NewRenderer(backend),
		camera:       camera,
		cameraConfig: components.CameraConfig{
			MoveSpeed: cfg.Camera.MoveSpeed,
			TurnSpeed: cfg.Camera.TurnSpeed,
		},
		input:   core.NewInputState(),
		clock:   core.NewClock(),
		metrics: core.NewMetrics(),
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
	}

	g.Context = &GameContext{
		Camera:   camera,
		Pipeline: p,
		Input:    e.input,
		Metrics:  e.metrics,
		Mesh:     e.Mesh,
	}

	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("%w: initialize in stage %d", ErrWrongStage, e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	core.SetLogLevel(e.gameInstance.ApplicationConfig.LogLevel)

	// initialize events
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_KEY_RELEASED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	// initialize subsystems
	if err := e.assetManager.Initialize(e.cfg.Assets.Dir); err != nil {
		return err
	}

	params := &metadata.MeshLoadParams{MaxLineLength: e.cfg.Assets.MaxLineLength}
	res, err := e.assetManager.LoadAsset(e.cfg.Assets.Mesh, metadata.ResourceTypeMesh, params)
	if err != nil {
		return err
	}
	e.mesh = res.Data.(*metadata.Mesh)
	core.LogInfo("mesh '%s' loaded: %d triangles", e.mesh.Name, e.mesh.TriangleCount())

	if e.cfg.Assets.HotReload {
		if err := e.assetManager.Watch(e.cfg.Assets.Mesh, metadata.ResourceTypeMesh, params); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.isRunning.Store(true)
	e.currentStage = EngineStageInitialized
	return nil
}

// Run steps frames until the application quits, the display closes or ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("%w: run in stage %d", ErrWrongStage, e.currentStage)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		select {
		case <-ctx.Done():
			core.LogInfo("context done, shutting down: %s", context.Cause(ctx))
			e.isRunning.Store(false)
			return nil
		default:
		}

		if err := e.Step(); err != nil {
			e.isRunning.Store(false)
			return err
		}
	}
	return nil
}

// Step runs a single frame: input, camera, pipeline, rasterization,
// presentation and pacing.
func (e *Engine) Step() error {
	if !e.clock.IsRunning() {
		e.clock.Start()
	}
	// Update clock and get delta time.
	e.clock.Update()
	var currentTime float64 = e.clock.Elapsed()
	var delta float64 = (currentTime - e.lastTime)
	var frameStartTime float64 = platform.GetAbsoluteTime()

	// Input state copying happens before the display records new key states.
	e.input.Update()
	if !e.display.Poll(e.input) {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
	}

	e.swapReloaded()

	if e.isSuspended || !e.isRunning.Load() {
		e.lastTime = currentTime
		return nil
	}

	e.camera.Update(e.input, delta, e.cameraConfig)
	e.pipeline.Advance(delta)

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down.")
			return err
		}
	}

	tris, err := e.pipeline.Process(e.mesh, e.camera, e.triangles)
	if err != nil {
		return err
	}
	e.triangles = tris

	packet := &metadata.RenderPacket{
		DeltaTime:      delta,
		Triangles:      tris,
		BaseColor:      e.gameInstance.ApplicationConfig.BaseColor,
		Wireframe:      e.cfg.Debug.Wireframe,
		WireframeColor: wireframeColor,
	}

	// Call the game's render routine.
	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogError("game render failed, shutting down.")
			return err
		}
	}
	if !e.cfg.Debug.HUD {
		packet.Overlay = nil
	}

	// Draw frame
	if err := e.renderer.DrawFrame(packet); err != nil {
		return err
	}

	// Figure out how long the frame took and, if below
	var frameEndTime float64 = platform.GetAbsoluteTime()
	var frameElapsedTime float64 = frameEndTime - frameStartTime
	e.metrics.Update(frameElapsedTime)
	e.logMetrics()

	if e.cfg.Frame.LimitFrames && e.cfg.Frame.TargetFPS > 0 {
		targetFrameSeconds := 1.0 / float64(e.cfg.Frame.TargetFPS)
		remainingSeconds := targetFrameSeconds - frameElapsedTime
		if remainingSeconds > 0 {
			// If there is time left, give it back to the OS.
			platform.Sleep(remainingSeconds*1000 - 1)
		}
	}

	// Update last time
	e.lastTime = currentTime
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.assetManager.Shutdown())
	errs = append(errs, e.jobSystem.Shutdown())
	if e.display != nil {
		errs = append(errs, e.display.Shutdown())
	}
	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, e)
	core.EventUnregister(core.EVENT_CODE_KEY_RELEASED, e)
	core.EventUnregister(core.EVENT_CODE_RESIZED, e)
	errs = append(errs, core.EventShutdown())

	e.currentStage = EngineStageShutdown
	core.LogInfo("engine shut down after %d frames", e.renderer.FrameNumber())
	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order)
// of the surface
func (e *Engine) GetFramebufferSize() (int, int) {
	return e.width, e.height
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Mesh is the mesh currently drawn.
func (e *Engine) Mesh() *metadata.Mesh {
	return e.mesh
}

func (e *Engine) Camera() *components.Camera {
	return e.camera
}

func (e *Engine) Renderer() *renderer.Renderer {
	return e.renderer
}

func (e *Engine) IsRunning() bool {
	return e.isRunning.Load()
}

// swapReloaded installs a hot reloaded mesh. Only called between frames.
func (e *Engine) swapReloaded() {
	select {
	case res := <-e.assetManager.Reloaded():
		mesh, ok := res.Data.(*metadata.Mesh)
		if !ok || mesh == nil {
			return
		}
		core.LogInfo("mesh '%s' reloaded from %s: %d triangles", mesh.Name, res.FullPath, mesh.TriangleCount())
		e.mesh = mesh

		data := core.EventContext{}
		data.Data.C[0] = mesh.Name
		data.Data.C[1] = res.FullPath
		core.EventFire(core.EVENT_CODE_ASSET_RELOADED, e, data)
	default:
	}
}

func (e *Engine) logMetrics() {
	every := e.cfg.Frame.MetricsEvery
	if every <= 0 || e.metrics.Frames()%uint64(every) != 0 {
		return
	}
	fps, frameTime := e.metrics.Frame()
	core.LogInfo("frame %d: %.1f fps (%.2f ms)", e.metrics.Frames(), fps, frameTime)
	s := e.pipeline.Stats()
	core.LogDebug("pipeline: submitted=%d culled=%d degenerate=%d clipped=%d dropped_w=%d emitted=%d",
		s.Submitted, s.Culled, s.Degenerate, s.Clipped, s.DroppedW, s.Emitted)
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	keyCode := core.KeyCode(data.Data.U16[0])

	if code == core.EVENT_CODE_KEY_PRESSED {
		if keyCode == core.KEY_ESCAPE {
			// NOTE: Technically firing an event to itself, but there may be other listeners.
			core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
			// Block anything else from processing this.
			return true
		}
		core.LogDebug("key 0x%02x pressed", uint16(keyCode))
	} else if code == core.EVENT_CODE_KEY_RELEASED {
		core.LogDebug("key 0x%02x released", uint16(keyCode))
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	if code != core.EVENT_CODE_RESIZED {
		return false
	}
	width := int(data.Data.U16[0])
	height := int(data.Data.U16[1])

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	// Check if different. If so, rebuild everything sized to the surface.
	if width == e.width && height == e.height {
		return true
	}
	core.LogDebug("Window resize: %d, %d", width, height)
	if err := e.pipeline.Resize(width, height); err != nil {
		core.LogError(err.Error())
		return true
	}
	e.width = width
	e.height = height
	e.backend.Resize(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return true
}
