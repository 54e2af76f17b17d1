package testbed

import (
	"fmt"

	"github.com/spaghettifunk/tinyrender/engine"
	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/math"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	wireframe bool
	reloads   int

	startPosition math.Vec4
	startYaw      float32

	width  int
	height int
}

func NewTestGame(cfg *config.Config) (*TestGame, error) {
	app, err := engine.NewApplicationConfig(cfg)
	if err != nil {
		return nil, err
	}

	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			State: &gameState{
				wireframe:     cfg.Debug.Wireframe,
				startPosition: math.NewVec4Point(cfg.Camera.Position.X, cfg.Camera.Position.Y, cfg.Camera.Position.Z),
				startYaw:      cfg.Camera.Yaw,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.Context == nil {
		return fmt.Errorf("the engine is not yet initialized")
	}

	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, g, g.gameOnKey)
	core.EventRegister(core.EVENT_CODE_ASSET_RELOADED, g, g.gameOnEvent)

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	return nil
}

func (g *TestGame) Render(packet *metadata.RenderPacket, deltaTime float64) error {
	state := g.State.(*gameState)

	packet.Wireframe = state.wireframe

	camera := g.Context.Camera
	pos := camera.GetPosition()
	fps, frameTime := g.Context.Metrics.Frame()
	stats := g.Context.Pipeline.Stats()
	mesh := g.Context.Mesh()

	packet.Overlay = append(packet.Overlay,
		fmt.Sprintf("FPS: %5.1f (%4.1fms)", fps, frameTime),
		fmt.Sprintf("Pos=[%6.2f %6.2f %6.2f] Yaw=%6.1f", pos.X, pos.Y, pos.Z, math.RadToDeg(camera.Yaw)),
		fmt.Sprintf("Tris: %d/%d culled=%d", stats.Emitted, mesh.TriangleCount(), stats.Culled),
	)
	if state.reloads > 0 {
		packet.Overlay = append(packet.Overlay, fmt.Sprintf("Reloads: %d", state.reloads))
	}

	return nil
}

func (g *TestGame) OnResize(width int, height int) error {
	state := g.State.(*gameState)

	state.width = width
	state.height = height

	return nil
}

func (g *TestGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, g)
	core.EventUnregister(core.EVENT_CODE_ASSET_RELOADED, g)
	return nil
}

func (g *TestGame) gameOnEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	state := g.State.(*gameState)
	switch code {
	case core.EVENT_CODE_ASSET_RELOADED:
		state.reloads++
		core.LogDebug("testbed saw reload of '%s'", data.Data.C[0])
	}
	return false
}

func (g *TestGame) gameOnKey(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	state := g.State.(*gameState)
	if code != core.EVENT_CODE_KEY_PRESSED {
		return false
	}

	switch core.KeyCode(data.Data.U16[0]) {
	case core.KEY_F1:
		state.wireframe = !state.wireframe
		core.LogInfo("wireframe: %v", state.wireframe)
		return true
	case core.KEY_Q:
		g.Context.Camera.SetPosition(state.startPosition)
		g.Context.Camera.SetYaw(state.startYaw)
		core.LogInfo("camera reset")
		return true
	}
	return false
}
