package engine

import (
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/renderer"
	"github.com/spaghettifunk/tinyrender/engine/renderer/components"
	"github.com/spaghettifunk/tinyrender/engine/renderer/metadata"
)

// GameContext is what the engine hands to the game before FnInitialize.
type GameContext struct {
	Camera   *components.Camera
	Pipeline *renderer.Pipeline
	Input    *core.InputState
	Metrics  *core.Metrics
	// Mesh returns the mesh currently drawn. It changes after a hot reload.
	Mesh func() *metadata.Mesh
}

type Game struct {
	ApplicationConfig *ApplicationConfig
	Context           *GameContext
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *metadata.RenderPacket, deltaTime float64) error
type OnResize func(width int, height int) error
type Shutdown func() error
