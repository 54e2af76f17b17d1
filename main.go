/*
tinyrender spins a mesh through a software transform and rasterize
pipeline and shows it in a window, as PNG snapshots, or over HTTP.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/tinyrender/engine"
	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/platform"
	"github.com/spaghettifunk/tinyrender/engine/platform/headless"
	"github.com/spaghettifunk/tinyrender/engine/platform/remote"
	"github.com/spaghettifunk/tinyrender/engine/platform/window"
	"github.com/spaghettifunk/tinyrender/testbed"
)

func main() {
	configPath := flag.String("config", "assets/config/tinyrender.toml", "path to the TOML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("failed to load configuration: %s", err)
	}
	level, err := core.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		core.LogFatal("%s", err)
	}
	core.SetLogLevel(level)

	tb, err := testbed.NewTestGame(cfg)
	if err != nil {
		core.LogFatal("failed to create the game: %s", err)
	}

	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	var display platform.Display
	var win *window.Display
	switch cfg.Display.Kind {
	case config.DisplayHeadless:
		display, err = headless.New(cfg.Display.Headless)
	case config.DisplayRemote:
		rd := remote.New(cfg.Display.Remote)
		err = rd.Start()
		display = rd
	default:
		win = window.New(cfg.Window)
		display = win
	}
	if err != nil {
		core.LogFatal("failed to open the %s display: %s", cfg.Display.Kind, err)
	}

	e, err := engine.New(tb.Game, display)
	if err != nil {
		core.LogFatal("failed to create the engine: %s", err)
	}

	if err := e.Initialize(); err != nil {
		e.Shutdown()
		core.LogFatal("failed to initialize the engine: %s", err)
	}

	run := func() error {
		return e.Run(ctx)
	}
	if win != nil {
		// the window owns the main thread, the engine loop gets its own goroutine
		err = win.Run(run)
	} else {
		err = run()
	}

	if serr := e.Shutdown(); serr != nil {
		core.LogError("shutdown: %s", serr)
	}
	if err != nil {
		core.LogError("engine stopped: %s", err)
		os.Exit(1)
	}
}
