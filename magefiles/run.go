//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the desktop window.
func (Run) Window() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run engine in a window...")
	_, err := executeCmd(binary, withEnv("TINYRENDER_DISPLAY_KIND=window"), withStream())
	return err
}

// Renders without a window and writes PNG snapshots to out/.
func (Run) Headless() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run engine headless...")
	_, err := executeCmd(binary, withEnv("TINYRENDER_DISPLAY_KIND=headless"), withStream())
	return err
}

// Serves frames over HTTP and websocket on the configured address.
func (Run) Remote() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run engine as a remote display...")
	_, err := executeCmd(binary, withEnv("TINYRENDER_DISPLAY_KIND=remote"), withStream())
	return err
}
