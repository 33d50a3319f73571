// Package engine runs an Application: it opens the window, creates the
// renderer, resource cache and event bus, and drives the frame loop.
package engine

import (
	"github.com/sirupsen/logrus"

	"terrain-sample/config"
	"terrain-sample/core"
	"terrain-sample/platform"
	"terrain-sample/renderer"
	"terrain-sample/resource"
)

// Application is the game or sample driven by the engine.
//
// Setup runs before any subsystem exists and may change the start-up
// parameters. Start runs once everything is initialised, before the first
// frame; returning an error aborts the run. Stop runs when the loop ends.
type Application interface {
	Setup(p *config.Parameters)
	Start(ctx *Context) error
	Stop()
}

// Context gives an Application access to the engine subsystems.
type Context struct {
	Params   config.Parameters
	Window   *platform.Window
	Input    *core.Input
	Cache    *resource.Cache
	Renderer *renderer.RenderEngine
	Events   *core.EventBus
	Log      *logrus.Entry
}

// Exit asks the engine to end the loop after the current frame.
func (c *Context) Exit() {
	c.Events.Send(core.EventExit, nil)
}
