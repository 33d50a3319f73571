// Package sample is a free-fly camera over heightmap terrain: a zone with
// white distance fog, one shadow-casting directional light and a skybox.
package sample

import (
	"github.com/sirupsen/logrus"

	"terrain-sample/config"
	"terrain-sample/core"
	"terrain-sample/engine"
	"terrain-sample/renderer"
	"terrain-sample/scene"
)

type Options struct {
	// GroundClearance > 0 keeps the camera this far above the terrain.
	// Zero is free flight.
	GroundClearance float32
}

// App implements engine.Application.
type App struct {
	// Options are read when the application starts.
	Options Options

	ctx        *engine.Context
	log        *logrus.Entry
	scene      *scene.Scene
	cameraNode *scene.Node
	controller *CameraController
	updateSub  core.SubscriptionID
	frames     uint64
}

var _ engine.Application = (*App)(nil)

func New(opts Options) *App {
	return &App{Options: opts}
}

func (a *App) Setup(p *config.Parameters) {
	p.WindowTitle = "Terrain"
	p.FullScreen = false
	p.WindowWidth = 800
	p.WindowHeight = 600
	p.ResourcePrefixPaths = config.ParsePathList(".;..")
}

func (a *App) Start(ctx *engine.Context) error {
	a.ctx = ctx
	a.log = ctx.Log.WithField("subsystem", "sample")
	ctx.Input.SetMouseVisible(true)

	a.scene = BuildScene(ctx.Cache, a.log)
	a.cameraNode, _ = CreateCamera()
	a.controller = NewCameraController()
	a.controller.GroundClearance = a.Options.GroundClearance
	if terrains := a.scene.Terrains(); len(terrains) > 0 {
		a.controller.Ground = terrains[0]
	}
	a.cameraNode.SetRotation(a.controller.Orientation())

	cam, _ := scene.GetComponent[*scene.Camera](a.cameraNode)
	ctx.Renderer.SetViewport(0, renderer.NewViewport(a.scene, cam))

	a.updateSub = ctx.Events.Subscribe(core.EventUpdate, a.handleUpdate)

	a.log.Info("controls: WASD to move, mouse to look, Esc to quit")
	return nil
}

func (a *App) handleUpdate(_ core.StringHash, data core.EventData) {
	a.controller.Update(a.ctx.Input, a.cameraNode, data.Float(core.ParamTimeStep))
	a.frames++
}

func (a *App) Stop() {
	if a.ctx == nil {
		return
	}
	a.ctx.Events.Unsubscribe(core.EventUpdate, a.updateSub)
	a.ctx.Renderer.SetViewport(0, nil)
	a.ctx.Renderer.ReleaseScene(a.scene)
	a.log.WithField("frames", a.frames).Info("sample stopped")
	a.scene = nil
	a.cameraNode = nil
	a.ctx = nil
}
