package engine

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"terrain-sample/config"
	"terrain-sample/core"
	"terrain-sample/platform"
	"terrain-sample/renderer"
	"terrain-sample/resource"
)

type options struct {
	logger    *logrus.Logger
	configure []func(*config.Parameters) error
}

type Option func(*options)

// WithLogger sets the root logger. Its level is taken from the parameters.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig applies f to the parameters after Application.Setup, so files
// and command-line flags can override what the application asked for.
func WithConfig(f func(*config.Parameters) error) Option {
	return func(o *options) { o.configure = append(o.configure, f) }
}

// Engine owns the subsystems and the frame loop.
type Engine struct {
	app Application
	ctx *Context
	log *logrus.Entry

	timer   *FrameTimer
	fps     fpsCounter
	frames  uint64
	exiting bool
	width   int
	height  int
}

// New sets up parameters, initialises every subsystem and starts app.
func New(app Application, opts ...Option) (*Engine, error) {
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	params := config.Default()
	app.Setup(&params)
	for _, f := range o.configure {
		if err := f(&params); err != nil {
			return nil, errors.Wrap(err, "configure")
		}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	level, err := logrus.ParseLevel(params.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	o.logger.SetLevel(level)
	root := logrus.NewEntry(o.logger)

	e := &Engine{app: app, log: root.WithField("subsystem", "engine")}
	if err := e.initialize(params, root); err != nil {
		e.shutdown()
		return nil, err
	}
	if err := app.Start(e.ctx); err != nil {
		e.shutdown()
		return nil, errors.Wrap(err, "start application")
	}
	e.timer = NewFrameTimer(params.MaxTimeStep, nil)
	return e, nil
}

func (e *Engine) initialize(params config.Parameters, root *logrus.Entry) error {
	window, err := platform.NewWindow(platform.WindowConfig{
		Width:      params.WindowWidth,
		Height:     params.WindowHeight,
		Title:      params.WindowTitle,
		Resizable:  params.Resizable,
		VSync:      params.VSync,
		Fullscreen: params.FullScreen,
	})
	if err != nil {
		return err
	}
	e.ctx = &Context{Params: params, Window: window, Log: root, Events: core.NewEventBus()}
	e.ctx.Input = window.AttachInput()
	e.width, e.height = window.GetFramebufferSize()

	e.ctx.Renderer, err = renderer.NewRenderEngine(e.width, e.height, params.ShadowMapSize, root)
	if err != nil {
		return err
	}
	e.ctx.Cache = resource.NewCache(params.ResourcePrefixPaths, params.ResourcePaths, root)

	e.ctx.Events.Subscribe(core.EventExit, func(core.StringHash, core.EventData) {
		e.exiting = true
	})

	e.log.WithFields(logrus.Fields{
		"size":       [2]int{e.width, e.height},
		"fullscreen": params.FullScreen,
		"resources":  e.ctx.Cache.Dirs(),
	}).Info("engine initialised")
	return nil
}

// Context exposes the subsystems, e.g. for tools that drive frames
// themselves.
func (e *Engine) Context() *Context { return e.ctx }

// Frames counts completed frames.
func (e *Engine) Frames() uint64 { return e.frames }

// Run loops until the window closes or an exit is requested, then stops the
// application and tears the engine down.
func (e *Engine) Run() error {
	defer e.shutdown()
	for !e.exiting && !e.ctx.Window.ShouldClose() {
		if err := e.RunFrame(); err != nil {
			return err
		}
	}
	e.log.WithField("frames", e.frames).Info("exiting")
	return nil
}

// RunFrame processes input, sends the update events and renders one frame.
func (e *Engine) RunFrame() error {
	win, in := e.ctx.Window, e.ctx.Input

	win.PollEvents()
	in.Update(win.GetCursorPos())
	if w, h := win.GetFramebufferSize(); w != e.width || h != e.height {
		e.width, e.height = w, h
		e.ctx.Renderer.Resize(w, h)
		e.log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("resized")
	}
	if in.KeyPress(core.KeyEscape) {
		win.SetShouldClose(true)
	}

	dt := e.timer.Step()
	dispatchFrame(e.ctx.Events, dt, in.PressedKeys())

	e.ctx.Renderer.Update(dt)
	if err := e.ctx.Renderer.Render(); err != nil {
		return errors.Wrap(err, "render")
	}
	win.SwapBuffers()
	in.EndFrame()
	e.frames++

	if fps, ok := e.fps.tick(dt); ok {
		st := e.ctx.Renderer.Stats()
		win.SetTitle(fmt.Sprintf("%s | %.0f FPS | %d batches", e.ctx.Params.WindowTitle, fps, st.Batches))
		e.log.WithFields(logrus.Fields{
			"fps":       fps,
			"batches":   st.Batches,
			"triangles": st.Triangles,
			"shadow":    st.ShadowBatches,
			"culled":    st.Culled,
		}).Debug("frame stats")
	}
	return nil
}

// dispatchFrame sends the key, update and post-update events of one frame.
func dispatchFrame(bus *core.EventBus, dt float32, pressed []int) {
	for _, key := range pressed {
		bus.Send(core.EventKeyDown, core.EventData{core.ParamKey: key})
	}
	data := core.EventData{core.ParamTimeStep: dt}
	bus.Send(core.EventUpdate, data)
	bus.Send(core.EventPostUpdate, data)
}

func (e *Engine) shutdown() {
	if e.ctx == nil {
		return
	}
	if e.app != nil && e.timer != nil {
		e.app.Stop()
	}
	if e.ctx.Cache != nil {
		e.ctx.Cache.ReleaseAll()
	}
	if e.ctx.Renderer != nil {
		e.ctx.Renderer.Destroy()
	}
	if e.ctx.Window != nil {
		e.ctx.Window.Destroy()
	}
	e.ctx = nil
}

// Run creates an engine for app and runs it to completion.
func Run(app Application, opts ...Option) error {
	e, err := New(app, opts...)
	if err != nil {
		return err
	}
	return e.Run()
}
