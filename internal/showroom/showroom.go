// Package showroom wires the scene, camera, environment, rain, label and
// car manager into one frame-driven application.
//
// Everything here runs on the frame thread. UI entry points only record
// intent or start animations; Tick advances them in a fixed order and
// applies finished asset loads.
package showroom

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/assets"
	"github.com/Faultbox/showroom/internal/camera"
	"github.com/Faultbox/showroom/internal/car"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/environment"
	"github.com/Faultbox/showroom/internal/label"
	"github.com/Faultbox/showroom/internal/preset"
	"github.com/Faultbox/showroom/internal/rain"
	"github.com/Faultbox/showroom/internal/scene"
)

// Loader loads every asset the showroom needs.
type Loader interface {
	environment.ImageLoader
	car.ModelLoader
}

// Context holds every component. It is passed explicitly instead of living
// in package globals.
type Context struct {
	Scene       *scene.Scene
	Presets     *preset.Registry
	Controls    *camera.Controls
	Camera      *camera.Transition
	Environment *environment.Controller
	Rain        *rain.Pool
	Labels      *label.System
	Cars        *car.Manager
	Log         *zap.Logger
}

// State is a snapshot for UI reflection.
type State struct {
	Mode         preset.Mode
	Animating    bool
	RainVisible  bool
	Preset       camera.Preset
	CameraMoving bool
	Car          string
	Switching    bool
	Dragging     bool
	Cars         []string
	FloorLoaded  bool
	LabelsReady  int
	PendingLoads int
}

// App is the showroom application.
type App struct {
	ctx    *Context
	cfg    *config.Config
	loader Loader
	clock  func() time.Time
	log    *zap.Logger

	dragging bool
	settleAt time.Time
	dirty    bool
	framed   bool

	floor      *scene.Node
	floorLoad  <-chan assets.ModelResult
	labelLoads map[string]<-chan assets.ModelResult
}

// New builds the application from cfg. clock may be nil to use time.Now.
func New(cfg *config.Config, loader Loader, clock func() time.Time, log *zap.Logger) (*App, error) {
	if clock == nil {
		clock = time.Now
	}
	presets, err := preset.FromConfig(cfg.Presets)
	if err != nil {
		return nil, err
	}

	s := scene.New()
	controls := camera.NewControls(cfg.Camera)
	pool := rain.New(rain.OptionsFromConfig(cfg.Rain))
	env := environment.New(s, presets, loader, pool, clock, log.Named("environment"))
	cars := car.NewManager(s, loader, controls, car.FromConfig(cfg.Cars), clock, log.Named("car"))

	ctx := &Context{
		Scene:       s,
		Presets:     presets,
		Controls:    controls,
		Camera:      camera.NewTransition(controls, cfg.Camera, cars.ActiveBounds, log.Named("camera")),
		Environment: env,
		Rain:        pool,
		Labels:      label.New(s, cfg.Label.Duration, clock),
		Cars:        cars,
		Log:         log,
	}

	a := &App{
		ctx:        ctx,
		cfg:        cfg,
		loader:     loader,
		clock:      clock,
		log:        log,
		labelLoads: make(map[string]<-chan assets.ModelResult),
	}
	cars.OnSwitched = a.carSwitched
	return a, nil
}

// Context returns the component context.
func (a *App) Context() *Context {
	return a.ctx
}

// Start resets to sunny defaults and requests every startup asset.
func (a *App) Start() {
	a.ctx.Environment.Reset()
	if a.cfg.Scene.StartupEnvironment != "" {
		a.ctx.Environment.LoadStartupEnvironment(a.cfg.Scene.StartupEnvironment)
	}
	if a.cfg.Scene.Floor != "" {
		a.floorLoad = a.loader.LoadModel(a.cfg.Scene.Floor)
	}
	a.ctx.Cars.LoadAll(a.cfg.Scene.DefaultCar)
	for _, c := range a.ctx.Cars.Cars() {
		if c.Label != "" {
			a.labelLoads[c.Name] = a.loader.LoadModel(c.Label)
		}
	}
	a.MovePreset(camera.Front)
	if a.cfg.Scene.StartRainy {
		a.SetMode(preset.Rainy)
	}
	a.dirty = true
	a.log.Info("showroom started",
		zap.String("car", a.cfg.Scene.DefaultCar),
		zap.Int("cars", len(a.ctx.Cars.Cars())))
}

// SetMode switches the environment mode and retints the label.
func (a *App) SetMode(m preset.Mode) bool {
	ok := a.ctx.Environment.SetMode(m)
	a.ctx.Labels.SetRain(m == preset.Rainy)
	a.dirty = true
	return ok
}

// UpdatePreset replaces the preset for m. If m is showing, the scene
// animates to the new values.
func (a *App) UpdatePreset(m preset.Mode, cfg preset.Config) {
	a.ctx.Presets.Set(m, cfg)
	if m == a.ctx.Environment.Mode() {
		a.ctx.Environment.Refresh()
	}
	a.dirty = true
}

// ToggleRain flips between sunny and rainy. It returns true if it is now
// raining.
func (a *App) ToggleRain() bool {
	next := a.ctx.Environment.Mode().Toggle()
	a.SetMode(next)
	return next == preset.Rainy
}

// ToggleRainParticles shows or hides only the particle rain.
func (a *App) ToggleRainParticles() bool {
	a.dirty = true
	return a.ctx.Rain.Toggle()
}

// MovePreset starts the camera toward p and snaps the label to p's
// placement.
func (a *App) MovePreset(p camera.Preset) {
	a.ctx.Camera.MoveTo(p)
	a.ctx.Labels.SetView(p)
	a.dirty = true
}

// SwitchCar swaps the active car. See car.Manager.SwitchTo.
func (a *App) SwitchCar(name string) <-chan bool {
	return a.ctx.Cars.SwitchTo(name)
}

// RandomizePaint gives the active car a random paint color.
func (a *App) RandomizePaint() (scene.Color, bool) {
	c := scene.Hex(rand.Uint32N(1 << 24))
	ok := a.ctx.Cars.SetPaintColor(c)
	a.dirty = a.dirty || ok
	return c, ok
}

// BeginDrag pauses preset transitions and hides the label while the user
// orbits. A pending settle is cancelled.
func (a *App) BeginDrag(time.Time) {
	a.dragging = true
	a.settleAt = time.Time{}
	a.ctx.Camera.Suspend()
	a.ctx.Labels.Hide()
}

// EndDrag schedules the settle: after the configured delay the camera
// resumes its last preset and the label returns.
func (a *App) EndDrag(now time.Time) {
	if !a.dragging {
		return
	}
	a.dragging = false
	a.settleAt = now.Add(a.cfg.Camera.SettleDelay)
}

// Orbit rotates the camera by a mouse drag delta.
func (a *App) Orbit(dx, dy float32) {
	a.ctx.Controls.HandleDrag(dx, dy)
	a.dirty = true
}

// Zoom moves the camera toward or away from its target.
func (a *App) Zoom(delta float32) {
	a.ctx.Controls.HandleZoom(delta)
	a.dirty = true
}

// Invalidate requests a redraw, e.g. after a window resize.
func (a *App) Invalidate() {
	a.dirty = true
}

// Tick advances every component once, in order: camera, car bounce, rain,
// environment, label, then finished asset loads. It returns true when the
// frame must be redrawn.
func (a *App) Tick(now time.Time) bool {
	changed := a.dirty
	a.dirty = false

	if !a.settleAt.IsZero() && !now.Before(a.settleAt) {
		a.settleAt = time.Time{}
		a.ctx.Camera.Resume()
		a.ctx.Labels.Show()
	}

	if a.ctx.Camera.Advance(now) {
		changed = true
	}
	if a.ctx.Cars.Advance(now) {
		changed = true
	}
	if a.ctx.Rain.Advance(now) {
		changed = true
	}
	if a.ctx.Environment.Advance(now) {
		changed = true
	}
	if a.ctx.Labels.Advance(now) {
		changed = true
	}
	if a.poll() {
		changed = true
	}
	return changed
}

// State returns a snapshot for UI reflection.
func (a *App) State() State {
	cars := make([]string, 0, len(a.ctx.Cars.Cars()))
	labels := 0
	for _, c := range a.ctx.Cars.Cars() {
		cars = append(cars, c.Name)
		if a.ctx.Labels.Registered(c.Name) {
			labels++
		}
	}
	pending := len(a.labelLoads)
	if a.floorLoad != nil {
		pending++
	}
	return State{
		Mode:         a.ctx.Environment.Mode(),
		Animating:    a.ctx.Environment.Animating(),
		RainVisible:  a.ctx.Rain.Visible(),
		Preset:       a.ctx.Camera.Preset(),
		CameraMoving: a.ctx.Camera.Active(),
		Car:          a.ctx.Cars.Active(),
		Switching:    a.ctx.Cars.Switching(),
		Dragging:     a.dragging,
		Cars:         cars,
		FloorLoaded:  a.floor != nil,
		LabelsReady:  labels,
		PendingLoads: pending,
	}
}

// Floor returns the floor node once loaded.
func (a *App) Floor() *scene.Node {
	return a.floor
}

func (a *App) carSwitched(name string) {
	a.ctx.Labels.SetLabel(name)
	if !a.framed {
		// The first car arrives after Start aimed at the fallback viewpoint.
		a.framed = true
		if !a.ctx.Camera.Suspended() {
			a.ctx.Camera.MoveTo(a.ctx.Camera.Preset())
		}
	}
	a.dirty = true
}

func (a *App) poll() bool {
	changed := a.ctx.Cars.Poll()

	if a.floorLoad != nil {
		select {
		case res := <-a.floorLoad:
			a.floorLoad = nil
			if res.Err != nil {
				a.log.Error("floor failed", zap.Error(res.Err))
				break
			}
			for _, m := range res.Node.Meshes {
				m.ReceiveShadow = true
			}
			a.floor = res.Node
			a.ctx.Scene.Add(res.Node)
			a.ctx.Environment.SyncFloor()
			changed = true
		default:
		}
	}

	for name, ch := range a.labelLoads {
		select {
		case res := <-ch:
			delete(a.labelLoads, name)
			if res.Err != nil {
				a.log.Warn("label failed", zap.String("car", name), zap.Error(res.Err))
				continue
			}
			a.ctx.Labels.Register(name, res.Node)
			if name == a.ctx.Cars.Active() {
				a.ctx.Labels.SetLabel(name)
				changed = true
			}
		default:
		}
	}
	return changed
}
