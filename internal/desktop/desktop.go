// Package desktop runs the showroom in an SDL2 window: input, the frame
// loop, rendering, ambience audio and screenshots.
package desktop

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/assets"
	"github.com/Faultbox/showroom/internal/camera"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/audio"
	"github.com/Faultbox/showroom/internal/engine/input"
	"github.com/Faultbox/showroom/internal/engine/renderer"
	"github.com/Faultbox/showroom/internal/engine/screenshot"
	"github.com/Faultbox/showroom/internal/engine/window"
	"github.com/Faultbox/showroom/internal/preset"
	"github.com/Faultbox/showroom/internal/showroom"
)

// idleDelay is how long the loop sleeps when nothing needs redrawing.
const idleDelay = 4 * time.Millisecond

// CommandFile is polled in the screenshot directory for scripted actions.
const CommandFile = "command.json"

// Desktop is the windowed showroom.
type Desktop struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	loader   *assets.Loader
	ambience *audio.Ambience
	capture  *screenshot.Capture
	app      *showroom.App

	running     bool
	dragging    bool
	showBounds  bool
	redraw      bool
	shotPending bool
	commandPath string
}

// New opens the window and builds the showroom.
func New(cfg *config.Config, log *zap.Logger) (*Desktop, error) {
	d := &Desktop{
		cfg:         cfg,
		log:         log,
		input:       input.New(nil),
		commandPath: filepath.Join(cfg.Screenshot.Dir, CommandFile),
	}

	var err error
	d.window, err = window.New(cfg.Window, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	w, h := d.window.DrawableSize()
	d.renderer, err = renderer.New(w, h, log.Named("renderer"))
	if err != nil {
		d.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	d.loader = assets.NewDirLoader(cfg.Assets.Root, assets.OptionsFromConfig(cfg.Assets), log.Named("assets"))
	d.app, err = showroom.New(cfg, d.loader, time.Now, log)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.capture = screenshot.New(cfg.Screenshot, nil, log.Named("screenshot"))
	d.ambience = audio.New(cfg.Audio, nil, log.Named("audio"))
	if err := d.initAudio(); err != nil {
		log.Warn("rain ambience disabled", zap.Error(err))
	}

	log.Info("desktop initialized")
	return d, nil
}

func (d *Desktop) initAudio() error {
	if d.cfg.Audio.Muted || d.cfg.Audio.RainLoop == "" {
		return nil
	}
	data, err := d.loader.ReadFile(d.cfg.Audio.RainLoop)
	if err != nil {
		return err
	}
	if err := d.ambience.Init(); err != nil {
		return err
	}
	return d.ambience.Load(data)
}

// App returns the showroom being displayed.
func (d *Desktop) App() *showroom.App {
	return d.app
}

// Run drives the frame loop until the window closes.
func (d *Desktop) Run() error {
	d.running = true
	d.redraw = true
	d.app.Start()

	frames := 0
	fpsTimer := time.Now()

	d.log.Info("starting frame loop")
	for d.running {
		if d.input.Update() {
			d.running = false
			break
		}
		now := time.Now()
		for _, e := range d.input.Events() {
			d.handleEvent(e, now)
		}
		d.pollCommand()

		if d.app.Tick(now) {
			d.redraw = true
		}
		d.ambience.SetRaining(d.app.State().Mode == preset.Rainy)
		d.ambience.Advance(now)

		if !d.redraw && !d.shotPending {
			sdl.Delay(uint32(idleDelay / time.Millisecond))
			continue
		}
		d.redraw = false
		d.draw()
		if d.shotPending {
			d.shotPending = false
			d.takeScreenshot()
		}
		d.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			d.log.Debug("fps", zap.Int("count", frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// Close releases every resource.
func (d *Desktop) Close() {
	d.log.Info("closing desktop")

	if d.ambience != nil {
		d.ambience.Close()
	}
	if d.loader != nil {
		d.loader.Close()
	}
	if d.renderer != nil {
		d.renderer.Close()
	}
	if d.window != nil {
		d.window.Close()
	}
}

func (d *Desktop) handleEvent(e input.Event, now time.Time) {
	switch e.Type {
	case input.EventWindowResize:
		w, h := d.window.DrawableSize()
		d.renderer.Resize(w, h)
		d.redraw = true

	case input.EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT {
			d.dragging = true
			d.app.BeginDrag(now)
		}

	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT && d.dragging {
			d.dragging = false
			d.app.EndDrag(now)
		}

	case input.EventMouseMove:
		if d.dragging {
			d.app.Orbit(float32(e.DeltaX), float32(e.DeltaY))
		}

	case input.EventMouseWheel:
		d.app.Zoom(e.Wheel)

	case input.EventKeyDown:
		d.handleAction(e.Action)
	}
}

func (d *Desktop) handleAction(a input.Action) {
	switch a {
	case input.ActionQuit:
		d.running = false
	case input.ActionToggleRain:
		d.app.ToggleRain()
	case input.ActionToggleParticles:
		d.app.ToggleRainParticles()
	case input.ActionFront:
		d.app.MovePreset(camera.Front)
	case input.ActionTop:
		d.app.MovePreset(camera.Top)
	case input.ActionRear:
		d.app.MovePreset(camera.Rear)
	case input.ActionNextCar:
		if next := NextCar(d.app.State()); next != "" {
			d.app.SwitchCar(next)
		}
	case input.ActionRandomPaint:
		d.app.RandomizePaint()
	case input.ActionScreenshot:
		d.shotPending = true
	case input.ActionFullscreen:
		if err := d.window.ToggleFullscreen(); err != nil {
			d.log.Warn("fullscreen toggle failed", zap.Error(err))
		}
	case input.ActionBounds:
		d.showBounds = !d.showBounds
		d.redraw = true
	}
}

func (d *Desktop) pollCommand() {
	cmd, ok, err := showroom.ReadCommand(d.commandPath)
	if err != nil {
		d.log.Warn("bad command file", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	res, err := d.app.Execute(cmd)
	if err != nil {
		d.log.Warn("command failed", zap.String("action", cmd.Action), zap.Error(err))
		return
	}
	if res.Screenshot {
		d.shotPending = true
	}
	d.log.Info("command executed", zap.String("action", cmd.Action), zap.String("result", res.Message))
}

func (d *Desktop) draw() {
	d.renderer.Draw(renderer.FrameFor(d.app, d.renderer.Aspect(), d.showBounds))
}

func (d *Desktop) takeScreenshot() {
	w, h := d.window.DrawableSize()
	path, err := d.capture.FromPixels(screenshot.ReadPixels(w, h), w, h)
	if err != nil {
		d.log.Error("screenshot failed", zap.Error(err))
		return
	}
	d.window.SetTitle(fmt.Sprintf("%s - %s", d.cfg.Window.Title, filepath.Base(path)))
}

// NextCar returns the car after the active one, wrapping around. It returns
// "" while a switch runs or before any car is active.
func NextCar(st showroom.State) string {
	if st.Switching || st.Car == "" || len(st.Cars) < 2 {
		return ""
	}
	for i, name := range st.Cars {
		if name == st.Car {
			return st.Cars[(i+1)%len(st.Cars)]
		}
	}
	return ""
}
