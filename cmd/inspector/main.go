// Inspector - the showroom with an ImGui control panel for tuning presets.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/assets"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/framebuffer"
	"github.com/Faultbox/showroom/internal/engine/renderer"
	"github.com/Faultbox/showroom/internal/engine/screenshot"
	"github.com/Faultbox/showroom/internal/engine/ui"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/preset"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/internal/showroom"
)

func main() {
	// SDL and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()

	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitFromConfig(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg.Window.Title = "Showroom Inspector"
	insp, err := NewInspector(cfg, logger.Log)
	if err != nil {
		logger.Error("failed to start inspector", zap.Error(err))
		os.Exit(1)
	}
	defer insp.Close()

	insp.Run()
}

// saveResult is the outcome of a "save presets" dialog.
type saveResult struct {
	path string
	err  error
}

// Inspector is the ImGui front end of the showroom.
type Inspector struct {
	cfg *config.Config
	log *zap.Logger

	backend  *ui.Backend
	loader   *assets.Loader
	app      *showroom.App
	renderer *renderer.Renderer
	view     *framebuffer.Framebuffer
	capture  *screenshot.Capture

	// Preset editor state
	editMode preset.Mode
	edit     preset.Config
	paint    scene.Color

	showBounds  bool
	dragging    bool
	shotPending bool
	commandPath string

	saves     chan saveResult
	saving    bool
	status    string
	statusAt  time.Time
	lastFrame time.Time
}

// NewInspector opens the window and builds the showroom behind it.
func NewInspector(cfg *config.Config, log *zap.Logger) (*Inspector, error) {
	insp := &Inspector{
		cfg:         cfg,
		log:         log,
		editMode:    preset.Sunny,
		paint:       scene.Hex(0xffffff),
		commandPath: filepath.Join(cfg.Screenshot.Dir, "command.json"),
		saves:       make(chan saveResult, 1),
	}

	var err error
	insp.backend, err = ui.NewBackend(cfg.Window, log.Named("ui"))
	if err != nil {
		return nil, err
	}

	// Sized on the first frame, once the panel layout is known.
	insp.renderer, err = renderer.New(1, 1, log.Named("renderer"))
	if err != nil {
		return nil, err
	}
	insp.view, err = framebuffer.New(1, 1, false)
	if err != nil {
		insp.renderer.Close()
		return nil, err
	}

	insp.loader = assets.NewDirLoader(cfg.Assets.Root, assets.OptionsFromConfig(cfg.Assets), log.Named("assets"))
	insp.app, err = showroom.New(cfg, insp.loader, time.Now, log)
	if err != nil {
		insp.Close()
		return nil, err
	}
	insp.capture = screenshot.New(cfg.Screenshot, nil, log.Named("screenshot"))
	insp.edit = insp.app.Context().Presets.Config(insp.editMode)

	return insp, nil
}

// Run starts the showroom and the ImGui loop.
func (insp *Inspector) Run() {
	insp.app.Start()
	insp.log.Info("inspector started")
	insp.backend.Run(insp.render)
}

// Close releases every resource.
func (insp *Inspector) Close() {
	if insp.loader != nil {
		insp.loader.Close()
	}
	if insp.view != nil {
		insp.view.Destroy()
	}
	if insp.renderer != nil {
		insp.renderer.Close()
	}
}

// render is called once per ImGui frame.
func (insp *Inspector) render() {
	now := time.Now()
	insp.lastFrame = now

	insp.pollSave()
	insp.pollCommand()
	if ui.IsKeyPressed(imgui.KeyF12) {
		insp.shotPending = true
	}

	insp.app.Tick(now)
	insp.renderPanels()
}

func (insp *Inspector) setStatus(format string, args ...any) {
	insp.status = fmt.Sprintf(format, args...)
	insp.statusAt = insp.lastFrame
}

func (insp *Inspector) pollSave() {
	select {
	case res := <-insp.saves:
		insp.saving = false
		insp.saved(res)
	default:
	}
}

func (insp *Inspector) saved(res saveResult) {
	if res.err != nil {
		insp.log.Warn("saving presets failed", zap.Error(res.err))
		insp.setStatus("Save failed: %v", res.err)
		return
	}
	if res.path == "" {
		return
	}
	insp.log.Info("presets saved", zap.String("path", res.path))
	insp.setStatus("Saved: %s", filepath.Base(res.path))
}

func (insp *Inspector) pollCommand() {
	cmd, ok, err := showroom.ReadCommand(insp.commandPath)
	if err != nil {
		insp.log.Warn("bad command file", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	res, err := insp.app.Execute(cmd)
	if err != nil {
		insp.setStatus("Command failed: %v", err)
		return
	}
	if res.Screenshot {
		insp.shotPending = true
	}
	insp.setStatus("%s", res.Message)
}

// drawScene renders the showroom into the view framebuffer at the given
// pixel size.
func (insp *Inspector) drawScene(width, height int32) {
	if w, h := insp.view.Size(); w != width || h != height {
		insp.view.Resize(width, height)
		insp.renderer.Resize(int(width), int(height))
	}
	insp.renderer.DrawTo(renderer.FrameFor(insp.app, insp.renderer.Aspect(), insp.showBounds), insp.view)

	if insp.shotPending {
		insp.shotPending = false
		pixels := screenshot.ReadFramebuffer(insp.view.ID(), int(width), int(height))
		path, err := insp.capture.FromPixels(pixels, int(width), int(height))
		if err != nil {
			insp.setStatus("Screenshot failed: %v", err)
			return
		}
		insp.setStatus("Saved: %s", filepath.Base(path))
	}
}
