// Package ui wraps the ImGui SDL backend used by the inspector.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/scene"
)

// fontPaths are tried in order; the ImGui default font is used when none
// exists.
var fontPaths = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"C:\\Windows\\Fonts\\segoeui.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
}

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	log     *zap.Logger
}

// NewBackend creates the ImGui window and initializes OpenGL for it.
func NewBackend(cfg config.WindowConfig, log *zap.Logger) (*Backend, error) {
	b := &Backend{log: log}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be added before the first frame builds the atlas.
	b.backend.SetAfterCreateContextHook(b.loadFont)

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(cfg.Title, cfg.Width, cfg.Height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	return b, nil
}

func (b *Backend) loadFont() {
	var fontPath string
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}
	if fontPath == "" {
		b.log.Debug("no system font found, using the default")
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	if imgui.CurrentIO().Fonts().AddFontFromFileTTFV(fontPath, 16.0, fontCfg, nil) == nil {
		b.log.Warn("failed to load font", zap.String("path", fontPath))
		return
	}
	b.log.Debug("font loaded", zap.String("path", fontPath))
}

// Run starts the main render loop. It returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Viewport returns the main viewport work area.
func Viewport() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// FramebufferScale returns the drawable pixels per logical pixel.
func FramebufferScale() float32 {
	s := imgui.CurrentIO().DisplayFramebufferScale()
	if s.X <= 0 {
		return 1
	}
	return s.X
}

// Image shows a GL texture, flipped to match OpenGL's bottom-left origin.
func Image(texID uint32, size imgui.Vec2) {
	ref := imgui.NewTextureRefTextureID(imgui.TextureID(texID))
	imgui.ImageWithBgV(
		*ref,
		size,
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// ColorEdit edits c in place and reports whether it changed.
func ColorEdit(label string, c *scene.Color) bool {
	v := ColorArray(*c)
	if !imgui.ColorEdit3(label, &v) {
		return false
	}
	*c = ArrayColor(v)
	return true
}

// ColorArray converts a color for ImGui's color widgets.
func ColorArray(c scene.Color) [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// ArrayColor is the inverse of ColorArray.
func ArrayColor(v [3]float32) scene.Color {
	return scene.Color{R: v[0], G: v[1], B: v[2]}
}
