package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"

	"github.com/Faultbox/showroom/internal/camera"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/ui"
	"github.com/Faultbox/showroom/internal/preset"
	"github.com/Faultbox/showroom/internal/scene"
)

const (
	controlsWidth   = float32(280)
	editorWidth     = float32(340)
	statusBarHeight = float32(30)
	statusTimeout   = 4 * time.Second
)

func (insp *Inspector) renderPanels() {
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Save presets") {
				insp.savePresets()
			}
			if imgui.MenuItemBool("Save presets as...") {
				insp.savePresetsAs()
			}
			if imgui.MenuItemBool("Screenshot (F12)") {
				insp.shotPending = true
			}
			imgui.EndMenu()
		}
		if imgui.BeginMenu("View") {
			if imgui.MenuItemBool("Toggle bounds") {
				insp.showBounds = !insp.showBounds
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}

	workPos, workSize := ui.Viewport()
	contentHeight := workSize.Y - statusBarHeight
	sceneWidth := workSize.X - controlsWidth - editorWidth
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(controlsWidth, contentHeight))
	if imgui.BeginV("Controls", nil, flags) {
		insp.renderControls()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+controlsWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(sceneWidth, contentHeight))
	if imgui.BeginV("Scene", nil, flags|imgui.WindowFlagsNoScrollbar) {
		insp.renderScene()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+controlsWidth+sceneWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(editorWidth, contentHeight))
	if imgui.BeginV("Preset", nil, flags) {
		insp.renderPresetEditor()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	if imgui.BeginV("##StatusBar", nil, flags|imgui.WindowFlagsNoTitleBar|imgui.WindowFlagsNoScrollbar) {
		insp.renderStatusBar()
	}
	imgui.End()
}

func (insp *Inspector) renderControls() {
	app := insp.app
	st := app.State()

	if imgui.TreeNodeExStrV("Weather", imgui.TreeNodeFlagsDefaultOpen) {
		for _, m := range preset.Modes() {
			if imgui.RadioButtonBool(m.String(), st.Mode == m) {
				app.SetMode(m)
			}
			imgui.SameLine()
		}
		imgui.NewLine()
		if imgui.Button("Toggle rain") {
			app.ToggleRain()
		}
		imgui.SameLine()
		particles := st.RainVisible
		if imgui.Checkbox("Particles", &particles) {
			app.ToggleRainParticles()
		}
		imgui.TreePop()
	}

	imgui.Separator()
	if imgui.TreeNodeExStrV("Camera", imgui.TreeNodeFlagsDefaultOpen) {
		cam := app.Context().Camera
		for _, p := range camera.Presets() {
			if imgui.ButtonV(p.String(), imgui.NewVec2(80, 0)) {
				app.MovePreset(p)
			}
			imgui.SameLine()
		}
		imgui.NewLine()
		for _, p := range camera.Presets() {
			h := cam.Height(p)
			if imgui.SliderFloatV(p.String()+" height", &h, 0, 20, "%.2f", imgui.SliderFlagsNone) {
				cam.SetPresetHeight(p, h)
			}
		}
		imgui.TreePop()
	}

	imgui.Separator()
	if imgui.TreeNodeExStrV("Car", imgui.TreeNodeFlagsDefaultOpen) {
		for _, name := range st.Cars {
			label := name
			if name == st.Car {
				label = "> " + name
			}
			if imgui.ButtonV(label, imgui.NewVec2(-1, 0)) && !st.Switching {
				app.SwitchCar(name)
			}
		}
		if ui.ColorEdit("Paint", &insp.paint) {
			app.Context().Cars.SetPaintColor(insp.paint)
			app.Invalidate()
		}
		if imgui.Button("Random paint") {
			if c, ok := app.RandomizePaint(); ok {
				insp.paint = c
			}
		}
		imgui.TreePop()
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Mode: %s", st.Mode))
	imgui.Text(fmt.Sprintf("View: %s", st.Preset))
	if st.Animating {
		imgui.TextColored(imgui.NewVec4(1, 0.8, 0, 1), "Lighting transition")
	}
	if st.CameraMoving {
		imgui.TextColored(imgui.NewVec4(0.4, 0.8, 1, 1), "Camera moving")
	}
	if st.PendingLoads > 0 {
		imgui.TextDisabled(fmt.Sprintf("Loading %d asset(s)", st.PendingLoads))
	}
}

// renderScene draws the showroom into the panel and routes mouse input to
// the orbit controls.
func (insp *Inspector) renderScene() {
	avail := imgui.ContentRegionAvail()
	if avail.X < 1 || avail.Y < 1 {
		return
	}
	scale := ui.FramebufferScale()
	insp.drawScene(int32(avail.X*scale), int32(avail.Y*scale))
	ui.Image(insp.view.ColorTexture(), avail)

	now := insp.lastFrame
	hovered := imgui.IsItemHovered()
	dragging := imgui.IsMouseDragging(imgui.MouseButtonLeft)
	switch {
	case dragging && !insp.dragging && hovered:
		insp.dragging = true
		insp.app.BeginDrag(now)
	case !dragging && insp.dragging:
		insp.dragging = false
		insp.app.EndDrag(now)
	}
	if insp.dragging {
		delta := imgui.CurrentIO().MouseDelta()
		insp.app.Orbit(delta.X, delta.Y)
	}
	if hovered {
		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			insp.app.Zoom(wheel)
		}
	}
}

func (insp *Inspector) renderPresetEditor() {
	reg := insp.app.Context().Presets

	for _, m := range preset.Modes() {
		if imgui.RadioButtonBool(m.String(), insp.editMode == m) && insp.editMode != m {
			insp.editMode = m
			insp.edit = reg.Config(m)
		}
		imgui.SameLine()
	}
	imgui.NewLine()
	imgui.Separator()

	if editPreset(&insp.edit) {
		insp.app.UpdatePreset(insp.editMode, insp.edit)
	}

	imgui.Separator()
	if imgui.Button("Defaults") {
		insp.edit = preset.Default().Config(insp.editMode)
		insp.app.UpdatePreset(insp.editMode, insp.edit)
	}
	imgui.SameLine()
	if imgui.Button("Save") {
		insp.savePresets()
	}
	imgui.SameLine()
	if imgui.Button("Save as...") {
		insp.savePresetsAs()
	}
}

// editPreset shows the editable fields of c and reports whether any changed.
func editPreset(c *preset.Config) bool {
	changed := false
	slider := func(label string, v *float32, hi float32) {
		if imgui.SliderFloatV(label, v, 0, hi, "%.3f", imgui.SliderFlagsNone) {
			changed = true
		}
	}

	if imgui.TreeNodeExStrV("Lighting", imgui.TreeNodeFlagsDefaultOpen) {
		slider("Directional", &c.Lighting.Directional, 5)
		slider("Ambient", &c.Lighting.Ambient, 5)
		slider("Env map", &c.Lighting.EnvMap, 3)
		slider("Shadow", &c.Lighting.Shadow, 1)
		imgui.TreePop()
	}
	if imgui.TreeNodeExStrV("Colors", imgui.TreeNodeFlagsDefaultOpen) {
		changed = ui.ColorEdit("Background", &c.Colors.Background) || changed
		changed = ui.ColorEdit("Floor tint", &c.Colors.FloorTint) || changed
		imgui.TreePop()
	}
	if imgui.TreeNodeExStrV("Floor", imgui.TreeNodeFlagsNone) {
		slider("Roughness", &c.Floor.Roughness, 1)
		slider("Metalness", &c.Floor.Metalness, 1)
		slider("Env intensity", &c.Floor.EnvMapIntensity, 3)
		slider("Specular", &c.Floor.SpecularIntensity, 1)
		slider("Clearcoat", &c.Floor.Clearcoat, 1)
		slider("Clearcoat roughness", &c.Floor.ClearcoatRoughness, 1)
		imgui.TreePop()
	}
	if imgui.TreeNodeExStrV("Fog", imgui.TreeNodeFlagsNone) {
		enabled := c.Fog != nil
		if imgui.Checkbox("Enabled", &enabled) {
			changed = true
			c.Fog = toggleFog(c.Fog, enabled)
		}
		if c.Fog != nil {
			changed = ui.ColorEdit("Fog color", &c.Fog.Color) || changed
			if imgui.SliderFloatV("Density", &c.Fog.Density, 0, 0.1, "%.4f", imgui.SliderFlagsNone) {
				changed = true
			}
		}
		imgui.TreePop()
	}
	if imgui.TreeNodeExStrV("Bloom", imgui.TreeNodeFlagsNone) {
		if imgui.Checkbox("Bloom enabled", &c.Bloom.Enabled) {
			changed = true
		}
		slider("Strength", &c.Bloom.Strength, 3)
		slider("Radius", &c.Bloom.Radius, 1)
		slider("Threshold", &c.Bloom.Threshold, 1)
		imgui.TreePop()
	}
	if imgui.TreeNodeExStrV("Timing", imgui.TreeNodeFlagsNone) {
		changed = durationSlider("Transition", &c.Transition) || changed
		changed = durationSlider("Bloom transition", &c.BloomTransition) || changed
		imgui.TreePop()
	}
	if c.EnvironmentImage != "" {
		imgui.TextDisabled("Environment: " + c.EnvironmentImage)
	}
	return changed
}

// toggleFog returns the fog to use after the enabled checkbox changed.
func toggleFog(f *scene.Fog, enabled bool) *scene.Fog {
	switch {
	case !enabled:
		return nil
	case f != nil:
		return f
	default:
		return &scene.Fog{Color: scene.Hex(0xcccccc), Density: 0.02}
	}
}

func durationSlider(label string, d *time.Duration) bool {
	secs := float32(d.Seconds())
	if !imgui.SliderFloatV(label, &secs, 0, 5, "%.2fs", imgui.SliderFlagsNone) {
		return false
	}
	*d = time.Duration(float64(secs) * float64(time.Second))
	return true
}

func (insp *Inspector) renderStatusBar() {
	st := insp.app.State()
	imgui.Text(fmt.Sprintf("%s | %s | %s", st.Mode, st.Preset, st.Car))
	if insp.status != "" && insp.lastFrame.Sub(insp.statusAt) < statusTimeout {
		imgui.SameLine()
		imgui.TextColored(imgui.NewVec4(0.4, 1, 0.4, 1), "  "+insp.status)
	}
}

// presetConfig returns the loaded config with the edited presets in place.
func (insp *Inspector) presetConfig() config.Config {
	out := *insp.cfg
	out.Presets = preset.ToConfig(insp.app.Context().Presets)
	return out
}

// savePresets writes the edited presets to the user config, where the next
// start of either binary loads them.
func (insp *Inspector) savePresets() {
	out := insp.presetConfig()
	path, err := out.Save()
	insp.saved(saveResult{path: path, err: err})
}

// savePresetsAs asks for a path first. The dialog blocks, so it runs off the
// main thread; the result comes back through insp.saves.
func (insp *Inspector) savePresetsAs() {
	if insp.saving {
		return
	}
	insp.saving = true
	out := insp.presetConfig()

	go func() {
		path, err := dialog.File().
			Filter("YAML", "yaml", "yml").
			Title("Save presets").
			Save()
		if err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				err = nil
			}
			insp.saves <- saveResult{err: err}
			return
		}
		insp.saves <- saveResult{path: path, err: out.SaveTo(path)}
	}()
}
