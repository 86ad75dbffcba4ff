package showroom

import (
	"testing"
	"time"

	"github.com/Faultbox/showroom/internal/assets"
	"github.com/Faultbox/showroom/internal/camera"
	"github.com/Faultbox/showroom/internal/car"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/preset"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

type fakeLoader struct {
	images map[string]chan assets.ImageResult
	models map[string]chan assets.ModelResult
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		images: make(map[string]chan assets.ImageResult),
		models: make(map[string]chan assets.ModelResult),
	}
}

func (f *fakeLoader) LoadImage(path string) <-chan assets.ImageResult {
	ch := make(chan assets.ImageResult, 1)
	f.images[path] = ch
	return ch
}

func (f *fakeLoader) LoadModel(path string) <-chan assets.ModelResult {
	ch := make(chan assets.ModelResult, 1)
	f.models[path] = ch
	return ch
}

func (f *fakeLoader) finishModel(t *testing.T, path string, n *scene.Node) {
	t.Helper()
	ch, ok := f.models[path]
	if !ok {
		t.Fatalf("model %q was never requested", path)
	}
	ch <- assets.ModelResult{Path: path, Node: n}
}

func carNode(name string) *scene.Node {
	n := scene.NewNode(name)
	n.Meshes = []*scene.Mesh{{
		Name:     "Body",
		Material: scene.NewMaterial("carpaint"),
		Bounds:   scene.Box{Min: math.Vec3{X: -1, Z: -2}, Max: math.Vec3{X: 1, Y: 1.5, Z: 2}},
	}}
	return n
}

func labelNode(name string) *scene.Node {
	n := scene.NewNode(name)
	n.Meshes = []*scene.Mesh{{Name: "Sign", Material: scene.NewMaterial("M_Sign")}}
	return n
}

type testApp struct {
	*App
	cfg    *config.Config
	loader *fakeLoader
	start  time.Time
	now    time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Default()
	loader := newFakeLoader()
	ta := &testApp{
		cfg:    cfg,
		loader: loader,
		start:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	ta.now = ta.start
	app, err := New(cfg, loader, func() time.Time { return ta.now }, logger.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ta.App = app
	app.Start()
	return ta
}

// tickAt moves the clock to start+d and ticks once.
func (ta *testApp) tickAt(d time.Duration) bool {
	ta.now = ta.start.Add(d)
	return ta.Tick(ta.now)
}

// settle ticks until the camera stops.
func (ta *testApp) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		ta.Tick(ta.now)
		if !ta.Context().Camera.Active() {
			return
		}
	}
	t.Fatal("camera never settled")
}

// loadCars finishes both car models and their labels.
func (ta *testApp) loadCars(t *testing.T) {
	t.Helper()
	for _, c := range ta.cfg.Cars {
		ta.loader.finishModel(t, c.Label, labelNode(c.Name+"-label"))
		ta.loader.finishModel(t, c.Model, carNode(c.Name))
	}
	ta.Tick(ta.now)
}

func near(a, b math.Vec3) bool {
	return a.Distance(b) < 0.02
}

func TestStartRequestsAssets(t *testing.T) {
	ta := newTestApp(t)

	if _, ok := ta.loader.images[ta.cfg.Scene.StartupEnvironment]; !ok {
		t.Errorf("startup environment %q not requested", ta.cfg.Scene.StartupEnvironment)
	}
	if _, ok := ta.loader.models[ta.cfg.Scene.Floor]; !ok {
		t.Errorf("floor %q not requested", ta.cfg.Scene.Floor)
	}
	for _, c := range ta.cfg.Cars {
		if _, ok := ta.loader.models[c.Model]; !ok {
			t.Errorf("car model %q not requested", c.Model)
		}
		if _, ok := ta.loader.models[c.Label]; !ok {
			t.Errorf("label %q not requested", c.Label)
		}
	}

	st := ta.State()
	if st.Mode != preset.Sunny {
		t.Errorf("Mode = %v, want sunny", st.Mode)
	}
	if st.RainVisible {
		t.Error("rain visible at startup")
	}
	if st.Preset != camera.Front {
		t.Errorf("Preset = %v, want front", st.Preset)
	}
	if st.Car != "" {
		t.Errorf("Car = %q before any load", st.Car)
	}
	if want := 1 + len(ta.cfg.Cars); st.PendingLoads != want {
		t.Errorf("PendingLoads = %d, want %d", st.PendingLoads, want)
	}
}

func TestStartRainy(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.StartRainy = true
	now := time.Now()
	app, err := New(cfg, newFakeLoader(), func() time.Time { return now }, logger.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	app.Start()

	st := app.State()
	if st.Mode != preset.Rainy || !st.RainVisible || !st.Animating {
		t.Errorf("State = %+v, want rainy, raining and animating", st)
	}
}

func TestNewRejectsBadPresetOverride(t *testing.T) {
	cfg := config.Default()
	bad := "not-a-color"
	cfg.Presets.Rainy.Background = &bad

	if _, err := New(cfg, newFakeLoader(), nil, logger.Nop()); err == nil {
		t.Error("New() accepted an invalid preset color")
	}
}

func TestInitialCarFramesCamera(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCars(t)

	st := ta.State()
	if st.Car != ta.cfg.Scene.DefaultCar {
		t.Fatalf("Car = %q, want %q", st.Car, ta.cfg.Scene.DefaultCar)
	}
	if got := ta.Context().Labels.Name(); got != ta.cfg.Scene.DefaultCar {
		t.Errorf("label = %q, want %q", got, ta.cfg.Scene.DefaultCar)
	}
	if st.LabelsReady != len(ta.cfg.Cars) {
		t.Errorf("LabelsReady = %d, want %d", st.LabelsReady, len(ta.cfg.Cars))
	}

	ta.settle(t)
	// Car bounds center (0, 0.75, 0) plus the front offset (2, 1.5, 8).
	want := math.Vec3{X: 2, Y: 2.25, Z: 8}
	if got := ta.Context().Controls.Position; !near(got, want) {
		t.Errorf("camera = %v, want %v", got, want)
	}
}

func TestToggleRainParticlesTwice(t *testing.T) {
	ta := newTestApp(t)

	if !ta.ToggleRainParticles() {
		t.Error("first toggle should show rain")
	}
	if ta.ToggleRainParticles() {
		t.Error("second toggle should hide rain")
	}
	if st := ta.State(); st.RainVisible || st.Mode != preset.Sunny {
		t.Errorf("State = %+v, want hidden rain in sunny mode", st)
	}
}

func TestToggleRainFlipsMode(t *testing.T) {
	ta := newTestApp(t)

	if !ta.ToggleRain() {
		t.Fatal("ToggleRain() = false, want raining")
	}
	if st := ta.State(); st.Mode != preset.Rainy || !st.RainVisible {
		t.Errorf("State = %+v, want rainy with rain", st)
	}
	if ta.ToggleRain() {
		t.Fatal("second ToggleRain() = true, want sunny")
	}
	if st := ta.State(); st.Mode != preset.Sunny || st.RainVisible {
		t.Errorf("State = %+v, want sunny without rain", st)
	}
}

func TestSetModeSameIsNoop(t *testing.T) {
	ta := newTestApp(t)

	if !ta.SetMode(preset.Sunny) {
		t.Error("SetMode(Sunny) = false")
	}
	if ta.State().Animating {
		t.Error("same-mode switch started an animation")
	}
}

func TestRainyScenarioCompletes(t *testing.T) {
	ta := newTestApp(t)
	rainy := preset.Default().Config(preset.Rainy)

	ta.SetMode(preset.Rainy)
	ta.tickAt(rainy.Transition / 2)
	if !ta.State().Animating {
		t.Fatal("not animating halfway through")
	}
	ta.tickAt(rainy.Transition)
	if ta.State().Animating {
		t.Error("still animating after the transition")
	}

	s := ta.Context().Scene
	if s.Background != rainy.Colors.Background {
		t.Errorf("Background = %v, want %v", s.Background, rainy.Colors.Background)
	}
	if s.Fog == nil {
		t.Error("rainy fog not applied")
	}
}

func TestTwoPresetsDuringSettleDelay(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCars(t)
	ta.settle(t)

	ta.BeginDrag(ta.now)
	ta.Orbit(120, 30)
	ta.EndDrag(ta.now)
	dragged := ta.Context().Controls.Position

	ta.MovePreset(camera.Top)
	ta.MovePreset(camera.Rear)

	ta.tickAt(500 * time.Millisecond)
	if got := ta.Context().Controls.Position; got != dragged {
		t.Fatalf("camera moved during the settle delay: %v -> %v", dragged, got)
	}

	ta.tickAt(ta.cfg.Camera.SettleDelay)
	if ta.Context().Camera.Suspended() {
		t.Fatal("camera still suspended after the settle delay")
	}
	ta.settle(t)

	want, _ := ta.Context().Camera.Targets(camera.Rear)
	if got := ta.Context().Controls.Position; !near(got, want) {
		t.Errorf("camera = %v, want rear %v", got, want)
	}
	if st := ta.State(); st.Preset != camera.Rear {
		t.Errorf("Preset = %v, want rear", st.Preset)
	}
}

func TestDragCancelsPendingSettle(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCars(t)
	ta.settle(t)

	ta.BeginDrag(ta.now)
	ta.EndDrag(ta.now)
	ta.tickAt(500 * time.Millisecond)
	ta.BeginDrag(ta.now)

	ta.tickAt(2 * ta.cfg.Camera.SettleDelay)
	if !ta.Context().Camera.Suspended() {
		t.Error("camera resumed while the user is dragging")
	}
	if !ta.State().Dragging {
		t.Error("Dragging = false")
	}
}

func TestLabelHidesOnDragAndReturns(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCars(t)
	ta.settle(t)

	ta.BeginDrag(ta.now)
	ta.EndDrag(ta.now)
	ta.tickAt(ta.cfg.Label.Duration)
	if op := ta.Context().Labels.Opacity(); op != 0 {
		t.Errorf("opacity after hide = %v, want 0", op)
	}

	ta.tickAt(ta.cfg.Camera.SettleDelay)
	ta.tickAt(ta.cfg.Camera.SettleDelay + ta.cfg.Label.Duration)
	if op := ta.Context().Labels.Opacity(); op != 1 {
		t.Errorf("opacity after settle = %v, want 1", op)
	}
}

func TestSwitchCar(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCars(t)
	ta.settle(t)
	home := ta.Context().Controls.Position
	other := ta.cfg.Cars[1].Name

	done := ta.SwitchCar(other)
	if !ta.State().Switching {
		t.Fatal("Switching = false after SwitchCar")
	}
	ta.tickAt(car.BounceUp)
	ta.tickAt(car.BounceUp + car.BounceDown)

	select {
	case ok := <-done:
		if !ok {
			t.Fatal("switch reported failure")
		}
	default:
		t.Fatal("switch did not finish")
	}
	if st := ta.State(); st.Car != other || st.Switching {
		t.Errorf("State = %+v, want %q active", st, other)
	}
	if got := ta.Context().Labels.Name(); got != other {
		t.Errorf("label = %q, want %q", got, other)
	}
	if got := ta.Context().Controls.Position; !near(got, home) {
		t.Errorf("camera = %v, want back at %v", got, home)
	}
}

func TestFloorLoadAppliesPreset(t *testing.T) {
	ta := newTestApp(t)
	floor := scene.NewNode("floor")
	mat := scene.NewMaterial("M_Floor")
	mat.Physical = true
	floor.Meshes = []*scene.Mesh{{Name: "Floor", Material: mat}}

	ta.loader.finishModel(t, ta.cfg.Scene.Floor, floor)
	if !ta.Tick(ta.now) {
		t.Error("Tick() = false after the floor arrived")
	}

	if !ta.State().FloorLoaded || ta.Floor() != floor {
		t.Fatal("floor not registered")
	}
	if !ta.Context().Scene.Contains(floor) {
		t.Error("floor not added to the scene")
	}
	if !floor.Meshes[0].ReceiveShadow {
		t.Error("floor does not receive shadows")
	}
	sunny := preset.Default().Config(preset.Sunny)
	if mat.Roughness != sunny.Floor.Roughness || mat.EnvMapIntensity != sunny.Floor.EnvMapIntensity {
		t.Errorf("floor = roughness %v env %v, want %v %v",
			mat.Roughness, mat.EnvMapIntensity, sunny.Floor.Roughness, sunny.Floor.EnvMapIntensity)
	}
}

func TestRandomizePaint(t *testing.T) {
	ta := newTestApp(t)
	if _, ok := ta.RandomizePaint(); ok {
		t.Error("RandomizePaint() succeeded without a car")
	}

	ta.loadCars(t)
	c, ok := ta.RandomizePaint()
	if !ok {
		t.Fatal("RandomizePaint() = false with a car")
	}
	for _, m := range ta.Context().Cars.ActiveNode().Materials(scene.TagCarPaint) {
		if m.Color != c {
			t.Errorf("paint = %v, want %v", m.Color, c)
		}
	}
}

func TestTickGoesIdle(t *testing.T) {
	ta := newTestApp(t)
	ta.loadCars(t)

	idle := false
	for i := 0; i < 1000; i++ {
		if !ta.Tick(ta.now) {
			idle = true
			break
		}
	}
	if !idle {
		t.Fatal("Tick() never reported idle")
	}

	ta.ToggleRainParticles()
	if !ta.tickAt(time.Millisecond) {
		t.Error("Tick() = false with rain falling")
	}
}

func TestUpdatePresetOnlyAnimatesCurrentMode(t *testing.T) {
	ta := newTestApp(t)

	rainy := ta.Context().Presets.Config(preset.Rainy)
	rainy.Lighting.Ambient = 0.9
	ta.UpdatePreset(preset.Rainy, rainy)
	if ta.State().Animating {
		t.Error("editing the hidden mode started an animation")
	}
	if got := ta.Context().Presets.Config(preset.Rainy).Lighting.Ambient; got != 0.9 {
		t.Errorf("stored ambient = %v, want 0.9", got)
	}

	sunny := ta.Context().Presets.Config(preset.Sunny)
	sunny.Colors.Background = scene.Hex(0x202020)
	ta.UpdatePreset(preset.Sunny, sunny)
	if !ta.State().Animating {
		t.Fatal("editing the shown mode should animate")
	}
	ta.tickAt(sunny.Transition)
	if got := ta.Context().Scene.Background; got != scene.Hex(0x202020) {
		t.Errorf("Background = %v, want #202020", got)
	}
}
