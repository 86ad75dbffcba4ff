package camera

import (
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

func carBounds() (scene.Box, bool) {
	return scene.Box{
		Min: math.Vec3{X: -1, Y: 0, Z: -2},
		Max: math.Vec3{X: 1, Y: 1.6, Z: 2},
	}, true
}

func newTestTransition(bounds BoundsSource) (*Controls, *Transition) {
	cfg := config.Default().Camera
	controls := NewControls(cfg)
	return controls, NewTransition(controls, cfg, bounds, logger.Nop())
}

// settle advances until the transition stops, returning the tick count.
func settle(t *testing.T, tr *Transition) int {
	t.Helper()
	ticks := 0
	for tr.Advance(time.Time{}) {
		ticks++
		if ticks > 5000 {
			t.Fatal("transition never settled")
		}
	}
	return ticks
}

func TestParsePreset(t *testing.T) {
	for _, p := range Presets() {
		got, err := ParsePreset(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePreset(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePreset("side"); err == nil {
		t.Error("expected error for unknown preset")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustParsePreset should panic")
		}
	}()
	MustParsePreset("side")
}

func TestTargetsFromBounds(t *testing.T) {
	_, tr := newTestTransition(carBounds)

	tests := []struct {
		preset    Preset
		pos, look math.Vec3
	}{
		{Front, math.Vec3{X: 2, Y: 0.8 + 1.5, Z: 8}, math.Vec3{X: 0, Y: 0.8 + 0.75, Z: 0}},
		{Top, math.Vec3{X: 0, Y: 0.8 + 10, Z: 0}, math.Vec3{X: 0, Y: 0.8, Z: 0}},
		{Rear, math.Vec3{X: -2, Y: 0.8 + 1.5, Z: -8}, math.Vec3{X: 0, Y: 0.8 + 0.75, Z: 0}},
	}
	for _, tt := range tests {
		pos, look := tr.Targets(tt.preset)
		if pos.Distance(tt.pos) > 1e-5 || look.Distance(tt.look) > 1e-5 {
			t.Errorf("%v: got pos %v look %v, want %v %v", tt.preset, pos, look, tt.pos, tt.look)
		}
	}
}

func TestTargetsFallbackWithoutCar(t *testing.T) {
	_, tr := newTestTransition(nil)
	pos, look := tr.Targets(Front)
	if pos != (math.Vec3{X: 4, Y: 1, Z: 7}) || look != (math.Vec3{X: -0.3, Y: 1}) {
		t.Errorf("front fallback = %v %v", pos, look)
	}

	tr.SetBounds(func() (scene.Box, bool) { return scene.Box{}, false })
	pos, _ = tr.Targets(Top)
	if pos != (math.Vec3{Y: 10}) {
		t.Errorf("top fallback = %v", pos)
	}
}

func TestPresetHeight(t *testing.T) {
	_, tr := newTestTransition(carBounds)
	tr.SetPresetHeight(Top, 6)
	pos, _ := tr.Targets(Top)
	if absf(pos.Y-6.8) > 1e-5 {
		t.Errorf("top y = %v, want 6.8", pos.Y)
	}

	tr.SetHeights(2, 12, 3)
	if tr.Height(Front) != 2 || tr.Height(Top) != 12 || tr.Height(Rear) != 3 {
		t.Error("SetHeights did not apply")
	}
}

func TestMoveToConverges(t *testing.T) {
	controls, tr := newTestTransition(carBounds)
	tr.MoveTo(Rear)
	wantPos, wantLook := tr.Targets(Rear)

	ticks := settle(t, tr)
	if controls.Position != wantPos || controls.Target != wantLook {
		t.Errorf("ended at %v looking %v, want %v %v", controls.Position, controls.Target, wantPos, wantLook)
	}
	if ticks < 20 {
		t.Errorf("expected a gradual approach, finished in %d ticks", ticks)
	}
	if tr.Active() || tr.Preset() != Rear {
		t.Error("transition should be idle on rear")
	}
}

func TestSuspendBlocksAdvance(t *testing.T) {
	controls, tr := newTestTransition(carBounds)
	tr.MoveTo(Front)
	tr.Suspend()

	before := controls.Position
	if tr.Advance(time.Time{}) {
		t.Error("suspended transition should not advance")
	}
	if controls.Position != before {
		t.Error("suspended transition moved the camera")
	}
}

func TestTwoPresetsDuringSettleDelay(t *testing.T) {
	controls, tr := newTestTransition(carBounds)

	// Drag starts, user releases; presets arrive before the settle fires.
	tr.Suspend()
	controls.HandleDrag(40, 10)
	tr.MoveTo(Top)
	tr.MoveTo(Rear)
	for i := 0; i < 10; i++ {
		tr.Advance(time.Time{})
	}

	tr.Resume()
	settle(t, tr)

	want, _ := tr.Targets(Rear)
	if controls.Position != want {
		t.Errorf("camera at %v, want last requested preset %v", controls.Position, want)
	}
}

func TestResumeReturnsToPresetAfterDrag(t *testing.T) {
	controls, tr := newTestTransition(carBounds)
	tr.MoveTo(Front)
	settle(t, tr)

	tr.Suspend()
	controls.HandleDrag(100, 0)
	want, _ := tr.Targets(Front)
	if controls.Position.Distance(want) < 0.1 {
		t.Fatal("drag should have moved the camera")
	}

	tr.Resume()
	if !tr.Active() {
		t.Fatal("resume should restart the approach")
	}
	settle(t, tr)
	if controls.Position != want {
		t.Errorf("camera at %v, want %v", controls.Position, want)
	}
}

func TestResumeWithoutPresetStaysIdle(t *testing.T) {
	_, tr := newTestTransition(carBounds)
	tr.Suspend()
	tr.Resume()
	if tr.Active() {
		t.Error("no preset was requested; nothing to resume")
	}
}

func TestControlsZoomClamps(t *testing.T) {
	controls, _ := newTestTransition(nil)
	controls.Position = math.Vec3{Z: 5}

	for i := 0; i < 100; i++ {
		controls.HandleZoom(1)
	}
	if d := controls.Distance(); absf(d-controls.MinDistance) > 1e-4 {
		t.Errorf("distance = %v, want min %v", d, controls.MinDistance)
	}
	for i := 0; i < 100; i++ {
		controls.HandleZoom(-1)
	}
	if d := controls.Distance(); absf(d-controls.MaxDistance) > 1e-3 {
		t.Errorf("distance = %v, want max %v", d, controls.MaxDistance)
	}
}

func TestControlsDragKeepsAboveFloor(t *testing.T) {
	controls, _ := newTestTransition(nil)
	controls.Position = math.Vec3{Z: 5}

	controls.HandleDrag(0, -10000)
	_, polar, _ := controls.spherical()
	if polar > float64(controls.MaxPolar)+1e-4 {
		t.Errorf("polar = %v exceeds max %v", polar, controls.MaxPolar)
	}
	if d := controls.Distance(); absf(d-5) > 1e-4 {
		t.Errorf("drag changed distance to %v", d)
	}
	if controls.Position.Y < 0 {
		t.Errorf("camera went below the floor: %v", controls.Position)
	}
}

func TestViewMatrixCentersTarget(t *testing.T) {
	controls, _ := newTestTransition(nil)
	controls.Position = math.Vec3{X: 3, Y: 2, Z: 6}
	controls.Target = math.Vec3{Y: 1}

	v := controls.ViewMatrix().TransformVec3(controls.Target)
	if absf(v.X) > 1e-4 || absf(v.Y) > 1e-4 || v.Z >= 0 {
		t.Errorf("target in view space = %v, want on -Z axis", v)
	}
	if p := controls.ProjectionMatrix(16.0 / 9); gomath.IsNaN(float64(p[0])) {
		t.Error("projection contains NaN")
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
