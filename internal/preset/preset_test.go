package preset

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/scene"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"sunny", Sunny, false},
		{"rainy", Rainy, false},
		{"snowy", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMustParseModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown mode")
		}
	}()
	MustParseMode("foggy")
}

func TestModeToggle(t *testing.T) {
	if Sunny.Toggle() != Rainy || Rainy.Toggle() != Sunny {
		t.Error("Toggle should flip between sunny and rainy")
	}
	if Mode(7).String() != "Mode(7)" {
		t.Errorf("unexpected String for invalid mode: %s", Mode(7))
	}
}

func TestDefaultValues(t *testing.T) {
	r := Default()

	sunny := r.Config(Sunny)
	if sunny.Lighting.Directional != 1.0 || sunny.Lighting.Ambient != 0.4 || sunny.Lighting.EnvMap != 1.0 {
		t.Errorf("unexpected sunny lighting %+v", sunny.Lighting)
	}
	if sunny.Fog != nil {
		t.Error("sunny preset should have no fog")
	}
	if sunny.Transition != 1500*time.Millisecond {
		t.Errorf("sunny transition = %v, want 1.5s", sunny.Transition)
	}
	if sunny.Colors.Background != scene.Hex(0xf0f0f0) {
		t.Errorf("sunny background = %v", sunny.Colors.Background)
	}

	rainy := r.Config(Rainy)
	if rainy.Lighting.Directional != 0.8 || rainy.Lighting.Ambient != 0.2 || rainy.Lighting.EnvMap != 0.8 {
		t.Errorf("unexpected rainy lighting %+v", rainy.Lighting)
	}
	if rainy.Fog == nil || rainy.Fog.Density != 0.015 || rainy.Fog.Color != scene.Hex(0x333344) {
		t.Errorf("unexpected rainy fog %+v", rainy.Fog)
	}
	if rainy.Floor.Roughness != 0.15 || rainy.Floor.Metalness != 1 {
		t.Errorf("unexpected rainy floor %+v", rainy.Floor)
	}
	if rainy.Transition != time.Second {
		t.Errorf("rainy transition = %v, want 1s", rainy.Transition)
	}
	if !rainy.Bloom.Enabled || sunny.Bloom.Enabled {
		t.Error("bloom should be enabled only when rainy")
	}
}

func TestConfigReturnsCopy(t *testing.T) {
	r := Default()
	c := r.Config(Rainy)
	c.Fog.Density = 1
	c.Lighting.Ambient = 9

	again := r.Config(Rainy)
	if again.Fog.Density != 0.015 || again.Lighting.Ambient != 0.2 {
		t.Error("registry preset was mutated through a returned copy")
	}
}

func TestConfigUnknownModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown mode")
		}
	}()
	Default().Config(Mode(5))
}

func TestFromConfigOverrides(t *testing.T) {
	dir := float32(0.5)
	zero := float32(0)
	bg := "#101010"
	transition := 2 * time.Second

	r, err := FromConfig(config.PresetsConfig{
		Sunny: config.PresetOverride{FogDensity: &zero},
		Rainy: config.PresetOverride{
			Directional: &dir,
			Background:  &bg,
			Transition:  &transition,
			FogDensity:  &zero,
		},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	rainy := r.Config(Rainy)
	if rainy.Lighting.Directional != 0.5 {
		t.Errorf("directional = %v, want 0.5", rainy.Lighting.Directional)
	}
	if rainy.Lighting.Ambient != 0.2 {
		t.Errorf("ambient should keep default, got %v", rainy.Lighting.Ambient)
	}
	if rainy.Colors.Background != scene.Hex(0x101010) {
		t.Errorf("background = %v", rainy.Colors.Background)
	}
	if rainy.Transition != 2*time.Second {
		t.Errorf("transition = %v", rainy.Transition)
	}
	if rainy.Fog != nil {
		t.Error("zero fog density should remove fog")
	}
	if r.Config(Sunny).Fog != nil {
		t.Error("sunny should still have no fog")
	}
}

func TestFromConfigInvalidColor(t *testing.T) {
	bad := "#12345"
	_, err := FromConfig(config.PresetsConfig{
		Rainy: config.PresetOverride{FloorTint: &bad},
	})
	if err == nil {
		t.Error("expected error for short hex color")
	}
}

func TestOverrideReproducesConfig(t *testing.T) {
	for _, m := range Modes() {
		want := Default().Config(m)

		got, err := Apply(Config{}, Override(want))
		if err != nil {
			t.Fatalf("%v: Apply: %v", m, err)
		}
		if got.Lighting != want.Lighting || got.Floor != want.Floor || got.Bloom != want.Bloom {
			t.Errorf("%v: round trip mismatch: %+v vs %+v", m, got, want)
		}
		if got.Transition != want.Transition || got.EnvironmentImage != want.EnvironmentImage {
			t.Errorf("%v: timing or image mismatch", m)
		}
		if (got.Fog == nil) != (want.Fog == nil) {
			t.Errorf("%v: fog presence mismatch", m)
		}
		if scene.FormatHex(got.Colors.Background) != scene.FormatHex(want.Colors.Background) {
			t.Errorf("%v: background mismatch", m)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	c, err := scene.ParseHex("#333344")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if got := scene.FormatHex(c); got != "#333344" {
		t.Errorf("FormatHex = %s, want #333344", got)
	}
	if _, err := scene.ParseHex("zzzzzz"); err == nil {
		t.Error("expected error for non-hex input")
	}
}

func TestRegistrySet(t *testing.T) {
	r := Default()
	c := r.Config(Rainy)
	c.Lighting.Ambient = 0.42
	r.Set(Rainy, c)

	c.Fog.Density = 1
	got := r.Config(Rainy)
	if got.Lighting.Ambient != 0.42 {
		t.Errorf("ambient = %v, want 0.42", got.Lighting.Ambient)
	}
	if got.Fog.Density == 1 {
		t.Error("Set kept a reference to the caller's fog")
	}

	defer func() {
		if recover() == nil {
			t.Error("Set with an unknown mode should panic")
		}
	}()
	r.Set(Mode(9), c)
}

func TestToConfigSurvivesSave(t *testing.T) {
	r := Default()
	c := r.Config(Sunny)
	c.Colors.Background = scene.Hex(0x123456)
	c.Bloom.Strength = 0.33
	r.Set(Sunny, c)

	cfg := config.Default()
	cfg.Presets = ToConfig(r)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	got, err := FromConfig(loaded.Presets)
	if err != nil {
		t.Fatalf("FromConfig() error: %v", err)
	}
	sunny := got.Config(Sunny)
	if sunny.Colors.Background != scene.Hex(0x123456) {
		t.Errorf("background = %v, want #123456", sunny.Colors.Background)
	}
	if sunny.Bloom.Strength != 0.33 {
		t.Errorf("bloom strength = %v, want 0.33", sunny.Bloom.Strength)
	}
	if got.Config(Rainy).Fog == nil {
		t.Error("rainy fog lost in the round trip")
	}
}
