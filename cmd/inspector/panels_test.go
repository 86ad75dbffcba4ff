package main

import (
	"testing"

	"github.com/Faultbox/showroom/internal/scene"
)

func TestToggleFog(t *testing.T) {
	existing := &scene.Fog{Color: scene.Hex(0x8c8c8c), Density: 0.05}

	if got := toggleFog(existing, false); got != nil {
		t.Errorf("disabling fog = %+v, want nil", got)
	}
	if got := toggleFog(existing, true); got != existing {
		t.Errorf("enabling existing fog replaced it: %+v", got)
	}
	got := toggleFog(nil, true)
	if got == nil {
		t.Fatal("enabling absent fog returned nil")
	}
	if got.Density <= 0 {
		t.Errorf("new fog density = %v, want > 0", got.Density)
	}
}
