package environment

import (
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// LightingSnapshot is the lighting channel group captured by value.
type LightingSnapshot struct {
	Directional float32
	Ambient     float32
	Shadow      float32
	EnvMap      float32
	Background  scene.Color
	FloorTint   scene.Color
}

// Lerp interpolates every channel.
func (s LightingSnapshot) Lerp(to LightingSnapshot, t float32) LightingSnapshot {
	return LightingSnapshot{
		Directional: math.Lerp(s.Directional, to.Directional, t),
		Ambient:     math.Lerp(s.Ambient, to.Ambient, t),
		Shadow:      math.Lerp(s.Shadow, to.Shadow, t),
		EnvMap:      math.Lerp(s.EnvMap, to.EnvMap, t),
		Background:  s.Background.Lerp(to.Background, t),
		FloorTint:   s.FloorTint.Lerp(to.FloorTint, t),
	}
}

// BloomSnapshot is the bloom channel group.
type BloomSnapshot struct {
	Strength  float32
	Radius    float32
	Threshold float32
}

// Lerp interpolates every channel.
func (s BloomSnapshot) Lerp(to BloomSnapshot, t float32) BloomSnapshot {
	return BloomSnapshot{
		Strength:  math.Lerp(s.Strength, to.Strength, t),
		Radius:    math.Lerp(s.Radius, to.Radius, t),
		Threshold: math.Lerp(s.Threshold, to.Threshold, t),
	}
}
