package preset

import (
	"fmt"
	"time"

	"github.com/Faultbox/showroom/internal/scene"
)

// Lighting holds the interpolated light intensities.
type Lighting struct {
	Directional float32
	Ambient     float32
	EnvMap      float32
	Shadow      float32
}

// Colors holds the interpolated colors.
type Colors struct {
	Background scene.Color
	FloorTint  scene.Color
}

// Floor holds the floor surface, applied discretely at the start of a switch.
type Floor struct {
	Roughness          float32
	Metalness          float32
	EnvMapIntensity    float32
	SpecularIntensity  float32
	Clearcoat          float32
	ClearcoatRoughness float32
}

// Config is the full preset for one mode.
type Config struct {
	Lighting Lighting
	Colors   Colors
	Floor    Floor
	Fog      *scene.Fog // nil means no fog
	Bloom    scene.Bloom

	// Transition is the duration of a switch into this mode.
	Transition      time.Duration
	BloomTransition time.Duration

	EnvironmentImage string
}

// Registry maps each mode to exactly one preset.
type Registry struct {
	configs [len(modeNames)]Config
}

// NewRegistry builds a registry from the two presets.
func NewRegistry(sunny, rainy Config) *Registry {
	r := &Registry{}
	r.configs[Sunny] = sunny
	r.configs[Rainy] = rainy
	return r
}

// Config returns the preset for m. The returned value is a copy and may be
// modified freely. Config panics on an unknown mode.
func (r *Registry) Config(m Mode) Config {
	if !m.Valid() {
		panic(fmt.Sprintf("preset: unknown mode %v", m))
	}
	c := r.configs[m]
	if c.Fog != nil {
		fog := *c.Fog
		c.Fog = &fog
	}
	return c
}

// Set replaces the preset for m. Set panics on an unknown mode.
func (r *Registry) Set(m Mode, c Config) {
	if !m.Valid() {
		panic(fmt.Sprintf("preset: unknown mode %v", m))
	}
	if c.Fog != nil {
		fog := *c.Fog
		c.Fog = &fog
	}
	r.configs[m] = c
}

// Default returns the built-in showroom presets.
func Default() *Registry {
	return NewRegistry(SunnyConfig(), RainyConfig())
}

// SunnyConfig is the bright studio preset.
func SunnyConfig() Config {
	return Config{
		Lighting: Lighting{
			Directional: 1.0,
			Ambient:     0.4,
			EnvMap:      1.0,
			Shadow:      1.0,
		},
		Colors: Colors{
			Background: scene.Hex(0xf0f0f0),
			FloorTint:  scene.Hex(0xf0f0f0),
		},
		Floor: Floor{
			Roughness:         0.8,
			Metalness:         0.1,
			EnvMapIntensity:   0.8,
			SpecularIntensity: 0.3,
		},
		Bloom: scene.Bloom{
			Strength:  0.15,
			Radius:    0.4,
			Threshold: 0.9,
		},
		Transition:       1500 * time.Millisecond,
		BloomTransition:  1200 * time.Millisecond,
		EnvironmentImage: "env/german_town_street_1k.png",
	}
}

// RainyConfig is the overcast wet-floor preset.
func RainyConfig() Config {
	return Config{
		Lighting: Lighting{
			Directional: 0.8,
			Ambient:     0.2,
			EnvMap:      0.8,
			Shadow:      0.6,
		},
		Colors: Colors{
			Background: scene.Hex(0x333344),
			FloorTint:  scene.Hex(0x333344),
		},
		Floor: Floor{
			Roughness:          0.15,
			Metalness:          1.0,
			EnvMapIntensity:    0.8,
			SpecularIntensity:  0.8,
			Clearcoat:          0.5,
			ClearcoatRoughness: 0.1,
		},
		Fog: &scene.Fog{
			Color:   scene.Hex(0x333344),
			Density: 0.015,
		},
		Bloom: scene.Bloom{
			Strength:  0.6,
			Radius:    0.5,
			Threshold: 0.7,
			Enabled:   true,
		},
		Transition:       1000 * time.Millisecond,
		BloomTransition:  800 * time.Millisecond,
		EnvironmentImage: "env/rogland_overcast_1k.png",
	}
}
