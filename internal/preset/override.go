package preset

import (
	"fmt"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/scene"
)

// FromConfig builds a registry from the built-in presets with the
// configured overrides applied.
func FromConfig(cfg config.PresetsConfig) (*Registry, error) {
	sunny, err := Apply(SunnyConfig(), cfg.Sunny)
	if err != nil {
		return nil, fmt.Errorf("sunny preset: %w", err)
	}
	rainy, err := Apply(RainyConfig(), cfg.Rainy)
	if err != nil {
		return nil, fmt.Errorf("rainy preset: %w", err)
	}
	return NewRegistry(sunny, rainy), nil
}

// Apply returns base with every non-nil override field replaced.
func Apply(base Config, o config.PresetOverride) (Config, error) {
	setFloat(&base.Lighting.Directional, o.Directional)
	setFloat(&base.Lighting.Ambient, o.Ambient)
	setFloat(&base.Lighting.EnvMap, o.EnvMap)
	setFloat(&base.Lighting.Shadow, o.Shadow)

	if err := setColor(&base.Colors.Background, o.Background); err != nil {
		return base, fmt.Errorf("background: %w", err)
	}
	if err := setColor(&base.Colors.FloorTint, o.FloorTint); err != nil {
		return base, fmt.Errorf("floor tint: %w", err)
	}

	setFloat(&base.Floor.Roughness, o.FloorRoughness)
	setFloat(&base.Floor.Metalness, o.FloorMetalness)
	setFloat(&base.Floor.EnvMapIntensity, o.FloorEnvMap)
	setFloat(&base.Floor.SpecularIntensity, o.FloorSpecular)
	setFloat(&base.Floor.Clearcoat, o.FloorClearcoat)
	setFloat(&base.Floor.ClearcoatRoughness, o.FloorClearcoatRoughness)

	if o.FogDensity != nil || o.FogColor != nil {
		fog := scene.Fog{Color: base.Colors.Background}
		if base.Fog != nil {
			fog = *base.Fog
		}
		setFloat(&fog.Density, o.FogDensity)
		if err := setColor(&fog.Color, o.FogColor); err != nil {
			return base, fmt.Errorf("fog color: %w", err)
		}
		if fog.Density > 0 {
			base.Fog = &fog
		} else {
			base.Fog = nil
		}
	}

	setFloat(&base.Bloom.Strength, o.BloomStrength)
	setFloat(&base.Bloom.Radius, o.BloomRadius)
	setFloat(&base.Bloom.Threshold, o.BloomThreshold)
	if o.BloomEnabled != nil {
		base.Bloom.Enabled = *o.BloomEnabled
	}

	if o.Transition != nil {
		if *o.Transition < 0 {
			return base, fmt.Errorf("negative transition %v", *o.Transition)
		}
		base.Transition = *o.Transition
	}
	if o.BloomTransition != nil {
		if *o.BloomTransition < 0 {
			return base, fmt.Errorf("negative bloom transition %v", *o.BloomTransition)
		}
		base.BloomTransition = *o.BloomTransition
	}
	if o.EnvironmentImage != nil {
		base.EnvironmentImage = *o.EnvironmentImage
	}
	return base, nil
}

// Override returns the override that reproduces c exactly when applied to
// any base. The inspector uses it to save tuned presets.
func Override(c Config) config.PresetOverride {
	f := func(v float32) *float32 { return &v }
	s := func(v string) *string { return &v }

	o := config.PresetOverride{
		Directional:             f(c.Lighting.Directional),
		Ambient:                 f(c.Lighting.Ambient),
		EnvMap:                  f(c.Lighting.EnvMap),
		Shadow:                  f(c.Lighting.Shadow),
		Background:              s(scene.FormatHex(c.Colors.Background)),
		FloorTint:               s(scene.FormatHex(c.Colors.FloorTint)),
		FloorRoughness:          f(c.Floor.Roughness),
		FloorMetalness:          f(c.Floor.Metalness),
		FloorEnvMap:             f(c.Floor.EnvMapIntensity),
		FloorSpecular:           f(c.Floor.SpecularIntensity),
		FloorClearcoat:          f(c.Floor.Clearcoat),
		FloorClearcoatRoughness: f(c.Floor.ClearcoatRoughness),
		FogDensity:              f(0),
		BloomStrength:           f(c.Bloom.Strength),
		BloomRadius:             f(c.Bloom.Radius),
		BloomThreshold:          f(c.Bloom.Threshold),
		BloomEnabled:            &c.Bloom.Enabled,
		Transition:              &c.Transition,
		BloomTransition:         &c.BloomTransition,
		EnvironmentImage:        s(c.EnvironmentImage),
	}
	if c.Fog != nil {
		o.FogDensity = f(c.Fog.Density)
		o.FogColor = s(scene.FormatHex(c.Fog.Color))
	}
	return o
}

func setFloat(dst *float32, v *float32) {
	if v != nil {
		*dst = *v
	}
}

func setColor(dst *scene.Color, v *string) error {
	if v == nil {
		return nil
	}
	c, err := scene.ParseHex(*v)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}

// ToConfig returns overrides reproducing every preset in r, ready to be
// saved with the rest of the config.
func ToConfig(r *Registry) config.PresetsConfig {
	return config.PresetsConfig{
		Sunny: Override(r.Config(Sunny)),
		Rainy: Override(r.Config(Rainy)),
	}
}
