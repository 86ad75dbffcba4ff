// Package environment switches the showroom between lighting modes.
//
// A switch applies its discrete changes at once (fog, floor surface, rain
// visibility), then animates two independently timed channel groups:
// lighting and bloom. The environment image is swapped asynchronously and
// never gates the animation.
package environment

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/assets"
	"github.com/Faultbox/showroom/internal/preset"
	"github.com/Faultbox/showroom/internal/scene"
)

// ImageLoader loads environment images off the frame thread.
type ImageLoader interface {
	LoadImage(path string) <-chan assets.ImageResult
}

// RainSwitch receives the particle rain visibility on every mode switch.
type RainSwitch interface {
	SetVisible(visible bool)
}

var defaultFloorTint = scene.Hex(0xf0f0f0)

type envRequest struct {
	seq   uint64
	sunny bool
	ch    <-chan assets.ImageResult
}

// Controller owns the current mode and both animation groups.
type Controller struct {
	scene   *scene.Scene
	presets *preset.Registry
	loader  ImageLoader
	rain    RainSwitch
	log     *zap.Logger

	mode     preset.Mode
	lighting *anim.Group[LightingSnapshot]
	bloom    *anim.Group[BloomSnapshot]
	// bloomOff disables bloom once the bloom group finishes.
	bloomOff bool

	envSeq   uint64
	pending  []envRequest
	sunnyEnv *scene.Texture
}

// New creates a controller in Sunny mode. rain may be nil. clock may be
// nil to use time.Now.
func New(s *scene.Scene, presets *preset.Registry, loader ImageLoader, rain RainSwitch, clock func() time.Time, log *zap.Logger) *Controller {
	c := &Controller{
		scene:   s,
		presets: presets,
		loader:  loader,
		rain:    rain,
		log:     log,
		mode:    preset.Sunny,
	}
	c.lighting = anim.NewGroup(c.readLighting, c.writeLighting, anim.EaseInOutCubic, clock)
	c.bloom = anim.NewGroup(c.readBloom, c.writeBloom, anim.EaseInOutCubic, clock)
	return c
}

// Mode returns the current mode. It changes at the start of a switch, not
// when the animation completes.
func (c *Controller) Mode() preset.Mode {
	return c.mode
}

// Animating reports whether either channel group is running.
func (c *Controller) Animating() bool {
	return c.lighting.Active() || c.bloom.Active()
}

// SetRain attaches the particle rain after construction.
func (c *Controller) SetRain(rain RainSwitch) {
	c.rain = rain
}

// SetMode switches to mode. Switching to the current mode does nothing.
// It always returns true: the visual switch completes asynchronously.
// SetMode panics on an unknown mode.
func (c *Controller) SetMode(mode preset.Mode) bool {
	cfg := c.presets.Config(mode)
	if mode == c.mode {
		return true
	}
	c.mode = mode
	c.transition(cfg)
	c.requestEnvironment(mode, cfg)

	c.log.Info("mode switch",
		zap.Stringer("mode", mode),
		zap.Duration("transition", cfg.Transition),
		zap.Bool("fog", cfg.Fog != nil))
	return true
}

// Refresh animates toward the current mode's preset again after the
// registry entry was edited. The environment image is kept.
func (c *Controller) Refresh() {
	cfg := c.presets.Config(c.mode)
	c.transition(cfg)
	c.log.Debug("preset refreshed", zap.Stringer("mode", c.mode))
}

func (c *Controller) transition(cfg preset.Config) {
	c.applyDiscrete(cfg)
	if cfg.Bloom.Enabled {
		c.scene.Bloom.Enabled = true
	}
	c.bloomOff = !cfg.Bloom.Enabled

	c.lighting.Begin(lightingTarget(cfg), cfg.Transition)
	c.bloom.Begin(bloomTarget(cfg), cfg.BloomTransition)
}

// Reset applies the Sunny preset instantly and cancels running sessions.
// Pending environment loads are dropped.
func (c *Controller) Reset() {
	cfg := c.presets.Config(preset.Sunny)
	c.mode = preset.Sunny
	c.applyDiscrete(cfg)
	c.lighting.Snap(lightingTarget(cfg))
	c.bloom.Snap(bloomTarget(cfg))
	c.scene.Bloom.Enabled = cfg.Bloom.Enabled
	c.bloomOff = false
	c.envSeq++
	c.pending = c.pending[:0]
	if c.sunnyEnv != nil {
		c.scene.SetEnvironment(c.sunnyEnv)
	}
}

// LoadStartupEnvironment requests the image shown before any switch. It
// becomes the cached sunny environment restored on later switches to Sunny.
func (c *Controller) LoadStartupEnvironment(path string) {
	c.envSeq++
	c.pending = append(c.pending, envRequest{
		seq:   c.envSeq,
		sunny: true,
		ch:    c.loader.LoadImage(path),
	})
}

// Advance applies finished environment loads and advances both groups.
// It returns true when anything visible changed.
func (c *Controller) Advance(now time.Time) bool {
	changed := c.drainEnvironment()

	if c.lighting.Advance(now) {
		changed = true
	}
	if c.bloom.Advance(now) {
		changed = true
		if !c.bloom.Active() && c.bloomOff {
			c.scene.Bloom.Enabled = false
			c.bloomOff = false
		}
	}
	return changed
}

// SyncFloor applies the current mode's floor surface and tint to floor
// materials added after the last switch.
func (c *Controller) SyncFloor() {
	c.applyFloor(c.presets.Config(c.mode))
	tint := c.lighting.Target().FloorTint
	for _, m := range c.scene.Materials(scene.TagFloor) {
		m.Color = tint
	}
}

func (c *Controller) applyDiscrete(cfg preset.Config) {
	c.scene.Fog = cfg.Fog
	if c.rain != nil {
		c.rain.SetVisible(c.mode == preset.Rainy)
	}
	c.applyFloor(cfg)
}

func (c *Controller) applyFloor(cfg preset.Config) {
	for _, m := range c.scene.Materials(scene.TagFloor) {
		m.Roughness = cfg.Floor.Roughness
		m.Metalness = cfg.Floor.Metalness
		m.EnvMapIntensity = cfg.Floor.EnvMapIntensity
		if m.Physical {
			m.SpecularIntensity = cfg.Floor.SpecularIntensity
			m.Clearcoat = cfg.Floor.Clearcoat
			m.ClearcoatRoughness = cfg.Floor.ClearcoatRoughness
		}
		m.Touch()
	}
}

func (c *Controller) requestEnvironment(mode preset.Mode, cfg preset.Config) {
	c.envSeq++

	if mode == preset.Sunny && c.sunnyEnv != nil {
		c.scene.SetEnvironment(c.sunnyEnv)
		return
	}
	if cfg.EnvironmentImage == "" {
		return
	}
	c.pending = append(c.pending, envRequest{
		seq:   c.envSeq,
		sunny: mode == preset.Sunny,
		ch:    c.loader.LoadImage(cfg.EnvironmentImage),
	})
}

// drainEnvironment polls pending loads without blocking. Only the newest
// request may change the scene; older completions are discarded.
func (c *Controller) drainEnvironment() bool {
	changed := false
	kept := c.pending[:0]
	for _, req := range c.pending {
		select {
		case res := <-req.ch:
			if res.Err != nil {
				c.log.Warn("environment image failed, keeping previous",
					zap.String("path", res.Path), zap.Error(res.Err))
				continue
			}
			if req.sunny && c.sunnyEnv == nil {
				c.sunnyEnv = res.Texture
			}
			if req.seq != c.envSeq {
				c.log.Debug("stale environment image dropped", zap.String("path", res.Path))
				continue
			}
			c.scene.SetEnvironment(res.Texture)
			changed = true
			c.log.Info("environment image applied", zap.String("path", res.Path))
		default:
			kept = append(kept, req)
		}
	}
	c.pending = kept
	return changed
}

func (c *Controller) readLighting() LightingSnapshot {
	return LightingSnapshot{
		Directional: c.scene.Sun.Intensity,
		Ambient:     c.scene.Ambient.Intensity,
		Shadow:      c.scene.Sun.Shadow.Intensity,
		EnvMap:      c.scene.EnvMapIntensity(),
		Background:  c.scene.Background,
		FloorTint:   c.floorTint(),
	}
}

func (c *Controller) writeLighting(s LightingSnapshot) {
	c.scene.Sun.Intensity = s.Directional
	c.scene.Ambient.Intensity = s.Ambient
	c.scene.Sun.Shadow.Intensity = s.Shadow
	c.scene.SetEnvMapIntensity(s.EnvMap)
	c.scene.Background = s.Background
	for _, m := range c.scene.Materials(scene.TagFloor) {
		m.Color = s.FloorTint
		m.Touch()
	}
}

func (c *Controller) floorTint() scene.Color {
	if floors := c.scene.Materials(scene.TagFloor); len(floors) > 0 {
		return floors[0].Color
	}
	return defaultFloorTint
}

func (c *Controller) readBloom() BloomSnapshot {
	b := c.scene.Bloom
	return BloomSnapshot{Strength: b.Strength, Radius: b.Radius, Threshold: b.Threshold}
}

func (c *Controller) writeBloom(s BloomSnapshot) {
	c.scene.Bloom.Strength = s.Strength
	c.scene.Bloom.Radius = s.Radius
	c.scene.Bloom.Threshold = s.Threshold
}

func lightingTarget(cfg preset.Config) LightingSnapshot {
	return LightingSnapshot{
		Directional: cfg.Lighting.Directional,
		Ambient:     cfg.Lighting.Ambient,
		Shadow:      cfg.Lighting.Shadow,
		EnvMap:      cfg.Lighting.EnvMap,
		Background:  cfg.Colors.Background,
		FloorTint:   cfg.Colors.FloorTint,
	}
}

func bloomTarget(cfg preset.Config) BloomSnapshot {
	return BloomSnapshot{
		Strength:  cfg.Bloom.Strength,
		Radius:    cfg.Bloom.Radius,
		Threshold: cfg.Bloom.Threshold,
	}
}
