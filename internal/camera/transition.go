package camera

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// BoundsSource returns the bounds of the active car, if any.
type BoundsSource func() (scene.Box, bool)

type viewpoint struct {
	pos, look math.Vec3
}

// Viewpoints used when no car is loaded.
var fallback = [...]viewpoint{
	Front: {pos: math.Vec3{X: 4, Y: 1, Z: 7}, look: math.Vec3{X: -0.3, Y: 1}},
	Top:   {pos: math.Vec3{Y: 10}, look: math.Vec3{X: -0.5}},
	Rear:  {pos: math.Vec3{X: 5, Y: 1, Z: -6}, look: math.Vec3{X: -0.45, Y: 1}},
}

// Transition moves the controls toward a preset viewpoint by a fixed
// fraction per tick. Position and look-at move together; the transition
// completes when the position is within epsilon of its target.
type Transition struct {
	controls *Controls
	pos      *anim.Approach
	look     *anim.Approach
	bounds   BoundsSource
	log      *zap.Logger

	heights   [len(presetNames)]float32
	current   Preset
	requested bool
	suspended bool
}

// NewTransition creates a transition driving controls. bounds may be nil.
func NewTransition(controls *Controls, cfg config.CameraConfig, bounds BoundsSource, log *zap.Logger) *Transition {
	t := &Transition{
		controls: controls,
		pos:      anim.NewApproach(cfg.Rate, cfg.Epsilon),
		look:     anim.NewApproach(cfg.Rate, cfg.Epsilon),
		bounds:   bounds,
		log:      log,
	}
	t.SetHeights(cfg.Heights.Front, cfg.Heights.Top, cfg.Heights.Rear)
	return t
}

// SetBounds replaces the bounds source.
func (t *Transition) SetBounds(bounds BoundsSource) {
	t.bounds = bounds
}

// SetPresetHeight sets the camera height used for one preset.
func (t *Transition) SetPresetHeight(p Preset, h float32) {
	if !p.Valid() {
		panic(fmt.Sprintf("camera: unknown preset %v", p))
	}
	t.heights[p] = h
}

// SetHeights sets the camera height for every preset.
func (t *Transition) SetHeights(front, top, rear float32) {
	t.heights[Front] = front
	t.heights[Top] = top
	t.heights[Rear] = rear
}

// Height returns the camera height for p.
func (t *Transition) Height(p Preset) float32 {
	return t.heights[p]
}

// Targets computes the position and look-at for p from the active car's
// bounds, or the fixed viewpoints when no car is loaded.
func (t *Transition) Targets(p Preset) (pos, look math.Vec3) {
	if !p.Valid() {
		panic(fmt.Sprintf("camera: unknown preset %v", p))
	}
	var box scene.Box
	ok := false
	if t.bounds != nil {
		box, ok = t.bounds()
	}
	if !ok {
		return fallback[p].pos, fallback[p].look
	}

	c := box.Center()
	h := t.heights[p]
	raised := math.Vec3{X: c.X, Y: c.Y + h/2, Z: c.Z}
	switch p {
	case Top:
		return c.Add(math.Vec3{Y: h}), c
	case Rear:
		return c.Add(math.Vec3{X: -2, Y: h, Z: -8}), raised
	default:
		return c.Add(math.Vec3{X: 2, Y: h, Z: 8}), raised
	}
}

// MoveTo starts a transition to p, replacing any running one. While
// suspended the new target is remembered and pursued on Resume.
func (t *Transition) MoveTo(p Preset) {
	pos, look := t.Targets(p)
	t.current = p
	t.requested = true
	t.pos.Begin(pos)
	t.look.Begin(look)
	target := pos.Array()
	t.log.Debug("camera preset",
		zap.Stringer("preset", p),
		zap.Float32s("position", target[:]),
		zap.Bool("suspended", t.suspended))
}

// Suspend pauses the transition while the user drags the camera.
func (t *Transition) Suspend() {
	t.suspended = true
}

// Resume continues toward the last requested preset from wherever the user
// left the camera.
func (t *Transition) Resume() {
	t.suspended = false
	if t.requested {
		t.pos.Begin(t.pos.Target())
		t.look.Begin(t.look.Target())
	}
}

// Suspended reports whether a drag has paused the transition.
func (t *Transition) Suspended() bool {
	return t.suspended
}

// Active reports whether the camera is still moving toward a preset.
func (t *Transition) Active() bool {
	return t.pos.Active()
}

// Preset returns the last requested preset.
func (t *Transition) Preset() Preset {
	return t.current
}

// Advance moves the controls one step. It ignores now: the rate is per
// tick. It returns false while suspended or idle.
func (t *Transition) Advance(time.Time) bool {
	if t.suspended || !t.pos.Active() {
		return false
	}

	next, done := t.pos.Step(t.controls.Position)
	t.controls.Position = next
	if done {
		t.controls.Target = t.look.Target()
		t.look.Stop()
		return true
	}
	t.controls.Target, _ = t.look.Step(t.controls.Target)
	return true
}

var _ anim.Animator = (*Transition)(nil)
