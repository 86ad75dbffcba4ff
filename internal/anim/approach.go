package anim

import "github.com/Faultbox/showroom/pkg/math"

// Approach moves a vector a fixed fraction of the remaining distance per
// tick. It is frame-rate dependent and asymptotic, so it finishes by snapping
// once within Epsilon.
type Approach struct {
	Rate    float32
	Epsilon float32

	target math.Vec3
	active bool
}

// NewApproach returns an approach with the given per-tick rate and snap
// distance.
func NewApproach(rate, epsilon float32) *Approach {
	return &Approach{Rate: rate, Epsilon: epsilon}
}

// Begin sets a new target, replacing any previous one.
func (a *Approach) Begin(target math.Vec3) {
	a.target = target
	a.active = true
}

// Step moves current toward the target. done is true on the tick that snaps.
func (a *Approach) Step(current math.Vec3) (next math.Vec3, done bool) {
	if !a.active {
		return current, true
	}
	next = current.Lerp(a.target, a.Rate)
	if next.Distance(a.target) < a.Epsilon {
		a.active = false
		return a.target, true
	}
	return next, false
}

// Active reports whether the approach still has a target.
func (a *Approach) Active() bool {
	return a.active
}

// Target returns the current target.
func (a *Approach) Target() math.Vec3 {
	return a.target
}

// Stop drops the target without moving.
func (a *Approach) Stop() {
	a.active = false
}
