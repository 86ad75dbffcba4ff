// Package anim drives time-based interpolation of scene channels.
//
// Two strategies share the Animator contract: Group interpolates a captured
// start snapshot toward a target over a fixed duration, Approach closes a fixed
// fraction of the remaining distance every tick until it is within epsilon.
// Per-frame drivers built on either one implement Animator.
package anim

import "time"

// Animator is advanced once per frame and reports whether it changed
// visual state.
type Animator interface {
	Advance(now time.Time) bool
}

// EaseFunc reparametrizes linear progress t in [0, 1].
type EaseFunc func(t float32) float32

// Linear is the identity ease.
func Linear(t float32) float32 {
	return t
}

// EaseInOutCubic accelerates through the first half and decelerates through
// the second.
func EaseInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// EaseOutCubic starts fast and decelerates to rest.
func EaseOutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}
