package anim

import "time"

// Lerper is implemented by channel snapshots. Lerp must not modify the
// receiver.
type Lerper[S any] interface {
	Lerp(to S, t float32) S
}

// Group animates one channel group between a snapshot captured from live
// state and a target snapshot. At most one session is active; Begin replaces
// it.
type Group[S Lerper[S]] struct {
	read  func() S
	write func(S)
	ease  EaseFunc
	clock func() time.Time

	start     S
	target    S
	startTime time.Time
	duration  time.Duration
	active    bool
}

// NewGroup creates a group that captures live values with read and applies
// interpolated values with write. A nil ease defaults to EaseInOutCubic and a
// nil clock to time.Now.
func NewGroup[S Lerper[S]](read func() S, write func(S), ease EaseFunc, clock func() time.Time) *Group[S] {
	if ease == nil {
		ease = EaseInOutCubic
	}
	if clock == nil {
		clock = time.Now
	}
	return &Group[S]{
		read:  read,
		write: write,
		ease:  ease,
		clock: clock,
	}
}

// Begin starts a session toward target. The start snapshot is whatever the
// live values are right now, so overriding a running session never jumps.
func (g *Group[S]) Begin(target S, duration time.Duration) {
	g.start = g.read()
	g.target = target
	g.startTime = g.clock()
	g.duration = duration
	g.active = true
}

// Advance applies the eased value for now. It returns false and leaves live
// state untouched when no session is active or now precedes the session
// start. The final frame writes the target exactly and still returns true.
func (g *Group[S]) Advance(now time.Time) bool {
	if !g.active || now.Before(g.startTime) {
		return false
	}

	t := float32(1)
	if g.duration > 0 {
		t = float32(now.Sub(g.startTime)) / float32(g.duration)
		if t > 1 {
			t = 1
		}
	}

	if t >= 1 {
		g.write(g.target)
		g.active = false
		return true
	}

	g.write(g.start.Lerp(g.target, g.ease(t)))
	return true
}

// Snap writes target immediately and ends any running session.
func (g *Group[S]) Snap(target S) {
	g.target = target
	g.active = false
	g.write(target)
}

// Active reports whether a session is running.
func (g *Group[S]) Active() bool {
	return g.active
}

// Target returns the target of the current or last session.
func (g *Group[S]) Target() S {
	return g.target
}

// Start returns the snapshot captured by the last Begin.
func (g *Group[S]) Start() S {
	return g.start
}
