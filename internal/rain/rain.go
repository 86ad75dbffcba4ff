// Package rain simulates falling rain streaks as line segments in a box
// volume above the showroom floor.
package rain

import (
	"math/rand/v2"
	"time"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// Streak color and opacity used by the renderer.
var (
	Color   = scene.Hex(0x8888ff)
	Opacity = float32(0.15)
)

// Options configures the streak volume and fall speed.
type Options struct {
	Count  int
	Width  float32
	Height float32
	Depth  float32
	Length float32

	MinFall    float32
	FallJitter float32
	// ReferenceRate > 0 scales each tick's fall by elapsed seconds times
	// this rate, so the fall speed no longer depends on the frame rate.
	ReferenceRate float32
	// Seed fixes the random sequence; 0 picks a random seed.
	Seed int64
}

// OptionsFromConfig converts the rain config section.
func OptionsFromConfig(cfg config.RainConfig) Options {
	return Options{
		Count:         cfg.Count,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Depth:         cfg.Depth,
		Length:        cfg.Length,
		MinFall:       cfg.MinFall,
		FallJitter:    cfg.FallJitter,
		ReferenceRate: cfg.ReferenceRate,
		Seed:          cfg.Seed,
	}
}

// Streak is one falling line segment. Tail is always Length below Head.
type Streak struct {
	Head math.Vec3
	Tail math.Vec3
}

// Pool is a fixed set of streaks. It only simulates while visible.
type Pool struct {
	opts    Options
	rng     *rand.Rand
	streaks []Streak
	buf     []float32
	visible bool
	last    time.Time
}

// New creates a hidden pool with every streak at a random position.
func New(opts Options) *Pool {
	var src rand.Source
	if opts.Seed != 0 {
		src = rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0x9e3779b97f4a7c15)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	p := &Pool{
		opts:    opts,
		rng:     rand.New(src),
		streaks: make([]Streak, opts.Count),
		buf:     make([]float32, opts.Count*6),
	}
	for i := range p.streaks {
		p.place(&p.streaks[i], p.rng.Float32()*opts.Height)
	}
	p.sync()
	return p
}

// place puts s at height y with a fresh horizontal position.
func (p *Pool) place(s *Streak, y float32) {
	x := p.rng.Float32()*p.opts.Width - p.opts.Width/2
	z := p.rng.Float32()*p.opts.Depth - p.opts.Depth/2
	s.Head = math.Vec3{X: x, Y: y, Z: z}
	s.Tail = math.Vec3{X: x, Y: y - p.opts.Length, Z: z}
}

// Toggle flips visibility and returns the new state.
func (p *Pool) Toggle() bool {
	p.SetVisible(!p.visible)
	return p.visible
}

// SetVisible shows or hides the rain.
func (p *Pool) SetVisible(visible bool) {
	if visible && !p.visible {
		p.last = time.Time{}
	}
	p.visible = visible
}

// Visible reports whether the rain is shown.
func (p *Pool) Visible() bool {
	return p.visible
}

// Advance moves every streak down and recycles those below the volume
// floor to a random position above the volume. It returns false while
// hidden.
func (p *Pool) Advance(now time.Time) bool {
	if !p.visible {
		return false
	}

	scale := float32(1)
	if p.opts.ReferenceRate > 0 {
		if !p.last.IsZero() {
			scale = float32(now.Sub(p.last).Seconds()) * p.opts.ReferenceRate
		}
		p.last = now
	}

	floor := -p.opts.Height / 2
	for i := range p.streaks {
		s := &p.streaks[i]
		fall := (p.opts.MinFall + p.rng.Float32()*p.opts.FallJitter) * scale
		s.Head.Y -= fall
		s.Tail.Y -= fall
		if s.Head.Y < floor {
			p.place(s, p.rng.Float32()*p.opts.Height+p.opts.Height/2)
		}
	}
	p.sync()
	return true
}

// Streaks returns the live streaks. Callers must not modify them.
func (p *Pool) Streaks() []Streak {
	return p.streaks
}

// Positions returns head and tail of every streak as a flat xyz buffer,
// ready for a line-list vertex upload.
func (p *Pool) Positions() []float32 {
	return p.buf
}

// Len returns the number of streaks.
func (p *Pool) Len() int {
	return len(p.streaks)
}

func (p *Pool) sync() {
	for i, s := range p.streaks {
		o := i * 6
		p.buf[o], p.buf[o+1], p.buf[o+2] = s.Head.X, s.Head.Y, s.Head.Z
		p.buf[o+3], p.buf[o+4], p.buf[o+5] = s.Tail.X, s.Tail.Y, s.Tail.Z
	}
}
