// Package label places the car's name sign next to the car for each camera
// view and fades it out while the user orbits.
package label

import (
	gomath "math"
	"time"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/camera"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// Placement is the label transform for one view.
type Placement struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    float32
	// Hidden is where the label sinks to while the camera moves.
	Hidden math.Vec3
}

// DefaultPlacements returns the placement for each camera preset.
func DefaultPlacements() map[camera.Preset]Placement {
	return map[camera.Preset]Placement{
		camera.Front: {
			Position: math.Vec3{X: -4, Y: 2, Z: -6.1},
			Rotation: math.QuatFromEuler(0, gomath.Pi-1.0527, 0),
			Scale:    3,
			Hidden:   math.Vec3{X: -4, Y: -1, Z: -6.1},
		},
		camera.Top: {
			Position: math.Vec3{X: -2, Y: 0, Z: 0},
			Rotation: math.QuatFromEuler(0, 3.14, -1.57),
			Scale:    2.2,
			Hidden:   math.Vec3{X: 0, Y: -2, Z: 0},
		},
		camera.Rear: {
			Position: math.Vec3{X: -5, Y: 2, Z: 5.25},
			Rotation: math.QuatFromEuler(0, gomath.Pi+0.695, 0),
			Scale:    3,
			Hidden:   math.Vec3{X: -5, Y: -1, Z: 5.25},
		},
	}
}

// Tints applied to the label material.
var (
	SunnyTint = scene.Hex(0x000000)
	RainyTint = scene.Hex(0xffffff)
)

// state is the animated part of the label.
type state struct {
	Position math.Vec3
	Opacity  float32
}

func (s state) Lerp(to state, t float32) state {
	return state{
		Position: s.Position.Lerp(to.Position, t),
		Opacity:  math.Lerp(s.Opacity, to.Opacity, t),
	}
}

// System owns the label node shown in the scene.
type System struct {
	scene      *scene.Scene
	placements map[camera.Preset]Placement
	templates  map[string]*scene.Node
	duration   time.Duration

	current *scene.Node
	name    string
	view    camera.Preset
	raining bool
	group   *anim.Group[state]
}

// New creates a label system. clock may be nil to use time.Now.
func New(s *scene.Scene, duration time.Duration, clock func() time.Time) *System {
	l := &System{
		scene:      s,
		placements: DefaultPlacements(),
		templates:  make(map[string]*scene.Node),
		duration:   duration,
	}
	l.group = anim.NewGroup(l.read, l.write, anim.EaseOutCubic, clock)
	return l
}

// Register stores the label model for a car. The template itself is never
// added to the scene.
func (l *System) Register(car string, template *scene.Node) {
	l.templates[car] = template
}

// Registered reports whether a label exists for car.
func (l *System) Registered(car string) bool {
	_, ok := l.templates[car]
	return ok
}

// SetLabel shows the label for car at the current view, replacing the
// previous one. It returns false if no label is registered for car.
func (l *System) SetLabel(car string) bool {
	tmpl, ok := l.templates[car]
	if !ok {
		return false
	}
	if l.current != nil {
		l.scene.Remove(l.current)
	}

	n := tmpl.Clone()
	for _, m := range n.AllMaterials() {
		m.Tag = scene.TagLabel
		m.Transparent = true
		m.Opacity = 1
		m.Touch()
	}
	l.current = n
	l.name = car
	l.place(l.view)
	l.tint()
	l.scene.Add(n)
	return true
}

// SetView snaps the label to the placement for view, fully opaque.
func (l *System) SetView(view camera.Preset) {
	l.view = view
	if l.current == nil {
		return
	}
	l.place(view)
}

// Hide sinks and fades the label out. A newer Hide or Show replaces a
// running animation from wherever the label currently is.
func (l *System) Hide() {
	if l.current == nil {
		return
	}
	p := l.placements[l.view]
	l.group.Begin(state{Position: p.Hidden, Opacity: 0}, l.duration)
}

// Show raises and fades the label back in.
func (l *System) Show() {
	if l.current == nil {
		return
	}
	p := l.placements[l.view]
	l.group.Begin(state{Position: p.Position, Opacity: 1}, l.duration)
}

// SetRain switches the label tint for the weather.
func (l *System) SetRain(raining bool) {
	l.raining = raining
	l.tint()
}

// Advance steps a running hide or show animation.
func (l *System) Advance(now time.Time) bool {
	if l.current == nil {
		return false
	}
	return l.group.Advance(now)
}

// Current returns the label node in the scene, or nil.
func (l *System) Current() *scene.Node {
	return l.current
}

// Name returns the car whose label is shown.
func (l *System) Name() string {
	return l.name
}

// View returns the view the label is placed for.
func (l *System) View() camera.Preset {
	return l.view
}

// Opacity returns the label opacity.
func (l *System) Opacity() float32 {
	return l.read().Opacity
}

func (l *System) place(view camera.Preset) {
	p := l.placements[view]
	l.current.Rotation = p.Rotation
	l.current.Scale = math.Vec3{X: p.Scale, Y: p.Scale, Z: p.Scale}
	l.group.Snap(state{Position: p.Position, Opacity: 1})
}

func (l *System) tint() {
	if l.current == nil {
		return
	}
	c := SunnyTint
	if l.raining {
		c = RainyTint
	}
	for _, m := range l.current.AllMaterials() {
		m.Color = c
		m.Touch()
	}
}

func (l *System) read() state {
	if l.current == nil {
		return state{}
	}
	s := state{Position: l.current.Position, Opacity: 1}
	if mats := l.current.AllMaterials(); len(mats) > 0 {
		s.Opacity = mats[0].Opacity
	}
	return s
}

func (l *System) write(s state) {
	if l.current == nil {
		return
	}
	l.current.Position = s.Position
	for _, m := range l.current.AllMaterials() {
		m.Opacity = s.Opacity
		m.Touch()
	}
}
