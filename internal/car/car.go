// Package car loads the showroom cars and swaps the active one behind a
// short camera bounce.
package car

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/assets"
	"github.com/Faultbox/showroom/internal/camera"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// Bounce timings.
const (
	BounceHeight = 2
	BounceUp     = 300 * time.Millisecond
	BounceDown   = 400 * time.Millisecond
)

// ModelLoader loads model manifests off the frame thread.
type ModelLoader interface {
	LoadModel(path string) <-chan assets.ModelResult
}

// Car describes one selectable car.
type Car struct {
	Name  string
	Model string
	Label string
}

// FromConfig converts the configured car list.
func FromConfig(cars []config.CarConfig) []Car {
	out := make([]Car, len(cars))
	for i, c := range cars {
		out[i] = Car{Name: c.Name, Model: c.Model, Label: c.Label}
	}
	return out
}

type phase int

const (
	idle phase = iota
	rising
	falling
)

type switchOp struct {
	to     string
	home   math.Vec3
	phase  phase
	ok     bool
	result chan bool
}

// Manager owns the loaded car models and the active one.
type Manager struct {
	scene    *scene.Scene
	loader   ModelLoader
	controls *camera.Controls
	log      *zap.Logger

	cars    []Car
	models  map[string]*scene.Node
	pending map[string]<-chan assets.ModelResult

	initial    string
	active     string
	activeNode *scene.Node
	op         *switchOp
	bounce     *anim.Group[math.Vec3]

	// OnSwitched runs on the frame thread after a car becomes active.
	OnSwitched func(name string)
}

// NewManager creates a manager for cars. clock may be nil to use time.Now.
func NewManager(s *scene.Scene, loader ModelLoader, controls *camera.Controls, cars []Car, clock func() time.Time, log *zap.Logger) *Manager {
	m := &Manager{
		scene:    s,
		loader:   loader,
		controls: controls,
		log:      log,
		cars:     cars,
		models:   make(map[string]*scene.Node),
		pending:  make(map[string]<-chan assets.ModelResult),
	}
	m.bounce = anim.NewGroup(
		func() math.Vec3 { return controls.Position },
		func(p math.Vec3) { controls.Position = p },
		anim.EaseOutCubic,
		clock,
	)
	return m
}

// Cars returns the configured cars in order.
func (m *Manager) Cars() []Car {
	return m.cars
}

// Car returns the car named name. It panics on an unknown name.
func (m *Manager) Car(name string) Car {
	for _, c := range m.cars {
		if c.Name == name {
			return c
		}
	}
	panic(fmt.Sprintf("car: unknown car %q", name))
}

// LoadAll requests every car model. initial becomes active as soon as its
// model arrives.
func (m *Manager) LoadAll(initial string) {
	m.Car(initial)
	m.initial = initial
	for _, c := range m.cars {
		m.Load(c.Name)
	}
}

// Load requests one car model unless it is loaded or loading.
func (m *Manager) Load(name string) {
	c := m.Car(name)
	if _, ok := m.models[name]; ok {
		return
	}
	if _, ok := m.pending[name]; ok {
		return
	}
	m.pending[name] = m.loader.LoadModel(c.Model)
}

// Loaded reports whether name's model is ready.
func (m *Manager) Loaded(name string) bool {
	_, ok := m.models[name]
	return ok
}

// Active returns the active car name, or "" before the first car loads.
func (m *Manager) Active() string {
	return m.active
}

// ActiveNode returns the active car's node, or nil.
func (m *Manager) ActiveNode() *scene.Node {
	return m.activeNode
}

// ActiveBounds returns the active car's bounds. It matches
// camera.BoundsSource.
func (m *Manager) ActiveBounds() (scene.Box, bool) {
	if m.activeNode == nil {
		return scene.Box{}, false
	}
	return m.activeNode.Bounds()
}

// Switching reports whether a switch is running.
func (m *Manager) Switching() bool {
	return m.op != nil
}

// SwitchTo bounces the camera up, swaps to name and bounces back to where
// the camera was. The returned channel receives true once the new car is
// shown, or false if the switch was rejected or the model is not loaded.
// A switch is rejected while another runs or when name is already active.
// SwitchTo panics on an unknown name.
func (m *Manager) SwitchTo(name string) <-chan bool {
	m.Car(name)
	result := make(chan bool, 1)
	if m.op != nil || name == m.active {
		result <- false
		return result
	}

	home := m.controls.Position
	m.op = &switchOp{to: name, home: home, phase: rising, result: result}
	m.bounce.Begin(home.Add(math.Vec3{Y: BounceHeight}), BounceUp)
	m.log.Info("car switch", zap.String("from", m.active), zap.String("to", name))
	return result
}

// Advance drives a running bounce. It returns true while the camera moves.
func (m *Manager) Advance(now time.Time) bool {
	if m.op == nil {
		return false
	}
	changed := m.bounce.Advance(now)
	if m.bounce.Active() {
		return changed
	}

	switch m.op.phase {
	case rising:
		m.op.ok = m.activate(m.op.to)
		if !m.op.ok {
			m.log.Warn("car model not loaded, keeping current", zap.String("car", m.op.to))
		}
		m.op.phase = falling
		m.bounce.Begin(m.op.home, BounceDown)
	case falling:
		op := m.op
		m.op = nil
		if op.ok && m.OnSwitched != nil {
			m.OnSwitched(op.to)
		}
		op.result <- op.ok
	}
	return true
}

// Poll applies finished model loads. It returns true if the scene changed.
func (m *Manager) Poll() bool {
	changed := false
	for name, ch := range m.pending {
		select {
		case res := <-ch:
			delete(m.pending, name)
			if res.Err != nil {
				m.log.Error("car model failed", zap.String("car", name), zap.Error(res.Err))
				continue
			}
			prepare(res.Node)
			m.models[name] = res.Node
			m.log.Info("car model loaded", zap.String("car", name), zap.Int("meshes", len(res.Node.Meshes)))

			if name == m.initial && m.active == "" {
				m.activate(name)
				if m.OnSwitched != nil {
					m.OnSwitched(name)
				}
				changed = true
			}
		default:
		}
	}
	return changed
}

// SetPaintColor sets every car paint material of the active car to c.
func (m *Manager) SetPaintColor(c scene.Color) bool {
	if m.activeNode == nil {
		return false
	}
	for _, mat := range m.activeNode.Materials(scene.TagCarPaint) {
		mat.Color = c
		mat.Touch()
	}
	return true
}

func (m *Manager) activate(name string) bool {
	node, ok := m.models[name]
	if !ok {
		return false
	}
	if m.activeNode != nil {
		m.scene.Remove(m.activeNode)
	}
	node.ResetTransform()
	m.scene.Add(node)
	m.active = name
	m.activeNode = node
	return true
}

// prepare readies a freshly loaded car: every mesh casts shadows and the
// paint gets the showroom finish.
func prepare(n *scene.Node) {
	for _, mesh := range n.Meshes {
		mesh.CastShadow = true
	}
	TunePaint(n)
}

// TunePaint applies the showroom car paint finish to n.
func TunePaint(n *scene.Node) {
	for _, m := range n.Materials(scene.TagCarPaint) {
		m.Metalness = 0.8
		m.Roughness = 0.5
		m.Clearcoat = 1.0
		m.ClearcoatRoughness = 0.015
		m.EnvMapIntensity = 1
		if m.Physical {
			m.Sheen = 1
			m.SheenRoughness = 0.3
			m.SpecularIntensity = 0.8
		}
		m.Touch()
	}
}
