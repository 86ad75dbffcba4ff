// Package scene holds the mutable scene-graph state the showroom animates:
// lights, fog, background, environment map, materials, nodes and the bloom pass.
// Nothing here renders; the renderer reads these fields each frame.
package scene

import (
	"image"

	"github.com/Faultbox/showroom/pkg/math"
)

// Texture is a decoded image handle. The renderer uploads it lazily and
// stores its GL name in ID.
type Texture struct {
	Path  string
	Image *image.RGBA
	ID    uint32
}

// Fog is exponential-squared fog.
type Fog struct {
	Color   Color
	Density float32
}

// Bloom holds the post-processing bloom parameters.
type Bloom struct {
	Strength  float32
	Radius    float32
	Threshold float32
	Enabled   bool
}

// Shadow holds the directional light's shadow parameters.
type Shadow struct {
	Intensity  float32
	Bias       float32
	NormalBias float32
	MapSize    int
	Near, Far  float32
	Extent     float32 // half-size of the orthographic shadow camera
}

// DirectionalLight is the key light.
type DirectionalLight struct {
	Color      Color
	Intensity  float32
	Position   math.Vec3
	Target     math.Vec3
	CastShadow bool
	Shadow     Shadow
}

// Direction returns the normalized direction the light travels.
func (l *DirectionalLight) Direction() math.Vec3 {
	return l.Target.Sub(l.Position).Normalize()
}

// AmbientLight is uniform fill light.
type AmbientLight struct {
	Color     Color
	Intensity float32
}

// Scene is the root of the scene graph.
type Scene struct {
	Background  Color
	Environment *Texture
	Fog         *Fog
	Sun         *DirectionalLight
	Ambient     *AmbientLight
	Bloom       Bloom

	envMapIntensity float32
	nodes           []*Node
}

// New creates a scene with the showroom light rig.
func New() *Scene {
	return &Scene{
		Background: Hex(0xf0f0f0),
		Sun: &DirectionalLight{
			Color:      Hex(0xffffff),
			Intensity:  2.0,
			Position:   math.Vec3{X: 15, Y: 10, Z: 5},
			CastShadow: true,
			Shadow: Shadow{
				Intensity:  1.0,
				Bias:       -0.0001,
				NormalBias: 0.01,
				MapSize:    4096,
				Near:       0.1,
				Far:        100,
				Extent:     25,
			},
		},
		Ambient: &AmbientLight{
			Color:     Hex(0x404040),
			Intensity: 0.3,
		},
		envMapIntensity: 1.0,
	}
}

// Add attaches a node to the scene. Adding a node twice is a no-op.
func (s *Scene) Add(n *Node) {
	for _, existing := range s.nodes {
		if existing == n {
			return
		}
	}
	s.nodes = append(s.nodes, n)
	s.applyEnvironment(n)
}

// Remove detaches a node from the scene.
func (s *Scene) Remove(n *Node) {
	for i, existing := range s.nodes {
		if existing == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}

// Contains reports whether n is attached.
func (s *Scene) Contains(n *Node) bool {
	for _, existing := range s.nodes {
		if existing == n {
			return true
		}
	}
	return false
}

// Nodes returns the attached nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Materials returns every material carrying tag across all attached nodes.
func (s *Scene) Materials(tag MaterialTag) []*Material {
	var out []*Material
	for _, n := range s.nodes {
		out = append(out, n.Materials(tag)...)
	}
	return out
}

// SetEnvironment replaces the reflection map on the scene and on every
// material. The floor keeps its own intensity; other materials follow the
// scene-wide intensity.
func (s *Scene) SetEnvironment(tex *Texture) {
	s.Environment = tex
	for _, n := range s.nodes {
		s.applyEnvironment(n)
	}
}

// EnvMapIntensity returns the scene-wide reflection intensity.
func (s *Scene) EnvMapIntensity() float32 {
	return s.envMapIntensity
}

// SetEnvMapIntensity sets the reflection intensity on every env-mapped
// material except the floor.
func (s *Scene) SetEnvMapIntensity(v float32) {
	s.envMapIntensity = v
	for _, n := range s.nodes {
		for _, m := range n.AllMaterials() {
			if m.EnvMap != nil && m.Tag != TagFloor {
				m.EnvMapIntensity = v
				m.Touch()
			}
		}
	}
}

func (s *Scene) applyEnvironment(n *Node) {
	for _, m := range n.AllMaterials() {
		m.EnvMap = s.Environment
		if m.Tag != TagFloor {
			m.EnvMapIntensity = s.envMapIntensity
		}
		m.Touch()
	}
}
