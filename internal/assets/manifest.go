package assets

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// Manifest describes a model: its meshes, their bounds and materials.
// Geometry itself is not stored; the renderer draws bounds and the floor.
type Manifest struct {
	Name      string                      `yaml:"name"`
	Materials map[string]MaterialManifest `yaml:"materials"`
	Meshes    []MeshManifest              `yaml:"meshes"`
}

// MaterialManifest is an authored material.
type MaterialManifest struct {
	Color              string   `yaml:"color"`
	Roughness          *float32 `yaml:"roughness"`
	Metalness          *float32 `yaml:"metalness"`
	Physical           bool     `yaml:"physical"`
	Clearcoat          float32  `yaml:"clearcoat"`
	ClearcoatRoughness float32  `yaml:"clearcoat_roughness"`
	SpecularIntensity  *float32 `yaml:"specular_intensity"`
	Transparent        bool     `yaml:"transparent"`
}

// MeshManifest is one mesh with its axis-aligned bounds.
type MeshManifest struct {
	Name          string     `yaml:"name"`
	Material      string     `yaml:"material"`
	Min           [3]float32 `yaml:"min"`
	Max           [3]float32 `yaml:"max"`
	CastShadow    bool       `yaml:"cast_shadow"`
	ReceiveShadow bool       `yaml:"receive_shadow"`
}

// ParseManifest decodes a YAML model manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Meshes) == 0 {
		return nil, fmt.Errorf("model %q has no meshes", m.Name)
	}
	return &m, nil
}

// Build creates a fresh node from the manifest. Each mesh gets its own
// material instance; material tags are resolved from names here, once.
func (m *Manifest) Build() (*scene.Node, error) {
	node := scene.NewNode(m.Name)

	for _, mm := range m.Meshes {
		mat := scene.NewMaterial(mm.Material)
		if src, ok := m.Materials[mm.Material]; ok {
			if err := src.apply(mat); err != nil {
				return nil, fmt.Errorf("material %q: %w", mm.Material, err)
			}
		}
		if mm.Material == "" {
			mat = nil
		}

		node.Meshes = append(node.Meshes, &scene.Mesh{
			Name:     mm.Name,
			Material: mat,
			Bounds: scene.Box{
				Min: math.Vec3{X: mm.Min[0], Y: mm.Min[1], Z: mm.Min[2]},
				Max: math.Vec3{X: mm.Max[0], Y: mm.Max[1], Z: mm.Max[2]},
			},
			CastShadow:    mm.CastShadow,
			ReceiveShadow: mm.ReceiveShadow,
		})
	}
	return node, nil
}

func (src MaterialManifest) apply(mat *scene.Material) error {
	if src.Color != "" {
		c, err := scene.ParseHex(src.Color)
		if err != nil {
			return err
		}
		mat.Color = c
	}
	if src.Roughness != nil {
		mat.Roughness = *src.Roughness
	}
	if src.Metalness != nil {
		mat.Metalness = *src.Metalness
	}
	if src.SpecularIntensity != nil {
		mat.SpecularIntensity = *src.SpecularIntensity
	}
	mat.Physical = src.Physical
	mat.Clearcoat = src.Clearcoat
	mat.ClearcoatRoughness = src.ClearcoatRoughness
	mat.Transparent = src.Transparent
	return nil
}
