package scene

import "github.com/Faultbox/showroom/pkg/math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max math.Vec3
}

// Center returns the box center.
func (b Box) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents.
func (b Box) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns the smallest box containing both.
func (b Box) Union(o Box) Box {
	return Box{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Mesh is a drawable piece of a node.
type Mesh struct {
	Name          string
	Material      *Material
	Bounds        Box
	CastShadow    bool
	ReceiveShadow bool
}

// Node is a transformable group of meshes.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Visible  bool
	Meshes   []*Mesh
}

// NewNode returns a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Visible:  true,
	}
}

// ResetTransform puts the node back at the origin with unit scale.
func (n *Node) ResetTransform() {
	n.Position = math.Vec3{}
	n.Rotation = math.QuatIdentity()
	n.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
}

// Matrix returns the node's model matrix.
func (n *Node) Matrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// Bounds returns the world-space bounding box of all meshes.
// Rotation is ignored; showroom models are placed axis-aligned.
func (n *Node) Bounds() (Box, bool) {
	if len(n.Meshes) == 0 {
		return Box{}, false
	}
	box := n.Meshes[0].Bounds
	for _, m := range n.Meshes[1:] {
		box = box.Union(m.Bounds)
	}
	scale := func(v math.Vec3) math.Vec3 {
		return math.Vec3{X: v.X * n.Scale.X, Y: v.Y * n.Scale.Y, Z: v.Z * n.Scale.Z}.Add(n.Position)
	}
	return Box{Min: scale(box.Min), Max: scale(box.Max)}, true
}

// AllMaterials returns every mesh material, skipping nil.
func (n *Node) AllMaterials() []*Material {
	out := make([]*Material, 0, len(n.Meshes))
	for _, m := range n.Meshes {
		if m.Material != nil {
			out = append(out, m.Material)
		}
	}
	return out
}

// Materials returns the materials carrying tag.
func (n *Node) Materials(tag MaterialTag) []*Material {
	var out []*Material
	for _, m := range n.Meshes {
		if m.Material != nil && m.Material.Tag == tag {
			out = append(out, m.Material)
		}
	}
	return out
}

// Clone deep-copies the node and its materials so per-instance tweaks
// (label opacity, tint) do not leak into the source.
func (n *Node) Clone() *Node {
	c := *n
	c.Meshes = make([]*Mesh, len(n.Meshes))
	for i, m := range n.Meshes {
		mc := *m
		if m.Material != nil {
			mc.Material = m.Material.Clone()
		}
		c.Meshes[i] = &mc
	}
	return &c
}
