package renderer

import (
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// Vertex layouts uploaded to the GPU.
const (
	litStride  = 6 // position, normal
	lineStride = 3 // position
)

// BoxVertices returns the 36 triangle vertices of a solid box, interleaved
// as position and outward normal.
func BoxVertices(b scene.Box) []float32 {
	lo, hi := b.Min, b.Max
	corners := [8]math.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z}, {X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	faces := [6]struct {
		idx    [4]int
		normal math.Vec3
	}{
		{[4]int{4, 5, 6, 7}, math.Vec3{Z: 1}},
		{[4]int{1, 0, 3, 2}, math.Vec3{Z: -1}},
		{[4]int{5, 1, 2, 6}, math.Vec3{X: 1}},
		{[4]int{0, 4, 7, 3}, math.Vec3{X: -1}},
		{[4]int{7, 6, 2, 3}, math.Vec3{Y: 1}},
		{[4]int{0, 1, 5, 4}, math.Vec3{Y: -1}},
	}

	out := make([]float32, 0, 36*litStride)
	for _, f := range faces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			p := corners[f.idx[i]]
			out = append(out, p.X, p.Y, p.Z, f.normal.X, f.normal.Y, f.normal.Z)
		}
	}
	return out
}

// WireframeVertices returns the 12 edges of b as 24 line vertices.
func WireframeVertices(b scene.Box) []float32 {
	minX, minY, minZ := b.Min.X, b.Min.Y, b.Min.Z
	maxX, maxY, maxZ := b.Max.X, b.Max.Y, b.Max.Z
	return []float32{
		// Bottom
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// UnitCube is a solid box spanning [-0.5, 0.5] on every axis.
var UnitCube = BoxVertices(scene.Box{
	Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
	Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
})

// MeshMatrix maps the unit cube onto a mesh's node-space bounds and then
// into world space. Flat bounds get a minimal thickness so the matrix
// stays invertible.
func MeshMatrix(n *scene.Node, bounds scene.Box) math.Mat4 {
	const minExtent = 1e-3
	c := bounds.Center()
	s := bounds.Size()
	s.X, s.Y, s.Z = max(s.X, minExtent), max(s.Y, minExtent), max(s.Z, minExtent)
	return n.Matrix().Mul(math.Translate(c.X, c.Y, c.Z)).Mul(math.Scale(s.X, s.Y, s.Z))
}
