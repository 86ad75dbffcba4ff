package renderer

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

func approx(a, b math.Vec3) bool {
	return a.Distance(b) < 1e-5
}

func TestBoxVerticesNormalsPointOutward(t *testing.T) {
	b := scene.Box{Min: math.Vec3{X: -1, Y: 0, Z: -2}, Max: math.Vec3{X: 1, Y: 1.5, Z: 2}}
	v := BoxVertices(b)
	if len(v) != 36*litStride {
		t.Fatalf("len = %d, want %d", len(v), 36*litStride)
	}

	center := b.Center()
	for i := 0; i < len(v); i += litStride {
		pos := math.Vec3{X: v[i], Y: v[i+1], Z: v[i+2]}
		n := math.Vec3{X: v[i+3], Y: v[i+4], Z: v[i+5]}
		if pos.Sub(center).Dot(n) <= 0 {
			t.Fatalf("vertex %d: normal %v points inward at %v", i/litStride, n, pos)
		}
		if pos.X < b.Min.X || pos.X > b.Max.X || pos.Y < b.Min.Y || pos.Y > b.Max.Y {
			t.Fatalf("vertex %d outside box: %v", i/litStride, pos)
		}
	}
}

func TestBoxVerticesWindingIsCounterClockwise(t *testing.T) {
	v := UnitCube
	for tri := 0; tri < 12; tri++ {
		at := func(k int) math.Vec3 {
			i := (tri*3 + k) * litStride
			return math.Vec3{X: v[i], Y: v[i+1], Z: v[i+2]}
		}
		a, b, c := at(0), at(1), at(2)
		face := b.Sub(a).Cross(c.Sub(a))
		i := tri * 3 * litStride
		n := math.Vec3{X: v[i+3], Y: v[i+4], Z: v[i+5]}
		if face.Dot(n) <= 0 {
			t.Errorf("triangle %d winds against its normal", tri)
		}
	}
}

func TestWireframeVertices(t *testing.T) {
	b := scene.Box{Max: math.Vec3{X: 1, Y: 2, Z: 3}}
	v := WireframeVertices(b)
	if len(v) != 24*lineStride {
		t.Fatalf("len = %d, want %d", len(v), 24*lineStride)
	}
	for i := 0; i < len(v); i += 2 * lineStride {
		p := math.Vec3{X: v[i], Y: v[i+1], Z: v[i+2]}
		q := math.Vec3{X: v[i+3], Y: v[i+4], Z: v[i+5]}
		d := p.Sub(q)
		axes := 0
		for _, c := range []float32{d.X, d.Y, d.Z} {
			if c != 0 {
				axes++
			}
		}
		if axes != 1 {
			t.Errorf("edge %v-%v is not axis aligned", p, q)
		}
	}
}

func TestMeshMatrixMapsUnitCube(t *testing.T) {
	n := scene.NewNode("car")
	n.Position = math.Vec3{X: 10}
	bounds := scene.Box{Min: math.Vec3{X: -1, Y: 0, Z: -2}, Max: math.Vec3{X: 1, Y: 1.5, Z: 2}}
	m := MeshMatrix(n, bounds)

	if got, want := m.TransformVec3(math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}), (math.Vec3{X: 9, Y: 0, Z: -2}); !approx(got, want) {
		t.Errorf("min corner = %v, want %v", got, want)
	}
	if got, want := m.TransformVec3(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}), (math.Vec3{X: 11, Y: 1.5, Z: 2}); !approx(got, want) {
		t.Errorf("max corner = %v, want %v", got, want)
	}
}

func TestMeshMatrixFlatBounds(t *testing.T) {
	n := scene.NewNode("floor")
	m := MeshMatrix(n, scene.Box{Min: math.Vec3{X: -5, Z: -5}, Max: math.Vec3{X: 5, Z: 5}})
	for i, v := range m {
		if stdmath.IsNaN(float64(v)) || stdmath.IsInf(float64(v), 0) {
			t.Fatalf("m[%d] = %v", i, v)
		}
	}
	if m[5] <= 0 {
		t.Errorf("flat box lost its Y extent: %v", m[5])
	}
}
