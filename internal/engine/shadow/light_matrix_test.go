package shadow

import (
	"testing"

	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) scene.Box {
	return scene.Box{
		Min: math.Vec3{X: minX, Y: minY, Z: minZ},
		Max: math.Vec3{X: maxX, Y: maxY, Z: maxZ},
	}
}

func corners(b scene.Box) []math.Vec3 {
	var out []math.Vec3
	for _, x := range []float32{b.Min.X, b.Max.X} {
		for _, y := range []float32{b.Min.Y, b.Max.Y} {
			for _, z := range []float32{b.Min.Z, b.Max.Z} {
				out = append(out, math.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

func inClip(v math.Vec3) bool {
	const eps = 1e-4
	return v.X >= -1-eps && v.X <= 1+eps &&
		v.Y >= -1-eps && v.Y <= 1+eps &&
		v.Z >= -1-eps && v.Z <= 1+eps
}

func TestLightMatrixCentersTarget(t *testing.T) {
	sun := scene.New().Sun
	m := LightMatrix(sun, scene.Box{})

	got := m.TransformVec3(sun.Target)
	if absf(got.X) > 1e-4 || absf(got.Y) > 1e-4 {
		t.Errorf("target maps to %v, want the center of the shadow map", got)
	}
	if !inClip(got) {
		t.Errorf("target %v is outside the light frustum", got)
	}
}

func TestLightMatrixExtentCoversShowroomCar(t *testing.T) {
	sun := scene.New().Sun
	car := box(-1, 0, -2.3, 1, 1.4, 2.3)
	m := LightMatrix(sun, car)

	for _, c := range corners(car) {
		if got := m.TransformVec3(c); !inClip(got) {
			t.Errorf("corner %v maps to %v, outside the light frustum", c, got)
		}
	}
}

func TestLightMatrixFitsCastersWithoutExtent(t *testing.T) {
	sun := scene.New().Sun
	sun.Shadow.Extent = 0
	casters := box(40, 0, 40, 44, 2, 50)
	m := LightMatrix(sun, casters)

	for _, c := range corners(casters) {
		if got := m.TransformVec3(c); !inClip(got) {
			t.Errorf("corner %v maps to %v, outside the light frustum", c, got)
		}
	}
	center := m.TransformVec3(casters.Center())
	if absf(center.X) > 1e-3 || absf(center.Y) > 1e-3 {
		t.Errorf("caster center maps to %v, want (0, 0)", center)
	}
}

func TestFitMatrixOverheadLight(t *testing.T) {
	b := box(-1, 0, -1, 1, 1, 1)
	m := FitMatrix(math.Vec3{Y: 1}, b)

	for _, c := range corners(b) {
		got := m.TransformVec3(c)
		if !inClip(got) {
			t.Errorf("corner %v maps to %v, outside the light frustum", c, got)
		}
	}
}

func TestRadius(t *testing.T) {
	if got := Radius(box(0, 0, 0, 2, 2, 1)); absf(got-1.5) > 1e-5 {
		t.Errorf("Radius() = %f, want 1.5", got)
	}
}

func TestCasterBoundsSelectsCasters(t *testing.T) {
	s := scene.New()

	car := scene.NewNode("car")
	car.Position = math.Vec3{X: 1}
	car.Meshes = []*scene.Mesh{
		{Name: "body", Bounds: box(-1, 0, -2, 1, 1, 2), CastShadow: true},
		{Name: "antenna", Bounds: box(0, 0, 0, 0.1, 5, 0.1)},
	}
	floor := scene.NewNode("floor")
	floor.Meshes = []*scene.Mesh{
		{Name: "floor", Bounds: box(-50, -0.01, -50, 50, 0, 50), ReceiveShadow: true},
	}
	hidden := scene.NewNode("hidden")
	hidden.Visible = false
	hidden.Meshes = []*scene.Mesh{
		{Name: "box", Bounds: box(10, 0, 10, 11, 1, 11), CastShadow: true},
	}
	s.Add(car)
	s.Add(floor)
	s.Add(hidden)

	got, ok := CasterBounds(s)
	if !ok {
		t.Fatal("CasterBounds() found no casters")
	}
	want := box(0, 0, -2, 2, 1, 2)
	if got != want {
		t.Errorf("CasterBounds() = %v, want %v", got, want)
	}
}

func TestCasterBoundsScaledNode(t *testing.T) {
	s := scene.New()
	n := scene.NewNode("car")
	n.Scale = math.Vec3{X: 2, Y: 2, Z: -1}
	n.Meshes = []*scene.Mesh{
		{Bounds: box(-1, 0, -2, 1, 1, 3), CastShadow: true},
	}
	s.Add(n)

	got, ok := CasterBounds(s)
	if !ok {
		t.Fatal("CasterBounds() found no casters")
	}
	want := box(-2, 0, -3, 2, 2, 2)
	if got != want {
		t.Errorf("CasterBounds() = %v, want %v", got, want)
	}
}

func TestCasterBoundsNone(t *testing.T) {
	s := scene.New()
	n := scene.NewNode("floor")
	n.Meshes = []*scene.Mesh{{Bounds: box(-1, 0, -1, 1, 0, 1), ReceiveShadow: true}}
	s.Add(n)

	if _, ok := CasterBounds(s); ok {
		t.Error("CasterBounds() reported casters for a scene without any")
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
