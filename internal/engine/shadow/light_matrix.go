package shadow

import (
	gomath "math"

	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/pkg/math"
)

// LightMatrix returns the view-projection of the sun's shadow camera.
//
// With a positive Shadow.Extent the camera sits at the light position,
// looks at its target and covers a fixed square of that half-size. Without
// one it is fitted around casters.
func LightMatrix(sun *scene.DirectionalLight, casters scene.Box) math.Mat4 {
	cfg := sun.Shadow
	if cfg.Extent <= 0 {
		return FitMatrix(sun.Direction().Scale(-1), casters)
	}

	view := math.LookAt(sun.Position, sun.Target, upFor(sun.Direction()))
	e := cfg.Extent
	return math.Ortho(-e, e, -e, e, cfg.Near, cfg.Far).Mul(view)
}

// FitMatrix computes a view-projection that encloses bounds.
// toLight is the normalized direction towards the light.
func FitMatrix(toLight math.Vec3, bounds scene.Box) math.Mat4 {
	center := bounds.Center()
	radius := Radius(bounds)

	// Far enough to see the whole box
	distance := radius * 2.0
	eye := center.Add(toLight.Scale(distance))
	view := math.LookAt(eye, center, upFor(toLight))

	// Padding avoids clipping at the edges
	padding := radius * 0.1
	half := radius + padding
	far := distance + radius + padding

	return math.Ortho(-half, half, -half, half, 0.1, far).Mul(view)
}

// Radius returns the distance from the box center to a corner.
func Radius(b scene.Box) float32 {
	return b.Size().Length() / 2
}

// upFor picks an up vector that is not parallel to dir.
func upFor(dir math.Vec3) math.Vec3 {
	if gomath.Abs(float64(dir.Y)) > 0.99 {
		return math.Vec3{Z: 1}
	}
	return math.Vec3{Y: 1}
}

// CasterBounds returns the world box around every visible mesh that casts
// a shadow. Rotation is ignored like in Node.Bounds.
func CasterBounds(s *scene.Scene) (scene.Box, bool) {
	var (
		box   scene.Box
		found bool
	)
	for _, n := range s.Nodes() {
		if !n.Visible {
			continue
		}
		for _, m := range n.Meshes {
			if !m.CastShadow {
				continue
			}
			b := worldBox(n, m.Bounds)
			if !found {
				box, found = b, true
				continue
			}
			box = box.Union(b)
		}
	}
	return box, found
}

func worldBox(n *scene.Node, b scene.Box) scene.Box {
	scale := func(v math.Vec3) math.Vec3 {
		return math.Vec3{X: v.X * n.Scale.X, Y: v.Y * n.Scale.Y, Z: v.Z * n.Scale.Z}.Add(n.Position)
	}
	lo, hi := scale(b.Min), scale(b.Max)
	return scene.Box{Min: lo.Min(hi), Max: lo.Max(hi)}
}
