// Package camera provides the showroom's orbit controls and the animated
// transition between named viewpoints.
package camera

import (
	gomath "math"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/pkg/math"
)

// Controls orbits the camera position around a look-at target.
type Controls struct {
	Position math.Vec3
	Target   math.Vec3

	// Projection
	FOV       float32 // degrees
	Near, Far float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPolar    float32 // radians from +Y
	MaxPolar    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewControls creates orbit controls from the camera config.
func NewControls(cfg config.CameraConfig) *Controls {
	return &Controls{
		Position:        math.Vec3{X: 4, Y: 0, Z: 7},
		FOV:             cfg.FOV,
		Near:            cfg.Near,
		Far:             cfg.Far,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		MinPolar:        0,
		MaxPolar:        cfg.MaxPolar,
		DragSensitivity: cfg.RotateSpeed,
		ZoomSensitivity: cfg.ZoomSpeed,
	}
}

// spherical returns the offset from target as radius, polar angle from +Y
// and azimuth around Y.
func (c *Controls) spherical() (radius, polar, azimuth float64) {
	off := c.Position.Sub(c.Target)
	radius = float64(off.Length())
	if radius == 0 {
		return 0, 0, 0
	}
	polar = gomath.Acos(gomath.Max(-1, gomath.Min(1, float64(off.Y)/radius)))
	azimuth = gomath.Atan2(float64(off.X), float64(off.Z))
	return radius, polar, azimuth
}

func (c *Controls) setSpherical(radius, polar, azimuth float64) {
	sinP := gomath.Sin(polar)
	c.Position = c.Target.Add(math.Vec3{
		X: float32(radius * sinP * gomath.Sin(azimuth)),
		Y: float32(radius * gomath.Cos(polar)),
		Z: float32(radius * sinP * gomath.Cos(azimuth)),
	})
}

// HandleDrag orbits around the target based on mouse drag delta.
func (c *Controls) HandleDrag(deltaX, deltaY float32) {
	radius, polar, azimuth := c.spherical()
	if radius == 0 {
		return
	}
	azimuth -= float64(deltaX * c.DragSensitivity)
	polar -= float64(deltaY * c.DragSensitivity)

	// Keep polar off the poles so LookAt stays defined.
	lo := gomath.Max(float64(c.MinPolar), 1e-4)
	hi := gomath.Min(float64(c.MaxPolar), gomath.Pi-1e-4)
	polar = gomath.Max(lo, gomath.Min(hi, polar))

	c.setSpherical(radius, polar, azimuth)
}

// HandleZoom moves toward or away from the target based on scroll delta.
func (c *Controls) HandleZoom(delta float32) {
	radius, polar, azimuth := c.spherical()
	if radius == 0 {
		return
	}
	radius -= float64(delta*c.ZoomSensitivity) * radius * 0.2
	radius = gomath.Max(float64(c.MinDistance), gomath.Min(float64(c.MaxDistance), radius))
	c.setSpherical(radius, polar, azimuth)
}

// Distance returns the distance from position to target.
func (c *Controls) Distance() float32 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the view matrix for this camera.
func (c *Controls) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for aspect.
func (c *Controls) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV*gomath.Pi/180, aspect, c.Near, c.Far)
}
