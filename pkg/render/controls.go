package render

import (
	"math"

	"github.com/philipparndt/modelsnap/pkg/geometry"
)

// Controls orbits a camera around a target. Every change to the camera
// notifies the registered listeners, which typically re-render the view.
type Controls struct {
	camera      *Camera
	Target      geometry.Vector3
	MinDistance float64
	MaxDistance float64
	listeners   []func()
}

// NewControls creates orbit controls for camera
func NewControls(camera *Camera) *Controls {
	return &Controls{
		camera:      camera,
		Target:      camera.Target,
		MinDistance: 0,
		MaxDistance: math.Inf(1),
	}
}

// OnChange registers fn to run after every camera change
func (c *Controls) OnChange(fn func()) {
	c.listeners = append(c.listeners, fn)
}

// Update applies the target and distance limits to the camera.
// It reports whether the camera moved.
func (c *Controls) Update() bool {
	offset := c.camera.Position.Sub(c.Target)
	distance := clamp(offset.Length(), c.MinDistance, c.MaxDistance)
	return c.apply(offset.Normalize().Mul(distance))
}

// Rotate orbits the camera by the given azimuth and polar deltas in radians
func (c *Controls) Rotate(deltaAzimuth, deltaPolar float64) bool {
	offset := c.camera.Position.Sub(c.Target)
	radius := offset.Length()
	if radius == 0 {
		return false
	}

	theta := math.Atan2(offset.X, offset.Z) + deltaAzimuth
	phi := math.Acos(clamp(offset.Y/radius, -1, 1)) + deltaPolar

	// Keep away from the poles to prevent gimbal lock
	const eps = 1e-6
	phi = clamp(phi, eps, math.Pi-eps)
	radius = clamp(radius, c.MinDistance, c.MaxDistance)

	return c.apply(geometry.NewVector3(
		radius*math.Sin(phi)*math.Sin(theta),
		radius*math.Cos(phi),
		radius*math.Sin(phi)*math.Cos(theta),
	))
}

// Zoom changes the camera distance by the given relative amount
func (c *Controls) Zoom(delta float64) bool {
	offset := c.camera.Position.Sub(c.Target)
	distance := clamp(offset.Length()*(1.0+delta), c.MinDistance, c.MaxDistance)
	return c.apply(offset.Normalize().Mul(distance))
}

func (c *Controls) apply(offset geometry.Vector3) bool {
	position := c.Target.Add(offset)
	changed := position.Distance(c.camera.Position) > 1e-9 || c.camera.Target != c.Target

	c.camera.Position = position
	c.camera.LookAt(c.Target)

	if changed {
		for _, fn := range c.listeners {
			fn()
		}
	}
	return changed
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
