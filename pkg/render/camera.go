package render

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
)

// Camera is a perspective camera looking at a target point
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // Vertical field of view in degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z
func NewPerspectiveCamera(fov, aspect, near, far float64) *Camera {
	return &Camera{
		Target: geometry.NewVector3(0, 0, -1),
		Up:     geometry.NewVector3(0, 1, 0),
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// LookAt points the camera at target
func (c *Camera) LookAt(target geometry.Vector3) {
	c.Target = target
}

// ViewMatrix transforms world coordinates into camera space
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position.Vec3(), c.Target.Vec3(), c.Up.Vec3())
}

// ProjectionMatrix returns the perspective projection
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// projector maps world points to pixels for one frame
type projector struct {
	vp            mgl64.Mat4
	near, far     float64
	width, height float64
}

func (c *Camera) projector(width, height int) projector {
	return projector{
		vp:     c.ViewProjection(),
		near:   c.Near,
		far:    c.Far,
		width:  float64(width),
		height: float64(height),
	}
}

// project returns screen coordinates and view depth of a world point.
// ok is false when the point lies outside the near/far range.
func (p projector) project(point geometry.Vector3) (x, y, depth float64, ok bool) {
	clip := p.vp.Mul4x1(mgl64.Vec4{point.X, point.Y, point.Z, 1})
	w := clip[3]
	if w < p.near || w > p.far {
		return 0, 0, 0, false
	}

	ndcX := clip[0] / w
	ndcY := clip[1] / w

	x = (ndcX + 1) / 2 * p.width
	y = (1 - ndcY) / 2 * p.height
	return x, y, w, true
}

// Project projects a 3D point to 2D screen coordinates for a viewport of the given size
func (c *Camera) Project(point geometry.Vector3, width, height int) (x, y, depth float64, ok bool) {
	return c.projector(width, height).project(point)
}
