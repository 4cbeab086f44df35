package scene

import (
	"image/color"

	"github.com/philipparndt/modelsnap/pkg/geometry"
)

// DefaultColor is used for meshes whose source carries no material
var DefaultColor = color.RGBA{0x77, 0x77, 0x77, 0xff}

// Mesh holds triangles in the local space of its node
type Mesh struct {
	Triangles []geometry.Triangle
	Color     color.RGBA
}

// NewMesh creates a mesh with the default color
func NewMesh(triangles []geometry.Triangle) *Mesh {
	return &Mesh{Triangles: triangles, Color: DefaultColor}
}

// BoundingBox returns the local-space bounds of the mesh
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, t := range m.Triangles {
		bbox.Extend(t.V1)
		bbox.Extend(t.V2)
		bbox.Extend(t.V3)
	}
	return bbox
}
