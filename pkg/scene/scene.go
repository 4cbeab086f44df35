package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Grid is a flat reference grid on the XZ plane, centered on the origin
type Grid struct {
	Size      float64
	Divisions int
	Color     color.RGBA
	Opacity   float64
}

// Axes draws the X (red), Y (green) and Z (blue) axes from the origin
type Axes struct {
	Length float64
}

// Scene is the root of everything the renderer draws
type Scene struct {
	Root       *Node
	Background color.RGBA
	Grid       *Grid
	Axes       *Axes
}

// New creates an empty scene
func New() *Scene {
	return &Scene{
		Root:       NewNode("scene"),
		Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
}

// Add attaches a node to the scene root
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// TriangleCount returns the number of triangles reachable from the root
func (s *Scene) TriangleCount() int {
	count := 0
	s.Root.Walk(func(n *Node, _ mgl64.Mat4) {
		if n.Mesh != nil {
			count += len(n.Mesh.Triangles)
		}
	})
	return count
}
