package stl

import (
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
)

// Encoding is the on-disk flavour of an STL document
type Encoding int

const (
	ASCII Encoding = iota
	Binary
)

func (e Encoding) String() string {
	if e == Binary {
		return "binary"
	}
	return "ascii"
}

// Model is a decoded STL document. Name is the solid name for ASCII
// files and the trimmed header text for binary ones.
type Model struct {
	Name      string
	Encoding  Encoding
	Triangles []geometry.Triangle
}

func newModel(enc Encoding, capacity int) *Model {
	return &Model{Encoding: enc, Triangles: make([]geometry.Triangle, 0, capacity)}
}

// Node wraps the triangles in a group named name holding a single mesh.
// The mesh takes the solid name, or name with a "-mesh" suffix when the
// document carries none.
func (m *Model) Node(name string) *scene.Node {
	meshName := m.Name
	if meshName == "" {
		meshName = name + "-mesh"
	}
	root := scene.NewNode(name)
	root.Add(scene.NewMeshNode(meshName, scene.NewMesh(m.Triangles)))
	return root
}
