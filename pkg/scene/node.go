package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
)

// Node is an element of the scene graph. Its pose is relative to its parent.
type Node struct {
	Name     string
	Position geometry.Vector3
	Rotation mgl64.Quat
	Scale    geometry.Vector3
	Mesh     *Mesh

	parent   *Node
	children []*Node
}

// NewNode creates an empty node with an identity pose
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    geometry.NewVector3(1, 1, 1),
	}
}

// NewMeshNode creates a node holding the given mesh
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

// Parent returns the node owning n, or nil for a root
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children of the node
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child to n. A child that already has a parent is detached
// from it first, so a node is owned by at most one parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// SetScalar sets a uniform scale on all three axes
func (n *Node) SetScalar(s float64) {
	n.Scale = geometry.NewVector3(s, s, s)
}

// TranslateY moves the node along its own (rotated) Y axis
func (n *Node) TranslateY(distance float64) {
	axis := geometry.FromVec3(n.rotation().Rotate(mgl64.Vec3{0, 1, 0}))
	n.Position = n.Position.Add(axis.Mul(distance))
}

// LocalMatrix returns translation * rotation * scale
func (n *Node) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X, n.Position.Y, n.Position.Z)
	r := n.rotation().Mat4()
	s := mgl64.Scale3D(n.Scale.X, n.Scale.Y, n.Scale.Z)
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the transform from node space to the root's space
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Walk visits n and every descendant depth-first, passing each node's world matrix
func (n *Node) Walk(fn func(node *Node, world mgl64.Mat4)) {
	n.walk(n.WorldMatrix(), fn)
}

func (n *Node) walk(world mgl64.Mat4, fn func(*Node, mgl64.Mat4)) {
	fn(n, world)
	for _, c := range n.children {
		c.walk(world.Mul4(c.LocalMatrix()), fn)
	}
}

// rotation guards against a zero quaternion left by a struct literal
func (n *Node) rotation() mgl64.Quat {
	if n.Rotation.W == 0 && n.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return n.Rotation.Normalize()
}
