package normalize

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
)

// ComputeBounds returns the world-space axis-aligned box enclosing every
// triangle under node, using the node's current transforms and those of its
// ancestors. A subtree without geometry yields an empty box.
func ComputeBounds(node *scene.Node) geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	node.Walk(func(n *scene.Node, world mgl64.Mat4) {
		if n.Mesh == nil {
			return
		}
		for _, t := range n.Mesh.Triangles {
			bbox.Extend(t.V1.Transform(world))
			bbox.Extend(t.V2.Transform(world))
			bbox.Extend(t.V3.Transform(world))
		}
	})
	return bbox
}
