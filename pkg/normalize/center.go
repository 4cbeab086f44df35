package normalize

import "github.com/philipparndt/modelsnap/pkg/scene"

// Center wraps node in a new parent and positions node so the center of its
// bounds sits on the wrapper's origin. With restOnFloor the node is then
// lifted along its Y axis until the lowest point of the wrapper's bounds is
// at Y = 0. The wrapper takes node away from any previous parent.
func Center(node *scene.Node, restOnFloor bool) *scene.Node {
	wrapper := scene.NewNode(node.Name + "-wrapper")
	wrapper.Add(node)

	center := ComputeBounds(node).Center()
	node.Position = center.Negate()

	if restOnFloor {
		minY := ComputeBounds(wrapper).Min.Y
		node.TranslateY(-minY)
	}

	return wrapper
}
