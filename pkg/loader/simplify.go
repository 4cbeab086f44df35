package loader

import (
	"github.com/fogleman/simplify"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
)

// Simplify reduces every mesh below root to roughly factor of its triangles.
// Factors outside (0, 1) leave the meshes unchanged.
func Simplify(root *scene.Node, factor float64) {
	if factor <= 0 || factor >= 1 {
		return
	}
	root.Walk(func(n *scene.Node, _ mgl64.Mat4) {
		if n.Mesh == nil || len(n.Mesh.Triangles) < 4 {
			return
		}
		n.Mesh.Triangles = simplifyTriangles(n.Mesh.Triangles, factor)
	})
}

func simplifyTriangles(triangles []geometry.Triangle, factor float64) []geometry.Triangle {
	in := make([]*simplify.Triangle, len(triangles))
	for i, t := range triangles {
		in[i] = simplify.NewTriangle(toSimplify(t.V1), toSimplify(t.V2), toSimplify(t.V3))
	}

	out := simplify.NewMesh(in).Simplify(factor)
	if len(out.Triangles) == 0 {
		return triangles
	}

	result := make([]geometry.Triangle, len(out.Triangles))
	for i, t := range out.Triangles {
		tri := geometry.Triangle{V1: fromSimplify(t.V1), V2: fromSimplify(t.V2), V3: fromSimplify(t.V3)}
		tri.Normal = tri.CalculateNormal()
		result[i] = tri
	}
	return result
}

func toSimplify(v geometry.Vector3) simplify.Vector {
	return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func fromSimplify(v simplify.Vector) geometry.Vector3 {
	return geometry.NewVector3(v.X, v.Y, v.Z)
}
