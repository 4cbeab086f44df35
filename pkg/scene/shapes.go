package scene

import "github.com/philipparndt/modelsnap/pkg/geometry"

// NewBoxMesh builds a closed, outward-facing box spanning min to max
func NewBoxMesh(min, max geometry.Vector3) *Mesh {
	v := func(x, y, z float64) geometry.Vector3 { return geometry.NewVector3(x, y, z) }

	p := [8]geometry.Vector3{
		v(min.X, min.Y, min.Z), v(max.X, min.Y, min.Z), v(max.X, max.Y, min.Z), v(min.X, max.Y, min.Z),
		v(min.X, min.Y, max.Z), v(max.X, min.Y, max.Z), v(max.X, max.Y, max.Z), v(min.X, max.Y, max.Z),
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
	}

	triangles := make([]geometry.Triangle, 0, 12)
	for _, q := range quads {
		for _, t := range [2][3]int{{q[0], q[1], q[2]}, {q[0], q[2], q[3]}} {
			tri := geometry.Triangle{V1: p[t[0]], V2: p[t[1]], V3: p[t[2]]}
			tri.Normal = tri.CalculateNormal()
			triangles = append(triangles, tri)
		}
	}
	return NewMesh(triangles)
}
