package loader

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Compression extensions that need a decoder this loader does not carry
var unsupportedExtensions = []string{
	"KHR_draco_mesh_compression",
	"EXT_meshopt_compression",
	"KHR_texture_basisu",
}

func decodeGLTF(src *source) (*scene.Node, error) {
	doc, err := openGLTF(src)
	if err != nil {
		return nil, err
	}

	for _, ext := range doc.ExtensionsRequired {
		for _, unsupported := range unsupportedExtensions {
			if ext == unsupported {
				return nil, fmt.Errorf("required extension %s is not supported", ext)
			}
		}
	}

	root := scene.NewNode(modelName(src.name))

	var roots []*gltf.Node
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			roots = append(roots, doc.Nodes[idx])
		}
	case len(doc.Scenes) > 0:
		for _, idx := range doc.Scenes[0].Nodes {
			roots = append(roots, doc.Nodes[idx])
		}
	default:
		roots = doc.Nodes
	}

	for _, n := range roots {
		child, err := convertNode(doc, n)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}

	return root, nil
}

func openGLTF(src *source) (*gltf.Document, error) {
	// Local files go through gltf.Open so relative buffer URIs resolve
	if src.path != "" {
		return gltf.Open(src.path)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(src.data)).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func convertNode(doc *gltf.Document, n *gltf.Node) (*scene.Node, error) {
	node := scene.NewNode(n.Name)
	applyTransform(node, n)

	if n.Mesh != nil {
		m := doc.Meshes[*n.Mesh]
		for i, primitive := range m.Primitives {
			mesh, err := convertPrimitive(doc, primitive)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
			if mesh == nil {
				continue
			}
			node.Add(scene.NewMeshNode(fmt.Sprintf("%s-%d", m.Name, i), mesh))
		}
	}

	for _, idx := range n.Children {
		child, err := convertNode(doc, doc.Nodes[idx])
		if err != nil {
			return nil, err
		}
		node.Add(child)
	}

	return node, nil
}

func applyTransform(node *scene.Node, n *gltf.Node) {
	m := n.MatrixOrDefault()
	if m != gltf.DefaultMatrix && m != [16]float32{} {
		decompose(node, toMat4(m))
		return
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	node.Position = geometry.NewVector3(float64(t[0]), float64(t[1]), float64(t[2]))
	node.Rotation = mgl64.Quat{W: float64(r[3]), V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])}}
	node.Scale = geometry.NewVector3(float64(s[0]), float64(s[1]), float64(s[2]))
}

// toMat4 widens a column-major glTF matrix
func toMat4(m [16]float32) mgl64.Mat4 {
	var out mgl64.Mat4
	for i, v := range m {
		out[i] = float64(v)
	}
	return out
}

// decompose splits a column-major TRS matrix into the node's components
func decompose(node *scene.Node, m mgl64.Mat4) {
	node.Position = geometry.NewVector3(m[12], m[13], m[14])

	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Mat3().Det() < 0 {
		sx = -sx
	}
	node.Scale = geometry.NewVector3(sx, sy, sz)

	if sx == 0 || sy == 0 || sz == 0 {
		node.Rotation = mgl64.QuatIdent()
		return
	}
	rot := mgl64.Mat4{
		m[0] / sx, m[1] / sx, m[2] / sx, 0,
		m[4] / sy, m[5] / sy, m[6] / sy, 0,
		m[8] / sz, m[9] / sz, m[10] / sz, 0,
		0, 0, 0, 1,
	}
	node.Rotation = mgl64.Mat4ToQuat(rot).Normalize()
}

func convertPrimitive(doc *gltf.Document, primitive *gltf.Primitive) (*scene.Mesh, error) {
	if primitive.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}

	posIdx, ok := primitive.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, err
	}

	var indices []uint32
	if primitive.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
		if err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint32, len(positions))
		for k := range indices {
			indices[k] = uint32(k)
		}
	}

	vertex := func(i uint32) (geometry.Vector3, error) {
		if int(i) >= len(positions) {
			return geometry.Vector3{}, fmt.Errorf("index %d out of range", i)
		}
		p := positions[i]
		return geometry.NewVector3(float64(p[0]), float64(p[1]), float64(p[2])), nil
	}

	triangles := make([]geometry.Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		v1, err := vertex(indices[i])
		if err != nil {
			return nil, err
		}
		v2, err := vertex(indices[i+1])
		if err != nil {
			return nil, err
		}
		v3, err := vertex(indices[i+2])
		if err != nil {
			return nil, err
		}
		t := geometry.Triangle{V1: v1, V2: v2, V3: v3}
		t.Normal = t.CalculateNormal()
		triangles = append(triangles, t)
	}

	mesh := scene.NewMesh(triangles)
	if primitive.Material != nil {
		mesh.Color = materialColor(doc.Materials[*primitive.Material])
	}
	return mesh, nil
}

func materialColor(m *gltf.Material) color.RGBA {
	if m == nil || m.PBRMetallicRoughness == nil || m.PBRMetallicRoughness.BaseColorFactor == nil {
		return scene.DefaultColor
	}
	f := *m.PBRMetallicRoughness.BaseColorFactor
	channel := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{R: channel(float64(f[0])), G: channel(float64(f[1])), B: channel(float64(f[2])), A: 255}
}

func modelName(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	if name == "" {
		return "model"
	}
	return name
}
