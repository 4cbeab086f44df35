package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiTriangle = `solid test
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 10 0 0
      vertex 0 20 0
    endloop
  endfacet
endsolid test
`

const objQuad = `# quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
f -4/1/1 -3/2/2 -2/3/3
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func meshNodes(root *scene.Node) []*scene.Node {
	var nodes []*scene.Node
	root.Walk(func(n *scene.Node, _ mgl64.Mat4) {
		if n.Mesh != nil {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

func writeGLB(t *testing.T, required ...string) string {
	t.Helper()
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 4, 0}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 0, 0, 1},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: gltf.Attribute{gltf.POSITION: positions},
			Material:   gltf.Index(0),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        "body",
		Mesh:        gltf.Index(0),
		Translation: [3]float32{1, 2, 3},
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	doc.ExtensionsRequired = required

	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"a.GLB", "", FormatGLB},
		{"a.gltf", "", FormatGLTF},
		{"a.stl", "", FormatSTL},
		{"a.obj", "", FormatOBJ},
		{"a.scad", "", FormatSCAD},
		{"blob", "glTF\x02\x00\x00\x00", FormatGLB},
		{"blob", `{"asset":{"version":"2.0"}}`, FormatGLTF},
		{"blob", asciiTriangle, FormatSTL},
		{"blob", "hello", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.name, []byte(tt.data)))
		})
	}
}

func TestOpenSTL(t *testing.T) {
	path := writeFile(t, "part.stl", asciiTriangle)

	root, err := New().Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "part", root.Name)

	meshes := meshNodes(root)
	require.Len(t, meshes, 1)
	assert.Len(t, meshes[0].Mesh.Triangles, 1)
	assert.Equal(t, scene.DefaultColor, meshes[0].Mesh.Color)
}

func TestOpenOBJ(t *testing.T) {
	path := writeFile(t, "quad.obj", objQuad)

	root, err := New().Open(context.Background(), path)
	require.NoError(t, err)

	meshes := meshNodes(root)
	require.Len(t, meshes, 1)
	require.Len(t, meshes[0].Mesh.Triangles, 3)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), meshes[0].Mesh.Triangles[0].Normal)
}

func TestParseOBJErrors(t *testing.T) {
	_, err := parseOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n"))
	assert.ErrorContains(t, err, "out of range")

	_, err = parseOBJ(strings.NewReader("v 0 0\n"))
	assert.ErrorContains(t, err, "three coordinates")

	_, err = parseOBJ(strings.NewReader("# nothing\n"))
	assert.ErrorContains(t, err, "no faces")
}

func TestOpenGLB(t *testing.T) {
	path := writeGLB(t)

	root, err := New().Open(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)

	body := root.Children()[0]
	assert.Equal(t, "body", body.Name)
	assert.Equal(t, geometry.NewVector3(1, 2, 3), body.Position)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), body.Scale)

	meshes := meshNodes(root)
	require.Len(t, meshes, 1)
	assert.Len(t, meshes[0].Mesh.Triangles, 1)
	assert.Equal(t, uint8(255), meshes[0].Mesh.Color.R)
	assert.Equal(t, uint8(0), meshes[0].Mesh.Color.G)
}

func TestApplyTransformMatrix(t *testing.T) {
	node := scene.NewNode("n")
	applyTransform(node, &gltf.Node{Matrix: [16]float32{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 4, 0,
		5, 6, 7, 1,
	}})

	assert.Equal(t, geometry.NewVector3(5, 6, 7), node.Position)
	assert.Equal(t, geometry.NewVector3(2, 3, 4), node.Scale)
	assert.InDelta(t, 1, node.Rotation.W, 1e-9)

	node = scene.NewNode("n")
	applyTransform(node, &gltf.Node{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{0.5, 0.5, 0.5},
	})
	assert.Equal(t, geometry.NewVector3(0.5, 0.5, 0.5), node.Scale)
	assert.Equal(t, geometry.NewVector3(0, 0, 0), node.Position)
}

func TestOpenGLBUnsupportedExtension(t *testing.T) {
	path := writeGLB(t, "KHR_draco_mesh_compression")

	_, err := New().Open(context.Background(), path)
	assert.ErrorContains(t, err, "KHR_draco_mesh_compression")
}

func TestOpenURL(t *testing.T) {
	data, err := os.ReadFile(writeGLB(t))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/model.glb" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	root, err := New(WithHTTPClient(srv.Client())).Open(context.Background(), srv.URL+"/models/model.glb")
	require.NoError(t, err)
	assert.Equal(t, "model", root.Name)
	assert.Len(t, meshNodes(root), 1)

	_, err = New(WithHTTPClient(srv.Client())).Open(context.Background(), srv.URL+"/missing.glb")
	assert.ErrorContains(t, err, "404")
}

func TestOpenErrors(t *testing.T) {
	r := New()

	_, err := r.Open(context.Background(), "")
	assert.Error(t, err)

	_, err = r.Open(context.Background(), filepath.Join(t.TempDir(), "missing.stl"))
	assert.ErrorContains(t, err, "failed to read model")

	_, err = r.Open(context.Background(), writeFile(t, "notes.txt", "hello"))
	assert.ErrorContains(t, err, "unsupported model format")
}

func TestOpenSCADMissingBinary(t *testing.T) {
	path := writeFile(t, "part.scad", "cube(10);")

	_, err := New(WithOpenSCAD("modelsnap-no-such-openscad")).Open(context.Background(), path)
	assert.ErrorContains(t, err, "not found in PATH")
}

func TestLoadCallsDoneAsync(t *testing.T) {
	path := writeFile(t, "part.stl", asciiTriangle)

	done := make(chan *scene.Node, 1)
	New().Load(context.Background(), path, func(n *scene.Node, err error) {
		assert.NoError(t, err)
		done <- n
	})

	select {
	case n := <-done:
		assert.NotNil(t, n)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}
}

func TestFunc(t *testing.T) {
	called := false
	var l Loader = Func(func(_ context.Context, ref string, done func(*scene.Node, error)) {
		called = true
		done(scene.NewNode(ref), nil)
	})
	l.Load(context.Background(), "x", func(n *scene.Node, err error) {
		assert.Equal(t, "x", n.Name)
	})
	assert.True(t, called)
}

func TestSimplify(t *testing.T) {
	mesh := scene.NewBoxMesh(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 1, 1))
	root := scene.NewNode("root")
	root.Add(scene.NewMeshNode("box", mesh))

	Simplify(root, 1)
	assert.Len(t, mesh.Triangles, 12)

	Simplify(root, 0.5)
	assert.NotEmpty(t, mesh.Triangles)
	assert.LessOrEqual(t, len(mesh.Triangles), 12)
}

func TestOpenWithSimplify(t *testing.T) {
	path := writeFile(t, "quad.obj", objQuad)

	root, err := New(WithSimplify(0.5)).Open(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, meshNodes(root), 1)
}
