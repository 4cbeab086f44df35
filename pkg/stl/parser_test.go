package stl

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

const asciiTriangle = `solid bracket
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 2 0 0
    vertex 0 3 0
  endloop
endfacet
endsolid bracket
`

func TestParseASCII(t *testing.T) {
	model, err := ParseReader(strings.NewReader(asciiTriangle))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if model.Name != "bracket" {
		t.Errorf("Name failed: expected bracket, got %q", model.Name)
	}
	if model.Encoding != ASCII {
		t.Errorf("Encoding failed: expected ascii, got %s", model.Encoding)
	}
	if len(model.Triangles) != 1 {
		t.Fatalf("Triangles failed: expected 1, got %d", len(model.Triangles))
	}
	if got := model.Triangles[0].V3.Y; got != 3 {
		t.Errorf("Vertex failed: expected y=3, got %v", got)
	}
}

func binarySTL(header string, triangles [][4][3]float32) []byte {
	var buf bytes.Buffer
	h := make([]byte, 80)
	copy(h, header)
	buf.Write(h)
	binary.Write(&buf, binary.LittleEndian, uint32(len(triangles)))
	for _, tri := range triangles {
		binary.Write(&buf, binary.LittleEndian, tri)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestParseBinary(t *testing.T) {
	data := binarySTL("binary part", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, 1}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	})

	model, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if model.Encoding != Binary {
		t.Errorf("Encoding failed: expected binary, got %s", model.Encoding)
	}
	if model.Name != "binary part" {
		t.Errorf("Name failed: expected header text, got %q", model.Name)
	}
	if len(model.Triangles) != 2 {
		t.Fatalf("Triangles failed: expected 2, got %d", len(model.Triangles))
	}

	bbox := model.Node("part").Children()[0].Mesh.BoundingBox()
	if bbox.Max.X != 1 || bbox.Max.Y != 1 || bbox.Max.Z != 0 {
		t.Errorf("BoundingBox failed: unexpected max %v", bbox.Max)
	}
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	data := binarySTL("solid but binary", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {4, 0, 0}, {0, 4, 0}},
	})

	model, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if model.Encoding != Binary || len(model.Triangles) != 1 {
		t.Errorf("expected one binary triangle, got %s with %d", model.Encoding, len(model.Triangles))
	}
}

func TestModelNode(t *testing.T) {
	model, err := ParseReader(strings.NewReader(asciiTriangle))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	root := model.Node("part")
	if root.Name != "part" || len(root.Children()) != 1 {
		t.Fatalf("Node failed: got %q with %d children", root.Name, len(root.Children()))
	}
	if mesh := root.Children()[0]; mesh.Name != "bracket" || len(mesh.Mesh.Triangles) != 1 {
		t.Errorf("Node failed: unexpected mesh %q", mesh.Name)
	}

	model.Name = ""
	if name := model.Node("part").Children()[0].Name; name != "part-mesh" {
		t.Errorf("Node failed: expected part-mesh, got %q", name)
	}
}

func TestParseTruncatedBinary(t *testing.T) {
	data := binarySTL("short", [][4][3]float32{{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}}})
	if _, err := ParseBytes(data[:100]); err == nil {
		t.Errorf("expected error for truncated file")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse("/nonexistent/model.stl"); err == nil {
		t.Errorf("expected error for missing file")
	}
}
