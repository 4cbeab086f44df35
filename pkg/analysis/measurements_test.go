package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/normalize"
	"github.com/philipparndt/modelsnap/pkg/scene"
)

func boxModel(min, max geometry.Vector3) *scene.Node {
	root := scene.NewNode("model")
	root.Add(scene.NewMeshNode("box", scene.NewBoxMesh(min, max)))
	return root
}

func TestAnalyzeModelBox(t *testing.T) {
	result := AnalyzeModel(boxModel(geometry.NewVector3(0, 0, 0), geometry.NewVector3(2, 2, 2)))

	if result.MeshCount != 1 {
		t.Errorf("Expected 1 mesh, got %d", result.MeshCount)
	}
	if result.TriangleCount != 12 {
		t.Errorf("Expected 12 triangles, got %d", result.TriangleCount)
	}
	if math.Abs(result.SurfaceArea-24) > 1e-10 {
		t.Errorf("Expected surface area 24, got %f", result.SurfaceArea)
	}
	if math.Abs(result.Volume-8) > 1e-10 {
		t.Errorf("Expected volume 8, got %f", result.Volume)
	}
	if result.Edges.Count != 36 {
		t.Errorf("Expected 36 edges, got %d", result.Edges.Count)
	}
	if math.Abs(result.Edges.Min-2) > 1e-10 {
		t.Errorf("Expected min edge 2, got %f", result.Edges.Min)
	}
	if math.Abs(result.Edges.Max-2*math.Sqrt2) > 1e-10 {
		t.Errorf("Expected max edge 2*sqrt(2), got %f", result.Edges.Max)
	}
	if result.Edges.Mean <= result.Edges.Min || result.Edges.Mean >= result.Edges.Max {
		t.Errorf("Mean %f not between min and max", result.Edges.Mean)
	}
	if result.Dominant != normalize.AxisHeight {
		t.Errorf("Expected height to dominate, got %s", result.Dominant)
	}
	if math.Abs(result.ScaleFactor-100) > 1e-10 {
		t.Errorf("Expected scale factor 100, got %f", result.ScaleFactor)
	}
}

func TestAnalyzeModelUsesTransforms(t *testing.T) {
	root := boxModel(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 1, 1))
	root.SetScalar(3)

	result := AnalyzeModel(root)
	if math.Abs(result.Dimensions.X-3) > 1e-10 {
		t.Errorf("Expected width 3, got %f", result.Dimensions.X)
	}
	if math.Abs(result.SurfaceArea-54) > 1e-10 {
		t.Errorf("Expected surface area 54, got %f", result.SurfaceArea)
	}
}

func TestAnalyzeModelEmpty(t *testing.T) {
	result := AnalyzeModel(scene.NewNode("empty"))

	if result.TriangleCount != 0 || result.Edges.Count != 0 {
		t.Errorf("Expected no geometry, got %d triangles", result.TriangleCount)
	}
	if result.ScaleFactor != 0 {
		t.Errorf("Expected no scale factor, got %f", result.ScaleFactor)
	}
}

func TestFindLongestEdges(t *testing.T) {
	result := AnalyzeModel(boxModel(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 1, 1)))

	edges := FindLongestEdges(result, 3)
	if len(edges) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(edges))
	}
	for _, e := range edges {
		if math.Abs(e.Length-math.Sqrt2) > 1e-10 {
			t.Errorf("Expected diagonal edge, got %f", e.Length)
		}
	}

	if got := FindLongestEdges(result, 100); len(got) != 36 {
		t.Errorf("Expected all 36 edges, got %d", len(got))
	}
}

func TestFormatVector(t *testing.T) {
	got := FormatVector(geometry.NewVector3(1, 2.5, -3))
	if got != "(1.000000, 2.500000, -3.000000)" {
		t.Errorf("Unexpected format: %s", got)
	}
	if got := FormatMeasurement(2, ""); got != "2.000000 units" {
		t.Errorf("Unexpected format: %s", got)
	}
}
