package analysis

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/normalize"
	"github.com/philipparndt/modelsnap/pkg/scene"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EdgeInfo contains information about an edge in the model
type EdgeInfo struct {
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	Mesh   string
}

// EdgeStats summarizes the triangle edge lengths of a model
type EdgeStats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
}

// MeasurementResult contains the measurements of a loaded model in world space
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	MeshCount     int
	TriangleCount int
	Edges         EdgeStats
	AllEdges      []EdgeInfo

	// Normalization preview for TargetMaxDimension
	Dominant    normalize.Axis
	ScaleFactor float64
}

// AnalyzeModel measures every mesh below root using the current transforms
func AnalyzeModel(root *scene.Node) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox: normalize.ComputeBounds(root),
		AllEdges:    make([]EdgeInfo, 0),
	}

	var lengths, areas []float64
	root.Walk(func(n *scene.Node, world mgl64.Mat4) {
		if n.Mesh == nil {
			return
		}
		result.MeshCount++
		for _, t := range n.Mesh.Triangles {
			t = t.Transform(world)
			result.TriangleCount++
			areas = append(areas, t.Area())

			for _, edge := range [3][2]geometry.Vector3{{t.V1, t.V2}, {t.V2, t.V3}, {t.V3, t.V1}} {
				length := edge[0].Distance(edge[1])
				lengths = append(lengths, length)
				result.AllEdges = append(result.AllEdges, EdgeInfo{
					Start:  edge[0],
					End:    edge[1],
					Length: length,
					Mesh:   n.Name,
				})
			}
		}
	})

	result.SurfaceArea = floats.Sum(areas)
	result.Dimensions = result.BoundingBox.Size()
	result.Volume = result.BoundingBox.Volume()
	result.Edges = edgeStats(lengths)

	dims := normalize.DimensionsOf(result.Dimensions)
	result.Dominant = dims.DominantAxis()
	if d := dims.Dominant(); d > 0 {
		result.ScaleFactor = normalize.TargetMaxDimension / d
	}

	return result
}

func edgeStats(lengths []float64) EdgeStats {
	if len(lengths) == 0 {
		return EdgeStats{}
	}

	sorted := make([]float64, len(lengths))
	copy(sorted, lengths)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}
	return EdgeStats{
		Count:  len(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

// FindLongestEdges returns the N longest edges in the model
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
