package main

import (
	"fmt"

	"github.com/philipparndt/modelsnap/pkg/analysis"
	"github.com/philipparndt/modelsnap/pkg/normalize"
	"github.com/spf13/cobra"
)

var infoEdges int

var infoCmd = &cobra.Command{
	Use:   "info <file-or-url>",
	Short: "Display measurements of a model and how it would be normalized",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().IntVar(&infoEdges, "edges", 0, "also list the N longest edges")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ref := args[0]

	model, err := newLoader().Open(cmd.Context(), ref)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeModel(model)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Model Information")
	fmt.Fprintln(out, "=================")
	fmt.Fprintf(out, "Name: %s\n", model.Name)
	fmt.Fprintf(out, "Source: %s\n\n", ref)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Meshes: %d\n", result.MeshCount)
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Surface Area: %s\n\n", analysis.FormatMeasurement(result.SurfaceArea, "square units"))

	if result.TriangleCount == 0 {
		fmt.Fprintln(out, "Model has no geometry")
		return nil
	}

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %s\n", analysis.FormatMeasurement(result.Dimensions.X, ""))
	fmt.Fprintf(out, "  Height (Y): %s\n", analysis.FormatMeasurement(result.Dimensions.Y, ""))
	fmt.Fprintf(out, "  Length (Z): %s\n", analysis.FormatMeasurement(result.Dimensions.Z, ""))
	fmt.Fprintf(out, "  Diagonal: %s\n", analysis.FormatMeasurement(result.BoundingBox.Diagonal(), ""))
	fmt.Fprintf(out, "  Volume: %s\n\n", analysis.FormatMeasurement(result.Volume, "cubic units"))

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f\n", result.Edges.Min)
	fmt.Fprintf(out, "  Maximum: %.6f\n", result.Edges.Max)
	fmt.Fprintf(out, "  Mean: %.6f (std dev %.6f)\n", result.Edges.Mean, result.Edges.StdDev)
	fmt.Fprintf(out, "  Median: %.6f\n\n", result.Edges.Median)

	fmt.Fprintln(out, "Normalization:")
	fmt.Fprintf(out, "  Dominant: %s\n", result.Dominant)
	if result.ScaleFactor > 0 {
		fmt.Fprintf(out, "  Scale to %.0f: %.6f\n", normalize.TargetMaxDimension, result.ScaleFactor)
	} else {
		fmt.Fprintln(out, "  Scale: degenerate, model cannot be normalized")
	}

	if infoEdges > 0 {
		fmt.Fprintf(out, "\nLongest Edges:\n")
		for i, e := range analysis.FindLongestEdges(result, infoEdges) {
			fmt.Fprintf(out, "  %d. %.6f %s -> %s (%s)\n", i+1, e.Length,
				analysis.FormatVector(e.Start), analysis.FormatVector(e.End), e.Mesh)
		}
	}

	return nil
}
