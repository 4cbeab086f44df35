package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/modelsnap/pkg/openscad"
	"github.com/philipparndt/modelsnap/pkg/scene"
	"github.com/philipparndt/modelsnap/pkg/stl"
)

// decodeSCAD renders an OpenSCAD file to a temporary STL and loads that
func (r *Registry) decodeSCAD(ctx context.Context, src *source) (*scene.Node, error) {
	if src.path == "" {
		return nil, fmt.Errorf("openscad models must be local files")
	}

	scadFile, err := filepath.Abs(src.path)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "modelsnap-*.stl")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	renderer := openscad.NewRenderer(filepath.Dir(scadFile),
		openscad.WithBinary(r.openSCAD),
		openscad.WithLogger(r.log),
	)
	r.log.Info().Str("file", scadFile).Msg("rendering OpenSCAD file")
	if err := renderer.RenderToSTL(ctx, scadFile, tmpPath); err != nil {
		return nil, err
	}

	model, err := stl.Parse(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	return model.Node(modelName(src.name)), nil
}
