package normalize

import (
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
)

const (
	// TargetMaxDimension is the size the dominant dimension is scaled to
	TargetMaxDimension = 200.0
	// FloorOffset is the height the centered wrapper is placed at
	FloorOffset = 8.0
)

// Result describes what normalization did to a model
type Result struct {
	ScaleFactor float64
	// Translation is the position given to the model inside the wrapper
	Translation geometry.Vector3
	Wrapper     *scene.Node
	// Bounds of the wrapper in its own frame after placement
	Bounds geometry.BoundingBox
}

// Normalize scales model to target and centers it in a new wrapper node.
func Normalize(model *scene.Node, target float64, restOnFloor bool) (*Result, error) {
	factor, err := Scale(model, target)
	if err != nil {
		return nil, err
	}

	wrapper := Center(model, restOnFloor)

	return &Result{
		ScaleFactor: factor,
		Translation: model.Position,
		Wrapper:     wrapper,
		Bounds:      ComputeBounds(wrapper),
	}, nil
}
