package normalize

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
)

// ErrDegenerateGeometry is returned when a model has no extent to scale from
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Dimensions is the triple the dominant dimension is chosen from.
// Width and length are half extents while height is the full extent.
type Dimensions struct {
	Height     float64
	HalfWidth  float64
	HalfLength float64
}

// DimensionsOf derives the triple from a bounding box size
func DimensionsOf(size geometry.Vector3) Dimensions {
	return Dimensions{
		Height:     size.Y,
		HalfWidth:  size.X / 2,
		HalfLength: size.Z / 2,
	}
}

// Axis names the member of a Dimensions triple
type Axis int

const (
	AxisHeight Axis = iota
	AxisWidth
	AxisLength
)

func (a Axis) String() string {
	switch a {
	case AxisHeight:
		return "height"
	case AxisWidth:
		return "width"
	case AxisLength:
		return "length"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// DominantAxis picks height if it strictly exceeds both half extents,
// otherwise the larger half extent, with ties going to the half length.
//
// Height is compared against half the width and length, not the full
// extents. Keep it that way until the intent is confirmed.
func (d Dimensions) DominantAxis() Axis {
	if d.Height > d.HalfWidth && d.Height > d.HalfLength {
		return AxisHeight
	}
	if d.HalfWidth > d.HalfLength {
		return AxisWidth
	}
	return AxisLength
}

// Dominant returns the value of the dominant axis
func (d Dimensions) Dominant() float64 {
	switch d.DominantAxis() {
	case AxisHeight:
		return d.Height
	case AxisWidth:
		return d.HalfWidth
	default:
		return d.HalfLength
	}
}

// Scale sets a uniform scale on node so that its dominant dimension equals
// target, and returns the factor applied. The node is left untouched on error.
func Scale(node *scene.Node, target float64) (float64, error) {
	if !(target > 0) || math.IsInf(target, 0) {
		return 0, fmt.Errorf("invalid target dimension %v", target)
	}

	bbox := ComputeBounds(node)
	if bbox.IsEmpty() {
		return 0, fmt.Errorf("%w: no renderable geometry under %q", ErrDegenerateGeometry, node.Name)
	}

	dominant := DimensionsOf(bbox.Size()).Dominant()
	if dominant == 0 {
		return 0, fmt.Errorf("%w: dominant dimension of %q is zero", ErrDegenerateGeometry, node.Name)
	}

	factor := target / dominant
	if math.IsInf(factor, 0) || math.IsNaN(factor) || factor <= 0 {
		return 0, fmt.Errorf("%w: scale factor %v for %q", ErrDegenerateGeometry, factor, node.Name)
	}

	node.SetScalar(factor)
	return factor, nil
}
