package loader

import (
	"github.com/philipparndt/modelsnap/pkg/scene"
	"github.com/philipparndt/modelsnap/pkg/stl"
)

func decodeSTL(src *source) (*scene.Node, error) {
	model, err := stl.ParseBytes(src.data)
	if err != nil {
		return nil, err
	}
	return model.Node(modelName(src.name)), nil
}
