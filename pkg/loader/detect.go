package loader

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/philipparndt/modelsnap/pkg/stl"
)

// Format is a supported model encoding
type Format int

const (
	FormatUnknown Format = iota
	FormatGLB
	FormatGLTF
	FormatSTL
	FormatOBJ
	FormatSCAD
)

func (f Format) String() string {
	switch f {
	case FormatGLB:
		return "glb"
	case FormatGLTF:
		return "gltf"
	case FormatSTL:
		return "stl"
	case FormatOBJ:
		return "obj"
	case FormatSCAD:
		return "scad"
	}
	return "unknown"
}

var (
	glbType  = filetype.NewType("glb", "model/gltf-binary")
	gltfType = filetype.NewType("gltf", "model/gltf+json")
	stlType  = filetype.NewType("stl", "model/stl")
)

func init() {
	filetype.AddMatcher(glbType, func(buf []byte) bool {
		return len(buf) >= 4 && string(buf[:4]) == "glTF"
	})
	filetype.AddMatcher(gltfType, func(buf []byte) bool {
		trimmed := bytes.TrimLeft(buf, " \t\r\n")
		return len(trimmed) > 0 && trimmed[0] == '{' && bytes.Contains(buf, []byte(`"asset"`))
	})
	filetype.AddMatcher(stlType, func(buf []byte) bool {
		return stl.IsASCII(buf, int64(len(buf))) && bytes.Contains(buf, []byte("facet"))
	})
}

// Detect determines the format from the file extension, falling back to
// the content for unknown or missing extensions
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".glb":
		return FormatGLB
	case ".gltf":
		return FormatGLTF
	case ".stl":
		return FormatSTL
	case ".obj":
		return FormatOBJ
	case ".scad":
		return FormatSCAD
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return FormatUnknown
	}
	switch kind.Extension {
	case glbType.Extension:
		return FormatGLB
	case gltfType.Extension:
		return FormatGLTF
	case stlType.Extension:
		return FormatSTL
	}
	return FormatUnknown
}
