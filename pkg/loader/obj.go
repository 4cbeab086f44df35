package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
)

func decodeOBJ(src *source) (*scene.Node, error) {
	triangles, err := parseOBJ(bytes.NewReader(src.data))
	if err != nil {
		return nil, err
	}
	name := modelName(src.name)
	root := scene.NewNode(name)
	root.Add(scene.NewMeshNode(name+"-mesh", scene.NewMesh(triangles)))
	return root, nil
}

// parseOBJ reads vertex positions and faces; polygons are fanned into
// triangles. Texture coordinates and normals are ignored.
func parseOBJ(r io.Reader) ([]geometry.Triangle, error) {
	vs := make([]geometry.Vector3, 1, 1024)
	var triangles []geometry.Triangle

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 2 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs three coordinates", lineNum)
			}
			var coords [3]float64
			for i := range coords {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				coords[i] = v
			}
			vs = append(vs, geometry.NewVector3(coords[0], coords[1], coords[2]))
		case "f":
			args := fields[1:]
			if len(args) < 3 {
				return nil, fmt.Errorf("line %d: face needs at least three vertices", lineNum)
			}
			idx := make([]int, len(args))
			for i, arg := range args {
				n, err := faceIndex(strings.SplitN(arg, "/", 2)[0], len(vs))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				idx[i] = n
			}
			for i := 1; i < len(idx)-1; i++ {
				t := geometry.Triangle{V1: vs[idx[0]], V2: vs[idx[i]], V3: vs[idx[i+1]]}
				t.Normal = t.CalculateNormal()
				triangles = append(triangles, t)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("no faces found in obj")
	}
	return triangles, nil
}

// faceIndex resolves a 1-based or negative (relative) OBJ index
func faceIndex(value string, count int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", value)
	}
	if n < 0 {
		n += count
	}
	if n <= 0 || n >= count {
		return 0, fmt.Errorf("face index %q out of range", value)
	}
	return n, nil
}
