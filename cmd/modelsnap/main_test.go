package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/modelsnap/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 4 3 2
f 5 6 7 8
f 1 5 8 4
f 2 3 7 6
f 1 2 6 5
f 4 8 7 3
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func writeCube(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cube.obj")
	require.NoError(t, os.WriteFile(path, []byte(cubeOBJ), 0o644))
	return path
}

func TestSnapshotCommand(t *testing.T) {
	model := writeCube(t)
	out := filepath.Join(t.TempDir(), "cube.png")

	execute(t, "snapshot", model, "--out", out, "--width", "64", "--height", "48", "--metadata", "--log-level", "error")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	var meta SnapshotMetadata
	data, err = os.ReadFile(metadataPath(out))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, model, meta.Source)
	assert.InDelta(t, 200, meta.ScaleFactor, 1e-9)
	assert.InDelta(t, 0, meta.BoundsMin.Y, 1e-9)
	assert.InDelta(t, 200, meta.BoundsMax.Y, 1e-9)
}

func TestInfoCommand(t *testing.T) {
	out := execute(t, "info", writeCube(t), "--edges", "2", "--log-level", "error")

	assert.Contains(t, out, "Triangles: 12")
	assert.Contains(t, out, "Dominant: height")
	assert.Contains(t, out, "Scale to 200: 200.000000")
	assert.Contains(t, out, "Longest Edges:")
}

func TestConfigCommand(t *testing.T) {
	out := execute(t, "config", "--log-level", "error")

	assert.Contains(t, out, "viewport:")
	assert.Contains(t, out, "openscad:")
}

func TestCompletionCommand(t *testing.T) {
	out := execute(t, "completion", "bash")
	assert.Contains(t, out, "modelsnap")
}

func TestWatchFilesRelativeSCAD(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "part.scad"), []byte("include <dims.scad>\ncube(1);\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "dims.scad"), []byte("w = 1;\n"), 0o644))

	prev := cfg
	cfg = config.Default()
	t.Cleanup(func() { cfg = prev })

	files, err := watchFiles(context.Background(), filepath.Join("models", "part.scad"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "part.scad", filepath.Base(files[0]))
	assert.Equal(t, "dims.scad", filepath.Base(files[1]))
	assert.True(t, filepath.IsAbs(files[0]))

	files, err = watchFiles(context.Background(), "cube.obj")
	require.NoError(t, err)
	assert.Equal(t, []string{"cube.obj"}, files)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
