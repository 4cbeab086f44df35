package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBinary is the OpenSCAD executable looked up in PATH
const DefaultBinary = "openscad"

// ErrNotInstalled is returned when the OpenSCAD executable cannot be found
var ErrNotInstalled = errors.New("openscad executable not found in PATH")

// use <x.scad> and include <x.scad> both pull in another file
var importPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer turns .scad sources into STL through the openscad CLI
type Renderer struct {
	workDir string
	binary  string
	log     zerolog.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithBinary selects the openscad executable. Empty keeps DefaultBinary.
func WithBinary(binary string) Option {
	return func(r *Renderer) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// NewRenderer creates a renderer that resolves relative paths against workDir
func NewRenderer(workDir string, opts ...Option) *Renderer {
	r := &Renderer{
		workDir: workDir,
		binary:  DefaultBinary,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL writes the STL export of scadFile to outputFile.
// Cancelling ctx kills the openscad process.
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	bin, err := exec.LookPath(r.binary)
	if err != nil {
		return fmt.Errorf("%w: %s (install from https://openscad.org/)", ErrNotInstalled, r.binary)
	}

	input := r.abs(scadFile)
	cmd := exec.CommandContext(ctx, bin, "-o", outputFile, input)
	cmd.Dir = r.workDir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	r.log.Debug().Str("binary", bin).Str("input", input).Str("output", outputFile).Msg("running openscad")
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("openscad %s: %w", scadFile, ctxErr)
		}
		if msg := strings.TrimSpace(output.String()); msg != "" {
			return fmt.Errorf("openscad %s: %w\n%s", scadFile, err, msg)
		}
		return fmt.Errorf("openscad %s: %w", scadFile, err)
	}
	r.log.Debug().Str("input", input).Dur("elapsed", time.Since(start)).Msg("openscad finished")
	return nil
}

// ResolveDependencies lists scadFile followed by every file it pulls in
// through use or include, transitively and without duplicates. All paths
// are absolute.
func (r *Renderer) ResolveDependencies(ctx context.Context, scadFile string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	var visit func(path string) error
	visit = func(path string) error {
		if seen[path] {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[path] = true
		files = append(files, path)

		imports, err := r.imports(path)
		if err != nil {
			return err
		}
		for _, imp := range imports {
			if err := visit(imp); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(r.abs(scadFile)); err != nil {
		return nil, err
	}
	r.log.Debug().Str("file", scadFile).Int("files", len(files)).Msg("resolved openscad dependencies")
	return files, nil
}

// imports scans one file for use and include statements
func (r *Renderer) imports(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := importPattern.FindStringSubmatch(line); m != nil {
			out = append(out, r.locate(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return out, nil
}

// locate finds an imported file. Explicitly relative names are taken from
// the importing file's directory. Bare names are looked up there first and
// fall back to the work directory.
func (r *Renderer) locate(name, dir string) string {
	local := filepath.Join(dir, name)
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Join(r.workDir, name)
}
