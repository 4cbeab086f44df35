// Package loader turns a model reference (a local path or an http(s) URL)
// into a scene graph subtree.
package loader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/philipparndt/modelsnap/pkg/openscad"
	"github.com/philipparndt/modelsnap/pkg/scene"
	"github.com/rs/zerolog"
)

// Loader loads models asynchronously. Load returns immediately; done is
// called once the model is available or loading failed.
type Loader interface {
	Load(ctx context.Context, ref string, done func(*scene.Node, error))
}

// Func adapts a function to the Loader interface
type Func func(ctx context.Context, ref string, done func(*scene.Node, error))

// Load calls f
func (f Func) Load(ctx context.Context, ref string, done func(*scene.Node, error)) {
	f(ctx, ref, done)
}

// Registry is the default Loader. It fetches the reference, detects its
// format and dispatches to the matching decoder.
type Registry struct {
	client   *http.Client
	openSCAD string
	simplify float64
	log      zerolog.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithHTTPClient sets the client used for http(s) references
func WithHTTPClient(client *http.Client) Option {
	return func(r *Registry) {
		r.client = client
	}
}

// WithOpenSCAD sets the OpenSCAD executable used for .scad models
func WithOpenSCAD(binary string) Option {
	return func(r *Registry) {
		r.openSCAD = binary
	}
}

// WithSimplify decimates loaded meshes to factor of their triangles
func WithSimplify(factor float64) Option {
	return func(r *Registry) {
		r.simplify = factor
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// New creates a Registry
func New(opts ...Option) *Registry {
	r := &Registry{
		client:   &http.Client{Timeout: 60 * time.Second},
		openSCAD: openscad.DefaultBinary,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load implements Loader by running Open on its own goroutine
func (r *Registry) Load(ctx context.Context, ref string, done func(*scene.Node, error)) {
	go func() {
		node, err := r.Open(ctx, ref)
		done(node, err)
	}()
}

// Open loads ref synchronously
func (r *Registry) Open(ctx context.Context, ref string) (*scene.Node, error) {
	start := time.Now()

	src, err := r.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	format := Detect(src.name, src.data)
	r.log.Debug().Str("ref", ref).Stringer("format", format).Int("bytes", len(src.data)).Msg("fetched model")

	var node *scene.Node
	switch format {
	case FormatGLB, FormatGLTF:
		node, err = decodeGLTF(src)
	case FormatSTL:
		node, err = decodeSTL(src)
	case FormatOBJ:
		node, err = decodeOBJ(src)
	case FormatSCAD:
		node, err = r.decodeSCAD(ctx, src)
	default:
		return nil, fmt.Errorf("unsupported model format for %s", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ref, err)
	}

	if r.simplify > 0 && r.simplify < 1 {
		Simplify(node, r.simplify)
	}

	r.log.Debug().Str("ref", ref).Dur("elapsed", time.Since(start)).Msg("decoded model")
	return node, nil
}
