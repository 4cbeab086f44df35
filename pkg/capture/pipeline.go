package capture

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/philipparndt/modelsnap/pkg/loader"
	"github.com/philipparndt/modelsnap/pkg/normalize"
	"github.com/philipparndt/modelsnap/pkg/scene"
	"github.com/rs/zerolog"
)

// DefaultLoadTimeout bounds how long an invocation waits for its model
const DefaultLoadTimeout = 60 * time.Second

// Pipeline captures models. It holds no rendering state itself; each call
// to Start gets a fresh Session from the factory.
type Pipeline struct {
	loader     loader.Loader
	newSession SessionFactory
	timeout    time.Duration
	log        zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithTimeout bounds the asset load. Zero waits until the context is done.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = timeout
	}
}

// WithSessionFactory replaces the default rasterizer sessions
func WithSessionFactory(factory SessionFactory) Option {
	return func(p *Pipeline) {
		p.newSession = factory
	}
}

// New creates a Pipeline that loads models through l
func New(l loader.Loader, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:  l,
		timeout: DefaultLoadTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.newSession == nil {
		p.newSession = NewRasterSession(DefaultViewport, p.log)
	}
	return p
}

// Capture starts an invocation for ref and waits for its result
func (p *Pipeline) Capture(ctx context.Context, ref string) (*Snapshot, error) {
	return p.Start(ctx, ref).Future().Wait(ctx)
}

// Invocation is a single run of the pipeline
type Invocation struct {
	ref     string
	session *Session
	future  *Future
	state   atomic.Int32
	// loaded is claimed by the first load callback or by the timeout
	loaded atomic.Bool
	log    zerolog.Logger
}

// Start requests the model and returns immediately. The result is
// delivered through the invocation's Future.
func (p *Pipeline) Start(ctx context.Context, ref string) *Invocation {
	inv := &Invocation{
		ref:     ref,
		session: p.newSession(),
		future:  newFuture(),
		log:     p.log.With().Str("ref", ref).Logger(),
	}

	var (
		loadCtx context.Context
		cancel  context.CancelFunc
	)
	if p.timeout > 0 {
		loadCtx, cancel = context.WithTimeout(ctx, p.timeout)
	} else {
		loadCtx, cancel = context.WithCancel(ctx)
	}

	inv.setState(AssetLoading)
	go inv.watch(loadCtx, cancel)
	p.loader.Load(loadCtx, ref, inv.onLoad)
	return inv
}

// Ref returns the model reference
func (inv *Invocation) Ref() string {
	return inv.ref
}

// Future returns the one-shot result
func (inv *Invocation) Future() *Future {
	return inv.future
}

// Session returns the rendering state of this invocation
func (inv *Invocation) Session() *Session {
	return inv.session
}

// State returns the current stage
func (inv *Invocation) State() State {
	return State(inv.state.Load())
}

func (inv *Invocation) setState(s State) {
	inv.state.Store(int32(s))
	inv.log.Debug().Stringer("state", s).Msg("capture state")
}

// watch fails the invocation when the load context ends before the model arrived
func (inv *Invocation) watch(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	select {
	case <-inv.future.Done():
	case <-ctx.Done():
		if inv.loaded.CompareAndSwap(false, true) {
			inv.fail(&AssetLoadError{Ref: inv.ref, Err: ctx.Err()})
		}
	}
}

func (inv *Invocation) onLoad(model *scene.Node, err error) {
	if !inv.loaded.CompareAndSwap(false, true) {
		inv.log.Warn().Err(err).Msg("ignoring load callback, invocation already past loading")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			inv.fail(fmt.Errorf("capture of %s panicked: %v", inv.ref, r))
		}
	}()

	if err != nil {
		inv.fail(&AssetLoadError{Ref: inv.ref, Err: err})
		return
	}
	if model == nil {
		inv.fail(&AssetLoadError{Ref: inv.ref, Err: errors.New("loader returned no model")})
		return
	}

	inv.setState(Normalizing)
	result, err := normalize.Normalize(model, normalize.TargetMaxDimension, true)
	if err != nil {
		inv.fail(fmt.Errorf("failed to normalize %s: %w", inv.ref, err))
		return
	}
	result.Wrapper.Position.Y = normalize.FloorOffset
	inv.session.Add(result.Wrapper)

	inv.log.Debug().
		Float64("scale", result.ScaleFactor).
		Stringer("translation", result.Translation).
		Msg("normalized model")

	inv.setState(Rendering)
	data, err := inv.session.Capture()
	if err != nil {
		inv.fail(err)
		return
	}

	width, height := inv.session.Renderer.Size()
	snapshot := &Snapshot{
		Ref:           inv.ref,
		PNG:           data,
		Width:         width,
		Height:        height,
		Normalization: result,
	}

	inv.setState(Resolved)
	if err := inv.future.Resolve(snapshot); err != nil {
		inv.log.Warn().Err(err).Msg("snapshot not delivered")
		return
	}
	inv.log.Info().Int("bytes", len(data)).Msg("captured snapshot")
}

func (inv *Invocation) fail(err error) {
	inv.setState(Failed)
	if rejectErr := inv.future.Reject(err); rejectErr != nil {
		inv.log.Warn().Err(err).Msg("failure not delivered, result already completed")
		return
	}
	inv.log.Error().Err(err).Msg("capture failed")
}
