package capture

import (
	"context"
	"sync/atomic"
)

// Future is a one-shot result. The first Resolve or Reject wins; every
// later completion returns ErrAlreadyCompleted and changes nothing.
type Future struct {
	completed atomic.Bool
	done      chan struct{}
	snapshot  *Snapshot
	err       error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve completes the future with a snapshot
func (f *Future) Resolve(s *Snapshot) error {
	return f.complete(s, nil)
}

// Reject completes the future with an error
func (f *Future) Reject(err error) error {
	return f.complete(nil, err)
}

func (f *Future) complete(s *Snapshot, err error) error {
	if !f.completed.CompareAndSwap(false, true) {
		return ErrAlreadyCompleted
	}
	f.snapshot = s
	f.err = err
	close(f.done)
	return nil
}

// Done is closed once the future is completed
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Completed reports whether the result is available
func (f *Future) Completed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future completes or ctx is done
func (f *Future) Wait(ctx context.Context) (*Snapshot, error) {
	select {
	case <-f.done:
		return f.snapshot, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
