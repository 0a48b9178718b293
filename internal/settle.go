package internal

import (
	"context"
	"sync"
)

// Settler records the outcome of an asynchronous operation exactly once.
// The first call to Settle wins; later calls are ignored.
type Settler struct {
	once sync.Once
	err  error
	done chan struct{}
}

// NewSettler creates an unsettled Settler ready for use.
func NewSettler() *Settler {
	return &Settler{
		done: make(chan struct{}),
	}
}

// Settle records err as the outcome (nil for success) if none has been
// recorded yet. It reports whether this call settled the operation.
func (s *Settler) Settle(err error) bool {
	settled := false
	s.once.Do(func() {
		s.err = err
		close(s.done)
		settled = true
	})
	return settled
}

// Done is closed once the outcome is recorded.
func (s *Settler) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the operation settles or ctx is done.
func (s *Settler) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the recorded outcome, or nil while unsettled.
// This can be called to check the outcome without blocking.
func (s *Settler) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// IsSettled returns true once an outcome has been recorded.
func (s *Settler) IsSettled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
