// Package initgate provides a run-once construction gate that memoizes its
// outcome and exposes the construction state without locking.
package initgate

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrBuildPanicked is the memoized error of a gate whose build function
// panicked. The panic itself propagates to the winning caller.
var ErrBuildPanicked = errors.New("initgate: build panicked")

// State is the lifecycle position of a Gate.
type State uint32

const (
	// Unconstructed means no caller has entered the gate yet.
	Unconstructed State = iota

	// Constructing means the winning caller is running the build function.
	Constructing

	// Ready is terminal: the build function succeeded.
	Ready

	// Unsupported is terminal: the build function returned an error.
	Unsupported
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Unconstructed:
		return "unconstructed"
	case Constructing:
		return "constructing"
	case Ready:
		return "ready"
	case Unsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// Gate runs a build function at most once and hands every caller the same
// result. The zero value is ready to use. A Gate must not be copied after
// first use.
type Gate[T any] struct {
	once  sync.Once
	state atomic.Uint32
	value T
	err   error
}

// Do runs build if no caller has done so yet. Concurrent callers block until
// the winner finishes, then all observe the memoized value and error.
func (g *Gate[T]) Do(build func() (T, error)) (T, error) {
	g.once.Do(func() {
		g.state.Store(uint32(Constructing))
		defer func() {
			if r := recover(); r != nil {
				var zero T
				g.value, g.err = zero, fmt.Errorf("%w: %v", ErrBuildPanicked, r)
				g.state.Store(uint32(Unsupported))
				panic(r)
			}
		}()
		g.value, g.err = build()
		if g.err != nil {
			g.state.Store(uint32(Unsupported))
			return
		}
		g.state.Store(uint32(Ready))
	})

	return g.value, g.err
}

// State reports the current lifecycle state.
func (g *Gate[T]) State() State {
	return State(g.state.Load())
}
