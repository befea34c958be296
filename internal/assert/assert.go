// Package assert holds fail fast checks for preconditions the store does not
// enforce on its own.
package assert

import (
	"sync/atomic"

	"github.com/rotisserie/eris"
)

var ErrConcurrentWriter = eris.New("concurrent writer detected")

// WriterGuard detects overlapping mutations of the same storage. It is a debug
// aid only: two writers that never overlap in time are not detected.
type WriterGuard struct {
	enabled bool
	name    string

	active atomic.Int32
}

func NewWriterGuard(name string, enabled bool) *WriterGuard {
	return &WriterGuard{name: name, enabled: enabled}
}

// Enter marks the start of a mutation. The returned function must be called once
// the mutation has finished.
func (g *WriterGuard) Enter() func() {
	if !g.enabled {
		return noop
	}

	if !g.active.CompareAndSwap(0, 1) {
		panic(eris.Wrapf(ErrConcurrentWriter, "storage %q", g.name))
	}

	return g.leave
}

func (g *WriterGuard) leave() {
	g.active.Store(0)
}

func noop() {}
