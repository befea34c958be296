// Package rewind implements a map from entity id to value with a bounded history
// of committed generations.
//
// Writes go into a private working generation. Commit seals the working generation
// under a frame tag and publishes a new immutable snapshot with a single atomic
// pointer swap. Readers on other goroutines always observe either the previous or
// the new snapshot, never a partially applied commit.
//
// A Map supports exactly one writer at a time. Readers need no coordination.
package rewind

import (
	"fmt"
	"maps"
	"sync/atomic"

	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/internal/set"
	"github.com/rotisserie/eris"
)

// Frame identifies one simulation tick. Frames passed to Commit must be strictly increasing.
type Frame uint64

func (f Frame) String() string {
	return fmt.Sprintf("frame#%d", uint64(f))
}

// DefaultDepth is the number of sealed generations a Map retains if not configured otherwise.
const DefaultDepth = 30

var ErrNonMonotonicFrame = eris.New("commit frame is not strictly increasing")

// Generation is a sealed commit. It must not be modified.
type Generation[V any] struct {
	Frame Frame

	// Values holds the values inserted or updated in this commit.
	Values map[entity.Id]V

	// Touched marks exactly the ids in Values.
	Touched *bitmap.Bitmap

	// Removed marks the ids removed in this commit.
	Removed *bitmap.Bitmap
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

type Map[V any] struct {
	_ noCopy

	depth     int
	published atomic.Pointer[Snapshot[V]]

	// the working generation, only touched by the writer
	pending map[entity.Id]V
	touched *bitmap.Bitmap
	removed set.Set[entity.Id]
}

// New creates an empty map retaining up to depth sealed generations.
// A depth below one uses DefaultDepth.
func New[V any](depth int) *Map[V] {
	if depth < 1 {
		depth = DefaultDepth
	}

	m := &Map[V]{
		depth:   depth,
		pending: map[entity.Id]V{},
		touched: bitmap.New(false),
	}

	m.published.Store(&Snapshot[V]{
		current: map[entity.Id]V{},
		bitmap:  bitmap.New(false),
	})

	return m
}

// Depth returns the maximum number of retained generations.
func (m *Map[V]) Depth() int {
	return m.depth
}

// Insert stores value for id in the working generation.
func (m *Map[V]) Insert(id entity.Id, value V) {
	m.pending[id] = value
	m.touched.Set(id, true)
	m.removed.Remove(id)
}

// Update stores value for id in the working generation. Within one generation the
// last write wins.
func (m *Map[V]) Update(id entity.Id, value V) {
	m.Insert(id, value)
}

// Remove drops id from the working generation. If id is part of the published
// state it will be absent after the next Commit. Sealed generations are not changed.
func (m *Map[V]) Remove(id entity.Id) {
	if _, ok := m.pending[id]; ok {
		delete(m.pending, id)
		m.touched.Set(id, false)
	}

	if m.published.Load().Has(id) {
		m.removed.Insert(id)
	}
}

// Pending returns the value of id as it will be visible after the next Commit.
// This is meant for the writer, readers should use Get.
func (m *Map[V]) Pending(id entity.Id) (V, bool) {
	if value, ok := m.pending[id]; ok {
		return value, true
	}

	if m.removed.Has(id) {
		var zero V
		return zero, false
	}

	return m.published.Load().Get(id)
}

// Discard drops the working generation. The published state is not changed.
func (m *Map[V]) Discard() {
	m.pending = map[entity.Id]V{}
	m.touched = bitmap.New(false)
	m.removed.Reset()
}

// Dirty reports if the working generation holds any change.
func (m *Map[V]) Dirty() bool {
	return len(m.pending) > 0 || m.removed.Len() > 0
}

// Commit seals the working generation under frame, publishes the resulting
// snapshot and opens a new, empty working generation. The oldest generation is
// dropped once more than Depth generations are retained.
//
// Commit panics with ErrNonMonotonicFrame if frame is not larger than the frame
// of the previous commit.
func (m *Map[V]) Commit(frame Frame) *Generation[V] {
	prev := m.published.Load()

	if prev.committed && frame <= prev.frame {
		panic(eris.Wrapf(ErrNonMonotonicFrame, "commit of %s after %s", frame, prev.frame))
	}

	removed := bitmap.New(false)

	current := maps.Clone(prev.current)
	presence := prev.bitmap.Clone()

	for _, id := range m.removed.Sorted() {
		delete(current, id)
		presence.Set(id, false)
		removed.Set(id, true)
	}

	for id, value := range m.pending {
		current[id] = value
		presence.Set(id, true)
	}

	generation := &Generation[V]{
		Frame:   frame,
		Values:  m.pending,
		Touched: m.touched,
		Removed: removed,
	}

	// never append to the previous slice, readers might still hold it
	retained := prev.history[max(0, len(prev.history)+1-m.depth):]
	history := make([]*Generation[V], 0, len(retained)+1)
	history = append(history, retained...)
	history = append(history, generation)

	m.published.Store(&Snapshot[V]{
		frame:     frame,
		committed: true,
		current:   current,
		bitmap:    presence,
		history:   history,
	})

	// open a new working generation. the old maps now belong to the generation
	m.pending = map[entity.Id]V{}
	m.touched = bitmap.New(false)
	m.removed.Reset()

	return generation
}

// Snapshot returns the currently published state. The snapshot stays valid and
// unchanged for as long as the caller holds it.
func (m *Map[V]) Snapshot() *Snapshot[V] {
	return m.published.Load()
}

func (m *Map[V]) Get(id entity.Id) (V, bool) {
	return m.published.Load().Get(id)
}

func (m *Map[V]) Has(id entity.Id) bool {
	return m.published.Load().Has(id)
}

// Bitmap returns the presence of all ids in the published state.
// The returned bitmap is shared and must not be modified.
func (m *Map[V]) Bitmap() *bitmap.Bitmap {
	return m.published.Load().Bitmap()
}

func (m *Map[V]) Len() int {
	return m.published.Load().Len()
}

// Frame returns the frame of the last commit.
func (m *Map[V]) Frame() (Frame, bool) {
	snapshot := m.published.Load()
	return snapshot.frame, snapshot.committed
}

// LastPositiveCommit returns the generation sealed by the last Commit,
// or nil if Commit was never called.
func (m *Map[V]) LastPositiveCommit() *Generation[V] {
	return m.published.Load().Last()
}

// Generation returns the retained generation sealed under frame.
func (m *Map[V]) Generation(frame Frame) (*Generation[V], bool) {
	return m.published.Load().Generation(frame)
}

// Snapshot is an immutable published state of a Map.
type Snapshot[V any] struct {
	frame     Frame
	committed bool

	current map[entity.Id]V
	bitmap  *bitmap.Bitmap

	// oldest first
	history []*Generation[V]
}

func (s *Snapshot[V]) Frame() Frame {
	return s.frame
}

func (s *Snapshot[V]) Get(id entity.Id) (V, bool) {
	value, ok := s.current[id]
	return value, ok
}

func (s *Snapshot[V]) Has(id entity.Id) bool {
	_, ok := s.current[id]
	return ok
}

// Bitmap returns the cumulative presence bitmap. It must not be modified.
func (s *Snapshot[V]) Bitmap() *bitmap.Bitmap {
	return s.bitmap
}

func (s *Snapshot[V]) Len() int {
	return len(s.current)
}

// Last returns the most recently sealed generation, or nil.
func (s *Snapshot[V]) Last() *Generation[V] {
	if len(s.history) == 0 {
		return nil
	}

	return s.history[len(s.history)-1]
}

// Generation returns the retained generation sealed under frame.
func (s *Snapshot[V]) Generation(frame Frame) (*Generation[V], bool) {
	// frames are strictly increasing, search from the newest one
	for idx := len(s.history) - 1; idx >= 0; idx-- {
		generation := s.history[idx]

		switch {
		case generation.Frame == frame:
			return generation, true

		case generation.Frame < frame:
			return nil, false
		}
	}

	return nil, false
}

// Frames returns the frames of all retained generations, oldest first.
func (s *Snapshot[V]) Frames() []Frame {
	frames := make([]Frame, 0, len(s.history))
	for _, generation := range s.history {
		frames = append(frames, generation.Frame)
	}

	return frames
}
