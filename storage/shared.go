package storage

import (
	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/internal/assert"
	"github.com/oliverbestmann/kindstore/rewind"
)

// Shared stores immutable handles in a rewind.Map. Writes become visible to
// readers with the next Commit. Handles are never written to after insertion,
// Update always stores a fresh handle.
type Shared[T any] struct {
	name   string
	values *rewind.Map[*T]
	guard  *assert.WriterGuard
}

var _ Versioned[int] = &Shared[int]{}
var _ Handles[int] = &Shared[int]{}

func NewShared[T any](config Config) *Shared[T] {
	return &Shared[T]{
		name:   config.Name,
		values: rewind.New[*T](config.HistoryDepth),
		guard:  config.guard(),
	}
}

func (s *Shared[T]) Name() string {
	return s.name
}

func (s *Shared[T]) Strategy() Strategy {
	return StrategyShared
}

func (s *Shared[T]) Has(e entity.Id) bool {
	return s.values.Has(e)
}

func (s *Shared[T]) Get(e entity.Id) T {
	return *s.GetConstHandle(e)
}

func (s *Shared[T]) Lookup(e entity.Id) (T, bool) {
	handle, ok := s.values.Get(e)
	if !ok {
		var zero T
		return zero, false
	}

	return *handle, true
}

// GetConstHandle returns the committed handle of e. The value behind the handle must not be modified.
func (s *Shared[T]) GetConstHandle(e entity.Id) *T {
	handle, ok := s.values.Get(e)
	if !ok {
		panic(absent(s.name, e))
	}

	return handle
}

func (s *Shared[T]) Insert(e entity.Id, value T) {
	s.InsertHandle(e, &value)
}

func (s *Shared[T]) InsertHandle(e entity.Id, handle *T) {
	if handle == nil {
		panic("handle must not be nil")
	}

	defer s.guard.Enter()()
	s.values.Insert(e, handle)
}

// Update replaces the value of e in the working generation. The entity must either be
// committed or inserted in the current working generation.
func (s *Shared[T]) Update(e entity.Id, value T) {
	defer s.guard.Enter()()

	if _, ok := s.values.Pending(e); !ok {
		panic(absent(s.name, e))
	}

	s.values.Update(e, &value)
}

// Pending returns the value of e as it will be visible after the next commit.
func (s *Shared[T]) Pending(e entity.Id) (T, bool) {
	handle, ok := s.values.Pending(e)
	if !ok {
		var zero T
		return zero, false
	}

	return *handle, true
}

// Remove marks e as absent starting with the next commit.
func (s *Shared[T]) Remove(e entity.Id) {
	defer s.guard.Enter()()
	s.values.Remove(e)
}

func (s *Shared[T]) Commit(frame rewind.Frame) {
	defer s.guard.Enter()()
	s.values.Commit(frame)
}

func (s *Shared[T]) Frame() (rewind.Frame, bool) {
	return s.values.Frame()
}

// Bitmap returns the presence bitmap of the last commit.
func (s *Shared[T]) Bitmap() *bitmap.Bitmap {
	return s.values.Bitmap()
}

func (s *Shared[T]) Len() int {
	return s.values.Len()
}

func (s *Shared[T]) LastPositiveCommit() (rewind.Frame, map[entity.Id]T) {
	generation := s.values.LastPositiveCommit()
	if generation == nil {
		return 0, map[entity.Id]T{}
	}

	return generation.Frame, derefValues(generation.Values)
}

func (s *Shared[T]) LastPositiveBitmap() *bitmap.Bitmap {
	generation := s.values.LastPositiveCommit()
	if generation == nil {
		return bitmap.New(false)
	}

	return generation.Touched
}

func (s *Shared[T]) Generation(frame rewind.Frame) (map[entity.Id]T, bool) {
	generation, ok := s.values.Generation(frame)
	if !ok {
		return nil, false
	}

	return derefValues(generation.Values), true
}

// Discard drops all writes since the last commit.
func (s *Shared[T]) Discard() {
	defer s.guard.Enter()()
	s.values.Discard()
}

func (s *Shared[T]) View() Reader[T] {
	return sharedView[T]{name: s.name, snapshot: s.values.Snapshot()}
}

// Snapshot returns the published state. Use it to perform multiple reads
// against the same commit.
func (s *Shared[T]) Snapshot() *rewind.Snapshot[*T] {
	return s.values.Snapshot()
}

func derefValues[T any](handles map[entity.Id]*T) map[entity.Id]T {
	values := make(map[entity.Id]T, len(handles))
	for e, handle := range handles {
		values[e] = *handle
	}

	return values
}

// sharedView reads from a single published snapshot.
type sharedView[T any] struct {
	name     string
	snapshot *rewind.Snapshot[*T]
}

func (v sharedView[T]) Bitmap() *bitmap.Bitmap {
	return v.snapshot.Bitmap()
}

func (v sharedView[T]) Get(e entity.Id) T {
	handle, ok := v.snapshot.Get(e)
	if !ok {
		panic(absent(v.name, e))
	}

	return *handle
}

func (v sharedView[T]) Lookup(e entity.Id) (T, bool) {
	handle, ok := v.snapshot.Get(e)
	if !ok {
		var zero T
		return zero, false
	}

	return *handle, true
}
