package storage

import (
	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/internal/assert"
)

// Exclusive stores each value behind a handle owned by the storage.
type Exclusive[T any] struct {
	name    string
	handles map[entity.Id]*T
	bitmap  *bitmap.Bitmap
	guard   *assert.WriterGuard
}

var _ Handles[int] = &Exclusive[int]{}

func NewExclusive[T any](config Config) *Exclusive[T] {
	return &Exclusive[T]{
		name:    config.Name,
		handles: map[entity.Id]*T{},
		bitmap:  bitmap.New(false),
		guard:   config.guard(),
	}
}

func (s *Exclusive[T]) Name() string {
	return s.name
}

func (s *Exclusive[T]) Strategy() Strategy {
	return StrategyExclusive
}

func (s *Exclusive[T]) Has(e entity.Id) bool {
	return s.bitmap.Get(e)
}

func (s *Exclusive[T]) Get(e entity.Id) T {
	return *s.GetHandle(e)
}

func (s *Exclusive[T]) Lookup(e entity.Id) (T, bool) {
	handle, ok := s.handles[e]
	if !ok {
		var zero T
		return zero, false
	}

	return *handle, true
}

// GetHandle returns the handle of e. Changes made through the handle are visible
// to every kind the handle was inserted into.
func (s *Exclusive[T]) GetHandle(e entity.Id) *T {
	handle, ok := s.handles[e]
	if !ok {
		panic(absent(s.name, e))
	}

	return handle
}

func (s *Exclusive[T]) GetConstHandle(e entity.Id) *T {
	return s.GetHandle(e)
}

func (s *Exclusive[T]) Insert(e entity.Id, value T) {
	s.InsertHandle(e, &value)
}

func (s *Exclusive[T]) InsertHandle(e entity.Id, handle *T) {
	if handle == nil {
		panic("handle must not be nil")
	}

	defer s.guard.Enter()()

	s.handles[e] = handle
	s.bitmap.Set(e, true)
}

// Update replaces the handle of e with a new one holding value. Handles obtained
// before keep the previous value.
func (s *Exclusive[T]) Update(e entity.Id, value T) {
	defer s.guard.Enter()()

	if _, ok := s.handles[e]; !ok {
		panic(absent(s.name, e))
	}

	s.handles[e] = &value
}

func (s *Exclusive[T]) Remove(e entity.Id) {
	defer s.guard.Enter()()

	delete(s.handles, e)
	s.bitmap.Set(e, false)
}

func (s *Exclusive[T]) Bitmap() *bitmap.Bitmap {
	return s.bitmap
}

func (s *Exclusive[T]) Len() int {
	return len(s.handles)
}
