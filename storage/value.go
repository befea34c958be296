package storage

import (
	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/internal/assert"
)

// Value stores values inline next to a presence bitmap.
type Value[T any] struct {
	name   string
	values map[entity.Id]T
	bitmap *bitmap.Bitmap
	guard  *assert.WriterGuard
}

var _ Store[int] = &Value[int]{}

func NewValue[T any](config Config) *Value[T] {
	return &Value[T]{
		name:   config.Name,
		values: map[entity.Id]T{},
		bitmap: bitmap.New(false),
		guard:  config.guard(),
	}
}

func (s *Value[T]) Name() string {
	return s.name
}

func (s *Value[T]) Strategy() Strategy {
	return StrategyValue
}

func (s *Value[T]) Has(e entity.Id) bool {
	return s.bitmap.Get(e)
}

func (s *Value[T]) Get(e entity.Id) T {
	value, ok := s.values[e]
	if !ok {
		panic(absent(s.name, e))
	}

	return value
}

func (s *Value[T]) Lookup(e entity.Id) (T, bool) {
	value, ok := s.values[e]
	return value, ok
}

func (s *Value[T]) Insert(e entity.Id, value T) {
	defer s.guard.Enter()()

	s.values[e] = value
	s.bitmap.Set(e, true)
}

func (s *Value[T]) Update(e entity.Id, value T) {
	defer s.guard.Enter()()

	if _, ok := s.values[e]; !ok {
		panic(absent(s.name, e))
	}

	s.values[e] = value
}

func (s *Value[T]) Remove(e entity.Id) {
	defer s.guard.Enter()()

	delete(s.values, e)
	s.bitmap.Set(e, false)
}

func (s *Value[T]) Bitmap() *bitmap.Bitmap {
	return s.bitmap
}

func (s *Value[T]) Len() int {
	return len(s.values)
}
