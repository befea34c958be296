package storage

import (
	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/internal/assert"
)

// Bool is the Value strategy for boolean kinds. The bitmap is the storage:
// an entity has the component exactly if its value is true, and there is no
// absent state distinct from false.
type Bool struct {
	name   string
	bitmap *bitmap.Bitmap
	guard  *assert.WriterGuard
}

var _ Store[bool] = &Bool{}

func NewBool(config Config) *Bool {
	return &Bool{
		name:   config.Name,
		bitmap: bitmap.New(config.Default),
		guard:  config.guard(),
	}
}

func (s *Bool) Name() string {
	return s.name
}

func (s *Bool) Strategy() Strategy {
	return StrategyValue
}

func (s *Bool) Has(e entity.Id) bool {
	return s.bitmap.Get(e)
}

// Get returns the bit of e. It never panics.
func (s *Bool) Get(e entity.Id) bool {
	return s.bitmap.Get(e)
}

func (s *Bool) Lookup(e entity.Id) (bool, bool) {
	value := s.bitmap.Get(e)
	return value, value
}

func (s *Bool) Insert(e entity.Id, value bool) {
	s.Update(e, value)
}

func (s *Bool) Update(e entity.Id, value bool) {
	defer s.guard.Enter()()
	s.bitmap.Set(e, value)
}

// Remove sets the bit of e to false.
func (s *Bool) Remove(e entity.Id) {
	s.Update(e, false)
}

func (s *Bool) Bitmap() *bitmap.Bitmap {
	return s.bitmap
}

// Len returns the number of entities whose bit differs from the default.
func (s *Bool) Len() int {
	return s.bitmap.Exceptions()
}
