// Package storage implements the storage strategies backing a component kind.
//
//   - Exclusive keeps each value behind its own handle (*T) with a single logical writer.
//   - Value keeps values inline. Bool is the Value strategy for boolean kinds, where
//     the bitmap itself is the storage.
//   - Shared routes all writes through a rewind.Map, so that readers on other
//     goroutines see a consistent committed frame while the writer prepares the next one.
//
// Exclusive, Value and Bool storages must not be mutated while being read from another
// goroutine. Shared storages may be read at any time from any goroutine.
package storage

import (
	"fmt"

	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/internal/assert"
	"github.com/oliverbestmann/kindstore/rewind"
	"github.com/rotisserie/eris"
)

// ErrAbsentEntity is raised when reading or updating a value for an entity that
// does not have the component.
var ErrAbsentEntity = eris.New("entity does not have the component")

type Strategy uint8

const (
	StrategyExclusive Strategy = iota + 1
	StrategyValue
	StrategyShared
)

func (s Strategy) String() string {
	switch s {
	case StrategyExclusive:
		return "exclusive"
	case StrategyValue:
		return "value"
	case StrategyShared:
		return "shared"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// Config configures a new storage.
type Config struct {
	// Name is used in log messages and errors.
	Name string

	// HistoryDepth is the number of sealed generations a Shared storage retains.
	HistoryDepth int

	// Default is the value reported by a Bool storage for entities that were never set.
	Default bool

	// CheckWriters enables detection of overlapping writers.
	CheckWriters bool
}

func (c Config) guard() *assert.WriterGuard {
	return assert.NewWriterGuard(c.Name, c.CheckWriters)
}

// Container is the type erased view on a storage.
type Container interface {
	Name() string
	Strategy() Strategy

	Has(e entity.Id) bool
	Remove(e entity.Id)

	// Bitmap returns the presence bitmap of the storage. It must not be modified.
	Bitmap() *bitmap.Bitmap

	// Len returns the number of entities explicitly stored.
	Len() int
}

// Reader is the read side of a storage.
type Reader[T any] interface {
	Bitmap() *bitmap.Bitmap

	// Get returns the value of e. It panics with ErrAbsentEntity if e does not have the component.
	Get(e entity.Id) T
	Lookup(e entity.Id) (T, bool)
}

// View returns a Reader on store. For a versioned store the reader is pinned to the
// currently published commit, so the bitmap and the values always belong to the
// same frame. Other stores are returned as is.
func View[T any](store Store[T]) Reader[T] {
	if versioned, ok := store.(Versioned[T]); ok {
		return versioned.View()
	}

	return store
}

// Store is the typed contract all strategies implement.
type Store[T any] interface {
	Container
	Reader[T]

	// Insert stores value for e, replacing a previous value.
	Insert(e entity.Id, value T)

	// Update replaces the value of e. It panics with ErrAbsentEntity if e does not have the component.
	Update(e entity.Id, value T)
}

// Committer is implemented by versioned storages.
type Committer interface {
	Container
	Commit(frame rewind.Frame)
	Frame() (rewind.Frame, bool)

	// Discard drops all writes since the last commit.
	Discard()
}

// Versioned is the contract of the Shared strategy.
type Versioned[T any] interface {
	Store[T]
	Committer

	// LastPositiveCommit returns the values written in the last commit.
	LastPositiveCommit() (rewind.Frame, map[entity.Id]T)

	// LastPositiveBitmap marks the entities written in the last commit.
	LastPositiveBitmap() *bitmap.Bitmap

	// Generation returns the values written in the retained commit of the given frame.
	Generation(frame rewind.Frame) (map[entity.Id]T, bool)

	// View returns a Reader pinned to the currently published commit.
	View() Reader[T]
}

// Handles is implemented by strategies that keep values behind a handle. Handles can be
// inserted into another storage to share one value between two kinds.
type Handles[T any] interface {
	Store[T]

	GetConstHandle(e entity.Id) *T
	InsertHandle(e entity.Id, handle *T)
}

func absent(name string, e entity.Id) error {
	return eris.Wrapf(ErrAbsentEntity, "component %q of entity %s", name, e)
}
