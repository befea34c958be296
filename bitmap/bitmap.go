// Package bitmap provides an indicator index over entity ids.
//
// A Bitmap maps every entity id to a boolean. Ids that were never set
// explicitly report the default value of the bitmap, so a bitmap can describe
// "all entities except these" without knowing how many entities exist.
// Internally only the exceptions to the default are stored.
package bitmap

import (
	"fmt"
	"iter"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/willf/bitset"
)

type Bitmap struct {
	def bool

	// ids whose value differs from def
	exceptions *bitset.BitSet
}

// New creates an empty bitmap that reports defaultValue for every id.
func New(defaultValue bool) *Bitmap {
	return &Bitmap{
		def:        defaultValue,
		exceptions: bitset.New(0),
	}
}

// Get returns the value stored for id, or the default value if id was never set.
func (b *Bitmap) Get(id entity.Id) bool {
	return b.def != b.exceptions.Test(uint(id))
}

// Set stores value for id. Storing the default value drops the explicit entry.
func (b *Bitmap) Set(id entity.Id, value bool) {
	if value == b.def {
		// nothing to clear if the id is beyond the current length
		if uint(id) < b.exceptions.Len() {
			b.exceptions.Clear(uint(id))
		}

		return
	}

	b.exceptions.Set(uint(id))
}

// DefaultValue returns the value reported for ids that were never set.
func (b *Bitmap) DefaultValue() bool {
	return b.def
}

// Size returns one past the highest id ever stored explicitly.
func (b *Bitmap) Size() int {
	return int(b.exceptions.Len())
}

// Exceptions returns the number of ids whose value differs from the default.
func (b *Bitmap) Exceptions() int {
	return int(b.exceptions.Count())
}

// Count returns the number of true ids below ceiling.
func (b *Bitmap) Count(ceiling entity.Id) int {
	if !b.def {
		return int(b.exceptions.Count())
	}

	var count int
	for range b.All(ceiling) {
		count++
	}

	return count
}

// Clone returns an independent copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		def:        b.def,
		exceptions: b.exceptions.Clone(),
	}
}

// And returns the entity wise logical AND of both bitmaps.
// The default of the result is the AND of both defaults.
func (b *Bitmap) And(other *Bitmap) *Bitmap {
	switch {
	case !b.def && !other.def:
		// exceptions are the true values on both sides
		return &Bitmap{def: false, exceptions: b.exceptions.Intersection(other.exceptions)}

	case !b.def && other.def:
		// true in b and not an exception (false) in other
		return &Bitmap{def: false, exceptions: b.exceptions.Difference(other.exceptions)}

	case b.def && !other.def:
		return &Bitmap{def: false, exceptions: other.exceptions.Difference(b.exceptions)}

	default:
		// exceptions are the false values, an id is false if it is false on either side
		return &Bitmap{def: true, exceptions: b.exceptions.Union(other.exceptions)}
	}
}

// Or returns the entity wise logical OR of both bitmaps.
// The default of the result is the OR of both defaults.
func (b *Bitmap) Or(other *Bitmap) *Bitmap {
	switch {
	case !b.def && !other.def:
		return &Bitmap{def: false, exceptions: b.exceptions.Union(other.exceptions)}

	case !b.def && other.def:
		// false only where other is false and b is not true
		return &Bitmap{def: true, exceptions: other.exceptions.Difference(b.exceptions)}

	case b.def && !other.def:
		return &Bitmap{def: true, exceptions: b.exceptions.Difference(other.exceptions)}

	default:
		return &Bitmap{def: true, exceptions: b.exceptions.Intersection(other.exceptions)}
	}
}

// Not returns the entity wise negation of the bitmap.
func (b *Bitmap) Not() *Bitmap {
	return &Bitmap{
		def:        !b.def,
		exceptions: b.exceptions.Clone(),
	}
}

// Equal reports whether both bitmaps hold the same value for every id.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b.def != other.def {
		return false
	}

	return b.exceptions.Count() == other.exceptions.Count() &&
		b.exceptions.Intersection(other.exceptions).Count() == b.exceptions.Count()
}

// All returns an iterator over every id for which Get returns true.
//
// If the default value is false, only the explicitly stored ids are visited and the
// ceiling is ignored. If the default value is true, every id in [0, max(ceiling, Size()))
// that is not an exception is visited.
func (b *Bitmap) All(ceiling entity.Id) iter.Seq[entity.Id] {
	return func(yield func(entity.Id) bool) {
		if !b.def {
			for idx, ok := b.exceptions.NextSet(0); ok; idx, ok = b.exceptions.NextSet(idx + 1) {
				if !yield(entity.Id(idx)) {
					return
				}
			}

			return
		}

		end := max(uint(ceiling), b.exceptions.Len())
		for idx := uint(0); idx < end; idx++ {
			if b.exceptions.Test(idx) {
				continue
			}

			if !yield(entity.Id(idx)) {
				return
			}
		}
	}
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("bitmap(default=%v, exceptions=%d)", b.def, b.exceptions.Count())
}
