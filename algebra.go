package kindstore

import (
	"cmp"

	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/storage"
)

// Number is the constraint of the bulk arithmetic operations.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Filter returns a bitmap of all entities having kind for which pred returns true.
func Filter[T any](w *World, kind Kind[T], pred func(T) bool) *bitmap.Bitmap {
	store := storage.View(StoreOf(w, kind))

	result := bitmap.New(false)
	for e := range store.Bitmap().All(w.options.EntityCeiling) {
		if pred(store.Get(e)) {
			result.Set(e, true)
		}
	}

	return result
}

// FilterKinds returns a bitmap of all entities having both kinds for which
// pred returns true.
func FilterKinds[A, B any](w *World, a Kind[A], b Kind[B], pred func(A, B) bool) *bitmap.Bitmap {
	storeA := storage.View(StoreOf(w, a))
	storeB := storage.View(StoreOf(w, b))

	both := storeA.Bitmap().And(storeB.Bitmap())

	result := bitmap.New(false)
	for e := range both.All(w.options.EntityCeiling) {
		if pred(storeA.Get(e), storeB.Get(e)) {
			result.Set(e, true)
		}
	}

	return result
}

func Lower[T cmp.Ordered](w *World, kind Kind[T], value T) *bitmap.Bitmap {
	return Filter(w, kind, func(v T) bool { return v < value })
}

func LowerOrEqual[T cmp.Ordered](w *World, kind Kind[T], value T) *bitmap.Bitmap {
	return Filter(w, kind, func(v T) bool { return v <= value })
}

func Greater[T cmp.Ordered](w *World, kind Kind[T], value T) *bitmap.Bitmap {
	return Filter(w, kind, func(v T) bool { return v > value })
}

func GreaterOrEqual[T cmp.Ordered](w *World, kind Kind[T], value T) *bitmap.Bitmap {
	return Filter(w, kind, func(v T) bool { return v >= value })
}

func Equal[T comparable](w *World, kind Kind[T], value T) *bitmap.Bitmap {
	return Filter(w, kind, func(v T) bool { return v == value })
}

func NotEqual[T comparable](w *World, kind Kind[T], value T) *bitmap.Bitmap {
	return Filter(w, kind, func(v T) bool { return v != value })
}

// LowerKinds returns the entities having both kinds where the value of a is lower than the value of b.
func LowerKinds[T cmp.Ordered](w *World, a, b Kind[T]) *bitmap.Bitmap {
	return FilterKinds(w, a, b, func(x, y T) bool { return x < y })
}

func LowerOrEqualKinds[T cmp.Ordered](w *World, a, b Kind[T]) *bitmap.Bitmap {
	return FilterKinds(w, a, b, func(x, y T) bool { return x <= y })
}

func GreaterKinds[T cmp.Ordered](w *World, a, b Kind[T]) *bitmap.Bitmap {
	return FilterKinds(w, a, b, func(x, y T) bool { return x > y })
}

func GreaterOrEqualKinds[T cmp.Ordered](w *World, a, b Kind[T]) *bitmap.Bitmap {
	return FilterKinds(w, a, b, func(x, y T) bool { return x >= y })
}

func EqualKinds[T comparable](w *World, a, b Kind[T]) *bitmap.Bitmap {
	return FilterKinds(w, a, b, func(x, y T) bool { return x == y })
}

func NotEqualKinds[T comparable](w *World, a, b Kind[T]) *bitmap.Bitmap {
	return FilterKinds(w, a, b, func(x, y T) bool { return x != y })
}

// Apply replaces the value of every entity having kind with the result of fn.
// If mask is not nil, only entities set in mask are visited.
//
// On a versioned kind fn receives the pending value and the results become visible
// with the next commit.
func Apply[T any](w *World, kind Kind[T], mask *bitmap.Bitmap, fn func(T) T) {
	store := StoreOf(w, kind)

	targets := store.Bitmap()
	if mask != nil {
		targets = targets.And(mask)
	} else {
		// the bitmap of a bool kind is its storage, do not iterate while writing to it
		targets = targets.Clone()
	}

	pending, versioned := store.(interface{ Pending(entity.Id) (T, bool) })

	for e := range targets.All(w.options.EntityCeiling) {
		var value T

		if versioned {
			var ok bool
			if value, ok = pending.Pending(e); !ok {
				// removed in the working generation
				continue
			}
		} else {
			value = store.Get(e)
		}

		store.Update(e, fn(value))
	}
}

func Add[T Number](w *World, kind Kind[T], value T) {
	Apply(w, kind, nil, func(v T) T { return v + value })
}

func Multiply[T Number](w *World, kind Kind[T], value T) {
	Apply(w, kind, nil, func(v T) T { return v * value })
}

// Divide divides every value by value. Division by zero behaves as defined by T.
func Divide[T Number](w *World, kind Kind[T], value T) {
	Apply(w, kind, nil, func(v T) T { return v / value })
}

func AddMasked[T Number](w *World, kind Kind[T], mask *bitmap.Bitmap, value T) {
	Apply(w, kind, mask, func(v T) T { return v + value })
}

func MultiplyMasked[T Number](w *World, kind Kind[T], mask *bitmap.Bitmap, value T) {
	Apply(w, kind, mask, func(v T) T { return v * value })
}

func DivideMasked[T Number](w *World, kind Kind[T], mask *bitmap.Bitmap, value T) {
	Apply(w, kind, mask, func(v T) T { return v / value })
}
