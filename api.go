package kindstore

import (
	"log/slog"

	"github.com/oliverbestmann/kindstore/bitmap"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/rewind"
	"github.com/oliverbestmann/kindstore/storage"
	"github.com/rotisserie/eris"
)

// StoreOf returns the typed storage of kind.
func StoreOf[T any](w *World, kind Kind[T]) storage.Store[T] {
	container := w.containerOf(kind)

	store, ok := container.(storage.Store[T])
	if !ok {
		panic(eris.Wrapf(ErrKindMismatch,
			"storage of %q does not hold values of type %s", kind.name, kind.ValueType()))
	}

	return store
}

func versionedOf[T any](w *World, kind Kind[T]) storage.Versioned[T] {
	store, ok := StoreOf(w, kind).(storage.Versioned[T])
	if !ok {
		panic(eris.Wrapf(ErrNotVersioned, "kind %q uses the %s strategy", kind.name, kind.strategy))
	}

	return store
}

func handlesOf[T any](w *World, kind Kind[T]) storage.Handles[T] {
	store, ok := StoreOf(w, kind).(storage.Handles[T])
	if !ok {
		panic(eris.Wrapf(ErrKindMismatch, "kind %q does not keep handles", kind.name))
	}

	return store
}

func Has[T any](w *World, kind Kind[T], e entity.Id) bool {
	return w.containerOf(kind).Has(e)
}

// Get returns the value of kind for e. It panics with storage.ErrAbsentEntity if
// e does not have the component. Bool kinds never panic.
func Get[T any](w *World, kind Kind[T], e entity.Id) T {
	return StoreOf(w, kind).Get(e)
}

func Lookup[T any](w *World, kind Kind[T], e entity.Id) (T, bool) {
	return StoreOf(w, kind).Lookup(e)
}

func Insert[T any](w *World, kind Kind[T], e entity.Id, value T) {
	StoreOf(w, kind).Insert(e, value)
}

// Update replaces the value of kind for e. It panics with storage.ErrAbsentEntity
// if e does not have the component. On bool kinds Update sets the bit.
func Update[T any](w *World, kind Kind[T], e entity.Id, value T) {
	StoreOf(w, kind).Update(e, value)
}

// Remove removes the component from e. Removing an absent component is a no-op.
func Remove[T any](w *World, kind Kind[T], e entity.Id) {
	w.containerOf(kind).Remove(e)
}

// Bitmap returns the presence bitmap of kind. The bitmap is owned by the storage
// and must not be modified.
func Bitmap[T any](w *World, kind Kind[T]) *bitmap.Bitmap {
	return w.containerOf(kind).Bitmap()
}

func Len[T any](w *World, kind Kind[T]) int {
	return w.containerOf(kind).Len()
}

// Commit seals the pending writes of a versioned kind under frame. On kinds of
// the other strategies this is a no-op.
func Commit[T any](w *World, kind Kind[T], frame rewind.Frame) {
	committer, ok := w.containerOf(kind).(storage.Committer)
	if !ok {
		w.logger.Debug("Ignore commit of non versioned kind", slog.String("kind", kind.name))
		return
	}

	w.commit(kind, committer, frame)
}

// LastPositiveCommit returns the values written in the last commit of a versioned kind.
func LastPositiveCommit[T any](w *World, kind Kind[T]) (rewind.Frame, map[entity.Id]T) {
	return versionedOf(w, kind).LastPositiveCommit()
}

// LastPositiveBitmap marks the entities written in the last commit of a versioned kind.
func LastPositiveBitmap[T any](w *World, kind Kind[T]) *bitmap.Bitmap {
	return versionedOf(w, kind).LastPositiveBitmap()
}

// Snapshot returns the values written in the retained commit of frame. Commits older
// than the history depth of the world are no longer available.
func Snapshot[T any](w *World, kind Kind[T], frame rewind.Frame) (map[entity.Id]T, bool) {
	return versionedOf(w, kind).Generation(frame)
}

// GetHandle returns the mutable handle of an exclusive kind.
func GetHandle[T any](w *World, kind Kind[T], e entity.Id) *T {
	store, ok := StoreOf(w, kind).(*storage.Exclusive[T])
	if !ok {
		panic(eris.Wrapf(ErrKindMismatch, "kind %q does not hand out mutable handles", kind.name))
	}

	return store.GetHandle(e)
}

// GetConstHandle returns the handle of e. The value must not be modified through it.
func GetConstHandle[T any](w *World, kind Kind[T], e entity.Id) *T {
	return handlesOf(w, kind).GetConstHandle(e)
}

// InsertHandle stores handle for e, so that kind shares its value with every
// other kind holding the same handle.
func InsertHandle[T any](w *World, kind Kind[T], e entity.Id, handle *T) {
	handlesOf(w, kind).InsertHandle(e, handle)
}
