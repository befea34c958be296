package kindstore

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/property"
	"github.com/oliverbestmann/kindstore/rewind"
	"github.com/oliverbestmann/kindstore/storage"
	"github.com/rotisserie/eris"
)

type registration struct {
	kind    AnyKind
	storage storage.Container
}

// World holds the storage of all registered component kinds.
//
// Kinds must be registered before the world is shared between goroutines. After that,
// the world itself is read only and the concurrency rules of the individual storage
// strategies apply.
type World struct {
	_ noCopy

	options Options
	logger  *slog.Logger

	kinds map[KindId]registration

	// ids of all registered kinds in ascending order
	order []KindId
}

// NewWorld creates a world with storage for the given kinds.
func NewWorld(options Options, kinds ...AnyKind) *World {
	options = options.withDefaults()

	w := &World{
		options: options,
		logger:  options.Logger,
		kinds:   map[KindId]registration{},
	}

	for _, kind := range kinds {
		w.Register(kind)
	}

	return w
}

// Register adds storage for a kind to the world. Registering the same kind twice is
// a no-op, registering a different kind under an already used id panics.
func (w *World) Register(kind AnyKind) {
	if existing, ok := w.kinds[kind.Id()]; ok {
		if sameKind(existing.kind, kind) {
			return
		}

		panic(eris.Wrapf(ErrDuplicateKind,
			"id %d used by %q and %q", kind.Id(), existing.kind.Name(), kind.Name()))
	}

	w.kinds[kind.Id()] = registration{
		kind:    kind,
		storage: kind.newStorage(w.options),
	}

	w.order = slices.Sorted(maps.Keys(w.kinds))

	w.logger.Debug(
		"Component kind registered",
		slog.String("name", kind.Name()),
		slog.Int("id", int(kind.Id())),
		slog.String("strategy", kind.Strategy().String()),
		slog.String("type", kind.ValueType().String()),
	)
}

func sameKind(a, b AnyKind) bool {
	return a.Id() == b.Id() &&
		a.Name() == b.Name() &&
		a.Strategy() == b.Strategy() &&
		a.ValueType() == b.ValueType()
}

func (w *World) Logger() *slog.Logger {
	return w.logger
}

// EntityCeiling is the exclusive upper bound used when iterating bitmaps that default to true.
func (w *World) EntityCeiling() entity.Id {
	return w.options.EntityCeiling
}

// Kinds returns all registered kinds ordered by id.
func (w *World) Kinds() []AnyKind {
	kinds := make([]AnyKind, 0, len(w.order))
	for _, id := range w.order {
		kinds = append(kinds, w.kinds[id].kind)
	}

	return kinds
}

// KindOf resolves a numeric kind id.
func (w *World) KindOf(id KindId) (AnyKind, bool) {
	reg, ok := w.kinds[id]
	return reg.kind, ok
}

// Find resolves the storage of a kind that is only known at runtime. The returned
// container can be asserted to storage.Store[T] for the value type of the kind.
func (w *World) Find(id KindId) (storage.Container, error) {
	reg, ok := w.kinds[id]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownKind, "kind id %d", id)
	}

	return reg.storage, nil
}

// CreateComponent parses props with the initializer of the kind and inserts the
// resulting value for e. A failing initializer leaves all storages unchanged.
func (w *World) CreateComponent(e entity.Id, id KindId, props property.List) error {
	reg, ok := w.kinds[id]
	if !ok {
		w.logger.Error("Cannot create component of unknown kind",
			slog.Int("kind", int(id)),
			slog.Any("entity", e))

		return eris.Wrapf(ErrUnknownKind, "kind id %d", id)
	}

	if err := reg.kind.create(w, e, props); err != nil {
		w.logger.Error("Failed to initialize component",
			slog.String("kind", reg.kind.Name()),
			slog.Any("entity", e),
			slog.String("error", err.Error()))

		return eris.Wrapf(ErrInitialization, "%s of entity %s: %s", reg.kind.Name(), e, err)
	}

	w.logger.Debug("Component created",
		slog.String("kind", reg.kind.Name()),
		slog.Any("entity", e))

	return nil
}

// CommitAll commits every versioned kind under frame.
func (w *World) CommitAll(frame rewind.Frame) {
	for _, id := range w.order {
		reg := w.kinds[id]

		if committer, ok := reg.storage.(storage.Committer); ok {
			w.commit(reg.kind, committer, frame)
		}
	}
}

// DiscardAll drops the uncommitted writes of every versioned kind. Writes to
// non-versioned kinds are applied immediately and cannot be discarded.
func (w *World) DiscardAll() {
	for _, id := range w.order {
		reg := w.kinds[id]

		if committer, ok := reg.storage.(storage.Committer); ok {
			committer.Discard()
		}
	}
}

func (w *World) commit(kind AnyKind, committer storage.Committer, frame rewind.Frame) {
	if last, ok := committer.Frame(); ok && frame <= last {
		w.logger.Error("Commit frame is not strictly increasing",
			slog.String("kind", kind.Name()),
			slog.Any("frame", frame),
			slog.Any("last", last))
	}

	committer.Commit(frame)

	w.logger.Debug("Committed",
		slog.String("kind", kind.Name()),
		slog.Any("frame", frame))
}

// Frame returns the highest frame any versioned kind was committed under.
func (w *World) Frame() (rewind.Frame, bool) {
	var frame rewind.Frame
	var committed bool

	for _, id := range w.order {
		if committer, ok := w.kinds[id].storage.(storage.Committer); ok {
			if last, ok := committer.Frame(); ok && (!committed || last > frame) {
				frame, committed = last, true
			}
		}
	}

	return frame, committed
}

// RemoveEntity removes e from every kind. Bool kinds are set to false.
func (w *World) RemoveEntity(e entity.Id) {
	for _, id := range w.order {
		w.kinds[id].storage.Remove(e)
	}
}

// containerOf returns the storage registered for kind. It panics if the kind is not
// registered or the world registered another kind under the same id.
func (w *World) containerOf(kind AnyKind) storage.Container {
	reg, ok := w.kinds[kind.Id()]
	if !ok {
		panic(eris.Wrapf(ErrUnknownKind, "kind %q (%d)", kind.Name(), kind.Id()))
	}

	if reg.kind.Name() != kind.Name() {
		panic(eris.Wrapf(ErrKindMismatch,
			"kind id %d is registered as %q, not %q", kind.Id(), reg.kind.Name(), kind.Name()))
	}

	return reg.storage
}
