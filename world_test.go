package kindstore

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/property"
	"github.com/oliverbestmann/kindstore/rewind"
	"github.com/oliverbestmann/kindstore/storage"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

func TestWorld_StrategyPerKind(t *testing.T) {
	w := newTestWorld()

	expected := map[KindId]storage.Strategy{
		velocityKind.Id(): storage.StrategyShared,
		healthKind.Id():   storage.StrategyValue,
		immuneKind.Id():   storage.StrategyValue,
		oxygenKind.Id():   storage.StrategyExclusive,
	}

	for id, strategy := range expected {
		container, err := w.Find(id)
		require.NoError(t, err)
		require.Equal(t, strategy, container.Strategy())
	}

	container, _ := w.Find(immuneKind.Id())
	require.IsType(t, &storage.Bool{}, container)
}

func TestWorld_Find(t *testing.T) {
	w := newTestWorld()
	Insert(w, healthKind, 7, 80)

	container, err := w.Find(healthKind.Id())
	require.NoError(t, err)
	require.True(t, container.Has(7))

	store, ok := container.(storage.Store[uint32])
	require.True(t, ok)
	require.Equal(t, uint32(80), store.Get(7))

	_, err = w.Find(99)
	require.True(t, eris.Is(err, ErrUnknownKind))
}

func TestWorld_Kinds(t *testing.T) {
	w := newTestWorld()

	kinds := w.Kinds()
	require.Len(t, kinds, 9)

	for idx, kind := range kinds {
		require.Equal(t, KindId(idx+1), kind.Id())
	}

	kind, ok := w.KindOf(velocityKind.Id())
	require.True(t, ok)
	require.Equal(t, "velocity", kind.Name())
}

func TestWorld_Register(t *testing.T) {
	w := newTestWorld()

	// registering the same kind again is fine
	require.NotPanics(t, func() { w.Register(healthKind) })

	requirePanicsWith(t, ErrDuplicateKind, func() {
		w.Register(ValueKind[float32](healthKind.Id(), "health"))
	})

	requirePanicsWith(t, ErrDuplicateKind, func() {
		w.Register(ValueKind[uint32](healthKind.Id(), "hitpoints"))
	})
}

func TestWorld_UnknownAndMismatchingKinds(t *testing.T) {
	w := newTestWorld()

	requirePanicsWith(t, ErrUnknownKind, func() {
		Has(w, ValueKind[int](42, "unknown"), 1)
	})

	requirePanicsWith(t, ErrKindMismatch, func() {
		Get(w, ValueKind[uint32](healthKind.Id(), "hitpoints"), 1)
	})

	requirePanicsWith(t, ErrKindMismatch, func() {
		Get(w, ValueKind[float64](healthKind.Id(), "health"), 1)
	})
}

func TestWorld_AbsentEntity(t *testing.T) {
	w := newTestWorld()

	requirePanicsWith(t, storage.ErrAbsentEntity, func() { Get(w, healthKind, 1) })
	requirePanicsWith(t, storage.ErrAbsentEntity, func() { Update(w, healthKind, 1, 1) })
	requirePanicsWith(t, storage.ErrAbsentEntity, func() { Get(w, oxygenKind, 1) })
	requirePanicsWith(t, storage.ErrAbsentEntity, func() { Get(w, velocityKind, 1) })

	_, ok := Lookup(w, healthKind, 1)
	require.False(t, ok)

	// bool kinds have no absent state
	require.False(t, Get(w, immuneKind, 1))
	require.True(t, Get(w, movableKind, 1))
}

func TestWorld_BoolKinds(t *testing.T) {
	w := newTestWorld()

	Update(w, immuneKind, 3, true)
	require.True(t, Has(w, immuneKind, 3))
	require.True(t, Bitmap(w, immuneKind).Get(3))

	Remove(w, immuneKind, 3)
	require.False(t, Get(w, immuneKind, 3))

	Insert(w, movableKind, 4, false)
	require.False(t, Has(w, movableKind, 4))
	require.True(t, Has(w, movableKind, 5))
	require.Equal(t, 1, Len(w, movableKind))

	require.Panics(t, func() { ValueKind[int](20, "count").WithDefault(true) })
}

func TestWorld_Commit(t *testing.T) {
	w := newTestWorld()

	Insert(w, velocityKind, 7, velocity{X: 1})
	require.False(t, Has(w, velocityKind, 7))

	Commit(w, velocityKind, 1)
	require.True(t, Has(w, velocityKind, 7))

	frame, ok := w.Frame()
	require.True(t, ok)
	require.Equal(t, rewind.Frame(1), frame)

	// commit of a kind that is not versioned is ignored
	require.NotPanics(t, func() { Commit(w, healthKind, 1) })

	requirePanicsWith(t, rewind.ErrNonMonotonicFrame, func() { Commit(w, velocityKind, 1) })

	requirePanicsWith(t, ErrNotVersioned, func() { LastPositiveCommit(w, healthKind) })
	requirePanicsWith(t, ErrNotVersioned, func() { LastPositiveBitmap(w, oxygenKind) })
}

func TestWorld_CommitAll(t *testing.T) {
	w := newTestWorld()

	_, ok := w.Frame()
	require.False(t, ok)

	Insert(w, velocityKind, 1, velocity{Y: 1})
	Insert(w, gameKind, 1, transform{X: 2})
	Insert(w, healthKind, 1, 10)

	w.CommitAll(5)

	require.Equal(t, velocity{Y: 1}, Get(w, velocityKind, 1))
	require.Equal(t, transform{X: 2}, Get(w, gameKind, 1))

	frame, _ := LastPositiveCommit(w, scoreKind)
	require.Equal(t, rewind.Frame(5), frame)

	frame, ok = w.Frame()
	require.True(t, ok)
	require.Equal(t, rewind.Frame(5), frame)
}

func TestWorld_VelocityScenario(t *testing.T) {
	w := newTestWorld()

	Insert(w, velocityKind, 7, velocity{X: 1})
	Commit(w, velocityKind, 1)

	frame, values := LastPositiveCommit(w, velocityKind)
	require.Equal(t, rewind.Frame(1), frame)
	require.Equal(t, velocity{X: 1}, values[7])

	Update(w, velocityKind, 7, velocity{X: 2})

	// pending writes are not visible yet
	frame, values = LastPositiveCommit(w, velocityKind)
	require.Equal(t, rewind.Frame(1), frame)
	require.Equal(t, velocity{X: 1}, values[7])

	Commit(w, velocityKind, 2)

	frame, values = LastPositiveCommit(w, velocityKind)
	require.Equal(t, rewind.Frame(2), frame)
	require.Equal(t, velocity{X: 2}, values[7])
	require.True(t, LastPositiveBitmap(w, velocityKind).Get(7))

	previous, ok := Snapshot(w, velocityKind, 1)
	require.True(t, ok)
	require.Equal(t, velocity{X: 1}, previous[7])
}

func TestWorld_VelocityScenarioConcurrentReader(t *testing.T) {
	w := newTestWorld()

	Insert(w, velocityKind, 7, velocity{X: 1})
	Commit(w, velocityKind, 1)

	var torn atomic.Int32
	var stop atomic.Bool
	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for !stop.Load() {
				frame, values := LastPositiveCommit(w, velocityKind)
				if values[7].X != float64(frame) {
					torn.Add(1)
				}
			}
		}()
	}

	for frame := rewind.Frame(2); frame < 200; frame++ {
		Update(w, velocityKind, 7, velocity{X: float64(frame)})
		Commit(w, velocityKind, frame)
	}

	stop.Store(true)
	wg.Wait()

	require.Zero(t, torn.Load())
}

func TestWorld_HistoryDepth(t *testing.T) {
	w := NewWorld(Options{HistoryDepth: 3}, scoreKind)

	for frame := rewind.Frame(1); frame <= 4; frame++ {
		Insert(w, scoreKind, 1, int(frame))
		Commit(w, scoreKind, frame)
	}

	_, ok := Snapshot(w, scoreKind, 1)
	require.False(t, ok)

	for frame := rewind.Frame(2); frame <= 4; frame++ {
		values, ok := Snapshot(w, scoreKind, frame)
		require.True(t, ok)
		require.Equal(t, int(frame), values[1])
	}
}

func TestWorld_Handles(t *testing.T) {
	w := newTestWorld()

	Insert(w, graphicKind, 1, transform{X: 1})

	handle := GetHandle(w, graphicKind, 1)
	InsertHandle(w, gameKind, 1, handle)
	Commit(w, gameKind, 1)

	handle.X = 5
	require.Equal(t, transform{X: 5}, Get(w, gameKind, 1))
	require.Same(t, handle, GetConstHandle(w, gameKind, 1))

	requirePanicsWith(t, ErrKindMismatch, func() { GetHandle(w, gameKind, 1) })
	requirePanicsWith(t, ErrKindMismatch, func() { GetConstHandle(w, healthKind, 1) })
}

func TestWorld_RemoveEntity(t *testing.T) {
	w := newTestWorld()

	Insert(w, healthKind, 1, 10)
	Insert(w, immuneKind, 1, true)
	Insert(w, velocityKind, 1, velocity{})
	Insert(w, healthKind, 2, 20)
	w.CommitAll(1)

	w.RemoveEntity(1)
	w.CommitAll(2)

	require.False(t, Has(w, healthKind, 1))
	require.False(t, Has(w, immuneKind, 1))
	require.False(t, Has(w, velocityKind, 1))
	require.True(t, Has(w, healthKind, 2))
}

func TestWorld_CreateComponent(t *testing.T) {
	rate := ValueKind[float32](30, "oxygen-rate").
		WithInitializer(func(w *World, e entity.Id, props property.List) (float32, error) {
			if !props.Has("rate") {
				return 20, nil
			}

			return props.Float32("rate")
		})

	w := NewWorld(Options{}, rate, healthKind)

	require.NoError(t, w.CreateComponent(1, rate.Id(), nil))
	require.Equal(t, float32(20), Get(w, rate, 1))

	require.NoError(t, w.CreateComponent(2, rate.Id(), property.List{property.New("rate", 5.5)}))
	require.Equal(t, float32(5.5), Get(w, rate, 2))

	// kinds without an initializer default construct their value
	require.NoError(t, w.CreateComponent(2, healthKind.Id(), nil))
	require.Equal(t, uint32(0), Get(w, healthKind, 2))
}

func TestWorld_CreateComponentFailure(t *testing.T) {
	broken := errors.New("broken")

	failing := ValueKind[uint32](31, "failing").
		WithInitializer(func(w *World, e entity.Id, props property.List) (uint32, error) {
			return 0, broken
		})

	w := NewWorld(Options{}, failing, healthKind)
	Insert(w, healthKind, 1, 50)

	err := w.CreateComponent(1, failing.Id(), nil)
	require.True(t, eris.Is(err, ErrInitialization))
	require.ErrorContains(t, err, "broken")

	require.False(t, Has(w, failing, 1))
	require.Equal(t, uint32(50), Get(w, healthKind, 1))

	err = w.CreateComponent(1, 99, nil)
	require.True(t, eris.Is(err, ErrUnknownKind))
}

func TestWorld_CheckWriters(t *testing.T) {
	w := NewWorld(Options{CheckWriters: true}, healthKind)

	// sequential writers are fine
	for e := range entity.Id(10) {
		Insert(w, healthKind, e, uint32(e))
	}

	require.Equal(t, 10, Len(w, healthKind))
}
