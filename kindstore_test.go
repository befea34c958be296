package kindstore

import (
	"log/slog"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

type velocity struct {
	X, Y, Z float64
}

type transform struct {
	X, Y float64
}

var (
	velocityKind  = SharedKind[velocity](1, "velocity")
	healthKind    = ValueKind[uint32](2, "health")
	maxHealthKind = ValueKind[uint32](3, "max-health")
	immuneKind    = ValueKind[bool](4, "immune")
	movableKind   = ValueKind[bool](5, "movable").WithDefault(true)
	oxygenKind    = ExclusiveKind[float32](6, "oxygen")
	graphicKind   = ExclusiveKind[transform](7, "graphic-transform")
	gameKind      = SharedKind[transform](8, "game-transform")
	scoreKind     = SharedKind[int](9, "score")
)

func newTestWorld() *World {
	options := Options{
		Logger:        slog.New(slog.DiscardHandler),
		EntityCeiling: 100,
	}

	return NewWorld(options,
		velocityKind, healthKind, maxHealthKind, immuneKind, movableKind,
		oxygenKind, graphicKind, gameKind, scoreKind,
	)
}

func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered, "expected a panic")

		err, ok := recovered.(error)
		require.True(t, ok, "expected an error, got %v", recovered)
		require.True(t, eris.Is(err, target), "expected %v, got %v", target, err)
	}()

	fn()
}
