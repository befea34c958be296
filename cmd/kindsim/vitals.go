package main

import (
	"context"
	"log/slog"

	"github.com/oliverbestmann/kindstore"
	"github.com/oliverbestmann/kindstore/kinds"
	"github.com/oliverbestmann/kindstore/rewind"
)

// minOxygenRate is the oxygen rate below which an entity loses health.
const minOxygenRate = 10

// vitalsSystem drains the health of every entity that does not get enough oxygen
// and is not immune, and reports the number of living entities.
type vitalsSystem struct {
	world       *kindstore.World
	reportEvery rewind.Frame
}

func (s *vitalsSystem) Definition() kindstore.System {
	return kindstore.System{
		Name:   "vitals",
		Writes: []kindstore.AnyKind{kinds.Health},
		Event:  s.event,
		Batch:  s.batch,
	}
}

func (s *vitalsSystem) event(ctx context.Context, frame rewind.Frame) error {
	w := s.world

	suffocating := kindstore.Lower(w, kinds.OxygenRate, minOxygenRate).
		And(kindstore.Bitmap(w, kinds.Immune).Not()).
		And(kindstore.Greater(w, kinds.Health, 0))

	kindstore.Apply(w, kinds.Health, suffocating, func(health uint32) uint32 {
		return health - 1
	})

	return nil
}

func (s *vitalsSystem) batch(ctx context.Context, frame rewind.Frame) error {
	if s.reportEvery == 0 || frame%s.reportEvery != 0 {
		return nil
	}

	w := s.world

	alive := kindstore.Greater(s.world, kinds.Health, 0)

	w.Logger().Info("Vitals",
		slog.Any("frame", frame),
		slog.Int("alive", alive.Count(w.EntityCeiling())),
		slog.Int("dead", kindstore.Equal(w, kinds.Health, 0).Count(w.EntityCeiling())))

	return nil
}
