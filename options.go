package kindstore

import (
	"log/slog"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/rewind"
)

// DefaultEntityCeiling bounds the iteration over bitmaps that default to true.
const DefaultEntityCeiling = entity.Id(10_000)

type Options struct {
	// HistoryDepth is the number of commits retained by each versioned kind.
	HistoryDepth int

	// EntityCeiling is the exclusive upper bound of entity ids visited when iterating
	// a bitmap that defaults to true.
	EntityCeiling entity.Id

	Logger *slog.Logger

	// CheckWriters enables a debug check that panics if two goroutines
	// mutate the same kind at the same time.
	CheckWriters bool
}

func (o Options) withDefaults() Options {
	if o.HistoryDepth <= 0 {
		o.HistoryDepth = rewind.DefaultDepth
	}

	if o.EntityCeiling == 0 {
		o.EntityCeiling = DefaultEntityCeiling
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	return o
}
