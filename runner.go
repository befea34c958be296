package kindstore

import (
	"context"
	"log/slog"

	"github.com/oliverbestmann/kindstore/internal/set"
	"github.com/oliverbestmann/kindstore/rewind"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// PhaseFunc is one phase of a system, run once per frame.
type PhaseFunc func(ctx context.Context, frame rewind.Frame) error

// System is a unit of simulation logic.
//
// Event is the only phase allowed to mutate storage, and only of the kinds listed
// in Writes. Batch runs after all versioned kinds were committed and must not
// mutate storage. Either phase may be nil.
type System struct {
	Name   string
	Writes []AnyKind

	Event PhaseFunc
	Batch PhaseFunc
}

// Runner runs the systems of a world frame by frame. Each frame runs the event phase
// of all systems in parallel, commits all versioned kinds under the frame, and then
// runs the batch phase of all systems in parallel.
type Runner struct {
	world   *World
	systems []*System

	names set.Set[string]

	// the system writing each kind
	writers map[KindId]string

	next  rewind.Frame
	stats *TimingStats
}

func NewRunner(w *World) *Runner {
	next := rewind.Frame(1)
	if last, ok := w.Frame(); ok {
		next = last + 1
	}

	return &Runner{
		world:   w,
		writers: map[KindId]string{},
		next:    next,
		stats:   NewTimingStats(),
	}
}

// AddSystem adds a system to the runner. It fails if one of the kinds the system
// writes is already written by another system.
func (r *Runner) AddSystem(system System) error {
	if system.Name == "" {
		return eris.New("system has no name")
	}

	if r.names.Has(system.Name) {
		return eris.Errorf("system %q added twice", system.Name)
	}

	var writes set.Set[KindId]

	for _, kind := range system.Writes {
		// fail early if the kind is not registered with the world
		r.world.containerOf(kind)

		if owner, ok := r.writers[kind.Id()]; ok {
			return eris.Wrapf(ErrWriterConflict,
				"%q is written by %q and %q", kind.Name(), owner, system.Name)
		}

		writes.Insert(kind.Id())
	}

	for id := range writes.Values() {
		r.writers[id] = system.Name
	}

	r.names.Insert(system.Name)
	r.systems = append(r.systems, &system)

	r.world.logger.Debug("System added",
		slog.String("name", system.Name),
		slog.Int("writes", writes.Len()))

	return nil
}

// Writer returns the name of the system writing kind.
func (r *Runner) Writer(kind AnyKind) (string, bool) {
	name, ok := r.writers[kind.Id()]
	return name, ok
}

// NextFrame is the frame the next call to RunFrame commits under.
func (r *Runner) NextFrame() rewind.Frame {
	return r.next
}

func (r *Runner) Stats() *TimingStats {
	return r.stats
}

// RunFrame runs one frame. If a system of the event phase fails, the frame is
// aborted before committing and the uncommitted writes of all versioned kinds are
// discarded, including the ones of systems that succeeded. Writes to non-versioned
// kinds are not rolled back.
func (r *Runner) RunFrame(ctx context.Context) error {
	frame := r.next

	if err := r.runPhase(ctx, PhaseEvent, frame); err != nil {
		r.world.DiscardAll()

		r.world.logger.Warn("Frame aborted",
			slog.Any("frame", frame),
			slog.Any("err", err))

		return err
	}

	stopwatch := r.stats.MeasurePhase(PhaseCommit)
	r.world.CommitAll(frame)
	stopwatch.Stop()

	r.next = frame + 1

	return r.runPhase(ctx, PhaseBatch, frame)
}

// Run runs count frames, stopping at the first error or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, count int) error {
	for range count {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.RunFrame(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) runPhase(ctx context.Context, phase Phase, frame rewind.Frame) error {
	defer r.stats.MeasurePhase(phase).Stop()

	group, ctx := errgroup.WithContext(ctx)

	for _, system := range r.systems {
		fn := system.Event
		if phase == PhaseBatch {
			fn = system.Batch
		}

		if fn == nil {
			continue
		}

		group.Go(func() error {
			defer r.stats.MeasureSystem(system.Name, phase).Stop()

			if err := fn(ctx, frame); err != nil {
				return eris.Wrapf(err, "%s phase of system %q in %s", phase, system.Name, frame)
			}

			return nil
		})
	}

	return group.Wait()
}
