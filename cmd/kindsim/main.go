// Command kindsim runs a headless simulation of a scenario file and prints the
// final state of all entities.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/oliverbestmann/kindstore"
	"github.com/oliverbestmann/kindstore/kinds"
	"github.com/oliverbestmann/kindstore/physics"
	"github.com/oliverbestmann/kindstore/rewind"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
)

type config struct {
	Scenario     string
	Frames       int
	Profile      string
	Verbose      bool
	CheckWriters bool
	ReportEvery  int
}

func main() {
	var cfg config

	flag.StringVar(&cfg.Scenario, "scenario", "", "path of the scenario file")
	flag.IntVar(&cfg.Frames, "frames", 0, "number of frames to simulate, overrides the scenario")
	flag.StringVar(&cfg.Profile, "profile", "", "write a profile: cpu or mem")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	flag.BoolVar(&cfg.CheckWriters, "check-writers", false, "panic on concurrent writers of the same kind")
	flag.IntVar(&cfg.ReportEvery, "report-every", 60, "log the vitals every n frames")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Error("Simulation failed", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger, out io.Writer) error {
	if cfg.Scenario == "" {
		return eris.New("no scenario given, use -scenario")
	}

	switch cfg.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.Quiet).Stop()
	default:
		return eris.Errorf("unknown profile mode %q", cfg.Profile)
	}

	scenario, err := LoadScenario(cfg.Scenario)
	if err != nil {
		return err
	}

	if cfg.Frames > 0 {
		scenario.Frames = cfg.Frames
	}

	w := kinds.NewWorld(kindstore.Options{
		Logger:       logger,
		CheckWriters: cfg.CheckWriters,
	})

	if failed := scenario.Apply(w); failed > 0 {
		logger.Warn("Some components could not be created", slog.Int("count", failed))
	}

	runner := kindstore.NewRunner(w)

	systems := []kindstore.System{
		physics.NewSystem(w, kinds.Physics(), scenario.Step).Definition(),
		(&vitalsSystem{world: w, reportEvery: rewind.Frame(cfg.ReportEvery)}).Definition(),
	}

	for _, system := range systems {
		if err := runner.AddSystem(system); err != nil {
			return err
		}
	}

	if err := runner.Run(ctx, scenario.Frames); err != nil {
		return err
	}

	stats := runner.Stats()
	for _, phase := range []kindstore.Phase{kindstore.PhaseEvent, kindstore.PhaseCommit, kindstore.PhaseBatch} {
		timings := stats.Phase(phase)

		logger.Info("Phase timings",
			slog.String("phase", phase.String()),
			slog.Int("count", timings.Count),
			slog.Duration("average", timings.MovingAverage),
			slog.Duration("max", timings.Max))
	}

	return report(out, w, scenario)
}

func report(out io.Writer, w *kindstore.World, scenario *Scenario) error {
	for _, e := range scenario.Entities {
		line := fmt.Sprintf("entity %s:", e.Id)

		if tr, ok := kindstore.Lookup(w, kinds.GameTransform, e.Id); ok {
			line += fmt.Sprintf(" position=%s", tr.Translation)
		}

		if velocity, ok := kindstore.Lookup(w, kinds.Velocity, e.Id); ok {
			line += fmt.Sprintf(" velocity=%s", velocity.Linear)
		}

		if health, ok := kindstore.Lookup(w, kinds.Health, e.Id); ok {
			line += fmt.Sprintf(" health=%d", health)
		}

		if _, err := fmt.Fprintln(out, line); err != nil {
			return eris.Wrap(err, "write report")
		}
	}

	return nil
}
