package kindstore

import (
	"sync"
	"time"
)

type Timings struct {
	Count         int
	Latest        time.Duration
	MovingAverage time.Duration
	Min, Max      time.Duration
}

func (t Timings) Add(d time.Duration) Timings {
	t.Latest = d

	if t.Count == 0 {
		t.Min = d
		t.Max = d
		t.MovingAverage = d
	} else {
		t.Min = min(t.Min, d)
		t.Max = max(t.Max, d)
		t.MovingAverage = (95*t.MovingAverage + 5*d) / 100
	}

	t.Count += 1

	return t
}

type Phase uint8

const (
	PhaseEvent Phase = iota
	PhaseCommit
	PhaseBatch
)

func (p Phase) String() string {
	switch p {
	case PhaseEvent:
		return "event"
	case PhaseCommit:
		return "commit"
	default:
		return "batch"
	}
}

type timingKey struct {
	System string
	Phase  Phase
}

// TimingStats collects the run time of each phase of each system. It is safe for
// concurrent use, as systems of one phase run in parallel.
type TimingStats struct {
	mu       sync.Mutex
	byPhase  map[Phase]Timings
	bySystem map[timingKey]Timings
}

func NewTimingStats() *TimingStats {
	return &TimingStats{
		byPhase:  map[Phase]Timings{},
		bySystem: map[timingKey]Timings{},
	}
}

func (t *TimingStats) MeasurePhase(phase Phase) TimingStopwatch {
	startTime := time.Now()

	return TimingStopwatch{
		Stop: func() {
			duration := time.Since(startTime)

			t.mu.Lock()
			defer t.mu.Unlock()

			t.byPhase[phase] = t.byPhase[phase].Add(duration)
		},
	}
}

func (t *TimingStats) MeasureSystem(system string, phase Phase) TimingStopwatch {
	startTime := time.Now()

	return TimingStopwatch{
		Stop: func() {
			duration := time.Since(startTime)

			t.mu.Lock()
			defer t.mu.Unlock()

			key := timingKey{System: system, Phase: phase}
			t.bySystem[key] = t.bySystem[key].Add(duration)
		},
	}
}

func (t *TimingStats) Phase(phase Phase) Timings {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.byPhase[phase]
}

func (t *TimingStats) System(system string, phase Phase) Timings {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.bySystem[timingKey{System: system, Phase: phase}]
}

type TimingStopwatch struct {
	Stop func()
}
