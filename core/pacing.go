package orchestration

import (
	"context"
	"time"
)

// Pacing is the dwell time around one sequenced step: Lead before its action
// runs, Trail after the step is marked complete.
type Pacing struct {
	Lead  time.Duration
	Trail time.Duration
}

var (
	DefaultSearchPacing    = Pacing{Lead: 800 * time.Millisecond, Trail: 300 * time.Millisecond}
	DefaultNarrationPacing = Pacing{Lead: 1500 * time.Millisecond, Trail: 300 * time.Millisecond}
)

// Pacer suspends a workflow for a dwell interval.
type Pacer interface {
	Dwell(ctx context.Context, d time.Duration) error
}

// TimerPacer waits in wall-clock time.
type TimerPacer struct{}

func (TimerPacer) Dwell(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoopPacer returns immediately.
type NoopPacer struct{}

func (NoopPacer) Dwell(ctx context.Context, _ time.Duration) error { return ctx.Err() }
