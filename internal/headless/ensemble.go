package headless

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/storage"
)

// Ensemble records the same configuration under consecutive seeds. Each
// member owns its own system, so members run concurrently.
type Ensemble struct {
	base      orrery.Options
	numRuns   int
	seedStart int64
}

// Member is one finished ensemble run.
type Member struct {
	Seed     int64
	System   *orrery.System
	Recorder *Recorder
}

func (m Member) Trace() *storage.Trace { return m.Recorder.Trace() }

func NewEnsemble(base orrery.Options, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

// Run records every member for cfg.Ticks ticks. Pacing is ignored; an
// unbounded tick count is rejected.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]Member, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}
	if cfg.Ticks == 0 {
		return nil, fmt.Errorf("ensemble needs a tick count")
	}
	cfg.Hz = 0

	members := make([]Member, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			opts := e.base
			opts.Seed = e.seedStart + int64(idx)
			sys, err := orrery.New(opts)
			if err != nil {
				errs[idx] = err
				return
			}

			rec := NewRecorder()
			errs[idx] = Run(ctx, sys, cfg, rec.Observe)
			members[idx] = Member{Seed: opts.Seed, System: sys, Recorder: rec}
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", e.seedStart+int64(i), err)
		}
	}

	return members, nil
}
