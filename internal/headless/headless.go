// Package headless advances a system without any display, for recording
// runs and for tests.
package headless

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/storage"
)

// ErrUnbounded is returned for a run with neither pacing nor a tick budget.
var ErrUnbounded = errors.New("headless: unpaced run needs a tick count")

// Config controls the runner. Hz of zero runs as fast as possible. Ticks of
// zero runs until the context is cancelled, which is only allowed when paced.
type Config struct {
	Hz     int
	Ticks  uint64
	Logger log.Logger
}

// Observer sees the system after every tick. Returning an error stops the run.
type Observer func(sys *orrery.System) error

// Run advances sys one tick at a time until the tick budget is spent or ctx
// is done.
func Run(ctx context.Context, sys *orrery.System, cfg Config, observe Observer) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if cfg.Hz < 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	if cfg.Hz == 0 && cfg.Ticks == 0 {
		return ErrUnbounded
	}

	var wait <-chan time.Time
	if cfg.Hz > 0 {
		t := time.NewTicker(time.Second / time.Duration(cfg.Hz))
		defer t.Stop()
		wait = t.C
	}

	level.Debug(logger).Log("msg", "headless run starting", "hz", cfg.Hz, "ticks", cfg.Ticks)
	var tick uint64
	for cfg.Ticks == 0 || tick < cfg.Ticks {
		if wait != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wait:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		sys.Advance(1)
		tick++
		if observe != nil {
			if err := observe(sys); err != nil {
				return fmt.Errorf("tick %d: %w", sys.Ticks(), err)
			}
		}
	}
	level.Debug(logger).Log("msg", "headless run finished", "ticks", tick)
	return nil
}

// Recorder collects a planet trace from a running system. It also keeps
// the speeds seen on the first tick and notes planets whose speed changed
// afterwards.
type Recorder struct {
	trace  *storage.Trace
	row    []float64
	speeds map[string]float64
	mixed  map[string]bool
}

func NewRecorder() *Recorder {
	names := orrery.PlanetNames()
	return &Recorder{
		trace: storage.NewTrace(names),
		row:   make([]float64, 2*len(names)),
		mixed: make(map[string]bool),
	}
}

// Observe appends the current planet positions. It has the Observer
// signature.
func (r *Recorder) Observe(sys *orrery.System) error {
	planets := sys.Planets()
	if r.speeds == nil {
		r.speeds = make(map[string]float64, len(planets))
		for _, p := range planets {
			r.speeds[p.Name] = p.Speed
		}
	}
	for i, p := range planets {
		if p.Speed != r.speeds[p.Name] {
			r.mixed[p.Name] = true
		}
		pos := p.Position()
		r.row[2*i] = pos.X
		r.row[2*i+1] = pos.Z
	}
	return r.trace.Append(sys.Ticks(), r.row)
}

func (r *Recorder) Trace() *storage.Trace { return r.trace }

// Speeds returns the speeds in effect on the first recorded tick, or nil if
// nothing was recorded.
func (r *Recorder) Speeds() map[string]float64 {
	if r.speeds == nil {
		return nil
	}
	out := make(map[string]float64, len(r.speeds))
	for k, v := range r.speeds {
		out[k] = v
	}
	return out
}

// Mixed lists, in orbit order, the planets whose speed changed during the
// recording.
func (r *Recorder) Mixed() []string {
	var out []string
	for _, name := range r.trace.Planets {
		if r.mixed[name] {
			out = append(out, name)
		}
	}
	return out
}
