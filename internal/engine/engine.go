package engine

import (
	"context"
	"sync"
	"time"

	"eventcal/internal/cycle"
	"eventcal/internal/log"
	"eventcal/internal/store"
	"eventcal/internal/timer"
)

// Snapshot is one consistent evaluation of every timer at a single
// instant. The web layer serves snapshots directly, so all countdowns
// in one response agree on "now".
type Snapshot struct {
	Chips       []timer.Chip      `json:"chips"`
	Events      []timer.EventChip `json:"events"`
	Cycles      cycle.IDs         `json:"cycles"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Options configures a new Engine.
type Options struct {
	Reset cycle.ResetConfig

	// Definitions are the recurring timers to evaluate: built-ins plus
	// any extras from the config file.
	Definitions []timer.Definition

	// Events are the limited-time content timers from the config file.
	Events []timer.Event

	// Store, if non-nil, contributes user-created custom timers on top
	// of the static sets above.
	Store *store.Store

	// Tick is the re-evaluation interval. Zero means one second.
	Tick time.Duration
}

// Engine re-evaluates all timers on a fixed tick and keeps the latest
// snapshot behind an RWMutex for concurrent readers.
type Engine struct {
	reset  cycle.ResetConfig
	defs   []timer.Definition
	events []timer.Event
	store  *store.Store
	tick   time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

// New builds an Engine and primes it with an immediate evaluation so
// Snapshot never returns a zero value.
func New(opts Options) *Engine {
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}
	e := &Engine{
		reset:  opts.Reset,
		defs:   opts.Definitions,
		events: opts.Events,
		store:  opts.Store,
		tick:   tick,
	}
	e.refresh(time.Now().UTC())
	return e
}

// Definitions returns the full recurring set: static definitions plus
// recurring custom timers from the store.
func (e *Engine) Definitions() []timer.Definition {
	out := make([]timer.Definition, 0, len(e.defs))
	out = append(out, e.defs...)
	if e.store != nil {
		for _, c := range e.store.List() {
			if def, ok := c.Definition(); ok {
				out = append(out, def)
			}
		}
	}
	return out
}

// Events returns the full event set: static events plus event-kind
// custom timers from the store.
func (e *Engine) Events() []timer.Event {
	out := make([]timer.Event, 0, len(e.events))
	out = append(out, e.events...)
	if e.store != nil {
		for _, c := range e.store.List() {
			if ev, ok := c.Event(); ok {
				out = append(out, ev)
			}
		}
	}
	return out
}

// Evaluate computes a snapshot for the given instant without touching
// the cached one. Definitions whose schedule cannot be resolved are
// logged and skipped rather than failing the whole snapshot; they can
// only come from an older store file, since config schedules are
// validated at load time.
func (e *Engine) Evaluate(now time.Time) Snapshot {
	now = now.UTC()

	defs := e.Definitions()
	chips := make([]timer.Chip, 0, len(defs))
	for _, def := range defs {
		chip, err := timer.BuildChip(def, now)
		if err != nil {
			log.Warn("skipping unresolvable timer", "id", def.ID, "err", err)
			continue
		}
		chips = append(chips, chip)
	}

	return Snapshot{
		Chips:       chips,
		Events:      timer.BuildEventChips(e.Events(), now),
		Cycles:      e.reset.Current(now),
		GeneratedAt: now,
	}
}

// Snapshot returns the most recent evaluation.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Refresh forces an immediate re-evaluation. The web layer calls this
// after store mutations so a newly created timer shows up in the very
// next read instead of one tick later.
func (e *Engine) Refresh() {
	e.refresh(time.Now().UTC())
}

func (e *Engine) refresh(now time.Time) {
	snap := e.Evaluate(now)
	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
}

// Run re-evaluates on every tick until ctx is canceled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	log.Info("timer engine started", "tick", e.tick.String())
	for {
		select {
		case <-ctx.Done():
			log.Info("timer engine stopped")
			return
		case now := <-ticker.C:
			e.refresh(now.UTC())
		}
	}
}
