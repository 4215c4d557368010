package cycle

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"eventcal/internal/log"
)

// Watcher polls the cycle ids once a minute and notifies subscribers
// when the daily or weekly bucket rolls over. The first observation only
// primes the state and never fires.
type Watcher struct {
	cfg  ResetConfig
	cron *cron.Cron

	mu     sync.Mutex
	last   IDs
	primed bool
	subs   []chan IDs
}

func NewWatcher(cfg ResetConfig) *Watcher {
	return &Watcher{cfg: cfg, cron: cron.New()}
}

// Subscribe returns a channel that receives the fresh ids after each
// rollover. The channel is buffered; a notification is dropped rather
// than blocking the poll when a subscriber lags.
func (w *Watcher) Subscribe() <-chan IDs {
	ch := make(chan IDs, 1)
	w.mu.Lock()
	w.subs = append(w.subs, ch)
	w.mu.Unlock()
	return ch
}

// Start begins the minute poll. It returns immediately.
func (w *Watcher) Start() {
	if _, err := w.cron.AddFunc("* * * * *", func() {
		w.check(time.Now().UTC())
	}); err != nil {
		// The expression is a constant; failing here means a broken build.
		log.Error("reset watcher cron registration failed", err)
		return
	}
	w.cron.Start()
	log.Info("reset watcher started",
		"daily_reset", w.cfg.DailyID(time.Now().UTC()),
		"weekly_reset", w.cfg.WeeklyID(time.Now().UTC()),
	)
}

// Stop halts the poll. Pending notifications stay in subscriber buffers.
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *Watcher) check(now time.Time) {
	current := w.cfg.Current(now)

	w.mu.Lock()
	if !w.primed {
		w.primed = true
		w.last = current
		w.mu.Unlock()
		return
	}
	if current == w.last {
		w.mu.Unlock()
		return
	}
	w.last = current
	subs := make([]chan IDs, len(w.subs))
	copy(subs, w.subs)
	w.mu.Unlock()

	log.Info("cycle rollover", "daily", current.Daily, "weekly", current.Weekly)
	for _, ch := range subs {
		select {
		case ch <- current:
		default:
		}
	}
}
