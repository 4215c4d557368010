package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcal/internal/cycle"
	"eventcal/internal/schedule"
	"eventcal/internal/store"
	"eventcal/internal/timer"
)

// Monday evening, one hour before the daily reset.
var engineNow = time.Date(2025, time.January, 6, 20, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, s *store.Store) *Engine {
	t.Helper()
	return New(Options{
		Reset: cycle.DefaultResetConfig(),
		Definitions: []timer.Definition{
			{
				ID: "daily-reset", Label: "Daily Reset", ShortLabel: "Daily", Icon: "bi-sunrise",
				Schedule: schedule.Schedule{Type: schedule.TypeDaily, Hour: 21, Minute: 0},
			},
		},
		Events: []timer.Event{
			{
				ID: "bp-vol1", Label: "Battle Pass Vol. 1", ShortLabel: "BP Vol.1",
				Icon: "bi-star-fill", Category: timer.CategoryBattlePass,
				EndsAt: time.Date(2025, time.February, 6, 21, 0, 0, 0, time.UTC),
			},
		},
		Store: s,
	})
}

func TestEvaluate(t *testing.T) {
	e := newTestEngine(t, nil)

	snap := e.Evaluate(engineNow)
	require.Len(t, snap.Chips, 1)
	assert.Equal(t, "daily-reset", snap.Chips[0].ID)
	assert.Equal(t, "1h 0m 0s", snap.Chips[0].Remaining)

	require.Len(t, snap.Events, 1)
	assert.Equal(t, "bp-vol1", snap.Events[0].ID)

	assert.Equal(t, "2025-01-05", snap.Cycles.Daily)  // today's reset not reached
	assert.Equal(t, "2025-01-05", snap.Cycles.Weekly) // last Sunday
	assert.Equal(t, engineNow, snap.GeneratedAt)
}

func TestNewPrimesSnapshot(t *testing.T) {
	e := newTestEngine(t, nil)
	snap := e.Snapshot()
	assert.False(t, snap.GeneratedAt.IsZero())
	assert.Len(t, snap.Chips, 1)
}

func TestStoreTimersAreMerged(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "custom-timers.json"))
	require.NoError(t, err)

	_, err = s.Create(store.Input{
		Kind:       store.KindRecurring,
		Label:      "Guild Dinner",
		ShortLabel: "Dinner",
		Icon:       "bi-bell",
		Schedule:   &schedule.Schedule{Type: schedule.TypeWeekly, Weekday: 3, Hour: 19, Minute: 0},
	})
	require.NoError(t, err)

	ends := time.Date(2025, time.January, 20, 21, 0, 0, 0, time.UTC)
	_, err = s.Create(store.Input{
		Kind:       store.KindEvent,
		Label:      "Anniversary Login",
		ShortLabel: "Anniv",
		Icon:       "bi-gift",
		EndsAt:     &ends,
	})
	require.NoError(t, err)

	e := newTestEngine(t, s)
	snap := e.Evaluate(engineNow)

	require.Len(t, snap.Chips, 2)
	assert.Equal(t, "daily-reset", snap.Chips[0].ID, "static definitions come first")
	assert.Equal(t, "Guild Dinner", snap.Chips[1].Label)

	// The custom event ends before the battle pass, so it sorts first.
	require.Len(t, snap.Events, 2)
	assert.Equal(t, "Anniversary Login", snap.Events[0].Label)
	assert.Equal(t, "bp-vol1", snap.Events[1].ID)
}

func TestExpiredEventsDroppedFromSnapshot(t *testing.T) {
	e := New(Options{
		Reset: cycle.DefaultResetConfig(),
		Events: []timer.Event{
			{
				ID: "gone", Label: "Finished Event", ShortLabel: "Gone", Icon: "bi-x",
				Category: timer.CategoryLimitedEvent,
				EndsAt:   engineNow.Add(-time.Minute),
			},
			{
				ID: "sticky", Label: "Sticky Event", ShortLabel: "Sticky", Icon: "bi-pin",
				Category: timer.CategoryLimitedEvent,
				EndsAt:   engineNow.Add(-time.Minute), KeepExpired: true,
			},
		},
	})

	snap := e.Evaluate(engineNow)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "sticky", snap.Events[0].ID)
	assert.Equal(t, "Expired", snap.Events[0].Remaining)
}

func TestRefreshUpdatesSnapshot(t *testing.T) {
	e := newTestEngine(t, nil)

	first := e.Snapshot()
	e.Refresh()
	second := e.Snapshot()
	assert.True(t, !second.GeneratedAt.Before(first.GeneratedAt))
}
