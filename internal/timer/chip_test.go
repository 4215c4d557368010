package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcal/internal/schedule"
)

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestBuildChipDaily(t *testing.T) {
	def := Definition{
		ID: "daily-reset", Label: "Daily Reset", ShortLabel: "Daily", Icon: "bi-sunrise",
		Schedule: schedule.Schedule{Type: schedule.TypeDaily, Hour: 21, Minute: 0},
	}

	chip, err := BuildChip(def, utc(2025, time.January, 9, 20, 0))
	require.NoError(t, err)

	assert.Equal(t, "daily-reset", chip.ID)
	assert.Equal(t, "Daily Reset", chip.Label)
	assert.Equal(t, "1h 0m 0s", chip.Remaining) // bare duration, no decoration
	assert.False(t, chip.Open)
}

func TestBuildChipOpenWindow(t *testing.T) {
	def := Definition{
		ID: "arena-1v1", Label: "Arena 1v1", ShortLabel: "Arena", Icon: "bi-trophy",
		Schedule: schedule.Schedule{
			Type:        schedule.TypeDailyMulti,
			Times:       []schedule.Slot{{Hour: 10, Minute: 0}, {Hour: 22, Minute: 0}},
			WindowHours: 6,
		},
	}

	// 23:30, inside the 22:00–04:00 window.
	chip, err := BuildChip(def, utc(2025, time.January, 9, 23, 30))
	require.NoError(t, err)

	assert.Equal(t, "Arena 1v1 (open)", chip.Label)
	assert.Equal(t, "4h 30m 0s left", chip.Remaining)
	assert.True(t, chip.Open)
}

func TestBuildChipClosedWindow(t *testing.T) {
	def := Definition{
		ID: "fireworks-seats", Label: "Fireworks Seats", ShortLabel: "Seats", Icon: "bi-ticket-perforated",
		Schedule: schedule.Schedule{
			Type:        schedule.TypeWeeklyRange,
			OpenWeekday: 1, OpenHour: 1, OpenMinute: 0,
			CloseWeekday: 5, CloseHour: 13, CloseMinute: 0,
		},
	}

	// Saturday 00:00: closed, next open is Monday 01:00.
	chip, err := BuildChip(def, utc(2025, time.January, 11, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, "Fireworks Seats", chip.Label)
	assert.Equal(t, "in 2d 1h 0m", chip.Remaining)
	assert.False(t, chip.Open)
}

func TestBuildChipUnknownSchedule(t *testing.T) {
	def := Definition{ID: "bad", Schedule: schedule.Schedule{Type: "lunar"}}
	_, err := BuildChip(def, utc(2025, time.January, 9, 12, 0))
	require.ErrorIs(t, err, schedule.ErrUnknownType)
	assert.Contains(t, err.Error(), "bad")
}

func TestBuildChipNoBoundary(t *testing.T) {
	// An empty weekly-multi resolves to no candidate; the chip falls back
	// to the placeholder instead of a bogus countdown.
	def := Definition{ID: "empty", Label: "Empty", Schedule: schedule.Schedule{Type: schedule.TypeWeeklyMulti, Hour: 12}}
	chip, err := BuildChip(def, utc(2025, time.January, 9, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, "—", chip.Remaining)
}

func TestBuildEventChip(t *testing.T) {
	ev := Event{
		ID: "bp-vol1", Label: "Battle Pass Vol. 1", ShortLabel: "BP", Icon: "bi-star-fill",
		Category: CategoryBattlePass,
		EndsAt:   utc(2025, time.December, 11, 21, 0),
	}

	t.Run("active", func(t *testing.T) {
		chip := BuildEventChip(ev, utc(2025, time.December, 10, 21, 0))
		assert.False(t, chip.Expired)
		assert.Equal(t, "1d 0h 0m", chip.Remaining)
	})

	t.Run("under a day keeps seconds", func(t *testing.T) {
		chip := BuildEventChip(ev, utc(2025, time.December, 11, 18, 30))
		assert.Equal(t, "2h 30m 0s", chip.Remaining)
	})

	t.Run("over a week coarsens to days and hours", func(t *testing.T) {
		chip := BuildEventChip(ev, utc(2025, time.December, 1, 9, 0))
		assert.Equal(t, "10d 12h", chip.Remaining)
	})

	t.Run("over thirty days shows weeks", func(t *testing.T) {
		chip := BuildEventChip(ev, utc(2025, time.October, 7, 21, 0))
		assert.Equal(t, "9w 2d", chip.Remaining)
	})

	t.Run("expired", func(t *testing.T) {
		chip := BuildEventChip(ev, utc(2025, time.December, 11, 21, 0))
		assert.True(t, chip.Expired)
		assert.Equal(t, "Expired", chip.Remaining)
	})
}

func TestBuildEventChips(t *testing.T) {
	now := utc(2025, time.December, 1, 12, 0)
	events := []Event{
		{ID: "season", Category: CategorySeason, EndsAt: utc(2025, time.December, 11, 21, 0)},
		{ID: "bp", Category: CategoryBattlePass, EndsAt: utc(2025, time.December, 11, 21, 0)},
		{ID: "gone", Category: CategoryLimitedEvent, EndsAt: utc(2025, time.November, 30, 21, 0)},
		{ID: "sticky", Category: CategoryOther, EndsAt: utc(2025, time.November, 29, 21, 0), KeepExpired: true},
		{ID: "soon", Category: CategoryGachaSpecial, EndsAt: utc(2025, time.December, 5, 21, 0)},
	}

	chips := BuildEventChips(events, now)

	ids := make([]string, 0, len(chips))
	for _, c := range chips {
		ids = append(ids, c.ID)
	}

	// "gone" is filtered; "sticky" survives expired and sorts first by
	// end date; season loses the tie against the battle pass.
	assert.Equal(t, []string{"sticky", "soon", "bp", "season"}, ids)
	assert.True(t, chips[0].Expired)
}

func TestBuiltinDefinitionsValidate(t *testing.T) {
	for _, def := range BuiltinDefinitions() {
		assert.NoError(t, def.Schedule.Validate(), def.ID)
	}
}
