package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestDailyID(t *testing.T) {
	cfg := DefaultResetConfig() // daily 21:00 UTC

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before reset belongs to yesterday", at(2025, time.January, 9, 20, 59), "2025-01-08"},
		{"exactly at reset starts the new bucket", at(2025, time.January, 9, 21, 0), "2025-01-09"},
		{"after reset", at(2025, time.January, 9, 23, 30), "2025-01-09"},
		{"just after midnight still yesterday's bucket", at(2025, time.January, 10, 0, 30), "2025-01-09"},
		{"month boundary", at(2025, time.February, 1, 10, 0), "2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.DailyID(tt.now))
		})
	}
}

func TestWeeklyID(t *testing.T) {
	cfg := DefaultResetConfig() // weekly Sunday 21:00 UTC

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		// 2025-01-05 and 2025-01-12 are Sundays.
		{"midweek belongs to last Sunday", at(2025, time.January, 9, 12, 0), "2025-01-05"},
		{"sunday before reset is still the old week", at(2025, time.January, 12, 20, 59), "2025-01-05"},
		{"sunday at reset starts the new week", at(2025, time.January, 12, 21, 0), "2025-01-12"},
		{"monday after reset", at(2025, time.January, 13, 8, 0), "2025-01-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.WeeklyID(tt.now))
		})
	}
}

func TestWeeklyIDCustomAnchor(t *testing.T) {
	cfg := ResetConfig{DailyHour: 4, WeeklyWeekday: 1, WeeklyHour: 4}

	// Wednesday maps back to Monday's anchor.
	assert.Equal(t, "2025-01-06", cfg.WeeklyID(at(2025, time.January, 8, 12, 0)))
	// Monday just before the anchor maps a full week back.
	assert.Equal(t, "2024-12-30", cfg.WeeklyID(at(2025, time.January, 6, 3, 59)))
}

func TestWatcherCheck(t *testing.T) {
	cfg := DefaultResetConfig()
	w := NewWatcher(cfg)
	ch := w.Subscribe()

	// First observation primes only.
	w.check(at(2025, time.January, 9, 20, 0))
	select {
	case got := <-ch:
		t.Fatalf("unexpected notification on first observation: %+v", got)
	default:
	}

	// Same bucket: no notification.
	w.check(at(2025, time.January, 9, 20, 30))
	select {
	case got := <-ch:
		t.Fatalf("unexpected notification without rollover: %+v", got)
	default:
	}

	// Crossing the daily reset fires with the fresh ids.
	w.check(at(2025, time.January, 9, 21, 0))
	select {
	case got := <-ch:
		assert.Equal(t, "2025-01-09", got.Daily)
		assert.Equal(t, "2025-01-05", got.Weekly)
	default:
		t.Fatal("expected notification after daily rollover")
	}
}
