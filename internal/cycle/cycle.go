package cycle

import (
	"time"

	"eventcal/internal/schedule"
)

// ResetConfig holds the fixed daily/weekly reset anchors, in UTC.
// Checklist state is partitioned by the bucket these anchors define.
type ResetConfig struct {
	DailyHour   int `yaml:"daily_hour" json:"dailyHour"`
	DailyMinute int `yaml:"daily_minute" json:"dailyMinute"`

	// WeeklyWeekday is ISO (1 = Monday … 7 = Sunday).
	WeeklyWeekday int `yaml:"weekly_weekday" json:"weeklyWeekday"`
	WeeklyHour    int `yaml:"weekly_hour" json:"weeklyHour"`
	WeeklyMinute  int `yaml:"weekly_minute" json:"weeklyMinute"`
}

// DefaultResetConfig matches the game's server resets: daily 21:00 UTC,
// weekly Sunday 21:00 UTC.
func DefaultResetConfig() ResetConfig {
	return ResetConfig{
		DailyHour:     21,
		DailyMinute:   0,
		WeeklyWeekday: 7,
		WeeklyHour:    21,
		WeeklyMinute:  0,
	}
}

const isoDate = "2006-01-02"

// DailyID returns the ISO calendar date (UTC) of the most recent daily
// reset at or before now. Used as a storage partition key.
func (c ResetConfig) DailyID(now time.Time) string {
	now = now.UTC()
	base := time.Date(now.Year(), now.Month(), now.Day(), c.DailyHour, c.DailyMinute, 0, 0, time.UTC)
	if now.Before(base) {
		base = base.AddDate(0, 0, -1)
	}
	return base.Format(isoDate)
}

// WeeklyID returns the ISO calendar date (UTC) of the most recent weekly
// reset at or before now.
func (c ResetConfig) WeeklyID(now time.Time) string {
	now = now.UTC()
	// Move within the current ISO week; the offset may be negative.
	days := c.WeeklyWeekday - schedule.ISOWeekday(now)
	anchor := now.AddDate(0, 0, days)
	base := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), c.WeeklyHour, c.WeeklyMinute, 0, 0, time.UTC)
	if now.Before(base) {
		base = base.AddDate(0, 0, -7)
	}
	return base.Format(isoDate)
}

// IDs bundles both bucket identifiers as observed at one instant.
type IDs struct {
	Daily  string `json:"daily"`
	Weekly string `json:"weekly"`
}

// Current samples both cycle ids for now.
func (c ResetConfig) Current(now time.Time) IDs {
	return IDs{Daily: c.DailyID(now), Weekly: c.WeeklyID(now)}
}
