package schedule

import (
	"errors"
	"fmt"
)

// Type discriminates the schedule variants. The set mirrors what the
// in-game events actually need; dispatch on an unknown value is a
// programming error, not a recoverable condition.
type Type string

const (
	TypeDaily       Type = "daily"
	TypeWeekly      Type = "weekly"
	TypeWeeklyMulti Type = "weekly-multi"
	TypeWeeklyTimes Type = "weekly-times"
	TypeDailyMulti  Type = "daily-multi"
	TypeWeeklyRange Type = "weekly-range"
)

// Slot is a clock time, optionally pinned to an ISO weekday
// (1 = Monday … 7 = Sunday). Daily-multi entries leave Weekday zero;
// weekly-times entries require it.
type Slot struct {
	Weekday int `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	Hour    int `json:"hour" yaml:"hour"`
	Minute  int `json:"minute" yaml:"minute"`
}

// Schedule describes one recurring event. Exactly the fields relevant to
// Type are populated; everything is interpreted in UTC.
//
//	daily        Hour, Minute
//	weekly       Weekday, Hour, Minute
//	weekly-multi Weekdays, Hour, Minute
//	weekly-times Times (weekday+hour+minute each)
//	daily-multi  Times (hour+minute each), WindowHours
//	weekly-range Open*/Close* fields
type Schedule struct {
	Type Type `json:"type" yaml:"type"`

	Hour   int `json:"hour,omitempty" yaml:"hour,omitempty"`
	Minute int `json:"minute,omitempty" yaml:"minute,omitempty"`

	Weekday  int   `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	Weekdays []int `json:"weekdays,omitempty" yaml:"weekdays,omitempty"`

	Times []Slot `json:"times,omitempty" yaml:"times,omitempty"`

	// WindowHours turns each daily-multi occurrence into an open interval
	// of that many hours. Zero means instantaneous.
	WindowHours int `json:"windowHours,omitempty" yaml:"windowHours,omitempty"`

	OpenWeekday  int `json:"openWeekday,omitempty" yaml:"openWeekday,omitempty"`
	OpenHour     int `json:"openHour,omitempty" yaml:"openHour,omitempty"`
	OpenMinute   int `json:"openMinute,omitempty" yaml:"openMinute,omitempty"`
	CloseWeekday int `json:"closeWeekday,omitempty" yaml:"closeWeekday,omitempty"`
	CloseHour    int `json:"closeHour,omitempty" yaml:"closeHour,omitempty"`
	CloseMinute  int `json:"closeMinute,omitempty" yaml:"closeMinute,omitempty"`
}

// IsWindow reports whether the schedule variant carries an open/closed
// state (as opposed to firing instantaneously).
func (s Schedule) IsWindow() bool {
	switch s.Type {
	case TypeDailyMulti:
		return s.WindowHours > 0
	case TypeWeeklyRange:
		return true
	default:
		return false
	}
}

var (
	ErrUnknownType     = errors.New("unknown schedule type")
	ErrHourRange       = errors.New("hour must be in 0..23")
	ErrMinuteRange     = errors.New("minute must be in 0..59")
	ErrWeekdayRange    = errors.New("weekday must be in 1..7")
	ErrNoTimes         = errors.New("at least one time entry is required")
	ErrNoWeekdays      = errors.New("at least one weekday is required")
	ErrWindowHours     = errors.New("windowHours must not be negative")
	ErrRangeOrder      = errors.New("close must be after open within the week")
	ErrOverlappingSlot = errors.New("time slots overlap within the window duration")
)

// Validate checks the schedule's shape. It is the fail-fast boundary for
// externally supplied data: resolvers assume a validated schedule and do
// not re-check at runtime.
func (s Schedule) Validate() error {
	switch s.Type {
	case TypeDaily:
		return validClock(s.Hour, s.Minute)

	case TypeWeekly:
		if err := validWeekday(s.Weekday); err != nil {
			return err
		}
		return validClock(s.Hour, s.Minute)

	case TypeWeeklyMulti:
		if len(s.Weekdays) == 0 {
			return ErrNoWeekdays
		}
		for _, wd := range s.Weekdays {
			if err := validWeekday(wd); err != nil {
				return err
			}
		}
		return validClock(s.Hour, s.Minute)

	case TypeWeeklyTimes:
		if len(s.Times) == 0 {
			return ErrNoTimes
		}
		for _, t := range s.Times {
			if err := validWeekday(t.Weekday); err != nil {
				return err
			}
			if err := validClock(t.Hour, t.Minute); err != nil {
				return err
			}
		}
		return nil

	case TypeDailyMulti:
		if len(s.Times) == 0 {
			return ErrNoTimes
		}
		if s.WindowHours < 0 {
			return fmt.Errorf("%w (got %d)", ErrWindowHours, s.WindowHours)
		}
		for _, t := range s.Times {
			if err := validClock(t.Hour, t.Minute); err != nil {
				return err
			}
		}
		if CheckDailyMultiOverlap(s.Times, s.WindowHours) {
			return fmt.Errorf("%w (%dh window)", ErrOverlappingSlot, s.WindowHours)
		}
		return nil

	case TypeWeeklyRange:
		if err := validWeekday(s.OpenWeekday); err != nil {
			return err
		}
		if err := validWeekday(s.CloseWeekday); err != nil {
			return err
		}
		if err := validClock(s.OpenHour, s.OpenMinute); err != nil {
			return err
		}
		if err := validClock(s.CloseHour, s.CloseMinute); err != nil {
			return err
		}
		if !ValidWeeklyRange(s) {
			return ErrRangeOrder
		}
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, s.Type)
	}
}

func validClock(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w (got %d)", ErrHourRange, hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("%w (got %d)", ErrMinuteRange, minute)
	}
	return nil
}

func validWeekday(weekday int) error {
	if weekday < 1 || weekday > 7 {
		return fmt.Errorf("%w (got %d)", ErrWeekdayRange, weekday)
	}
	return nil
}
