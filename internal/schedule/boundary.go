package schedule

import (
	"fmt"
	"time"
)

// Boundary is the result of resolving a schedule against a moment in
// time. For instantaneous schedules Open is always false and Next is the
// next firing instant. For window schedules Open reports whether now is
// inside an active window; Next is then the window's close time,
// otherwise the next open time.
type Boundary struct {
	Next time.Time
	Open bool
}

// ISOWeekday returns t's weekday on the ISO-8601 scale
// (1 = Monday … 7 = Sunday).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday()) // 0 = Sunday
	if wd == 0 {
		return 7
	}
	return wd
}

// atClock pins hour:minute on t's calendar date, zeroing seconds and
// sub-second precision.
func atClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// NextBoundary returns the next relevant instant for the schedule,
// strictly after now. For window variants this is the window-aware
// boundary (close when open, open when closed).
func NextBoundary(s Schedule, now time.Time) (time.Time, error) {
	b, err := Resolve(s, now)
	if err != nil {
		return time.Time{}, err
	}
	return b.Next, nil
}

// Resolve dispatches to the variant-specific resolver. The schedule is
// assumed to have passed Validate; now is expected in UTC.
func Resolve(s Schedule, now time.Time) (Boundary, error) {
	switch s.Type {
	case TypeDaily:
		return Boundary{Next: nextDaily(now, s.Hour, s.Minute)}, nil
	case TypeWeekly:
		return Boundary{Next: nextWeekly(now, s.Weekday, s.Hour, s.Minute)}, nil
	case TypeWeeklyMulti:
		return Boundary{Next: nextWeeklyMulti(now, s.Weekdays, s.Hour, s.Minute)}, nil
	case TypeWeeklyTimes:
		return Boundary{Next: nextWeeklyTimes(now, s.Times)}, nil
	case TypeDailyMulti:
		return resolveDailyMulti(s, now), nil
	case TypeWeeklyRange:
		return resolveWeeklyRange(s, now), nil
	default:
		return Boundary{}, fmt.Errorf("%w: %q", ErrUnknownType, s.Type)
	}
}

// nextDaily: hour:minute on today's date, rolled to tomorrow if already
// passed. "Equal to now" counts as passed so a boundary never appears to
// fire twice on the same tick.
func nextDaily(now time.Time, hour, minute int) time.Time {
	candidate := atClock(now, hour, minute)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// nextWeekly: hour:minute on the target ISO weekday of the current week,
// rolled a full week if already passed.
func nextWeekly(now time.Time, weekday, hour, minute int) time.Time {
	daysToAdd := (weekday - ISOWeekday(now) + 7) % 7
	candidate := atClock(now.AddDate(0, 0, daysToAdd), hour, minute)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// nextWeeklyMulti: earliest weekly candidate across all listed weekdays.
func nextWeeklyMulti(now time.Time, weekdays []int, hour, minute int) time.Time {
	var best time.Time
	for _, wd := range weekdays {
		candidate := nextWeekly(now, wd, hour, minute)
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	return best
}

// nextWeeklyTimes: like weekly-multi but every entry carries its own
// clock time.
func nextWeeklyTimes(now time.Time, times []Slot) time.Time {
	var best time.Time
	for _, t := range times {
		candidate := nextWeekly(now, t.Weekday, t.Hour, t.Minute)
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	return best
}

// resolveDailyMulti handles one or more daily start times with an
// optional open window. Windows may cross midnight, so candidates are
// built across yesterday/today/tomorrow to catch a window that started
// yesterday and is still open now.
func resolveDailyMulti(s Schedule, now time.Time) Boundary {
	if s.WindowHours <= 0 {
		var best time.Time
		for _, t := range s.Times {
			candidate := nextDaily(now, t.Hour, t.Minute)
			if best.IsZero() || candidate.Before(best) {
				best = candidate
			}
		}
		return Boundary{Next: best}
	}

	window := time.Duration(s.WindowHours) * time.Hour

	var best time.Time
	open := false

	for _, dayOffset := range []int{-1, 0, 1} {
		base := now.AddDate(0, 0, dayOffset)
		for _, t := range s.Times {
			start := atClock(base, t.Hour, t.Minute)
			end := start.Add(window)

			var candidate time.Time
			currentlyOpen := false

			switch {
			case !now.Before(start) && now.Before(end):
				candidate = end
				currentlyOpen = true
			case now.Before(start):
				candidate = start
			default:
				continue
			}

			if candidate.After(now) && (best.IsZero() || candidate.Before(best)) {
				best = candidate
				open = currentlyOpen
			}
		}
	}

	if best.IsZero() {
		// The 3-day sweep should always produce a candidate; falling
		// through here indicates a logic gap upstream.
		first := s.Times[0]
		best = atClock(now.AddDate(0, 0, 1), first.Hour, first.Minute)
		open = false
	}

	return Boundary{Next: best, Open: open}
}

// resolveWeeklyRange handles a single weekly open/close window. If the
// naive same-week close lands at or before the open, the window wraps
// into the following week (close shifts by 7 days, open does not).
func resolveWeeklyRange(s Schedule, now time.Time) Boundary {
	open, close := weeklyRangeWindow(s, now)

	switch {
	case now.Before(open):
		return Boundary{Next: open}
	case now.Before(close):
		return Boundary{Next: close, Open: true}
	default:
		// Past this week's close: recompute from a week-shifted anchor
		// rather than just adding 7 days, so weekday alignment around the
		// week boundary cannot skew the result.
		nextOpen, _ := weeklyRangeWindow(s, now.AddDate(0, 0, 7))
		return Boundary{Next: nextOpen}
	}
}

func weeklyRangeWindow(s Schedule, base time.Time) (open, close time.Time) {
	today := ISOWeekday(base)

	openOffset := (s.OpenWeekday - today + 7) % 7
	closeOffset := (s.CloseWeekday - today + 7) % 7

	open = atClock(base.AddDate(0, 0, openOffset), s.OpenHour, s.OpenMinute)
	close = atClock(base.AddDate(0, 0, closeOffset), s.CloseHour, s.CloseMinute)

	if !close.After(open) {
		close = close.AddDate(0, 0, 7)
	}
	return open, close
}
