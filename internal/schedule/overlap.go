package schedule

import "sort"

// CheckDailyMultiOverlap reports whether any two daily-multi slots
// overlap once each is widened to a [start, start+windowHours) interval
// on the minute-of-day axis. With a zero window or fewer than two slots
// nothing can overlap.
//
// Known imprecision, kept on purpose: intervals are compared on a flat
// minute-of-day axis, so a window that individually wraps past midnight
// (e.g. 23:00 with a 6h window, ending 05:00 next day) is not folded back
// onto the start of the axis and may fail to collide with an early-
// morning slot.
func CheckDailyMultiOverlap(times []Slot, windowHours int) bool {
	if windowHours == 0 || len(times) < 2 {
		return false
	}

	type span struct{ start, end int }
	spans := make([]span, 0, len(times))
	for _, t := range times {
		start := t.Hour*60 + t.Minute
		spans = append(spans, span{start: start, end: start + windowHours*60})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	for i := 0; i < len(spans)-1; i++ {
		if spans[i].end > spans[i+1].start {
			return true
		}
	}
	return false
}

// ValidWeeklyRange reports whether a weekly-range schedule closes
// strictly after it opens on the minutes-since-Monday-00:00 scale. This
// is the precondition the weekly-range resolver assumes; ranges wrapping
// the week boundary are rejected here even though the resolver itself
// tolerates them.
func ValidWeeklyRange(s Schedule) bool {
	openWeekMins := (s.OpenWeekday-1)*1440 + s.OpenHour*60 + s.OpenMinute
	closeWeekMins := (s.CloseWeekday-1)*1440 + s.CloseHour*60 + s.CloseMinute
	return closeWeekMins > openWeekMins
}
