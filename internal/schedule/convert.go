package schedule

import "time"

// Clock is a bare wall-clock time used when converting user-entered
// schedule times between a local zone and UTC.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// LocalToUTC converts a wall-clock entry in loc to the UTC clock time
// stored in a schedule. The conversion pins the clock onto now's calendar
// date purely to obtain the zone offset, so on a DST transition day the
// result follows whatever offset that date happens to carry.
func LocalToUTC(c Clock, now time.Time, loc *time.Location) Clock {
	local := now.In(loc)
	t := time.Date(local.Year(), local.Month(), local.Day(), c.Hour, c.Minute, 0, 0, loc).UTC()
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// UTCToLocal is the inverse of LocalToUTC, used when presenting a stored
// UTC schedule time back in the user's zone.
func UTCToLocal(c Clock, now time.Time, loc *time.Location) Clock {
	utc := now.UTC()
	t := time.Date(utc.Year(), utc.Month(), utc.Day(), c.Hour, c.Minute, 0, 0, time.UTC).In(loc)
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// LocalSlotToUTC converts a weekday+clock slot expressed at a fixed UTC
// offset (in minutes, east positive) into the equivalent UTC slot. The
// week is treated as a 7*24*60 minute ring, so a slot near a day or week
// boundary lands on the correct UTC weekday.
func LocalSlotToUTC(slot Slot, offsetMinutes int) Slot {
	const weekMinutes = 7 * 24 * 60

	localTotal := (slot.Weekday-1)*24*60 + slot.Hour*60 + slot.Minute

	utcTotal := (localTotal - offsetMinutes) % weekMinutes
	if utcTotal < 0 {
		utcTotal += weekMinutes
	}

	return Slot{
		Weekday: utcTotal/(24*60) + 1,
		Hour:    (utcTotal % (24 * 60)) / 60,
		Minute:  utcTotal % 60,
	}
}
