package feed

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"eventcal/internal/schedule"
	"eventcal/internal/timer"
)

// Package feed renders timer definitions as an iCalendar document so
// players can subscribe to the event schedule from a regular calendar
// app. Recurring definitions become RRULE-bearing VEVENTs anchored on
// their next occurrence; limited-time events become a single entry at
// their end instant.

const (
	productID = "-//eventcal//event timers//EN"
	uidDomain = "eventcal"
)

// Build assembles the calendar for the given definitions and events,
// with occurrences anchored relative to now.
func Build(defs []timer.Definition, events []timer.Event, now time.Time) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, def := range defs {
		if err := addDefinition(cal, def, now); err != nil {
			return nil, err
		}
	}

	for _, ev := range events {
		if !ev.EndsAt.After(now) {
			continue
		}
		ve := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, uidDomain))
		ve.SetDtStampTime(now)
		ve.SetStartAt(ev.EndsAt)
		ve.SetEndAt(ev.EndsAt)
		ve.SetSummary(ev.Label + " ends")
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
	}

	return cal, nil
}

// addDefinition expands one recurring definition into one or more
// VEVENTs. Variants with several independent start times (weekly-times,
// daily-multi) get one VEVENT per slot so each carries a clean RRULE.
func addDefinition(cal *ical.Calendar, def timer.Definition, now time.Time) error {
	s := def.Schedule

	switch s.Type {
	case schedule.TypeDaily:
		start, err := schedule.NextBoundary(s, now)
		if err != nil {
			return err
		}
		return addRecurring(cal, def, def.ID, start, start, rrule.ROption{Freq: rrule.DAILY}, now)

	case schedule.TypeWeekly:
		start, err := schedule.NextBoundary(s, now)
		if err != nil {
			return err
		}
		return addRecurring(cal, def, def.ID, start, start, rrule.ROption{Freq: rrule.WEEKLY}, now)

	case schedule.TypeWeeklyMulti:
		start, err := schedule.NextBoundary(s, now)
		if err != nil {
			return err
		}
		days := make([]rrule.Weekday, 0, len(s.Weekdays))
		for _, wd := range s.Weekdays {
			days = append(days, rruleWeekday(wd))
		}
		return addRecurring(cal, def, def.ID, start, start,
			rrule.ROption{Freq: rrule.WEEKLY, Byweekday: days}, now)

	case schedule.TypeWeeklyTimes:
		for i, slot := range s.Times {
			sub := schedule.Schedule{Type: schedule.TypeWeekly, Weekday: slot.Weekday, Hour: slot.Hour, Minute: slot.Minute}
			start, err := schedule.NextBoundary(sub, now)
			if err != nil {
				return err
			}
			uid := fmt.Sprintf("%s-%d", def.ID, i+1)
			if err := addRecurring(cal, def, uid, start, start, rrule.ROption{Freq: rrule.WEEKLY}, now); err != nil {
				return err
			}
		}
		return nil

	case schedule.TypeDailyMulti:
		window := time.Duration(s.WindowHours) * time.Hour
		for i, slot := range s.Times {
			sub := schedule.Schedule{Type: schedule.TypeDaily, Hour: slot.Hour, Minute: slot.Minute}
			start, err := schedule.NextBoundary(sub, now)
			if err != nil {
				return err
			}
			uid := fmt.Sprintf("%s-%d", def.ID, i+1)
			if err := addRecurring(cal, def, uid, start, start.Add(window), rrule.ROption{Freq: rrule.DAILY}, now); err != nil {
				return err
			}
		}
		return nil

	case schedule.TypeWeeklyRange:
		b, err := schedule.Resolve(s, now)
		if err != nil {
			return err
		}
		start := b.Next
		if b.Open {
			// Anchor on the next open, not the imminent close.
			next, err := schedule.Resolve(s, start)
			if err != nil {
				return err
			}
			start = next.Next
		}
		openMins := (s.OpenWeekday-1)*1440 + s.OpenHour*60 + s.OpenMinute
		closeMins := (s.CloseWeekday-1)*1440 + s.CloseHour*60 + s.CloseMinute
		window := time.Duration(closeMins-openMins) * time.Minute
		return addRecurring(cal, def, def.ID, start, start.Add(window), rrule.ROption{Freq: rrule.WEEKLY}, now)

	default:
		return fmt.Errorf("feed: timer %q: %w: %q", def.ID, schedule.ErrUnknownType, s.Type)
	}
}

func addRecurring(cal *ical.Calendar, def timer.Definition, uid string, start, end time.Time, opt rrule.ROption, now time.Time) error {
	opt.Dtstart = start
	if _, err := rrule.NewRRule(opt); err != nil {
		return fmt.Errorf("feed: timer %q: %w", def.ID, err)
	}

	ve := cal.AddEvent(fmt.Sprintf("%s@%s", uid, uidDomain))
	ve.SetDtStampTime(now)
	ve.SetStartAt(start)
	ve.SetEndAt(end)
	ve.SetSummary(def.Label)
	// RRuleString excludes the DTSTART line, which the VEVENT already
	// carries as its own property.
	ve.AddRrule(opt.RRuleString())
	return nil
}

func rruleWeekday(iso int) rrule.Weekday {
	// ISO 1 = Monday lines up with rrule's MO..SU ordering.
	switch iso {
	case 1:
		return rrule.MO
	case 2:
		return rrule.TU
	case 3:
		return rrule.WE
	case 4:
		return rrule.TH
	case 5:
		return rrule.FR
	case 6:
		return rrule.SA
	default:
		return rrule.SU
	}
}
