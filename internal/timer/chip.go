package timer

import (
	"fmt"
	"sort"
	"time"

	"eventcal/internal/schedule"
)

// Chip is the display-ready projection of one recurring definition at a
// given instant.
type Chip struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel"`
	Icon       string `json:"icon"`
	Remaining  string `json:"remaining"`
	Open       bool   `json:"open"`
}

// noBoundary is shown when a schedule yields no upcoming instant. It
// should not occur for validated schedules.
const noBoundary = "—"

// BuildChip resolves def's schedule against now and formats the result.
// Window schedules get an "(open)" label suffix and a decorated
// countdown ("2h 15m 0s left" / "in 3d 2h 10m"); instantaneous schedules
// show the bare duration.
func BuildChip(def Definition, now time.Time) (Chip, error) {
	b, err := schedule.Resolve(def.Schedule, now)
	if err != nil {
		return Chip{}, fmt.Errorf("timer %q: %w", def.ID, err)
	}

	chip := Chip{
		ID:         def.ID,
		Label:      def.Label,
		ShortLabel: def.ShortLabel,
		Icon:       def.Icon,
		Open:       b.Open,
	}

	if b.Next.IsZero() {
		chip.Remaining = noBoundary
		return chip, nil
	}

	remaining := schedule.FormatRemaining(b.Next.Sub(now))

	switch {
	case b.Open:
		chip.Label = def.Label + " (open)"
		chip.Remaining = remaining + " left"
	case def.Schedule.Type == schedule.TypeDailyMulti || def.Schedule.Type == schedule.TypeWeeklyRange:
		chip.Remaining = "in " + remaining
	default:
		chip.Remaining = remaining
	}

	return chip, nil
}

// EventChip is the display-ready projection of a limited-time event.
type EventChip struct {
	ID         string        `json:"id"`
	Label      string        `json:"label"`
	ShortLabel string        `json:"shortLabel"`
	Icon       string        `json:"icon"`
	Category   EventCategory `json:"category"`
	Remaining  string        `json:"remaining"`
	Expired    bool          `json:"expired"`
	EndsAt     time.Time     `json:"endsAt"`
}

// BuildEventChip projects ev against now. Once now reaches EndsAt the
// chip reads "Expired".
func BuildEventChip(ev Event, now time.Time) EventChip {
	chip := EventChip{
		ID:         ev.ID,
		Label:      ev.Label,
		ShortLabel: ev.ShortLabel,
		Icon:       ev.Icon,
		Category:   ev.Category,
		EndsAt:     ev.EndsAt,
	}

	if !now.Before(ev.EndsAt) {
		chip.Expired = true
		chip.Remaining = "Expired"
		return chip
	}

	chip.Remaining = formatEventRemaining(ev.EndsAt.Sub(now))
	return chip
}

// formatEventRemaining favors coarser units the further out the end is:
// weeks past 30 days, days+hours past a week, then the usual breakdown.
func formatEventRemaining(d time.Duration) string {
	totalSeconds := int(d / time.Second)
	if totalSeconds < 0 {
		totalSeconds = 0
	}

	const (
		secondsInDay    = 24 * 60 * 60
		secondsInHour   = 60 * 60
		secondsInMinute = 60
	)

	days := totalSeconds / secondsInDay
	hours := (totalSeconds % secondsInDay) / secondsInHour
	minutes := (totalSeconds % secondsInHour) / secondsInMinute
	seconds := totalSeconds % secondsInMinute

	switch {
	case days > 30:
		weeks := days / 7
		if days%7 == 0 {
			return fmt.Sprintf("%dw", weeks)
		}
		return fmt.Sprintf("%dw %dd", weeks, days%7)
	case days > 7:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	default:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
}

// BuildEventChips projects every event, drops expired ones unless the
// definition opts out, and sorts by end instant (soonest first) with
// seasons pushed last on ties.
func BuildEventChips(events []Event, now time.Time) []EventChip {
	chips := make([]EventChip, 0, len(events))
	for _, ev := range events {
		chip := BuildEventChip(ev, now)
		if chip.Expired && !ev.KeepExpired {
			continue
		}
		chips = append(chips, chip)
	}

	sort.SliceStable(chips, func(i, j int) bool {
		if !chips[i].EndsAt.Equal(chips[j].EndsAt) {
			return chips[i].EndsAt.Before(chips[j].EndsAt)
		}
		// Equal end instants: seasons sink below everything else.
		return chips[i].Category != CategorySeason && chips[j].Category == CategorySeason
	})

	return chips
}
