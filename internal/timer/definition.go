package timer

import (
	"time"

	"eventcal/internal/schedule"
)

// Definition is one recurring event card: opaque identity plus the
// schedule that drives its countdown.
type Definition struct {
	ID         string            `json:"id" yaml:"id"`
	Label      string            `json:"label" yaml:"label"`
	ShortLabel string            `json:"shortLabel" yaml:"short_label"`
	Icon       string            `json:"icon" yaml:"icon"`
	Schedule   schedule.Schedule `json:"schedule" yaml:"schedule"`
}

// EventCategory groups limited-time content for styling and sorting.
type EventCategory string

const (
	CategoryBattlePass    EventCategory = "battle-pass"
	CategorySeason        EventCategory = "season"
	CategoryGachaStandard EventCategory = "gacha-standard"
	CategoryGachaSpecial  EventCategory = "gacha-special"
	CategoryLimitedEvent  EventCategory = "limited-event"
	CategoryOther         EventCategory = "other"
)

// Event is a limited-time content card with a fixed end instant. Unlike
// recurring definitions these expire; expired cards are dropped from the
// default listing unless KeepExpired is set.
type Event struct {
	ID          string        `json:"id" yaml:"id"`
	Label       string        `json:"label" yaml:"label"`
	ShortLabel  string        `json:"shortLabel" yaml:"short_label"`
	Icon        string        `json:"icon" yaml:"icon"`
	Category    EventCategory `json:"category" yaml:"category"`
	EndsAt      time.Time     `json:"endsAt" yaml:"ends_at"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	KeepExpired bool          `json:"keepExpired,omitempty" yaml:"keep_expired,omitempty"`
}
