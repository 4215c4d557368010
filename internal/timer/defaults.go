package timer

import "eventcal/internal/schedule"

// BuiltinDefinitions returns the stock event cards. All times are UTC,
// matching the game's server clock. User-defined timers from the store
// and extra definitions from the config file are appended to these.
func BuiltinDefinitions() []Definition {
	return []Definition{
		// Core resets
		{
			ID:         "daily-reset",
			Label:      "Daily Reset",
			ShortLabel: "Daily",
			Icon:       "bi-sunrise",
			Schedule:   schedule.Schedule{Type: schedule.TypeDaily, Hour: 21, Minute: 0},
		},
		{
			ID:         "weekly-reset",
			Label:      "Weekly Reset",
			ShortLabel: "Weekly",
			Icon:       "bi-calendar-week",
			Schedule:   schedule.Schedule{Type: schedule.TypeWeekly, Weekday: 7, Hour: 21, Minute: 0},
		},

		// Arena: two six-hour windows a day, the late one crossing midnight.
		{
			ID:         "arena-1v1",
			Label:      "Arena 1v1",
			ShortLabel: "Arena",
			Icon:       "bi-trophy",
			Schedule: schedule.Schedule{
				Type: schedule.TypeDailyMulti,
				Times: []schedule.Slot{
					{Hour: 10, Minute: 0}, // 10:00–16:00
					{Hour: 22, Minute: 0}, // 22:00–04:00
				},
				WindowHours: 6,
			},
		},

		// Fireworks hub
		{
			ID:         "fireworks-festival",
			Label:      "Fireworks Festival",
			ShortLabel: "Festival",
			Icon:       "bi-brightness-high",
			Schedule: schedule.Schedule{
				Type:     schedule.TypeWeeklyMulti,
				Weekdays: []int{6, 7}, // Sat, Sun
				Hour:     12,
				Minute:   30,
			},
		},
		{
			ID:         "fireworks-seats",
			Label:      "Fireworks Seats",
			ShortLabel: "Seats",
			Icon:       "bi-ticket-perforated",
			Schedule: schedule.Schedule{
				Type:        schedule.TypeWeeklyRange,
				OpenWeekday: 1, OpenHour: 1, OpenMinute: 0, // Monday 01:00
				CloseWeekday: 5, CloseHour: 13, CloseMinute: 0, // Friday 13:00
			},
		},
		{
			ID:         "fireworks-show",
			Label:      "Fireworks Show",
			ShortLabel: "Show",
			Icon:       "bi-stars",
			Schedule: schedule.Schedule{
				Type:     schedule.TypeWeeklyMulti,
				Weekdays: []int{5, 6}, // Fri, Sat
				Hour:     20,
				Minute:   30,
			},
		},
	}
}
