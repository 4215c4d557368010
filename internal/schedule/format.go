package schedule

import (
	"fmt"
	"time"
)

// FormatRemaining renders a time span as a compact countdown string:
//
//	≥ 1 day  "2d 5h 30m"  (seconds dropped)
//	≥ 1 hour "5h 3m 10s"
//	else     "12m 4s"
//
// Fractional seconds truncate toward zero; negative spans clamp to zero.
func FormatRemaining(d time.Duration) string {
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

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
