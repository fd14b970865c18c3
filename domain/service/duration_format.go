package service

import "fmt"

const (
	millisPerSecond = int64(1000)
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
)

// FormatDuration renders a countdown as "5h 23m", "30m" or "45s", truncating
// to the coarsest unit that applies. Negative input renders as "0s".
func FormatDuration(millis int64) string {
	if millis < 0 {
		millis = 0
	}

	switch {
	case millis >= millisPerHour:
		return fmt.Sprintf("%dh %dm", millis/millisPerHour, (millis%millisPerHour)/millisPerMinute)
	case millis >= millisPerMinute:
		return fmt.Sprintf("%dm", millis/millisPerMinute)
	default:
		return fmt.Sprintf("%ds", millis/millisPerSecond)
	}
}
