package monitor

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration compactly for the dashboard:
// "42s", "3m12s", "2h5m".
func FormatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm%ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh%dm", secs/3600, (secs%3600)/60)
	}
}

// FormatSecs renders whole seconds with FormatDuration
func FormatSecs(secs uint64) string {
	return FormatDuration(time.Duration(secs) * time.Second)
}
