package monitor

import (
	"fmt"
	"path/filepath"
	"time"
)

// FormatRate formats an export rate as "X.X /min".
func FormatRate(perMinute float64) string {
	return fmt.Sprintf("%.1f /min", perMinute)
}

// FormatLatency formats a millisecond latency as "X.Xms" or "X.Xs".
func FormatLatency(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.1fms", ms)
	}
	return fmt.Sprintf("%.1fs", ms/1000)
}

// FormatPercentage formats a ratio in [0,1] as a percentage.
func FormatPercentage(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatUptime formats uptime in seconds as "Xh Ym" or "Xm".
func FormatUptime(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatArtifact renders one recent-artifact line: filename, kind and
// how long ago it finished.
func FormatArtifact(rec ArtifactRecord, now time.Time) string {
	age := now.Sub(rec.FinishedAt)
	return fmt.Sprintf("%-40s %-5s %s ago",
		truncate(filepath.Base(rec.Path), 40), rec.Kind, FormatAge(age))
}

// FormatAge formats an elapsed duration as "Xs", "Xm" or "Xh".
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
