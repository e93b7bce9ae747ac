// Package formatters renders sizes, durations and counts for humans.
package formatters

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes formats bytes with binary units (e.g., "1.5 MiB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}

	return humanize.IBytes(uint64(bytes))
}

// FormatDuration formats a duration into "1h 2m 3s", "2m 30s" or "45s".
// Durations under a second keep millisecond precision.
func FormatDuration(duration time.Duration) string {
	if duration < time.Second {
		return duration.Round(time.Millisecond).String()
	}

	duration = duration.Round(time.Second)
	hours := duration / time.Hour
	duration %= time.Hour
	minutes := duration / time.Minute
	duration %= time.Minute
	seconds := duration / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// FormatRate formats a transfer rate (e.g., "5.2 MiB/s").
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}

	return humanize.IBytes(uint64(bytesPerSec)) + "/s"
}

// Plural returns word, or word+"s" unless count is 1.
func Plural(count int, word string) string {
	if count == 1 {
		return word
	}

	return word + "s"
}
