package shared

import (
	"time"

	"github.com/joe/mirror-sync/pkg/formatters"
)

const ellipsis = "..."

// FormatBytes formats bytes into human-readable format (e.g., "1.5 MiB")
func FormatBytes(bytes int64) string {
	return formatters.FormatBytes(bytes)
}

// FormatDuration formats duration into human-readable format (e.g., "2m 30s")
func FormatDuration(duration time.Duration) string {
	return formatters.FormatDuration(duration)
}

// FormatRate formats transfer rate into human-readable format (e.g., "5.2 MiB/s")
func FormatRate(bytesPerSec float64) string {
	return formatters.FormatRate(bytesPerSec)
}

// TruncatePath shortens path to maxWidth runes by dropping its middle.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if maxWidth <= 0 || len(runes) <= maxWidth {
		return path
	}

	if maxWidth <= len(ellipsis) {
		return string(runes[len(runes)-maxWidth:])
	}

	keep := maxWidth - len(ellipsis)
	head := keep / 2 //nolint:mnd // Split evenly around the ellipsis
	tail := keep - head

	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}
