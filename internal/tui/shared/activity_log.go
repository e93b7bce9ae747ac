package shared

import "strings"

// RenderActivityLog lists the newest limit entries, oldest first, under an
// optional title. A limit of zero or less shows every entry.
func RenderActivityLog(title string, entries []string, limit int) string {
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	lines := make([]string, 0, len(entries)+1)

	if title = strings.TrimSpace(title); title != "" {
		lines = append(lines, RenderLabel(title))
	}

	for _, entry := range entries {
		lines = append(lines, "  "+entry)
	}

	return strings.Join(lines, "\n")
}
