package shared

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/mirror-sync/internal/syncengine"
)

// RefreshInterval is how often the elapsed time and rate are redrawn.
const RefreshInterval = 100 * time.Millisecond

// SyncFinishedMsg is sent when the engine goroutine returns.
type SyncFinishedMsg struct {
	Report *syncengine.Report
	Err    error
}

// RefreshMsg carries the wall clock for time-dependent parts of the view.
type RefreshMsg time.Time

// RefreshCmd schedules the next RefreshMsg.
func RefreshCmd() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return RefreshMsg(t)
	})
}
