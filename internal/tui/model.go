// Package tui shows a running sync as a live full-screen progress view.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/internal/tui/shared"
)

// Model is the bubbletea model for one sync run. It only reads engine
// events; it never calls into the engine.
type Model struct {
	cfg    syncengine.Config
	bridge *shared.EventBridge

	progress progress.Model
	spinner  spinner.Model
	width    int

	phase     syncengine.Phase
	startTime time.Time
	copyStart time.Time
	now       time.Time

	totalFiles  int
	totalBytes  int64
	staleFiles  int
	dirsCreated int
	workers     int
	processed   int
	bytesDone   int64
	copied      int
	upToDate    int
	pending     int

	recent   []string
	failures []syncengine.FileFailure
	warnings []error

	report  *syncengine.Report
	err     error
	done    bool
	aborted bool
}

// NewModel creates the view for a run of cfg fed by bridge.
func NewModel(cfg syncengine.Config, bridge *shared.EventBridge) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = shared.SpinnerStyle()

	now := time.Now()

	return Model{
		cfg:       cfg,
		bridge:    bridge,
		progress:  shared.NewProgressModel(shared.ProgressBarWidth),
		spinner:   s,
		startTime: now,
		now:       now,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.bridge.ListenCmd(),
		shared.RefreshCmd(),
	)
}

// Aborted reports whether the user quit before the sync finished.
func (m Model) Aborted() bool {
	return m.aborted
}

// Done reports whether the engine has returned.
func (m Model) Done() bool {
	return m.done
}

// Result returns the engine's report and error once Done is true.
func (m Model) Result() (*syncengine.Report, error) {
	return m.report, m.err
}
