package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/internal/tui/shared"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == shared.KeyCtrlC {
			m.aborted = !m.done

			return m, tea.Quit
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-2*shared.DefaultPadding-8, 10), shared.MaxProgressBarWidth) //nolint:mnd // Borders, padding and the percentage label

		return m, nil

	case shared.RefreshMsg:
		m.now = time.Time(msg)
		if m.done {
			return m, nil
		}

		return m, shared.RefreshCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case shared.EngineEventMsg:
		m.handleEvent(msg.Event)

		return m, m.bridge.ListenCmd()

	case shared.SyncFinishedMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		m.now = time.Now()

		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleEvent(event syncengine.Event) {
	switch e := event.(type) {
	case syncengine.PhaseChanged:
		m.phase = e.Phase
	case syncengine.ScanComplete:
		m.totalFiles = e.Files
		m.totalBytes = e.Bytes
		m.staleFiles = e.StaleFiles
		m.dirsCreated = e.DirsCreated
	case syncengine.SyncStarted:
		m.workers = e.Workers
		m.copyStart = time.Now()
	case syncengine.FileCompleted:
		m.processed = e.Processed
		m.bytesDone = e.BytesDone
		m.recordResult(e.Result)
	case syncengine.ErrorOccurred:
		m.warnings = append(m.warnings, e.Err)
	case syncengine.SyncComplete:
		m.report = e.Report
	}
}

func (m *Model) recordResult(result syncengine.FileResult) {
	entry := shared.OutcomeSymbol(result.Outcome) + " " + result.Task.RelativePath

	switch result.Outcome {
	case syncengine.OutcomeCopied:
		m.copied++
		entry += " (" + shared.FormatBytes(result.Bytes) + ")"
	case syncengine.OutcomeUpToDate:
		m.upToDate++
		// Up-to-date files are the common case on re-runs; keep them out of the log.
		return
	case syncengine.OutcomePending:
		m.pending++
		entry += " (would sync)"
	case syncengine.OutcomeFailed:
		m.failures = append(m.failures, syncengine.FileFailure{
			SourcePath: result.Task.SourcePath,
			TargetPath: result.Task.TargetPath,
			Err:        result.Err,
		})
	}

	m.recent = append(m.recent, shared.OutcomeStyle(result.Outcome).Render(entry))
	if len(m.recent) > shared.RecentActivityLimit {
		m.recent = m.recent[len(m.recent)-shared.RecentActivityLimit:]
	}
}
