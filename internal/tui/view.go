package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/internal/tui/shared"
)

// View implements tea.Model
func (m Model) View() string {
	var builder strings.Builder

	title := "mirror-sync"
	if m.cfg.DryRun {
		title += " (dry run)"
	}

	builder.WriteString(shared.RenderTitle(title))
	builder.WriteString("\n")
	builder.WriteString(shared.RenderSubtitle(fmt.Sprintf("%s → %s", m.cfg.SourceRoot, m.cfg.TargetRoot)))
	builder.WriteString("\n")

	if m.phase < syncengine.PhaseCopying && !m.done {
		builder.WriteString(m.renderScanning())
	} else {
		builder.WriteString(m.renderProgress())
	}

	if len(m.recent) > 0 {
		builder.WriteString("\n\n")
		builder.WriteString(shared.RenderActivityLog("Recent", m.recent, shared.RecentActivityLimit))
	}

	if len(m.failures) > 0 {
		builder.WriteString("\n\n")
		builder.WriteString(shared.RenderLabel(fmt.Sprintf("Errors (%d)", len(m.failures))))
		builder.WriteString("\n")
		builder.WriteString(shared.RenderErrorList(shared.ErrorListConfig{
			Failures: m.failures,
			Context:  shared.ContextInProgress,
			MaxWidth: m.contentWidth(),
		}))
	}

	if len(m.warnings) > 0 {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderWarning(fmt.Sprintf("%s %d %s could not be read",
			shared.WarningSymbol(), len(m.warnings), plural(len(m.warnings), "directory", "directories"))))
	}

	builder.WriteString("\n\n")
	builder.WriteString(shared.RenderDim("ctrl+c to abort"))

	return shared.RenderBox(builder.String())
}

func (m Model) renderScanning() string {
	label := "Scanning source tree..."
	if m.phase == syncengine.PhaseStructureMirrored {
		label = fmt.Sprintf("Found %d files (%s)", m.totalFiles, shared.FormatBytes(m.totalBytes))
	}

	return fmt.Sprintf("%s %s\n%s", m.spinner.View(), label,
		shared.RenderDim("Elapsed: "+shared.FormatDuration(m.now.Sub(m.startTime))))
}

func (m Model) renderProgress() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderProgress(m.progress, m.percent()))
	builder.WriteString("\n\n")

	fmt.Fprintf(&builder, "%s %d / %d\n", shared.RenderLabel("Files:"), m.processed, m.totalFiles)
	fmt.Fprintf(&builder, "%s %s / %s\n", shared.RenderLabel("Data: "),
		shared.FormatBytes(m.bytesDone), shared.FormatBytes(m.totalBytes))

	if m.cfg.DryRun {
		fmt.Fprintf(&builder, "%d would sync, %d up to date", m.pending, m.upToDate)
	} else {
		fmt.Fprintf(&builder, "%d copied, %d up to date, %d failed", m.copied, m.upToDate, len(m.failures))
	}

	builder.WriteString("\n")

	stats := []string{fmt.Sprintf("Workers: %d", m.workers)}
	if rate := m.rate(); rate > 0 {
		stats = append(stats, "Rate: "+shared.FormatRate(rate))
	}

	stats = append(stats, "Elapsed: "+shared.FormatDuration(m.now.Sub(m.startTime)))
	builder.WriteString(shared.RenderDim(strings.Join(stats, "  ")))

	return builder.String()
}

// percent tracks bytes when there are any, otherwise files.
func (m Model) percent() float64 {
	if m.totalBytes > 0 {
		return min(float64(m.bytesDone)/float64(m.totalBytes), 1)
	}

	if m.totalFiles > 0 {
		return min(float64(m.processed)/float64(m.totalFiles), 1)
	}

	if m.done {
		return 1
	}

	return 0
}

func (m Model) rate() float64 {
	if m.copyStart.IsZero() {
		return 0
	}

	elapsed := m.now.Sub(m.copyStart)
	if elapsed < time.Second {
		return 0
	}

	return float64(m.bytesDone) / elapsed.Seconds()
}

func (m Model) contentWidth() int {
	const boxOverhead = 2*shared.DefaultPadding + 2 + 4 // padding, borders, list indent

	if m.width <= boxOverhead {
		return 0
	}

	return m.width - boxOverhead
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}

	return many
}
