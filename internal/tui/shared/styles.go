package shared

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/mirror-sync/internal/syncengine"
)

// Layout and key bindings of the progress view.
const (
	DefaultPadding      = 2
	ProgressBarWidth    = 40
	MaxProgressBarWidth = 100
	// RecentActivityLimit is how many finished files the activity log shows
	RecentActivityLimit = 5
	KeyCtrlC            = "ctrl+c"
)

// 256-color palette.
const (
	accentColor  = lipgloss.Color("62")
	dimColor     = lipgloss.Color("240")
	errorColor   = lipgloss.Color("196")
	labelColor   = lipgloss.Color("86")
	subtleColor  = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	titleColor   = lipgloss.Color("205")
	warningColor = lipgloss.Color("226")
)

// OutcomeStyle colors an activity entry by how its file finished.
func OutcomeStyle(outcome syncengine.Outcome) lipgloss.Style {
	switch outcome {
	case syncengine.OutcomeCopied, syncengine.OutcomeUpToDate:
		return lipgloss.NewStyle().Foreground(successColor)
	case syncengine.OutcomePending:
		return lipgloss.NewStyle().Foreground(warningColor)
	case syncengine.OutcomeFailed:
		return lipgloss.NewStyle().Foreground(errorColor)
	}

	return lipgloss.NewStyle()
}

// SpinnerStyle is used for the scan spinner.
func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(titleColor)
}

// RenderBox wraps the whole view in the rounded frame.
func RenderBox(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, DefaultPadding).
		Render(content)
}

func RenderDim(text string) string {
	return lipgloss.NewStyle().Foreground(dimColor).Render(text)
}

func RenderLabel(text string) string {
	return lipgloss.NewStyle().Foreground(labelColor).Bold(true).Render(text)
}

// RenderSubtitle renders the "source → target" line.
func RenderSubtitle(text string) string {
	return lipgloss.NewStyle().Foreground(subtleColor).MarginBottom(1).Render(text)
}

func RenderTitle(text string) string {
	return lipgloss.NewStyle().Foreground(titleColor).Bold(true).MarginBottom(1).Render(text)
}

func RenderWarning(text string) string {
	return lipgloss.NewStyle().Foreground(warningColor).Bold(true).Render(text)
}
