// Package summary renders a finished sync report as terminal tables.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/joe/mirror-sync/internal/syncengine"
	pkgerrors "github.com/joe/mirror-sync/pkg/errors"
	"github.com/joe/mirror-sync/pkg/formatters"
)

// DefaultMaxFailures caps the failure list; the rest are counted.
const DefaultMaxFailures = 10

// Options control rendering.
type Options struct {
	// Color enables ANSI styling.
	Color bool
	// MaxFailures limits the detailed failure list. Zero means DefaultMaxFailures.
	MaxFailures int
}

// Render writes the summary table for report, then the failure details.
func Render(w io.Writer, report *syncengine.Report, opts Options) {
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = DefaultMaxFailures
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(title(report))

	if opts.Color {
		tw.SetStyle(table.StyleRounded)
		tw.Style().Color.Row = text.Colors{text.Reset}
	} else {
		tw.SetStyle(table.StyleLight)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	for _, row := range rows(report) {
		tw.AppendRow(table.Row{bold(opts.Color, row.label), row.value})
	}

	tw.Render()

	fmt.Fprintln(w, status(report, opts.Color))

	if len(report.Failures) > 0 {
		fmt.Fprintln(w)
		renderFailures(w, report.Failures, opts)
	}

	if len(report.TraversalErrors) > 0 {
		fmt.Fprintln(w)
		renderTraversalErrors(w, report.TraversalErrors, opts)
	}
}

type row struct {
	label string
	value string
}

func rows(report *syncengine.Report) []row {
	rows := []row{
		{"Source", report.SourceRoot},
		{"Target", report.TargetRoot},
		{"Workers", fmt.Sprint(report.Workers)},
		{"Files found", fmt.Sprint(report.TotalFiles)},
		{"Synced", fmt.Sprint(report.FilesSynced)},
	}

	if report.DryRun {
		rows = append(rows, row{"Would sync", fmt.Sprint(report.FilesPending)})
	} else {
		rows = append(rows, row{"Copied", fmt.Sprint(report.FilesCopied)})
	}

	rows = append(rows,
		row{"Up to date", fmt.Sprint(report.FilesUpToDate)},
		row{"Errors", fmt.Sprint(report.ErrorCount)},
	)

	if report.FilesSkipped > 0 {
		rows = append(rows, row{"Not processed", fmt.Sprint(report.FilesSkipped)})
	}

	rows = append(rows,
		row{"Data", fmt.Sprintf("%s of %s", formatters.FormatBytes(report.BytesCopied), formatters.FormatBytes(report.TotalBytes))},
		row{"Directories created", fmt.Sprint(report.DirsCreated)},
	)

	if report.TimesWarnings > 0 {
		rows = append(rows, row{"Timestamps not preserved", fmt.Sprint(report.TimesWarnings)})
	}

	if report.Duration > 0 && report.BytesCopied > 0 {
		rate := float64(report.BytesCopied) / report.Duration.Seconds()
		rows = append(rows, row{"Throughput", formatters.FormatRate(rate)})
	}

	return append(rows, row{"Duration", formatters.FormatDuration(report.Duration)})
}

func title(report *syncengine.Report) string {
	if report.DryRun {
		return "Dry run summary"
	}

	return "Sync summary"
}

func status(report *syncengine.Report, color bool) string {
	if report.Success() {
		msg := "Sync complete"
		if report.DryRun {
			msg = fmt.Sprintf("Dry run complete: %d %s would be copied",
				report.FilesPending, formatters.Plural(report.FilesPending, "file"))
		}

		return colorize(color, text.FgGreen, msg)
	}

	return colorize(color, text.FgRed, fmt.Sprintf("Sync finished with %d %s",
		report.ErrorCount, formatters.Plural(report.ErrorCount, "error")))
}

func renderFailures(w io.Writer, failures []syncengine.FileFailure, opts Options) {
	fmt.Fprintln(w, bold(opts.Color, "Failed files:"))

	for i, failure := range failures {
		if i >= opts.MaxFailures {
			fmt.Fprintf(w, "... and %d more %s\n", len(failures)-i, formatters.Plural(len(failures)-i, "error"))

			return
		}

		fmt.Fprintf(w, "  %s %s\n", colorize(opts.Color, text.FgRed, "✗"), failure.SourcePath)
		fmt.Fprintf(w, "    %v\n", failure.Err)

		if suggestions := pkgerrors.FormatSuggestions(failure.Err); suggestions != "" {
			fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(suggestions, "\n", "\n    "))
		}
	}
}

func renderTraversalErrors(w io.Writer, errs []error, opts Options) {
	fmt.Fprintln(w, bold(opts.Color, "Skipped directories:"))

	for i, err := range errs {
		if i >= opts.MaxFailures {
			fmt.Fprintf(w, "... and %d more\n", len(errs)-i)

			return
		}

		fmt.Fprintf(w, "  %s %v\n", colorize(opts.Color, text.FgYellow, "!"), err)
	}
}

func bold(color bool, s string) string {
	return colorize(color, text.Bold, s)
}

func colorize(color bool, c text.Color, s string) string {
	if !color {
		return s
	}

	return c.Sprint(s)
}
