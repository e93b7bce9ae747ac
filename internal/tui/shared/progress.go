package shared

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// NewProgressModel creates a progress bar of the given width in the UI palette.
func NewProgressModel(width int) progress.Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = width

	if !colorsDisabled {
		bar.EmptyColor = string(dimColor)
		bar.FullColor = string(accentColor)
	}

	return bar
}

// RenderASCIIProgress renders "[#####-----]  50%" for terminals without color.
// percent is clamped to [0, 1].
func RenderASCIIProgress(percent float64, width int) string {
	percent = min(max(percent, 0), 1)
	filled := min(int(percent*float64(width)), width)

	return fmt.Sprintf("[%s%s] %s", strings.Repeat("#", filled), strings.Repeat("-", width-filled), percentLabel(percent))
}

// RenderProgress renders the styled bar, or the ASCII one when NO_COLOR is
// set or TERM=dumb.
func RenderProgress(model progress.Model, percent float64) string {
	if colorsDisabled {
		return RenderASCIIProgress(percent, model.Width)
	}

	percent = min(max(percent, 0), 1)

	return model.ViewAs(percent) + " " + percentLabel(percent)
}

// percentLabel is right-aligned so the line does not jitter as it grows.
func percentLabel(percent float64) string {
	return fmt.Sprintf("%3d%%", int(percent*100)) //nolint:mnd // Percent scale
}
