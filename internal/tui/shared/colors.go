package shared

import (
	"os"

	"github.com/joe/mirror-sync/internal/syncengine"
)

//nolint:gochecknoglobals // Detected once at startup, overridable in tests
var colorsDisabled = os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"

// SetColorsDisabledForTesting overrides color detection and returns a func
// restoring the previous setting.
func SetColorsDisabledForTesting(disabled bool) func() {
	previous := colorsDisabled
	colorsDisabled = disabled

	return func() { colorsDisabled = previous }
}

// OutcomeSymbol marks a finished file in the activity and error lists.
func OutcomeSymbol(outcome syncengine.Outcome) string {
	switch outcome {
	case syncengine.OutcomeCopied:
		return symbol("✓", "+")
	case syncengine.OutcomeUpToDate:
		return symbol("=", "=")
	case syncengine.OutcomePending:
		return symbol("○", "o")
	case syncengine.OutcomeFailed:
		return symbol("✗", "x")
	}

	return "?"
}

// WarningSymbol marks a non-fatal problem.
func WarningSymbol() string {
	return symbol("⚠", "!")
}

func symbol(fancy, plain string) string {
	if colorsDisabled {
		return plain
	}

	return fancy
}
