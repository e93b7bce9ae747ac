package shared

import (
	"fmt"
	"strings"

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/pkg/errors"
)

// Error display limits for different screen contexts
const (
	// ErrorLimitInProgress is for the live view while files are still copying
	ErrorLimitInProgress = 3

	// ErrorLimitComplete is for the final view
	ErrorLimitComplete = 10
)

// ErrorDisplayContext defines the context in which errors are being displayed
type ErrorDisplayContext int

const (
	// ContextInProgress indicates errors shown during the sync
	ContextInProgress ErrorDisplayContext = iota
	// ContextComplete indicates errors shown after the sync finished
	ContextComplete
)

// ErrorListConfig holds configuration for rendering error lists
type ErrorListConfig struct {
	// Failures is the list of failed files to display
	Failures []syncengine.FileFailure

	// Context determines the display limit and overflow message
	Context ErrorDisplayContext

	// MaxWidth is the maximum width for path and error message display
	MaxWidth int
}

// RenderErrorList renders failed files with their suggestions, capped by context.
func RenderErrorList(config ErrorListConfig) string {
	if len(config.Failures) == 0 {
		return ""
	}

	var builder strings.Builder

	enricher := errors.NewEnricher()
	limit := getErrorLimit(config.Context)

	for i, failure := range config.Failures {
		if i >= limit {
			fmt.Fprintf(&builder, "%s\n", getOverflowMessage(config.Context, len(config.Failures)-limit))

			break
		}

		// Already-actionable errors pass through unchanged.
		enrichedErr := enricher.Enrich(failure.Err, failure.SourcePath)

		displayPath := failure.SourcePath
		if config.MaxWidth > 0 {
			displayPath = TruncatePath(displayPath, config.MaxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n", OutcomeSymbol(syncengine.OutcomeFailed),
			OutcomeStyle(syncengine.OutcomeFailed).Render(displayPath))

		errMsg := enrichedErr.Error()
		if config.MaxWidth > len(ellipsis) && len(errMsg) > config.MaxWidth {
			errMsg = errMsg[:config.MaxWidth-len(ellipsis)] + ellipsis
		}

		fmt.Fprintf(&builder, "    %s\n", errMsg)

		// Suggestions only in the final view; they are too tall for the live one.
		if config.Context == ContextComplete {
			if suggestions := errors.FormatSuggestions(enrichedErr); suggestions != "" {
				fmt.Fprintf(&builder, "    %s\n", strings.ReplaceAll(suggestions, "\n", "\n    "))
			}
		}
	}

	return builder.String()
}

func getErrorLimit(context ErrorDisplayContext) int {
	if context == ContextInProgress {
		return ErrorLimitInProgress
	}

	return ErrorLimitComplete
}

func getOverflowMessage(context ErrorDisplayContext, remaining int) string {
	if context == ContextInProgress {
		return fmt.Sprintf("  ... and %d more (see summary)", remaining)
	}

	return fmt.Sprintf("... and %d more error(s)", remaining)
}
