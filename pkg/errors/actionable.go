// Package errors turns per-file sync failures into errors that carry a
// category and a short list of things the user can try.
//
//	enricher := errors.NewEnricher()
//	if err := copyFile(src, dst); err != nil {
//	    err = enricher.Enrich(err, dst)
//	    fmt.Println(err)
//	    fmt.Println(errors.FormatSuggestions(err))
//	}
//
// Enriched errors still unwrap to their cause, so errors.Is keeps working.
package errors

import (
	"errors"
	"strings"
)

// Exported constants.
const (
	CategoryCopy       ErrorCategory = "copy"
	CategoryDiskSpace  ErrorCategory = "disk_space"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// AsActionable returns the ActionableError in err's chain, if any.
func AsActionable(err error) (ActionableError, bool) {
	var actionable ActionableError
	if errors.As(err, &actionable) {
		return actionable, true
	}

	return nil, false
}

// FormatSuggestions formats the suggestions of an ActionableError as an
// indented bulleted list. Returns "" if err carries no suggestions.
func FormatSuggestions(err error) string {
	actionable, ok := AsActionable(err)
	if !ok {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// NewActionableError creates a new ActionableError wrapping cause.
func NewActionableError(
	cause error,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		cause:        cause,
		category:     category,
		suggestions:  suggestions,
		affectedPath: affectedPath,
	}
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	cause        error
	category     ErrorCategory
	suggestions  []string
	affectedPath string
}

// AffectedPath returns the file path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.OriginalError()
}

// OriginalError returns the original error message.
func (e *actionableError) OriginalError() string {
	if e.cause == nil {
		return string(e.category) + " error"
	}

	return e.cause.Error()
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

// Unwrap returns the underlying error.
func (e *actionableError) Unwrap() error {
	return e.cause
}
