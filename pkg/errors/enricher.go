package errors

import (
	"errors"
	"io/fs"
	"regexp"
	"strings"
)

// Enricher enriches standard errors with actionable suggestions.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates a new Enricher with default pattern matcher and suggestion generator.
func NewEnricher() Enricher {
	return &enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Compiled once and shared by all enrichers
	pathExtractionPatterns = []*regexp.Regexp{
		// "open /path/to/file: permission denied"
		regexp.MustCompile(`\b\w+\s+([./][^\s:]+):`),
		// "open C:\path\file: ..."
		regexp.MustCompile(`\b\w+\s+([A-Za-z]:\\[^\s:]+):`),
	}
)

// enricher is the concrete implementation of Enricher.
type enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
}

// Enrich wraps err with a category and suggestions. Errors that are already
// actionable are returned unchanged; nil stays nil. When affectedPath is
// empty the path is taken from an *fs.PathError or the message itself.
func (e *enricher) Enrich(err error, affectedPath string) error {
	if err == nil {
		return nil
	}

	if actionable, ok := AsActionable(err); ok {
		return actionable
	}

	if affectedPath == "" {
		affectedPath = extractPath(err)
	}

	category := e.matcher.Match(err)

	return NewActionableError(
		err,
		category,
		e.generator.Generate(category, affectedPath),
		affectedPath,
	)
}

// extractPath finds the path an error refers to, preferring the structured
// *fs.PathError over the message text.
func extractPath(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}

	for _, pattern := range pathExtractionPatterns {
		if matches := pattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
			if path := strings.TrimSpace(matches[1]); path != "" {
				return path
			}
		}
	}

	return ""
}
