package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

type suggestionGenerator struct{}

// advice is the fixed part of a category's suggestions. pathHint, when the
// failing path is known, is formatted with it and inserted after the lead
// lines; withoutPath replaces it when the path is unknown.
type advice struct {
	lead        []string
	pathHint    string
	withoutPath string
	tail        []string
}

//nolint:gochecknoglobals // Read-only lookup table
var adviceByCategory = map[ErrorCategory]advice{
	CategoryPermission: {
		lead:        []string{"Ensure the source is readable and the target directory is writable"},
		pathHint:    "Check permissions with 'ls -la %s'",
		withoutPath: "Check permissions with 'ls -la' on the affected path",
		tail:        []string{"Run the sync as a user that owns both trees"},
	},
	CategoryDiskSpace: {
		lead:     []string{"Free up space on the target device", "Check available space with 'df -h'"},
		pathHint: "Verify disk usage for the filesystem containing %s",
	},
	CategoryPath: {
		lead:     []string{"The file may have been moved or deleted while the sync was running"},
		pathHint: "Check if the path exists: %s",
		tail:     []string{"Ensure no file in the target tree shadows a source directory"},
	},
	CategoryCopy: {
		lead: []string{
			"Check that the target filesystem is healthy and has free space",
			"Run the sync again; the partial file will be re-copied because its size differs",
		},
		pathHint: "Inspect the partially written file: %s",
	},
	CategoryUnknown: {
		lead:     []string{"Check the error message for more details", "Re-run with --verbose to see every file decision"},
		pathHint: "Verify the path is accessible: %s",
	},
}

// Generate returns actionable suggestions based on the error category and affected path.
// Categories without their own advice get the unknown-category advice.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	entry, ok := adviceByCategory[category]
	if !ok {
		entry = adviceByCategory[CategoryUnknown]
	}

	suggestions := append([]string(nil), entry.lead...)

	switch {
	case affectedPath != "":
		suggestions = append(suggestions, fmt.Sprintf(entry.pathHint, affectedPath))
	case entry.withoutPath != "":
		suggestions = append(suggestions, entry.withoutPath)
	}

	return append(suggestions, entry.tail...)
}
