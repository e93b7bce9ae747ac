package syncengine

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter defines the interface for filtering paths during a sync.
// Paths are relative to the source root.
type FileFilter interface {
	// ShouldInclude reports whether a regular file becomes a task.
	ShouldInclude(relativePath string) bool
	// ShouldDescend reports whether a directory is mirrored and walked.
	ShouldDescend(relativePath string) bool
}

// GlobFilter implements FileFilter with case-insensitive doublestar patterns.
// A pattern without a separator also matches against the base name, so
// "*.tmp" excludes temp files at any depth.
type GlobFilter struct {
	include []string
	exclude []string
}

// NewGlobFilter creates a GlobFilter. Empty include means every file.
func NewGlobFilter(include, exclude []string) *GlobFilter {
	return &GlobFilter{
		include: normalizePatterns(include),
		exclude: normalizePatterns(exclude),
	}
}

// ShouldDescend reports whether a directory survives the exclude patterns.
func (f *GlobFilter) ShouldDescend(relativePath string) bool {
	return !matchAny(f.exclude, relativePath)
}

// ShouldInclude reports whether a file is not excluded and matches an include pattern.
func (f *GlobFilter) ShouldInclude(relativePath string) bool {
	if matchAny(f.exclude, relativePath) {
		return false
	}

	return len(f.include) == 0 || matchAny(f.include, relativePath)
}

func matchAny(patterns []string, relativePath string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalizedPath := strings.ToLower(filepath.ToSlash(relativePath))
	base := path.Base(normalizedPath)

	for _, pattern := range patterns {
		// Invalid patterns never match.
		if matched, _ := doublestar.Match(pattern, normalizedPath); matched {
			return true
		}

		if !strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, base); matched {
				return true
			}
		}
	}

	return false
}

func normalizePatterns(patterns []string) []string {
	normalized := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalized = append(normalized, strings.ToLower(filepath.ToSlash(pattern)))
	}

	return normalized
}
