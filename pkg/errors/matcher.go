package errors

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"syscall"
)

// PatternMatcher maps an error to a category.
type PatternMatcher interface {
	Match(err error) ErrorCategory
}

// NewPatternMatcher creates a PatternMatcher that checks well-known sentinel
// errors first and then falls back to message patterns.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		sentinels: []sentinelRule{
			{target: fs.ErrPermission, category: CategoryPermission},
			{target: syscall.EACCES, category: CategoryPermission},
			{target: syscall.EPERM, category: CategoryPermission},
			{target: syscall.ENOSPC, category: CategoryDiskSpace},
			{target: syscall.EDQUOT, category: CategoryDiskSpace},
			{target: fs.ErrNotExist, category: CategoryPath},
			{target: syscall.ENOTDIR, category: CategoryPath},
			{target: io.ErrShortWrite, category: CategoryCopy},
			{target: syscall.EIO, category: CategoryCopy},
		},
		patterns: []patternRule{
			{category: CategoryPermission, needles: []string{
				"permission denied",
				"access denied",
				"operation not permitted",
			}},
			{category: CategoryDiskSpace, needles: []string{
				"no space left on device",
				"disk full",
				"quota exceeded",
			}},
			{category: CategoryPath, needles: []string{
				"no such file or directory",
				"not a directory",
				"file not found",
			}},
			{category: CategoryCopy, needles: []string{
				"short write",
				"input/output error",
				"i/o error",
			}},
		},
	}
}

type patternMatcher struct {
	sentinels []sentinelRule
	patterns  []patternRule
}

type patternRule struct {
	category ErrorCategory
	needles  []string
}

type sentinelRule struct {
	target   error
	category ErrorCategory
}

// Match returns the category of err, or CategoryUnknown.
func (m *patternMatcher) Match(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	for _, rule := range m.sentinels {
		if errors.Is(err, rule.target) {
			return rule.category
		}
	}

	lowerMsg := strings.ToLower(err.Error())

	for _, rule := range m.patterns {
		for _, needle := range rule.needles {
			if strings.Contains(lowerMsg, needle) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}
