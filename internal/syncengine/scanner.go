package syncengine

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/joe/mirror-sync/pkg/filesystem"
)

// ScanResult is the Scanner's output.
type ScanResult struct {
	Tasks []FileTask
	// Bytes is the total size of all tasks.
	Bytes int64
	// TraversalErrors holds one entry per subtree that could not be read.
	TraversalErrors []error
}

// Scanner walks the source tree and turns every regular file into a FileTask.
type Scanner struct {
	fs     filesystem.FileSystem
	filter FileFilter
	logger *zap.Logger
}

// NewScanner creates a Scanner.
func NewScanner(fs filesystem.FileSystem, filter FileFilter, logger *zap.Logger) *Scanner {
	return &Scanner{fs: fs, filter: filter, logger: logger}
}

// Scan enumerates sourceRoot depth-first in directory order. Target paths
// keep the relative path below the root unchanged. Directories, symlinks
// and special files never become tasks. Unreadable subtrees are recorded
// and skipped.
func (s *Scanner) Scan(sourceRoot, targetRoot string) ScanResult {
	var result ScanResult

	walker := filesystem.Walk(s.fs, sourceRoot)

	for walker.Step() {
		current := walker.Path()

		if err := walker.Err(); err != nil {
			s.logger.Warn("cannot read directory, skipping subtree",
				zap.String("path", current), zap.Error(err))
			result.TraversalErrors = append(result.TraversalErrors, fmt.Errorf("scan %s: %w", current, err))

			continue
		}

		if current == sourceRoot {
			continue
		}

		rel, err := filepath.Rel(sourceRoot, current)
		if err != nil {
			result.TraversalErrors = append(result.TraversalErrors, fmt.Errorf("scan %s: %w", current, err))

			continue
		}

		info := walker.Stat()

		if info.IsDir() {
			if !s.filter.ShouldDescend(rel) {
				s.logger.Debug("excluded directory", zap.String("path", rel))
				walker.SkipDir()
			}

			continue
		}

		if !info.Mode().IsRegular() {
			s.logger.Debug("skipping non-regular file", zap.String("path", rel), zap.Stringer("mode", info.Mode()))

			continue
		}

		if !s.filter.ShouldInclude(rel) {
			continue
		}

		task := FileTask{
			SourcePath:   current,
			TargetPath:   s.fs.Join(targetRoot, rel),
			RelativePath: rel,
			Size:         info.Size(),
		}
		task.NeedsSync = s.certainlyStale(task)

		result.Tasks = append(result.Tasks, task)
		result.Bytes += task.Size
	}

	return result
}

// certainlyStale reports whether a single stat of the target proves a copy is needed.
func (s *Scanner) certainlyStale(task FileTask) bool {
	info, err := s.fs.Stat(task.TargetPath)

	return err != nil || info.Size() != task.Size
}
