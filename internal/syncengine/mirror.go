package syncengine

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/joe/mirror-sync/pkg/fileops"
	"github.com/joe/mirror-sync/pkg/filesystem"
)

// MirrorResult is the DirectoryMirror's output.
type MirrorResult struct {
	// DirsCreated counts target directories that did not exist before.
	DirsCreated int
	// Errors holds traversal and per-directory creation failures.
	Errors []error
}

// DirectoryMirror recreates the source directory hierarchy under the target.
// It runs before any worker starts, so workers never race on ancestors.
type DirectoryMirror struct {
	fs     filesystem.FileSystem
	probe  *filesystem.Probe
	filter FileFilter
	logger *zap.Logger
}

// NewDirectoryMirror creates a DirectoryMirror.
func NewDirectoryMirror(fs filesystem.FileSystem, filter FileFilter, logger *zap.Logger) *DirectoryMirror {
	return &DirectoryMirror{fs: fs, probe: filesystem.NewProbe(fs), filter: filter, logger: logger}
}

// Mirror creates targetRoot and every directory found below sourceRoot.
// Only a failure to create targetRoot itself is returned as an error;
// everything else is logged, recorded and skipped.
func (m *DirectoryMirror) Mirror(sourceRoot, targetRoot string) (MirrorResult, error) {
	var result MirrorResult

	if !m.probe.IsDirectory(targetRoot) {
		if err := m.fs.MkdirAll(targetRoot, fileops.DefaultDirPermissions); err != nil {
			return result, fmt.Errorf("%w %s: %w", ErrTargetUncreatable, targetRoot, err)
		}

		result.DirsCreated++
	}

	walker := filesystem.Walk(m.fs, sourceRoot)

	for walker.Step() {
		current := walker.Path()

		if err := walker.Err(); err != nil {
			m.logger.Warn("cannot read directory, not mirroring subtree",
				zap.String("path", current), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Errorf("mirror %s: %w", current, err))

			continue
		}

		if current == sourceRoot || !walker.Stat().IsDir() {
			continue
		}

		rel, err := filepath.Rel(sourceRoot, current)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("mirror %s: %w", current, err))

			continue
		}

		if !m.filter.ShouldDescend(rel) {
			walker.SkipDir()

			continue
		}

		target := m.fs.Join(targetRoot, rel)
		if m.probe.IsDirectory(target) {
			continue
		}

		if err := m.fs.MkdirAll(target, fileops.DefaultDirPermissions); err != nil {
			m.logger.Warn("cannot create target directory",
				zap.String("path", target), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Errorf("mirror %s: %w", target, err))

			continue
		}

		m.logger.Debug("created directory", zap.String("path", target))
		result.DirsCreated++
	}

	return result, nil
}
