// Package filesystem provides an abstraction layer for filesystem operations
// so the sync engine can run against the real disk or an in-memory tree.
package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Exported constants.
const (
	// DefaultFilePermissions is the mode used for truncate-created target files.
	DefaultFilePermissions = 0o644
)

// File is an interface that abstracts file operations.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (os.FileInfo, error)
}

// FileSystem is an interface that abstracts filesystem operations.
// ReadDir, Lstat and Join make every implementation usable as a kr/fs walk source.
type FileSystem interface {
	Open(path string) (File, error)
	// Create truncates or creates path for writing.
	Create(path string) (File, error)
	MkdirAll(path string, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	// ReadDir returns the entries of dirname sorted by name.
	ReadDir(dirname string) ([]os.FileInfo, error)
	Join(elem ...string) string
	// Times returns the access and modification times of path.
	Times(path string) (atime, mtime time.Time, err error)
	SetTimes(path string, atime, mtime time.Time) error
}

// RealFileSystem implements FileSystem using the os package.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Create truncates or creates a file for writing.
func (fs *RealFileSystem) Create(path string) (File, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, DefaultFilePermissions) // #nosec G304 - path is built from the sync roots
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return file, nil
}

// Join joins path elements with the OS separator.
func (fs *RealFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat returns file information without following a trailing symlink.
func (fs *RealFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", path, err)
	}

	return info, nil
}

// MkdirAll creates a directory and all necessary parents.
func (fs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Open opens a file for reading.
func (fs *RealFileSystem) Open(path string) (File, error) {
	file, err := os.Open(path) // #nosec G304 - path is built from the sync roots
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, nil
}

// ReadDir lists a directory, sorted by entry name.
func (fs *RealFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirname, err)
	}

	infos := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between readdir and lstat.
			continue
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// SetTimes sets the access and modification times of a file.
func (fs *RealFileSystem) SetTimes(path string, atime, mtime time.Time) error {
	err := setTimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for %s: %w", path, err)
	}

	return nil
}

// Stat returns file information, following symlinks.
func (fs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}

// Times returns the access and modification times of a file.
func (fs *RealFileSystem) Times(path string) (time.Time, time.Time, error) {
	atime, mtime, err := readTimes(path)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to read times for %s: %w", path, err)
	}

	return atime, mtime, nil
}
