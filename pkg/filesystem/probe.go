package filesystem

import (
	"fmt"
	"time"
)

// Probe answers metadata questions about a single path. Exists and
// IsDirectory answer false when the path cannot be inspected; Size and
// ModTime return the stat error instead of a zero value.
type Probe struct {
	fs FileSystem
}

// NewProbe creates a Probe backed by fs.
func NewProbe(fs FileSystem) *Probe {
	return &Probe{fs: fs}
}

// Exists reports whether path can be stat'ed.
func (p *Probe) Exists(path string) bool {
	_, err := p.fs.Stat(path)

	return err == nil
}

// IsDirectory reports whether path exists and is a directory.
func (p *Probe) IsDirectory(path string) bool {
	info, err := p.fs.Stat(path)

	return err == nil && info.IsDir()
}

// ModTime returns the modification time of path.
func (p *Probe) ModTime(path string) (time.Time, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read modification time: %w", err)
	}

	return info.ModTime(), nil
}

// Size returns the size of path in bytes.
func (p *Probe) Size(path string) (int64, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read size: %w", err)
	}

	return info.Size(), nil
}
