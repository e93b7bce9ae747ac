//go:build !linux

package filesystem

import (
	"os"
	"time"
)

// readTimes reports the modification time for both values where the
// platform's stat layout is not wired up.
func readTimes(path string) (time.Time, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return info.ModTime(), info.ModTime(), nil
}

func setTimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}
