//go:build linux

package filesystem

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

func readTimes(path string) (time.Time, time.Time, error) {
	var st unix.Stat_t

	err := unix.Stat(path, &st)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return time.Unix(st.Atim.Unix()), time.Unix(st.Mtim.Unix()), nil
}

// setTimes returns ERANGE for times the platform timespec cannot hold.
func setTimes(path string, atime, mtime time.Time) error {
	ats, err := unix.TimeToTimespec(atime)
	if err != nil {
		return fmt.Errorf("access time %s: %w", atime.Format(time.RFC3339), err)
	}

	mts, err := unix.TimeToTimespec(mtime)
	if err != nil {
		return fmt.Errorf("modification time %s: %w", mtime.Format(time.RFC3339), err)
	}

	return unix.UtimesNano(path, []unix.Timespec{ats, mts})
}
