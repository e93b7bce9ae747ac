package fileops

import (
	"time"

	"github.com/joe/mirror-sync/pkg/filesystem"
)

// ContentCheckThreshold is the size below which files with matching sizes but
// differing modification times are compared byte for byte (1 MiB).
const ContentCheckThreshold = 1 << 20

// Verdict is the outcome of a change check.
type Verdict int

// Verdicts, in the order the checks run.
const (
	// TargetMissing means the target does not exist.
	TargetMissing Verdict = iota
	// SizeDiffers means the sizes do not match.
	SizeDiffers
	// SameModTime means size and modification time match. Content is not read.
	SameModTime
	// ContentIdentical means times differ but a byte comparison matched.
	ContentIdentical
	// ContentDiffers means times differ and the byte comparison failed or mismatched.
	ContentDiffers
	// LargeModTimeDiffers means times differ on a file too large to compare.
	LargeModTimeDiffers
	// StatFailed means the target exists but the size or mtime of either
	// side could not be read.
	StatFailed
)

// UpToDate reports whether the verdict means no copy is needed.
func (v Verdict) UpToDate() bool {
	return v == SameModTime || v == ContentIdentical
}

func (v Verdict) String() string {
	switch v {
	case TargetMissing:
		return "target missing"
	case SizeDiffers:
		return "size differs"
	case SameModTime:
		return "same size and mtime"
	case ContentIdentical:
		return "content identical"
	case ContentDiffers:
		return "content differs"
	case LargeModTimeDiffers:
		return "mtime differs"
	case StatFailed:
		return "metadata unreadable"
	default:
		return "unknown"
	}
}

// ChangeDetector decides whether a target file already mirrors its source.
type ChangeDetector struct {
	probe *filesystem.Probe
	ops   *FileOps
}

// NewChangeDetector creates a ChangeDetector over fs.
func NewChangeDetector(fs filesystem.FileSystem) *ChangeDetector {
	return &ChangeDetector{
		probe: filesystem.NewProbe(fs),
		ops:   NewFileOps(fs),
	}
}

// IsUpToDate reports whether targetPath can be left alone.
func (d *ChangeDetector) IsUpToDate(sourcePath, targetPath string) bool {
	return d.Check(sourcePath, targetPath).UpToDate()
}

// Check runs the change policy and reports which rule decided it.
//
// Modification times are compared at whole-second resolution, so a target
// whose mtime was copied through a coarser filesystem still matches.
func (d *ChangeDetector) Check(sourcePath, targetPath string) Verdict {
	if !d.probe.Exists(targetPath) {
		return TargetMissing
	}

	size, err := d.probe.Size(sourcePath)
	if err != nil {
		return StatFailed
	}

	targetSize, err := d.probe.Size(targetPath)
	if err != nil {
		return StatFailed
	}

	if size != targetSize {
		return SizeDiffers
	}

	sourceTime, err := d.probe.ModTime(sourcePath)
	if err != nil {
		return StatFailed
	}

	targetTime, err := d.probe.ModTime(targetPath)
	if err != nil {
		return StatFailed
	}

	if sameSecond(sourceTime, targetTime) {
		return SameModTime
	}

	if size >= ContentCheckThreshold {
		return LargeModTimeDiffers
	}

	identical, err := d.ops.CompareFilesBytes(sourcePath, targetPath)
	if err != nil || !identical {
		return ContentDiffers
	}

	return ContentIdentical
}

func sameSecond(a, b time.Time) bool {
	return a.Unix() == b.Unix()
}
