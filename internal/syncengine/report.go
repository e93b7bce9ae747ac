package syncengine

import (
	"fmt"
	"time"
)

// Report is the final result of a run.
type Report struct {
	SourceRoot string
	TargetRoot string
	Workers    int
	DryRun     bool

	TotalFiles  int
	FilesSynced int
	ErrorCount  int

	FilesProcessed int
	FilesCopied    int
	FilesUpToDate  int
	FilesPending   int
	// FilesSkipped counts tasks that were never claimed.
	FilesSkipped int

	TotalBytes      int64
	BytesCopied     int64
	DirsCreated     int
	TimesWarnings   int
	TraversalErrors []error
	Failures        []FileFailure
	Duration        time.Duration
}

// Success reports whether the run finished without a per-file error.
func (r *Report) Success() bool {
	return r.ErrorCount == 0
}

// Err returns nil on success, otherwise an ErrFilesFailed wrapping the first failure.
func (r *Report) Err() error {
	if r.Success() {
		return nil
	}

	if len(r.Failures) == 0 {
		return fmt.Errorf("%w: %d", ErrFilesFailed, r.ErrorCount)
	}

	return fmt.Errorf("%w: %d (first error: %w)", ErrFilesFailed, r.ErrorCount, r.Failures[0].Err)
}

func (r *Report) apply(stats SyncStats) {
	r.FilesProcessed = stats.FilesProcessed
	r.FilesSynced = stats.FilesSynced
	r.ErrorCount = stats.ErrorCount
	r.FilesCopied = stats.FilesCopied
	r.FilesUpToDate = stats.FilesUpToDate
	r.FilesPending = stats.FilesPending
	r.BytesCopied = stats.BytesCopied
	r.TimesWarnings = stats.TimesWarnings
	r.Failures = stats.Failures
	r.FilesSkipped = r.TotalFiles - stats.FilesProcessed
}
