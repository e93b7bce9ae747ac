package syncengine

import (
	"time"

	"go.uber.org/zap"

	pkgerrors "github.com/joe/mirror-sync/pkg/errors"
	"github.com/joe/mirror-sync/pkg/fileops"
	"github.com/joe/mirror-sync/pkg/filesystem"
)

// Outcome classifies what happened to one task.
type Outcome int

// Task outcomes. Every outcome except OutcomeFailed counts as synced.
const (
	// OutcomeCopied means bytes were written to the target.
	OutcomeCopied Outcome = iota
	// OutcomeUpToDate means the target was left alone.
	OutcomeUpToDate
	// OutcomePending means a dry run found the target stale.
	OutcomePending
	// OutcomeFailed means the copy did not complete.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeUpToDate:
		return "up to date"
	case OutcomePending:
		return "would sync"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult is a worker's report on one task.
type FileResult struct {
	Task     FileTask
	Outcome  Outcome
	Verdict  fileops.Verdict
	Bytes    int64
	Duration time.Duration
	// Err is set for OutcomeFailed and is an ActionableError.
	Err error
	// TimesErr is set when a copy succeeded but timestamps were not applied.
	TimesErr error
}

// CopyEngine syncs a single task: it checks whether the target is current,
// simulates under dry run, and otherwise copies and propagates timestamps.
type CopyEngine struct {
	detector *fileops.ChangeDetector
	ops      *fileops.FileOps
	enricher pkgerrors.Enricher
	logger   *zap.Logger
	verbose  bool
}

// NewCopyEngine creates a CopyEngine over fs.
func NewCopyEngine(fs filesystem.FileSystem, logger *zap.Logger, verbose bool) *CopyEngine {
	return &CopyEngine{
		detector: fileops.NewChangeDetector(fs),
		ops:      fileops.NewFileOps(fs),
		enricher: pkgerrors.NewEnricher(),
		logger:   logger,
		verbose:  verbose,
	}
}

// Copy processes task. It never panics on I/O failure; failures come back
// as OutcomeFailed. A partially written target is left in place.
func (c *CopyEngine) Copy(task FileTask, dryRun bool) FileResult {
	result := FileResult{Task: task}

	result.Verdict = c.detector.Check(task.SourcePath, task.TargetPath)
	if result.Verdict.UpToDate() {
		result.Outcome = OutcomeUpToDate
		c.decision(dryRun, "skipped, up to date", task, zap.Stringer("reason", result.Verdict))

		return result
	}

	if dryRun {
		result.Outcome = OutcomePending
		c.logger.Info("would sync",
			zap.String("source", task.SourcePath),
			zap.String("target", task.TargetPath),
			zap.Int64("bytes", task.Size),
			zap.Stringer("reason", result.Verdict))

		return result
	}

	copied, err := c.ops.CopyFile(task.SourcePath, task.TargetPath)
	result.Bytes = copied.BytesCopied
	result.Duration = copied.Duration

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = c.enricher.Enrich(err, "")
		c.logger.Error("copy failed",
			zap.String("source", task.SourcePath),
			zap.String("target", task.TargetPath),
			zap.Error(err))

		return result
	}

	result.Outcome = OutcomeCopied

	if copied.TimesErr != nil {
		result.TimesErr = copied.TimesErr
		c.logger.Warn("copied but timestamps not preserved",
			zap.String("target", task.TargetPath),
			zap.Error(copied.TimesErr))
	}

	c.decision(false, "copied", task,
		zap.Int64("bytes", copied.BytesCopied),
		zap.Duration("took", copied.Duration),
		zap.Stringer("reason", result.Verdict))

	return result
}

// decision logs a per-file result at info when the user asked to see each file.
func (c *CopyEngine) decision(loud bool, msg string, task FileTask, fields ...zap.Field) {
	fields = append([]zap.Field{zap.String("path", task.RelativePath)}, fields...)

	if loud || c.verbose {
		c.logger.Info(msg, fields...)

		return
	}

	c.logger.Debug(msg, fields...)
}
