// Package syncengine mirrors a source directory tree into a target with a
// fixed pool of concurrent copy workers.
package syncengine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joe/mirror-sync/pkg/filesystem"
)

// Engine runs one synchronization. Create it with NewEngine and call Run once.
type Engine struct {
	cfg     Config
	fs      filesystem.FileSystem
	probe   *filesystem.Probe
	logger  *zap.Logger
	emitter EventEmitter
	phase   atomic.Int32

	scanner *Scanner
	mirror  *DirectoryMirror
	copier  *CopyEngine
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmitter sets the event emitter. Nil disables events.
func WithEmitter(emitter EventEmitter) Option {
	return func(e *Engine) { e.emitter = emitter }
}

// WithFileSystem replaces the real filesystem.
func WithFileSystem(fs filesystem.FileSystem) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine validates cfg and wires the engine's components.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		cfg:    cfg,
		fs:     filesystem.NewRealFileSystem(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(engine)
	}

	filter := NewGlobFilter(cfg.Include, cfg.Exclude)
	engine.probe = filesystem.NewProbe(engine.fs)
	engine.scanner = NewScanner(engine.fs, filter, engine.logger)
	engine.mirror = NewDirectoryMirror(engine.fs, filter, engine.logger)
	engine.copier = NewCopyEngine(engine.fs, engine.logger, cfg.Verbose)

	return engine, nil
}

// RunSync runs a complete synchronization and reports whether it succeeded.
// The report is nil only when cfg itself is invalid.
func RunSync(cfg Config, opts ...Option) (*Report, bool) {
	engine, err := NewEngine(cfg, opts...)
	if err != nil {
		return nil, false
	}

	report, err := engine.Run()

	return report, err == nil
}

// Phase returns the current orchestrator phase. Safe for concurrent use.
func (e *Engine) Phase() Phase {
	return Phase(e.phase.Load())
}

// Run mirrors the source into the target. A structural failure (source
// missing or not a directory, target root uncreatable) returns before any
// worker starts. Otherwise the returned report is complete and the error is
// non-nil iff at least one file failed.
func (e *Engine) Run() (*Report, error) {
	start := time.Now()
	report := &Report{
		SourceRoot: e.cfg.SourceRoot,
		TargetRoot: e.cfg.TargetRoot,
		Workers:    e.cfg.Workers,
		DryRun:     e.cfg.DryRun,
	}

	finish := func(err error) (*Report, error) {
		report.Duration = time.Since(start)
		e.setPhase(PhaseDone)
		e.emit(SyncComplete{Report: report, Err: err})

		return report, err
	}

	e.setPhase(PhaseScanning)
	e.logger.Info("starting sync",
		zap.String("source", e.cfg.SourceRoot),
		zap.String("target", e.cfg.TargetRoot),
		zap.Int("workers", e.cfg.Workers),
		zap.Bool("dry_run", e.cfg.DryRun))

	if err := e.checkSource(); err != nil {
		e.logger.Error("cannot start sync", zap.Error(err))
		e.emit(ErrorOccurred{Phase: PhaseScanning, Err: err})

		return finish(err)
	}

	if !e.cfg.DryRun {
		mirrored, err := e.mirror.Mirror(e.cfg.SourceRoot, e.cfg.TargetRoot)
		report.DirsCreated = mirrored.DirsCreated
		report.TraversalErrors = append(report.TraversalErrors, mirrored.Errors...)
		e.emitAll(mirrored.Errors)

		if err != nil {
			e.logger.Error("cannot start sync", zap.Error(err))
			e.emit(ErrorOccurred{Phase: PhaseScanning, Err: err})

			return finish(err)
		}

		e.logger.Info("directory structure mirrored", zap.Int("created", mirrored.DirsCreated))
	}

	scanned := e.scanner.Scan(e.cfg.SourceRoot, e.cfg.TargetRoot)
	report.TotalFiles = len(scanned.Tasks)
	report.TotalBytes = scanned.Bytes
	report.TraversalErrors = append(report.TraversalErrors, scanned.TraversalErrors...)
	e.emitAll(scanned.TraversalErrors)

	e.setPhase(PhaseStructureMirrored)
	e.emit(scanComplete(scanned, report))
	e.logger.Info("scan complete",
		zap.Int("files", report.TotalFiles),
		zap.Int64("bytes", report.TotalBytes),
		zap.Int("traversal_errors", len(scanned.TraversalErrors)))

	if report.TotalFiles == 0 {
		e.logger.Info("nothing to sync")

		return finish(nil)
	}

	stats := e.process(scanned.Tasks)

	e.setPhase(PhaseAggregating)
	report.apply(stats)
	e.logSummary(report, time.Since(start))

	return finish(report.Err())
}

// process runs the Copying phase and returns the aggregated counters.
func (e *Engine) process(tasks []FileTask) SyncStats {
	workers := e.cfg.Workers
	if e.cfg.DryRun {
		workers = 1
	}

	// Don't start more workers than there are files.
	workers = max(min(workers, len(tasks)), 1)

	e.setPhase(PhaseCopying)
	e.emit(SyncStarted{
		Files:   len(tasks),
		Bytes:   sumSizes(tasks),
		Workers: workers,
		DryRun:  e.cfg.DryRun,
	})

	agg := newStatsAggregator(len(tasks), workers, e.emit)

	if e.cfg.DryRun {
		for _, task := range tasks {
			agg.Record(e.copier.Copy(task, true))
		}

		return agg.Close()
	}

	queue := NewWorkQueue(tasks)

	e.logger.Info("starting workers", zap.Int("workers", workers), zap.Int("files", queue.Len()))

	var group errgroup.Group

	for range workers {
		group.Go(func() error {
			for {
				task, ok := queue.ClaimNext()
				if !ok {
					return nil
				}

				agg.Record(e.copier.Copy(task, false))
			}
		})
	}

	// Workers never return errors; per-file failures travel as results.
	_ = group.Wait()

	return agg.Close()
}

func (e *Engine) checkSource() error {
	if !e.probe.Exists(e.cfg.SourceRoot) {
		return fmt.Errorf("%w: %s", ErrSourceMissing, e.cfg.SourceRoot)
	}

	if !e.probe.IsDirectory(e.cfg.SourceRoot) {
		return fmt.Errorf("%w: %s", ErrSourceNotDirectory, e.cfg.SourceRoot)
	}

	return nil
}

// emit sends an event if an emitter is configured.
func (e *Engine) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

func (e *Engine) emitAll(errs []error) {
	for _, err := range errs {
		e.emit(ErrorOccurred{Phase: e.Phase(), Err: err})
	}
}

func (e *Engine) logSummary(report *Report, elapsed time.Duration) {
	fields := []zap.Field{
		zap.Int("total", report.TotalFiles),
		zap.Int("synced", report.FilesSynced),
		zap.Int("copied", report.FilesCopied),
		zap.Int("up_to_date", report.FilesUpToDate),
		zap.Int("errors", report.ErrorCount),
		zap.Int64("bytes_copied", report.BytesCopied),
		zap.Duration("elapsed", elapsed),
	}

	if report.DryRun {
		fields = append(fields, zap.Int("would_sync", report.FilesPending))
	}

	if report.Success() {
		e.logger.Info("sync finished", fields...)

		return
	}

	e.logger.Error("sync finished with errors", fields...)

	for _, failure := range report.Failures {
		e.logger.Error("failed file", zap.String("source", failure.SourcePath), zap.Error(failure.Err))
	}
}

func (e *Engine) setPhase(phase Phase) {
	e.phase.Store(int32(phase))
	e.logger.Debug("phase", zap.Stringer("phase", phase))
	e.emit(PhaseChanged{Phase: phase})
}

// IsStructural reports whether err stopped a run before any file was processed.
func IsStructural(err error) bool {
	return errors.Is(err, ErrSourceMissing) ||
		errors.Is(err, ErrSourceNotDirectory) ||
		errors.Is(err, ErrTargetUncreatable)
}

func scanComplete(scanned ScanResult, report *Report) ScanComplete {
	event := ScanComplete{
		Files:           len(scanned.Tasks),
		Bytes:           scanned.Bytes,
		DirsCreated:     report.DirsCreated,
		TraversalErrors: len(report.TraversalErrors),
	}

	for _, task := range scanned.Tasks {
		if task.NeedsSync {
			event.StaleFiles++
			event.StaleBytes += task.Size
		}
	}

	return event
}

func sumSizes(tasks []FileTask) int64 {
	var total int64
	for _, task := range tasks {
		total += task.Size
	}

	return total
}
