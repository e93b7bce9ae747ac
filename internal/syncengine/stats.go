package syncengine

// FileFailure records one failed task for the report.
type FileFailure struct {
	SourcePath string
	TargetPath string
	Err        error
}

// SyncStats are the run counters. At the end of a run
// FilesProcessed == FilesSynced + ErrorCount, and
// FilesSynced == FilesCopied + FilesUpToDate + FilesPending.
type SyncStats struct {
	FilesProcessed int
	FilesSynced    int
	ErrorCount     int
	FilesCopied    int
	FilesUpToDate  int
	FilesPending   int
	BytesCopied    int64
	// BytesDone sums task sizes of processed files, for progress.
	BytesDone     int64
	TimesWarnings int
	Failures      []FileFailure
}

func (s *SyncStats) record(result FileResult) {
	s.FilesProcessed++
	s.BytesDone += result.Task.Size

	switch result.Outcome {
	case OutcomeFailed:
		s.ErrorCount++
		s.Failures = append(s.Failures, FileFailure{
			SourcePath: result.Task.SourcePath,
			TargetPath: result.Task.TargetPath,
			Err:        result.Err,
		})

		return
	case OutcomeCopied:
		s.FilesCopied++
		s.BytesCopied += result.Bytes
	case OutcomeUpToDate:
		s.FilesUpToDate++
	case OutcomePending:
		s.FilesPending++
	}

	s.FilesSynced++

	if result.TimesErr != nil {
		s.TimesWarnings++
	}
}

// statsAggregator owns SyncStats. Workers hand it results over a channel and
// one goroutine applies them, so the counters need no lock.
type statsAggregator struct {
	results chan FileResult
	done    chan struct{}
	total   int
	emit    func(Event)
	stats   SyncStats
}

func newStatsAggregator(total, workers int, emit func(Event)) *statsAggregator {
	agg := &statsAggregator{
		results: make(chan FileResult, workers),
		done:    make(chan struct{}),
		total:   total,
		emit:    emit,
	}

	go agg.run()

	return agg
}

// Record hands a result to the aggregator. Safe for concurrent use until Close.
func (a *statsAggregator) Record(result FileResult) {
	a.results <- result
}

// Close stops intake, waits for every recorded result to be applied and
// returns the final counters. Call only after all Record calls returned.
func (a *statsAggregator) Close() SyncStats {
	close(a.results)
	<-a.done

	return a.stats
}

func (a *statsAggregator) run() {
	defer close(a.done)

	for result := range a.results {
		a.stats.record(result)
		a.emit(FileCompleted{
			Result:    result,
			Processed: a.stats.FilesProcessed,
			Total:     a.total,
			BytesDone: a.stats.BytesDone,
		})
	}
}
