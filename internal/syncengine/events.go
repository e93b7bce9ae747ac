package syncengine

// Event is the interface implemented by all sync engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
// Emit is only ever called from one goroutine at a time.
type EventEmitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(Event)

// Emit calls f(event).
func (f EmitterFunc) Emit(event Event) { f(event) }

// PhaseChanged is emitted on every orchestrator state transition.
type PhaseChanged struct {
	Phase Phase
}

func (PhaseChanged) isEvent() {}

// ScanComplete is emitted once the task list is final.
type ScanComplete struct {
	Files int
	Bytes int64
	// StaleFiles and StaleBytes cover tasks whose target is missing or a
	// different size; the rest still need a full check.
	StaleFiles      int
	StaleBytes      int64
	DirsCreated     int
	TraversalErrors int
}

func (ScanComplete) isEvent() {}

// SyncStarted is emitted when task processing begins.
type SyncStarted struct {
	Files   int
	Bytes   int64
	Workers int
	DryRun  bool
}

func (SyncStarted) isEvent() {}

// FileCompleted is emitted by the aggregator after it records each result.
type FileCompleted struct {
	Result FileResult
	// Processed is the number of results recorded so far, this one included.
	Processed int
	Total     int
	// BytesDone sums task sizes of processed files, copied or not.
	BytesDone int64
}

func (FileCompleted) isEvent() {}

// SyncComplete is emitted once with the final report.
type SyncComplete struct {
	Report *Report
	Err    error
}

func (SyncComplete) isEvent() {}

// ErrorOccurred is emitted for failures that are not tied to a task:
// structural failures and unreadable or uncreatable directories.
type ErrorOccurred struct {
	Phase Phase
	Err   error
}

func (ErrorOccurred) isEvent() {}
