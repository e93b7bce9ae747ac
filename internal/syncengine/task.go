package syncengine

import "sync"

// FileTask is one file's pending source to target copy. Tasks are built by
// the Scanner and never modified afterwards.
type FileTask struct {
	SourcePath   string
	TargetPath   string
	RelativePath string
	Size         int64
	// NeedsSync is true when a stat of the target at scan time already proved
	// a copy is required (target absent or size mismatch). It feeds the plan
	// estimate; the copy engine repeats the full check before acting.
	NeedsSync bool
}

// WorkQueue hands out each task to exactly one caller.
type WorkQueue struct {
	mu     sync.Mutex
	tasks  []FileTask
	cursor int
}

// NewWorkQueue creates a queue over a private copy of tasks.
func NewWorkQueue(tasks []FileTask) *WorkQueue {
	return &WorkQueue{tasks: append([]FileTask(nil), tasks...)}
}

// ClaimNext returns the next unclaimed task, or false when the queue is exhausted.
func (q *WorkQueue) ClaimNext() (FileTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cursor >= len(q.tasks) {
		return FileTask{}, false
	}

	task := q.tasks[q.cursor]
	q.cursor++

	return task, true
}

// Claimed returns how many tasks have been handed out.
func (q *WorkQueue) Claimed() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.cursor
}

// Len returns the total number of tasks.
func (q *WorkQueue) Len() int {
	return len(q.tasks)
}
