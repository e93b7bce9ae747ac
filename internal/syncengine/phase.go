package syncengine

// Phase is the orchestrator's position in a run. Phases only move forward.
type Phase int

// Phases in the order a run passes through them.
const (
	// PhaseScanning covers source validation and both tree walks.
	PhaseScanning Phase = iota
	// PhaseStructureMirrored means the target tree exists and the task list is final.
	PhaseStructureMirrored
	// PhaseCopying is the only concurrent phase.
	PhaseCopying
	// PhaseAggregating runs after every worker has returned.
	PhaseAggregating
	// PhaseDone means the report is final.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "scanning"
	case PhaseStructureMirrored:
		return "structure mirrored"
	case PhaseCopying:
		return "copying"
	case PhaseAggregating:
		return "aggregating"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}
