package executor

import "fmt"

// State is the lifecycle state of the task run.
type State int

const (
	Pending State = iota
	Running
	Succeeded
	Failed
	Aborted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Running:
		return "RUNNING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	case Aborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("STATE(%d)", int(s))
	}
}

// IsTerminal reports whether the state ends the run. Failed is not
// terminal: a failed attempt either re-enters Running or the run aborts.
func IsTerminal(s State) bool {
	return s == Succeeded || s == Aborted
}

// allowedTransition encodes the task lifecycle:
// Pending -> Running -> {Succeeded, Failed}, Failed -> Running (retry),
// Failed -> Aborted (budget exhausted), Running -> Aborted (cancellation).
func allowedTransition(from, to State) bool {
	switch from {
	case Pending:
		return to == Running
	case Running:
		return to == Succeeded || to == Failed || to == Aborted
	case Failed:
		return to == Running || to == Aborted
	default:
		return false
	}
}

// transition performs a validated state change. An invalid transition is a
// bug in the executor, surfaced rather than silently absorbed.
func (r *RunResult) transition(to State) error {
	if !allowedTransition(r.State, to) {
		return fmt.Errorf("disallowed task transition: %s -> %s", r.State, to)
	}
	r.State = to
	return nil
}
