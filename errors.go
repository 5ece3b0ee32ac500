package petrisim

import (
	"fmt"
	"time"
)

// StructuralError reports a net or marking definition that references
// unknown or malformed elements. It is raised at load time, before any run
// starts.
type StructuralError struct {
	Kind   string
	ID     string
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s %q: %s", e.Kind, e.ID, e.Detail)
}

// PreconditionError reports an attempt to fire a transition that is not
// enabled. It is an internal invariant violation and is always fatal; the
// marking snapshot records the state at the moment of failure.
type PreconditionError struct {
	TransitionID string
	Marking      Marking
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition error: transition %q is not enabled under %s", e.TransitionID, e.Marking)
}

// InteractionTimeoutError reports an interactive suspension that exceeded
// its configured timeout before a choice arrived.
type InteractionTimeoutError struct {
	Timeout time.Duration
}

func (e *InteractionTimeoutError) Error() string {
	return fmt.Sprintf("interaction timed out after %s", e.Timeout)
}

// ReplayOutOfRangeError reports a replay index outside [0, history length].
type ReplayOutOfRangeError struct {
	Index int
	Len   int
}

func (e *ReplayOutOfRangeError) Error() string {
	return fmt.Sprintf("replay index %d out of range [0, %d]", e.Index, e.Len)
}
