package control

// State is the controller's lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Interactive
	Completed
	Deadlocked
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	case Interactive:
		return "INTERACTIVE"
	case Completed:
		return "COMPLETED"
	case Deadlocked:
		return "DEADLOCKED"
	case Errored:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the run has ended. Both terminal states are
// states, not errors.
func (s State) Terminal() bool {
	return s == Completed || s == Deadlocked
}
