package session

// State is the lifecycle phase of a session controller.
type State int

const (
	// StateIdle means no session has been opened yet.
	StateIdle State = iota
	// StateConnecting means a connect is in progress.
	StateConnecting
	// StateOpen means the session is live: audio is streaming both ways.
	StateOpen
	// StateClosed means the session ended cleanly.
	StateClosed
	// StateFailed means the session ended with an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Connectable reports whether Connect may be called from this state.
func (s State) Connectable() bool {
	switch s {
	case StateIdle, StateClosed, StateFailed:
		return true
	default:
		return false
	}
}
