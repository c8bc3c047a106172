package agent

// State tracks the runtime lifecycle. Stopped is terminal; a stopped
// runtime cannot be restarted, construct a new one instead.
type State int32

const (
	StateCreated State = iota
	StateInitialized
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
