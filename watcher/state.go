package watcher

// State is the phase of a watch session.
type State int

const (
	Idle State = iota
	Debouncing
	TypeChecking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case TypeChecking:
		return "type-checking"
	}
	return "unknown"
}
