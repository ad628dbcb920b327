package fetch

// State is the lifecycle of a single fetch flow.
type State int

const (
	// Idle is the initial state; no request has been issued.
	Idle State = iota
	// Loading means exactly one request is outstanding and the indicator is visible.
	Loading
	// Success holds the fetched list.
	Success
	// Failed holds the error message shown to the user.
	Failed
	// Cancelled means the request was abandoned by the user or the owner.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of Success, Failed or Cancelled.
func (s State) Terminal() bool {
	return s == Success || s == Failed || s == Cancelled
}
