package instance

// State is a state of a Pipeline.
type State int

const (
	Idle State = iota
	Loaded
	Instantiated
	NamesEdited
	FlagsEdited
	Saved
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loaded:
		return "Loaded"
	case Instantiated:
		return "Instantiated"
	case NamesEdited:
		return "NamesEdited"
	case FlagsEdited:
		return "FlagsEdited"
	case Saved:
		return "Saved"
	case Failed:
		return "Failed"
	}
	return "<unknown>"
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Saved || s == Failed
}

// Transition is reported to Pipeline.OnTransition for every state change.
type Transition struct {
	From, To State
	Err      error // set if To is Failed
}
