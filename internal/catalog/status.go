package catalog

import "github.com/benjaminRoberts01375/Stingray-sub001/internal/media"

// State is the load state of a library or of the whole sync.
type State int

const (
	StateUnloaded State = iota
	StateRetrieving
	StateAvailable
	StateComplete
	StateError
)

func (s State) String() string {
	switch s {
	case StateRetrieving:
		return "retrieving"
	case StateAvailable:
		return "available"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	default:
		return "unloaded"
	}
}

// validTransitions defines allowed library state transitions.
// Available may repeat: every page republishes the grown list.
var validTransitions = map[State][]State{
	StateUnloaded:   {StateRetrieving, StateError},
	StateRetrieving: {StateAvailable, StateComplete, StateError},
	StateAvailable:  {StateAvailable, StateComplete, StateError},
	StateComplete:   {StateError},
	StateError:      {},
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s State) CanTransitionTo(target State) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a library in this state has finished loading.
func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateError
}

// HasMedia reports whether media can be read in this state.
func (s State) HasMedia() bool {
	return s == StateAvailable || s == StateComplete
}

// LoadStatus is a library's published status. Media is only set in
// Available and Complete; Err only in Error. Published values are never
// mutated afterwards.
type LoadStatus struct {
	State State
	Media []*media.Media
	Err   error
}

// SyncStatus is the process-wide sync status.
type SyncStatus struct {
	State State
	Err   error
}
