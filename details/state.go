package details

import (
	"errors"

	"github.com/s0up4200/recipes/recipes"
)

// ErrMissingID is reported when the seed recipe carries no identifier
var ErrMissingID = errors.New("recipe has no id")

// Phase is the lifecycle of a detail fetch
type Phase int

const (
	// PhaseIdle means only the seed recipe is shown
	PhaseIdle Phase = iota
	// PhaseLoading means the full recipe is in flight
	PhaseLoading
	// PhaseLoaded means the full recipe replaced the seed
	PhaseLoaded
	// PhaseFailed means the last fetch failed
	PhaseFailed
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseLoading:
		return "LOADING"
	case PhaseLoaded:
		return "LOADED"
	case PhaseFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// State is a snapshot of the detail screen
type State struct {
	Phase        Phase
	Recipe       recipes.Recipe
	Error        string
	ErrorVisible bool
}

// Loading reports whether a fetch is in flight
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Input seeds a Machine with a recipe to show immediately, typically the
// summary picked from a list.
type Input struct {
	Recipe recipes.Recipe
}

// Action is an intent dispatched to a Machine
type Action interface {
	action()
}

// RequestDetails fetches the full recipe for the held identifier
type RequestDetails struct{}

// DismissError hides the current error
type DismissError struct{}

func (RequestDetails) action() {}
func (DismissError) action()   {}
