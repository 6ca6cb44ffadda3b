package actions

import "fmt"

// State is the stage an action has reached.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateValidationFailed State = "validation_failed"
	StateCallingProvider  State = "calling_provider"
	StateProviderFailed   State = "provider_failed"
	StateRedirecting      State = "redirecting"
	StateSucceeded        State = "succeeded"
)

var transitions = map[State][]State{
	StateIdle:            {StateValidating},
	StateValidating:      {StateValidationFailed, StateCallingProvider},
	StateCallingProvider: {StateProviderFailed, StateRedirecting, StateSucceeded},
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether moving from s to next is allowed.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// run tracks an action through its states.
type run struct {
	state State
}

func (r *run) to(next State) {
	if !r.state.CanTransition(next) {
		panic(fmt.Sprintf("actions: illegal transition %s -> %s", r.state, next))
	}
	r.state = next
}
