package forms

import (
	"errors"
	"fmt"
)

// State is a step of the submit lifecycle.
type State int

const (
	Editing State = iota
	Validating
	Invalid
	Submitting
	Succeeded
	Failed
)

var stateNames = map[State]string{
	Editing:    "editing",
	Validating: "validating",
	Invalid:    "invalid",
	Submitting: "submitting",
	Succeeded:  "success",
	Failed:     "failure",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrIllegalTransition = errors.New("illegal form state transition")

var transitions = map[State][]State{
	Editing:    {Validating},
	Validating: {Invalid, Submitting},
	Invalid:    {Editing},
	Submitting: {Succeeded, Failed},
	Succeeded:  {Editing},
	Failed:     {Editing},
}

// Machine tracks one submission attempt.
type Machine struct {
	state   State
	history []State
}

func NewMachine() *Machine {
	return &Machine{state: Editing, history: []State{Editing}}
}

func (m *Machine) State() State { return m.state }

// History lists every state visited, in order.
func (m *Machine) History() []State {
	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}

// To moves to next, or returns ErrIllegalTransition.
func (m *Machine) To(next State) error {
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			m.history = append(m.history, next)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.state, next)
}
