// Package lifecycle implements the per-argument, per-test-method, and
// per-class state machines that sequence prepare/beforeAll/beforeEach/
// test/afterEach/afterAll/conclude with strict failure-propagation rules:
// teardown paths always run, and a node's reported outcome is the first
// throwable observed on any path through it.
package lifecycle

import "fmt"

// State is a state machine state, a plain comparable label rather than a
// Java-style enum; each machine below defines its own small set of
// string constants.
type State string

// Result is one state machine step's outcome: the state reached and, if
// that step failed, the error observed.
type Result struct {
	State State
	Err   error
}

// Action computes the next Result for the state it is registered under.
type Action func() Result

// Machine runs a table of Actions from a start state to an end state,
// recording every intermediate Result. It is a direct translation of the
// engine's original per-node executor, generalized over State.
type Machine struct {
	actions map[State]Action
	results []Result
}

// NewMachine creates an empty Machine.
func NewMachine() *Machine {
	return &Machine{actions: make(map[State]Action)}
}

// On registers action for state. Registering a second action for the same
// state is a programming error and panics, matching the "no state
// registered twice" invariant enforced by the original Java StateMachine.
func (m *Machine) On(state State, action Action) *Machine {
	if _, exists := m.actions[state]; exists {
		panic(fmt.Sprintf("lifecycle: action already registered for state %q", state))
	}
	m.actions[state] = action
	return m
}

// OnAny registers action for every state in states.
func (m *Machine) OnAny(states []State, action Action) *Machine {
	for _, s := range states {
		m.On(s, action)
	}
	return m
}

// Run executes the machine from start until end is reached, following
// each Action's reported next state.
func (m *Machine) Run(start, end State) *Machine {
	state := start
	m.results = append(m.results, Result{State: state})

	for state != end {
		action, ok := m.actions[state]
		if !ok {
			panic(fmt.Sprintf("lifecycle: no action registered for state %q", state))
		}
		result := action()
		m.results = append(m.results, result)
		state = result.State
	}

	return m
}

// FirstErr returns the first error recorded on any transition, or nil if
// every step succeeded. This is the node's reported outcome: the first
// throwable observed on any path through it.
func (m *Machine) FirstErr() error {
	for _, r := range m.results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Results returns every recorded step, in execution order.
func (m *Machine) Results() []Result {
	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}

// Note records a throwable observed off the main transition path (a
// post-hook or teardown failure) into the same chronological stream
// FirstErr scans, without affecting control flow: such throwables are
// captured but only surface in the node's reported result if no earlier
// throwable already exists.
func (m *Machine) Note(err error) {
	if err != nil {
		m.results = append(m.results, Result{Err: err})
	}
}
