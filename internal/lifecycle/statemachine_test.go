package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	stateStart State = "START"
	stateA     State = "A"
	stateB     State = "B"
	stateEnd   State = "END"
)

func TestMachineRunsToEnd(t *testing.T) {
	var trace []State
	m := NewMachine().
		On(stateStart, func() Result {
			trace = append(trace, stateStart)
			return Result{State: stateA}
		}).
		On(stateA, func() Result {
			trace = append(trace, stateA)
			return Result{State: stateEnd}
		})

	m.Run(stateStart, stateEnd)

	assert.Equal(t, []State{stateStart, stateA}, trace)
	assert.Nil(t, m.FirstErr())
}

func TestMachineFirstErrWinsOverLaterErr(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	m := NewMachine().
		On(stateStart, func() Result { return Result{State: stateA, Err: errFirst} }).
		On(stateA, func() Result { return Result{State: stateEnd, Err: errSecond} })

	m.Run(stateStart, stateEnd)

	assert.Equal(t, errFirst, m.FirstErr())
}

func TestMachineNoteDoesNotAffectControlFlow(t *testing.T) {
	errNote := errors.New("post-hook failure")
	var reached []State

	m := NewMachine().
		On(stateStart, func() Result {
			reached = append(reached, stateStart)
			return Result{State: stateEnd}
		})
	m.Note(errNote)
	m.Run(stateStart, stateEnd)

	assert.Equal(t, []State{stateStart}, reached)
	assert.Equal(t, errNote, m.FirstErr(), "a noted throwable observed before any transition failure must still win")
}

func TestMachineDuplicateRegistrationPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewMachine().
			On(stateStart, func() Result { return Result{State: stateEnd} }).
			On(stateStart, func() Result { return Result{State: stateEnd} })
	})
}

func TestMachineMissingActionPanics(t *testing.T) {
	m := NewMachine().On(stateStart, func() Result { return Result{State: stateA} })
	assert.Panics(t, func() {
		m.Run(stateStart, stateEnd)
	})
}
