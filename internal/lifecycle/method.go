package lifecycle

import (
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/interceptor"
	"github.com/verifyica-go/verifyica/internal/listener"
	"github.com/verifyica-go/verifyica/internal/vcontext"
	"github.com/verifyica-go/verifyica/internal/verrors"
)

// Per-test-method states.
const (
	MethodStart            State = "START"
	MethodBeforeEachSuccess State = "BEFORE_EACH_SUCCESS"
	MethodBeforeEachFailure State = "BEFORE_EACH_FAILURE"
	MethodTestSuccess       State = "TEST_SUCCESS"
	MethodTestFailure       State = "TEST_FAILURE"
	MethodAfterEachSuccess  State = "AFTER_EACH_SUCCESS"
	MethodAfterEachFailure  State = "AFTER_EACH_FAILURE"
	MethodEnd               State = "END"
)

// MethodOutcome is the result of running one test method through its
// lifecycle.
type MethodOutcome struct {
	Status listener.Status
	Err    error
}

// RunTestMethod drives the per-test-method state machine: beforeEach ->
// test (skipped if beforeEach failed) -> afterEach, always.
// A *verrors.SkipRequest raised by any user method marks the test Aborted
// instead of Failed, and afterEach still runs.
func RunTestMethod(pipeline *interceptor.Pipeline, execListener listener.ExecutionListener, instance any, argCtx *vcontext.ArgumentContext, node *descriptor.TestMethodDescriptor) MethodOutcome {
	execListener.Started(node.ID())

	if node.Disabled() {
		execListener.Skipped(node.ID(), "disabled")
		execListener.Finished(node.ID(), listener.Aborted, nil)
		return MethodOutcome{Status: listener.Aborted}
	}

	return runMethodMachine(pipeline, execListener, instance, argCtx, node)
}

// runMethodMachine builds and runs the state table described above.
func runMethodMachine(pipeline *interceptor.Pipeline, execListener listener.ExecutionListener, instance any, argCtx *vcontext.ArgumentContext, node *descriptor.TestMethodDescriptor) MethodOutcome {
	mutableCtx := argCtx.Mutable()
	immutableCtx := argCtx.Immutable()

	m := NewMachine()
	m.On(MethodStart, func() Result {
		err, postErrs := pipeline.BeforeEach(mutableCtx, instance, node.BeforeEach())
		for _, pe := range postErrs {
			m.Note(pe)
		}
		if err != nil {
			return Result{State: MethodBeforeEachFailure, Err: err}
		}
		return Result{State: MethodBeforeEachSuccess}
	})
	m.On(MethodBeforeEachSuccess, func() Result {
		err, postErrs := pipeline.Test(immutableCtx, instance, node.TestMethod())
		for _, pe := range postErrs {
			m.Note(pe)
		}
		if err != nil {
			return Result{State: MethodTestFailure, Err: err}
		}
		return Result{State: MethodTestSuccess}
	})
	m.On(MethodBeforeEachFailure, func() Result {
		return Result{State: MethodTestFailure}
	})
	m.OnAny([]State{MethodTestSuccess, MethodTestFailure}, func() Result {
		err, postErrs := pipeline.AfterEach(mutableCtx, instance, node.AfterEach())
		for _, pe := range postErrs {
			m.Note(pe)
		}
		if err != nil {
			return Result{State: MethodAfterEachFailure, Err: err}
		}
		return Result{State: MethodAfterEachSuccess}
	})
	m.OnAny([]State{MethodAfterEachSuccess, MethodAfterEachFailure}, func() Result {
		return Result{State: MethodEnd}
	})

	m.Run(MethodStart, MethodEnd)

	err := m.FirstErr()
	status := listener.Successful
	if err != nil {
		if verrors.IsSkip(err) {
			status = listener.Aborted
		} else {
			status = listener.Failed
		}
	}

	execListener.Finished(node.ID(), status, err)
	return MethodOutcome{Status: status, Err: err}
}

// SkipTestMethod announces node as skipped (e.g. because the owning argument's
// beforeAll failed, or the class is in scenario mode and a prior test
// already failed) without running any lifecycle method.
func SkipTestMethod(execListener listener.ExecutionListener, node *descriptor.TestMethodDescriptor, reason string) {
	execListener.Started(node.ID())
	execListener.Skipped(node.ID(), reason)
	execListener.Finished(node.ID(), listener.Aborted, nil)
}
