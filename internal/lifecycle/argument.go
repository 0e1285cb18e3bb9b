package lifecycle

import (
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/interceptor"
	"github.com/verifyica-go/verifyica/internal/listener"
	"github.com/verifyica-go/verifyica/internal/store"
	"github.com/verifyica-go/verifyica/internal/vcontext"
)

// Per-argument states.
const (
	ArgStart              State = "START"
	ArgBeforeAllSuccess    State = "BEFORE_ALL_SUCCESS"
	ArgBeforeAllFailure    State = "BEFORE_ALL_FAILURE"
	ArgExecute             State = "EXECUTE"
	ArgSkip                State = "SKIP"
	ArgAfterAll            State = "AFTER_ALL"
	ArgAutoCloseArgument   State = "AUTO_CLOSE_ARGUMENT"
	ArgAutoCloseStore      State = "AUTO_CLOSE_STORE"
	ArgEnd                 State = "END"
)

// ArgumentOutcome is the result of running one argument subtree.
type ArgumentOutcome struct {
	Status listener.Status
	Err    error
}

// RunArgument drives the per-argument state machine: beforeAll, then every
// test method child (skipped entirely if beforeAll failed), then afterAll,
// then auto-close of the argument's payload and its Store, always — in
// that order, regardless of what failed above. In scenario mode a failing
// test method aborts its remaining siblings instead of running them.
func RunArgument(pipeline *interceptor.Pipeline, execListener listener.ExecutionListener, classCtx *vcontext.ClassContext, instance any, node *descriptor.ArgumentDescriptor, scenarioMode bool) ArgumentOutcome {
	execListener.Started(node.ID())

	argCtx := vcontext.NewArgumentContext(classCtx, node.ArgumentIndex(), node.Argument())

	m := NewMachine()

	m.On(ArgStart, func() Result {
		err, postErrs := pipeline.BeforeAll(argCtx.Mutable(), instance, node.BeforeAll())
		for _, pe := range postErrs {
			m.Note(pe)
		}
		if err != nil {
			return Result{State: ArgBeforeAllFailure, Err: err}
		}
		return Result{State: ArgBeforeAllSuccess}
	})

	m.On(ArgBeforeAllSuccess, func() Result {
		return Result{State: ArgExecute}
	})

	m.On(ArgBeforeAllFailure, func() Result {
		return Result{State: ArgSkip}
	})

	m.On(ArgExecute, func() Result {
		beforeAllErr := m.FirstErr()
		var firstTestErr error
		aborted := false
		for _, methodNode := range node.Methods() {
			if aborted {
				SkipTestMethod(execListener, methodNode, "prior test failed in scenario mode")
				continue
			}
			outcome := RunTestMethod(pipeline, execListener, instance, argCtx, methodNode)
			if outcome.Err != nil && firstTestErr == nil {
				firstTestErr = outcome.Err
			}
			if scenarioMode && outcome.Status == listener.Failed {
				aborted = true
			}
		}
		if beforeAllErr == nil && firstTestErr != nil {
			return Result{State: ArgAfterAll, Err: firstTestErr}
		}
		return Result{State: ArgAfterAll}
	})

	m.On(ArgSkip, func() Result {
		for _, methodNode := range node.Methods() {
			SkipTestMethod(execListener, methodNode, "beforeAll failed")
		}
		return Result{State: ArgAfterAll}
	})

	m.On(ArgAfterAll, func() Result {
		err, postErrs := pipeline.AfterAll(argCtx.Mutable(), instance, node.AfterAll())
		for _, pe := range postErrs {
			m.Note(pe)
		}
		if err != nil {
			m.Note(err)
		}
		return Result{State: ArgAutoCloseArgument}
	})

	m.On(ArgAutoCloseArgument, func() Result {
		if closer, ok := node.Argument().Payload().(store.Closer); ok {
			if err := closer.Close(); err != nil {
				m.Note(err)
			}
		}
		return Result{State: ArgAutoCloseStore}
	})

	m.On(ArgAutoCloseStore, func() Result {
		for _, err := range argCtx.RawStore().Close() {
			m.Note(err)
		}
		return Result{State: ArgEnd}
	})

	m.Run(ArgStart, ArgEnd)

	err := m.FirstErr()
	status := listener.Successful
	if err != nil {
		status = listener.Failed
	}

	execListener.Finished(node.ID(), status, err)
	return ArgumentOutcome{Status: status, Err: err}
}
