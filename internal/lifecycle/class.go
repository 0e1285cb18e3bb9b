package lifecycle

import (
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/interceptor"
	"github.com/verifyica-go/verifyica/internal/listener"
	"github.com/verifyica-go/verifyica/internal/vcontext"
)

// Per-class states.
const (
	ClassStart               State = "START"
	ClassInstantiateSuccess  State = "INSTANTIATE_SUCCESS"
	ClassInstantiateFailure  State = "INSTANTIATE_FAILURE"
	ClassPrepareSuccess      State = "PREPARE_SUCCESS"
	ClassPrepareFailure      State = "PREPARE_FAILURE"
	ClassArguments           State = "ARGUMENTS"
	ClassSkipArguments       State = "SKIP_ARGUMENTS"
	ClassConclude            State = "CONCLUDE"
	ClassAutoCloseStore      State = "AUTO_CLOSE_STORE"
	ClassDestroy             State = "DESTROY"
	ClassEnd                 State = "END"
)

// ClassOutcome is the result of running one class subtree.
type ClassOutcome struct {
	Status listener.Status
	Err    error
}

// RunClass drives the per-class state machine: instantiate, then prepare
// (skipped entirely if instantiation failed), then the class's arguments
// via runArguments (skip-announced if instantiation or prepare failed),
// then conclude, auto-close of the class Store, and interceptor destroy
// notification — the last three always, regardless of what failed above.
//
// runArguments is supplied by the scheduler: it is responsible for
// fanning the class's argument children out across whatever parallelism
// the class declares and reporting back the first error observed.
func RunClass(pipeline *interceptor.Pipeline, execListener listener.ExecutionListener, engineCtx *vcontext.EngineContext, node *descriptor.ClassDescriptor, construct func() (any, error), runArguments func(classCtx *vcontext.ClassContext, instance any) error) ClassOutcome {
	execListener.Started(node.ID())

	classCtx := vcontext.NewClassContext(engineCtx, node.TestClassName(), node.ArgumentParallelism())

	m := NewMachine()

	m.On(ClassStart, func() Result {
		instance, err, postErrs := pipeline.Instantiate(classCtx, construct)
		for _, pe := range postErrs {
			m.Note(pe)
		}
		classCtx.SetTestInstance(instance)
		if err != nil {
			return Result{State: ClassInstantiateFailure, Err: err}
		}
		return Result{State: ClassInstantiateSuccess}
	})

	m.On(ClassInstantiateFailure, func() Result {
		return Result{State: ClassSkipArguments}
	})

	m.On(ClassInstantiateSuccess, func() Result {
		err, postErrs := pipeline.Prepare(classCtx, node.Prepare())
		for _, pe := range postErrs {
			m.Note(pe)
		}
		if err != nil {
			return Result{State: ClassPrepareFailure, Err: err}
		}
		return Result{State: ClassPrepareSuccess}
	})

	m.On(ClassPrepareFailure, func() Result {
		return Result{State: ClassSkipArguments}
	})

	m.On(ClassPrepareSuccess, func() Result {
		return Result{State: ClassArguments}
	})

	m.On(ClassArguments, func() Result {
		if err := runArguments(classCtx, classCtx.TestInstance()); err != nil {
			return Result{State: ClassConclude, Err: err}
		}
		return Result{State: ClassConclude}
	})

	m.On(ClassSkipArguments, func() Result {
		for _, arg := range node.Arguments() {
			for _, methodNode := range arg.Methods() {
				SkipTestMethod(execListener, methodNode, "class setup failed")
			}
		}
		return Result{State: ClassConclude}
	})

	m.On(ClassConclude, func() Result {
		err, postErrs := pipeline.Conclude(classCtx, node.Conclude())
		for _, pe := range postErrs {
			m.Note(pe)
		}
		if err != nil {
			m.Note(err)
		}
		return Result{State: ClassAutoCloseStore}
	})

	m.On(ClassAutoCloseStore, func() Result {
		for _, err := range classCtx.Store().Close() {
			m.Note(err)
		}
		return Result{State: ClassDestroy}
	})

	m.On(ClassDestroy, func() Result {
		for _, err := range pipeline.Destroy(classCtx) {
			m.Note(err)
		}
		return Result{State: ClassEnd}
	})

	m.Run(ClassStart, ClassEnd)

	err := m.FirstErr()
	status := listener.Successful
	if err != nil {
		status = listener.Failed
	}

	execListener.Finished(node.ID(), status, err)
	return ClassOutcome{Status: status, Err: err}
}
