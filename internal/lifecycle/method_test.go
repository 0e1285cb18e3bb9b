package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verifyica-go/verifyica/internal/argument"
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/interceptor"
	"github.com/verifyica-go/verifyica/internal/listener"
	"github.com/verifyica-go/verifyica/internal/vcontext"
	"github.com/verifyica-go/verifyica/internal/verrors"
)

func newArgCtx(t *testing.T) *vcontext.ArgumentContext {
	t.Helper()
	classCtx := vcontext.NewClassContext(vcontext.NewEngineContext(nil), "ExampleTest", 1)
	return vcontext.NewArgumentContext(classCtx, 0, argument.Indexed(0, 1))
}

func TestRunTestMethodSkipsDisabledMethodWithoutInvokingIt(t *testing.T) {
	var invoked bool
	node := descriptor.NewTestMethodDescriptor("argument=0", "testOne", 0, nil,
		descriptor.Method{Name: "testOne", Invoke: func(any, any) error { invoked = true; return nil }},
		nil, true,
	)

	rec := listener.NewRecording()
	outcome := RunTestMethod(interceptor.NewPipeline(nil), rec, nil, newArgCtx(t), node)

	assert.Equal(t, listener.Aborted, outcome.Status)
	assert.False(t, invoked, "a disabled test method must never be invoked")

	var reasons []string
	for _, e := range rec.Events() {
		if e.Kind == "skipped" {
			reasons = append(reasons, e.Reason)
		}
	}
	assert.Equal(t, []string{"disabled"}, reasons)
}

func TestRunTestMethodMapsSkipRequestToAborted(t *testing.T) {
	node := testMethodNode("argument=0", "testOne", func(any, any) error {
		verrors.Skip("not applicable on this platform")
		return nil
	})

	rec := listener.NewRecording()
	outcome := RunTestMethod(interceptor.NewPipeline(nil), rec, nil, newArgCtx(t), node)

	assert.Equal(t, listener.Aborted, outcome.Status, "a SkipRequest must abort the test, not fail it")
	assert.True(t, verrors.IsSkip(outcome.Err))
}

func TestRunTestMethodMapsOrdinaryFailureToFailed(t *testing.T) {
	boom := errors.New("assertion failed")
	node := testMethodNode("argument=0", "testOne", func(any, any) error { return boom })

	rec := listener.NewRecording()
	outcome := RunTestMethod(interceptor.NewPipeline(nil), rec, nil, newArgCtx(t), node)

	assert.Equal(t, listener.Failed, outcome.Status)
	assert.ErrorIs(t, outcome.Err, boom)
}

func TestRunTestMethodRunsAfterEachEvenWhenTestFails(t *testing.T) {
	boom := errors.New("assertion failed")
	var afterEachRan bool
	node := descriptor.NewTestMethodDescriptor("argument=0", "testOne", 0, nil,
		descriptor.Method{Name: "testOne", Invoke: func(any, any) error { return boom }},
		[]descriptor.Method{{Name: "afterEach", Invoke: func(any, any) error { afterEachRan = true; return nil }}},
		false,
	)

	rec := listener.NewRecording()
	outcome := RunTestMethod(interceptor.NewPipeline(nil), rec, nil, newArgCtx(t), node)

	assert.Equal(t, listener.Failed, outcome.Status)
	assert.True(t, afterEachRan, "afterEach must still run after a test failure")
}
