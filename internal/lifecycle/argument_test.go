package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifyica-go/verifyica/internal/argument"
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/interceptor"
	"github.com/verifyica-go/verifyica/internal/listener"
	"github.com/verifyica-go/verifyica/internal/vcontext"
)

func newClassCtx(t *testing.T) *vcontext.ClassContext {
	t.Helper()
	return vcontext.NewClassContext(vcontext.NewEngineContext(nil), "ExampleTest", 1)
}

func testMethodNode(parentID, name string, invoke func(any, any) error) *descriptor.TestMethodDescriptor {
	return descriptor.NewTestMethodDescriptor(parentID, name, 0, nil, descriptor.Method{Name: name, Invoke: invoke}, nil, false)
}

func TestRunArgumentSkipsTestsWhenBeforeAllFails(t *testing.T) {
	classCtx := newClassCtx(t)
	beforeAllErr := errors.New("beforeAll failed")

	var testRan bool
	argNode := descriptor.NewArgumentDescriptor(classCtx.TestClassName(), classCtx.TestClassName(), 0, argument.Indexed(0, 1),
		[]descriptor.Method{{Name: "beforeAll", Invoke: func(any, any) error { return beforeAllErr }}},
		nil,
	)
	argNode.AddMethod(testMethodNode(argNode.ID(), "testOne", func(any, any) error {
		testRan = true
		return nil
	}))

	rec := listener.NewRecording()
	outcome := RunArgument(interceptor.NewPipeline(nil), rec, classCtx, nil, argNode, false)

	assert.Equal(t, listener.Failed, outcome.Status)
	assert.ErrorIs(t, outcome.Err, beforeAllErr)
	assert.False(t, testRan, "a test method must not run when its argument's beforeAll failed")

	events := rec.Events()
	var skipped []listener.Event
	for _, e := range events {
		if e.Kind == "skipped" {
			skipped = append(skipped, e)
		}
	}
	require.Len(t, skipped, 1)
	assert.Equal(t, "beforeAll failed", skipped[0].Reason)
}

func TestRunArgumentScenarioModeAbortsRemainingTestsOnFirstFailure(t *testing.T) {
	classCtx := newClassCtx(t)
	failing := errors.New("assertion failed")

	var ran []string
	argNode := descriptor.NewArgumentDescriptor(classCtx.TestClassName(), classCtx.TestClassName(), 0, argument.Indexed(0, 1), nil, nil)
	argNode.AddMethod(testMethodNode(argNode.ID(), "step1", func(any, any) error {
		ran = append(ran, "step1")
		return failing
	}))
	argNode.AddMethod(testMethodNode(argNode.ID(), "step2", func(any, any) error {
		ran = append(ran, "step2")
		return nil
	}))

	rec := listener.NewRecording()
	outcome := RunArgument(interceptor.NewPipeline(nil), rec, classCtx, nil, argNode, true)

	assert.Equal(t, listener.Failed, outcome.Status)
	assert.Equal(t, []string{"step1"}, ran, "scenario mode must abort remaining siblings after the first test failure")

	events := rec.Events()
	var skippedReasons []string
	for _, e := range events {
		if e.Kind == "skipped" {
			skippedReasons = append(skippedReasons, e.Reason)
		}
	}
	assert.Equal(t, []string{"prior test failed in scenario mode"}, skippedReasons)
}

func TestRunArgumentNonScenarioModeRunsAllTestsDespiteFailure(t *testing.T) {
	classCtx := newClassCtx(t)
	failing := errors.New("assertion failed")

	var ran []string
	argNode := descriptor.NewArgumentDescriptor(classCtx.TestClassName(), classCtx.TestClassName(), 0, argument.Indexed(0, 1), nil, nil)
	argNode.AddMethod(testMethodNode(argNode.ID(), "step1", func(any, any) error {
		ran = append(ran, "step1")
		return failing
	}))
	argNode.AddMethod(testMethodNode(argNode.ID(), "step2", func(any, any) error {
		ran = append(ran, "step2")
		return nil
	}))

	rec := listener.NewRecording()
	outcome := RunArgument(interceptor.NewPipeline(nil), rec, classCtx, nil, argNode, false)

	assert.Equal(t, listener.Failed, outcome.Status)
	assert.Equal(t, []string{"step1", "step2"}, ran, "independent tests all run even after an earlier one fails")
}
