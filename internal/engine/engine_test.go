package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/introspect"
	"github.com/verifyica-go/verifyica/internal/listener"
)

type fakeIntrospector struct {
	defs []introspect.ClassDefinition
	err  error
}

func (f fakeIntrospector) Introspect([]introspect.Selector) ([]introspect.ClassDefinition, error) {
	return f.defs, f.err
}

func method(name string, fn func(any, any) error) descriptor.Method {
	return descriptor.Method{Name: name, Invoke: fn}
}

func TestEngineExecuteRunsSuccessfulSuite(t *testing.T) {
	var calls []string

	def := introspect.ClassDefinition{
		Name:                "ExampleTest",
		DisplayName:         "ExampleTest",
		ArgumentParallelism: 2,
		NewInstance:         func() (any, error) { calls = append(calls, "construct"); return &struct{}{}, nil },
		ArgumentSupplier: introspect.ArgumentSupplierFunc(func() (any, error) {
			return []int{1, 2}, nil
		}),
		Tests: []introspect.TestMethod{
			{
				DisplayName: "testAdd",
				Method: method("testAdd", func(instance, ctx any) error {
					calls = append(calls, "test")
					return nil
				}),
			},
		},
	}

	rec := listener.NewRecording()
	eng := New(fakeIntrospector{defs: []introspect.ClassDefinition{def}}, WithListener(rec))

	summary, err := eng.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, summary.Failed)
	require.Len(t, summary.Tree.Classes(), 1)
	assert.Len(t, summary.Tree.Classes()[0].Arguments(), 2)

	assert.Contains(t, calls, "construct")
	assert.Equal(t, 2, countOccurrences(calls, "test"))

	events := rec.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "started", events[0].Kind)
	assert.Equal(t, "finished", events[len(events)-1].Kind)
}

func TestEngineExecutePropagatesDiscoveryFailure(t *testing.T) {
	boom := errors.New("boom")
	eng := New(fakeIntrospector{err: boom})

	_, err := eng.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestEngineExecuteReportsTestFailure(t *testing.T) {
	failing := errors.New("assertion failed")
	def := introspect.ClassDefinition{
		Name:                "FailingTest",
		ArgumentParallelism: 1,
		NewInstance:         func() (any, error) { return &struct{}{}, nil },
		ArgumentSupplier: introspect.ArgumentSupplierFunc(func() (any, error) {
			return 1, nil
		}),
		Tests: []introspect.TestMethod{
			{DisplayName: "testFails", Method: method("testFails", func(any, any) error { return failing })},
		},
	}

	eng := New(fakeIntrospector{defs: []introspect.ClassDefinition{def}})
	summary, err := eng.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, summary.Failed)
}

func countOccurrences(s []string, target string) int {
	n := 0
	for _, v := range s {
		if v == target {
			n++
		}
	}
	return n
}
