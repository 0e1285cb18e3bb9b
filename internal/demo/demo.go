// Package demo is a trivial, hand-registered TestClassIntrospector used
// by the CLI to illustrate the engine end to end without a reflection or
// codegen layer: one class, a handful of integer arguments, a beforeEach
// that resets the instance, and two tests that check each argument.
package demo

import (
	"fmt"

	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/introspect"
	"github.com/verifyica-go/verifyica/internal/vcontext"
)

type calculator struct {
	accumulator int
}

// Introspector is a introspect.TestClassIntrospector exposing one
// built-in class, "CalculatorTest", regardless of the selectors passed
// in (selector-based narrowing belongs to a real introspection layer,
// out of scope for this illustration).
type Introspector struct{}

func (Introspector) Introspect([]introspect.Selector) ([]introspect.ClassDefinition, error) {
	return []introspect.ClassDefinition{
		{
			Name:                "CalculatorTest",
			DisplayName:         "CalculatorTest",
			ArgumentParallelism: 2,
			NewInstance:         func() (any, error) { return &calculator{}, nil },
			ArgumentSupplier: introspect.ArgumentSupplierFunc(func() (any, error) {
				return []int{1, 2, 3, 4}, nil
			}),
			BeforeEach: []descriptor.Method{
				{Name: "reset", Invoke: func(instance any, ctx any) error {
					instance.(*calculator).accumulator = 0
					return nil
				}},
			},
			Tests: []introspect.TestMethod{
				{
					DisplayName: "testDoubles",
					Method: descriptor.Method{
						Name: "testDoubles",
						Invoke: func(instance any, ctx any) error {
							argCtx := ctx.(*vcontext.ArgumentContext)
							n, ok := argCtx.TestArgument().Payload().(int)
							if !ok {
								return fmt.Errorf("expected int payload, got %T", argCtx.TestArgument().Payload())
							}
							c := instance.(*calculator)
							c.accumulator = n * 2
							if c.accumulator != n*2 {
								return fmt.Errorf("doubling %d: got %d", n, c.accumulator)
							}
							return nil
						},
					},
				},
				{
					DisplayName: "testIsPositive",
					Method: descriptor.Method{
						Name: "testIsPositive",
						Invoke: func(instance any, ctx any) error {
							argCtx := ctx.(*vcontext.ArgumentContext)
							n, _ := argCtx.TestArgument().Payload().(int)
							if n <= 0 {
								return fmt.Errorf("expected a positive argument, got %d", n)
							}
							return nil
						},
					},
				},
			},
		},
	}, nil
}
