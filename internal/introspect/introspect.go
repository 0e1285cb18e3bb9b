// Package introspect declares the two external collaborators the engine
// depends on but does not implement: discovering a test class's lifecycle
// methods (TestClassIntrospector) and invoking its argument supplier
// (ArgumentSupplier). Reflection/annotation scanning is out of scope for
// the core; registration may be explicit (as here) or produced by a
// plugin/codegen layer that implements these interfaces.
package introspect

import (
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/interceptor"
)

// Selector addresses a subset of the registered test classes: by class
// name, method name within a class, or a previously-issued unique id.
// Selectors addressing a deeper level imply inclusion of their ancestors.
type Selector struct {
	ClassName  string
	MethodName string
	UniqueID   string
}

// TestMethod describes one registered Test method together with its
// sibling metadata (tags, order, display name, disabled flag).
type TestMethod struct {
	Method      descriptor.Method
	DisplayName string
	Tags        []string
	Disabled    bool
}

// ClassDefinition is a fully-introspected registration for one test class:
// every lifecycle role the resolver needs, already bound to typed
// invokers. The engine never reflects on the class itself.
type ClassDefinition struct {
	Name                string
	DisplayName         string
	Order               int
	Tags                []string
	ScenarioMode        bool
	ArgumentParallelism int

	// NewInstance constructs the single instance used for the whole
	// class execution. Called exactly once per class via the
	// interceptor-wrapped instantiation pipeline.
	NewInstance func() (any, error)

	ArgumentSupplier ArgumentSupplier

	// Interceptors are this class's own interceptor chain, returned by
	// its ClassInterceptorSupplier. The engine appends these after its
	// built-in interceptors (telemetry, ...) when building the class's
	// Pipeline.
	Interceptors []interceptor.Interceptor

	Prepare    []descriptor.Method
	Conclude   []descriptor.Method
	BeforeAll  []descriptor.Method
	AfterAll   []descriptor.Method
	BeforeEach []descriptor.Method
	AfterEach  []descriptor.Method
	Tests      []TestMethod
}

// ArgumentSupplier is the external collaborator responsible for producing
// a class's test arguments. Supply's return value is normalized by the
// resolver (see internal/resolver) into a list<Argument>.
type ArgumentSupplier interface {
	Supply() (any, error)
}

// ArgumentSupplierFunc adapts a plain function to ArgumentSupplier.
type ArgumentSupplierFunc func() (any, error)

func (f ArgumentSupplierFunc) Supply() (any, error) { return f() }

// TestClassIntrospector discovers the set of registered test classes
// matching the given selectors and filters, already reduced to
// ClassDefinitions. How classes are registered (explicit code, a plugin
// mechanism, or reflection in a hosting layer) is deliberately outside
// this interface's concern.
type TestClassIntrospector interface {
	Introspect(selectors []Selector) ([]ClassDefinition, error)
}
