// Package descriptor implements the execution tree: EngineDescriptor at
// the root, one ClassDescriptor per discovered test class, one
// ArgumentDescriptor per argument produced by that class's supplier, and
// one TestMethodDescriptor per test method within an argument.
//
// Every node carries a unique, hierarchical id (engine/class/argument/
// method), and siblings are kept in the stable (Order, DisplayName)
// ordering the resolver establishes.
package descriptor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/verifyica-go/verifyica/internal/argument"
)

// Method is the engine's view of a single lifecycle or test method: a
// role tag, a display name/order for sibling sorting, and a typed invoker
// supplied by the external TestClassIntrospector collaborator. The engine
// never reflects on the underlying method itself.
type Method struct {
	Name  string
	Order int
	// Invoke is called with the test instance (nil for static Prepare/
	// Conclude/ArgumentSupplier methods) and the Context appropriate to
	// the method's role (ClassContext for Prepare/Conclude,
	// ArgumentContext for BeforeAll/AfterAll/BeforeEach/AfterEach/Test).
	Invoke func(instance any, ctx any) error
}

// TestMethodDescriptor is the leaf node: one test method within one
// argument, wrapped by its class's beforeEach/afterEach methods.
type TestMethodDescriptor struct {
	id             string
	displayName    string
	order          int
	beforeEach     []Method
	testMethod     Method
	afterEach      []Method
	disabled       bool
}

// NewTestMethodDescriptor creates a TestMethodDescriptor. parentID is the
// owning ArgumentDescriptor's unique id.
func NewTestMethodDescriptor(parentID string, displayName string, order int, beforeEach []Method, testMethod Method, afterEach []Method, disabled bool) *TestMethodDescriptor {
	return &TestMethodDescriptor{
		id:          fmt.Sprintf("%s/method=%s", parentID, testMethod.Name),
		displayName: displayName,
		order:       order,
		beforeEach:  beforeEach,
		testMethod:  testMethod,
		afterEach:   afterEach,
		disabled:    disabled,
	}
}

func (d *TestMethodDescriptor) ID() string              { return d.id }
func (d *TestMethodDescriptor) DisplayName() string      { return d.displayName }
func (d *TestMethodDescriptor) Order() int               { return d.order }
func (d *TestMethodDescriptor) BeforeEach() []Method      { return d.beforeEach }
func (d *TestMethodDescriptor) TestMethod() Method        { return d.testMethod }
func (d *TestMethodDescriptor) AfterEach() []Method       { return d.afterEach }
func (d *TestMethodDescriptor) Disabled() bool            { return d.disabled }

// ArgumentDescriptor is the per-argument node: the argument itself, its
// class's beforeAll/afterAll methods, and its test method children in
// stable order.
type ArgumentDescriptor struct {
	id            string
	testClassName string
	argumentIndex int
	argument      argument.Argument
	beforeAll     []Method
	afterAll      []Method
	methods       []*TestMethodDescriptor
}

// NewArgumentDescriptor creates an ArgumentDescriptor. parentID is the
// owning ClassDescriptor's unique id.
func NewArgumentDescriptor(parentID, testClassName string, argumentIndex int, arg argument.Argument, beforeAll, afterAll []Method) *ArgumentDescriptor {
	return &ArgumentDescriptor{
		id:            fmt.Sprintf("%s/argument=%d", parentID, argumentIndex),
		testClassName: testClassName,
		argumentIndex: argumentIndex,
		argument:      arg,
		beforeAll:     beforeAll,
		afterAll:      afterAll,
	}
}

func (d *ArgumentDescriptor) ID() string                    { return d.id }
func (d *ArgumentDescriptor) TestClassName() string          { return d.testClassName }
func (d *ArgumentDescriptor) ArgumentIndex() int             { return d.argumentIndex }
func (d *ArgumentDescriptor) Argument() argument.Argument    { return d.argument }
func (d *ArgumentDescriptor) BeforeAll() []Method            { return d.beforeAll }
func (d *ArgumentDescriptor) AfterAll() []Method             { return d.afterAll }
func (d *ArgumentDescriptor) Methods() []*TestMethodDescriptor { return d.methods }

// AddMethod appends a test method child. Callers must add children in the
// resolver's stable (Order, DisplayName) order.
func (d *ArgumentDescriptor) AddMethod(m *TestMethodDescriptor) { d.methods = append(d.methods, m) }

// ClassDescriptor is the per-class node: prepare/conclude methods,
// declared argument parallelism, and argument children in stable order.
type ClassDescriptor struct {
	id                  string
	testClassName       string
	displayName         string
	order               int
	scenarioMode        bool
	prepare             []Method
	conclude            []Method
	argumentParallelism int
	arguments           []*ArgumentDescriptor
}

// NewClassDescriptor creates a ClassDescriptor. parentID is the owning
// EngineDescriptor's unique id.
func NewClassDescriptor(parentID, testClassName, displayName string, order int, scenarioMode bool, prepare, conclude []Method, argumentParallelism int) *ClassDescriptor {
	if argumentParallelism < 1 {
		argumentParallelism = 1
	}
	return &ClassDescriptor{
		id:                  fmt.Sprintf("%s/class=%s", parentID, testClassName),
		testClassName:       testClassName,
		displayName:         displayName,
		order:               order,
		scenarioMode:        scenarioMode,
		prepare:             prepare,
		conclude:            conclude,
		argumentParallelism: argumentParallelism,
	}
}

func (d *ClassDescriptor) ID() string                       { return d.id }
func (d *ClassDescriptor) TestClassName() string            { return d.testClassName }
func (d *ClassDescriptor) DisplayName() string              { return d.displayName }
func (d *ClassDescriptor) Order() int                       { return d.order }
func (d *ClassDescriptor) ScenarioMode() bool                { return d.scenarioMode }
func (d *ClassDescriptor) Prepare() []Method                 { return d.prepare }
func (d *ClassDescriptor) Conclude() []Method                { return d.conclude }
func (d *ClassDescriptor) ArgumentParallelism() int          { return d.argumentParallelism }
func (d *ClassDescriptor) Arguments() []*ArgumentDescriptor   { return d.arguments }

// AddArgument appends an argument child. Callers must add children in the
// resolver's stable (Order, DisplayName) order.
func (d *ClassDescriptor) AddArgument(a *ArgumentDescriptor) { d.arguments = append(d.arguments, a) }

// EngineDescriptor is the root of the tree, stamped with a session id
// (google/uuid) identifying one run. The session id is available through
// SessionID; it is not part of node ids and is not passed to listeners.
type EngineDescriptor struct {
	id        string
	sessionID uuid.UUID
	classes   []*ClassDescriptor
}

// NewEngineDescriptor creates an EngineDescriptor, generating a fresh
// session id.
func NewEngineDescriptor() *EngineDescriptor {
	return &EngineDescriptor{
		id:        "verifyica",
		sessionID: uuid.New(),
	}
}

func (d *EngineDescriptor) ID() string             { return d.id }
func (d *EngineDescriptor) SessionID() uuid.UUID    { return d.sessionID }
func (d *EngineDescriptor) Classes() []*ClassDescriptor { return d.classes }

// AddClass appends a class child. Callers must add children in the
// resolver's stable (Order, DisplayName) order.
func (d *EngineDescriptor) AddClass(c *ClassDescriptor) { d.classes = append(d.classes, c) }

// Prune removes class nodes with no argument children, and argument nodes
// with no test-method children, per the descriptor tree invariant in the
// spec ("every class node has >=1 argument child or is pruned; every
// argument child has >=1 method child or is pruned").
func (d *EngineDescriptor) Prune() {
	var keptClasses []*ClassDescriptor
	for _, c := range d.classes {
		var keptArgs []*ArgumentDescriptor
		for _, a := range c.arguments {
			if len(a.methods) > 0 {
				keptArgs = append(keptArgs, a)
			}
		}
		c.arguments = keptArgs
		if len(c.arguments) > 0 {
			keptClasses = append(keptClasses, c)
		}
	}
	d.classes = keptClasses
}
