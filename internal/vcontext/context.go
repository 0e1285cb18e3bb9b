// Package vcontext implements the engine's context hierarchy: an
// EngineContext (process-scoped), a ClassContext (one per class node, for
// its whole execution), and an ArgumentContext (one per argument node).
// Ownership is longest-lived-holder: a ClassContext outlives every
// ArgumentContext built from it, and the EngineContext outlives every
// ClassContext.
package vcontext

import (
	"github.com/verifyica-go/verifyica/internal/argument"
	"github.com/verifyica-go/verifyica/internal/store"
)

// EngineContext is the process-scoped root context: configuration,
// a Store and a Map shared by the whole run.
type EngineContext struct {
	configuration map[string]string
	store         *store.Store
	m             *store.Map
}

// NewEngineContext creates an EngineContext over the given configuration
// key/value map (not copied; callers should treat it as read-only after
// handing it to the engine).
func NewEngineContext(configuration map[string]string) *EngineContext {
	if configuration == nil {
		configuration = map[string]string{}
	}
	return &EngineContext{
		configuration: configuration,
		store:         store.New(),
		m:             store.NewMap(),
	}
}

// Configuration returns the key/value configuration map.
func (c *EngineContext) Configuration() map[string]string { return c.configuration }

// Store returns the engine-scoped Store.
func (c *EngineContext) Store() *store.Store { return c.store }

// Map returns the engine-scoped Map.
func (c *EngineContext) Map() *store.Map { return c.m }

// ClassContext is held for a class node's whole execution: one per class,
// shared by every argument worker running under it.
type ClassContext struct {
	engine              *EngineContext
	testClassName       string
	testInstance        any
	argumentParallelism int
	store               *store.Store
	m                   *store.Map
	rwLock              *ReentrantRWLock
}

// NewClassContext creates a ClassContext for testClassName, parented to
// engine. testInstance is set once the class's test instance has been
// constructed by the instantiation pipeline; it may be nil beforehand.
func NewClassContext(engine *EngineContext, testClassName string, argumentParallelism int) *ClassContext {
	return &ClassContext{
		engine:              engine,
		testClassName:       testClassName,
		argumentParallelism: argumentParallelism,
		store:               store.New(),
		m:                   store.NewMap(),
		rwLock:              NewReentrantRWLock(),
	}
}

// Engine returns the parent EngineContext.
func (c *ClassContext) Engine() *EngineContext { return c.engine }

// TestClassName returns the registered test class's name.
func (c *ClassContext) TestClassName() string { return c.testClassName }

// TestInstance returns the single instance created for this class, or nil
// if it has not been constructed yet.
func (c *ClassContext) TestInstance() any { return c.testInstance }

// SetTestInstance records the instance created by the instantiation
// pipeline. Called exactly once per class.
func (c *ClassContext) SetTestInstance(instance any) { c.testInstance = instance }

// ArgumentParallelism returns this class's configured argument
// parallelism (already clamped to the engine-wide ceiling).
func (c *ClassContext) ArgumentParallelism() int { return c.argumentParallelism }

// Store returns the class-scoped Store.
func (c *ClassContext) Store() *store.Store { return c.store }

// Map returns the class-scoped Map.
func (c *ClassContext) Map() *store.Map { return c.m }

// Lock returns the class's shared reentrant read/write lock, for
// user-level coordination across argument workers.
func (c *ClassContext) Lock() *ReentrantRWLock { return c.rwLock }

// ArgumentContext is held for one argument node. view controls whether
// Store()/Map() mutators are permitted: Test methods are handed an
// immutable view (mutators panic), BeforeAll/AfterAll/BeforeEach/AfterEach
// are handed a mutable one.
type ArgumentContext struct {
	class         *ClassContext
	argumentIndex int
	testArgument  argument.Argument
	store         *store.Store
	m             *store.Map
	mutable       bool
}

// NewArgumentContext creates a mutable ArgumentContext for testArgument at
// argumentIndex, parented to class.
func NewArgumentContext(class *ClassContext, argumentIndex int, testArgument argument.Argument) *ArgumentContext {
	return &ArgumentContext{
		class:         class,
		argumentIndex: argumentIndex,
		testArgument:  testArgument,
		store:         store.New(),
		m:             store.NewMap(),
		mutable:       true,
	}
}

// Class returns the parent ClassContext.
func (c *ArgumentContext) Class() *ClassContext { return c.class }

// ArgumentIndex returns this argument's position among its class's
// arguments.
func (c *ArgumentContext) ArgumentIndex() int { return c.argumentIndex }

// TestArgument returns the Argument this context wraps.
func (c *ArgumentContext) TestArgument() argument.Argument { return c.testArgument }

// Map returns the argument-scoped Map (never immutable: the Map has no
// auto-close contract, and the immutability constraint only applies to
// Store).
func (c *ArgumentContext) Map() *store.Map { return c.m }

// Store returns a view over the argument-scoped Store: mutable for
// before/after lifecycle methods, immutable (mutators panic) for Test
// method bodies.
func (c *ArgumentContext) Store() StoreView {
	if c.mutable {
		return mutableStoreView{s: c.store}
	}
	return immutableStoreView{s: c.store}
}

// RawStore returns the underlying store.Store regardless of view,
// for engine-internal use (auto-close, argument payload close).
func (c *ArgumentContext) RawStore() *store.Store { return c.store }

// Immutable returns a copy of this ArgumentContext whose Store() view
// rejects mutation, for handing to Test method bodies.
func (c *ArgumentContext) Immutable() *ArgumentContext {
	clone := *c
	clone.mutable = false
	return &clone
}

// Mutable returns a copy of this ArgumentContext whose Store() view
// accepts mutation, for handing to before/after lifecycle methods.
func (c *ArgumentContext) Mutable() *ArgumentContext {
	clone := *c
	clone.mutable = true
	return &clone
}
