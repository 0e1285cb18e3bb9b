// Package interceptor implements the pipeline wrapping every user-visible
// invocation: registered pre hooks run in registration order, then the
// body, then post hooks run in reverse registration order. A pre-hook
// throwable aborts the body but post hooks still run; a post-hook
// throwable is captured alongside the body's result but never prevents
// the remaining post hooks from running.
package interceptor

import (
	"fmt"

	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/vcontext"
)

// Interceptor is the minimal contract every interceptor satisfies: an
// Order used to sequence built-in interceptors ahead of class-specific
// ones. Individual hooks are optional — an interceptor implements only the
// Pre*/Post*/OnDestroy interfaces it cares about; the pipeline type-asserts
// for each one at invocation time, the way Go middleware typically
// composes optional behaviors rather than forcing every implementation to
// stub out every hook.
type Interceptor interface {
	Order() int
}

type PreInstantiate interface {
	PreInstantiate(ctx *vcontext.ClassContext) error
}
type PostInstantiate interface {
	PostInstantiate(ctx *vcontext.ClassContext, instance any, bodyErr error) error
}
type PrePrepare interface {
	PrePrepare(ctx *vcontext.ClassContext) error
}
type PostPrepare interface {
	PostPrepare(ctx *vcontext.ClassContext, bodyErr error) error
}
type PreBeforeAll interface {
	PreBeforeAll(ctx *vcontext.ArgumentContext) error
}
type PostBeforeAll interface {
	PostBeforeAll(ctx *vcontext.ArgumentContext, bodyErr error) error
}
type PreBeforeEach interface {
	PreBeforeEach(ctx *vcontext.ArgumentContext) error
}
type PostBeforeEach interface {
	PostBeforeEach(ctx *vcontext.ArgumentContext, bodyErr error) error
}
type PreTest interface {
	PreTest(ctx *vcontext.ArgumentContext) error
}
type PostTest interface {
	PostTest(ctx *vcontext.ArgumentContext, bodyErr error) error
}
type PostAfterEach interface {
	PostAfterEach(ctx *vcontext.ArgumentContext, bodyErr error) error
}
type PostAfterAll interface {
	PostAfterAll(ctx *vcontext.ArgumentContext, bodyErr error) error
}
type PreConclude interface {
	PreConclude(ctx *vcontext.ClassContext) error
}
type PostConclude interface {
	PostConclude(ctx *vcontext.ClassContext, bodyErr error) error
}
type OnDestroy interface {
	OnDestroy(ctx *vcontext.ClassContext) error
}

// Registry orders the interceptor chain: built-in interceptors first, in
// declared Order, followed by the class-specific interceptors returned by
// a class's ClassInterceptorSupplier, in the order the supplier returned
// them.
type Registry struct {
	builtins []Interceptor
}

// NewRegistry creates a Registry seeded with the engine's built-in
// interceptors (e.g. telemetry), sorted by declared Order.
func NewRegistry(builtins ...Interceptor) *Registry {
	sorted := append([]Interceptor(nil), builtins...)
	insertionSort(sorted)
	return &Registry{builtins: sorted}
}

func insertionSort(s []Interceptor) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].Order() > s[j].Order(); j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Chain combines the registry's built-ins with a class's own interceptors,
// built-ins first.
func (r *Registry) Chain(classInterceptors []Interceptor) []Interceptor {
	out := make([]Interceptor, 0, len(r.builtins)+len(classInterceptors))
	out = append(out, r.builtins...)
	out = append(out, classInterceptors...)
	return out
}

// Pipeline runs a chain of interceptors around a body.
type Pipeline struct {
	chain []Interceptor
}

// NewPipeline creates a Pipeline over chain (builtins-then-class-specific,
// as produced by Registry.Chain).
func NewPipeline(chain []Interceptor) *Pipeline {
	return &Pipeline{chain: chain}
}

// runAround executes pres in order (stopping at the first error), then
// body only if every pre succeeded, then posts in reverse registration
// order regardless of the body's outcome. It returns the primary error
// (the first pre failure, or the body's error) and the list of post-hook
// errors collected without short-circuiting.
func runAround(pres []func() error, body func() error, posts []func(error) error) (error, []error) {
	var primary error
	ran := true
	for _, pre := range pres {
		if err := pre(); err != nil {
			primary = err
			ran = false
			break
		}
	}
	if ran {
		primary = body()
	}

	var postErrs []error
	for i := len(posts) - 1; i >= 0; i-- {
		if err := posts[i](primary); err != nil {
			postErrs = append(postErrs, err)
		}
	}
	return primary, postErrs
}

// invokeRecovered calls fn, converting a panic raised by user code into an
// error instead of crashing the worker goroutine. A *verrors.SkipRequest
// panic (raised via verrors.Skip from user code) passes through as that
// same typed error so callers can special-case it into an aborted rather
// than failed outcome.
func invokeRecovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if skip, ok := r.(error); ok {
				err = skip
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func runMethods(instance any, ctx any, methods []descriptor.Method) error {
	for _, m := range methods {
		if err := invokeRecovered(func() error { return m.Invoke(instance, ctx) }); err != nil {
			return err
		}
	}
	return nil
}

// Instantiate wraps the class instantiation pipeline:
// preInstantiate -> construct -> postInstantiate(instance, err).
func (p *Pipeline) Instantiate(ctx *vcontext.ClassContext, construct func() (any, error)) (any, error, []error) {
	var pres []func() error
	for _, ic := range p.chain {
		if h, ok := ic.(PreInstantiate); ok {
			pres = append(pres, func() error { return h.PreInstantiate(ctx) })
		}
	}

	var instance any
	body := func() error {
		return invokeRecovered(func() error {
			inst, err := construct()
			instance = inst
			return err
		})
	}

	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostInstantiate); ok {
			posts = append(posts, func(err error) error { return h.PostInstantiate(ctx, instance, err) })
		}
	}

	primary, postErrs := runAround(pres, body, posts)
	return instance, primary, postErrs
}

// Prepare wraps a class's prepare methods: prePrepare -> run all -> postPrepare.
func (p *Pipeline) Prepare(ctx *vcontext.ClassContext, methods []descriptor.Method) (error, []error) {
	var pres []func() error
	for _, ic := range p.chain {
		if h, ok := ic.(PrePrepare); ok {
			pres = append(pres, func() error { return h.PrePrepare(ctx) })
		}
	}
	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostPrepare); ok {
			posts = append(posts, func(err error) error { return h.PostPrepare(ctx, err) })
		}
	}
	return runAround(pres, func() error { return runMethods(nil, ctx, methods) }, posts)
}

// Conclude wraps a class's conclude methods: preConclude -> run all -> postConclude.
func (p *Pipeline) Conclude(ctx *vcontext.ClassContext, methods []descriptor.Method) (error, []error) {
	var pres []func() error
	for _, ic := range p.chain {
		if h, ok := ic.(PreConclude); ok {
			pres = append(pres, func() error { return h.PreConclude(ctx) })
		}
	}
	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostConclude); ok {
			posts = append(posts, func(err error) error { return h.PostConclude(ctx, err) })
		}
	}
	return runAround(pres, func() error { return runMethods(nil, ctx, methods) }, posts)
}

// BeforeAll wraps an argument's beforeAll methods.
func (p *Pipeline) BeforeAll(ctx *vcontext.ArgumentContext, instance any, methods []descriptor.Method) (error, []error) {
	var pres []func() error
	for _, ic := range p.chain {
		if h, ok := ic.(PreBeforeAll); ok {
			pres = append(pres, func() error { return h.PreBeforeAll(ctx) })
		}
	}
	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostBeforeAll); ok {
			posts = append(posts, func(err error) error { return h.PostBeforeAll(ctx, err) })
		}
	}
	return runAround(pres, func() error { return runMethods(instance, ctx, methods) }, posts)
}

// AfterAll wraps an argument's afterAll methods. There is no pre hook:
// afterAll/afterEach pair with post hooks only, since teardown always runs
// and nothing should be able to skip it.
func (p *Pipeline) AfterAll(ctx *vcontext.ArgumentContext, instance any, methods []descriptor.Method) (error, []error) {
	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostAfterAll); ok {
			posts = append(posts, func(err error) error { return h.PostAfterAll(ctx, err) })
		}
	}
	return runAround(nil, func() error { return runMethods(instance, ctx, methods) }, posts)
}

// BeforeEach wraps a test method's beforeEach methods.
func (p *Pipeline) BeforeEach(ctx *vcontext.ArgumentContext, instance any, methods []descriptor.Method) (error, []error) {
	var pres []func() error
	for _, ic := range p.chain {
		if h, ok := ic.(PreBeforeEach); ok {
			pres = append(pres, func() error { return h.PreBeforeEach(ctx) })
		}
	}
	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostBeforeEach); ok {
			posts = append(posts, func(err error) error { return h.PostBeforeEach(ctx, err) })
		}
	}
	return runAround(pres, func() error { return runMethods(instance, ctx, methods) }, posts)
}

// AfterEach wraps a test method's afterEach methods. No pre hook, same
// rationale as AfterAll.
func (p *Pipeline) AfterEach(ctx *vcontext.ArgumentContext, instance any, methods []descriptor.Method) (error, []error) {
	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostAfterEach); ok {
			posts = append(posts, func(err error) error { return h.PostAfterEach(ctx, err) })
		}
	}
	return runAround(nil, func() error { return runMethods(instance, ctx, methods) }, posts)
}

// Test wraps a single test method invocation.
func (p *Pipeline) Test(ctx *vcontext.ArgumentContext, instance any, method descriptor.Method) (error, []error) {
	var pres []func() error
	for _, ic := range p.chain {
		if h, ok := ic.(PreTest); ok {
			pres = append(pres, func() error { return h.PreTest(ctx) })
		}
	}
	var posts []func(error) error
	for _, ic := range p.chain {
		if h, ok := ic.(PostTest); ok {
			posts = append(posts, func(err error) error { return h.PostTest(ctx, err) })
		}
	}
	return runAround(pres, func() error { return invokeRecovered(func() error { return method.Invoke(instance, ctx) }) }, posts)
}

// Destroy notifies every interceptor implementing OnDestroy that the class
// context is being torn down. Errors are collected, not propagated as a
// body result — there is no body to run.
func (p *Pipeline) Destroy(ctx *vcontext.ClassContext) []error {
	var errs []error
	for i := len(p.chain) - 1; i >= 0; i-- {
		if h, ok := p.chain[i].(OnDestroy); ok {
			if err := h.OnDestroy(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}
