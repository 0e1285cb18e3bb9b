// Package engine ties discovery, scheduling, lifecycle execution,
// interceptors and telemetry together behind a single Execute entrypoint.
package engine

import (
	"context"

	"github.com/verifyica-go/verifyica/internal/config"
	"github.com/verifyica-go/verifyica/internal/descriptor"
	"github.com/verifyica-go/verifyica/internal/filter"
	"github.com/verifyica-go/verifyica/internal/interceptor"
	"github.com/verifyica-go/verifyica/internal/introspect"
	"github.com/verifyica-go/verifyica/internal/lifecycle"
	"github.com/verifyica-go/verifyica/internal/listener"
	"github.com/verifyica-go/verifyica/internal/resolver"
	"github.com/verifyica-go/verifyica/internal/scheduler"
	"github.com/verifyica-go/verifyica/internal/telemetry"
	"github.com/verifyica-go/verifyica/internal/vcontext"
)

// Engine is the process-scoped entrypoint: one Engine per run,
// constructed from a TestClassIntrospector collaborator plus
// configuration, and exposing a single Execute call.
type Engine struct {
	introspector introspect.TestClassIntrospector
	config       config.Config
	listener     listener.ExecutionListener
	recorder     *telemetry.Recorder
	registry     *interceptor.Registry
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithListener overrides the default NopListener.
func WithListener(l listener.ExecutionListener) Option {
	return func(e *Engine) { e.listener = l }
}

// WithConfig supplies the engine's key/value configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithTelemetry installs a telemetry.Recorder and wires its interceptor
// into the built-in chain ahead of every class-specific interceptor.
func WithTelemetry(recorder *telemetry.Recorder) Option {
	return func(e *Engine) { e.recorder = recorder }
}

// New creates an Engine over introspector, applying opts.
func New(introspector introspect.TestClassIntrospector, opts ...Option) *Engine {
	e := &Engine{
		introspector: introspector,
		config:       config.Config{},
		listener:     listener.NopListener{},
	}
	for _, opt := range opts {
		opt(e)
	}

	var builtins []interceptor.Interceptor
	if e.recorder != nil {
		builtins = append(builtins, telemetry.New(e.recorder))
	}
	e.registry = interceptor.NewRegistry(builtins...)
	return e
}

// Summary is the structured, shell-agnostic result of one Execute call:
// the engine returns it and leaves presentation to the caller.
type Summary struct {
	Tree   *descriptor.EngineDescriptor
	Failed bool
}

// Execute runs discovery then execution for selectors, reporting every
// node to the configured listener and returning a Summary. A discovery
// failure aborts before any test event is emitted and is returned as err,
// not folded into Summary.
func (e *Engine) Execute(ctx context.Context, selectors []introspect.Selector) (*Summary, error) {
	defs, err := e.introspector.Introspect(selectors)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]introspect.ClassDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	// ArgumentIndices and TagFilter are deliberately left unset here: Selector
	// carries a class name, method name, and unique id, but translating a
	// unique id or a tag expression into resolver.Options is a selector
	// parsing concern that belongs to the introspection/CLI layer producing
	// the selectors, not to Execute itself. See DESIGN.md's Open Question
	// list.
	opts := resolver.Options{
		EngineArgumentParallelism: e.config.ArgumentParallelism(),
	}
	if filename := e.config.FiltersFilename(); filename != "" {
		set, err := filter.Load(filename)
		if err != nil {
			return nil, err
		}
		opts.ClassFilter = set
	}

	tree, err := resolver.Resolve(defs, opts)
	if err != nil {
		return nil, err
	}

	engineCtx := vcontext.NewEngineContext(e.config)
	classRunner := scheduler.NewRunner(e.config.ClassParallelism())

	tasks := make([]scheduler.Task, len(tree.Classes()))
	for i, classNode := range tree.Classes() {
		classNode := classNode
		tasks[i] = func(ctx context.Context) error {
			return e.runClass(ctx, engineCtx, classNode, byName[classNode.TestClassName()])
		}
	}

	failed := classRunner.Run(ctx, tasks) != nil

	for _, err := range engineCtx.Store().Close() {
		if err != nil {
			failed = true
		}
	}

	return &Summary{Tree: tree, Failed: failed}, nil
}

// runClass builds the class's interceptor pipeline (built-ins then this
// class's own ClassInterceptorSupplier output) and drives it through
// lifecycle.RunClass, supplying a runArguments callback that fans the
// class's argument children out across a Runner sized to this class's
// effective argument parallelism.
func (e *Engine) runClass(ctx context.Context, engineCtx *vcontext.EngineContext, classNode *descriptor.ClassDescriptor, def introspect.ClassDefinition) error {
	pipeline := interceptor.NewPipeline(e.registry.Chain(def.Interceptors))

	argParallelism := scheduler.ArgumentParallelism(classNode.ArgumentParallelism(), e.config.ArgumentParallelism())
	argRunner := scheduler.NewRunner(argParallelism)

	construct := def.NewInstance
	if construct == nil {
		construct = func() (any, error) { return nil, nil }
	}

	outcome := lifecycle.RunClass(pipeline, e.listener, engineCtx, classNode, construct, func(classCtx *vcontext.ClassContext, instance any) error {
		argTasks := make([]scheduler.Task, len(classNode.Arguments()))
		for i, argNode := range classNode.Arguments() {
			argNode := argNode
			argTasks[i] = func(ctx context.Context) error {
				out := lifecycle.RunArgument(pipeline, e.listener, classCtx, instance, argNode, classNode.ScenarioMode())
				return out.Err
			}
		}
		return argRunner.Run(ctx, argTasks)
	})

	return outcome.Err
}
