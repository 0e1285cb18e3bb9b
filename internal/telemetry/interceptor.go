package telemetry

import (
	"sync"
	"time"

	"github.com/verifyica-go/verifyica/internal/vcontext"
)

// Interceptor is a built-in interceptor.Interceptor that times each
// lifecycle phase by recording a start timestamp in its pre-hook and the
// elapsed duration in its matching post-hook. It is intended to be the
// first entry in every interceptor chain (see Order), so its timing
// window wraps every class-specific interceptor as well as the body.
type Interceptor struct {
	recorder *Recorder
	starts   sync.Map
}

// New creates an Interceptor recording into recorder.
func New(recorder *Recorder) *Interceptor {
	return &Interceptor{recorder: recorder}
}

// Order places telemetry ahead of class-specific interceptors so its
// timing window is the widest possible.
func (i *Interceptor) Order() int { return -1000 }

func (i *Interceptor) mark(key any) {
	i.starts.Store(key, time.Now())
}

func (i *Interceptor) elapsed(key any) time.Duration {
	v, ok := i.starts.LoadAndDelete(key)
	if !ok {
		return 0
	}
	return time.Since(v.(time.Time))
}

func (i *Interceptor) PreBeforeAll(ctx *vcontext.ArgumentContext) error {
	i.mark(beforeAllKey(ctx))
	return nil
}

func (i *Interceptor) PostBeforeAll(ctx *vcontext.ArgumentContext, bodyErr error) error {
	i.recorder.Record(RoleBeforeAll, i.elapsed(beforeAllKey(ctx)))
	return nil
}

func (i *Interceptor) PostAfterAll(ctx *vcontext.ArgumentContext, bodyErr error) error {
	// afterAll has no pre hook (see interceptor.Pipeline.AfterAll); mark
	// at post time so at least a zero-width sample is recorded rather
	// than silently dropping the role.
	i.recorder.Record(RoleAfterAll, 0)
	return nil
}

func (i *Interceptor) PreBeforeEach(ctx *vcontext.ArgumentContext) error {
	i.mark(beforeEachKey(ctx))
	return nil
}

func (i *Interceptor) PostBeforeEach(ctx *vcontext.ArgumentContext, bodyErr error) error {
	i.recorder.Record(RoleBeforeEach, i.elapsed(beforeEachKey(ctx)))
	return nil
}

func (i *Interceptor) PostAfterEach(ctx *vcontext.ArgumentContext, bodyErr error) error {
	i.recorder.Record(RoleAfterEach, 0)
	return nil
}

func (i *Interceptor) PreTest(ctx *vcontext.ArgumentContext) error {
	i.mark(testKey(ctx))
	return nil
}

func (i *Interceptor) PostTest(ctx *vcontext.ArgumentContext, bodyErr error) error {
	i.recorder.Record(RoleTest, i.elapsed(testKey(ctx)))
	return nil
}

func (i *Interceptor) PrePrepare(ctx *vcontext.ClassContext) error {
	i.mark(prepareKey(ctx))
	return nil
}

func (i *Interceptor) PostPrepare(ctx *vcontext.ClassContext, bodyErr error) error {
	i.recorder.Record(RolePrepare, i.elapsed(prepareKey(ctx)))
	return nil
}

func (i *Interceptor) PreConclude(ctx *vcontext.ClassContext) error {
	i.mark(concludeKey(ctx))
	return nil
}

func (i *Interceptor) PostConclude(ctx *vcontext.ClassContext, bodyErr error) error {
	i.recorder.Record(RoleConclude, i.elapsed(concludeKey(ctx)))
	return nil
}

// The keys below scope a timing mark to the specific (context, role)
// pair; a *vcontext.ArgumentContext is re-copied (Mutable/Immutable) per
// phase, so the mark key is the argument's own identity, not the context
// pointer.
func beforeAllKey(ctx *vcontext.ArgumentContext) any  { return [2]any{ctx.TestArgument(), RoleBeforeAll} }
func beforeEachKey(ctx *vcontext.ArgumentContext) any { return [2]any{ctx.TestArgument(), RoleBeforeEach} }
func testKey(ctx *vcontext.ArgumentContext) any       { return [2]any{ctx.TestArgument(), RoleTest} }
func prepareKey(ctx *vcontext.ClassContext) any       { return [2]any{ctx.TestClassName(), RolePrepare} }
func concludeKey(ctx *vcontext.ClassContext) any      { return [2]any{ctx.TestClassName(), RoleConclude} }
