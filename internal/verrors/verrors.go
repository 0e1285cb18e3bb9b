// Package verrors defines the error taxonomy raised while discovering and
// executing a test tree: discovery failures, supplier/instantiation
// failures, lifecycle failures, test failures, skip requests, and close
// errors encountered during auto-close.
package verrors

import (
	"errors"
	"fmt"
)

// DiscoveryError is returned when selector resolution, class loading, or
// annotation-consistency validation fails during discovery. It is fatal:
// the engine emits no test events for the run.
type DiscoveryError struct {
	Reason string
	Cause  error
}

func (e *DiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("discovery error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("discovery error: %s", e.Reason)
}

func (e *DiscoveryError) Unwrap() error { return e.Cause }

// SupplierError wraps a throwable raised by a class's argument supplier.
// The resolver returns it from Resolve, which aborts discovery of the
// whole run: no test events are emitted.
type SupplierError struct {
	TestClass string
	Cause     error
}

func (e *SupplierError) Error() string {
	return fmt.Sprintf("argument supplier for %s failed: %v", e.TestClass, e.Cause)
}

func (e *SupplierError) Unwrap() error { return e.Cause }

// InstantiationError wraps a throwable raised while constructing a test
// class instance. The class is recorded as failed and its arguments are
// skip-announced.
type InstantiationError struct {
	TestClass string
	Cause     error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiating %s failed: %v", e.TestClass, e.Cause)
}

func (e *InstantiationError) Unwrap() error { return e.Cause }

// LifecycleError wraps a throwable raised by a user prepare/before*/after*
// /conclude method, or by an interceptor hook.
type LifecycleError struct {
	Phase string
	Cause error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Cause)
}

func (e *LifecycleError) Unwrap() error { return e.Cause }

// TestFailure wraps a throwable raised by a Test method body.
type TestFailure struct {
	Cause error
}

func (e *TestFailure) Error() string {
	return fmt.Sprintf("test failed: %v", e.Cause)
}

func (e *TestFailure) Unwrap() error { return e.Cause }

// SkipRequest is the sentinel raised by user code (via Skip, below) to
// abort-not-fail a test. It is never a
// LifecycleError or TestFailure: the state machines special-case it into
// an ABORTED outcome.
type SkipRequest struct {
	Reason string
}

func (e *SkipRequest) Error() string {
	if e.Reason == "" {
		return "skipped"
	}
	return fmt.Sprintf("skipped: %s", e.Reason)
}

// CloseError wraps a throwable raised while auto-closing a store entry or
// an argument payload. It is appended to a node's result throwables but
// never masks an earlier (setup or test) failure.
type CloseError struct {
	Key   string
	Cause error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("close %q failed: %v", e.Key, e.Cause)
}

func (e *CloseError) Unwrap() error { return e.Cause }

// IsSkip reports whether err is (or wraps) a SkipRequest.
func IsSkip(err error) bool {
	var skip *SkipRequest
	return errors.As(err, &skip)
}

// Skip raises a SkipRequest from within user lifecycle/test code. It is
// implemented as a panic rather than an error return because the engine's
// method invocation signature (descriptor.Method.Invoke) is shared by
// every lifecycle role and Go gives user code no other way to
// short-circuit a call it did not structure itself — the interceptor
// pipeline recovers this panic at the invocation boundary and reports it
// as an aborted rather than failed outcome.
func Skip(reason string) {
	panic(&SkipRequest{Reason: reason})
}
