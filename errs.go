// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import "fmt"

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrRejected is returned when work is handed to an [Executor] after
// [Executor.Shutdown] or to a [Tier] after [Scheduler.Close].
const ErrRejected = constError("submission rejected")

// ErrCanceled is returned by [Request.Get], [Handle.Join], and related waits
// when the request or handle was cancelled before producing a result. It is
// also the error reported by [CancelReader.Read] once its task is cancelled.
const ErrCanceled = constError("task canceled")

// ErrTimeout is returned by [Request.GetTimeout] when the bounded wait
// elapses before the request is done.
const ErrTimeout = constError("wait timed out")

// ErrBodyPanic is the cause recorded for a task whose body panicked. It is
// always wrapped in an [ExecutionError], so waiters can detect it with
// [errors.Is].
const ErrBodyPanic = constError("task body panicked")

// ExecutionError wraps an error returned (or a panic raised) by a task body.
// Waiters on the associated [Request] or [Handle] receive the wrapped form so
// that failures produced by the body are distinguishable from conditions
// produced by the engine itself, such as [ErrCanceled] or [ErrTimeout].
type ExecutionError struct {
	// Cause is the error returned by the body, or an error wrapping
	// [ErrBodyPanic] if the body panicked.
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("task failed: %v", e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError is returned by [TypedHandle.Result] when the handle
// attached to an owner whose body produced a result of a different type, or
// no result at all. Identifiers are untyped, so two unrelated operations that
// accidentally share one identifier surface here rather than as an unchecked
// cast; assigning the same identifier to semantically different work is a
// caller error.
type TypeMismatchError struct {
	// Want is the result type expected by the attaching handle.
	Want string
	// Got describes the owner's actual result: its dynamic type, or "no
	// value" when the owner was fire-and-forget.
	Got string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("task result type mismatch: want %s, got %s", e.Want, e.Got)
}
