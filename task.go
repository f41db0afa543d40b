// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import (
	"context"
)

// A TaskFunc is the body of a value-producing unit of work. It is executed at
// most once, on whichever worker claims it, and returns a result of type T
// and an error value. The provided context is cancelled when the work is
// cancelled ([Request.Cancel] or [Handle.Cancel]) or interrupted by
// [Executor.ShutdownNow], and should be respected at any blocking point
// within the body. Any other inputs are expected to be provided by specifying
// the TaskFunc as a [function literal] that references and therefore captures
// local variables via [lexical closure].
//
// Bodies submitted with [Executor.Submit] or launched with [Spawn] may run
// concurrently with the submitting goroutine and with each other, so a
// TaskFunc must be thread-safe, including access to any captured variables.
//
// A panic raised by a TaskFunc does not kill its worker: it is recovered and
// recorded as the task's failure, wrapped as an [ExecutionError] whose cause
// matches [ErrBodyPanic].
//
// [function literal]: https://go.dev/ref/spec#Function_literals
// [lexical closure]: https://en.wikipedia.org/wiki/Closure_(computer_programming)
type TaskFunc[T any] = func(context.Context) (T, error)

// An ActionFunc is the body of a fire-and-forget unit of work launched with
// [Launch]: like a [TaskFunc] but producing no value. The same context,
// thread-safety, and panic-recovery rules apply.
type ActionFunc = func(context.Context) error
