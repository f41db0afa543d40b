// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package otdeq

import (
	"context"

	"github.com/me/deq-go"
)

// InstrumentedAction combines tracing, metrics, and logging for actions into a single wrapper.
// This provides a convenient way to apply all instrumentation at once.
func InstrumentedAction(
	operationName string,
	action deq.ActionFunc,
) deq.ActionFunc {
	// Apply wrappers inside-out:
	// 1. First add logging
	loggedAction := LoggedAction(operationName, action)

	// 2. Then add metrics
	metricsAction := MetricsAction(operationName, loggedAction)

	// 3. Finally add tracing
	return TracedAction(operationName, metricsAction)
}

// InstrumentedTask combines tracing, metrics, and logging for value-producing
// tasks into a single wrapper. This provides a convenient way to apply all
// instrumentation at once.
func InstrumentedTask[T any](
	operationName string,
	body deq.TaskFunc[T],
) deq.TaskFunc[T] {
	// Apply wrappers inside-out:
	// 1. First add logging
	loggedTask := LoggedTask(operationName, body)

	// 2. Then add metrics
	metricsTask := MetricsTask(operationName, loggedTask)

	// 3. Finally add tracing
	return TracedTask(operationName, metricsTask)
}

// InstrumentedLaunch is a convenience method that wraps body with
// [InstrumentedAction] and dispatches it onto target. This avoids the need
// for the user to wrap the body manually before every launch.
//
// Example:
//
//	// Instead of deq.Launch(ctx, target, otdeq.InstrumentedAction("process-data", myAction)), use:
//	h, err := otdeq.InstrumentedLaunch(ctx, target, "process-data", myAction)
func InstrumentedLaunch(
	ctx context.Context,
	target deq.Target,
	operationName string,
	action deq.ActionFunc,
	opts ...deq.Option,
) (*deq.Handle, error) {
	return deq.Launch(ctx, target, InstrumentedAction(operationName, action), opts...)
}

// InstrumentedSpawn is a convenience method that wraps body with
// [InstrumentedTask] and dispatches it onto target.
func InstrumentedSpawn[T any](
	ctx context.Context,
	target deq.Target,
	operationName string,
	body deq.TaskFunc[T],
	opts ...deq.Option,
) (*deq.TypedHandle[T], error) {
	return deq.Spawn(ctx, target, InstrumentedTask(operationName, body), opts...)
}
