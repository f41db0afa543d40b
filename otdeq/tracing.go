// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

// Package otdeq provides OpenTelemetry and zap integration for the deq task
// library. Task bodies run under a context derived from the context they were
// launched with, so spans created inside a wrapped body are parented to the
// launching span with no extra plumbing; these wrappers add the spans, metrics,
// and structured logs around each body execution.
package otdeq

import (
	"context"

	"github.com/me/deq-go"
	"go.opentelemetry.io/otel"
)

// TracedAction wraps an action with a span of the given operation name. The
// span covers exactly one execution of the body; a deduplicated launch that
// attaches to another execution never runs the body and so records no span.
func TracedAction(
	operationName string,
	action deq.ActionFunc,
) deq.ActionFunc {
	return func(ctx context.Context) error {
		tracer := otel.Tracer("otdeq")
		ctx, span := tracer.Start(ctx, operationName)
		defer span.End()

		return action(ctx)
	}
}

// TracedTask wraps a value-producing task with a span of the given operation
// name, under the same rules as [TracedAction].
func TracedTask[T any](
	operationName string,
	body deq.TaskFunc[T],
) deq.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		tracer := otel.Tracer("otdeq")
		ctx, span := tracer.Start(ctx, operationName)
		defer span.End()

		return body(ctx)
	}
}
