// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package otdeq

import (
	"context"
	"time"

	"github.com/me/deq-go"
	"go.opentelemetry.io/otel"
)

// MetricsAction adds metrics collection to an action: a counter of body
// executions, a histogram of their durations in seconds, and a counter of
// failures, named metricName+".count", ".duration", and ".errors".
func MetricsAction(
	metricName string,
	action deq.ActionFunc,
) deq.ActionFunc {
	return func(ctx context.Context) error {
		startTime := time.Now()
		meter := otel.GetMeterProvider().Meter("otdeq")

		taskCounter, _ := meter.Int64Counter(metricName + ".count")
		taskDuration, _ := meter.Float64Histogram(metricName + ".duration")

		taskCounter.Add(ctx, 1)

		err := action(ctx)

		taskDuration.Record(ctx, time.Since(startTime).Seconds())
		if err != nil {
			errorCounter, _ := meter.Int64Counter(metricName + ".errors")
			errorCounter.Add(ctx, 1)
		}

		return err
	}
}

// MetricsTask adds metrics collection to a value-producing task, with the
// same instruments as [MetricsAction].
func MetricsTask[T any](
	metricName string,
	body deq.TaskFunc[T],
) deq.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		startTime := time.Now()
		meter := otel.GetMeterProvider().Meter("otdeq")

		taskCounter, _ := meter.Int64Counter(metricName + ".count")
		taskDuration, _ := meter.Float64Histogram(metricName + ".duration")

		taskCounter.Add(ctx, 1)

		result, err := body(ctx)

		taskDuration.Record(ctx, time.Since(startTime).Seconds())
		if err != nil {
			errorCounter, _ := meter.Int64Counter(metricName + ".errors")
			errorCounter.Add(ctx, 1)
		}

		return result, err
	}
}
