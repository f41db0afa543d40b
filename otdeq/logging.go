// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package otdeq

import (
	"context"
	"time"

	"github.com/me/deq-go"
	"go.uber.org/zap"
)

// LoggedAction adds structured logging to an action. The wrapper logs the
// start and completion of each body execution, including timing information
// and any error that occurs.
func LoggedAction(
	operationName string,
	action deq.ActionFunc,
) deq.ActionFunc {
	return func(ctx context.Context) error {
		// Use the process-wide logger; callers configure it with
		// zap.ReplaceGlobals.
		logger := zap.L()

		logger.Debug("Starting task",
			zap.String("operation", operationName),
			zap.String("component", "otdeq"))

		startTime := time.Now()
		err := action(ctx)
		duration := time.Since(startTime)

		if err != nil {
			logger.Error("Task failed",
				zap.String("operation", operationName),
				zap.String("component", "otdeq"),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Debug("Task completed",
				zap.String("operation", operationName),
				zap.String("component", "otdeq"),
				zap.Duration("duration", duration))
		}

		return err
	}
}

// LoggedTask adds structured logging to a value-producing task, under the
// same rules as [LoggedAction].
func LoggedTask[T any](
	operationName string,
	body deq.TaskFunc[T],
) deq.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		logger := zap.L()

		logger.Debug("Starting task",
			zap.String("operation", operationName),
			zap.String("component", "otdeq"))

		startTime := time.Now()
		result, err := body(ctx)
		duration := time.Since(startTime)

		if err != nil {
			logger.Error("Task failed",
				zap.String("operation", operationName),
				zap.String("component", "otdeq"),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Debug("Task completed",
				zap.String("operation", operationName),
				zap.String("component", "otdeq"),
				zap.Duration("duration", duration))
		}

		return result, err
	}
}
