// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq_test

import (
	"context"
	"fmt"
	"time"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	deq "github.com/me/deq-go"
)

// Demonstrates launching typed tasks onto an executor and collecting their
// results.
//
//nolint:errcheck
func ExampleSpawn() {
	ctx := context.Background()
	ex := deq.NewExecutor(2)

	square, _ := deq.Spawn(ctx, ex.Last(), func(context.Context) (int, error) {
		return 7 * 7, nil
	})
	greet, _ := deq.Spawn(ctx, ex.Last(), func(context.Context) (string, error) {
		return "ready", nil
	})

	n, _ := square.Result(ctx)
	s, _ := greet.Result(ctx)
	fmt.Println(n, s)

	ex.Shutdown()
	ex.AwaitTermination(time.Second)

	// Output:
	// 49 ready
}
