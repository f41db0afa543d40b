// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq_test

import (
	"context"
	"fmt"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	deq "github.com/me/deq-go"
)

// Demonstrates launch deduplication: while one execution of an operation is
// live, launching under an equal key attaches to it instead of running the
// body again.
//
//nolint:errcheck
func ExampleWithKey() {
	ctx := context.Background()
	c := deq.NewCoordinator()

	blocker := make(chan struct{})
	entered := make(chan struct{})
	bodies := 0
	fetch := func(ctx context.Context) (string, error) {
		bodies++
		close(entered)
		<-blocker
		return "users:42", nil
	}

	owner, _ := deq.Spawn(ctx, deq.Background, fetch,
		deq.WithKey("fetch:42"), deq.WithCoordinator(c))
	<-entered

	// Same key while the first execution is live: attaches, fetch does not
	// run again.
	dup, _ := deq.Spawn(ctx, deq.Background, fetch,
		deq.WithKey("fetch:42"), deq.WithCoordinator(c))

	close(blocker)
	a, _ := owner.Result(ctx)
	b, _ := dup.Result(ctx)
	fmt.Printf("owner=%s dup=%s bodies=%d\n", a, b, bodies)

	// Output:
	// owner=users:42 dup=users:42 bodies=1
}
