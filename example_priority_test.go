// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq_test

import (
	"fmt"
	"sync"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	deq "github.com/me/deq-go"
)

// Demonstrates strict tier priority: urgent work enqueued later is still
// dispatched first, and head insertion jumps the queue within a tier.
//
//nolint:errcheck
func ExampleScheduler() {
	s := deq.NewScheduler(1)
	urgent := s.AddTier()
	routine := s.AddTier()

	// Hold the only worker so that everything below queues up before any
	// of it is dispatched.
	blocker := make(chan struct{})
	entered := make(chan struct{})
	urgent.EnqueueLast(func() {
		close(entered)
		<-blocker
	})
	<-entered

	var wg sync.WaitGroup
	say := func(message string) func() {
		return func() {
			fmt.Println(message)
			wg.Done()
		}
	}
	wg.Add(3)
	routine.EnqueueLast(say("routine cleanup"))
	urgent.EnqueueLast(say("serve request"))
	urgent.EnqueueFirst(say("handle alarm"))

	close(blocker)
	wg.Wait()
	s.Close()

	// Output:
	// handle alarm
	// serve request
	// routine cleanup
}
