// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

// Package timerp pools timers for the timed waits in deq (Request.GetTimeout,
// Executor.AwaitTermination) so that hammering those paths does not allocate
// a timer per call. Reuse without draining relies on [Go 1.23+ behavior].
//
// [Go 1.23+ behavior]: https://pkg.go.dev/time#NewTimer
package timerp

import (
	"sync"
	"time"
)

var pool = sync.Pool{
	New: func() any {
		return time.NewTimer(0)
	},
}

// Get returns a timer armed to fire after d.
func Get(d time.Duration) *time.Timer {
	t := pool.Get().(*time.Timer)
	t.Reset(d)
	return t
}

// Put stops t and returns it to the pool. The timer must not be touched
// afterward.
func Put(t *time.Timer) {
	t.Stop()
	pool.Put(t)
}
