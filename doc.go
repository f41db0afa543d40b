// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

// Package deq schedules many short units of work onto bounded pools of
// workers, with two refinements over a plain task queue: work can be
// inserted at either end of a priority-ordered set of double-ended queues,
// and tasks sharing a caller-supplied identifier are deduplicated so that
// only one logical execution is live at a time, latecomers observing the
// in-flight or most-recent result instead of repeating the work.
//
// [Executor] is the deque-backed worker pool. Every submission returns a
// cancellable, awaitable [Request]; urgent work jumps the queue via
// [Executor.SubmitFirst]. [Scheduler] composes any number of such deques
// into strictly-prioritized tiers served by one shared pool: on every
// dequeue, workers take from the highest-priority non-empty tier.
//
// [Launch] and [Spawn] run a body on any of those insertion points — or a
// plain goroutine via [Background] — and produce a [Handle] supporting
// cancel, completion queries, and join. Tagging a launch with [WithKey]
// routes it through a [Coordinator], whose per-identifier state machine
// compares scheduling instants against execution transitions, keeping
// deduplication correct even when a queue delays a task's start
// arbitrarily: a naive map of in-flight tasks would re-run work that
// finished moments after the duplicate was scheduled, or miss work that was
// still queued.
package deq
