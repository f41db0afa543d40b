// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import (
	"sync"

	"github.com/gammazero/deque"
)

// Scheduler composes any number of independently-addressable queueing tiers
// over one shared pool of workers. Tiers are strictly prioritized in the
// order they were added: on every single dequeue a worker re-scans the tiers
// and takes the head of the highest-priority non-empty one, so a task
// enqueued into a higher tier after lower-tier tasks were already queued is
// still dispatched first. Work already claimed by a worker is never
// preempted.
//
// Within one tier the queue is a true deque: [Tier.EnqueueLast] insertions
// are dispatched in arrival order, [Tier.EnqueueFirst] insertions in reverse
// arrival order and always before any queued last-insertion of the same
// tier.
//
// A Scheduler must be created with [NewScheduler].
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tiers  []*Tier
	closed bool
	wg     sync.WaitGroup
}

// A Tier is one priority level's sub-queue within a [Scheduler], created
// with [Scheduler.AddTier]. Tasks are only ever removed from its head;
// insertion may occur at either end. A tier lives for its scheduler's
// lifetime.
type Tier struct {
	s  *Scheduler
	dq deque.Deque[thunk]
}

// NewScheduler creates a scheduler with the given number of shared worker
// goroutines, which start immediately. It panics if workers is less than
// one.
func NewScheduler(workers int) *Scheduler {
	if workers < 1 {
		panic("scheduler needs at least one worker")
	}
	s := &Scheduler{}
	s.cond = sync.NewCond(&s.mu)
	s.wg.Add(workers)
	for range workers {
		go s.worker()
	}
	return s
}

// AddTier registers a new tier at the next-lowest priority, below every
// tier added before it. Tiers cannot be removed.
func (s *Scheduler) AddTier() *Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Tier{s: s}
	s.tiers = append(s.tiers, t)
	return t
}

// Close stops the scheduler: workers finish whatever they have already
// claimed and exit, and tasks still queued are dropped without running
// (launched handles among them resolve as cancelled). Close blocks until
// every worker has returned. Enqueueing after Close fails with
// [ErrRejected]. Closing twice is a no-op.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	var dropped []thunk
	for _, t := range s.tiers {
		for t.dq.Len() > 0 {
			dropped = append(dropped, t.dq.PopFront())
		}
	}
	s.cond.Broadcast()
	s.mu.Unlock()

	s.wg.Wait()
	for _, th := range dropped {
		if th.drop != nil {
			th.drop()
		}
	}
}

func (s *Scheduler) enqueue(t *Tier, th thunk, first bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrRejected
	}
	if first {
		t.dq.PushFront(th)
	} else {
		t.dq.PushBack(th)
	}
	s.cond.Signal()
	s.mu.Unlock()
	return nil
}

// takeNext pops the head of the highest-priority non-empty tier. The caller
// must hold mu.
func (s *Scheduler) takeNext() (thunk, bool) {
	for _, t := range s.tiers {
		if t.dq.Len() > 0 {
			return t.dq.PopFront(), true
		}
	}
	return thunk{}, false
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	s.mu.Lock()
	for {
		if s.closed {
			break
		}
		if th, ok := s.takeNext(); ok {
			s.mu.Unlock()
			th.run()
			s.mu.Lock()
			continue
		}
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// EnqueueFirst inserts task at the head of this tier: it will be dispatched
// before everything else currently queued in the tier, including earlier
// head insertions. Wakes a worker if one is blocked waiting for work. Panics
// if task is nil; fails with [ErrRejected] after [Scheduler.Close].
func (t *Tier) EnqueueFirst(task func()) error {
	if task == nil {
		panic("task must be non-nil")
	}
	return t.s.enqueue(t, thunk{run: task}, true)
}

// EnqueueLast inserts task at the tail of this tier, behind everything
// already queued there. Wakes a worker if one is blocked waiting for work.
// Panics if task is nil; fails with [ErrRejected] after [Scheduler.Close].
func (t *Tier) EnqueueLast(task func()) error {
	if task == nil {
		panic("task must be non-nil")
	}
	return t.s.enqueue(t, thunk{run: task}, false)
}
