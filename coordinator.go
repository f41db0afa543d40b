// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import (
	"sync"
	"sync/atomic"
)

// An Instant is a logical timestamp drawn from one [Coordinator]'s clock via
// [Coordinator.Now]. Instants are strictly increasing per coordinator, so
// comparing a task's scheduling instant against a record's transition
// instant is never ambiguous the way coarse wall clocks can be. Instants
// from different coordinators are unrelated.
type Instant uint64

type recordState uint8

const (
	recordScheduled recordState = iota
	recordActive
	recordFinished
)

// dedupRecord tracks one live identifier: the state machine position with
// the instant it was reached, the owner whose body runs (or last ran), and
// the multiset of handles scheduled under the identifier that have not yet
// finished. A record exists if and only if its multiset is non-empty.
type dedupRecord struct {
	state   recordState
	at      Instant
	owner   *Handle
	handles map[*Handle]int
}

// A Coordinator deduplicates tasks that share a caller-supplied identifier:
// at most one execution is live per identifier at a time, and a task whose
// scheduling window overlapped a live (or just-completed) execution attaches
// to that execution's handle instead of running its own body. The decision
// is driven purely by two logical timestamps — when the task was scheduled
// and when it actually started — so it stays correct even when queueing
// delays the start arbitrarily, a race a plain map of in-flight tasks cannot
// resolve.
//
// [Launch] and [Spawn] route through a coordinator when given [WithKey];
// the [Coordinator.Register], [Coordinator.OnStart], and
// [Coordinator.OnFinished] methods are exposed for integrating a custom
// launch primitive with the same protocol.
//
// Each Coordinator is an independent namespace: two coordinators never
// observe each other's records even for equal identifiers. Callers needing
// isolation (tests especially) should create private instances with
// [NewCoordinator] rather than rely on [DefaultCoordinator].
//
// Identifiers are untyped and must be comparable; they are only ever
// inspected for equality. Two semantically different operations must never
// share an identifier — see [TypeMismatchError] for how that mistake
// surfaces.
type Coordinator struct {
	clock   atomic.Uint64
	mu      sync.Mutex
	records map[any]*dedupRecord
}

// NewCoordinator creates an empty, independent deduplication namespace.
func NewCoordinator() *Coordinator {
	return &Coordinator{records: make(map[any]*dedupRecord)}
}

var defaultCoordinator = sync.OnceValue(NewCoordinator)

// DefaultCoordinator returns the process-wide shared coordinator used by
// keyed launches that do not specify [WithCoordinator]. It is initialized
// lazily on first use and never torn down. Tests requiring isolation must
// construct private instances instead.
func DefaultCoordinator() *Coordinator {
	return defaultCoordinator()
}

// Now draws the next instant from this coordinator's clock.
func (c *Coordinator) Now() Instant {
	return Instant(c.clock.Add(1))
}

// Register records that h was scheduled under id at the given instant:
// the identifier's record is created in the Scheduled state if absent, and h
// joins its handle multiset either way. Register never blocks on task
// activity and always succeeds. It must be called before the task is
// dispatched, with an instant drawn before dispatch ([Coordinator.Now]).
func (c *Coordinator) Register(id any, h *Handle, at Instant) {
	if h == nil {
		panic("handle must be non-nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.records[id]
	if rec == nil {
		rec = &dedupRecord{state: recordScheduled, at: at, handles: make(map[*Handle]int)}
		c.records[id] = rec
	}
	rec.handles[h]++
}

// OnStart is called at the moment h's body is about to run, with the
// scheduling instant passed to [Coordinator.Register]. It decides between
// running fresh and attaching:
//
//   - If the record is Active, the owner is returned and the caller must
//     attach to it instead of running its body.
//   - If the record is Finished at an instant later than scheduledAt — that
//     execution was live while this task waited to start — the finished
//     owner is returned and attaching is trivial and immediate.
//   - Otherwise (no record, still Scheduled, or Finished at or before
//     scheduledAt), the record becomes Active owned by h and nil is
//     returned: the caller runs its own body.
//
// A task therefore attaches only to an execution that was live, or had just
// completed, at a time overlapping its own scheduling window; otherwise it
// is entitled to a fresh run.
func (c *Coordinator) OnStart(id any, h *Handle, scheduledAt Instant) *Handle {
	if h == nil {
		panic("handle must be non-nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.records[id]
	if rec == nil {
		// Tolerate a start without a prior Register; equivalent to the
		// no-record row of the decision table.
		rec = &dedupRecord{handles: map[*Handle]int{h: 1}}
		c.records[id] = rec
	}
	switch {
	case rec.state == recordActive:
		return rec.owner
	case rec.state == recordFinished && rec.at > scheduledAt:
		return rec.owner
	}
	rec.state = recordActive
	rec.at = c.Now()
	rec.owner = h
	return nil
}

// OnFinished removes h from the identifier's handle multiset once h has
// reached its terminal state. If the multiset becomes empty the record is
// deleted entirely — a later launch under id starts from scratch. Otherwise,
// if h was the Active owner, the record transitions to Finished now, so
// still-queued tasks scheduled while the execution was live will attach to
// its result when they finally start.
func (c *Coordinator) OnFinished(id any, h *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.records[id]
	if rec == nil {
		return
	}
	switch n := rec.handles[h]; {
	case n > 1:
		rec.handles[h] = n - 1
	case n == 1:
		delete(rec.handles, h)
	}
	if len(rec.handles) == 0 {
		delete(c.records, id)
		return
	}
	if rec.state == recordActive && rec.owner == h {
		rec.state = recordFinished
		rec.at = c.Now()
	}
}
