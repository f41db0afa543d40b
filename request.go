// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/me/deq-go/internal/timerp"
)

// Request is the cancellable, awaitable future returned by [Executor.Submit]
// and [Executor.SubmitFirst]. It represents one pending or in-flight unit of
// work: it is created in a pending state, becomes active when a worker claims
// it, and reaches exactly one terminal outcome — a result, a captured
// failure, or cancellation. The terminal transition is monotonic: whichever
// of completion and [Request.Cancel] happens first wins, and the loser's
// effect is a no-op.
type Request struct {
	id   uuid.UUID
	body TaskFunc[any]
	ex   *Executor

	mu        sync.Mutex
	done      bool
	canceled  bool
	owner     *worker            // non-nil only while the body is running
	interrupt context.CancelFunc // cancels the running body's context
	value     any
	failure   error
	doneCh    chan struct{}
	afterDone func(*Request) // runs once, immediately after the terminal transition
}

func newRequest(ex *Executor, body TaskFunc[any], afterDone func(*Request)) *Request {
	return &Request{
		id:        uuid.New(),
		body:      body,
		ex:        ex,
		doneCh:    make(chan struct{}),
		afterDone: afterDone,
	}
}

// ID returns the unique identity assigned to this request at submission.
func (r *Request) ID() uuid.UUID {
	return r.id
}

// Done returns a channel that is closed once the request has reached its
// terminal outcome, whether result, failure, or cancellation.
func (r *Request) Done() <-chan struct{} {
	return r.doneCh
}

// Canceled reports whether cancellation won the race to this request's
// terminal transition.
func (r *Request) Canceled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

// Cancel requests cancellation. If the request is already done it returns
// false and has no effect. Otherwise it marks the request cancelled and done,
// removes it from the executor's live-request registry, releases all waiters
// with [ErrCanceled], and returns true. A request cancelled while still
// queued will never run its body. If a worker currently owns the request and
// mayInterrupt is set, the body's context is cancelled as well; without
// mayInterrupt the body is left to finish on its own, though its eventual
// return no longer changes the outcome.
func (r *Request) Cancel(mayInterrupt bool) bool {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return false
	}
	r.canceled = true
	r.done = true
	var intr context.CancelFunc
	if mayInterrupt && r.owner != nil {
		intr = r.interrupt
	}
	cb := r.afterDone
	r.afterDone = nil
	close(r.doneCh)
	r.mu.Unlock()

	if intr != nil {
		intr()
	}
	r.ex.forget(r)
	if cb != nil {
		cb(r)
	}
	return true
}

// Get blocks until the request is done and returns its outcome: the result
// value, the captured failure wrapped as an [ExecutionError], or
// [ErrCanceled]. Expiry of ctx is a condition local to this call only — it
// returns ctx.Err() without affecting the request.
func (r *Request) Get(ctx context.Context) (any, error) {
	select {
	case <-r.doneCh:
	default:
		select {
		case <-r.doneCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.outcome()
}

// GetTimeout is [Request.Get] with a bounded wait: it returns [ErrTimeout]
// if the request is still not done after the given duration. Timing out does
// not affect the request's eventual completion.
func (r *Request) GetTimeout(timeout time.Duration) (any, error) {
	select {
	case <-r.doneCh:
		return r.outcome()
	default:
	}
	t := timerp.Get(timeout)
	defer timerp.Put(t)
	select {
	case <-r.doneCh:
		return r.outcome()
	case <-t.C:
		return nil, ErrTimeout
	}
}

func (r *Request) outcome() (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.canceled:
		return nil, ErrCanceled
	case r.failure != nil:
		return nil, &ExecutionError{Cause: r.failure}
	default:
		return r.value, nil
	}
}

// activate claims the request for a worker. It fails if the request was
// cancelled while queued, in which case the body must not run.
func (r *Request) activate(w *worker, interrupt context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return false
	}
	r.owner = w
	r.interrupt = interrupt
	return true
}

// finish records the body's outcome. Ownership is cleared before the outcome
// is recorded; if cancellation already won, the outcome is discarded and the
// registry is left alone, since removal happened at the cancel transition.
func (r *Request) finish(value any, err error) {
	r.mu.Lock()
	r.owner = nil
	r.interrupt = nil
	if r.done {
		r.mu.Unlock()
		return
	}
	r.value = value
	r.failure = err
	r.done = true
	cb := r.afterDone
	r.afterDone = nil
	close(r.doneCh)
	r.mu.Unlock()

	r.ex.forget(r)
	if cb != nil {
		cb(r)
	}
}
