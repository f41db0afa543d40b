// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/deque"

	"github.com/me/deq-go/internal/timerp"
)

// Executor runs submitted work on a fixed-size pool of workers fed from a
// double-ended queue. Submission normally enqueues at the tail
// ([Executor.Submit]); urgent work can jump to the head
// ([Executor.SubmitFirst]). Every submission is represented by a [Request],
// a future that can be cancelled and awaited independently of the executor.
//
// Workers claim requests from the head of the queue only, so the two
// insertion points give strict within-queue ordering: head insertions are
// dispatched most-recent-first and always before any queued tail insertion,
// tail insertions in arrival order.
//
// An Executor must be created with [NewExecutor]. Once shut down it rejects
// new submissions but is otherwise inert; it holds no resources beyond its
// worker goroutines, which exit when the queue drains.
type Executor struct {
	mu   sync.Mutex
	cond *sync.Cond
	dq   deque.Deque[*Request]
	live map[*Request]struct{}
	down bool
	idle chan struct{} // closed whenever the live registry is empty
}

// NewExecutor creates an executor with the given number of worker
// goroutines, which start immediately. It panics if workers is less than
// one.
func NewExecutor(workers int) *Executor {
	if workers < 1 {
		panic("executor needs at least one worker")
	}
	ex := &Executor{
		live: make(map[*Request]struct{}),
	}
	ex.cond = sync.NewCond(&ex.mu)
	idle := make(chan struct{})
	close(idle)
	ex.idle = idle
	for i := range workers {
		w := &worker{ex: ex, id: i}
		go w.run()
	}
	return ex
}

// Submit enqueues body at the tail of the queue and returns its [Request].
// The request is visible to workers immediately. Submit fails with
// [ErrRejected] after [Executor.Shutdown] or [Executor.ShutdownNow]. It
// panics if body is nil.
func (ex *Executor) Submit(body TaskFunc[any]) (*Request, error) {
	return ex.submit(body, false, nil)
}

// SubmitFirst is [Executor.Submit] with head insertion: the request is
// dispatched before everything already queued, including earlier head
// insertions.
func (ex *Executor) SubmitFirst(body TaskFunc[any]) (*Request, error) {
	return ex.submit(body, true, nil)
}

func (ex *Executor) submit(body TaskFunc[any], first bool, afterDone func(*Request)) (*Request, error) {
	if body == nil {
		panic("task body must be non-nil")
	}
	r := newRequest(ex, body, afterDone)
	ex.mu.Lock()
	if ex.down {
		ex.mu.Unlock()
		return nil, ErrRejected
	}
	if len(ex.live) == 0 {
		ex.idle = make(chan struct{})
	}
	ex.live[r] = struct{}{}
	if first {
		ex.dq.PushFront(r)
	} else {
		ex.dq.PushBack(r)
	}
	ex.cond.Signal()
	ex.mu.Unlock()
	return r, nil
}

// forget removes r from the live registry. It is called exactly once per
// request, from whichever terminal transition won.
func (ex *Executor) forget(r *Request) {
	ex.mu.Lock()
	if _, ok := ex.live[r]; ok {
		delete(ex.live, r)
		if len(ex.live) == 0 {
			close(ex.idle)
		}
	}
	ex.mu.Unlock()
}

// Shutdown stops the executor from accepting new submissions. Queued and
// running requests are unaffected and still run to completion; use
// [Executor.AwaitTermination] to wait for them.
func (ex *Executor) Shutdown() {
	ex.mu.Lock()
	ex.down = true
	ex.cond.Broadcast()
	ex.mu.Unlock()
}

// ShutdownNow stops the executor from accepting new submissions, cancels
// every queued request, interrupts every running one (cancelling its body's
// context), and returns the bodies of requests that never started, in queue
// order. Waiters on the affected requests observe [ErrCanceled].
func (ex *Executor) ShutdownNow() []TaskFunc[any] {
	ex.mu.Lock()
	ex.down = true
	drained := make([]*Request, 0, ex.dq.Len())
	for ex.dq.Len() > 0 {
		drained = append(drained, ex.dq.PopFront())
	}
	outstanding := make([]*Request, 0, len(ex.live))
	for r := range ex.live {
		outstanding = append(outstanding, r)
	}
	ex.cond.Broadcast()
	ex.mu.Unlock()

	var bodies []TaskFunc[any]
	for _, r := range drained {
		// A false return means the request was already terminal, either a
		// stale deque entry left by an earlier Cancel or a race with one.
		if r.Cancel(false) {
			bodies = append(bodies, r.body)
		}
	}
	for _, r := range outstanding {
		r.Cancel(true)
	}
	return bodies
}

// AwaitTermination blocks until every outstanding request has reached its
// terminal state or the timeout elapses, and reports whether it observed the
// executor with no outstanding requests.
func (ex *Executor) AwaitTermination(timeout time.Duration) bool {
	ex.mu.Lock()
	idle := ex.idle
	ex.mu.Unlock()
	select {
	case <-idle:
		return true
	default:
	}
	t := timerp.Get(timeout)
	defer timerp.Put(t)
	select {
	case <-idle:
		return true
	case <-t.C:
		return false
	}
}

// A worker owns one pool slot: it repeatedly claims the request at the head
// of the queue and invokes it. The loop exits only when the executor is shut
// down and the queue is empty.
type worker struct {
	ex *Executor
	id int
}

func (w *worker) run() {
	ex := w.ex
	for {
		ex.mu.Lock()
		for ex.dq.Len() == 0 && !ex.down {
			ex.cond.Wait()
		}
		if ex.dq.Len() == 0 {
			ex.mu.Unlock()
			return
		}
		r := ex.dq.PopFront()
		ex.mu.Unlock()
		w.invoke(r)
	}
}

// invoke runs one claimed request. The body context is derived fresh per
// request, so interruption of one request can never leak into the next one
// this worker claims.
func (w *worker) invoke(r *Request) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !r.activate(w, cancel) {
		// Cancelled while queued: the registry removal already happened at
		// the cancel transition, and the body must not run.
		return
	}
	value, err := runBody(ctx, r.body)
	r.finish(value, err)
}

// runBody executes a task body, converting a panic into an error wrapping
// [ErrBodyPanic] so that a failing body can never take down its worker.
func runBody(ctx context.Context, body TaskFunc[any]) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			value = nil
			err = fmt.Errorf("%w: %v", ErrBodyPanic, p)
		}
	}()
	return body(ctx)
}
