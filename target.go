// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import "context"

// A thunk is one queued dispatchable unit: run executes it; drop, if
// non-nil, is called instead when the owning queue discards the entry
// without ever running it (shutdown, close, or request cancellation).
type thunk struct {
	run  func()
	drop func()
}

// A Target is an insertion point that [Launch] and [Spawn] dispatch onto:
// the head or tail of an [Executor] ([Executor.First], [Executor.Last]), the
// head or tail of a scheduler [Tier] ([Tier.First], [Tier.Last]), or the
// [Background] pool. The target set is fixed; the interface cannot be
// implemented outside this package.
type Target interface {
	dispatch(th thunk) error
}

// First returns the executor's head insertion point as a dispatch target:
// work launched onto it runs before everything already queued.
func (ex *Executor) First() Target {
	return executorTarget{ex: ex, first: true}
}

// Last returns the executor's tail insertion point as a dispatch target.
func (ex *Executor) Last() Target {
	return executorTarget{ex: ex, first: false}
}

// First returns the tier's head insertion point as a dispatch target.
func (t *Tier) First() Target {
	return tierTarget{t: t, first: true}
}

// Last returns the tier's tail insertion point as a dispatch target.
func (t *Tier) Last() Target {
	return tierTarget{t: t, first: false}
}

// executorTarget rides a normal submission so that executor bookkeeping
// (AwaitTermination, ShutdownNow) covers launched work. The drop hook fires
// if the carrying request is cancelled, whether it was still queued or
// already running: the hook resolves the launched handle as cancelled, which
// in turn cancels the body's context, so ShutdownNow interruption reaches
// launched bodies too.
type executorTarget struct {
	ex    *Executor
	first bool
}

func (t executorTarget) dispatch(th thunk) error {
	body := func(context.Context) (any, error) {
		th.run()
		return nil, nil
	}
	var afterDone func(*Request)
	if th.drop != nil {
		afterDone = func(r *Request) {
			if r.Canceled() {
				th.drop()
			}
		}
	}
	_, err := t.ex.submit(body, t.first, afterDone)
	return err
}

type tierTarget struct {
	t     *Tier
	first bool
}

func (t tierTarget) dispatch(th thunk) error {
	return t.t.s.enqueue(t.t, th, t.first)
}

type backgroundTarget struct{}

func (backgroundTarget) dispatch(th thunk) error {
	go th.run()
	return nil
}

// Background dispatches every task onto its own new goroutine immediately,
// with no queueing and no concurrency bound. It never rejects.
var Background Target = backgroundTarget{}
