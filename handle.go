// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

type handleState uint8

const (
	handleScheduled handleState = iota
	handleRunning
	handleCanceled
	handleFinished
)

// Handle is an opaque reference to a task launched with [Launch] or [Spawn].
// It supports cancellation, completion queries, and blocking until
// completion; a [TypedHandle] additionally extracts the task's result.
//
// A handle moves from scheduled, to running, to exactly one terminal state:
// cancelled, or finished (with a result or a failure). The terminal
// transition is monotonic — whichever of [Handle.Cancel], body completion,
// or attachment resolution happens first wins, and the loser's effect is a
// no-op. A handle that attached to another execution under a shared
// deduplication identifier reaches its terminal state when that owner does,
// carrying the owner's outcome.
type Handle struct {
	id       uuid.UUID
	body     TaskFunc[any]
	hasValue bool // whether a fresh run of body produces a distinguishable value
	parent   context.Context

	mu         sync.Mutex
	state      handleState
	cancelBody context.CancelFunc // non-nil only while the body is running
	value      any
	valued     bool // tag of the outcome union: value is meaningful
	err        error
	doneCh     chan struct{}
	hooks      []func() // run at the terminal transition, before doneCh closes
	callbacks  []func() // run after doneCh closes; used by attached duplicates
}

func newHandle(ctx context.Context, body TaskFunc[any], hasValue bool) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Handle{
		id:       uuid.New(),
		body:     body,
		hasValue: hasValue,
		parent:   ctx,
		doneCh:   make(chan struct{}),
	}
}

// ID returns the unique identity assigned to this handle at launch.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Done returns a channel that is closed once the handle has reached its
// terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.doneCh
}

// Err returns the terminal error of the handle: nil for success, an
// [ExecutionError] for a body failure, [ErrCanceled] for cancellation (the
// handle's own, or the owner's when attached), or [ErrRejected] when the
// dispatch target refused the task. Before the handle is done, Err returns
// nil; callers should consult it only after [Handle.Done] is closed or
// [Handle.Join] returns.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.terminalLocked() {
		return h.err
	}
	return nil
}

// Canceled reports whether this handle itself was cancelled. A handle that
// merely observed a cancelled owner finishes with [ErrCanceled] but is not
// itself cancelled.
func (h *Handle) Canceled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == handleCanceled
}

// Join blocks until the handle is terminal and returns its error as
// described for [Handle.Err]. Expiry of ctx is a condition local to this
// call only — it returns ctx.Err() without affecting the task.
func (h *Handle) Join(ctx context.Context) error {
	select {
	case <-h.doneCh:
	default:
		select {
		case <-h.doneCh:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Cancel requests cancellation and wins immediately unless the handle is
// already terminal: waiters are released with [ErrCanceled] and, if the body
// is running, its context is cancelled. The body's eventual return then no
// longer changes the outcome. Cancelling a handle that attached to an owner
// only detaches this handle's waiters; the owner's execution is never
// affected.
func (h *Handle) Cancel() {
	h.resolve(handleCanceled, nil, false, ErrCanceled)
}

// tryStart moves the handle from scheduled to running and returns the
// context the body must run under. It fails if the handle went terminal
// while queued, in which case the body must not run.
func (h *Handle) tryStart() (context.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != handleScheduled {
		return nil, false
	}
	h.state = handleRunning
	ctx, cancel := context.WithCancel(h.parent)
	h.cancelBody = cancel
	return ctx, true
}

// complete records a fresh run's outcome: a body error is wrapped as an
// [ExecutionError], a value is kept under the outcome tag.
func (h *Handle) complete(value any, valued bool, err error) {
	if err != nil {
		h.resolve(handleFinished, nil, false, &ExecutionError{Cause: err})
		return
	}
	h.resolve(handleFinished, value, valued, nil)
}

// fail resolves the handle with an engine condition such as [ErrRejected],
// distinct from a body failure.
func (h *Handle) fail(err error) {
	h.resolve(handleFinished, nil, false, err)
}

// attachTo arranges for h to adopt owner's outcome at owner's terminal
// transition (immediately, if owner is already terminal). No goroutine waits
// on the owner; resolution is driven by the owner's own transition.
func (h *Handle) attachTo(owner *Handle) {
	owner.onDone(func() {
		owner.mu.Lock()
		value, valued, err := owner.value, owner.valued, owner.err
		owner.mu.Unlock()
		h.resolve(handleFinished, value, valued, err)
	})
}

// addFinishHook registers fn to run exactly once at the terminal transition,
// strictly before the done channel closes. A caller that observes completion
// is therefore guaranteed the hooks have already run. Must be registered
// before the handle can go terminal.
func (h *Handle) addFinishHook(fn func()) {
	h.mu.Lock()
	if h.terminalLocked() {
		h.mu.Unlock()
		fn()
		return
	}
	h.hooks = append(h.hooks, fn)
	h.mu.Unlock()
}

// onDone runs fn once the handle is terminal; immediately if it already is.
func (h *Handle) onDone(fn func()) {
	h.mu.Lock()
	if h.terminalLocked() {
		h.mu.Unlock()
		fn()
		return
	}
	h.callbacks = append(h.callbacks, fn)
	h.mu.Unlock()
}

func (h *Handle) terminalLocked() bool {
	return h.state == handleCanceled || h.state == handleFinished
}

// resolve performs the single terminal transition. Exactly one caller wins;
// it releases the body context, runs the finish hooks, closes the done
// channel, and finally notifies attached duplicates. Hooks and callbacks run
// without holding the handle lock.
func (h *Handle) resolve(state handleState, value any, valued bool, err error) bool {
	h.mu.Lock()
	if h.terminalLocked() {
		h.mu.Unlock()
		return false
	}
	cancelBody := h.cancelBody
	h.cancelBody = nil
	h.state = state
	h.value, h.valued, h.err = value, valued, err
	hooks := h.hooks
	h.hooks = nil
	cbs := h.callbacks
	h.callbacks = nil
	h.mu.Unlock()

	if cancelBody != nil {
		cancelBody()
	}
	for _, fn := range hooks {
		fn()
	}
	close(h.doneCh)
	for _, fn := range cbs {
		fn()
	}
	return true
}

// TypedHandle is a [Handle] for a task launched with [Spawn], adding typed
// access to the task's result.
type TypedHandle[T any] struct {
	*Handle
}

// Result blocks until the handle is terminal and returns the task's result.
// Errors are as for [Handle.Join]; additionally, if this handle attached to
// an owner whose body produced a value of a different type — or no value at
// all — Result fails with a [TypeMismatchError]. That only arises when two
// unrelated operations share one deduplication identifier, which is a caller
// error by contract.
func (h *TypedHandle[T]) Result(ctx context.Context) (T, error) {
	var zero T
	if err := h.Join(ctx); err != nil {
		return zero, err
	}
	h.mu.Lock()
	value, valued := h.value, h.valued
	h.mu.Unlock()
	if !valued {
		return zero, &TypeMismatchError{Want: typeName[T](), Got: "no value"}
	}
	v, ok := value.(T)
	if !ok {
		return zero, &TypeMismatchError{Want: typeName[T](), Got: fmt.Sprintf("%T", value)}
	}
	return v, nil
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
