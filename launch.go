// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// An Option adjusts how [Launch] and [Spawn] dispatch a task.
type Option func(*launchConfig)

type launchConfig struct {
	key         any
	keyed       bool
	coordinator *Coordinator
}

// WithKey tags the task with a deduplication identifier. The launch is then
// routed through a [Coordinator]: if an execution under an equal key was
// live — or finished while this task waited to start — the task attaches to
// that execution's outcome instead of running its own body. The key must be
// comparable and must uniquely denote one semantic operation; see
// [Coordinator] and [TypeMismatchError].
func WithKey(key any) Option {
	return func(cfg *launchConfig) {
		cfg.key = key
		cfg.keyed = true
	}
}

// WithCoordinator selects the namespace consulted by [WithKey] instead of
// [DefaultCoordinator]. It has no effect on an unkeyed launch.
func WithCoordinator(c *Coordinator) Option {
	return func(cfg *launchConfig) {
		cfg.coordinator = c
	}
}

// Launch dispatches a fire-and-forget task onto target and returns its
// [Handle]. The body is invoked with a context derived from ctx that is
// cancelled by [Handle.Cancel]; the handle resolves when the body returns,
// when it is cancelled, or — for a launch deduplicated via [WithKey] — when
// the owning execution it attached to resolves. Launch itself never blocks
// on task activity; it fails only if target refuses the dispatch
// ([ErrRejected] from a shut-down executor or closed scheduler). It panics
// if body or target is nil.
func Launch(ctx context.Context, target Target, body ActionFunc, opts ...Option) (*Handle, error) {
	if body == nil {
		panic("task body must be non-nil")
	}
	h := newHandle(ctx, func(ctx context.Context) (any, error) {
		return nil, body(ctx)
	}, false)
	if err := launch(h, target, opts); err != nil {
		return nil, err
	}
	return h, nil
}

// Spawn is [Launch] for a value-producing body: the returned [TypedHandle]
// additionally yields the task's result via [TypedHandle.Result]. A spawn
// deduplicated via [WithKey] that attaches to an owner of a different result
// type reports the mismatch at extraction, not at launch.
func Spawn[T any](ctx context.Context, target Target, body TaskFunc[T], opts ...Option) (*TypedHandle[T], error) {
	if body == nil {
		panic("task body must be non-nil")
	}
	h := newHandle(ctx, func(ctx context.Context) (any, error) {
		value, err := body(ctx)
		return value, err
	}, true)
	if err := launch(h, target, opts); err != nil {
		return nil, err
	}
	return &TypedHandle[T]{Handle: h}, nil
}

func launch(h *Handle, target Target, opts []Option) error {
	if target == nil {
		panic("dispatch target must be non-nil")
	}
	var cfg launchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	run := func() {
		ctx, ok := h.tryStart()
		if !ok {
			// Went terminal while queued; the body must not run.
			return
		}
		value, err := runBody(ctx, h.body)
		h.complete(value, h.hasValue, err)
	}

	if cfg.keyed {
		c := cfg.coordinator
		if c == nil {
			c = DefaultCoordinator()
		}
		key := cfg.key
		scheduledAt := c.Now()
		c.Register(key, h, scheduledAt)
		h.addFinishHook(func() {
			c.OnFinished(key, h)
		})
		run = func() {
			ctx, ok := h.tryStart()
			if !ok {
				return
			}
			if owner := c.OnStart(key, h, scheduledAt); owner != nil {
				h.attachTo(owner)
				return
			}
			value, err := runBody(ctx, h.body)
			h.complete(value, h.hasValue, err)
		}
	}

	if err := target.dispatch(thunk{run: run, drop: h.Cancel}); err != nil {
		// Resolve the handle so registered dedup bookkeeping unwinds; its
		// waiters, if any, observe the rejection.
		h.fail(err)
		return err
	}
	return nil
}

// JoinAll blocks until every given handle is terminal or ctx expires,
// returning the first non-nil terminal error. A failure cancels the
// remaining joins (the tasks themselves are unaffected; join a handle
// individually to wait regardless of other failures).
func JoinAll(ctx context.Context, handles ...*Handle) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, h := range handles {
		g.Go(func() error {
			return h.Join(ctx)
		})
	}
	return g.Wait()
}
