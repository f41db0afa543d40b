// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/me/deq-go"
	"github.com/stretchr/testify/require"
)

func TestLaunchOnExecutorTargets(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	ex := deq.NewExecutor(1)

	blocker := make(chan struct{})
	entered := make(chan struct{})
	_, err := ex.Submit(func(ctx context.Context) (any, error) {
		close(entered)
		<-blocker
		return nil, nil
	})
	chk.NoError(err)
	<-entered

	var mu sync.Mutex
	order := []string{}
	mark := func(name string) deq.ActionFunc {
		return func(ctx context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	a, err := deq.Launch(ctx, ex.Last(), mark("a"))
	chk.NoError(err)
	b, err := deq.Launch(ctx, ex.Last(), mark("b"))
	chk.NoError(err)
	c, err := deq.Launch(ctx, ex.First(), mark("c"))
	chk.NoError(err)

	close(blocker)
	chk.NoError(deq.JoinAll(ctx, a, b, c))

	mu.Lock()
	defer mu.Unlock()
	chk.Equal([]string{"c", "a", "b"}, order)

	ex.Shutdown()
	chk.True(ex.AwaitTermination(time.Second))
}

func TestLaunchOnTierTargets(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	s := deq.NewScheduler(1)
	defer s.Close()
	high := s.AddTier()
	low := s.AddTier()

	release := holdWorker(chk, high)

	var mu sync.Mutex
	order := []string{}
	mark := func(name string) deq.ActionFunc {
		return func(ctx context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	a, err := deq.Launch(ctx, low.Last(), mark("a"))
	chk.NoError(err)
	b, err := deq.Launch(ctx, high.Last(), mark("b"))
	chk.NoError(err)
	c, err := deq.Launch(ctx, high.First(), mark("c"))
	chk.NoError(err)

	release()
	chk.NoError(deq.JoinAll(ctx, a, b, c))

	mu.Lock()
	defer mu.Unlock()
	chk.Equal([]string{"c", "b", "a"}, order)
}

func TestSpawnResult(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	h, err := deq.Spawn(ctx, deq.Background, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	chk.NoError(err)

	value, err := h.Result(ctx)
	chk.NoError(err)
	chk.Equal(42, value)
	chk.NoError(h.Err())
	chk.False(h.Canceled())
}

func TestSpawnBodyErrorWrapped(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	errBoom := errors.New("boom")
	h, err := deq.Spawn(ctx, deq.Background, func(ctx context.Context) (int, error) {
		return 0, errBoom
	})
	chk.NoError(err)

	_, err = h.Result(ctx)
	var execErr *deq.ExecutionError
	chk.ErrorAs(err, &execErr)
	chk.ErrorIs(err, errBoom)
	chk.ErrorIs(h.Err(), errBoom)
}

func TestLaunchNilArgumentPanics(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	chk.PanicsWithValue("task body must be non-nil", func() {
		_, _ = deq.Launch(ctx, deq.Background, nil)
	})
	chk.PanicsWithValue("task body must be non-nil", func() {
		_, _ = deq.Spawn[int](ctx, deq.Background, nil)
	})
	chk.PanicsWithValue("dispatch target must be non-nil", func() {
		_, _ = deq.Launch(ctx, nil, func(ctx context.Context) error { return nil })
	})
}

func TestLaunchRejectedByStoppedTargets(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	ex := deq.NewExecutor(1)
	ex.Shutdown()
	h, err := deq.Launch(ctx, ex.Last(), func(ctx context.Context) error { return nil })
	chk.ErrorIs(err, deq.ErrRejected)
	chk.Nil(h)

	s := deq.NewScheduler(1)
	tier := s.AddTier()
	s.Close()
	th, err := deq.Spawn(ctx, tier.Last(), func(ctx context.Context) (int, error) { return 0, nil })
	chk.ErrorIs(err, deq.ErrRejected)
	chk.Nil(th)
}

func TestLaunchCancelQueuedNeverRuns(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	ex := deq.NewExecutor(1)

	blocker := make(chan struct{})
	entered := make(chan struct{})
	_, err := ex.Submit(func(ctx context.Context) (any, error) {
		close(entered)
		<-blocker
		return nil, nil
	})
	chk.NoError(err)
	<-entered

	ran := false
	h, err := deq.Launch(ctx, ex.Last(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	chk.NoError(err)

	h.Cancel()
	chk.True(h.Canceled())
	chk.ErrorIs(h.Join(ctx), deq.ErrCanceled)

	close(blocker)
	ex.Shutdown()
	chk.True(ex.AwaitTermination(time.Second))
	chk.False(ran)
}

func TestLaunchCancelRunningCancelsBodyContext(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	entered := make(chan struct{})
	interrupted := make(chan struct{})
	h, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		close(interrupted)
		return ctx.Err()
	})
	chk.NoError(err)
	<-entered

	h.Cancel()
	<-interrupted
	chk.ErrorIs(h.Join(ctx), deq.ErrCanceled)
	chk.True(h.Canceled())
}

func TestLaunchExecutorShutdownNowCancelsLaunched(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	ex := deq.NewExecutor(1)

	entered := make(chan struct{})
	interrupted := make(chan struct{})
	running, err := deq.Launch(ctx, ex.Last(), func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		close(interrupted)
		return ctx.Err()
	})
	chk.NoError(err)
	<-entered

	queued, err := deq.Launch(ctx, ex.Last(), func(ctx context.Context) error {
		return nil
	})
	chk.NoError(err)

	// The queued launched task rides a normal submission, so its never-run
	// carrier comes back from ShutdownNow like any other queued body.
	bodies := ex.ShutdownNow()
	chk.Len(bodies, 1)

	<-interrupted
	chk.ErrorIs(running.Join(ctx), deq.ErrCanceled)
	chk.True(running.Canceled())
	chk.ErrorIs(queued.Join(ctx), deq.ErrCanceled)
	chk.True(queued.Canceled())
	chk.True(ex.AwaitTermination(time.Second))
}

func TestLaunchParentContextValueReachesBody(t *testing.T) {
	chk := require.New(t)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "present")

	h, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error {
		if ctx.Value(ctxKey{}) != "present" {
			return errors.New("context value lost")
		}
		return nil
	})
	chk.NoError(err)
	chk.NoError(h.Join(context.Background()))
}

func TestLaunchParentContextCancelFailsBody(t *testing.T) {
	chk := require.New(t)

	parent, cancel := context.WithCancel(context.Background())
	entered := make(chan struct{})
	h, err := deq.Launch(parent, deq.Background, func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})
	chk.NoError(err)
	<-entered

	cancel()
	err = h.Join(context.Background())

	// Parent expiry surfaces as a body failure, not as cancellation of the
	// handle itself.
	var execErr *deq.ExecutionError
	chk.ErrorAs(err, &execErr)
	chk.ErrorIs(err, context.Canceled)
	chk.False(h.Canceled())
}

func TestJoinAll(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	handles := make([]*deq.Handle, 5)
	for i := range handles {
		h, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error {
			return nil
		})
		chk.NoError(err)
		handles[i] = h
	}
	chk.NoError(deq.JoinAll(ctx, handles...))

	errBoom := errors.New("boom")
	good, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error { return nil })
	chk.NoError(err)
	bad, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error { return errBoom })
	chk.NoError(err)
	chk.ErrorIs(deq.JoinAll(ctx, good, bad), errBoom)
}

func TestJoinAllContextExpiry(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	blocker := make(chan struct{})
	blocked, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error {
		<-blocker
		return nil
	})
	chk.NoError(err)

	expired, cancel := context.WithCancel(ctx)
	cancel()
	chk.ErrorIs(deq.JoinAll(expired, blocked), context.Canceled)

	close(blocker)
	chk.NoError(blocked.Join(ctx))
}
