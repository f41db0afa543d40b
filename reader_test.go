// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/me/deq-go"
	"github.com/stretchr/testify/require"
)

func TestCancelReaderPassesThroughWhileLive(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	entered := make(chan struct{})
	h, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})
	chk.NoError(err)
	<-entered

	cr := deq.NewCancelReader(strings.NewReader("payload"), h)
	buf := make([]byte, 4)
	n, err := cr.Read(buf)
	chk.NoError(err)
	chk.Equal("payl", string(buf[:n]))

	// Cancellation takes effect at the next read boundary.
	h.Cancel()
	_, err = cr.Read(buf)
	chk.ErrorIs(err, deq.ErrCanceled)
}

func TestCancelReaderFinishedHandleStillReads(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	h, err := deq.Launch(ctx, deq.Background, func(ctx context.Context) error {
		return nil
	})
	chk.NoError(err)
	chk.NoError(h.Join(ctx))

	// Only cancellation blocks the stream; normal completion does not.
	cr := deq.NewCancelReader(strings.NewReader("ok"), h)
	data, err := io.ReadAll(cr)
	chk.NoError(err)
	chk.Equal("ok", string(data))
}

func TestCancelReaderStopsInBodyCopyLoop(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	handleCh := make(chan *deq.Handle, 1)
	entered := make(chan struct{})
	returned := make(chan error, 1)
	h, err := deq.Spawn(ctx, deq.Background, func(ctx context.Context) (int64, error) {
		cr := deq.NewCancelReader(endlessReader{}, <-handleCh)
		close(entered)
		n, err := io.Copy(io.Discard, cr)
		returned <- err
		return n, err
	})
	chk.NoError(err)
	handleCh <- h.Handle
	<-entered

	// The source never ends, so only the reader's liveness check can stop
	// the copy loop.
	h.Cancel()
	chk.ErrorIs(<-returned, deq.ErrCanceled)
	chk.ErrorIs(h.Join(ctx), deq.ErrCanceled)
}

func TestCancelReaderNilArgumentPanics(t *testing.T) {
	chk := require.New(t)

	h, err := deq.Launch(context.Background(), deq.Background, func(ctx context.Context) error {
		return nil
	})
	chk.NoError(err)

	chk.PanicsWithValue("reader must be non-nil", func() {
		deq.NewCancelReader(nil, h)
	})
	chk.PanicsWithValue("handle must be non-nil", func() {
		deq.NewCancelReader(strings.NewReader(""), nil)
	})
}

// endlessReader yields data forever.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}
