// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package deq

import "io"

// CancelReader ties a byte source to a task's liveness: every Read first
// checks whether the associated [Handle] has been cancelled, failing with
// [ErrCanceled] once it has, and passes straight through to the underlying
// reader otherwise. It lets long I/O loops inside a task body stop promptly
// at read granularity without polling the handle by hand.
//
// Any buffering layered upstream of a CancelReader delays or defeats that
// responsiveness, since whole buffered chunks are handed out before the
// next underlying Read re-checks liveness. Wrap the innermost source when
// cancellation latency matters; that placement is the caller's trade-off.
type CancelReader struct {
	r io.Reader
	h *Handle
}

// NewCancelReader wraps r with the liveness of h. It panics if either is
// nil.
func NewCancelReader(r io.Reader, h *Handle) *CancelReader {
	if r == nil {
		panic("reader must be non-nil")
	}
	if h == nil {
		panic("handle must be non-nil")
	}
	return &CancelReader{r: r, h: h}
}

// Read implements [io.Reader] with the liveness check described on
// [CancelReader].
func (cr *CancelReader) Read(p []byte) (int, error) {
	if cr.h.Canceled() {
		return 0, ErrCanceled
	}
	return cr.r.Read(p)
}
