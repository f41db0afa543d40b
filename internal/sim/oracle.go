// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"cmp"

	"github.com/addrummond/heap"
)

// rankedOp places an operation in dispatch order without replaying the
// deques.  Tiers sort ascending.  Within a tier, head insertions take
// negative ranks so that later arrivals sort earlier, and every head
// insertion sorts before every tail insertion.
type rankedOp struct {
	tier int
	rank int
	id   int
}

func (a *rankedOp) Cmp(b *rankedOp) int {
	if c := cmp.Compare(a.tier, b.tier); c != 0 {
		return c
	}
	return cmp.Compare(a.rank, b.rank)
}

// ExpectedOrder ranks a whole script at once.  For a batch that is fully
// enqueued before any take, dispatch order is ascending (tier, rank): head
// insertions in reverse arrival order, then tail insertions in arrival
// order.
func ExpectedOrder(s *Script) []int {
	var h heap.Heap[rankedOp, heap.Min]
	for i, op := range s.Ops {
		rank := i + 1
		if op.Front {
			rank = -rank
		}
		heap.PushOrderable(&h, rankedOp{
			tier: op.Tier,
			rank: rank,
			id:   op.ID,
		})
	}
	order := []int{}
	for {
		op, ok := heap.PopOrderable(&h)
		if !ok {
			return order
		}
		order = append(order, op.id)
	}
}
