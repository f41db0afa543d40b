// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"github.com/gammazero/deque"
)

// Mirror replays a script step by step: insertions land on plain deques and
// each Take performs the same scan a scheduler worker does, popping the head
// of the first non-empty tier.
type Mirror struct {
	tiers []deque.Deque[int]
}

// NewMirror returns a mirror with the given number of empty tiers.
func NewMirror(tiers int) *Mirror {
	return &Mirror{
		tiers: make([]deque.Deque[int], tiers),
	}
}

// Apply inserts op into its tier.
func (m *Mirror) Apply(op Op) {
	if op.Front {
		m.tiers[op.Tier].PushFront(op.ID)
	} else {
		m.tiers[op.Tier].PushBack(op.ID)
	}
}

// Take pops the next task ID in dispatch order, or returns false when every
// tier is empty.
func (m *Mirror) Take() (int, bool) {
	for i := range m.tiers {
		if m.tiers[i].Len() > 0 {
			return m.tiers[i].PopFront(), true
		}
	}
	return 0, false
}

// Drain takes until empty and returns the IDs in dispatch order.
func (m *Mirror) Drain() []int {
	order := []int{}
	for {
		id, ok := m.Take()
		if !ok {
			return order
		}
		order = append(order, id)
	}
}
