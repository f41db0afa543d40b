// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"fmt"

	"pgregory.net/rapid"
)

// Op is a single enqueue: task ID goes to the head or tail of tier Tier.
type Op struct {
	Tier  int
	Front bool
	ID    int
}

// Script is a batch of enqueues that lands before any task is taken.
type Script struct {
	Tiers int
	Ops   []Op
}

// NewScript draws a script within the bounds of config.  IDs number the
// operations in arrival order.
func NewScript(t *rapid.T, config *Config) *Script {
	s := &Script{
		Tiers: config.Tiers.Draw(t, "TierCount"),
	}
	s.Ops = make([]Op, config.Ops.Draw(t, "OpCount"))
	for i := range s.Ops {
		name := fmt.Sprintf("Op[%d]", i)
		s.Ops[i] = Op{
			Tier:  rapid.IntRange(0, s.Tiers-1).Draw(t, name+".Tier"),
			Front: config.Front.Draw(t, name+".Front"),
			ID:    i,
		}
	}
	return s
}
