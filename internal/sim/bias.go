// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package sim

import (
	"pgregory.net/rapid"
)

// BiasedIntConfig draws integers from [Min, Max] biased toward Med.  The
// effective bounds are themselves drawn, which narrows generated values
// toward Med as rapid shrinks a failing case.
type BiasedIntConfig struct {
	Min int
	Med int
	Max int
}

func (c *BiasedIntConfig) Draw(t *rapid.T, name string) int {
	return rapid.Custom(func(t *rapid.T) int {
		lo := rapid.IntRange(c.Min, c.Med).Draw(t, "lo")
		hi := rapid.IntRange(c.Med, c.Max).Draw(t, "hi")
		return rapid.IntRange(lo, hi).Draw(t, "value")
	}).Draw(t, name)
}

// BiasedBoolConfig draws booleans that are true with the given probability.
type BiasedBoolConfig struct {
	Probability float64
}

func (c *BiasedBoolConfig) Draw(t *rapid.T, name string) bool {
	return rapid.Float64Range(0, 1).Draw(t, name) < c.Probability
}
