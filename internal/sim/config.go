// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

package sim

// Config bounds the shape of generated scripts.
type Config struct {
	// Tiers is the number of priority tiers a script spans.
	Tiers BiasedIntConfig

	// Ops is the number of enqueue operations in a script.
	Ops BiasedIntConfig

	// Front is the chance that any given operation inserts at the head of
	// its tier rather than the tail.
	Front BiasedBoolConfig
}

// DefaultConfig exercises small tier counts hard while still reaching
// scripts long enough to interleave head and tail insertions across tiers.
var DefaultConfig = Config{
	Tiers: BiasedIntConfig{Min: 1, Med: 2, Max: 4},
	Ops:   BiasedIntConfig{Min: 0, Med: 12, Max: 48},
	Front: BiasedBoolConfig{Probability: 0.5},
}
