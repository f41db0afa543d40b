// Copyright (c) The deq-go Authors. All rights reserved.
// Licensed under the MIT License.

// Package sim generates randomized enqueue scripts and predicts the order in
// which a tiered deque set must yield them.  Two independent models make the
// prediction: [Mirror] replays a script step by step against plain deques,
// while [ExpectedOrder] ranks the whole script at once with a heap.  Property
// tests drive the real scheduler with a held worker, apply a script, then
// require all three orders to agree.
package sim
