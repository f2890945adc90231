// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements repaint throttling for streaming replies. The
// coach can deliver fragments far faster than the terminal should
// repaint; the throttle caps redraw requests at a fixed frame rate while
// guaranteeing a flush once enough fragments accumulate.
package ui

import (
	"sync"
	"time"
)

// =============================================================================
// STREAM THROTTLE
// =============================================================================

// StreamThrottle decides when accumulated fragments justify a repaint.
// Fire is called from the streaming goroutine once per fragment; it
// returns true when a repaint should be requested, either because the
// fragment batch threshold was reached or because the frame interval
// elapsed.
//
// Thread-safety: fragments arrive in a goroutine while the final flush
// happens in the Bubble Tea loop, so all operations take a mutex.
type StreamThrottle struct {
	mu        sync.Mutex
	pending   int
	lastFire  time.Time
	batchSize int
	interval  time.Duration
}

// NewStreamThrottle creates a throttle with default settings: 15
// fragments per batch at most 30 repaints per second.
func NewStreamThrottle() *StreamThrottle {
	return NewStreamThrottleWithConfig(15, 30)
}

// NewStreamThrottleWithConfig creates a throttle with a custom batch
// size and frame rate. Out-of-range values fall back to the defaults.
func NewStreamThrottleWithConfig(batchSize, maxFPS int) *StreamThrottle {
	if batchSize <= 0 {
		batchSize = 15
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 30
	}
	return &StreamThrottle{
		batchSize: batchSize,
		interval:  time.Duration(1000/maxFPS) * time.Millisecond,
		lastFire:  time.Now(),
	}
}

// Fire records one fragment and reports whether to request a repaint.
func (t *StreamThrottle) Fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending++
	if t.pending >= t.batchSize || time.Since(t.lastFire) >= t.interval {
		t.pending = 0
		t.lastFire = time.Now()
		return true
	}
	return false
}

// Pending returns the number of fragments since the last repaint.
func (t *StreamThrottle) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Reset clears pending state for a new stream.
func (t *StreamThrottle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = 0
	t.lastFire = time.Now()
}
