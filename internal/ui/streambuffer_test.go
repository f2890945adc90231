// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"testing"
	"time"
)

func TestStreamThrottle_BatchThreshold(t *testing.T) {
	// Huge interval so only the batch size can trigger.
	th := NewStreamThrottleWithConfig(5, 1)
	th.Reset()

	fired := 0
	for i := 0; i < 10; i++ {
		if th.Fire() {
			fired++
		}
	}
	if fired != 2 {
		t.Errorf("fired %d times over 10 fragments with batch 5, want 2", fired)
	}
}

func TestStreamThrottle_TimeThreshold(t *testing.T) {
	// Huge batch so only elapsed time can trigger.
	th := NewStreamThrottleWithConfig(1000, 60)
	th.Reset()

	if th.Fire() {
		t.Error("fired immediately after reset")
	}
	time.Sleep(20 * time.Millisecond)
	if !th.Fire() {
		t.Error("did not fire after frame interval elapsed")
	}
}

func TestStreamThrottle_Pending(t *testing.T) {
	th := NewStreamThrottleWithConfig(1000, 1)
	th.Reset()

	th.Fire()
	th.Fire()
	if got := th.Pending(); got != 2 {
		t.Errorf("pending = %d, want 2", got)
	}
	th.Reset()
	if got := th.Pending(); got != 0 {
		t.Errorf("pending after reset = %d, want 0", got)
	}
}

func TestStreamThrottle_DefaultsClamped(t *testing.T) {
	th := NewStreamThrottleWithConfig(-1, 500)
	if th.batchSize != 15 {
		t.Errorf("batchSize = %d, want default 15", th.batchSize)
	}
	if th.interval != 33*time.Millisecond {
		t.Errorf("interval = %v, want 33ms", th.interval)
	}
}
