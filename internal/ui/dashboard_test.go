// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"testing"

	"github.com/fitbotapp/fitbot-tui/internal/model"
	"github.com/fitbotapp/fitbot-tui/internal/ui/styles"
)

func TestSparkline(t *testing.T) {
	entries := []model.ProgressEntry{
		{Date: "Mar 1", Weight: 70},
		{Date: "Mar 2", Weight: 71},
		{Date: "Mar 3", Weight: 72},
	}
	got := sparkline(entries)
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(runes))
	}
	if runes[0] != '▁' {
		t.Errorf("lowest glyph = %q, want ▁", runes[0])
	}
	if runes[2] != '█' {
		t.Errorf("highest glyph = %q, want █", runes[2])
	}
}

func TestSparkline_Flat(t *testing.T) {
	entries := []model.ProgressEntry{
		{Date: "Mar 1", Weight: 70},
		{Date: "Mar 2", Weight: 70},
	}
	got := []rune(sparkline(entries))
	if len(got) != 2 || got[0] != got[1] {
		t.Errorf("flat series should render uniform glyphs, got %q", string(got))
	}
}

func TestSparkline_Empty(t *testing.T) {
	if got := sparkline(nil); got != "" {
		t.Errorf("sparkline(nil) = %q, want empty", got)
	}
}

func TestSubmitEntryWeightFallback(t *testing.T) {
	mgr := newOnboardedManager(t)
	want := mgr.LatestProgress().Weight

	dm := newDashboardModel(mgr, styles.NewTheme())
	dm.weight.SetValue("not a number")
	dm.calories.SetValue("250")
	dm.workout = true

	dm, cmd := dm.submitEntry()
	if dm.formError != "" {
		t.Fatalf("formError = %q, want fallback instead of rejection", dm.formError)
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	msg, ok := cmd().(ProgressSavedMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("save result = %#v", msg)
	}

	latest := mgr.LatestProgress()
	if latest.Weight != want {
		t.Errorf("weight = %v, want last known good %v", latest.Weight, want)
	}
	if latest.CaloriesBurned != 250 || !latest.WorkoutCompleted {
		t.Errorf("entry = %+v", latest)
	}
}
