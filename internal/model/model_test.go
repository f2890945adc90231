// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

func validProfile() *UserProfile {
	return &UserProfile{
		Name:       "Alex",
		Age:        30,
		Weight:     70,
		Height:     175,
		Goal:       GoalWeightLoss,
		Experience: ExperienceBeginner,
		Equipment:  EquipmentBodyweight,
	}
}

func TestUserProfile_Validate(t *testing.T) {
	if err := validProfile().Validate(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	p := validProfile()
	p.Name = "  "
	if err := p.Validate(); err == nil {
		t.Error("blank name accepted")
	}

	p = validProfile()
	p.Goal = "cardio"
	if err := p.Validate(); err == nil {
		t.Error("unknown goal accepted")
	}

	p = validProfile()
	p.Weight = 0
	if err := p.Validate(); err == nil {
		t.Error("zero weight accepted")
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(GoalWeightLoss); got != "weight loss" {
		t.Errorf("Display(weight_loss) = %q", got)
	}
	if got := Display(EquipmentHomeDumbbells); got != "home dumbbells" {
		t.Errorf("Display(home_dumbbells) = %q", got)
	}
}

func TestSeedHistory(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	entries := SeedHistory(70, now)

	if len(entries) != 7 {
		t.Fatalf("len = %d, want 7", len(entries))
	}
	if entries[6].Date != "Mar 15" {
		t.Errorf("last date = %q, want %q", entries[6].Date, "Mar 15")
	}
	if entries[0].Date != "Mar 9" {
		t.Errorf("first date = %q, want %q", entries[0].Date, "Mar 9")
	}
	for i, e := range entries {
		if e.Weight < 69.75 || e.Weight > 70.25 {
			t.Errorf("entry %d weight %.3f outside anchor band", i, e.Weight)
		}
		wantWorkout := i%2 == 0
		if e.WorkoutCompleted != wantWorkout {
			t.Errorf("entry %d workout = %v, want %v", i, e.WorkoutCompleted, wantWorkout)
		}
		if wantWorkout && (e.CaloriesBurned < 300 || e.CaloriesBurned >= 500) {
			t.Errorf("entry %d calories %d outside [300,500)", i, e.CaloriesBurned)
		}
		if !wantWorkout && e.CaloriesBurned != 0 {
			t.Errorf("rest day %d has calories %d", i, e.CaloriesBurned)
		}
	}
}

func TestUpsertEntry(t *testing.T) {
	var entries []ProgressEntry
	entries = UpsertEntry(entries, ProgressEntry{Date: "Mar 1", Weight: 70})
	entries = UpsertEntry(entries, ProgressEntry{Date: "Mar 2", Weight: 69.5})
	entries = UpsertEntry(entries, ProgressEntry{Date: "Mar 1", Weight: 69.8})

	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	// Replacement happens in place, not at the end.
	if entries[0].Date != "Mar 1" || entries[0].Weight != 69.8 {
		t.Errorf("entry 0 = %+v, want Mar 1 @ 69.8", entries[0])
	}
	if LatestEntry(entries).Date != "Mar 2" {
		t.Errorf("latest = %+v, want Mar 2", LatestEntry(entries))
	}
}

func TestLatestEntry_Empty(t *testing.T) {
	if LatestEntry(nil) != nil {
		t.Error("LatestEntry(nil) should be nil")
	}
}

func TestDeriveTitle(t *testing.T) {
	short := "Help me bulk up"
	long := "Can you help me lose weight fast please"

	title, ok := DeriveTitle([]ChatMessage{{Role: RoleUser, Text: short}})
	if !ok || title != short {
		t.Errorf("short title = %q ok=%v, want verbatim", title, ok)
	}

	title, ok = DeriveTitle([]ChatMessage{
		{Role: RoleModel, Text: "Hi there"},
		{Role: RoleUser, Text: long},
	})
	if !ok {
		t.Fatal("expected a derived title")
	}
	if title != "Can you help me lose weight fa..." {
		t.Errorf("long title = %q", title)
	}
	if len([]rune(title)) != 33 {
		t.Errorf("derived title rune length = %d, want 33", len([]rune(title)))
	}

	if _, ok = DeriveTitle([]ChatMessage{{Role: RoleModel, Text: "Hi"}}); ok {
		t.Error("title derived with no user message")
	}
}

func TestGreeting(t *testing.T) {
	msg := Greeting(validProfile())
	if msg.Role != RoleModel {
		t.Errorf("greeting role = %q, want model", msg.Role)
	}
	if msg.ID != GreetingMessageID {
		t.Errorf("greeting id = %q", msg.ID)
	}
	if !strings.Contains(msg.Text, "Alex") || !strings.Contains(msg.Text, "weight loss") {
		t.Errorf("greeting text missing name/goal: %q", msg.Text)
	}
}

func TestNewChatSession(t *testing.T) {
	s := NewChatSession()
	if s.Title != DefaultTitle {
		t.Errorf("title = %q", s.Title)
	}
	if s.ID == "" {
		t.Error("empty session id")
	}
	if len(s.Messages) != 0 {
		t.Error("new session should have no messages")
	}
}
