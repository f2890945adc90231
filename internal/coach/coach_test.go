// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/fitbotapp/fitbot-tui/internal/model"
)

func testProfile() *model.UserProfile {
	return &model.UserProfile{
		Name: "Alex", Age: 28, Weight: 82.5, Height: 180,
		Goal:       model.GoalWeightLoss,
		Experience: model.ExperienceBeginner,
		Equipment:  model.EquipmentHomeDumbbells,
	}
}

func TestSystemInstruction(t *testing.T) {
	got := SystemInstruction(testProfile(), nil)

	for _, want := range []string{
		"You are FitBot",
		"- Name: Alex",
		"- Age: 28",
		"- Weight: 82.5kg",
		"- Height: 180cm",
		"- Goal: weight loss",
		"- Experience Level: beginner",
		"- Available Equipment: home dumbbells",
		"warm up and cool down",
		"Format your responses using Markdown",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
	if strings.Contains(got, "Current Status") {
		t.Error("instruction includes status block without progress")
	}
}

func TestSystemInstruction_WithLatestStats(t *testing.T) {
	latest := &model.ProgressEntry{Date: "Mar 15", Weight: 81.2, WorkoutCompleted: true}
	got := SystemInstruction(testProfile(), latest)

	for _, want := range []string{
		"Current Status (as of Mar 15):",
		"- Weight: 81.2kg",
		"- Last Workout Completed: Yes",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}

func TestHistory(t *testing.T) {
	messages := []model.ChatMessage{
		{ID: model.GreetingMessageID, Role: model.RoleModel, Text: "Hi Alex!"},
		{ID: "m1", Role: model.RoleUser, Text: "Plan my week"},
		{ID: "m2", Role: model.RoleModel, Text: "Here's a plan"},
	}

	contents := History(messages)
	if len(contents) != 2 {
		t.Fatalf("len = %d, want 2 (greeting skipped)", len(contents))
	}
	if contents[0].Role != string(genai.RoleUser) {
		t.Errorf("content 0 role = %q", contents[0].Role)
	}
	if contents[0].Parts[0].Text != "Plan my week" {
		t.Errorf("content 0 text = %q", contents[0].Parts[0].Text)
	}
	if contents[1].Role != string(genai.RoleModel) {
		t.Errorf("content 1 role = %q", contents[1].Role)
	}
}

func TestHistory_Empty(t *testing.T) {
	if got := History(nil); got != nil {
		t.Errorf("History(nil) = %v, want nil", got)
	}
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "gemini-2.5-flash", 0.7)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestStreamError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StreamError{Partial: "partial text", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("StreamError does not unwrap to cause")
	}
	if !strings.Contains(err.Error(), "stream failed") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestConnectionError(t *testing.T) {
	cause := errors.New("dns failure")
	err := &ConnectionError{Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ConnectionError does not unwrap to cause")
	}
}
