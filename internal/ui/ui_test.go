// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"testing"

	"github.com/fitbotapp/fitbot-tui/internal/app"
	"github.com/fitbotapp/fitbot-tui/internal/model"
	"github.com/fitbotapp/fitbot-tui/internal/store"
)

func newUIManager(t *testing.T) *app.Manager {
	t.Helper()
	db, err := store.OpenFileDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return app.NewManager(db)
}

func newOnboardedManager(t *testing.T) *app.Manager {
	t.Helper()
	mgr := newUIManager(t)
	ctx := context.Background()
	if err := mgr.SignIn(ctx, "test-token"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	err := mgr.Onboard(ctx, &model.UserProfile{
		Name: "Alex", Age: 30, Weight: 80, Height: 178,
		Goal:       model.GoalWeightLoss,
		Experience: model.ExperienceBeginner,
		Equipment:  model.EquipmentBodyweight,
	})
	if err != nil {
		t.Fatalf("Onboard failed: %v", err)
	}
	return mgr
}

func TestNewModelRouting(t *testing.T) {
	// Onboarded with saved sessions lands on the dashboard.
	mgr := newOnboardedManager(t)
	m := NewModel(mgr, nil)
	if m.screen != ScreenDashboard {
		t.Errorf("screen = %v, want dashboard", m.screen)
	}

	// Onboarded with no sessions gets a fresh chat session.
	ctx := context.Background()
	for _, s := range mgr.Sessions() {
		if err := mgr.DeleteSession(ctx, s.ID); err != nil {
			t.Fatal(err)
		}
	}
	m = NewModel(mgr, nil)
	if m.screen != ScreenChat {
		t.Errorf("screen = %v, want chat", m.screen)
	}
	if len(mgr.Sessions()) != 1 {
		t.Errorf("sessions = %d, want a freshly created one", len(mgr.Sessions()))
	}
	if mgr.CurrentSession() == nil {
		t.Error("no active session after startup bootstrap")
	}
}

func TestNewModelRouting_BeforeOnboarding(t *testing.T) {
	mgr := newUIManager(t)
	if m := NewModel(mgr, nil); m.screen != ScreenLogin {
		t.Errorf("screen = %v, want login", m.screen)
	}

	if err := mgr.SignIn(context.Background(), "test-token"); err != nil {
		t.Fatal(err)
	}
	if m := NewModel(mgr, nil); m.screen != ScreenOnboarding {
		t.Errorf("screen = %v, want onboarding", m.screen)
	}
}
