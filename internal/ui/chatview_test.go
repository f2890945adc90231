// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitbotapp/fitbot-tui/internal/coach"
	"github.com/fitbotapp/fitbot-tui/internal/store"
	"github.com/fitbotapp/fitbot-tui/internal/ui/styles"
)

func TestSuggestionsWhileConversationShort(t *testing.T) {
	mgr := newOnboardedManager(t)
	cm := newChatModel(mgr, nil, styles.NewTheme())

	// Only the greeting exists, so the chips show.
	if got := cm.visibleSuggestions(); len(got) != len(chatSuggestions) {
		t.Fatalf("suggestions = %d, want %d", len(got), len(chatSuggestions))
	}

	// Tab cycles suggestions into the input.
	cm, _ = cm.update(tea.KeyMsg{Type: tea.KeyTab})
	if got := cm.input.Value(); got != chatSuggestions[0] {
		t.Errorf("input = %q, want %q", got, chatSuggestions[0])
	}
	cm, _ = cm.update(tea.KeyMsg{Type: tea.KeyTab})
	if got := cm.input.Value(); got != chatSuggestions[1] {
		t.Errorf("input = %q, want %q", got, chatSuggestions[1])
	}

	// Once the conversation grows past three messages the chips go away.
	ctx := context.Background()
	if _, err := mgr.AppendUserMessage(ctx, "first question"); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.AppendUserMessage(ctx, "second question"); err != nil {
		t.Fatal(err)
	}
	if got := cm.visibleSuggestions(); got != nil {
		t.Errorf("suggestions still visible with %d messages", len(mgr.CurrentSession().Messages))
	}
}

func TestStreamDoneSurfacesStorageErrors(t *testing.T) {
	mgr := newOnboardedManager(t)
	cm := newChatModel(mgr, nil, styles.NewTheme())

	// A persistence failure has no apology in the transcript; it must
	// reach the error banner.
	storeErr := &store.StorageError{Op: "update session", Err: errors.New("disk full")}
	_, cmd := cm.update(StreamDoneMsg{SessionID: "s", Err: storeErr})
	if cmd == nil {
		t.Fatal("expected an error command")
	}
	if _, ok := cmd().(ErrorMsg); !ok {
		t.Fatalf("msg = %T, want ErrorMsg", cmd())
	}

	// Coach failures already resolved to the apology reply; no banner.
	_, cmd = cm.update(StreamDoneMsg{SessionID: "s", Err: &coach.StreamError{Err: errors.New("reset")}})
	if cmd != nil {
		t.Error("coach stream error should not double-report")
	}
	_, cmd = cm.update(StreamDoneMsg{SessionID: "s", Err: coach.ErrNotConfigured})
	if cmd != nil {
		t.Error("missing-key error should not double-report")
	}
}
