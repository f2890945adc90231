// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitbotapp/fitbot-tui/internal/app"
	"github.com/fitbotapp/fitbot-tui/internal/model"
	"github.com/fitbotapp/fitbot-tui/internal/ui/styles"
	"github.com/fitbotapp/fitbot-tui/internal/util"
)

// =============================================================================
// HISTORY SCREEN
// =============================================================================

// historyModel lists saved chat sessions, most recent first, and lets
// the user switch, create, or delete them.
type historyModel struct {
	mgr   *app.Manager
	theme *styles.Theme

	sessions []model.ChatSession // newest first
	cursor   int
	width    int
	height   int
}

func newHistoryModel(mgr *app.Manager, theme *styles.Theme) historyModel {
	return historyModel{mgr: mgr, theme: theme}
}

func (m *historyModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

// refresh reloads the list. Sessions are stored oldest first; the list
// shows them newest first.
func (m *historyModel) refresh() {
	stored := m.mgr.Sessions()
	m.sessions = make([]model.ChatSession, len(stored))
	for i, s := range stored {
		m.sessions[len(stored)-1-i] = s
	}
	if m.cursor >= len(m.sessions) {
		m.cursor = max(len(m.sessions)-1, 0)
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.sessions) == 0 {
				return m, nil
			}
			id := m.sessions[m.cursor].ID
			mgr := m.mgr
			return m, func() tea.Msg {
				mgr.SelectSession(id)
				return NavigateMsg{Screen: ScreenChat}
			}
		case "n":
			mgr := m.mgr
			return m, func() tea.Msg {
				// The session is usable as soon as the id exists, even
				// when the durable write failed.
				id, err := mgr.CreateSession(context.Background())
				if id == "" {
					return ErrorMsg{Message: err.Error()}
				}
				return NavigateMsg{Screen: ScreenChat}
			}
		case "d", "x":
			if len(m.sessions) == 0 {
				return m, nil
			}
			id := m.sessions[m.cursor].ID
			mgr := m.mgr
			return m, func() tea.Msg {
				return SessionDeletedMsg{SessionID: id, Err: mgr.DeleteSession(context.Background(), id)}
			}
		case "esc":
			return m, navigateCmd(ScreenChat)
		}

	case SessionDeletedMsg:
		// The in-memory removal already happened; refresh regardless
		// and surface any persistence failure.
		m.refresh()
		if msg.Err != nil {
			return m, errorCmd(msg.Err)
		}
		return m, nil
	}
	return m, nil
}

// sessionPreview builds a one-line preview from the last message.
func sessionPreview(s model.ChatSession) string {
	if len(s.Messages) == 0 {
		return ""
	}
	last := s.Messages[len(s.Messages)-1]
	text := util.CollapseNewlines(last.Text)
	return util.TruncateWidth(last.Role.DisplayName()+": "+text, 60)
}

func (m historyModel) view() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Conversations"))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		b.WriteString(m.theme.Hint.Render("No conversations yet. Press n to start one."))
	}

	currentID := m.mgr.CurrentSessionID()
	for i, s := range m.sessions {
		line := fmt.Sprintf("%s  %s · %d messages",
			util.PadRight(s.Title, 32),
			time.UnixMilli(s.CreatedAt).Format("Jan 2 15:04"),
			len(s.Messages))
		if s.ID == currentID {
			line = "● " + line
		} else {
			line = "  " + line
		}
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render(line))
		} else {
			b.WriteString(m.theme.Unselected.Render(line))
		}
		b.WriteString("\n")
		if preview := sessionPreview(s); preview != "" {
			b.WriteString(m.theme.Hint.Render("    " + preview))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Hint.Render("enter open · n new · d delete · esc back"))

	body := b.String()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			lipgloss.NewStyle().Padding(1, 2).Render(body))
	}
	return body
}
