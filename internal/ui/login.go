// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitbotapp/fitbot-tui/internal/app"
	"github.com/fitbotapp/fitbot-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN SCREEN
// =============================================================================

// loginModel is the sign-in screen. Authentication is local: any
// non-empty email and password produce an opaque token. The fields exist
// so the flow matches a real account system.
type loginModel struct {
	mgr   *app.Manager
	theme *styles.Theme

	email    textinput.Model
	password textinput.Model
	focused  int // 0 = email, 1 = password
	errText  string
}

func newLoginModel(mgr *app.Manager, theme *styles.Theme) loginModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email:    "
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{
		mgr:      mgr,
		theme:    theme,
		email:    email,
		password: password,
	}
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = 1 - m.focused
			if m.focused == 0 {
				m.email.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.email.Blur()
			}
			return m, nil

		case "enter":
			email := strings.TrimSpace(m.email.Value())
			if email == "" || m.password.Value() == "" {
				m.errText = "Enter an email and password to continue."
				return m, nil
			}
			m.errText = ""
			return m, m.signInCmd()
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// signInCmd stores a locally minted token. There is no account server;
// the token just flips the app into the signed-in state.
func (m loginModel) signInCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		token := fmt.Sprintf("fitbot-%d", time.Now().UnixNano())
		err := mgr.SignIn(context.Background(), token)
		return SignedInMsg{Err: err}
	}
}

func (m loginModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("FitBot"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Your AI personal trainer"))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	if m.errText != "" {
		b.WriteString(m.theme.Error.Render(m.errText))
		b.WriteString("\n\n")
	}
	b.WriteString(m.theme.Hint.Render("enter sign in · tab switch field · ctrl+c quit"))

	card := m.theme.FocusedBorder.Render(b.String())
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}
