// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitbotapp/fitbot-tui/internal/app"
	"github.com/fitbotapp/fitbot-tui/internal/coach"
	"github.com/fitbotapp/fitbot-tui/internal/ui/styles"
)

// =============================================================================
// ROOT MODEL
// =============================================================================

// Model is the root Bubble Tea model. It owns screen routing and the
// shared application state; each screen is a sub-model with its own
// update and view.
type Model struct {
	mgr   *app.Manager
	coach *coach.Client // nil when no API key is configured
	theme *styles.Theme

	screen Screen
	width  int
	height int

	login      loginModel
	onboarding onboardingModel
	chat       chatModel
	history    historyModel
	dashboard  dashboardModel

	errText string
}

// NewModel creates the root model. coachClient may be nil; chat then
// degrades to the offline apology reply.
//
// Returning users with saved sessions land on the dashboard; a returning
// user with none gets a fresh chat session.
func NewModel(mgr *app.Manager, coachClient *coach.Client) Model {
	theme := styles.NewTheme()

	var bootErr error
	screen := ScreenLogin
	if mgr.SignedIn() {
		screen = ScreenOnboarding
		if mgr.Onboarded() {
			if len(mgr.Sessions()) > 0 {
				screen = ScreenDashboard
			} else {
				_, bootErr = mgr.CreateSession(context.Background())
				screen = ScreenChat
			}
		}
	}

	m := Model{
		mgr:        mgr,
		coach:      coachClient,
		theme:      theme,
		screen:     screen,
		login:      newLoginModel(mgr, theme),
		onboarding: newOnboardingModel(mgr, theme),
		chat:       newChatModel(mgr, coachClient, theme),
		history:    newHistoryModel(mgr, theme),
		dashboard:  newDashboardModel(mgr, theme),
	}
	if bootErr != nil {
		m.errText = bootErr.Error()
	}
	switch screen {
	case ScreenDashboard:
		m.dashboard.refresh()
	case ScreenChat:
		m.chat.refresh()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.screen == ScreenChat {
		return m.chat.Init()
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat.setSize(msg.Width, msg.Height)
		m.history.setSize(msg.Width, msg.Height)
		m.dashboard.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.chat.cancelStream()
			return m, tea.Quit
		}

	case NavigateMsg:
		return m.navigate(msg.Screen)

	case SignedInMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		if m.mgr.Onboarded() {
			return m.navigate(ScreenChat)
		}
		return m.navigate(ScreenOnboarding)

	case SignedOutMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.login = newLoginModel(m.mgr, m.theme)
		return m.navigate(ScreenLogin)

	case OnboardedMsg:
		if msg.Err != nil {
			var cmd tea.Cmd
			m.onboarding, cmd = m.onboarding.update(msg)
			return m, cmd
		}
		return m.navigate(ScreenChat)

	case ErrorMsg:
		m.errText = msg.Message
		return m, nil

	case ErrorDismissMsg:
		m.errText = ""
		return m, nil
	}

	return m.routeToScreen(msg)
}

// navigate switches the active screen and lets the target refresh.
func (m Model) navigate(s Screen) (tea.Model, tea.Cmd) {
	m.screen = s
	m.errText = ""
	switch s {
	case ScreenChat:
		m.chat.refresh()
		return m, m.chat.Init()
	case ScreenHistory:
		m.history.refresh()
	case ScreenDashboard:
		m.dashboard.refresh()
	}
	return m, nil
}

// routeToScreen forwards a message to the active screen's sub-model.
func (m Model) routeToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		m.login, cmd = m.login.update(msg)
	case ScreenOnboarding:
		m.onboarding, cmd = m.onboarding.update(msg)
	case ScreenChat:
		m.chat, cmd = m.chat.update(msg)
	case ScreenHistory:
		m.history, cmd = m.history.update(msg)
	case ScreenDashboard:
		m.dashboard, cmd = m.dashboard.update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.screen {
	case ScreenLogin:
		body = m.login.view(m.width, m.height)
	case ScreenOnboarding:
		body = m.onboarding.view(m.width, m.height)
	case ScreenChat:
		body = m.chat.view()
	case ScreenHistory:
		body = m.history.view()
	case ScreenDashboard:
		body = m.dashboard.view()
	}

	if m.errText != "" {
		banner := m.theme.Error.Render("✗ " + m.errText)
		body = lipgloss.JoinVertical(lipgloss.Left, banner, body)
	}
	return body
}
