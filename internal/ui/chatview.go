// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitbotapp/fitbot-tui/internal/app"
	"github.com/fitbotapp/fitbot-tui/internal/coach"
	"github.com/fitbotapp/fitbot-tui/internal/model"
	"github.com/fitbotapp/fitbot-tui/internal/ui/styles"
)

// =============================================================================
// CHAT SCREEN
// =============================================================================

// Prompts offered while a conversation is still short. Tab cycles them
// into the input.
var chatSuggestions = []string{
	"Give me a 20-min workout",
	"High protein vegetarian meal?",
	"How to improve my squat form?",
	"I missed my workout yesterday",
}

// chatModel is the main coaching conversation screen: a scrollable
// transcript, a single-line input, and streaming reply rendering.
type chatModel struct {
	mgr   *app.Manager
	coach *coach.Client
	theme *styles.Theme

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	markdown *glamour.TermRenderer

	width      int
	height     int
	streaming  bool
	cancel     context.CancelFunc
	throttle   *StreamThrottle
	suggestIdx int
}

func newChatModel(mgr *app.Manager, coachClient *coach.Client, theme *styles.Theme) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask your coach anything..."
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Teal)

	vp := viewport.New(80, 20)

	return chatModel{
		mgr:      mgr,
		coach:    coachClient,
		theme:    theme,
		viewport: vp,
		input:    input,
		spin:     spin,
		throttle: NewStreamThrottle(),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) setSize(width, height int) {
	m.width = width
	m.height = height
	// Transcript fills everything above the input and status lines.
	m.viewport.Width = width
	m.viewport.Height = max(height-4, 3)
	m.input.Width = max(width-6, 20)

	wrap := min(width-6, 100)
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		m.markdown = renderer
	}
	m.refresh()
}

// refresh re-renders the transcript from the manager's state.
func (m *chatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// cancelStream aborts the in-flight reply stream, if any.
func (m *chatModel) cancelStream() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			sessionID := m.mgr.CurrentSessionID()
			if text == "" || sessionID == "" || m.mgr.Streaming(sessionID) {
				return m, nil
			}
			m.input.Reset()
			return m, m.sendCmd(sessionID, text)

		case "esc":
			m.cancelStream()
			return m, nil

		case "tab":
			if s := m.visibleSuggestions(); len(s) > 0 {
				m.input.SetValue(s[m.suggestIdx%len(s)])
				m.input.CursorEnd()
				m.suggestIdx++
			}
			return m, nil

		case "ctrl+n":
			return m, m.newSessionCmd()

		case "ctrl+h":
			return m, navigateCmd(ScreenHistory)

		case "ctrl+d":
			return m, navigateCmd(ScreenDashboard)

		case "ctrl+l":
			m.cancelStream()
			return m, m.signOutCmd()

		case "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case UserMessageSentMsg:
		if msg.Err != nil {
			return m, errorCmd(msg.Err)
		}
		m.refresh()
		return m, nil

	case StreamStartedMsg:
		m.streaming = true
		return m, m.spin.Tick

	case StreamProgressMsg:
		m.refresh()
		return m, nil

	case StreamDoneMsg:
		m.streaming = false
		m.cancel = nil
		m.refresh()
		if msg.Err != nil && !replyResolved(msg.Err) {
			return m, errorCmd(msg.Err)
		}
		return m, nil

	case SessionCreatedMsg:
		// The session exists in memory even when the write failed, so
		// refresh first and then surface the failure.
		m.refresh()
		if msg.Err != nil {
			return m, errorCmd(msg.Err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// COMMANDS
// =============================================================================

func navigateCmd(s Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Screen: s} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return ErrorMsg{Message: err.Error()} }
}

// replyResolved reports whether the stream failure already resolved
// inside the transcript as the apology reply, so an error banner would
// report it twice.
func replyResolved(err error) bool {
	var connErr *coach.ConnectionError
	var streamErr *coach.StreamError
	return errors.Is(err, coach.ErrNotConfigured) ||
		errors.As(err, &connErr) ||
		errors.As(err, &streamErr)
}

// failingStreamer satisfies the streamer contract when no conversation
// could be opened, so the exchange still resolves to the apology reply.
type failingStreamer struct {
	err error
}

func (f failingStreamer) Send(ctx context.Context, text string, fn func(fragment string)) error {
	return f.err
}

// sendCmd runs the whole exchange in a background goroutine: append the
// user's message, open a conversation seeded with prior history, then
// stream the reply. Repaints arrive through Send at a throttled rate.
func (m *chatModel) sendCmd(sessionID, text string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.throttle.Reset()

	mgr := m.mgr
	client := m.coach
	throttle := m.throttle
	profile := mgr.Profile()
	latest := mgr.LatestProgress()

	return func() tea.Msg {
		defer cancel()

		// History replay excludes the message being sent now.
		var history []model.ChatMessage
		if s := mgr.CurrentSession(); s != nil {
			history = s.Messages
		}

		if _, err := mgr.AppendUserMessage(ctx, text); err != nil {
			return StreamDoneMsg{SessionID: sessionID, Err: err}
		}
		Send(UserMessageSentMsg{SessionID: sessionID})

		var streamer app.Streamer
		if client == nil {
			streamer = failingStreamer{err: coach.ErrNotConfigured}
		} else if conv, err := client.Open(ctx, profile, latest, history); err != nil {
			streamer = failingStreamer{err: err}
		} else {
			streamer = conv
		}

		Send(StreamStartedMsg{SessionID: sessionID})
		err := mgr.StreamModelReply(ctx, sessionID, streamer, text, func() {
			if throttle.Fire() {
				Send(StreamProgressMsg{SessionID: sessionID})
			}
		})
		return StreamDoneMsg{SessionID: sessionID, Err: err}
	}
}

func (m chatModel) newSessionCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		id, err := mgr.CreateSession(context.Background())
		return SessionCreatedMsg{SessionID: id, Err: err}
	}
}

func (m chatModel) signOutCmd() tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		return SignedOutMsg{Err: mgr.SignOut(context.Background())}
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// visibleSuggestions returns the prompt chips, shown only while the
// conversation is short.
func (m chatModel) visibleSuggestions() []string {
	sess := m.mgr.CurrentSession()
	if sess == nil || len(sess.Messages) >= 3 {
		return nil
	}
	return chatSuggestions
}

// renderTranscript renders the current session's messages.
func (m chatModel) renderTranscript() string {
	sess := m.mgr.CurrentSession()
	if sess == nil {
		return m.theme.Hint.Render("No conversation yet. Press ctrl+n to start one.")
	}

	var b strings.Builder
	for i, msg := range sess.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, i == len(sess.Messages)-1))
		b.WriteString("\n")
	}

	if s := m.visibleSuggestions(); len(s) > 0 && !m.streaming {
		b.WriteString("\n")
		b.WriteString(m.theme.StatLabel.Render("Suggested:"))
		b.WriteString("\n")
		for _, c := range s {
			b.WriteString(m.theme.Unselected.Render("· " + c))
			b.WriteString("\n")
		}
		b.WriteString(m.theme.Hint.Render("tab cycles a suggestion into the input"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m chatModel) renderMessage(msg model.ChatMessage, last bool) string {
	ts := time.UnixMilli(msg.Timestamp).Format("15:04")

	var sender, body string
	if msg.Role == model.RoleUser {
		sender = m.theme.SenderUser.Render(msg.Role.DisplayName())
		body = m.theme.UserBubble.Render(msg.Text)
	} else {
		sender = m.theme.SenderCoach.Render(msg.Role.DisplayName())
		text := msg.Text
		if last && m.streaming {
			if text == "" {
				return sender + " " + m.theme.Timestamp.Render(ts) + "\n" + m.spin.View() + m.theme.Hint.Render(" thinking...")
			}
			text += " ▌"
		}
		body = m.theme.CoachBubble.Render(m.renderMarkdown(text))
	}

	return sender + " " + m.theme.Timestamp.Render(ts) + "\n" + body
}

// renderMarkdown renders coach replies for terminal display, falling
// back to the raw text when rendering fails.
func (m chatModel) renderMarkdown(content string) string {
	if m.markdown == nil {
		return content
	}
	rendered, err := m.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func (m chatModel) view() string {
	title := "FitBot"
	if sess := m.mgr.CurrentSession(); sess != nil {
		title = sess.Title
	}

	header := m.theme.Title.Render(title)
	status := m.theme.StatusBar.Render(
		"enter send · ctrl+n new · ctrl+h history · ctrl+d dashboard · ctrl+l sign out")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.input.View(),
		status,
	)
}
