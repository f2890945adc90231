// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app holds the application state machine: auth, onboarding,
// progress tracking, and chat session management with optimistic updates
// and streaming reply orchestration.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fitbotapp/fitbot-tui/internal/coach"
	"github.com/fitbotapp/fitbot-tui/internal/model"
	"github.com/fitbotapp/fitbot-tui/internal/store"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrStreamBusy is returned when a reply stream is already running
	// for the targeted session.
	ErrStreamBusy = errors.New("a reply is already streaming for this session")

	// ErrNoProfile is returned when an operation requires a completed
	// onboarding.
	ErrNoProfile = errors.New("no user profile; onboarding not completed")

	// ErrNoSession is returned when an operation requires a selected
	// session.
	ErrNoSession = errors.New("no session selected")
)

// Streamer sends one user message and streams the reply back through a
// fragment callback. Implemented by coach.Conversation.
type Streamer interface {
	Send(ctx context.Context, text string, fn func(fragment string)) error
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the in-memory application state and keeps it in sync with
// the store. UI-facing methods apply changes optimistically: memory first,
// then persistence, so the interface never waits on disk.
type Manager struct {
	db store.DB

	mu        sync.Mutex
	token     string
	profile   *model.UserProfile
	progress  []model.ProgressEntry
	sessions  []model.ChatSession
	currentID string
	busy      map[string]bool
}

// NewManager creates a manager over the given store.
func NewManager(db store.DB) *Manager {
	return &Manager{
		db:   db,
		busy: make(map[string]bool),
	}
}

// Load hydrates all namespaces from the store. Absent data loads as zero
// values; a fresh install starts at the login screen.
func (m *Manager) Load(ctx context.Context) error {
	token, err := m.db.Token(ctx)
	if err != nil {
		return err
	}
	profile, err := m.db.Profile(ctx)
	if err != nil {
		return err
	}
	progress, err := m.db.Progress(ctx)
	if err != nil {
		return err
	}
	sessions, err := m.db.Sessions(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.profile = profile
	m.progress = progress
	m.sessions = sessions
	if len(sessions) > 0 {
		m.currentID = sessions[len(sessions)-1].ID
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SignedIn reports whether an auth token is present.
func (m *Manager) SignedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// Onboarded reports whether a profile exists.
func (m *Manager) Onboarded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile != nil
}

// Profile returns a copy of the user profile, or nil before onboarding.
func (m *Manager) Profile() *model.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	return &p
}

// Progress returns a copy of the progress history, oldest first.
func (m *Manager) Progress() []model.ProgressEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ProgressEntry, len(m.progress))
	copy(out, m.progress)
	return out
}

// LatestProgress returns a copy of the most recent entry, or nil.
func (m *Manager) LatestProgress() *model.ProgressEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := model.LatestEntry(m.progress); e != nil {
		cp := *e
		return &cp
	}
	return nil
}

// Sessions returns copies of all sessions in insertion order.
func (m *Manager) Sessions() []model.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ChatSession, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = copySession(s)
	}
	return out
}

// CurrentSession returns a copy of the selected session, or nil.
func (m *Manager) CurrentSession() *model.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.sessionLocked(m.currentID); s != nil {
		cp := copySession(*s)
		return &cp
	}
	return nil
}

// CurrentSessionID returns the selected session id, or "".
func (m *Manager) CurrentSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Streaming reports whether a reply stream is running for the session.
func (m *Manager) Streaming(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy[sessionID]
}

func copySession(s model.ChatSession) model.ChatSession {
	msgs := make([]model.ChatMessage, len(s.Messages))
	copy(msgs, s.Messages)
	s.Messages = msgs
	return s
}

// sessionLocked finds a session by id. Caller holds mu.
func (m *Manager) sessionLocked(id string) *model.ChatSession {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			return &m.sessions[i]
		}
	}
	return nil
}

// =============================================================================
// AUTH
// =============================================================================

// SignIn stores the auth token. The token is an opaque credential; any
// non-empty value counts as signed in.
func (m *Manager) SignIn(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty auth token")
	}
	if err := m.db.SetToken(ctx, token); err != nil {
		return err
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

// SignOut clears the auth token. Profile, progress, and sessions are
// retained so signing back in restores them.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.db.ClearToken(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

// =============================================================================
// ONBOARDING
// =============================================================================

// Onboard completes the questionnaire: validates and persists the
// profile, seeds a week of progress history anchored at the starting
// weight, and opens a first session greeting the user by name and goal.
func (m *Manager) Onboard(ctx context.Context, p *model.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := m.db.SaveProfile(ctx, p); err != nil {
		return err
	}

	seed := model.SeedHistory(p.Weight, time.Now())
	if err := m.db.SaveProgress(ctx, seed); err != nil {
		return err
	}

	sess := model.NewChatSession()
	sess.Messages = append(sess.Messages, model.Greeting(p))
	if err := m.db.SaveSession(ctx, sess); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profile = &cp
	m.progress = seed
	m.sessions = append(m.sessions, sess)
	m.currentID = sess.ID
	return nil
}

// =============================================================================
// PROGRESS
// =============================================================================

// AddProgress records an entry for today, replacing any existing entry
// for the same date.
func (m *Manager) AddProgress(ctx context.Context, e model.ProgressEntry) error {
	if e.Date == "" {
		e.Date = model.DateKey(time.Now())
	}
	if err := m.db.UpsertProgress(ctx, e); err != nil {
		return err
	}
	m.mu.Lock()
	m.progress = model.UpsertEntry(m.progress, e)
	m.mu.Unlock()
	return nil
}

// =============================================================================
// SESSIONS
// =============================================================================

// CreateSession opens a new session with a greeting and selects it. The
// session is inserted in memory before the write resolves; a persistence
// failure is surfaced but never rolls the insert back.
func (m *Manager) CreateSession(ctx context.Context) (string, error) {
	m.mu.Lock()
	profile := m.profile
	m.mu.Unlock()
	if profile == nil {
		return "", ErrNoProfile
	}

	sess := model.NewChatSession()
	sess.Messages = append(sess.Messages, model.Greeting(profile))

	m.mu.Lock()
	m.sessions = append(m.sessions, sess)
	m.currentID = sess.ID
	m.mu.Unlock()

	return sess.ID, m.db.SaveSession(ctx, sess)
}

// SelectSession makes the session current. The pointer is set without
// validating existence; a dangling id resolves to no active session.
// Fragments from a stream begun in a previously selected session no
// longer reach the UI.
func (m *Manager) SelectSession(id string) {
	m.mu.Lock()
	m.currentID = id
	m.mu.Unlock()
}

// DeleteSession removes a session, in memory first. Deleting the current
// session clears the active pointer. A persistence failure is surfaced
// but the in-memory removal stands.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			break
		}
	}
	delete(m.busy, id)
	if m.currentID == id {
		m.currentID = ""
	}
	m.mu.Unlock()

	return m.db.DeleteSession(ctx, id)
}

// =============================================================================
// MESSAGES
// =============================================================================

// AppendUserMessage adds the user's message to the current session,
// persists it, and derives a title when one is still pending.
func (m *Manager) AppendUserMessage(ctx context.Context, text string) (model.ChatMessage, error) {
	msg := model.NewUserMessage(text)

	m.mu.Lock()
	sess := m.sessionLocked(m.currentID)
	if sess == nil {
		m.mu.Unlock()
		return model.ChatMessage{}, ErrNoSession
	}
	sess.Messages = append(sess.Messages, msg)
	m.maybeDeriveTitleLocked(sess)
	patch := store.SessionPatch{Title: &sess.Title, Messages: append([]model.ChatMessage(nil), sess.Messages...)}
	id := sess.ID
	m.mu.Unlock()

	if err := m.db.UpdateSession(ctx, id, patch); err != nil {
		return model.ChatMessage{}, err
	}
	return msg, nil
}

// maybeDeriveTitleLocked replaces the default title once the session has
// more than just its opening message. Caller holds mu.
func (m *Manager) maybeDeriveTitleLocked(sess *model.ChatSession) {
	if sess.Title != model.DefaultTitle || len(sess.Messages) <= 1 {
		return
	}
	if title, ok := model.DeriveTitle(sess.Messages); ok {
		sess.Title = title
	}
}

// =============================================================================
// STREAMING REPLIES
// =============================================================================

// BeginModelReply appends an empty placeholder message to the session and
// marks it busy. The placeholder lives only in memory until the stream
// finishes. Returns ErrStreamBusy when a stream is already running.
func (m *Manager) BeginModelReply(sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.sessionLocked(sessionID)
	if sess == nil {
		return "", store.ErrSessionNotFound
	}
	if m.busy[sessionID] {
		return "", ErrStreamBusy
	}
	m.busy[sessionID] = true
	msg := model.NewModelMessage("")
	sess.Messages = append(sess.Messages, msg)
	return msg.ID, nil
}

// ApplyFragment appends streamed text to the placeholder. Fragments for a
// session that is no longer current are dropped: the user has moved on
// and the reply will be discarded at finish.
func (m *Manager) ApplyFragment(sessionID, messageID, fragment string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentID != sessionID {
		return
	}
	sess := m.sessionLocked(sessionID)
	if sess == nil {
		return
	}
	for i := range sess.Messages {
		if sess.Messages[i].ID == messageID {
			sess.Messages[i].Text += fragment
			return
		}
	}
}

// FinishModelReply resolves the placeholder after the stream ends and
// performs the single terminal persist for the whole exchange.
//
// Outcomes:
//   - success: the accumulated text stands and the session is persisted
//   - cancellation: the placeholder is removed and nothing is persisted
//   - failure: the placeholder becomes an apology, then persisted
func (m *Manager) FinishModelReply(ctx context.Context, sessionID, messageID string, streamErr error) error {
	m.mu.Lock()
	delete(m.busy, sessionID)
	sess := m.sessionLocked(sessionID)
	if sess == nil {
		m.mu.Unlock()
		return store.ErrSessionNotFound
	}

	if errors.Is(streamErr, context.Canceled) {
		for i := range sess.Messages {
			if sess.Messages[i].ID == messageID {
				sess.Messages = append(sess.Messages[:i], sess.Messages[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		return nil
	}

	if streamErr != nil {
		for i := range sess.Messages {
			if sess.Messages[i].ID == messageID {
				sess.Messages[i].Text = coach.ApologyText
				break
			}
		}
	}

	m.maybeDeriveTitleLocked(sess)
	patch := store.SessionPatch{Title: &sess.Title, Messages: append([]model.ChatMessage(nil), sess.Messages...)}
	id := sess.ID
	m.mu.Unlock()

	// The reply is already complete in memory; canceling the caller's
	// context must not lose the terminal persist.
	return m.db.UpdateSession(context.WithoutCancel(ctx), id, patch)
}

// StreamModelReply runs a full streamed exchange: placeholder, fragments,
// terminal resolution. notify is called after each applied fragment so
// the UI can repaint; it may be nil. Blocks until the stream ends.
func (m *Manager) StreamModelReply(ctx context.Context, sessionID string, conv Streamer, text string, notify func()) error {
	messageID, err := m.BeginModelReply(sessionID)
	if err != nil {
		return err
	}

	streamErr := conv.Send(ctx, text, func(fragment string) {
		m.ApplyFragment(sessionID, messageID, fragment)
		if notify != nil {
			notify()
		}
	})

	if err := m.FinishModelReply(ctx, sessionID, messageID, streamErr); err != nil {
		return err
	}
	if streamErr != nil && !errors.Is(streamErr, context.Canceled) {
		return streamErr
	}
	return nil
}
