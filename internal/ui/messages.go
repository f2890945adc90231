// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the fitbot terminal interface: login, onboarding
// questionnaire, coach chat with streaming replies, session history, and
// the progress dashboard.
//
// This file defines the Bubble Tea message types shared across screens.
package ui

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// Screen identifies a top-level view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenOnboarding
	ScreenChat
	ScreenHistory
	ScreenDashboard
)

// NavigateMsg switches the active screen.
type NavigateMsg struct {
	Screen Screen
}

// =============================================================================
// AUTH / ONBOARDING MESSAGES
// =============================================================================

// SignedInMsg reports the outcome of a sign-in attempt.
type SignedInMsg struct {
	Err error
}

// SignedOutMsg reports that the user signed out.
type SignedOutMsg struct {
	Err error
}

// OnboardedMsg reports the outcome of submitting the questionnaire.
type OnboardedMsg struct {
	Err error
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// UserMessageSentMsg confirms the user's message was appended.
type UserMessageSentMsg struct {
	SessionID string
	Err       error
}

// StreamStartedMsg signals that a reply stream began.
type StreamStartedMsg struct {
	SessionID string
}

// StreamProgressMsg requests a repaint while fragments accumulate. Sent
// at a throttled rate from the streaming goroutine.
type StreamProgressMsg struct {
	SessionID string
}

// StreamDoneMsg signals that the reply stream ended.
type StreamDoneMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionCreatedMsg reports a freshly created session.
type SessionCreatedMsg struct {
	SessionID string
	Err       error
}

// SessionDeletedMsg reports a session deletion.
type SessionDeletedMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// PROGRESS MESSAGES
// =============================================================================

// ProgressSavedMsg reports the outcome of logging a progress entry.
type ProgressSavedMsg struct {
	Err error
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg displays a dismissible error banner.
type ErrorMsg struct {
	Message string
}

// ErrorDismissMsg clears the error banner.
type ErrorDismissMsg struct{}
