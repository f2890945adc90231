// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides local persistence for fitbot across four
// namespaces: auth token, user profile, progress history, and chat
// sessions. Two backends implement the DB interface: a JSON file store
// and a SQLite store.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitbotapp/fitbot-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when an operation targets a session id
// that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// StorageError wraps a backend failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr wraps err unless it is nil or already a sentinel the caller
// must match directly.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// =============================================================================
// SESSION PATCH
// =============================================================================

// SessionPatch is a partial session update. Nil Title leaves the title
// unchanged; nil Messages leaves the message list unchanged.
type SessionPatch struct {
	Title    *string
	Messages []model.ChatMessage
}

// =============================================================================
// DB INTERFACE
// =============================================================================

// DB is the persistence contract shared by all backends. Reads of absent
// data return zero values, never errors. Session order is insertion order
// and survives updates in place.
type DB interface {
	// ----- auth -----

	// Token returns the stored auth token, or "" when signed out.
	Token(ctx context.Context) (string, error)
	// SetToken stores the auth token.
	SetToken(ctx context.Context, token string) error
	// ClearToken removes the auth token. Clearing an absent token is a no-op.
	ClearToken(ctx context.Context) error

	// ----- profile -----

	// Profile returns the stored profile, or nil when onboarding has not
	// completed.
	Profile(ctx context.Context) (*model.UserProfile, error)
	// SaveProfile stores the profile.
	SaveProfile(ctx context.Context, p *model.UserProfile) error

	// ----- progress -----

	// Progress returns the progress history, oldest first.
	Progress(ctx context.Context) ([]model.ProgressEntry, error)
	// SaveProgress replaces the entire progress history.
	SaveProgress(ctx context.Context, entries []model.ProgressEntry) error
	// UpsertProgress inserts or replaces a single entry by date key,
	// preserving the position of a replaced entry.
	UpsertProgress(ctx context.Context, e model.ProgressEntry) error

	// ----- sessions -----

	// Sessions returns all chat sessions in insertion order.
	Sessions(ctx context.Context) ([]model.ChatSession, error)
	// SaveSession inserts a session or replaces it in place.
	SaveSession(ctx context.Context, s model.ChatSession) error
	// UpdateSession applies a partial update to an existing session.
	// Returns ErrSessionNotFound when the id does not exist.
	UpdateSession(ctx context.Context, id string, patch SessionPatch) error
	// DeleteSession removes a session. Deleting an absent id is a no-op.
	DeleteSession(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
