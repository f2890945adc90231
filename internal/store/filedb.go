// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fitbotapp/fitbot-tui/internal/model"
	"github.com/fitbotapp/fitbot-tui/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// File names for the four namespaces within the data directory.
const (
	authFile     = "auth.json"
	profileFile  = "profile.json"
	progressFile = "progress.json"
	sessionsFile = "sessions.json"
)

// FileDB persists each namespace as a JSON document in a directory.
// Writes are atomic (temp file + fsync + rename) so a crash mid-write
// never corrupts existing data.
type FileDB struct {
	dir string
	mu  sync.Mutex
}

// authDoc is the on-disk shape of the auth namespace.
type authDoc struct {
	Token string `json:"token"`
}

// OpenFileDB opens a file-backed store rooted at dir, creating the
// directory if needed.
func OpenFileDB(dir string) (*FileDB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storageErr("open", err)
	}
	return &FileDB{dir: dir}, nil
}

// readDoc unmarshals the named file into v. A missing file leaves v
// untouched and is not an error.
func (f *FileDB) readDoc(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// writeDoc marshals v and writes it atomically to the named file.
// Auth data is kept owner-only.
func (f *FileDB) writeDoc(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	perm := os.FileMode(0644)
	if name == authFile {
		perm = 0600
	}
	return util.AtomicWriteFile(filepath.Join(f.dir, name), data, perm)
}

// ----- auth -----

func (f *FileDB) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var doc authDoc
	if err := f.readDoc(authFile, &doc); err != nil {
		return "", storageErr("read token", err)
	}
	return doc.Token, nil
}

func (f *FileDB) SetToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return storageErr("write token", f.writeDoc(authFile, authDoc{Token: token}))
}

func (f *FileDB) ClearToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(filepath.Join(f.dir, authFile))
	if err != nil && !os.IsNotExist(err) {
		return storageErr("clear token", err)
	}
	return nil
}

// ----- profile -----

func (f *FileDB) Profile(ctx context.Context) (*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var p *model.UserProfile
	if err := f.readDoc(profileFile, &p); err != nil {
		return nil, storageErr("read profile", err)
	}
	return p, nil
}

func (f *FileDB) SaveProfile(ctx context.Context, p *model.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return storageErr("write profile", f.writeDoc(profileFile, p))
}

// ----- progress -----

func (f *FileDB) Progress(ctx context.Context) ([]model.ProgressEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []model.ProgressEntry
	if err := f.readDoc(progressFile, &entries); err != nil {
		return nil, storageErr("read progress", err)
	}
	return entries, nil
}

func (f *FileDB) SaveProgress(ctx context.Context, entries []model.ProgressEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entries == nil {
		entries = []model.ProgressEntry{}
	}
	return storageErr("write progress", f.writeDoc(progressFile, entries))
}

func (f *FileDB) UpsertProgress(ctx context.Context, e model.ProgressEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []model.ProgressEntry
	if err := f.readDoc(progressFile, &entries); err != nil {
		return storageErr("read progress", err)
	}
	entries = model.UpsertEntry(entries, e)
	return storageErr("write progress", f.writeDoc(progressFile, entries))
}

// ----- sessions -----

func (f *FileDB) Sessions(ctx context.Context) ([]model.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readSessions()
}

func (f *FileDB) readSessions() ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := f.readDoc(sessionsFile, &sessions); err != nil {
		return nil, storageErr("read sessions", err)
	}
	return sessions, nil
}

func (f *FileDB) writeSessions(sessions []model.ChatSession) error {
	if sessions == nil {
		sessions = []model.ChatSession{}
	}
	return storageErr("write sessions", f.writeDoc(sessionsFile, sessions))
}

func (f *FileDB) SaveSession(ctx context.Context, s model.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sessions, err := f.readSessions()
	if err != nil {
		return err
	}
	replaced := false
	for i := range sessions {
		if sessions[i].ID == s.ID {
			sessions[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, s)
	}
	return f.writeSessions(sessions)
}

func (f *FileDB) UpdateSession(ctx context.Context, id string, patch SessionPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sessions, err := f.readSessions()
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID != id {
			continue
		}
		if patch.Title != nil {
			sessions[i].Title = *patch.Title
		}
		if patch.Messages != nil {
			sessions[i].Messages = patch.Messages
		}
		return f.writeSessions(sessions)
	}
	return ErrSessionNotFound
}

func (f *FileDB) DeleteSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sessions, err := f.readSessions()
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			sessions = append(sessions[:i], sessions[i+1:]...)
			return f.writeSessions(sessions)
		}
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *FileDB) Close() error {
	return nil
}

var _ DB = (*FileDB)(nil)
