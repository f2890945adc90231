// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fitbotapp/fitbot-tui/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteDB persists the four namespaces in a single SQLite database.
// Rows store JSON documents; a seq column preserves session and progress
// insertion order across in-place updates.
type SQLiteDB struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS auth (
	id    INTEGER PRIMARY KEY CHECK (id = 1),
	token TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS profile (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS progress (
	date TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	seq  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	id   TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	seq  INTEGER NOT NULL
);
`

// OpenSQLiteDB opens (creating if needed) the SQLite store at path.
func OpenSQLiteDB(path string) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, storageErr("open", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL with full sync: a completed write must survive a crash.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, storageErr("open", fmt.Errorf("failed to set pragma: %w", err))
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, storageErr("open", fmt.Errorf("failed to init schema: %w", err))
	}

	return &SQLiteDB{db: db}, nil
}

// ----- auth -----

func (s *SQLiteDB) Token(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT token FROM auth WHERE id = 1`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storageErr("read token", err)
	}
	return token, nil
}

func (s *SQLiteDB) SetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth (id, token) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET token = excluded.token`, token)
	return storageErr("write token", err)
}

func (s *SQLiteDB) ClearToken(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth WHERE id = 1`)
	return storageErr("clear token", err)
}

// ----- profile -----

func (s *SQLiteDB) Profile(ctx context.Context) (*model.UserProfile, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM profile WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("read profile", err)
	}
	var p model.UserProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, storageErr("read profile", err)
	}
	return &p, nil
}

func (s *SQLiteDB) SaveProfile(ctx context.Context, p *model.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return storageErr("write profile", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profile (id, data) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data`, string(data))
	return storageErr("write profile", err)
}

// ----- progress -----

func (s *SQLiteDB) Progress(ctx context.Context) ([]model.ProgressEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM progress ORDER BY seq`)
	if err != nil {
		return nil, storageErr("read progress", err)
	}
	defer rows.Close()

	var entries []model.ProgressEntry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, storageErr("read progress", err)
		}
		var e model.ProgressEntry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, storageErr("read progress", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("read progress", err)
	}
	return entries, nil
}

func (s *SQLiteDB) SaveProgress(ctx context.Context, entries []model.ProgressEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("write progress", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return storageErr("write progress", err)
	}
	for i, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return storageErr("write progress", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO progress (date, data, seq) VALUES (?, ?, ?)`,
			e.Date, string(data), i+1); err != nil {
			return storageErr("write progress", err)
		}
	}
	return storageErr("write progress", tx.Commit())
}

func (s *SQLiteDB) UpsertProgress(ctx context.Context, e model.ProgressEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return storageErr("write progress", err)
	}
	// New dates get the next seq; replaced dates keep theirs.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress (date, data, seq)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM progress))
		ON CONFLICT (date) DO UPDATE SET data = excluded.data`,
		e.Date, string(data))
	return storageErr("write progress", err)
}

// ----- sessions -----

func (s *SQLiteDB) Sessions(ctx context.Context) ([]model.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM sessions ORDER BY seq`)
	if err != nil {
		return nil, storageErr("read sessions", err)
	}
	defer rows.Close()

	var sessions []model.ChatSession
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, storageErr("read sessions", err)
		}
		var sess model.ChatSession
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			return nil, storageErr("read sessions", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("read sessions", err)
	}
	return sessions, nil
}

func (s *SQLiteDB) SaveSession(ctx context.Context, sess model.ChatSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return storageErr("write session", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, seq)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM sessions))
		ON CONFLICT (id) DO UPDATE SET data = excluded.data`,
		sess.ID, string(data))
	return storageErr("write session", err)
}

func (s *SQLiteDB) UpdateSession(ctx context.Context, id string, patch SessionPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("update session", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return storageErr("update session", err)
	}

	var sess model.ChatSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return storageErr("update session", err)
	}
	if patch.Title != nil {
		sess.Title = *patch.Title
	}
	if patch.Messages != nil {
		sess.Messages = patch.Messages
	}

	updated, err := json.Marshal(sess)
	if err != nil {
		return storageErr("update session", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET data = ? WHERE id = ?`,
		string(updated), id); err != nil {
		return storageErr("update session", err)
	}
	return storageErr("update session", tx.Commit())
}

func (s *SQLiteDB) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return storageErr("delete session", err)
}

// Close closes the underlying database.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

var _ DB = (*SQLiteDB)(nil)
