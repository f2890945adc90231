// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitbotapp/fitbot-tui/internal/model"
)

// Backend-specific coverage for the SQLite store: insertion order must
// survive in-place updates because it is carried by a seq column rather
// than document position.

func openTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := OpenSQLiteDB(filepath.Join(t.TempDir(), "fitbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteSessionOrderSurvivesUpdate(t *testing.T) {
	db := openTestSQLite(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, db.SaveSession(ctx, model.ChatSession{ID: id, Title: model.DefaultTitle}))
	}

	// Rewriting the first session must not move it to the end.
	require.NoError(t, db.SaveSession(ctx, model.ChatSession{ID: "a", Title: "Updated"}))
	title := "Patched"
	require.NoError(t, db.UpdateSession(ctx, "b", SessionPatch{Title: &title}))

	sessions, err := db.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	require.Equal(t, "a", sessions[0].ID)
	require.Equal(t, "Updated", sessions[0].Title)
	require.Equal(t, "b", sessions[1].ID)
	require.Equal(t, "Patched", sessions[1].Title)
	require.Equal(t, "c", sessions[2].ID)
}

func TestSQLiteProgressOrderSurvivesUpsert(t *testing.T) {
	db := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, db.SaveProgress(ctx, []model.ProgressEntry{
		{Date: "Mar 1", Weight: 70},
		{Date: "Mar 2", Weight: 69.8},
	}))
	require.NoError(t, db.UpsertProgress(ctx, model.ProgressEntry{Date: "Mar 1", Weight: 69.9}))

	entries, err := db.Progress(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Mar 1", entries[0].Date)
	require.Equal(t, 69.9, entries[0].Weight)
}

func TestSQLiteTokenOverwrite(t *testing.T) {
	db := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, db.SetToken(ctx, "first"))
	require.NoError(t, db.SetToken(ctx, "second"))

	token, err := db.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", token)
}
