// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"math/rand"
	"time"
)

// =============================================================================
// PROGRESS ENTRY
// =============================================================================

// ProgressEntry is one dated observation of weight and workout activity.
// The Date string is the upsert key: at most one entry exists per date.
type ProgressEntry struct {
	Date             string  `json:"date"`
	Weight           float64 `json:"weight"`
	CaloriesBurned   int     `json:"calories_burned,omitempty"`
	WorkoutCompleted bool    `json:"workout_completed"`
}

// dateKeyFormat renders dates the way the dashboard displays them
// ("Jan 2"). The store treats the result as an opaque key.
const dateKeyFormat = "Jan 2"

// DateKey returns the progress key for a point in time, day granularity.
func DateKey(t time.Time) string {
	return t.Format(dateKeyFormat)
}

// SeedHistory builds the initial 7-day progress history created at
// onboarding, anchored at the starting weight with slight fluctuation so
// new users do not see an empty chart. Entries end at now, oldest first,
// with a workout logged on alternating days.
func SeedHistory(startWeight float64, now time.Time) []ProgressEntry {
	entries := make([]ProgressEntry, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		idx := 6 - i
		e := ProgressEntry{
			Date:   DateKey(day),
			Weight: startWeight + (rand.Float64()*0.5 - 0.25),
		}
		if idx%2 == 0 {
			e.WorkoutCompleted = true
			e.CaloriesBurned = 300 + rand.Intn(200)
		}
		entries = append(entries, e)
	}
	return entries
}

// UpsertEntry inserts or replaces an entry by date key, preserving the
// position of a replaced entry. Returns the updated slice.
func UpsertEntry(entries []ProgressEntry, e ProgressEntry) []ProgressEntry {
	for i := range entries {
		if entries[i].Date == e.Date {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

// LatestEntry returns the last entry, or nil when the history is empty.
func LatestEntry(entries []ProgressEntry) *ProgressEntry {
	if len(entries) == 0 {
		return nil
	}
	return &entries[len(entries)-1]
}
