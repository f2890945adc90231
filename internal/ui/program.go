// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// PROGRAM REFERENCE
// =============================================================================

// Global program reference for async streaming. Goroutines outside the
// Bubble Tea loop deliver messages through Send.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

// SetProgram stores the running program so background goroutines can
// deliver messages into the update loop.
func SetProgram(p *tea.Program) {
	programMu.Lock()
	programRef = p
	programMu.Unlock()
}

// Send delivers a message to the running program. Dropped silently when
// no program is set, which only happens in tests.
func Send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
