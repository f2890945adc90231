// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme bundles the reusable styles for all screens. It detects the
// terminal's color capability so adaptive colors resolve correctly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Chrome
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	StatusBar lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style

	// Forms
	Label         lipgloss.Style
	Selected      lipgloss.Style
	Unselected    lipgloss.Style
	FocusedBorder lipgloss.Style

	// Chat
	UserBubble   lipgloss.Style
	CoachBubble  lipgloss.Style
	SenderUser   lipgloss.Style
	SenderCoach  lipgloss.Style
	Timestamp    lipgloss.Style
	StreamCursor lipgloss.Style

	// Dashboard
	StatValue lipgloss.Style
	StatLabel lipgloss.Style
	Sparkline lipgloss.Style
	Workout   lipgloss.Style
	RestDay   lipgloss.Style
}

// NewTheme creates the default theme, detecting terminal capabilities.
func NewTheme() *Theme {
	return &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),

		Title: lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(TextSecondary),
		StatusBar: lipgloss.NewStyle().
			Foreground(TextSecondary).
			Background(SurfaceBright).
			Padding(0, 1),
		Hint: lipgloss.NewStyle().
			Foreground(TextMuted),
		Error: lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(TextSecondary),
		Selected: lipgloss.NewStyle().
			Foreground(TextInverse).
			Background(Teal).
			Bold(true).
			Padding(0, 1),
		Unselected: lipgloss.NewStyle().
			Foreground(TextPrimary).
			Padding(0, 1),
		FocusedBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Teal).
			Padding(0, 1),

		UserBubble: lipgloss.NewStyle().
			Foreground(UserBubbleFg).
			Background(UserBubbleBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(UserBubbleBorder).
			Padding(0, 1),
		CoachBubble: lipgloss.NewStyle().
			Foreground(CoachBubbleFg).
			Background(CoachBubbleBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CoachBubbleBorder).
			Padding(0, 1),
		SenderUser: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),
		SenderCoach: lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true),
		Timestamp: lipgloss.NewStyle().
			Foreground(TextMuted),
		StreamCursor: lipgloss.NewStyle().
			Foreground(Teal).
			Blink(true),

		StatValue: lipgloss.NewStyle().
			Foreground(TextPrimary).
			Bold(true),
		StatLabel: lipgloss.NewStyle().
			Foreground(TextMuted),
		Sparkline: lipgloss.NewStyle().
			Foreground(Teal),
		Workout: lipgloss.NewStyle().
			Foreground(Emerald),
		RestDay: lipgloss.NewStyle().
			Foreground(Amber),
	}
}
