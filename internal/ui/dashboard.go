// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitbotapp/fitbot-tui/internal/app"
	"github.com/fitbotapp/fitbot-tui/internal/model"
	"github.com/fitbotapp/fitbot-tui/internal/ui/styles"
)

// =============================================================================
// DASHBOARD SCREEN
// =============================================================================

// Sparkline glyph ramp, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Entry form fields.
const (
	fieldWeight = iota
	fieldCalories
	fieldWorkout
)

// dashboardModel shows the weight trend and workout log, and hosts a
// small form for logging today's entry.
type dashboardModel struct {
	mgr   *app.Manager
	theme *styles.Theme

	entries []model.ProgressEntry
	width   int
	height  int

	// Entry form state
	editing   bool
	field     int
	weight    textinput.Model
	calories  textinput.Model
	workout   bool
	formError string
}

func newDashboardModel(mgr *app.Manager, theme *styles.Theme) dashboardModel {
	weight := textinput.New()
	weight.Placeholder = "weight kg"
	weight.Prompt = "Weight (kg):     "
	weight.CharLimit = 8

	calories := textinput.New()
	calories.Placeholder = "0"
	calories.Prompt = "Calories burned: "
	calories.CharLimit = 6

	return dashboardModel{
		mgr:      mgr,
		theme:    theme,
		weight:   weight,
		calories: calories,
	}
}

func (m *dashboardModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *dashboardModel) refresh() {
	m.entries = m.mgr.Progress()
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "a", "enter":
			m.editing = true
			m.field = fieldWeight
			m.formError = ""
			m.weight.SetValue("")
			m.calories.SetValue("")
			m.workout = false
			m.weight.Focus()
			m.calories.Blur()
			return m, textinput.Blink
		case "esc":
			return m, navigateCmd(ScreenChat)
		}

	case ProgressSavedMsg:
		if msg.Err != nil {
			return m, errorCmd(msg.Err)
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

// updateForm handles keys while the entry form is open.
func (m dashboardModel) updateForm(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil

	case "tab", "down":
		return m.focusField((m.field + 1) % 3), nil

	case "shift+tab", "up":
		return m.focusField((m.field + 2) % 3), nil

	case " ":
		if m.field == fieldWorkout {
			m.workout = !m.workout
			return m, nil
		}

	case "enter":
		return m.submitEntry()
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldWeight:
		m.weight, cmd = m.weight.Update(msg)
	case fieldCalories:
		m.calories, cmd = m.calories.Update(msg)
	}
	return m, cmd
}

func (m dashboardModel) focusField(f int) dashboardModel {
	m.field = f
	m.weight.Blur()
	m.calories.Blur()
	switch f {
	case fieldWeight:
		m.weight.Focus()
	case fieldCalories:
		m.calories.Focus()
	}
	return m
}

// submitEntry validates the form and logs today's entry. An unparseable
// weight falls back to the last known good value instead of rejecting
// the entry.
func (m dashboardModel) submitEntry() (dashboardModel, tea.Cmd) {
	w, err := strconv.ParseFloat(strings.TrimSpace(m.weight.Value()), 64)
	if err != nil || w <= 0 {
		if latest := model.LatestEntry(m.mgr.Progress()); latest != nil {
			w = latest.Weight
		} else if p := m.mgr.Profile(); p != nil {
			w = p.Weight
		} else {
			m.formError = "Enter a valid weight in kg."
			return m, nil
		}
	}

	calories := 0
	if v := strings.TrimSpace(m.calories.Value()); v != "" {
		calories, err = strconv.Atoi(v)
		if err != nil || calories < 0 {
			m.formError = "Calories must be a whole number."
			return m, nil
		}
	}

	entry := model.ProgressEntry{
		Weight:           w,
		CaloriesBurned:   calories,
		WorkoutCompleted: m.workout,
	}
	m.editing = false
	m.formError = ""

	mgr := m.mgr
	return m, func() tea.Msg {
		return ProgressSavedMsg{Err: mgr.AddProgress(context.Background(), entry)}
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// sparkline renders the weight series as block glyphs scaled to the
// observed range. A flat series renders mid-height.
func sparkline(entries []model.ProgressEntry) string {
	if len(entries) == 0 {
		return ""
	}
	lo, hi := entries[0].Weight, entries[0].Weight
	for _, e := range entries {
		if e.Weight < lo {
			lo = e.Weight
		}
		if e.Weight > hi {
			hi = e.Weight
		}
	}

	var b strings.Builder
	for _, e := range entries {
		idx := len(sparkRunes) / 2
		if hi > lo {
			idx = int((e.Weight - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func (m dashboardModel) view() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Progress"))
	b.WriteString("\n\n")

	profile := m.mgr.Profile()
	if profile != nil {
		b.WriteString(m.theme.StatLabel.Render("Goal: "))
		b.WriteString(m.theme.StatValue.Render(model.Display(profile.Goal)))
		b.WriteString("\n")
	}

	if latest := model.LatestEntry(m.entries); latest != nil {
		b.WriteString(m.theme.StatLabel.Render("Current weight: "))
		b.WriteString(m.theme.StatValue.Render(fmt.Sprintf("%.1f kg", latest.Weight)))
		if profile != nil {
			delta := latest.Weight - profile.Weight
			b.WriteString(m.theme.StatLabel.Render(fmt.Sprintf("  (%+.1f since start)", delta)))
		}
		b.WriteString("\n")
	}

	if len(m.entries) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.Sparkline.Render(sparkline(m.entries)))
		b.WriteString("\n")
		b.WriteString(m.theme.StatLabel.Render(fmt.Sprintf("%s → %s",
			m.entries[0].Date, m.entries[len(m.entries)-1].Date)))
		b.WriteString("\n\n")

		for _, e := range m.entries {
			day := fmt.Sprintf("%-7s %6.1f kg  ", e.Date, e.Weight)
			if e.WorkoutCompleted {
				day += m.theme.Workout.Render(fmt.Sprintf("✓ workout · %d kcal", e.CaloriesBurned))
			} else {
				day += m.theme.RestDay.Render("rest day")
			}
			b.WriteString(day)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("\n")
		b.WriteString(m.theme.Hint.Render("No progress logged yet."))
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(m.theme.Label.Render("Log today's entry"))
		b.WriteString("\n")
		b.WriteString(m.weight.View())
		b.WriteString("\n")
		b.WriteString(m.calories.View())
		b.WriteString("\n")
		check := "[ ]"
		if m.workout {
			check = "[x]"
		}
		workoutLine := fmt.Sprintf("Workout done:    %s", check)
		if m.field == fieldWorkout {
			workoutLine = m.theme.Selected.Render(workoutLine)
		}
		b.WriteString(workoutLine)
		b.WriteString("\n")
		if m.formError != "" {
			b.WriteString(m.theme.Error.Render(m.formError))
			b.WriteString("\n")
		}
		b.WriteString(m.theme.Hint.Render("enter save · tab next field · space toggle · esc cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(m.theme.Hint.Render("a log entry · esc back to chat"))
	}

	body := b.String()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			lipgloss.NewStyle().Padding(1, 2).Render(body))
	}
	return body
}
