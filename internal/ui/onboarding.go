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
// ONBOARDING QUESTIONNAIRE
// =============================================================================

// Questionnaire steps, in order.
const (
	stepName = iota
	stepAge
	stepWeight
	stepHeight
	stepGoal
	stepExperience
	stepEquipment
	stepSubmitting
)

// onboardingModel walks the user through the profile questionnaire one
// question at a time. Text steps validate on enter; choice steps move a
// cursor through the option list.
type onboardingModel struct {
	mgr   *app.Manager
	theme *styles.Theme

	step    int
	input   textinput.Model
	cursor  int
	errText string

	// Collected answers
	name       string
	age        int
	weight     float64
	height     float64
	goal       model.Goal
	experience model.Experience
	equipment  model.Equipment
}

func newOnboardingModel(mgr *app.Manager, theme *styles.Theme) onboardingModel {
	input := textinput.New()
	input.Placeholder = "Your name"
	input.CharLimit = 60
	input.Focus()

	return onboardingModel{
		mgr:   mgr,
		theme: theme,
		input: input,
	}
}

// stepPrompt returns the question for the current step.
func (m onboardingModel) stepPrompt() string {
	switch m.step {
	case stepName:
		return "What's your name?"
	case stepAge:
		return "How old are you?"
	case stepWeight:
		return "What's your current weight in kg?"
	case stepHeight:
		return "How tall are you in cm?"
	case stepGoal:
		return "What's your primary goal?"
	case stepExperience:
		return "What's your training experience?"
	case stepEquipment:
		return "What equipment do you have?"
	default:
		return "Setting up your plan..."
	}
}

// choices returns the option labels for a choice step, or nil for text
// steps.
func (m onboardingModel) choices() []string {
	switch m.step {
	case stepGoal:
		out := make([]string, len(model.Goals))
		for i, g := range model.Goals {
			out[i] = model.Display(g)
		}
		return out
	case stepExperience:
		out := make([]string, len(model.Experiences))
		for i, e := range model.Experiences {
			out[i] = model.Display(e)
		}
		return out
	case stepEquipment:
		out := make([]string, len(model.Equipments))
		for i, e := range model.Equipments {
			out[i] = model.Display(e)
		}
		return out
	}
	return nil
}

func (m onboardingModel) update(msg tea.Msg) (onboardingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case OnboardedMsg:
		if msg.Err != nil {
			m.step = stepEquipment
			m.errText = msg.Err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.step > stepName && m.step < stepSubmitting {
				m.step--
				m.cursor = 0
				m.errText = ""
				m.prepareInput()
			}
			return m, nil

		case "up", "k":
			if m.choices() != nil && m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "j":
			if c := m.choices(); c != nil && m.cursor < len(c)-1 {
				m.cursor++
			}
			return m, nil

		case "enter":
			return m.advance()
		}
	}

	if m.choices() == nil && m.step < stepSubmitting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// advance validates the current answer and moves to the next step.
func (m onboardingModel) advance() (onboardingModel, tea.Cmd) {
	m.errText = ""

	switch m.step {
	case stepName:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.errText = "Please enter your name."
			return m, nil
		}
		m.name = name

	case stepAge:
		age, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil || age <= 0 || age > 120 {
			m.errText = "Please enter a valid age."
			return m, nil
		}
		m.age = age

	case stepWeight:
		w, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil || w <= 0 {
			m.errText = "Please enter a valid weight in kg."
			return m, nil
		}
		m.weight = w

	case stepHeight:
		h, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil || h <= 0 {
			m.errText = "Please enter a valid height in cm."
			return m, nil
		}
		m.height = h

	case stepGoal:
		m.goal = model.Goals[m.cursor]

	case stepExperience:
		m.experience = model.Experiences[m.cursor]

	case stepEquipment:
		m.equipment = model.Equipments[m.cursor]
		m.step = stepSubmitting
		return m, m.submitCmd()
	}

	m.step++
	m.cursor = 0
	m.prepareInput()
	return m, nil
}

// prepareInput resets the text input for the step it now serves.
func (m *onboardingModel) prepareInput() {
	m.input.SetValue("")
	switch m.step {
	case stepName:
		m.input.Placeholder = "Your name"
		m.input.SetValue(m.name)
	case stepAge:
		m.input.Placeholder = "e.g. 29"
		if m.age > 0 {
			m.input.SetValue(strconv.Itoa(m.age))
		}
	case stepWeight:
		m.input.Placeholder = "e.g. 75.5"
		if m.weight > 0 {
			m.input.SetValue(strconv.FormatFloat(m.weight, 'f', -1, 64))
		}
	case stepHeight:
		m.input.Placeholder = "e.g. 178"
		if m.height > 0 {
			m.input.SetValue(strconv.FormatFloat(m.height, 'f', -1, 64))
		}
	}
	m.input.Focus()
}

func (m onboardingModel) submitCmd() tea.Cmd {
	mgr := m.mgr
	profile := &model.UserProfile{
		Name:       m.name,
		Age:        m.age,
		Weight:     m.weight,
		Height:     m.height,
		Goal:       m.goal,
		Experience: m.experience,
		Equipment:  m.equipment,
	}
	return func() tea.Msg {
		return OnboardedMsg{Err: mgr.Onboard(context.Background(), profile)}
	}
}

func (m onboardingModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Let's set up your profile"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("Step %d of 7", min(m.step+1, 7))))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Label.Render(m.stepPrompt()))
	b.WriteString("\n\n")

	if choices := m.choices(); choices != nil {
		for i, c := range choices {
			if i == m.cursor {
				b.WriteString(m.theme.Selected.Render("› " + c))
			} else {
				b.WriteString(m.theme.Unselected.Render("  " + c))
			}
			b.WriteString("\n")
		}
	} else if m.step < stepSubmitting {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(m.theme.Error.Render(m.errText))
		b.WriteString("\n\n")
	}
	b.WriteString(m.theme.Hint.Render("enter next · esc back"))

	card := m.theme.FocusedBorder.Render(b.String())
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}
