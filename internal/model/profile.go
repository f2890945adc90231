// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for user profiles, progress
// tracking, and chat sessions.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ENUMS
// =============================================================================

// Goal is the user's primary training objective.
type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalEndurance      Goal = "endurance"
	GoalGeneralFitness Goal = "general_fitness"
)

// Goals lists all valid goals in display order.
var Goals = []Goal{GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalGeneralFitness}

// Experience is the user's training experience level.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// Experiences lists all valid experience levels in display order.
var Experiences = []Experience{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced}

// Equipment is the equipment available to the user.
type Equipment string

const (
	EquipmentGym            Equipment = "gym"
	EquipmentHomeDumbbells  Equipment = "home_dumbbells"
	EquipmentBodyweight     Equipment = "bodyweight"
	EquipmentResistanceBand Equipment = "resistance_bands"
)

// Equipments lists all valid equipment options in display order.
var Equipments = []Equipment{EquipmentGym, EquipmentHomeDumbbells, EquipmentBodyweight, EquipmentResistanceBand}

// Display renders an enum value for humans: underscores become spaces.
func Display[T ~string](v T) string {
	return strings.ReplaceAll(string(v), "_", " ")
}

// ParseGoal validates a raw goal string.
func ParseGoal(s string) (Goal, error) {
	for _, g := range Goals {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown goal %q", s)
}

// ParseExperience validates a raw experience string.
func ParseExperience(s string) (Experience, error) {
	for _, e := range Experiences {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown experience %q", s)
}

// ParseEquipment validates a raw equipment string.
func ParseEquipment(s string) (Equipment, error) {
	for _, e := range Equipments {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown equipment %q", s)
}

// =============================================================================
// USER PROFILE
// =============================================================================

// UserProfile holds the baseline attributes collected at onboarding.
// It is created once and treated as immutable afterwards.
type UserProfile struct {
	Name       string     `json:"name"`
	Age        int        `json:"age"`
	Weight     float64    `json:"weight"` // kg
	Height     float64    `json:"height"` // cm
	Goal       Goal       `json:"goal"`
	Experience Experience `json:"experience"`
	Equipment  Equipment  `json:"equipment"`
}

// Validate reports the first problem with the profile, if any.
func (p *UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile: name is required")
	}
	if p.Age <= 0 {
		return errors.New("profile: age must be positive")
	}
	if p.Weight <= 0 {
		return errors.New("profile: weight must be positive")
	}
	if p.Height <= 0 {
		return errors.New("profile: height must be positive")
	}
	if _, err := ParseGoal(string(p.Goal)); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if _, err := ParseExperience(string(p.Experience)); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if _, err := ParseEquipment(string(p.Equipment)); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}
