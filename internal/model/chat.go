// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the sender of a chat message. The values mirror the
// conversational service's turn roles so history replays without mapping.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "FitBot"
	default:
		return string(r)
	}
}

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage is a single chat turn. Text accumulates incrementally while a
// model message is streaming and is immutable once finalized.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// NewUserMessage creates a user message with a fresh id and timestamp.
func NewUserMessage(text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewModelMessage creates a model message with a fresh id and timestamp.
// Pass empty text for a streaming placeholder.
func NewModelMessage(text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleModel,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// DefaultTitle is the sentinel title of a freshly created session. Title
// derivation only ever runs while a session still carries this literal value.
const DefaultTitle = "New Conversation"

// GreetingMessageID is the fixed id of the synthesized greeting, which is
// created locally without calling the conversational service.
const GreetingMessageID = "init-1"

// titleMaxRunes is the truncation length for derived session titles.
const titleMaxRunes = 30

// ChatSession is an ordered, titled conversation thread.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt int64         `json:"created_at"` // epoch milliseconds
	Messages  []ChatMessage `json:"messages"`
}

// NewChatSession creates an empty session with the default title.
func NewChatSession() ChatSession {
	return ChatSession{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		CreatedAt: time.Now().UnixMilli(),
		Messages:  []ChatMessage{},
	}
}

// DeriveTitle computes a session title from the first user message:
// the text truncated to 30 characters, with "..." appended only when
// truncation occurred. ok is false when no user message exists.
func DeriveTitle(messages []ChatMessage) (title string, ok bool) {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		runes := []rune(m.Text)
		if len(runes) > titleMaxRunes {
			return string(runes[:titleMaxRunes]) + "...", true
		}
		return m.Text, true
	}
	return "", false
}

// Greeting builds the synthesized first model message for a new session.
func Greeting(p *UserProfile) ChatMessage {
	return ChatMessage{
		ID:   GreetingMessageID,
		Role: RoleModel,
		Text: fmt.Sprintf(
			"Hi %s! I'm FitBot. I see you're looking to focus on **%s**. How can I help you today? Need a workout plan or diet tips?",
			p.Name, Display(p.Goal),
		),
		Timestamp: time.Now().UnixMilli(),
	}
}
