// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package coach adapts the Gemini conversational service into a fitness
// coaching interface: a system instruction built from the user's profile
// and latest progress, chat history replay, and streaming replies.
package coach

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/fitbotapp/fitbot-tui/internal/model"
)

// =============================================================================
// SYSTEM INSTRUCTION
// =============================================================================

// SystemInstruction renders the coaching persona and user context sent
// with every conversation. latest may be nil when no progress exists yet.
func SystemInstruction(p *model.UserProfile, latest *model.ProgressEntry) string {
	var b strings.Builder

	b.WriteString("You are FitBot, an elite AI personal trainer and nutritionist.\n")
	b.WriteString("Your tone is motivating, friendly, and professional.\n\n")

	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Age: %d\n", p.Age)
	fmt.Fprintf(&b, "- Weight: %gkg\n", p.Weight)
	fmt.Fprintf(&b, "- Height: %gcm\n", p.Height)
	fmt.Fprintf(&b, "- Goal: %s\n", model.Display(p.Goal))
	fmt.Fprintf(&b, "- Experience Level: %s\n", p.Experience)
	fmt.Fprintf(&b, "- Available Equipment: %s\n", model.Display(p.Equipment))

	if latest != nil {
		completed := "No"
		if latest.WorkoutCompleted {
			completed = "Yes"
		}
		fmt.Fprintf(&b, "\nCurrent Status (as of %s):\n", latest.Date)
		fmt.Fprintf(&b, "- Weight: %gkg\n", latest.Weight)
		fmt.Fprintf(&b, "- Last Workout Completed: %s\n", completed)
	}

	b.WriteString(`
Your Responsibilities:
1. Create personalized workout plans based on the user's equipment and experience.
2. Suggest diet tips and approximate calorie/macro breakdowns (remind them these are estimates).
3. Answer fitness questions accurately.
4. If the user reports pain or dizziness, immediately advise them to stop and consult a professional.
5. Always remind users to warm up and cool down.

Format your responses using Markdown. Use lists, bold text, and clear headings.
Keep responses concise but informative.
`)

	return b.String()
}

// History converts stored chat messages into service content for replay.
// The synthesized greeting is locally generated and never part of the
// service's view of the conversation, so it is skipped.
func History(messages []model.ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, m := range messages {
		if m.ID == model.GreetingMessageID {
			continue
		}
		switch m.Role {
		case model.RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleUser))
		case model.RoleModel:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleModel))
		}
	}
	return contents
}

// =============================================================================
// CLIENT
// =============================================================================

// Client wraps the Gemini API client with coaching defaults.
type Client struct {
	genAI       *genai.Client
	model       string
	temperature float32
}

// NewClient creates a coach client. Returns ErrNotConfigured when the API
// key is empty; callers degrade to offline behavior in that case.
func NewClient(ctx context.Context, apiKey, modelName string, temperature float64) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	genAI, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return &Client{
		genAI:       genAI,
		model:       modelName,
		temperature: float32(temperature),
	}, nil
}

// Open starts a conversation seeded with the user's context and the
// stored history of the selected session.
func (c *Client) Open(ctx context.Context, p *model.UserProfile, latest *model.ProgressEntry, messages []model.ChatMessage) (*Conversation, error) {
	chat, err := c.genAI.Chats.Create(ctx, c.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(p, latest), genai.RoleModel),
		Temperature:       genai.Ptr(c.temperature),
	}, History(messages))
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return &Conversation{chat: chat}, nil
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is an open chat with reply streaming.
type Conversation struct {
	chat *genai.Chat
}

// Send sends a user message and streams the reply. fn is called once per
// fragment, in order, from the calling goroutine. A mid-stream failure
// returns a StreamError carrying the text received so far.
func (c *Conversation) Send(ctx context.Context, text string, fn func(fragment string)) error {
	var received strings.Builder
	for resp, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &StreamError{Partial: received.String(), Err: err}
		}
		fragment := resp.Text()
		if fragment == "" {
			continue
		}
		received.WriteString(fragment)
		fn(fragment)
	}
	return nil
}
