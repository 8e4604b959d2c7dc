// Package domain contains core domain types for the KrishiMitra backend.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser is a message written by the farmer.
	RoleUser Role = "user"
	// RoleAssistant is a message produced by the assistant pipeline.
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single conversation turn. Messages are immutable once
// created; sessions only ever grow by appending.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh id and the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ChatSession is the ordered conversation state for one chat interaction.
// A session is tied to exactly one language at a time; the language selects
// reply language and canned-text variants.
type ChatSession struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	Language string    `json:"language"`
}

// NewChatSession creates an empty session in the given language.
func NewChatSession(language string) *ChatSession {
	return &ChatSession{
		ID:       uuid.NewString(),
		Messages: []Message{},
		Language: language,
	}
}

// Append returns a copy of the session with one more message. The receiver
// is not modified, so callers holding the old value never observe a
// partially updated message list.
func (s *ChatSession) Append(msg Message) *ChatSession {
	messages := make([]Message, 0, len(s.Messages)+1)
	messages = append(messages, s.Messages...)
	messages = append(messages, msg)
	return &ChatSession{
		ID:       s.ID,
		Messages: messages,
		Language: s.Language,
	}
}

// WithLanguage returns a copy of the session with the language replaced.
func (s *ChatSession) WithLanguage(language string) *ChatSession {
	messages := make([]Message, len(s.Messages))
	copy(messages, s.Messages)
	return &ChatSession{
		ID:       s.ID,
		Messages: messages,
		Language: language,
	}
}

// Recent returns the last n messages in order. If the session holds fewer
// than n messages the whole list is returned.
func (s *ChatSession) Recent(n int) []Message {
	if n >= len(s.Messages) {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
