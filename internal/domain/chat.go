package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single entry in a session's chat log.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChatMessage creates a message with a fresh ID.
func NewChatMessage(role Role, content string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
}

// ChatHistory is an ordered, append-only chat log, oldest first.
type ChatHistory []ChatMessage

// Append returns the history with msgs added at the end.
// Existing entries are never modified or removed.
func (h ChatHistory) Append(msgs ...ChatMessage) ChatHistory {
	out := make(ChatHistory, 0, len(h)+len(msgs))
	out = append(out, h...)
	return append(out, msgs...)
}

// Started reports whether the history has been seeded.
func (h ChatHistory) Started() bool {
	return len(h) > 0
}
