// Package chat implements the simulated assistant: the deterministic responder,
// session-backed history, and the websocket transport.
package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/ui"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Greeting seeds every new chat history.
	Greeting = "Hello! I'm your EC2-based AI assistant."
	// ReplyPrefix starts every assistant reply.
	ReplyPrefix = "Echo (from private EC2): "
	// Placeholder is the prompt box hint.
	Placeholder = "Say something"
)

var (
	// ErrBlankInput is returned for submissions with no visible characters.
	ErrBlankInput = errors.New("blank input")
	// ErrRateLimited is returned when a session submits too quickly.
	ErrRateLimited = errors.New("too many messages, slow down")
)

// Respond returns the assistant reply for s. It is a pure function of s.
func Respond(s string) string {
	// A Caser keeps state between calls and must not be shared.
	return ReplyPrefix + cases.Upper(language.Und).String(s)
}

// Seed returns the greeting to prepend when h has not been started yet.
func Seed(h domain.ChatHistory, now time.Time) []domain.ChatMessage {
	if h.Started() {
		return nil
	}
	return []domain.ChatMessage{domain.NewChatMessage(domain.RoleAssistant, Greeting, now)}
}

// Exchange builds the user entry for text and the assistant reply to it.
func Exchange(text string, now time.Time) ([]domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankInput
	}
	return []domain.ChatMessage{
		domain.NewChatMessage(domain.RoleUser, text, now),
		domain.NewChatMessage(domain.RoleAssistant, Respond(text), now),
	}, nil
}

// MessageNodes renders messages as chat log entries, oldest first.
func MessageNodes(msgs []domain.ChatMessage) []ui.Node {
	nodes := make([]ui.Node, 0, len(msgs))
	for _, m := range msgs {
		nodes = append(nodes, ui.ChatMessage(m.ID, string(m.Role), m.Content))
	}
	return nodes
}
