// Package store provides session persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
)

// Repository defines the interface for persisting client sessions and their chat logs.
type Repository interface {
	// GetSession retrieves a session by key. Returns nil, nil when absent.
	GetSession(ctx context.Context, key string) (*domain.Session, error)

	// TouchSession creates the session on first access and refreshes last_seen_at.
	TouchSession(ctx context.Context, key, userID string, now time.Time) error

	// AppendMessages adds messages to the end of a session's chat log.
	// Existing messages are never rewritten.
	AppendMessages(ctx context.Context, key string, msgs ...domain.ChatMessage) (domain.ChatHistory, error)

	// GetExpiredSessions returns sessions idle for longer than ttl.
	GetExpiredSessions(ctx context.Context, ttl time.Duration) ([]*domain.Session, error)

	// DeleteSession removes a session and its chat log.
	DeleteSession(ctx context.Context, key string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
