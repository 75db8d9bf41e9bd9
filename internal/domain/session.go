package domain

import (
	"time"
)

// Session is the state scope of one connected client. It persists across
// render passes until it expires.
type Session struct {
	Key        string      `json:"key"`
	UserID     string      `json:"user_id"`
	Messages   ChatHistory `json:"messages"`
	CreatedAt  time.Time   `json:"created_at"`
	LastSeenAt time.Time   `json:"last_seen_at"`
}

// ExpiresIn returns the time until the session expires.
// Returns 0 if the session has already expired.
func (s *Session) ExpiresIn(ttl time.Duration) time.Duration {
	remaining := time.Until(s.LastSeenAt.Add(ttl))
	if remaining < 0 {
		return 0
	}
	return remaining
}
