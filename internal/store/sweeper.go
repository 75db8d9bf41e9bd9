package store

import (
	"context"
	"log/slog"
	"time"
)

// CleanupCallback is called for each session removed by the sweeper.
type CleanupCallback func(sessionKey string)

// StartSweeper runs a background goroutine that periodically deletes sessions
// idle for longer than ttl. Deleting a session destroys its chat log.
func StartSweeper(ctx context.Context, repo Repository, interval, ttl time.Duration, onCleanup CleanupCallback) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				SweepExpired(ctx, repo, ttl, onCleanup)
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// SweepExpired deletes every expired session once and returns how many were removed.
func SweepExpired(ctx context.Context, repo Repository, ttl time.Duration, onCleanup CleanupCallback) int {
	expired, err := repo.GetExpiredSessions(ctx, ttl)
	if err != nil {
		slog.Error("Sweeper failed to get expired sessions", "error", err)
		return 0
	}
	if len(expired) == 0 {
		return 0
	}

	slog.Info("Sweeper found expired sessions", "count", len(expired))

	removed := 0
	for _, sess := range expired {
		if err := repo.DeleteSession(ctx, sess.Key); err != nil {
			slog.Warn("Sweeper failed to delete session", "error", err, "session_key", sess.Key)
			continue
		}
		removed++
		if onCleanup != nil {
			onCleanup(sess.Key)
		}
	}

	slog.Info("Sweeper cleanup completed", "removed", removed)
	return removed
}
