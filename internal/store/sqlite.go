package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned when appending to a session that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // serializes chat log read-modify-write to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_key TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		messages_json TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		last_seen_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var sess domain.Session
	var messagesJSON string
	var createdAt, lastSeen int64

	if err := row.Scan(&sess.Key, &sess.UserID, &messagesJSON, &createdAt, &lastSeen); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(messagesJSON), &sess.Messages); err != nil {
		return nil, fmt.Errorf("decode messages for %s: %w", sess.Key, err)
	}
	sess.CreatedAt = time.UnixMilli(createdAt)
	sess.LastSeenAt = time.UnixMilli(lastSeen)
	return &sess, nil
}

// GetSession retrieves a session by key.
func (s *SQLiteStore) GetSession(ctx context.Context, key string) (*domain.Session, error) {
	query := `
		SELECT session_key, user_id, messages_json, created_at, last_seen_at
		FROM sessions WHERE session_key = ?`

	sess, err := scanSession(s.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	return sess, nil
}

// TouchSession creates the session on first access and refreshes last_seen_at.
func (s *SQLiteStore) TouchSession(ctx context.Context, key, userID string, now time.Time) error {
	query := `
	INSERT INTO sessions (session_key, user_id, messages_json, created_at, last_seen_at)
	VALUES (?, ?, '[]', ?, ?)
	ON CONFLICT(session_key) DO UPDATE SET
		last_seen_at = excluded.last_seen_at`

	return withRetry(ctx, "touch session", func() error {
		_, err := s.db.ExecContext(ctx, query, key, userID, now.UnixMilli(), now.UnixMilli())
		if err != nil {
			return fmt.Errorf("upsert session: %w", err)
		}
		return nil
	})
}

// AppendMessages adds messages to the end of a session's chat log.
func (s *SQLiteStore) AppendMessages(ctx context.Context, key string, msgs ...domain.ChatMessage) (domain.ChatHistory, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var out domain.ChatHistory
	err := withRetry(ctx, "append messages", func() error {
		history, err := s.appendOnce(ctx, key, msgs)
		if err != nil {
			return err
		}
		out = history
		return nil
	})
	return out, err
}

func (s *SQLiteStore) appendOnce(ctx context.Context, key string, msgs []domain.ChatMessage) (history domain.ChatHistory, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.Warn("Failed to roll back append", "session_key", key, "error", rbErr)
			}
		}
	}()

	var messagesJSON string
	err = tx.QueryRowContext(ctx, `SELECT messages_json FROM sessions WHERE session_key = ?`, key).Scan(&messagesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	var existing domain.ChatHistory
	if err = json.Unmarshal([]byte(messagesJSON), &existing); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	history = existing.Append(msgs...)

	encoded, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE sessions SET messages_json = ?, last_seen_at = ? WHERE session_key = ?`,
		string(encoded), time.Now().UnixMilli(), key,
	); err != nil {
		return nil, fmt.Errorf("write messages: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return history, nil
}

// GetExpiredSessions returns sessions idle for longer than ttl.
func (s *SQLiteStore) GetExpiredSessions(ctx context.Context, ttl time.Duration) ([]*domain.Session, error) {
	threshold := time.Now().Add(-ttl).UnixMilli()
	query := `
		SELECT session_key, user_id, messages_json, created_at, last_seen_at
		FROM sessions WHERE last_seen_at < ?`

	rows, err := s.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("query expired sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close expired sessions rows", "error", closeErr)
		}
	}()

	var sessions []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired session row: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired sessions: %w", err)
	}

	return sessions, nil
}

// DeleteSession removes a session and its chat log.
func (s *SQLiteStore) DeleteSession(ctx context.Context, key string) error {
	return withRetry(ctx, "delete session", func() error {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_key = ?`, key); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}
