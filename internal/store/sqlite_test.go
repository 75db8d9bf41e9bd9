package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func contents(h domain.ChatHistory) []string {
	out := make([]string, len(h))
	for i, m := range h {
		out[i] = string(m.Role) + ":" + m.Content
	}
	return out
}

func TestGetSessionMissing(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.GetSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestTouchSessionCreatesOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := time.Now().Add(-time.Minute)

	require.NoError(t, s.TouchSession(ctx, "u:tab", "u", first))
	_, err := s.AppendMessages(ctx, "u:tab", domain.NewChatMessage(domain.RoleAssistant, "hello", first))
	require.NoError(t, err)

	later := time.Now()
	require.NoError(t, s.TouchSession(ctx, "u:tab", "u", later))

	sess, err := s.GetSession(ctx, "u:tab")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u", sess.UserID)
	assert.Len(t, sess.Messages, 1, "touch must not reset the chat log")
	assert.Equal(t, first.UnixMilli(), sess.CreatedAt.UnixMilli())
}

func TestAppendMessagesPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.TouchSession(ctx, "k", "u", now))

	_, err := s.AppendMessages(ctx, "k", domain.NewChatMessage(domain.RoleAssistant, "greeting", now))
	require.NoError(t, err)
	_, err = s.AppendMessages(ctx, "k",
		domain.NewChatMessage(domain.RoleUser, "one", now),
		domain.NewChatMessage(domain.RoleAssistant, "ONE", now),
	)
	require.NoError(t, err)
	history, err := s.AppendMessages(ctx, "k",
		domain.NewChatMessage(domain.RoleUser, "two", now),
		domain.NewChatMessage(domain.RoleAssistant, "TWO", now),
	)
	require.NoError(t, err)

	want := []string{"assistant:greeting", "user:one", "assistant:ONE", "user:two", "assistant:TWO"}
	if diff := cmp.Diff(want, contents(history)); diff != "" {
		t.Fatalf("returned history mismatch (-want +got):\n%s", diff)
	}

	sess, err := s.GetSession(ctx, "k")
	require.NoError(t, err)
	if diff := cmp.Diff(want, contents(sess.Messages)); diff != "" {
		t.Fatalf("stored history mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendMessagesUnknownSession(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AppendMessages(context.Background(), "ghost", domain.NewChatMessage(domain.RoleUser, "x", time.Now()))
	assert.True(t, errors.Is(err, ErrSessionNotFound), "got %v", err)
}

func TestAppendMessagesConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.TouchSession(ctx, "k", "u", time.Now()))

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AppendMessages(ctx, "k",
				domain.NewChatMessage(domain.RoleUser, "q", time.Now()),
				domain.NewChatMessage(domain.RoleAssistant, "Q", time.Now()),
			)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := s.GetSession(ctx, "k")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2*writers)
	for i := 0; i < len(sess.Messages); i += 2 {
		assert.Equal(t, domain.RoleUser, sess.Messages[i].Role)
		assert.Equal(t, domain.RoleAssistant, sess.Messages[i+1].Role)
	}
}

func TestSweepExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.TouchSession(ctx, "old", "u1", time.Now().Add(-2*time.Hour)))
	require.NoError(t, s.TouchSession(ctx, "fresh", "u2", time.Now()))

	var cleaned []string
	removed := SweepExpired(ctx, s, time.Hour, func(key string) { cleaned = append(cleaned, key) })

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"old"}, cleaned)

	gone, err := s.GetSession(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := s.GetSession(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestIsConflictError(t *testing.T) {
	assert.False(t, IsConflictError(nil))
	assert.True(t, IsConflictError(errors.New("SQLITE_BUSY: busy")))
	assert.True(t, IsConflictError(errors.New("database is locked")))
	assert.False(t, IsConflictError(errors.New("no such table")))
}

func TestWithRetryGivesUpOnConflict(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "op", func() error {
		calls++
		return errors.New("database is locked")
	})
	assert.Error(t, err)
	assert.Equal(t, maxRetries, calls)
}

func TestWithRetryStopsOnOtherErrors(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "op", func() error {
		calls++
		return errors.New("constraint failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
