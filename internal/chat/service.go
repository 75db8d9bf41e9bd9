package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/identity"
	"github.com/ashureev/panelboard/internal/store"
)

// Limiter decides whether a session may submit another message.
type Limiter interface {
	Allow(key string) bool
}

// Service loads and extends session chat logs.
type Service struct {
	repo    store.Repository
	limiter Limiter
	now     func() time.Time
}

// NewService creates a chat service. limiter may be nil to disable throttling.
func NewService(repo store.Repository, limiter Limiter) *Service {
	return &Service{repo: repo, limiter: limiter, now: time.Now}
}

// History returns the stored chat log of a session, possibly empty.
func (s *Service) History(ctx context.Context, key string) (domain.ChatHistory, error) {
	sess, err := s.repo.GetSession(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	return sess.Messages, nil
}

// Save appends msgs to a session's chat log and returns the full log.
func (s *Service) Save(ctx context.Context, key string, msgs ...domain.ChatMessage) (domain.ChatHistory, error) {
	if len(msgs) == 0 {
		return s.History(ctx, key)
	}
	h, err := s.repo.AppendMessages(ctx, key, msgs...)
	if errors.Is(err, store.ErrSessionNotFound) {
		h, err = s.recreate(ctx, key, msgs)
	}
	if err != nil {
		return nil, fmt.Errorf("append messages: %w", err)
	}
	return h, nil
}

// recreate restores a session the sweeper removed after this request touched it.
// The new log starts with the greeting like any other.
func (s *Service) recreate(ctx context.Context, key string, msgs []domain.ChatMessage) (domain.ChatHistory, error) {
	now := s.now()
	slog.InfoContext(ctx, "Session expired mid-request, recreating", "session_key", key)

	if err := s.repo.TouchSession(ctx, key, identity.UserIDFromContext(ctx), now); err != nil {
		return nil, fmt.Errorf("recreate session: %w", err)
	}
	if first := msgs[0]; first.Role != domain.RoleAssistant || first.Content != Greeting {
		msgs = append(Seed(nil, now), msgs...)
	}
	return s.repo.AppendMessages(ctx, key, msgs...)
}

// Allow reports whether key may submit now.
func (s *Service) Allow(key string) bool {
	return s.limiter == nil || s.limiter.Allow(key)
}

// Start seeds the greeting when the session has no history yet.
func (s *Service) Start(ctx context.Context, key string) (domain.ChatHistory, error) {
	h, err := s.History(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, key, Seed(h, s.now())...)
}

// Submit records text and its reply. It returns the entries added by this call
// (the greeting too, for a new session) and the resulting history.
func (s *Service) Submit(ctx context.Context, key, text string) ([]domain.ChatMessage, domain.ChatHistory, error) {
	now := s.now()
	exchange, err := Exchange(text, now)
	if err != nil {
		return nil, nil, err
	}
	if !s.Allow(key) {
		return nil, nil, ErrRateLimited
	}

	h, err := s.History(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	added := append(Seed(h, now), exchange...)

	h, err = s.Save(ctx, key, added...)
	if err != nil {
		return nil, nil, err
	}
	return added, h, nil
}
