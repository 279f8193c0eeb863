package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/suPer8Hu/ai-assistant/internal/ai"
	"github.com/suPer8Hu/ai-assistant/internal/config"
)

// HistoryCache caches a session's stored messages. Implementations may be
// lossy; the repo stays authoritative.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]Message, bool, error)
	SetHistory(ctx context.Context, sessionID string, msgs []Message) error
	DeleteHistory(ctx context.Context, sessionID string) error
}

// EventPublisher is notified after a message has been stored.
type EventPublisher interface {
	PublishMessage(ctx context.Context, m Message) error
}

type Service struct {
	repo            *Repo
	registry        *ai.Registry
	defaultProvider string
	logger          *slog.Logger
	cache           HistoryCache
	events          EventPublisher
	locks           *sessionLocks
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithHistoryCache(c HistoryCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

const defaultProvider = "ollama"

func NewService(repo *Repo, registry *ai.Registry, provider string, opts ...Option) *Service {
	if provider == "" {
		provider = defaultProvider
	}
	s := &Service{
		repo:            repo,
		registry:        registry,
		defaultProvider: provider,
		logger:          slog.Default(),
		locks:           newSessionLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewConversation starts a conversation bound to the service's provider.
func (s *Service) NewConversation() (*Conversation, error) {
	return NewConversation(s.defaultProvider)
}

// TurnResult is the outcome of one turn. When the runtime failed, Reply holds
// FallbackReply, Fallback is true and Cause wraps ErrRuntimeUnavailable.
type TurnResult struct {
	Reply    string
	Fallback bool
	Cause    error
}

// SessionLookup is Found with the session and its messages, or not found.
type SessionLookup struct {
	Found    bool
	Session  *Session
	Messages []Message
}

// StartNewSession moves conv to a fresh session id with an empty transcript.
// Nothing is stored until the first message.
func (s *Service) StartNewSession(conv *Conversation) error {
	sid, err := NewSessionID()
	if err != nil {
		return err
	}
	conv.SessionID = sid
	conv.Transcript = nil
	return nil
}

// SwitchSession makes sessionID active and replaces the transcript with its
// stored messages. A session with no messages gives an empty transcript.
func (s *Service) SwitchSession(ctx context.Context, conv *Conversation, sessionID string) error {
	msgs, err := s.loadHistory(ctx, sessionID)
	if err != nil {
		return err
	}
	transcript := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		transcript = append(transcript, Turn{Role: m.Role, Content: m.Content})
	}
	conv.SessionID = sessionID
	conv.Transcript = transcript
	return nil
}

// AppendMessage adds a message to the transcript and, when a model is selected,
// stores the session (if new) and the message. Without a model the message
// only lives in memory. A message that fails to store is not added.
func (s *Service) AppendMessage(ctx context.Context, conv *Conversation, role, content string) error {
	unlock := s.locks.Lock(conv.SessionID)
	defer unlock()
	return s.appendMessage(ctx, conv, role, content)
}

// appendMessage expects the caller to hold the session lock.
func (s *Service) appendMessage(ctx context.Context, conv *Conversation, role, content string) error {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return fmt.Errorf("invalid role %q", role)
	}

	if conv.Model != "" {
		if err := s.ensureSession(ctx, conv); err != nil {
			return err
		}
		m := &Message{
			SessionID: conv.SessionID,
			Role:      role,
			Content:   content,
			CreatedAt: time.Now(),
		}
		if err := s.repo.AppendMessage(ctx, m); err != nil {
			return err
		}
		s.afterAppend(ctx, *m)
	}
	conv.Transcript = append(conv.Transcript, Turn{Role: role, Content: content})
	return nil
}

// GenerateTurn runs one prompt/reply turn. It fails only for a missing model or
// a storage error; a runtime failure yields the fallback reply instead.
func (s *Service) GenerateTurn(ctx context.Context, conv *Conversation, prompt, systemPrompt string) (TurnResult, error) {
	if conv.Model == "" {
		return TurnResult{}, ErrNoModelSelected
	}

	unlock := s.locks.Lock(conv.SessionID)
	defer unlock()

	if err := s.appendMessage(ctx, conv, RoleUser, prompt); err != nil {
		return TurnResult{}, err
	}

	msgs := BuildMessages(AugmentSystemPrompt(prompt, systemPrompt), conv.Transcript)
	s.logger.Log(ctx, config.LevelTrace, "runtime request",
		"session_id", conv.SessionID, "model", conv.Model, "messages", msgs)

	start := time.Now()
	reply, err := s.chat(ctx, conv, msgs)
	if err != nil {
		s.logger.Warn("generate turn failed, returning fallback",
			"session_id", conv.SessionID, "model", conv.Model, "cost", time.Since(start), "err", err)
		return TurnResult{
			Reply:    FallbackReply,
			Fallback: true,
			Cause:    fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err),
		}, nil
	}

	if err := s.appendMessage(ctx, conv, RoleAssistant, reply); err != nil {
		return TurnResult{}, err
	}
	s.logger.Debug("turn completed",
		"session_id", conv.SessionID, "model", conv.Model, "messages", len(msgs), "cost", time.Since(start))
	return TurnResult{Reply: reply}, nil
}

// ClearSession drops the transcript and moves conv to a new session id. With a
// model selected the empty session is stored right away.
func (s *Service) ClearSession(ctx context.Context, conv *Conversation) error {
	if err := s.StartNewSession(conv); err != nil {
		return err
	}
	if conv.Model == "" {
		return nil
	}
	return s.ensureSession(ctx, conv)
}

func (s *Service) LookupSession(ctx context.Context, sessionID string) (SessionLookup, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return SessionLookup{}, nil
		}
		return SessionLookup{}, err
	}
	msgs, err := s.loadHistory(ctx, sessionID)
	if err != nil {
		return SessionLookup{}, err
	}
	return SessionLookup{Found: true, Session: sess, Messages: msgs}, nil
}

// ListSessions returns stored sessions newest first, optionally only those
// bound to model.
func (s *Service) ListSessions(ctx context.Context, model string) ([]Session, error) {
	if model != "" {
		return s.repo.ListSessionsByModel(ctx, model)
	}
	return s.repo.ListSessions(ctx)
}

func (s *Service) AddMemory(ctx context.Context, sessionID, label string) (*Memory, error) {
	m := &Memory{SessionID: sessionID, Label: label}
	if err := s.repo.AddMemory(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMemories(ctx context.Context, sessionID string) ([]Memory, error) {
	return s.repo.ListMemories(ctx, sessionID)
}

func (s *Service) chat(ctx context.Context, conv *Conversation, msgs []ai.Message) (string, error) {
	provider := conv.Provider
	if provider == "" {
		provider = s.defaultProvider
	}
	p, err := s.registry.Get(ctx, provider, conv.Model)
	if err != nil {
		return "", err
	}
	return p.Chat(ctx, msgs)
}

func (s *Service) ensureSession(ctx context.Context, conv *Conversation) error {
	provider := conv.Provider
	if provider == "" {
		provider = s.defaultProvider
	}
	created, err := s.repo.UpsertSession(ctx, &Session{
		SessionID: conv.SessionID,
		Provider:  provider,
		Model:     conv.Model,
	})
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("session created", "session_id", conv.SessionID, "model", conv.Model)
	}
	return nil
}

// loadHistory reads through the cache. It holds the session lock so a fill
// cannot land after an append has invalidated the entry.
func (s *Service) loadHistory(ctx context.Context, sessionID string) ([]Message, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if s.cache != nil {
		msgs, hit, err := s.cache.GetHistory(ctx, sessionID)
		if err != nil {
			s.logger.Warn("history cache read failed", "session_id", sessionID, "err", err)
		} else if hit {
			return msgs, nil
		}
	}

	msgs, err := s.repo.LoadMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(msgs) > 0 {
		if err := s.cache.SetHistory(ctx, sessionID, msgs); err != nil {
			s.logger.Warn("history cache write failed", "session_id", sessionID, "err", err)
		}
	}
	return msgs, nil
}

func (s *Service) afterAppend(ctx context.Context, m Message) {
	if s.cache != nil {
		if err := s.cache.DeleteHistory(ctx, m.SessionID); err != nil {
			s.logger.Warn("history cache invalidate failed", "session_id", m.SessionID, "err", err)
		}
	}
	if s.events != nil {
		if err := s.events.PublishMessage(ctx, m); err != nil {
			s.logger.Warn("publish message event failed", "session_id", m.SessionID, "message_id", m.ID, "err", err)
		}
	}
}
