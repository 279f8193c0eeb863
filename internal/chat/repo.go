package chat

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// UpsertSession inserts s unless its session id already exists. A duplicate is
// not an error; created reports whether a row was written.
func (r *Repo) UpsertSession(ctx context.Context, s *Session) (created bool, err error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(s)
	if res.Error != nil {
		return false, fmt.Errorf("upsert session: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// ListSessions returns sessions newest first.
func (r *Repo) ListSessions(ctx context.Context) ([]Session, error) {
	sessions := []Session{}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (r *Repo) ListSessionsByModel(ctx context.Context, model string) ([]Session, error) {
	sessions := []Session{}
	if err := r.db.WithContext(ctx).
		Where("model = ?", model).
		Order("created_at DESC").Order("id DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions by model: %w", err)
	}
	return sessions, nil
}

func (r *Repo) AppendMessage(ctx context.Context, m *Message) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// LoadMessages returns a session's messages oldest first. Unknown sessions and
// sessions without messages both yield an empty slice.
func (r *Repo) LoadMessages(ctx context.Context, sessionID string) ([]Message, error) {
	msgs := []Message{}
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return msgs, nil
}

func (r *Repo) AddMemory(ctx context.Context, m *Memory) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("add memory: %w", err)
	}
	return nil
}

// ListMemories returns memories oldest first, restricted to sessionID when it
// is non-empty.
func (r *Repo) ListMemories(ctx context.Context, sessionID string) ([]Memory, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}
	memories := []Memory{}
	if err := q.Find(&memories).Error; err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return memories, nil
}
