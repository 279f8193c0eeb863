package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/ai-assistant/internal/chat"
)

const defaultHistoryTTL = 60 * time.Second

// Store caches session message history in Redis as JSON.
type Store struct {
	client     *redis.Client
	historyTTL time.Duration
}

// New dials Redis and checks the connection with a ping.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}
	return client, nil
}

func NewStore(client *redis.Client, historyTTL time.Duration) *Store {
	if historyTTL <= 0 {
		historyTTL = defaultHistoryTTL
	}
	return &Store{client: client, historyTTL: historyTTL}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) GetHistory(ctx context.Context, sessionID string) ([]chat.Message, bool, error) {
	raw, err := s.client.Get(ctx, historyKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var msgs []chat.Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return msgs, true, nil
}

func (s *Store) SetHistory(ctx context.Context, sessionID string, msgs []chat.Message) error {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := s.client.Set(ctx, historyKey(sessionID), payload, s.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (s *Store) DeleteHistory(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func historyKey(sessionID string) string {
	return "chat:history:" + sessionID
}
