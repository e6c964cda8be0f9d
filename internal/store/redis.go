// Package store provides storage backends for MindShift session state.
//
// This file implements the Redis-backed session store. Sessions are kept as
// JSON blobs under a fixed key prefix with an optional idle TTL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BTreeMap/MindShift/internal/models"
)

const sessionKeyPrefix = "mindshift:session:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis store from a connection URL DSN.
func NewRedisStore(opts ...Option) (*RedisStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewRedisStore invoked", "DSN_set", cfg.DSN != "", "ttl", cfg.TTL)

	if cfg.DSN == "" {
		slog.Error("RedisStore DSN not set")
		return nil, fmt.Errorf("redis DSN not set")
	}
	redisOpts, err := redis.ParseURL(cfg.DSN)
	if err != nil {
		slog.Error("RedisStore: invalid DSN", "error", err)
		return nil, fmt.Errorf("failed to parse redis DSN: %w", err)
	}
	client := redis.NewClient(redisOpts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Error("RedisStore: ping failed", "error", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// NewRedisStoreFromClient wraps an existing client. Used in tests.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// SaveSession stores a session snapshot as a JSON blob, refreshing the TTL.
func (s *RedisStore) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	if rec.SessionID == "" {
		return models.ErrEmptySessionID
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(rec.SessionID), data, s.ttl).Err(); err != nil {
		slog.Error("RedisStore.SaveSession: set failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the snapshot for sessionID, or (nil, nil) if absent.
func (s *RedisStore) GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	if sessionID == "" {
		return nil, models.ErrEmptySessionID
	}
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Error("RedisStore.GetSession: get failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var rec models.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &rec, nil
}

// DeleteSession removes the snapshot for sessionID.
func (s *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return models.ErrEmptySessionID
	}
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		slog.Error("RedisStore.DeleteSession: del failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }
