// Package store provides storage backends for MindShift session state.
//
// Backends persist SessionRecord snapshots so a session can be rehydrated
// after a process restart. SQLite, PostgreSQL, Redis and an in-memory store
// are available.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/BTreeMap/MindShift/internal/models"
)

// Store persists session snapshots. GetSession returns (nil, nil) when the
// session does not exist.
type Store interface {
	SaveSession(ctx context.Context, rec models.SessionRecord) error
	GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	// DSN is the backend connection string: a file path for SQLite, a
	// connection URL for PostgreSQL or Redis.
	DSN string
	// TTL bounds how long an idle session snapshot is kept, for backends
	// that support expiry. Zero means no expiry.
	TTL time.Duration
}

// Option configures a store backend.
type Option func(*Opts)

// WithDSN sets the backend connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithTTL sets the idle-session expiry for backends that support it.
func WithTTL(ttl time.Duration) Option {
	return func(o *Opts) { o.TTL = ttl }
}

// InMemoryStore keeps session snapshots in a map. Used in tests and when no
// persistence backend is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.SessionRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]models.SessionRecord)}
}

// SaveSession stores or replaces a session snapshot.
func (s *InMemoryStore) SaveSession(_ context.Context, rec models.SessionRecord) error {
	if rec.SessionID == "" {
		return models.ErrEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[rec.SessionID] = rec
	return nil
}

// GetSession returns the snapshot for sessionID, or (nil, nil) if absent.
func (s *InMemoryStore) GetSession(_ context.Context, sessionID string) (*models.SessionRecord, error) {
	if sessionID == "" {
		return nil, models.ErrEmptySessionID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

// DeleteSession removes the snapshot for sessionID. Deleting a missing
// session is not an error.
func (s *InMemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return models.ErrEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
