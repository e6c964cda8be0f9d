// Package store provides storage backends for MindShift session state.
//
// This file implements the SQLite-backed session store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/BTreeMap/MindShift/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path to the database file; missing directories are created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("SQLiteStore: failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("SQLiteStore: failed to open connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLiteStore: ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("SQLiteStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLiteStore: migrations applied")
	return &SQLiteStore{db: db}, nil
}

// SaveSession inserts or replaces a session snapshot.
func (s *SQLiteStore) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	if rec.SessionID == "" {
		return models.ErrEmptySessionID
	}
	responses, err := json.Marshal(rec.UserResponses)
	if err != nil {
		return fmt.Errorf("failed to marshal user responses: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO sessions
		(session_id, user_id, current_phase, current_step,
		 problem_statement, goal_statement, negative_experience_statement,
		 metadata_json, user_responses_json, start_time, last_activity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.UserID, rec.CurrentPhase, rec.CurrentStep,
		rec.ProblemStatement, rec.GoalStatement, rec.NegativeExperienceStatement,
		rec.MetadataJSON, string(responses), rec.StartTime, rec.LastActivity)
	if err != nil {
		slog.Error("SQLiteStore.SaveSession: exec failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the snapshot for sessionID, or (nil, nil) if absent.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	if sessionID == "" {
		return nil, models.ErrEmptySessionID
	}
	var rec models.SessionRecord
	var responses string
	err := s.db.QueryRowContext(ctx, `SELECT session_id, user_id, current_phase, current_step,
		problem_statement, goal_statement, negative_experience_statement,
		metadata_json, user_responses_json, start_time, last_activity
		FROM sessions WHERE session_id = ?`, sessionID).Scan(
		&rec.SessionID, &rec.UserID, &rec.CurrentPhase, &rec.CurrentStep,
		&rec.ProblemStatement, &rec.GoalStatement, &rec.NegativeExperienceStatement,
		&rec.MetadataJSON, &responses, &rec.StartTime, &rec.LastActivity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore.GetSession: query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if err := json.Unmarshal([]byte(responses), &rec.UserResponses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user responses: %w", err)
	}
	return &rec, nil
}

// DeleteSession removes the snapshot for sessionID.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return models.ErrEmptySessionID
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		slog.Error("SQLiteStore.DeleteSession: exec failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
