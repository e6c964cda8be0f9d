// Package store provides storage backends for MindShift session state.
//
// This file implements the PostgreSQL-backed session store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "embed"

	"github.com/BTreeMap/MindShift/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("PostgresStore: failed to open connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("PostgresStore: ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("PostgresStore: failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgresStore: migrations applied")
	return &PostgresStore{db: db}, nil
}

// SaveSession upserts a session snapshot.
func (s *PostgresStore) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	if rec.SessionID == "" {
		return models.ErrEmptySessionID
	}
	responses, err := json.Marshal(rec.UserResponses)
	if err != nil {
		return fmt.Errorf("failed to marshal user responses: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions
		(session_id, user_id, current_phase, current_step,
		 problem_statement, goal_statement, negative_experience_statement,
		 metadata_json, user_responses_json, start_time, last_activity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id) DO UPDATE SET
		 user_id = EXCLUDED.user_id,
		 current_phase = EXCLUDED.current_phase,
		 current_step = EXCLUDED.current_step,
		 problem_statement = EXCLUDED.problem_statement,
		 goal_statement = EXCLUDED.goal_statement,
		 negative_experience_statement = EXCLUDED.negative_experience_statement,
		 metadata_json = EXCLUDED.metadata_json,
		 user_responses_json = EXCLUDED.user_responses_json,
		 last_activity = EXCLUDED.last_activity`,
		rec.SessionID, rec.UserID, rec.CurrentPhase, rec.CurrentStep,
		rec.ProblemStatement, rec.GoalStatement, rec.NegativeExperienceStatement,
		rec.MetadataJSON, string(responses), rec.StartTime, rec.LastActivity)
	if err != nil {
		slog.Error("PostgresStore.SaveSession: exec failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the snapshot for sessionID, or (nil, nil) if absent.
func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	if sessionID == "" {
		return nil, models.ErrEmptySessionID
	}
	var rec models.SessionRecord
	var responses string
	err := s.db.QueryRowContext(ctx, `SELECT session_id, user_id, current_phase, current_step,
		problem_statement, goal_statement, negative_experience_statement,
		metadata_json, user_responses_json, start_time, last_activity
		FROM sessions WHERE session_id = $1`, sessionID).Scan(
		&rec.SessionID, &rec.UserID, &rec.CurrentPhase, &rec.CurrentStep,
		&rec.ProblemStatement, &rec.GoalStatement, &rec.NegativeExperienceStatement,
		&rec.MetadataJSON, &responses, &rec.StartTime, &rec.LastActivity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore.GetSession: query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if err := json.Unmarshal([]byte(responses), &rec.UserResponses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user responses: %w", err)
	}
	return &rec, nil
}

// DeleteSession removes the snapshot for sessionID.
func (s *PostgresStore) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return models.ErrEmptySessionID
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = $1`, sessionID); err != nil {
		slog.Error("PostgresStore.DeleteSession: exec failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *PostgresStore) Close() error { return s.db.Close() }
