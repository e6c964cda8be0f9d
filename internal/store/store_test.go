package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/BTreeMap/MindShift/internal/models"
)

func sampleRecord(sessionID string) models.SessionRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return models.SessionRecord{
		SessionID:        sessionID,
		UserID:           "u1",
		CurrentPhase:     "problem_shifting",
		CurrentStep:      "problem_shifting_intro",
		ProblemStatement: "I feel stuck in my job",
		MetadataJSON:     `{"work_type":"problem","cycle_count":2}`,
		UserResponses:    map[string]string{"mind_shifting_explanation": "1"},
		StartTime:        now.Add(-10 * time.Minute),
		LastActivity:     now,
	}
}

// exerciseStore runs the shared backend contract against a store.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Missing session: (nil, nil).
	got, err := s.GetSession(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("GetSession(missing) = (%v, %v), want (nil, nil)", got, err)
	}

	rec := sampleRecord("s1")
	if err := s.SaveSession(ctx, rec); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err = s.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession returned nil for saved session")
	}
	if got.ProblemStatement != rec.ProblemStatement ||
		got.CurrentStep != rec.CurrentStep ||
		got.MetadataJSON != rec.MetadataJSON {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if got.UserResponses["mind_shifting_explanation"] != "1" {
		t.Errorf("user responses lost: %+v", got.UserResponses)
	}

	// Save again overwrites.
	rec.CurrentStep = "body_sensation_check"
	if err := s.SaveSession(ctx, rec); err != nil {
		t.Fatalf("SaveSession (update): %v", err)
	}
	got, _ = s.GetSession(ctx, "s1")
	if got.CurrentStep != "body_sensation_check" {
		t.Errorf("update not applied, step = %q", got.CurrentStep)
	}

	if err := s.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	got, err = s.GetSession(ctx, "s1")
	if err != nil || got != nil {
		t.Errorf("GetSession after delete = (%v, %v), want (nil, nil)", got, err)
	}

	// Empty ids are rejected uniformly.
	if err := s.SaveSession(ctx, models.SessionRecord{}); !errors.Is(err, models.ErrEmptySessionID) {
		t.Errorf("SaveSession(empty id) = %v, want ErrEmptySessionID", err)
	}
	if _, err := s.GetSession(ctx, ""); !errors.Is(err, models.ErrEmptySessionID) {
		t.Errorf("GetSession(empty id) = %v, want ErrEmptySessionID", err)
	}
	if err := s.DeleteSession(ctx, ""); !errors.Is(err, models.ErrEmptySessionID) {
		t.Errorf("DeleteSession(empty id) = %v, want ErrEmptySessionID", err)
	}
}

func TestInMemoryStore(t *testing.T) {
	s := NewInMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestInMemoryStoreReturnsCopy(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	rec := sampleRecord("s1")
	if err := s.SaveSession(ctx, rec); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	got, _ := s.GetSession(ctx, "s1")
	got.ProblemStatement = "mutated"

	again, _ := s.GetSession(ctx, "s1")
	if again.ProblemStatement != rec.ProblemStatement {
		t.Error("mutating a returned record should not affect the store")
	}
}

func TestSQLiteStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "sessions.db")
	s, err := NewSQLiteStore(WithDSN(dsn))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreRequiresDSN(t *testing.T) {
	if _, err := NewSQLiteStore(); err == nil {
		t.Error("NewSQLiteStore without DSN should fail")
	}
}

func TestPostgresStoreRequiresDSN(t *testing.T) {
	if _, err := NewPostgresStore(); err == nil {
		t.Error("NewPostgresStore without DSN should fail")
	}
}
