package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BTreeMap/MindShift/internal/metrics"
	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/script"
	"github.com/BTreeMap/MindShift/internal/store"
)

// Engine is the session-facing facade of the dialogue system. It owns every
// live SessionContext and serializes all processing per session, so step
// handlers never see concurrent access to one session.
type Engine struct {
	registry  *script.Registry
	validator *Validator
	router    *Router
	gateway   Gateway
	store     store.Store

	mu       sync.Mutex
	sessions map[string]*models.SessionContext
	locks    map[string]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets the persistence backend for session snapshots.
func WithStore(s store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithGateway sets the assistance gateway.
func WithGateway(g Gateway) Option {
	return func(e *Engine) { e.gateway = g }
}

// NewEngine creates an engine over the scripted phases. Defaults to an
// in-memory store and a provider-less gateway.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry:  script.NewRegistry(),
		validator: NewValidator(),
		gateway:   NewAssistanceGateway(nil),
		store:     store.NewInMemoryStore(),
		sessions:  make(map[string]*models.SessionContext),
		locks:     make(map[string]*sync.Mutex),
	}
	e.router = NewRouter(e.registry)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// sessionLock returns the per-session mutex, creating it on first use.
func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[sessionID] = l
	}
	return l
}

// ProcessInput handles one user message for a session and returns the next
// scripted response. The literal input "start" opens a new session (or
// re-renders the current question of an existing one).
func (e *Engine) ProcessInput(ctx context.Context, sessionID, userID, input string) (*models.ProcessingResult, error) {
	if sessionID == "" {
		return nil, models.ErrEmptySessionID
	}
	started := time.Now()
	defer func() { metrics.ProcessingDuration.Observe(time.Since(started).Seconds()) }()
	metrics.InputsProcessed.Inc()

	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sc, created, err := e.loadOrCreate(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	step, err := e.registry.GetStep(sc.CurrentPhase, sc.CurrentStep)
	if err != nil {
		slog.Error("Engine.ProcessInput: session points at unknown step",
			"sessionID", sessionID, "phase", sc.CurrentPhase, "step", sc.CurrentStep, "error", err)
		return nil, fmt.Errorf("session %s is in an invalid state: %w", sessionID, err)
	}

	// The start sentinel never advances: it (re)issues the current question.
	// Templates that quote the previous answer get the last recorded one, so
	// a resumed or restarted session re-asks the question it was on verbatim.
	if strings.EqualFold(strings.TrimSpace(input), models.StartSentinel) {
		if created {
			metrics.SessionsStarted.Inc()
			slog.Info("Engine.ProcessInput: session started", "sessionID", sessionID, "userID", userID)
		}
		e.persist(ctx, sc)
		return &models.ProcessingResult{
			CanContinue:      true,
			NextStep:         step.ID,
			ScriptedResponse: RenderStep(step, sc, sc.Metadata.LastAnswer),
			Usage:            e.usage(sc),
		}, nil
	}

	if res := e.validator.Validate(input, step, sc); !res.OK {
		return e.handleInvalid(ctx, sc, step, input, res), nil
	}

	sc.RecordResponse(step.ID, input)
	sig := models.SignalNone
	if step.Process != nil {
		sig = step.Process(input, sc)
	}

	next, err := e.router.Next(step, sig, sc)
	if err != nil {
		return nil, err
	}
	sc.CurrentPhase = next.Phase
	sc.CurrentStep = next.Step

	nextStep, err := e.registry.GetStep(next.Phase, next.Step)
	if err != nil {
		return nil, fmt.Errorf("routed to unknown step: %w", err)
	}

	response := RenderStep(nextStep, sc, input)
	if script.ContextualizedSteps[nextStep.ID] {
		response = e.gateway.Contextualize(ctx, sc, nextStep.ID, response, input)
	}

	complete := nextStep.ID == script.StepSessionComplete
	if complete && step.ID != script.StepSessionComplete {
		metrics.SessionsCompleted.Inc()
		slog.Info("Engine.ProcessInput: session complete", "sessionID", sessionID)
	}

	e.persist(ctx, sc)
	return &models.ProcessingResult{
		CanContinue:      true,
		NextStep:         nextStep.ID,
		ScriptedResponse: response,
		SessionComplete:  complete,
		Usage:            e.usage(sc),
	}, nil
}

// handleInvalid turns a failed validation into a corrective or escalated
// reply. The session stays on the same step.
func (e *Engine) handleInvalid(ctx context.Context, sc *models.SessionContext, step *models.Step, input string, res models.ValidationResult) *models.ProcessingResult {
	metrics.ValidationFailures.WithLabelValues(string(res.Kind)).Inc()
	out := &models.ProcessingResult{
		CanContinue: false,
		NextStep:    step.ID,
		Reason:      string(res.Kind),
		Usage:       e.usage(sc),
	}

	if res.Kind == models.ValidationNeedsAI {
		out.ScriptedResponse = e.gateway.CorrectiveMessage(res.SubKind, input)
		out.Reason = string(res.SubKind)
		e.persist(ctx, sc)
		return out
	}

	if trigger, ok := matchTrigger(step, input); ok {
		out.ScriptedResponse = e.gateway.Escalate(ctx, sc, trigger, input)
		out.NeedsAssistance = &models.AssistanceNeed{
			Trigger:        strings.Join(trigger.Phrases, ", "),
			ContextSummary: trigger.Context,
			UserInput:      input,
		}
		e.persist(ctx, sc)
		return out
	}

	out.ScriptedResponse = res.ErrorMessage
	return out
}

// matchTrigger reports whether the input contains one of the step's
// escalation phrases.
func matchTrigger(step *models.Step, input string) (models.AssistanceTrigger, bool) {
	lower := strings.ToLower(input)
	for _, t := range step.AssistanceTriggers {
		for _, phrase := range t.Phrases {
			if strings.Contains(lower, phrase) {
				return t, true
			}
		}
	}
	return models.AssistanceTrigger{}, false
}

// loadOrCreate returns the live context for sessionID, rehydrating from the
// store or creating a fresh session positioned at the opening step.
func (e *Engine) loadOrCreate(ctx context.Context, sessionID, userID string) (*models.SessionContext, bool, error) {
	e.mu.Lock()
	sc, ok := e.sessions[sessionID]
	e.mu.Unlock()
	if ok {
		return sc, false, nil
	}

	rec, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if rec != nil {
		sc, err = recordToContext(rec)
		if err != nil {
			return nil, false, fmt.Errorf("failed to rehydrate session %s: %w", sessionID, err)
		}
		slog.Info("Engine.loadOrCreate: session rehydrated",
			"sessionID", sessionID, "phase", sc.CurrentPhase, "step", sc.CurrentStep)
	} else {
		sc = models.NewSessionContext(sessionID, userID, script.OpeningPhase, script.OpeningStep)
	}

	e.mu.Lock()
	e.sessions[sessionID] = sc
	e.mu.Unlock()
	return sc, rec == nil, nil
}

// GetSession returns a copy of the live or persisted context, or
// ErrSessionNotFound. The per-session lock is held while copying so a
// concurrent ProcessInput never shows a half-applied transition.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*models.SessionContext, error) {
	if sessionID == "" {
		return nil, models.ErrEmptySessionID
	}
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	sc, ok := e.sessions[sessionID]
	e.mu.Unlock()
	if ok {
		return sc.Clone(), nil
	}
	rec, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrSessionNotFound
	}
	return recordToContext(rec)
}

// ResetSession discards all state for a session, in memory and in the store.
func (e *Engine) ResetSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return models.ErrEmptySessionID
	}
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	if err := e.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	slog.Info("Engine.ResetSession: session reset", "sessionID", sessionID)
	return nil
}

// PruneIdleSessions evicts in-memory sessions whose last activity is older
// than maxIdle and returns how many were dropped. Persisted snapshots are
// kept, so an evicted session rehydrates on its next input. Lock entries are
// kept too: a request may still hold one, and dropping it would let a second
// mutex serve the same session.
func (e *Engine) PruneIdleSessions(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	e.mu.Lock()
	defer e.mu.Unlock()
	pruned := 0
	for id, sc := range e.sessions {
		if sc.LastActivity.Before(cutoff) {
			delete(e.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		slog.Info("Engine.PruneIdleSessions: evicted idle sessions", "count", pruned, "maxIdle", maxIdle)
	}
	return pruned
}

// persist snapshots the session best-effort; a store failure is logged and
// the in-memory session keeps going.
func (e *Engine) persist(ctx context.Context, sc *models.SessionContext) {
	rec, err := contextToRecord(sc)
	if err != nil {
		slog.Error("Engine.persist: failed to encode session", "sessionID", sc.SessionID, "error", err)
		return
	}
	if err := e.store.SaveSession(ctx, rec); err != nil {
		slog.Error("Engine.persist: failed to save session", "sessionID", sc.SessionID, "error", err)
	}
}

func (e *Engine) usage(sc *models.SessionContext) *models.AssistanceUsage {
	return &models.AssistanceUsage{
		Calls:         sc.Metadata.AssistanceCalls,
		EstimatedCost: sc.Metadata.AssistanceCost,
	}
}

// contextToRecord flattens a live context into its persistence shape.
func contextToRecord(sc *models.SessionContext) (models.SessionRecord, error) {
	meta, err := json.Marshal(sc.Metadata)
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("failed to marshal session metadata: %w", err)
	}
	return models.SessionRecord{
		SessionID:                   sc.SessionID,
		UserID:                      sc.UserID,
		CurrentPhase:                string(sc.CurrentPhase),
		CurrentStep:                 sc.CurrentStep,
		ProblemStatement:            sc.ProblemStatement,
		GoalStatement:               sc.GoalStatement,
		NegativeExperienceStatement: sc.NegativeExperienceStatement,
		MetadataJSON:                string(meta),
		UserResponses:               sc.UserResponses,
		StartTime:                   sc.StartTime,
		LastActivity:                sc.LastActivity,
	}, nil
}

// recordToContext rebuilds a live context from a stored snapshot.
func recordToContext(rec *models.SessionRecord) (*models.SessionContext, error) {
	sc := &models.SessionContext{
		SessionID:                   rec.SessionID,
		UserID:                      rec.UserID,
		CurrentPhase:                models.PhaseName(rec.CurrentPhase),
		CurrentStep:                 rec.CurrentStep,
		ProblemStatement:            rec.ProblemStatement,
		GoalStatement:               rec.GoalStatement,
		NegativeExperienceStatement: rec.NegativeExperienceStatement,
		UserResponses:               rec.UserResponses,
		StartTime:                   rec.StartTime,
		LastActivity:                rec.LastActivity,
	}
	if sc.UserResponses == nil {
		sc.UserResponses = make(map[string]string)
	}
	if rec.MetadataJSON != "" {
		if err := json.Unmarshal([]byte(rec.MetadataJSON), &sc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session metadata: %w", err)
		}
	}
	return sc, nil
}
