// Package models defines session state structures for MindShift.
package models

import "time"

// SessionMeta holds session-scoped flags and derived values. The fields are
// typed rather than a free-form key/value bag so each phase's private
// counters are inspectable and survive JSON round-trips through the store.
type SessionMeta struct {
	// Globally meaningful.
	WorkType       WorkType `json:"work_type,omitempty"`
	SelectedMethod Method   `json:"selected_method,omitempty"`
	// MultipleProblems is set once the digging-deeper protocol has worked
	// more than one problem; later subject substitution then says "the whole
	// topic" instead of restating a single problem.
	MultipleProblems bool `json:"multiple_problems,omitempty"`
	// LastAnswer is the most recent recorded answer, regardless of step.
	// Templates that interpolate the previous answer use it when a question
	// is re-issued without fresh input.
	LastAnswer string `json:"last_answer,omitempty"`

	// Treatment loop state (namespaced to the active method phase).
	CycleCount int  `json:"cycle_count,omitempty"`
	SkipIntro  bool `json:"skip_intro,omitempty"`

	// Identity/Trauma Shifting.
	CurrentIdentity string `json:"current_identity,omitempty"`
	// Belief Shifting.
	CurrentBelief  string `json:"current_belief,omitempty"`
	PositiveBelief string `json:"positive_belief,omitempty"`
	DesiredFeeling string `json:"desired_feeling,omitempty"`

	// Reality Shifting certainty loop.
	CertaintyPercent int    `json:"certainty_percent,omitempty"`
	DoubtPercent     int    `json:"doubt_percent,omitempty"`
	DoubtReason      string `json:"doubt_reason,omitempty"`
	// CertaintyCheckpoint records which certainty question (1 or 2) the
	// doubt micro-loop was entered from, so it knows where to return.
	CertaintyCheckpoint int `json:"certainty_checkpoint,omitempty"`

	// Digging deeper sub-protocol.
	ScenarioCount     int    `json:"scenario_count,omitempty"`
	AnythingElseCount int    `json:"anything_else_count,omitempty"`
	DiggingProblem    string `json:"digging_problem,omitempty"`
	OriginalProblem   string `json:"original_problem,omitempty"`
	// ReturnPhase/ReturnStep form the return-to pointer used when a nested
	// treatment loop resolves and control goes back to the digging checks.
	ReturnPhase PhaseName `json:"return_phase,omitempty"`
	ReturnStep  string    `json:"return_step,omitempty"`

	// Assistance gateway accounting.
	AssistanceCalls int     `json:"assistance_calls,omitempty"`
	AssistanceCost  float64 `json:"assistance_cost,omitempty"`
}

// SessionContext is the per-session mutable state threaded through every
// step. It is exclusively owned by the engine for the session's lifetime.
type SessionContext struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	CurrentPhase PhaseName `json:"current_phase"`
	CurrentStep  string    `json:"current_step"`

	// UserResponses maps step id to the last literal answer given there.
	UserResponses map[string]string `json:"user_responses"`

	ProblemStatement            string `json:"problem_statement,omitempty"`
	GoalStatement               string `json:"goal_statement,omitempty"`
	NegativeExperienceStatement string `json:"negative_experience_statement,omitempty"`

	Metadata SessionMeta `json:"metadata"`

	StartTime    time.Time `json:"start_time"`
	LastActivity time.Time `json:"last_activity"`
}

// NewSessionContext creates a fresh context positioned at the opening step.
func NewSessionContext(sessionID, userID string, phase PhaseName, step string) *SessionContext {
	now := time.Now()
	return &SessionContext{
		SessionID:     sessionID,
		UserID:        userID,
		CurrentPhase:  phase,
		CurrentStep:   step,
		UserResponses: make(map[string]string),
		StartTime:     now,
		LastActivity:  now,
	}
}

// RecordResponse stores the literal answer given at a step, overwriting any
// answer from an earlier visit.
func (sc *SessionContext) RecordResponse(stepID, input string) {
	if sc.UserResponses == nil {
		sc.UserResponses = make(map[string]string)
	}
	sc.UserResponses[stepID] = input
	sc.Metadata.LastAnswer = input
	sc.LastActivity = time.Now()
}

// Clone returns a copy sharing no mutable state with the receiver.
func (sc *SessionContext) Clone() *SessionContext {
	out := *sc
	out.UserResponses = make(map[string]string, len(sc.UserResponses))
	for k, v := range sc.UserResponses {
		out.UserResponses[k] = v
	}
	return &out
}

// ActiveStatement returns the canonical subject-of-work string for the
// session's work type. During digging deeper the restated problem takes
// precedence over the original statement.
func (sc *SessionContext) ActiveStatement() string {
	if sc.Metadata.DiggingProblem != "" {
		return sc.Metadata.DiggingProblem
	}
	switch sc.Metadata.WorkType {
	case WorkTypeGoal:
		return sc.GoalStatement
	case WorkTypeNegativeExperience:
		return sc.NegativeExperienceStatement
	default:
		return sc.ProblemStatement
	}
}

// SubjectReference is the phrase used when integration questions refer back
// to what was worked on.
func (sc *SessionContext) SubjectReference() string {
	if sc.Metadata.MultipleProblems {
		return "the whole topic"
	}
	if s := sc.ActiveStatement(); s != "" {
		return "'" + s + "'"
	}
	return "what you worked on"
}
