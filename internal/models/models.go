// Package models defines the core data structures for MindShift.
//
// It includes the session context, script registry types, validation and
// routing results shared across the engine, store, and API modules.
package models

import (
	"errors"
	"time"
)

// WorkType identifies what kind of subject the user chose to work on.
type WorkType string

const (
	WorkTypeProblem            WorkType = "problem"
	WorkTypeGoal               WorkType = "goal"
	WorkTypeNegativeExperience WorkType = "negative_experience"
)

// Method identifies a treatment method.
type Method string

const (
	MethodProblemShifting  Method = "problem_shifting"
	MethodIdentityShifting Method = "identity_shifting"
	MethodBeliefShifting   Method = "belief_shifting"
	MethodBlockageShifting Method = "blockage_shifting"
	MethodRealityShifting  Method = "reality_shifting"
	MethodTraumaShifting   Method = "trauma_shifting"
)

// PhaseName identifies a phase in the script registry.
type PhaseName string

const (
	PhaseIntroduction     PhaseName = "introduction"
	PhaseDiscovery        PhaseName = "discovery"
	PhaseMethodSelection  PhaseName = "method_selection"
	PhaseProblemShifting  PhaseName = "problem_shifting"
	PhaseIdentityShifting PhaseName = "identity_shifting"
	PhaseBeliefShifting   PhaseName = "belief_shifting"
	PhaseBlockageShifting PhaseName = "blockage_shifting"
	PhaseRealityShifting  PhaseName = "reality_shifting"
	PhaseTraumaShifting   PhaseName = "trauma_shifting"
	PhaseDiggingDeeper    PhaseName = "digging_deeper"
	PhaseIntegration      PhaseName = "integration"
)

// TreatmentPhase maps a method to the phase that implements it.
func (m Method) TreatmentPhase() PhaseName {
	switch m {
	case MethodProblemShifting:
		return PhaseProblemShifting
	case MethodIdentityShifting:
		return PhaseIdentityShifting
	case MethodBeliefShifting:
		return PhaseBeliefShifting
	case MethodBlockageShifting:
		return PhaseBlockageShifting
	case MethodRealityShifting:
		return PhaseRealityShifting
	case MethodTraumaShifting:
		return PhaseTraumaShifting
	default:
		return ""
	}
}

// IsValidMethod reports whether m is a known treatment method.
func IsValidMethod(m Method) bool {
	return m.TreatmentPhase() != ""
}

// ExpectedResponseType describes what kind of answer a step expects.
type ExpectedResponseType string

const (
	ResponseTypeFeeling     ExpectedResponseType = "feeling"
	ResponseTypeProblem     ExpectedResponseType = "problem"
	ResponseTypeExperience  ExpectedResponseType = "experience"
	ResponseTypeYesNo       ExpectedResponseType = "yesno"
	ResponseTypeOpen        ExpectedResponseType = "open"
	ResponseTypeGoal        ExpectedResponseType = "goal"
	ResponseTypeSelection   ExpectedResponseType = "selection"
	ResponseTypeDescription ExpectedResponseType = "description"
)

// ValidationRuleType enumerates the generic per-step validation rules.
type ValidationRuleType string

const (
	RuleMinLength        ValidationRuleType = "minLength"
	RuleMaxLength        ValidationRuleType = "maxLength"
	RuleContainsKeywords ValidationRuleType = "containsKeywords"
)

// ValidationRule is a generic structural rule attached to a step.
type ValidationRule struct {
	Type         ValidationRuleType
	IntValue     int
	Keywords     []string
	ErrorMessage string
}

// ValidationKind classifies a validation outcome.
type ValidationKind string

const (
	ValidationOK       ValidationKind = "ok"
	ValidationEmpty    ValidationKind = "empty"
	ValidationTooShort ValidationKind = "too_short"
	ValidationTooLong  ValidationKind = "too_long"
	ValidationKeywords ValidationKind = "missing_keywords"
	ValidationFormat   ValidationKind = "bad_format"
	// ValidationNeedsAI signals a semantic mismatch that should be answered
	// with a corrective message rather than a hard rejection.
	ValidationNeedsAI ValidationKind = "needs_ai_validation"
)

// SemanticSubKind tags a ValidationNeedsAI outcome with the mismatch detected.
type SemanticSubKind string

const (
	SubKindProblemVsGoal     SemanticSubKind = "problem_vs_goal"
	SubKindProblemVsQuestion SemanticSubKind = "problem_vs_question"
	SubKindGoalVsProblem     SemanticSubKind = "goal_vs_problem"
	SubKindGoalVsQuestion    SemanticSubKind = "goal_vs_question"
	SubKindSingleEmotion     SemanticSubKind = "single_emotion"
	SubKindMultipleProblems  SemanticSubKind = "multiple_problems"
	SubKindMultipleEvents    SemanticSubKind = "multiple_events"
)

// ValidationResult is the outcome of validating one user input against a step.
type ValidationResult struct {
	OK           bool
	Kind         ValidationKind
	SubKind      SemanticSubKind
	ErrorMessage string
}

// Valid returns a passing validation result.
func Valid() ValidationResult {
	return ValidationResult{OK: true, Kind: ValidationOK}
}

// Invalid returns a failing validation result with the step's error message.
func Invalid(kind ValidationKind, msg string) ValidationResult {
	return ValidationResult{OK: false, Kind: kind, ErrorMessage: msg}
}

// NeedsAI returns a semantic-mismatch result tagged with a sub-kind.
func NeedsAI(sub SemanticSubKind) ValidationResult {
	return ValidationResult{OK: false, Kind: ValidationNeedsAI, SubKind: sub}
}

// AssistanceTrigger describes a condition under which a step may escalate
// to the assistance gateway instead of re-prompting.
type AssistanceTrigger struct {
	// Phrases that fire the trigger when present in the input (case-insensitive).
	Phrases []string
	// Context is a short description of the step handed to the provider.
	Context string
}

// ProcessingResult is returned to the caller for every processed input.
type ProcessingResult struct {
	CanContinue      bool               `json:"can_continue"`
	NextStep         string             `json:"next_step,omitempty"`
	ScriptedResponse string             `json:"scripted_response,omitempty"`
	Reason           string             `json:"reason,omitempty"`
	NeedsAssistance  *AssistanceNeed    `json:"needs_assistance,omitempty"`
	SessionComplete  bool               `json:"session_complete,omitempty"`
	Usage            *AssistanceUsage   `json:"usage,omitempty"`
}

// AssistanceNeed describes an escalation that was raised while processing input.
type AssistanceNeed struct {
	Trigger        string `json:"trigger"`
	ContextSummary string `json:"context_summary"`
	UserInput      string `json:"user_input"`
}

// AssistanceUsage tracks per-session assistance consumption for the budget policy.
type AssistanceUsage struct {
	Calls         int     `json:"calls"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// StartSentinel is the reserved input value that initializes a session and
// returns the opening script without being consumed as an answer.
const StartSentinel = "start"

// Sentinel errors shared across modules.
var (
	ErrPhaseNotFound   = errors.New("phase not found in script registry")
	ErrStepNotFound    = errors.New("step not found in script registry")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptySessionID  = errors.New("session id cannot be empty")
)

// SessionRecord is the persistence-boundary shape of a session, used to
// rehydrate a SessionContext across process restarts.
type SessionRecord struct {
	SessionID                   string            `json:"session_id"`
	UserID                      string            `json:"user_id"`
	CurrentPhase                string            `json:"current_phase"`
	CurrentStep                 string            `json:"current_step"`
	ProblemStatement            string            `json:"problem_statement,omitempty"`
	GoalStatement               string            `json:"goal_statement,omitempty"`
	NegativeExperienceStatement string            `json:"negative_experience_statement,omitempty"`
	MetadataJSON                string            `json:"metadata_json,omitempty"`
	UserResponses               map[string]string `json:"user_responses,omitempty"`
	StartTime                   time.Time         `json:"start_time"`
	LastActivity                time.Time         `json:"last_activity"`
}
