// Package models defines script registry structures for MindShift.
package models

import "time"

// RoutingSignal is a typed control signal returned by a step's Process
// function. The router interprets signals to reassign the active phase and
// pick the next step; they are never shown to the user and the router never
// pattern-matches on rendered text.
type RoutingSignal string

const (
	SignalNone RoutingSignal = ""
	// Work-type dispatch.
	SignalWorkTypeProblem    RoutingSignal = "WORK_TYPE_PROBLEM"
	SignalWorkTypeGoal       RoutingSignal = "WORK_TYPE_GOAL"
	SignalWorkTypeExperience RoutingSignal = "WORK_TYPE_NEGATIVE_EXPERIENCE"
	// Method selection and confirmation shortcuts.
	SignalMethodChosen       RoutingSignal = "METHOD_CHOSEN"
	SignalSkipToTreatment    RoutingSignal = "SKIP_TO_TREATMENT_INTRO"
	SignalStatementConfirmed RoutingSignal = "STATEMENT_CONFIRMED"
	SignalStatementRejected  RoutingSignal = "STATEMENT_REJECTED"
	// Treatment loop outcomes.
	SignalStillPresent RoutingSignal = "STILL_PRESENT"
	SignalResolved     RoutingSignal = "RESOLVED"
	// Reality Shifting certainty loop.
	SignalFullyCertain RoutingSignal = "FULLY_CERTAIN"
	SignalDoubtFound   RoutingSignal = "DOUBT_FOUND"
	// Digging deeper.
	SignalDigYes RoutingSignal = "DIG_YES"
	SignalDigNo  RoutingSignal = "DIG_NO"
	// Trauma Shifting comfort check.
	SignalNotComfortable RoutingSignal = "NOT_COMFORTABLE"
	// Integration.
	SignalIntegrationDone RoutingSignal = "INTEGRATION_DONE"
)

// RenderFunc produces the user-facing text of a template step from the most
// recent literal answer and the live session context. Render functions may
// write statement/identity fields on the context; all other components only
// read it.
type RenderFunc func(lastInput string, sc *SessionContext) string

// ProcessFunc interprets the answer given at a step. It may mutate the
// context's statement/metadata fields and returns a routing signal for the
// transition router. A SignalNone return means the step's default successor
// applies.
type ProcessFunc func(input string, sc *SessionContext) RoutingSignal

// Step is an atomic unit of dialogue: one rendered prompt, its validation
// rules, and its default successor. Steps are immutable after registry
// construction.
//
// Exactly one of Text and Render is set; a nil Render marks a literal step.
type Step struct {
	ID                   string
	Text                 string
	Render               RenderFunc
	Process              ProcessFunc
	ExpectedResponseType ExpectedResponseType
	ValidationRules      []ValidationRule
	NextStep             string
	AssistanceTriggers   []AssistanceTrigger
}

// IsLiteral reports whether the step renders a fixed string.
func (s *Step) IsLiteral() bool { return s.Render == nil }

// Phase is a named, ordered group of steps.
type Phase struct {
	Name        PhaseName
	MaxDuration time.Duration // advisory only
	Steps       []*Step
}

// StepRef addresses a step across phases; transitions that change the active
// phase return both coordinates.
type StepRef struct {
	Phase PhaseName
	Step  string
}
