// Package script defines the immutable treatment script registry: every
// phase and step of the guided Mind Shifting dialogue, including rendered
// prompt templates, per-step validation rules, and default successors.
//
// The registry is built once at startup and is read-only thereafter; it is
// safe to share across sessions.
package script

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/text"
)

// Opening position of every new session.
const (
	OpeningPhase = models.PhaseIntroduction
	OpeningStep  = StepWelcome
)

// Registry is the immutable catalog of phases and steps.
type Registry struct {
	phases map[models.PhaseName]*models.Phase
	steps  map[models.PhaseName]map[string]*models.Step
}

// NewRegistry builds the full treatment script. It panics on a malformed
// script since that is a programming error, not a runtime condition.
func NewRegistry() *Registry {
	r := &Registry{
		phases: make(map[models.PhaseName]*models.Phase),
		steps:  make(map[models.PhaseName]map[string]*models.Step),
	}

	r.addPhase(introductionPhase())
	r.addPhase(discoveryPhase())
	r.addPhase(methodSelectionPhase())
	r.addPhase(problemShiftingPhase())
	r.addPhase(identityShiftingPhase())
	r.addPhase(beliefShiftingPhase())
	r.addPhase(blockageShiftingPhase())
	r.addPhase(realityShiftingPhase())
	r.addPhase(traumaShiftingPhase())
	r.addPhase(diggingDeeperPhase())
	r.addPhase(integrationPhase())

	if err := r.validate(); err != nil {
		panic(fmt.Sprintf("script registry is malformed: %v", err))
	}
	slog.Debug("script.NewRegistry: registry built", "phases", len(r.phases))
	return r
}

func (r *Registry) addPhase(p *models.Phase) {
	if _, exists := r.phases[p.Name]; exists {
		panic(fmt.Sprintf("duplicate phase %q in script registry", p.Name))
	}
	r.phases[p.Name] = p
	index := make(map[string]*models.Step, len(p.Steps))
	for _, s := range p.Steps {
		if _, exists := index[s.ID]; exists {
			panic(fmt.Sprintf("duplicate step %q in phase %q", s.ID, p.Name))
		}
		index[s.ID] = s
	}
	r.steps[p.Name] = index
}

// validate checks that every static NextStep reference resolves within its
// own phase. Router-computed transitions are exercised by tests instead.
func (r *Registry) validate() error {
	for name, index := range r.steps {
		for id, s := range index {
			if s.NextStep == "" {
				continue
			}
			if _, ok := index[s.NextStep]; !ok {
				return fmt.Errorf("step %s/%s: %w: %q", name, id, models.ErrStepNotFound, s.NextStep)
			}
		}
	}
	return nil
}

// GetPhase returns the named phase.
func (r *Registry) GetPhase(name models.PhaseName) (*models.Phase, error) {
	p, ok := r.phases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrPhaseNotFound, name)
	}
	return p, nil
}

// GetStep returns the step with the given id within a phase.
func (r *Registry) GetStep(phase models.PhaseName, id string) (*models.Step, error) {
	index, ok := r.steps[phase]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrPhaseNotFound, phase)
	}
	s, ok := index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q in phase %q", models.ErrStepNotFound, id, phase)
	}
	return s, nil
}

// HasStep reports whether the step exists in the phase.
func (r *Registry) HasStep(phase models.PhaseName, id string) bool {
	index, ok := r.steps[phase]
	if !ok {
		return false
	}
	_, ok = index[id]
	return ok
}

// advisoryDuration is the default MaxDuration attached to treatment phases.
const advisoryDuration = 30 * time.Minute

// defaultTriggers fire the open-ended assistance escalation when the user
// signals they are stuck or confused instead of answering.
func defaultTriggers(context string) []models.AssistanceTrigger {
	return []models.AssistanceTrigger{{
		Phrases: []string{
			"i don't understand", "i dont understand", "what do you mean",
			"confused", "i'm confused", "i am confused", "i'm stuck",
			"i am stuck", "this isn't working", "makes no sense",
		},
		Context: context,
	}}
}

// yesNoRule is the shared validation rule for yes/no steps.
func yesNoRule() []models.ValidationRule {
	return []models.ValidationRule{{
		Type: models.RuleContainsKeywords,
		Keywords: []string{
			"yes", "no", "yeah", "yep", "yup", "nope", "nah", "not",
			"sure", "ok", "okay", "gone", "still",
		},
		ErrorMessage: "Please answer yes or no.",
	}}
}

// feelingRules bound free-text feeling answers.
func feelingRules() []models.ValidationRule {
	return []models.ValidationRule{
		{Type: models.RuleMinLength, IntValue: 2, ErrorMessage: "Take a moment and tell me what you notice."},
		{Type: models.RuleMaxLength, IntValue: 300, ErrorMessage: "Try to capture it in a few words."},
	}
}

// yesNoSignal classifies a yes/no answer into a pair of routing signals.
// Agreement wins when both polarities appear in the same answer.
func yesNoSignal(input string, yes, no models.RoutingSignal) models.RoutingSignal {
	if text.IsAgreement(input) {
		return yes
	}
	if text.IsDisagreement(input) {
		return no
	}
	return models.SignalNone
}

// ParsePercent extracts the leading integer percentage from free text.
// Values outside 0-100 are rejected.
func ParsePercent(input string) (int, bool) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return !('0' <= r && r <= '9')
	})
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

// setActiveProblem rewrites the statement currently being worked on. During
// a digging-deeper cycle that is the restated problem, otherwise the
// session's canonical problem statement.
func setActiveProblem(sc *models.SessionContext, statement string) {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return
	}
	if sc.Metadata.DiggingProblem != "" {
		sc.Metadata.DiggingProblem = statement
		return
	}
	sc.ProblemStatement = statement
}
