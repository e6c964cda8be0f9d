// Package flow implements the treatment dialogue engine: input validation,
// response rendering, next-step routing, and the per-session facade that
// orchestrates them.
package flow

import (
	"log/slog"
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/script"
	"github.com/BTreeMap/MindShift/internal/text"
)

// Validator applies per-step structural rules plus step-specific semantic
// heuristics to decide whether an input is admissible.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// emotionWords are single-word answers that need elaboration when a full
// problem statement was requested.
var emotionWords = map[string]bool{
	"sad": true, "sadness": true, "angry": true, "anger": true, "mad": true,
	"anxious": true, "anxiety": true, "scared": true, "afraid": true,
	"fear": true, "worried": true, "worry": true, "stressed": true,
	"stress": true, "upset": true, "depressed": true, "depression": true,
	"hurt": true, "lonely": true, "loneliness": true, "frustrated": true,
	"frustration": true, "shame": true, "ashamed": true, "guilt": true,
	"guilty": true, "overwhelmed": true,
}

// multiEventPhrases mark recurring-event language where a single specific
// incident is required.
var multiEventPhrases = []string{
	"always", "every time", "everytime", "whenever", "all the time",
	"repeatedly", "many times", "over and over", "keeps happening",
	"kept happening", "used to", "growing up", "for years", "constantly",
}

// Validate checks input against a step. Semantic checks run before the
// generic rules so a short-but-wrong-category answer gets a targeted
// correction rather than a generic "too short" message.
func (v *Validator) Validate(input string, step *models.Step, sc *models.SessionContext) models.ValidationResult {
	if strings.TrimSpace(input) == "" {
		return models.Invalid(models.ValidationEmpty, "Please share your answer, even just a few words.")
	}

	if res := v.semanticCheck(input, step); !res.OK {
		slog.Debug("Validator.Validate: semantic mismatch", "step", step.ID, "subKind", res.SubKind)
		return res
	}

	trimmed := strings.TrimSpace(input)
	for _, rule := range step.ValidationRules {
		switch rule.Type {
		case models.RuleMinLength:
			if len(trimmed) < rule.IntValue {
				return models.Invalid(models.ValidationTooShort, rule.ErrorMessage)
			}
		case models.RuleMaxLength:
			if len(trimmed) > rule.IntValue {
				return models.Invalid(models.ValidationTooLong, rule.ErrorMessage)
			}
		case models.RuleContainsKeywords:
			if !containsAnyKeyword(trimmed, rule.Keywords) {
				return models.Invalid(models.ValidationKeywords, rule.ErrorMessage)
			}
		}
	}

	if script.PercentSteps[step.ID] {
		if _, ok := script.ParsePercent(trimmed); !ok {
			return models.Invalid(models.ValidationFormat, "Please give me a percentage from 0 to 100.")
		}
	}

	return models.Valid()
}

// semanticCheck runs the designated step-specific heuristics. A positive
// detection is not a hard rejection: it signals the caller to obtain a
// corrective message before letting the user retry.
func (v *Validator) semanticCheck(input string, step *models.Step) models.ValidationResult {
	switch {
	case script.ProblemStatementSteps[step.ID]:
		wl := text.ClassifyWorkLanguage(input)
		if wl.IsQuestion {
			return models.NeedsAI(models.SubKindProblemVsQuestion)
		}
		if wl.IsGoal && !wl.IsProblem {
			return models.NeedsAI(models.SubKindProblemVsGoal)
		}
		if text.CountProblems(input) > 1 {
			return models.NeedsAI(models.SubKindMultipleProblems)
		}
		if isSingleEmotionWord(input) {
			return models.NeedsAI(models.SubKindSingleEmotion)
		}
	case step.ID == script.StepGoalDescription:
		wl := text.ClassifyWorkLanguage(input)
		if wl.IsQuestion {
			return models.NeedsAI(models.SubKindGoalVsQuestion)
		}
		if wl.IsProblem && !wl.IsGoal {
			return models.NeedsAI(models.SubKindGoalVsProblem)
		}
	case step.ID == script.StepExperienceDescription:
		if isMultiEventLanguage(input) {
			return models.NeedsAI(models.SubKindMultipleEvents)
		}
	}
	return models.Valid()
}

func isSingleEmotionWord(input string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) != 1 {
		return false
	}
	return emotionWords[strings.Trim(fields[0], ".,!?")]
}

func isMultiEventLanguage(input string) bool {
	t := strings.ToLower(input)
	for _, p := range multiEventPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return text.CountProblems(input) > 1
}

// containsAnyKeyword reports whether the input contains at least one of the
// keywords as a case-insensitive substring.
func containsAnyKeyword(input string, keywords []string) bool {
	t := strings.ToLower(input)
	for _, kw := range keywords {
		if strings.Contains(t, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
