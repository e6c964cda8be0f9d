package script

import (
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
)

const welcomeText = `Welcome to Mind Shifting.

Mind Shifting works by having you feel what you're working on while answering a series of simple questions. There are no right or wrong answers, and you don't need to explain anything. Just notice what comes up and say it in a few words.

What would you like to work on today?

1. A PROBLEM - something that's bothering you
2. A GOAL - something you want to achieve
3. A NEGATIVE EXPERIENCE - a specific event that still affects you

Please reply with 1, 2 or 3.`

func introductionPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseIntroduction,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID:                   StepWelcome,
				Text:                 welcomeText,
				ExpectedResponseType: models.ResponseTypeSelection,
				Process:              processWorkTypeSelection,
				ValidationRules: []models.ValidationRule{{
					Type: models.RuleContainsKeywords,
					Keywords: []string{
						"1", "2", "3", "problem", "goal", "negative", "experience",
					},
					ErrorMessage: "Please choose 1 for a problem, 2 for a goal, or 3 for a negative experience.",
				}},
				AssistanceTriggers: defaultTriggers("choosing between working on a problem, a goal, or a negative experience"),
			},
		},
	}
}

// processWorkTypeSelection dispatches on the user's work-type choice. The
// selection is stored on the context; the router reads the signal to pick
// the destination phase.
func processWorkTypeSelection(input string, sc *models.SessionContext) models.RoutingSignal {
	t := strings.ToLower(strings.TrimSpace(input))
	switch {
	case strings.HasPrefix(t, "1") || strings.Contains(t, "problem"):
		sc.Metadata.WorkType = models.WorkTypeProblem
		return models.SignalWorkTypeProblem
	case strings.HasPrefix(t, "2") || strings.Contains(t, "goal"):
		sc.Metadata.WorkType = models.WorkTypeGoal
		return models.SignalWorkTypeGoal
	case strings.HasPrefix(t, "3") || strings.Contains(t, "negative") || strings.Contains(t, "experience"):
		sc.Metadata.WorkType = models.WorkTypeNegativeExperience
		return models.SignalWorkTypeExperience
	default:
		return models.SignalNone
	}
}
