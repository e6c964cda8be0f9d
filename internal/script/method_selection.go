package script

import (
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
)

const chooseMethodText = `How would you like to work on your problem?

1. PROBLEM SHIFTING - process the problem as a feeling
2. IDENTITY SHIFTING - process who you are being when you have the problem
3. BELIEF SHIFTING - process the belief causing the problem
4. BLOCKAGE SHIFTING - process a problem that keeps changing as you work on it

Please reply with 1, 2, 3 or 4, or the name of the method.`

func methodSelectionPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseMethodSelection,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID:                   StepChooseMethod,
				Text:                 chooseMethodText,
				ExpectedResponseType: models.ResponseTypeSelection,
				Process:              processMethodSelection,
				ValidationRules: []models.ValidationRule{{
					Type: models.RuleContainsKeywords,
					Keywords: []string{
						"1", "2", "3", "4", "problem", "identity", "belief", "blockage",
					},
					ErrorMessage: "Please choose 1, 2, 3 or 4, or name the method you'd like to use.",
				}},
				AssistanceTriggers: defaultTriggers("choosing a treatment method for a problem"),
			},
		},
	}
}

// processMethodSelection records the chosen treatment method.
func processMethodSelection(input string, sc *models.SessionContext) models.RoutingSignal {
	t := strings.ToLower(strings.TrimSpace(input))
	switch {
	case strings.HasPrefix(t, "1") || strings.Contains(t, "problem"):
		sc.Metadata.SelectedMethod = models.MethodProblemShifting
	case strings.HasPrefix(t, "2") || strings.Contains(t, "identity"):
		sc.Metadata.SelectedMethod = models.MethodIdentityShifting
	case strings.HasPrefix(t, "3") || strings.Contains(t, "belief"):
		sc.Metadata.SelectedMethod = models.MethodBeliefShifting
	case strings.HasPrefix(t, "4") || strings.Contains(t, "blockage"):
		sc.Metadata.SelectedMethod = models.MethodBlockageShifting
	default:
		return models.SignalNone
	}
	return models.SignalMethodChosen
}
