package script

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
)

func discoveryPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseDiscovery,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID:                   StepProblemDescription,
				Text:                 "Tell me what the problem is in a few words.",
				ExpectedResponseType: models.ResponseTypeProblem,
				Process:              processProblemDescription,
				NextStep:             StepWorkTypeConfirmation,
				ValidationRules: []models.ValidationRule{
					{Type: models.RuleMinLength, IntValue: 3, ErrorMessage: "Please tell me a bit more about the problem."},
					{Type: models.RuleMaxLength, IntValue: 400, ErrorMessage: "Please state the problem in just a few words, like a headline."},
				},
				AssistanceTriggers: defaultTriggers("stating the problem to work on in a few words"),
			},
			{
				ID: StepWorkTypeConfirmation,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("So the problem you want to work on is '%s'. Is that right?", sc.ActiveStatement())
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					return yesNoSignal(input, models.SignalStatementConfirmed, models.SignalStatementRejected)
				},
				ValidationRules: yesNoRule(),
			},
			{
				ID:                   StepGoalDescription,
				Text:                 "Tell me what the goal is in a few words.",
				ExpectedResponseType: models.ResponseTypeGoal,
				Process:              processGoalDescription,
				ValidationRules: []models.ValidationRule{
					{Type: models.RuleMinLength, IntValue: 3, ErrorMessage: "Please tell me a bit more about the goal."},
					{Type: models.RuleMaxLength, IntValue: 400, ErrorMessage: "Please state the goal in just a few words."},
				},
				AssistanceTriggers: defaultTriggers("stating the goal to work on in a few words"),
			},
			{
				ID:                   StepExperienceDescription,
				Text:                 "Tell me in a few words what the negative experience was. It should be a single specific event.",
				ExpectedResponseType: models.ResponseTypeExperience,
				Process:              processExperienceDescription,
				ValidationRules: []models.ValidationRule{
					{Type: models.RuleMinLength, IntValue: 3, ErrorMessage: "Please tell me a bit more about what happened."},
					{Type: models.RuleMaxLength, IntValue: 400, ErrorMessage: "Please describe the event in just a few words."},
				},
				AssistanceTriggers: defaultTriggers("describing a single specific negative experience"),
			},
		},
	}
}

// processProblemDescription stores the problem statement verbatim. The first
// statement of the session is also kept as the original problem for
// integration wording.
func processProblemDescription(input string, sc *models.SessionContext) models.RoutingSignal {
	statement := strings.TrimSpace(input)
	sc.ProblemStatement = statement
	if sc.Metadata.OriginalProblem == "" {
		sc.Metadata.OriginalProblem = statement
	}
	if sc.Metadata.SelectedMethod != "" {
		return models.SignalSkipToTreatment
	}
	return models.SignalNone
}

// processGoalDescription stores the goal statement. Goals are always worked
// with Reality Shifting, so the method is fixed here.
func processGoalDescription(input string, sc *models.SessionContext) models.RoutingSignal {
	sc.GoalStatement = strings.TrimSpace(input)
	sc.Metadata.SelectedMethod = models.MethodRealityShifting
	return models.SignalSkipToTreatment
}

// processExperienceDescription stores the negative experience statement.
// Negative experiences are always worked with Trauma Shifting.
func processExperienceDescription(input string, sc *models.SessionContext) models.RoutingSignal {
	sc.NegativeExperienceStatement = strings.TrimSpace(input)
	sc.Metadata.SelectedMethod = models.MethodTraumaShifting
	return models.SignalSkipToTreatment
}
