package script

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/text"
)

func traumaShiftingPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseTraumaShifting,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepTraumaShiftingIntro,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("We will work on the experience '%s' by having you briefly recall the worst part of it. You won't need to describe it or relive it in detail. Will you be comfortable recalling the worst part of this experience?", sc.NegativeExperienceStatement)
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					return yesNoSignal(input, models.SignalStatementConfirmed, models.SignalNotComfortable)
				},
				ValidationRules:    yesNoRule(),
				AssistanceTriggers: defaultTriggers("deciding whether they are comfortable recalling the worst part of a negative experience"),
			},
			{
				ID:                   StepTraumaProblemRedirect,
				Text:                 "That's completely fine, we don't need to go back to the experience itself. We can work on how it affects you now instead. Tell me what the problem is for you now, in a few words.",
				ExpectedResponseType: models.ResponseTypeProblem,
				// Reroute the session to Problem Shifting on the stated problem.
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					sc.ProblemStatement = strings.TrimSpace(input)
					sc.Metadata.WorkType = models.WorkTypeProblem
					sc.Metadata.SelectedMethod = models.MethodProblemShifting
					if sc.Metadata.OriginalProblem == "" {
						sc.Metadata.OriginalProblem = sc.ProblemStatement
					}
					return models.SignalSkipToTreatment
				},
				ValidationRules: []models.ValidationRule{
					{Type: models.RuleMinLength, IntValue: 3, ErrorMessage: "Please tell me a bit more about the problem."},
					{Type: models.RuleMaxLength, IntValue: 400, ErrorMessage: "Please state the problem in just a few words."},
				},
			},
			{
				ID: StepTraumaIdentity,
				Render: func(lastInput string, sc *models.SessionContext) string {
					q := fmt.Sprintf("Think about and feel the worst part of '%s'... what kind of person are you being in this experience?", sc.NegativeExperienceStatement)
					if sc.Metadata.SkipIntro {
						return q
					}
					return problemShiftingInstructions + q
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					sc.Metadata.CurrentIdentity = text.ProcessIdentityResponse(input)
					return models.SignalNone
				},
				NextStep:        StepTraumaDissolveA,
				ValidationRules: feelingRules(),
			},
			{
				ID: StepTraumaDissolveA,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel yourself being '%s'... what does it feel like?", sc.Metadata.CurrentIdentity)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepTraumaDissolveB,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepTraumaDissolveB,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what happens in yourself when you feel '%s'?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepTraumaDissolveC,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepTraumaDissolveC,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("What are you when you're not being '%s'?", sc.Metadata.CurrentIdentity)
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepTraumaDissolveD,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepTraumaDissolveD,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel yourself being '%s'... what does that feel like?", lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepTraumaIdentityCheck,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepTraumaIdentityCheck,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Can you still feel yourself being '%s'?", sc.Metadata.CurrentIdentity)
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					return yesNoSignal(input, models.SignalStillPresent, models.SignalResolved)
				},
				ValidationRules: yesNoRule(),
			},
			{
				ID: StepTraumaExperienceCheck,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Think about the worst part of '%s' again... does it still feel bad?", sc.NegativeExperienceStatement)
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					return yesNoSignal(input, models.SignalStillPresent, models.SignalResolved)
				},
				ValidationRules: yesNoRule(),
			},
			{
				ID:                   StepTraumaFutureCheck,
				Text:                 "If a similar experience happened in the future, do you feel you would be OK?",
				ExpectedResponseType: models.ResponseTypeYesNo,
				// Being OK resolves the loop; not OK means more processing.
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					return yesNoSignal(input, models.SignalResolved, models.SignalStillPresent)
				},
				ValidationRules: yesNoRule(),
			},
		},
	}
}
