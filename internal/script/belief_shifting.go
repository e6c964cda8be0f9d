package script

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/text"
)

func beliefShiftingPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseBeliefShifting,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepBeliefShiftingIntro,
				Render: func(lastInput string, sc *models.SessionContext) string {
					q := fmt.Sprintf("Feel the problem '%s'... what do you believe about yourself that's causing you to feel this way?", sc.ActiveStatement())
					if sc.Metadata.SkipIntro {
						return q
					}
					return problemShiftingInstructions + q
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					sc.Metadata.CurrentBelief = strings.TrimSpace(input)
					return models.SignalNone
				},
				NextStep:           StepBeliefA,
				ValidationRules:    feelingRules(),
				AssistanceTriggers: defaultTriggers("naming the belief about themselves that causes the problem"),
			},
			{
				ID: StepBeliefA,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel yourself believing '%s'... what does it feel like?", sc.Metadata.CurrentBelief)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBeliefB,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepBeliefB,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what happens in yourself when you feel '%s'?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBeliefC,
				ValidationRules:      feelingRules(),
			},
			{
				ID:                   StepBeliefC,
				Text:                 "What would you rather feel?",
				ExpectedResponseType: models.ResponseTypeFeeling,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					sc.Metadata.DesiredFeeling = strings.TrimSpace(input)
					return models.SignalNone
				},
				NextStep:        StepBeliefD,
				ValidationRules: feelingRules(),
			},
			{
				ID: StepBeliefD,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("What would '%s' feel like?", sc.Metadata.DesiredFeeling)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBeliefE,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepBeliefE,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what happens in yourself when you feel '%s'?", sc.Metadata.DesiredFeeling, sc.Metadata.DesiredFeeling)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBeliefCheck1,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepBeliefCheck1,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Do you still believe '%s'?", sc.Metadata.CurrentBelief)
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					sig := yesNoSignal(input, models.SignalStillPresent, models.SignalResolved)
					if sig == models.SignalResolved {
						sc.Metadata.PositiveBelief = text.CreatePositiveBeliefStatement(sc.Metadata.CurrentBelief)
					}
					return sig
				},
				ValidationRules: yesNoRule(),
			},
			{
				ID: StepBeliefCheck2,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Do you now believe '%s'?", sc.Metadata.PositiveBelief)
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					// Here agreement means the positive belief has landed.
					return yesNoSignal(input, models.SignalResolved, models.SignalStillPresent)
				},
				ValidationRules: yesNoRule(),
			},
			{
				ID: StepBeliefProblemCheck,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel the problem '%s'... does it still feel like a problem?", sc.ActiveStatement())
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					return yesNoSignal(input, models.SignalStillPresent, models.SignalResolved)
				},
				ValidationRules: yesNoRule(),
			},
		},
	}
}
