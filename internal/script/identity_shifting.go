package script

import (
	"fmt"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/text"
)

func identityShiftingPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseIdentityShifting,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepIdentityShiftingIntro,
				Render: func(lastInput string, sc *models.SessionContext) string {
					q := fmt.Sprintf("Feel the problem '%s'... what kind of person are you being when you feel this problem?", sc.ActiveStatement())
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
				NextStep:           StepIdentityDissolveA,
				ValidationRules:    feelingRules(),
				AssistanceTriggers: defaultTriggers("naming the kind of person they are being when they have the problem"),
			},
			{
				ID: StepIdentityDissolveA,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel yourself being '%s'... what does it feel like?", sc.Metadata.CurrentIdentity)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepIdentityDissolveB,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepIdentityDissolveB,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what happens in yourself when you feel '%s'?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepIdentityDissolveC,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepIdentityDissolveC,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("What are you when you're not being '%s'?", sc.Metadata.CurrentIdentity)
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepIdentityDissolveD,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepIdentityDissolveD,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel yourself being '%s'... what does that feel like?", lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepIdentityCheck,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepIdentityCheck,
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
				ID: StepIdentityProblemCheck,
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
