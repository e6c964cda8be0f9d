package script

import (
	"fmt"

	"github.com/BTreeMap/MindShift/internal/models"
)

func blockageShiftingPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseBlockageShifting,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepBlockageShiftingIntro,
				Render: func(lastInput string, sc *models.SessionContext) string {
					q := fmt.Sprintf("Feel '%s'... what does it feel like?", sc.ActiveStatement())
					if sc.Metadata.SkipIntro {
						return q
					}
					return problemShiftingInstructions +
						"With this method the problem may seem to change as we work on it. That is the process working, so keep answering for whatever the problem is right now.\n\n" + q
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBlockageB,
				ValidationRules:      feelingRules(),
				AssistanceTriggers:   defaultTriggers("feeling the current problem and naming what it feels like"),
			},
			{
				ID: StepBlockageB,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what's the problem with feeling '%s'?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeProblem,
				// Whatever the user answers here becomes the problem being
				// worked; Blockage Shifting cycles the statement itself.
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					setActiveProblem(sc, input)
					return models.SignalNone
				},
				NextStep:        StepBlockageC,
				ValidationRules: feelingRules(),
			},
			{
				ID: StepBlockageC,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what would it feel like to not have this problem?", sc.ActiveStatement())
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBlockageD,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepBlockageD,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what does '%s' feel like?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBlockageCheck,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepBlockageCheck,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Does '%s' still feel like a problem?", sc.ActiveStatement())
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
