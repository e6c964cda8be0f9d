package script

import (
	"fmt"

	"github.com/BTreeMap/MindShift/internal/models"
)

const problemShiftingInstructions = `Please close your eyes and keep them closed throughout the process. Give me your first answer to each question, without thinking about whether it is the right answer, and keep your answers brief.

`

func problemShiftingPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseProblemShifting,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepProblemShiftingIntro,
				Render: func(lastInput string, sc *models.SessionContext) string {
					q := fmt.Sprintf("Feel the problem '%s'... what does it feel like?", sc.ActiveStatement())
					if sc.Metadata.SkipIntro {
						return q
					}
					return problemShiftingInstructions + q
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepBodySensationCheck,
				ValidationRules:      feelingRules(),
				AssistanceTriggers:   defaultTriggers("feeling the problem and naming what it feels like"),
			},
			{
				ID: StepBodySensationCheck,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what happens in yourself when you feel '%s'?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepWhatNeedsToHappen,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepWhatNeedsToHappen,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel the problem '%s'... what needs to happen for this to not be a problem?", sc.ActiveStatement())
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepFeelSolutionState,
				ValidationRules:      feelingRules(),
				AssistanceTriggers:   defaultTriggers("saying what needs to happen for the problem to not be a problem"),
			},
			{
				ID: StepFeelSolutionState,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("What would you feel like if '%s'?", lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepFeelGoodState,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepFeelGoodState,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what does '%s' feel like?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepWhatHappens,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepWhatHappens,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what happens in yourself when you feel '%s'?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepCheckIfStillProblem,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepCheckIfStillProblem,
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
