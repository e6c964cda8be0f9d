package script

import (
	"fmt"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/text"
)

func integrationPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseIntegration,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepAwareness1,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Well done, the processing part is complete. To finish we'll integrate what happened.\n\nThinking about %s... what are you more aware of now than before we did this process?", sc.SubjectReference())
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepAwareness2,
				ValidationRules:      feelingRules(),
				AssistanceTriggers:   defaultTriggers("reflecting on what they are more aware of after the process"),
			},
			{
				ID:                   StepAwareness2,
				Text:                 "How has it helped you to do this process?",
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepAwareness3,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepAwareness3,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("What is your new narrative about %s?", sc.SubjectReference())
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepAwareness4,
				ValidationRules:      feelingRules(),
			},
			{
				ID:                   StepAwareness4,
				Text:                 "What's your one-line action summary from this?",
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepAction1,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepAction1,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Now the action part. What needs to happen for you to realise your intention for %s?", sc.SubjectReference())
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepAction2,
				ValidationRules:      feelingRules(),
			},
			{
				ID:                   StepAction2,
				Text:                 "What else needs to happen for you to realise your intention? You can also say 'nothing else'.",
				ExpectedResponseType: models.ResponseTypeOpen,
				// Loops until the user indicates there is nothing else.
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					if text.IsDisagreement(input) {
						return models.SignalResolved
					}
					return models.SignalStillPresent
				},
				ValidationRules: feelingRules(),
			},
			{
				ID:                   StepAction3,
				Text:                 "What is the one thing you can do that will make everything else easier or unnecessary?",
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepAction4,
				ValidationRules:      feelingRules(),
			},
			{
				ID:                   StepAction4,
				Text:                 "What is the first action you can commit to now? When will you do it?",
				ExpectedResponseType: models.ResponseTypeOpen,
				NextStep:             StepSessionComplete,
				ValidationRules:      feelingRules(),
			},
			{
				ID:                   StepSessionComplete,
				Text:                 "Thank you for doing this process. The session is complete. Notice over the coming days how things feel different, and take the action you committed to.",
				ExpectedResponseType: models.ResponseTypeOpen,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					return models.SignalIntegrationDone
				},
			},
		},
	}
}
