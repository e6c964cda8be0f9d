package script

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
)

// restateRules are shared by the restate-problem steps of the digging
// deeper sub-protocol.
func restateRules() []models.ValidationRule {
	return []models.ValidationRule{
		{Type: models.RuleMinLength, IntValue: 3, ErrorMessage: "Please tell me a bit more about the problem."},
		{Type: models.RuleMaxLength, IntValue: 400, ErrorMessage: "Please state the problem in just a few words."},
	}
}

func digYesNo() models.ProcessFunc {
	return func(input string, sc *models.SessionContext) models.RoutingSignal {
		return yesNoSignal(input, models.SignalDigYes, models.SignalDigNo)
	}
}

// restateProblem stores a newly surfaced problem and marks the session as
// having worked multiple problems.
func restateProblem(input string, sc *models.SessionContext) models.RoutingSignal {
	sc.Metadata.DiggingProblem = strings.TrimSpace(input)
	sc.Metadata.MultipleProblems = true
	return models.SignalNone
}

func scenarioCheckStep(id string) *models.Step {
	return &models.Step{
		ID: id,
		Render: func(lastInput string, sc *models.SessionContext) string {
			return fmt.Sprintf("Is there any scenario in which %s would still be a problem for you?", sc.SubjectReference())
		},
		ExpectedResponseType: models.ResponseTypeYesNo,
		Process:              digYesNo(),
		ValidationRules:      yesNoRule(),
	}
}

func anythingElseCheckStep(id string) *models.Step {
	return &models.Step{
		ID: id,
		Render: func(lastInput string, sc *models.SessionContext) string {
			return fmt.Sprintf("Is there anything else about %s that is still a problem for you?", sc.SubjectReference())
		},
		ExpectedResponseType: models.ResponseTypeYesNo,
		Process:              digYesNo(),
		ValidationRules:      yesNoRule(),
	}
}

func diggingDeeperPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseDiggingDeeper,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepDiggingStart,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Do you feel %s will come back in the future?", sc.SubjectReference())
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process:              digYesNo(),
				ValidationRules:      yesNoRule(),
				AssistanceTriggers:   defaultTriggers("checking whether the problem could come back in the future"),
			},
			{
				ID:                   StepRestateFuture,
				Text:                 "Tell me in your own words what the problem is now.",
				ExpectedResponseType: models.ResponseTypeProblem,
				Process:              restateProblem,
				ValidationRules:      restateRules(),
			},
			scenarioCheckStep(StepScenarioCheck1),
			scenarioCheckStep(StepScenarioCheck2),
			scenarioCheckStep(StepScenarioCheck3),
			{
				ID:                   StepRestateScenario,
				Text:                 "Tell me in your own words what the problem would be in that scenario.",
				ExpectedResponseType: models.ResponseTypeProblem,
				Process:              restateProblem,
				ValidationRules:      restateRules(),
			},
			anythingElseCheckStep(StepAnythingElseCheck1),
			anythingElseCheckStep(StepAnythingElseCheck2),
			anythingElseCheckStep(StepAnythingElseCheck3),
			{
				ID:                   StepRestateAnythingElse,
				Text:                 "Tell me in your own words what is still a problem for you.",
				ExpectedResponseType: models.ResponseTypeProblem,
				Process:              restateProblem,
				ValidationRules:      restateRules(),
			},
		},
	}
}
