package script

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/MindShift/internal/models"
)

func realityShiftingPhase() *models.Phase {
	return &models.Phase{
		Name:        models.PhaseRealityShifting,
		MaxDuration: advisoryDuration,
		Steps: []*models.Step{
			{
				ID: StepRealityShiftingIntro,
				Render: func(lastInput string, sc *models.SessionContext) string {
					q := fmt.Sprintf("Feel that you don't yet have '%s'... what does it feel like?", sc.GoalStatement)
					if sc.Metadata.SkipIntro {
						return q
					}
					return problemShiftingInstructions + q
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepRealityA2,
				ValidationRules:      feelingRules(),
				AssistanceTriggers:   defaultTriggers("feeling what it is like to not yet have the goal"),
			},
			{
				ID: StepRealityA2,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what does '%s' feel like?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepRealityA3,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepRealityA3,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("What would it feel like to have '%s'?", sc.GoalStatement)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepRealityCertainty1,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepRealityCertainty1,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("How certain are you, from 0%% to 100%%, that you will achieve '%s'?", sc.GoalStatement)
				},
				ExpectedResponseType: models.ResponseTypeSelection,
				Process:              processCertainty(1),
				ValidationRules: []models.ValidationRule{{
					Type:         models.RuleMinLength,
					IntValue:     1,
					ErrorMessage: "Please give me a percentage from 0 to 100.",
				}},
			},
			{
				ID: StepRealityDoubtReason,
				Render: func(lastInput string, sc *models.SessionContext) string {
					// The checking question enters here without a percentage.
					if sc.Metadata.DoubtPercent > 0 {
						return fmt.Sprintf("What's the reason for the %d%% doubt? Why might you not achieve '%s'?", sc.Metadata.DoubtPercent, sc.GoalStatement)
					}
					return fmt.Sprintf("What's the reason? Why might you not achieve '%s'?", sc.GoalStatement)
				},
				ExpectedResponseType: models.ResponseTypeOpen,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					sc.Metadata.DoubtReason = strings.TrimSpace(input)
					return models.SignalNone
				},
				NextStep:        StepRealityFeelDoubt,
				ValidationRules: feelingRules(),
			},
			{
				ID: StepRealityFeelDoubt,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what does it feel like?", sc.Metadata.DoubtReason)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				NextStep:             StepRealityFeelDoubtShift,
				ValidationRules:      feelingRules(),
			},
			{
				ID: StepRealityFeelDoubtShift,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Feel '%s'... what happens in yourself when you feel '%s'?", lastInput, lastInput)
				},
				ExpectedResponseType: models.ResponseTypeFeeling,
				// Router returns to whichever certainty checkpoint the doubt
				// loop was entered from.
				ValidationRules: feelingRules(),
			},
			{
				ID: StepRealityChecking,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("Is there any reason you can't have '%s'?", sc.GoalStatement)
				},
				ExpectedResponseType: models.ResponseTypeYesNo,
				Process: func(input string, sc *models.SessionContext) models.RoutingSignal {
					sig := yesNoSignal(input, models.SignalDoubtFound, models.SignalFullyCertain)
					if sig == models.SignalDoubtFound {
						sc.Metadata.CertaintyCheckpoint = 2
						// No percentage was asked here; a stale complement
						// from the first loop must not leak into the prompt.
						sc.Metadata.DoubtPercent = 0
					}
					return sig
				},
				ValidationRules: yesNoRule(),
			},
			{
				ID: StepRealityCertainty2,
				Render: func(lastInput string, sc *models.SessionContext) string {
					return fmt.Sprintf("How certain are you now, from 0%% to 100%%, that you will achieve '%s'?", sc.GoalStatement)
				},
				ExpectedResponseType: models.ResponseTypeSelection,
				Process:              processCertainty(2),
				ValidationRules: []models.ValidationRule{{
					Type:         models.RuleMinLength,
					IntValue:     1,
					ErrorMessage: "Please give me a percentage from 0 to 100.",
				}},
			},
		},
	}
}

// processCertainty parses the answered percentage. 100% advances; anything
// lower computes the doubt complement and enters the doubt resolution loop,
// remembering which checkpoint to come back to.
func processCertainty(checkpoint int) models.ProcessFunc {
	return func(input string, sc *models.SessionContext) models.RoutingSignal {
		pct, ok := ParsePercent(input)
		if !ok {
			return models.SignalNone
		}
		sc.Metadata.CertaintyPercent = pct
		if pct >= 100 {
			return models.SignalFullyCertain
		}
		sc.Metadata.DoubtPercent = 100 - pct
		sc.Metadata.CertaintyCheckpoint = checkpoint
		return models.SignalDoubtFound
	}
}
