package flow

import (
	"fmt"
	"log/slog"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/script"
)

// TransitionRule computes the destination for one step from the routing
// signal emitted while processing the answer. A zero StepRef falls through
// to the step's static NextStep.
type TransitionRule func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef

// Router computes the next step (possibly in another phase) for the current
// step and session context. All phase/step mutation happens here; an
// unresolvable destination is a fatal configuration error.
type Router struct {
	registry *script.Registry
	rules    map[string]TransitionRule
}

// NewRouter builds the transition table over the given registry.
func NewRouter(registry *script.Registry) *Router {
	r := &Router{registry: registry}
	r.rules = map[string]TransitionRule{
		script.StepWelcome:      r.routeWorkType,
		script.StepChooseMethod: r.routeMethodChosen,

		script.StepProblemDescription:    r.routeProblemDescription,
		script.StepWorkTypeConfirmation:  r.routeConfirmation,
		script.StepGoalDescription:       r.routeSkipToTreatment,
		script.StepExperienceDescription: r.routeSkipToTreatment,

		script.StepCheckIfStillProblem: r.routeProblemCheck(models.MethodProblemShifting),

		script.StepIdentityCheck:        r.routeInnerLoop(models.PhaseIdentityShifting, script.StepIdentityDissolveA, script.StepIdentityProblemCheck),
		script.StepIdentityProblemCheck: r.routeProblemCheck(models.MethodIdentityShifting),

		script.StepBeliefCheck1:       r.routeInnerLoop(models.PhaseBeliefShifting, script.StepBeliefA, script.StepBeliefCheck2),
		script.StepBeliefCheck2:       r.routeBeliefCheck2,
		script.StepBeliefProblemCheck: r.routeProblemCheck(models.MethodBeliefShifting),

		script.StepBlockageCheck: r.routeProblemCheck(models.MethodBlockageShifting),

		script.StepRealityCertainty1:     r.routeCertainty(script.StepRealityChecking),
		script.StepRealityCertainty2:     r.routeCertainty(""),
		script.StepRealityFeelDoubtShift: r.routeDoubtReturn,
		script.StepRealityChecking:       r.routeRealityChecking,

		script.StepTraumaShiftingIntro:   r.routeTraumaComfort,
		script.StepTraumaProblemRedirect: r.routeSkipToTreatment,
		script.StepTraumaIdentityCheck:   r.routeInnerLoop(models.PhaseTraumaShifting, script.StepTraumaDissolveA, script.StepTraumaExperienceCheck),
		script.StepTraumaExperienceCheck: r.routeTraumaExperience,
		script.StepTraumaFutureCheck:     r.routeTraumaFuture,

		script.StepDiggingStart:        r.routeDigCheck(script.StepRestateFuture, script.StepScenarioCheck1),
		script.StepRestateFuture:       r.routeRestate(models.PhaseDiggingDeeper, script.StepScenarioCheck1),
		script.StepScenarioCheck1:      r.routeScenarioCheck(1),
		script.StepScenarioCheck2:      r.routeScenarioCheck(2),
		script.StepScenarioCheck3:      r.routeScenarioCheck(3),
		script.StepRestateScenario:     r.routeRestateScenario,
		script.StepAnythingElseCheck1:  r.routeAnythingElseCheck(1),
		script.StepAnythingElseCheck2:  r.routeAnythingElseCheck(2),
		script.StepAnythingElseCheck3:  r.routeAnythingElseCheck(3),
		script.StepRestateAnythingElse: r.routeRestateAnythingElse,

		script.StepAction2:         r.routeActionLoop,
		script.StepSessionComplete: r.routeSessionComplete,
	}
	return r
}

// Next computes the next step reference for the current step. It returns a
// configuration error when the destination does not exist in the registry.
func (r *Router) Next(step *models.Step, sig models.RoutingSignal, sc *models.SessionContext) (models.StepRef, error) {
	var ref models.StepRef
	if rule, ok := r.rules[step.ID]; ok {
		ref = rule(sig, sc)
	}
	if ref.Step == "" && step.NextStep != "" {
		ref = models.StepRef{Phase: sc.CurrentPhase, Step: step.NextStep}
	}
	if ref.Step == "" {
		// Unclassifiable answer on a routed step: re-ask the same question.
		ref = models.StepRef{Phase: sc.CurrentPhase, Step: step.ID}
	}
	if !r.registry.HasStep(ref.Phase, ref.Step) {
		slog.Error("Router.Next: destination missing from registry", "from", step.ID, "phase", ref.Phase, "step", ref.Step)
		return models.StepRef{}, fmt.Errorf("routing from step %q: %w: %s/%s", step.ID, models.ErrStepNotFound, ref.Phase, ref.Step)
	}
	slog.Debug("Router.Next: routed", "from", step.ID, "signal", sig, "toPhase", ref.Phase, "toStep", ref.Step)
	return ref, nil
}

// treatmentIntro maps a method to its entry step.
func treatmentIntro(m models.Method) models.StepRef {
	switch m {
	case models.MethodProblemShifting:
		return models.StepRef{Phase: models.PhaseProblemShifting, Step: script.StepProblemShiftingIntro}
	case models.MethodIdentityShifting:
		return models.StepRef{Phase: models.PhaseIdentityShifting, Step: script.StepIdentityShiftingIntro}
	case models.MethodBeliefShifting:
		return models.StepRef{Phase: models.PhaseBeliefShifting, Step: script.StepBeliefShiftingIntro}
	case models.MethodBlockageShifting:
		return models.StepRef{Phase: models.PhaseBlockageShifting, Step: script.StepBlockageShiftingIntro}
	case models.MethodRealityShifting:
		return models.StepRef{Phase: models.PhaseRealityShifting, Step: script.StepRealityShiftingIntro}
	case models.MethodTraumaShifting:
		return models.StepRef{Phase: models.PhaseTraumaShifting, Step: script.StepTraumaShiftingIntro}
	default:
		return models.StepRef{}
	}
}

func (r *Router) routeWorkType(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalWorkTypeProblem:
		return models.StepRef{Phase: models.PhaseMethodSelection, Step: script.StepChooseMethod}
	case models.SignalWorkTypeGoal:
		return models.StepRef{Phase: models.PhaseDiscovery, Step: script.StepGoalDescription}
	case models.SignalWorkTypeExperience:
		return models.StepRef{Phase: models.PhaseDiscovery, Step: script.StepExperienceDescription}
	}
	return models.StepRef{}
}

func (r *Router) routeMethodChosen(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	if sig != models.SignalMethodChosen {
		return models.StepRef{}
	}
	// Once a method and a statement both exist, skip confirmation and go
	// straight to the method's intro.
	if sc.ProblemStatement != "" {
		return r.enterTreatment(sc, false)
	}
	return models.StepRef{Phase: models.PhaseDiscovery, Step: script.StepProblemDescription}
}

func (r *Router) routeProblemDescription(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	if sig == models.SignalSkipToTreatment {
		return r.enterTreatment(sc, false)
	}
	return models.StepRef{} // falls through to confirmation
}

func (r *Router) routeConfirmation(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalStatementConfirmed:
		if sc.Metadata.SelectedMethod != "" {
			return r.enterTreatment(sc, false)
		}
		return models.StepRef{Phase: models.PhaseMethodSelection, Step: script.StepChooseMethod}
	case models.SignalStatementRejected:
		return models.StepRef{Phase: models.PhaseDiscovery, Step: script.StepProblemDescription}
	}
	return models.StepRef{}
}

func (r *Router) routeSkipToTreatment(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	if sig == models.SignalSkipToTreatment {
		return r.enterTreatment(sc, false)
	}
	return models.StepRef{}
}

// enterTreatment positions the session at the selected method's intro step.
// When re-entering (a repeat cycle or a digging-deeper restatement) the long
// intro instructions are suppressed.
func (r *Router) enterTreatment(sc *models.SessionContext, repeat bool) models.StepRef {
	method := sc.Metadata.SelectedMethod
	if repeat {
		// Restated problems are problems: goal and trauma methods hand
		// nested digging-deeper work to Problem Shifting.
		if method == models.MethodRealityShifting || method == models.MethodTraumaShifting {
			method = models.MethodProblemShifting
		}
		sc.Metadata.CycleCount = 0
		sc.Metadata.SkipIntro = true
	}
	return treatmentIntro(method)
}

// routeProblemCheck implements the per-method completion loop: "yes" cycles
// back to the method's first step, "no" advances to digging deeper or, for
// nested loops, back to the stored return-to pointer.
func (r *Router) routeProblemCheck(m models.Method) TransitionRule {
	return func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
		switch sig {
		case models.SignalStillPresent:
			sc.Metadata.CycleCount++
			sc.Metadata.SkipIntro = true
			return treatmentIntro(m)
		case models.SignalResolved:
			return r.resolveTreatment(sc)
		}
		return models.StepRef{}
	}
}

// resolveTreatment routes a finished treatment loop onward. A nested
// digging-deeper loop returns to the next sub-loop check, not to the top.
func (r *Router) resolveTreatment(sc *models.SessionContext) models.StepRef {
	sc.Metadata.DiggingProblem = ""
	sc.Metadata.SkipIntro = false
	if sc.Metadata.ReturnStep != "" {
		ref := models.StepRef{Phase: sc.Metadata.ReturnPhase, Step: sc.Metadata.ReturnStep}
		sc.Metadata.ReturnPhase = ""
		sc.Metadata.ReturnStep = ""
		return ref
	}
	if sc.Metadata.WorkType == models.WorkTypeGoal {
		return models.StepRef{Phase: models.PhaseIntegration, Step: script.StepAwareness1}
	}
	return models.StepRef{Phase: models.PhaseDiggingDeeper, Step: script.StepDiggingStart}
}

// routeInnerLoop handles the inner "can you still feel it" checks: "yes"
// repeats the dissolve sequence, "no" advances within the same phase.
func (r *Router) routeInnerLoop(phase models.PhaseName, repeatStep, doneStep string) TransitionRule {
	return func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
		switch sig {
		case models.SignalStillPresent:
			return models.StepRef{Phase: phase, Step: repeatStep}
		case models.SignalResolved:
			return models.StepRef{Phase: phase, Step: doneStep}
		}
		return models.StepRef{}
	}
}

func (r *Router) routeBeliefCheck2(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalResolved: // positive belief has landed
		return models.StepRef{Phase: models.PhaseBeliefShifting, Step: script.StepBeliefProblemCheck}
	case models.SignalStillPresent:
		return models.StepRef{Phase: models.PhaseBeliefShifting, Step: script.StepBeliefA}
	}
	return models.StepRef{}
}

// routeCertainty handles the Reality Shifting certainty checkpoints. 100%
// advances (to the checking questions, then integration); any lower value
// enters the doubt resolution micro-loop.
func (r *Router) routeCertainty(advanceStep string) TransitionRule {
	return func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
		switch sig {
		case models.SignalFullyCertain:
			if advanceStep == "" {
				return models.StepRef{Phase: models.PhaseIntegration, Step: script.StepAwareness1}
			}
			return models.StepRef{Phase: models.PhaseRealityShifting, Step: advanceStep}
		case models.SignalDoubtFound:
			return models.StepRef{Phase: models.PhaseRealityShifting, Step: script.StepRealityDoubtReason}
		}
		return models.StepRef{}
	}
}

// routeDoubtReturn re-asks whichever certainty checkpoint the doubt loop was
// entered from.
func (r *Router) routeDoubtReturn(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	if sc.Metadata.CertaintyCheckpoint == 2 {
		return models.StepRef{Phase: models.PhaseRealityShifting, Step: script.StepRealityCertainty2}
	}
	return models.StepRef{Phase: models.PhaseRealityShifting, Step: script.StepRealityCertainty1}
}

func (r *Router) routeRealityChecking(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalDoubtFound:
		return models.StepRef{Phase: models.PhaseRealityShifting, Step: script.StepRealityDoubtReason}
	case models.SignalFullyCertain:
		return models.StepRef{Phase: models.PhaseRealityShifting, Step: script.StepRealityCertainty2}
	}
	return models.StepRef{}
}

func (r *Router) routeTraumaComfort(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalStatementConfirmed:
		return models.StepRef{Phase: models.PhaseTraumaShifting, Step: script.StepTraumaIdentity}
	case models.SignalNotComfortable:
		return models.StepRef{Phase: models.PhaseTraumaShifting, Step: script.StepTraumaProblemRedirect}
	}
	return models.StepRef{}
}

func (r *Router) routeTraumaExperience(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalStillPresent:
		sc.Metadata.CycleCount++
		sc.Metadata.SkipIntro = true
		return models.StepRef{Phase: models.PhaseTraumaShifting, Step: script.StepTraumaIdentity}
	case models.SignalResolved:
		return models.StepRef{Phase: models.PhaseTraumaShifting, Step: script.StepTraumaFutureCheck}
	}
	return models.StepRef{}
}

func (r *Router) routeTraumaFuture(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalResolved:
		return r.resolveTreatment(sc)
	case models.SignalStillPresent:
		sc.Metadata.CycleCount++
		sc.Metadata.SkipIntro = true
		return models.StepRef{Phase: models.PhaseTraumaShifting, Step: script.StepTraumaIdentity}
	}
	return models.StepRef{}
}

func (r *Router) routeDigCheck(yesStep, noStep string) TransitionRule {
	return func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
		switch sig {
		case models.SignalDigYes:
			return models.StepRef{Phase: models.PhaseDiggingDeeper, Step: yesStep}
		case models.SignalDigNo:
			return models.StepRef{Phase: models.PhaseDiggingDeeper, Step: noStep}
		}
		return models.StepRef{}
	}
}

// routeRestate re-enters the original method's treatment loop on the newly
// stated problem with a stored return-to pointer.
func (r *Router) routeRestate(returnPhase models.PhaseName, returnStep string) TransitionRule {
	return func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
		sc.Metadata.ReturnPhase = returnPhase
		sc.Metadata.ReturnStep = returnStep
		return r.enterTreatment(sc, true)
	}
}

func (r *Router) routeScenarioCheck(n int) TransitionRule {
	return func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
		switch sig {
		case models.SignalDigYes:
			sc.Metadata.ScenarioCount = n
			return models.StepRef{Phase: models.PhaseDiggingDeeper, Step: script.StepRestateScenario}
		case models.SignalDigNo:
			return models.StepRef{Phase: models.PhaseDiggingDeeper, Step: script.StepAnythingElseCheck1}
		}
		return models.StepRef{}
	}
}

func (r *Router) routeRestateScenario(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	var returnStep string
	switch sc.Metadata.ScenarioCount {
	case 1:
		returnStep = script.StepScenarioCheck2
	case 2:
		returnStep = script.StepScenarioCheck3
	default:
		returnStep = script.StepAnythingElseCheck1
	}
	sc.Metadata.ReturnPhase = models.PhaseDiggingDeeper
	sc.Metadata.ReturnStep = returnStep
	return r.enterTreatment(sc, true)
}

func (r *Router) routeAnythingElseCheck(n int) TransitionRule {
	return func(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
		switch sig {
		case models.SignalDigYes:
			sc.Metadata.AnythingElseCount = n
			return models.StepRef{Phase: models.PhaseDiggingDeeper, Step: script.StepRestateAnythingElse}
		case models.SignalDigNo:
			return models.StepRef{Phase: models.PhaseIntegration, Step: script.StepAwareness1}
		}
		return models.StepRef{}
	}
}

func (r *Router) routeRestateAnythingElse(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sc.Metadata.AnythingElseCount {
	case 1:
		sc.Metadata.ReturnPhase = models.PhaseDiggingDeeper
		sc.Metadata.ReturnStep = script.StepAnythingElseCheck2
	case 2:
		sc.Metadata.ReturnPhase = models.PhaseDiggingDeeper
		sc.Metadata.ReturnStep = script.StepAnythingElseCheck3
	default:
		// Sub-loops exhausted: the nested loop resolves straight into
		// integration.
		sc.Metadata.ReturnPhase = models.PhaseIntegration
		sc.Metadata.ReturnStep = script.StepAwareness1
	}
	return r.enterTreatment(sc, true)
}

func (r *Router) routeActionLoop(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	switch sig {
	case models.SignalResolved:
		return models.StepRef{Phase: models.PhaseIntegration, Step: script.StepAction3}
	case models.SignalStillPresent:
		return models.StepRef{Phase: models.PhaseIntegration, Step: script.StepAction2}
	}
	return models.StepRef{}
}

func (r *Router) routeSessionComplete(sig models.RoutingSignal, sc *models.SessionContext) models.StepRef {
	return models.StepRef{Phase: models.PhaseIntegration, Step: script.StepSessionComplete}
}
