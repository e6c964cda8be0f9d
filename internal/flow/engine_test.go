package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/script"
	"github.com/BTreeMap/MindShift/internal/store"
)

func mustProcess(t *testing.T, e *Engine, sessionID, input string) *models.ProcessingResult {
	t.Helper()
	res, err := e.ProcessInput(context.Background(), sessionID, "u1", input)
	if err != nil {
		t.Fatalf("ProcessInput(%q): %v", input, err)
	}
	return res
}

func TestStartOpensSessionWithWelcome(t *testing.T) {
	e := NewEngine()

	res := mustProcess(t, e, "s1", "start")
	if !res.CanContinue {
		t.Error("start should continue")
	}
	if res.NextStep != script.StepWelcome {
		t.Errorf("NextStep = %q, want welcome", res.NextStep)
	}
	if !strings.Contains(res.ScriptedResponse, "Welcome to Mind Shifting") {
		t.Errorf("opening message missing welcome text: %q", res.ScriptedResponse)
	}

	// A second start re-renders the current question without advancing.
	res = mustProcess(t, e, "s1", "start")
	if res.NextStep != script.StepWelcome {
		t.Errorf("repeated start moved to %q", res.NextStep)
	}
}

func TestProblemPathReachesTreatmentWithVerbatimStatement(t *testing.T) {
	e := NewEngine()
	const sid = "s-problem"

	mustProcess(t, e, sid, "start")

	res := mustProcess(t, e, sid, "1")
	if res.NextStep != script.StepChooseMethod {
		t.Fatalf("after work type, NextStep = %q", res.NextStep)
	}

	res = mustProcess(t, e, sid, "problem shifting")
	if res.NextStep != script.StepProblemDescription {
		t.Fatalf("after method choice, NextStep = %q", res.NextStep)
	}

	res = mustProcess(t, e, sid, "I feel stuck in my job")
	if res.NextStep != script.StepProblemShiftingIntro {
		t.Fatalf("after problem description, NextStep = %q", res.NextStep)
	}
	if !strings.Contains(res.ScriptedResponse, "Feel the problem 'I feel stuck in my job'") {
		t.Errorf("treatment intro should carry the statement: %q", res.ScriptedResponse)
	}
}

func TestStatementConfirmationLoop(t *testing.T) {
	e := NewEngine()
	const sid = "s-confirm"

	// Seed a session at the confirmation question with no method chosen yet.
	mustProcess(t, e, sid, "start")
	e.mu.Lock()
	e.sessions[sid].CurrentPhase = models.PhaseDiscovery
	e.sessions[sid].CurrentStep = script.StepWorkTypeConfirmation
	e.sessions[sid].ProblemStatement = "I feel stuck"
	e.mu.Unlock()

	res := mustProcess(t, e, sid, "no")
	if res.NextStep != script.StepProblemDescription {
		t.Fatalf("rejected statement should re-ask the problem, got %q", res.NextStep)
	}

	res = mustProcess(t, e, sid, "I feel ignored at work")
	if res.NextStep != script.StepWorkTypeConfirmation {
		t.Fatalf("restated problem should go back to confirmation, got %q", res.NextStep)
	}
	if !strings.Contains(res.ScriptedResponse, "'I feel ignored at work'") {
		t.Errorf("confirmation should quote the statement verbatim: %q", res.ScriptedResponse)
	}

	res = mustProcess(t, e, sid, "yes")
	if res.NextStep != script.StepChooseMethod {
		t.Fatalf("confirmed statement without a method should pick one, got %q", res.NextStep)
	}
}

func TestStartReissuesQuestionAroundLastAnswer(t *testing.T) {
	e := NewEngine()
	const sid = "s-reissue"

	mustProcess(t, e, sid, "start")
	mustProcess(t, e, sid, "1")
	mustProcess(t, e, sid, "1")
	mustProcess(t, e, sid, "I feel stuck in my job")

	res := mustProcess(t, e, sid, "tight chest")
	if res.NextStep != script.StepBodySensationCheck {
		t.Fatalf("after the first feeling, NextStep = %q", res.NextStep)
	}
	if !strings.Contains(res.ScriptedResponse, "'tight chest'") {
		t.Fatalf("question should quote the answer: %q", res.ScriptedResponse)
	}

	// Re-issuing the question must render around the recorded answer, not
	// around empty input.
	res = mustProcess(t, e, sid, "start")
	if res.NextStep != script.StepBodySensationCheck {
		t.Fatalf("start moved the session to %q", res.NextStep)
	}
	if !strings.Contains(res.ScriptedResponse, "'tight chest'") {
		t.Errorf("re-issued question lost the answer: %q", res.ScriptedResponse)
	}
	if strings.Contains(res.ScriptedResponse, "''") {
		t.Errorf("re-issued question rendered empty quotes: %q", res.ScriptedResponse)
	}
}

func TestGoalPathSkipsMethodSelection(t *testing.T) {
	e := NewEngine()
	const sid = "s-goal"

	mustProcess(t, e, sid, "start")
	res := mustProcess(t, e, sid, "2")
	if res.NextStep != script.StepGoalDescription {
		t.Fatalf("after goal choice, NextStep = %q", res.NextStep)
	}

	res = mustProcess(t, e, sid, "I want to run a marathon")
	if res.NextStep != script.StepRealityShiftingIntro {
		t.Fatalf("goal should go straight to Reality Shifting, got %q", res.NextStep)
	}
}

func TestValidationFailureStaysOnStep(t *testing.T) {
	e := NewEngine()
	const sid = "s-invalid"

	mustProcess(t, e, sid, "start")
	res := mustProcess(t, e, sid, "banana")
	if res.CanContinue {
		t.Error("invalid selection should not continue")
	}
	if res.NextStep != script.StepWelcome {
		t.Errorf("session moved to %q on invalid input", res.NextStep)
	}
	if !strings.Contains(res.ScriptedResponse, "choose 1") {
		t.Errorf("expected the step's error message, got %q", res.ScriptedResponse)
	}
}

func TestSemanticMismatchGetsCorrectiveMessage(t *testing.T) {
	e := NewEngine()
	const sid = "s-semantic"

	mustProcess(t, e, sid, "start")
	mustProcess(t, e, sid, "1")
	mustProcess(t, e, sid, "1")

	res := mustProcess(t, e, sid, "I want to get a promotion")
	if res.CanContinue {
		t.Error("goal phrasing at the problem step should not continue")
	}
	if res.Reason != string(models.SubKindProblemVsGoal) {
		t.Errorf("Reason = %q, want problem_vs_goal", res.Reason)
	}
	if !strings.Contains(res.ScriptedResponse, "goal") {
		t.Errorf("corrective message should explain the mismatch: %q", res.ScriptedResponse)
	}
}

func TestEscalationTriggerRaisesAssistance(t *testing.T) {
	e := NewEngine()
	const sid = "s-escalate"

	mustProcess(t, e, sid, "start")
	res := mustProcess(t, e, sid, "i'm confused")
	if res.CanContinue {
		t.Error("escalation should keep the session on the same step")
	}
	if res.NeedsAssistance == nil {
		t.Fatal("NeedsAssistance should be populated")
	}
	if res.NeedsAssistance.UserInput != "i'm confused" {
		t.Errorf("UserInput = %q", res.NeedsAssistance.UserInput)
	}
	// No provider configured, so the scripted fallback is used.
	if res.ScriptedResponse == "" {
		t.Error("escalation should still produce a response")
	}
}

func TestSessionRehydratesFromStore(t *testing.T) {
	st := store.NewInMemoryStore()
	const sid = "s-rehydrate"

	e1 := NewEngine(WithStore(st))
	mustProcess(t, e1, sid, "start")
	mustProcess(t, e1, sid, "1")
	mustProcess(t, e1, sid, "1")
	mustProcess(t, e1, sid, "I feel stuck in my job")
	mustProcess(t, e1, sid, "tight chest")

	// Fresh engine sharing the store: the session resumes mid-dialogue and
	// the re-issued question still quotes the last recorded answer.
	e2 := NewEngine(WithStore(st))
	res := mustProcess(t, e2, sid, "start")
	if res.NextStep != script.StepBodySensationCheck {
		t.Fatalf("rehydrated session at %q, want the body sensation check", res.NextStep)
	}
	if !strings.Contains(res.ScriptedResponse, "'tight chest'") {
		t.Errorf("rehydrated render lost the last answer: %q", res.ScriptedResponse)
	}
}

func TestSessionCompletion(t *testing.T) {
	e := NewEngine()
	const sid = "s-complete"

	// Seed a session at the last integration question.
	mustProcess(t, e, sid, "start")
	e.mu.Lock()
	e.sessions[sid].CurrentPhase = models.PhaseIntegration
	e.sessions[sid].CurrentStep = script.StepAction4
	e.sessions[sid].ProblemStatement = "I feel stuck"
	e.mu.Unlock()

	res := mustProcess(t, e, sid, "I'll call my manager tomorrow morning")
	if !res.SessionComplete {
		t.Error("reaching the closing step should mark the session complete")
	}
	if res.NextStep != script.StepSessionComplete {
		t.Errorf("NextStep = %q, want session_complete", res.NextStep)
	}
}

func TestGetSessionReturnsDetachedCopy(t *testing.T) {
	e := NewEngine()
	const sid = "s-copy"

	mustProcess(t, e, sid, "start")
	mustProcess(t, e, sid, "1")

	sc, err := e.GetSession(context.Background(), sid)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	sc.UserResponses[script.StepWelcome] = "tampered"
	sc.CurrentStep = "tampered"

	again, err := e.GetSession(context.Background(), sid)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if again.UserResponses[script.StepWelcome] != "1" {
		t.Errorf("mutating the copy leaked into the live session: %q", again.UserResponses[script.StepWelcome])
	}
	if again.CurrentStep != script.StepChooseMethod {
		t.Errorf("CurrentStep = %q, want choose_method", again.CurrentStep)
	}
}

func TestGetSessionConcurrentWithProcessing(t *testing.T) {
	e := NewEngine()
	const sid = "s-race"

	// Seed a session on the integration action loop, which stays on the same
	// step while rewriting phase, step and responses every turn.
	mustProcess(t, e, sid, "start")
	e.mu.Lock()
	e.sessions[sid].CurrentPhase = models.PhaseIntegration
	e.sessions[sid].CurrentStep = script.StepAction2
	e.sessions[sid].ProblemStatement = "I feel stuck"
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if _, err := e.GetSession(context.Background(), sid); err != nil {
				t.Errorf("GetSession: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 100; i++ {
		mustProcess(t, e, sid, "I should also tidy my desk")
	}
	<-done
}

func TestResetSession(t *testing.T) {
	e := NewEngine()
	const sid = "s-reset"

	mustProcess(t, e, sid, "start")
	if err := e.ResetSession(context.Background(), sid); err != nil {
		t.Fatalf("ResetSession: %v", err)
	}
	if _, err := e.GetSession(context.Background(), sid); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("GetSession after reset = %v, want ErrSessionNotFound", err)
	}

	// A new start opens a fresh session at the welcome step.
	res := mustProcess(t, e, sid, "start")
	if res.NextStep != script.StepWelcome {
		t.Errorf("restarted session at %q", res.NextStep)
	}
}

func TestEmptySessionIDRejected(t *testing.T) {
	e := NewEngine()
	if _, err := e.ProcessInput(context.Background(), "", "u1", "start"); !errors.Is(err, models.ErrEmptySessionID) {
		t.Errorf("ProcessInput with empty id = %v, want ErrEmptySessionID", err)
	}
}

func TestPruneIdleSessions(t *testing.T) {
	e := NewEngine()
	mustProcess(t, e, "s-idle", "start")

	if n := e.PruneIdleSessions(0); n != 1 {
		t.Errorf("PruneIdleSessions = %d, want 1", n)
	}

	// The snapshot survives, so the session rehydrates instead of restarting.
	res := mustProcess(t, e, "s-idle", "start")
	if res.NextStep != script.StepWelcome {
		t.Errorf("rehydrated pruned session at %q", res.NextStep)
	}
}

func TestPruneKeepsSessionLocks(t *testing.T) {
	e := NewEngine()
	const sid = "s-idle-lock"

	mustProcess(t, e, sid, "start")
	before := e.sessionLock(sid)
	e.PruneIdleSessions(0)

	// A request in flight may still hold the mutex; eviction must not mint a
	// second one for the same session.
	if after := e.sessionLock(sid); after != before {
		t.Error("prune replaced the per-session lock")
	}
}
