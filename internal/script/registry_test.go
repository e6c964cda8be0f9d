package script

import (
	"strings"
	"testing"

	"github.com/BTreeMap/MindShift/internal/models"
)

func TestRegistryContainsAllPhases(t *testing.T) {
	r := NewRegistry()

	phases := []models.PhaseName{
		models.PhaseIntroduction,
		models.PhaseDiscovery,
		models.PhaseMethodSelection,
		models.PhaseProblemShifting,
		models.PhaseIdentityShifting,
		models.PhaseBeliefShifting,
		models.PhaseBlockageShifting,
		models.PhaseRealityShifting,
		models.PhaseTraumaShifting,
		models.PhaseDiggingDeeper,
		models.PhaseIntegration,
	}
	for _, p := range phases {
		if _, err := r.GetPhase(p); err != nil {
			t.Errorf("GetPhase(%s): %v", p, err)
		}
	}

	if !r.HasStep(OpeningPhase, OpeningStep) {
		t.Errorf("opening step %s/%s missing", OpeningPhase, OpeningStep)
	}
	if _, err := r.GetStep(models.PhaseIntegration, "no_such_step"); err == nil {
		t.Error("expected error for unknown step")
	}
}

func TestProcessWorkTypeSelection(t *testing.T) {
	tests := []struct {
		input    string
		want     models.RoutingSignal
		wantType models.WorkType
	}{
		{"1", models.SignalWorkTypeProblem, models.WorkTypeProblem},
		{"I have a problem", models.SignalWorkTypeProblem, models.WorkTypeProblem},
		{"2", models.SignalWorkTypeGoal, models.WorkTypeGoal},
		{"a goal", models.SignalWorkTypeGoal, models.WorkTypeGoal},
		{"3", models.SignalWorkTypeExperience, models.WorkTypeNegativeExperience},
		{"negative experience", models.SignalWorkTypeExperience, models.WorkTypeNegativeExperience},
		{"something else", models.SignalNone, ""},
	}
	for _, tt := range tests {
		sc := models.NewSessionContext("s1", "u1", OpeningPhase, OpeningStep)
		got := processWorkTypeSelection(tt.input, sc)
		if got != tt.want {
			t.Errorf("processWorkTypeSelection(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if sc.Metadata.WorkType != tt.wantType {
			t.Errorf("processWorkTypeSelection(%q) work type = %q, want %q", tt.input, sc.Metadata.WorkType, tt.wantType)
		}
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"100", 100, true},
		{"about 70%", 70, true},
		{"0", 0, true},
		{"110", 0, false},
		{"sure", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePercent(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePercent(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestYesNoSignalAgreementWins(t *testing.T) {
	if got := yesNoSignal("yes", models.SignalStillPresent, models.SignalResolved); got != models.SignalStillPresent {
		t.Errorf("yes = %v, want still present", got)
	}
	if got := yesNoSignal("no, it's gone", models.SignalStillPresent, models.SignalResolved); got != models.SignalResolved {
		t.Errorf("no = %v, want resolved", got)
	}
	// Answers containing both polarities classify as agreement.
	if got := yesNoSignal("yes and no", models.SignalStillPresent, models.SignalResolved); got != models.SignalStillPresent {
		t.Errorf("mixed answer = %v, want agreement", got)
	}
	if got := yesNoSignal("maybe", models.SignalStillPresent, models.SignalResolved); got != models.SignalNone {
		t.Errorf("unclassifiable = %v, want none", got)
	}
}

func TestProblemShiftingIntroSkipsInstructions(t *testing.T) {
	r := NewRegistry()
	step, err := r.GetStep(models.PhaseProblemShifting, StepProblemShiftingIntro)
	if err != nil {
		t.Fatalf("GetStep: %v", err)
	}

	sc := models.NewSessionContext("s1", "u1", models.PhaseProblemShifting, StepProblemShiftingIntro)
	sc.ProblemStatement = "I feel stuck in my job"

	first := step.Render("", sc)
	if !strings.Contains(first, "close your eyes") {
		t.Errorf("first render should include instructions: %q", first)
	}
	if !strings.Contains(first, "'I feel stuck in my job'") {
		t.Errorf("render should quote the problem verbatim: %q", first)
	}

	sc.Metadata.SkipIntro = true
	repeat := step.Render("", sc)
	if strings.Contains(repeat, "close your eyes") {
		t.Errorf("repeat render should skip instructions: %q", repeat)
	}
}

func TestRealityDoubtReasonWording(t *testing.T) {
	r := NewRegistry()
	reason, err := r.GetStep(models.PhaseRealityShifting, StepRealityDoubtReason)
	if err != nil {
		t.Fatalf("GetStep: %v", err)
	}

	sc := models.NewSessionContext("s1", "u1", models.PhaseRealityShifting, StepRealityCertainty1)
	sc.GoalStatement = "run a marathon"

	// First certainty checkpoint: 70% certain leaves 30% doubt.
	certainty, err := r.GetStep(models.PhaseRealityShifting, StepRealityCertainty1)
	if err != nil {
		t.Fatalf("GetStep: %v", err)
	}
	if sig := certainty.Process("70", sc); sig != models.SignalDoubtFound {
		t.Fatalf("Process(70) = %v, want doubt found", sig)
	}
	out := reason.Render("", sc)
	if !strings.Contains(out, "30% doubt") {
		t.Errorf("doubt prompt should carry the complement: %q", out)
	}

	// The checking question asks for a reason, not a percentage, so the
	// stale complement must not appear when the doubt loop re-enters there.
	checking, err := r.GetStep(models.PhaseRealityShifting, StepRealityChecking)
	if err != nil {
		t.Fatalf("GetStep: %v", err)
	}
	if sig := checking.Process("yes", sc); sig != models.SignalDoubtFound {
		t.Fatalf("Process(yes) = %v, want doubt found", sig)
	}
	if sc.Metadata.CertaintyCheckpoint != 2 {
		t.Errorf("CertaintyCheckpoint = %d, want 2", sc.Metadata.CertaintyCheckpoint)
	}
	out = reason.Render("", sc)
	if strings.Contains(out, "%") {
		t.Errorf("doubt prompt should drop the percentage here: %q", out)
	}
	if !strings.Contains(out, "run a marathon") {
		t.Errorf("doubt prompt should still name the goal: %q", out)
	}
}

func TestRestateProblemMarksMultiple(t *testing.T) {
	sc := models.NewSessionContext("s1", "u1", models.PhaseDiggingDeeper, StepRestateFuture)
	sc.ProblemStatement = "original problem"

	restateProblem("  I worry about money  ", sc)
	if sc.Metadata.DiggingProblem != "I worry about money" {
		t.Errorf("DiggingProblem = %q", sc.Metadata.DiggingProblem)
	}
	if !sc.Metadata.MultipleProblems {
		t.Error("MultipleProblems should be set")
	}
	if sc.ActiveStatement() != "I worry about money" {
		t.Errorf("ActiveStatement = %q, want restated problem", sc.ActiveStatement())
	}
	if sc.SubjectReference() != "the whole topic" {
		t.Errorf("SubjectReference = %q, want the whole topic", sc.SubjectReference())
	}
}

func TestSetActiveProblem(t *testing.T) {
	sc := models.NewSessionContext("s1", "u1", models.PhaseBlockageShifting, StepBlockageB)
	sc.ProblemStatement = "first"

	setActiveProblem(sc, "second")
	if sc.ProblemStatement != "second" {
		t.Errorf("ProblemStatement = %q, want second", sc.ProblemStatement)
	}

	sc.Metadata.DiggingProblem = "nested"
	setActiveProblem(sc, "third")
	if sc.Metadata.DiggingProblem != "third" {
		t.Errorf("DiggingProblem = %q, want third", sc.Metadata.DiggingProblem)
	}
	if sc.ProblemStatement != "second" {
		t.Errorf("ProblemStatement should be untouched during digging, got %q", sc.ProblemStatement)
	}
}

func TestIdentityIntroStoresProcessedIdentity(t *testing.T) {
	r := NewRegistry()
	step, err := r.GetStep(models.PhaseIdentityShifting, StepIdentityShiftingIntro)
	if err != nil {
		t.Fatalf("GetStep: %v", err)
	}
	if step.Process == nil {
		t.Fatal("identity intro should process its answer")
	}

	sc := models.NewSessionContext("s1", "u1", models.PhaseIdentityShifting, StepIdentityShiftingIntro)
	step.Process("I'm being a sad child", sc)
	if sc.Metadata.CurrentIdentity != "sad child" {
		t.Errorf("CurrentIdentity = %q, want sad child", sc.Metadata.CurrentIdentity)
	}
}
