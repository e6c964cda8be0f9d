package flow

import (
	"testing"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/script"
)

func getStep(t *testing.T, reg *script.Registry, phase models.PhaseName, id string) *models.Step {
	t.Helper()
	step, err := reg.GetStep(phase, id)
	if err != nil {
		t.Fatalf("GetStep(%s/%s): %v", phase, id, err)
	}
	return step
}

func TestValidateEmptyInput(t *testing.T) {
	reg := script.NewRegistry()
	v := NewValidator()
	step := getStep(t, reg, script.OpeningPhase, script.OpeningStep)
	sc := models.NewSessionContext("s1", "u1", script.OpeningPhase, script.OpeningStep)

	for _, input := range []string{"", "   ", "\n\t"} {
		res := v.Validate(input, step, sc)
		if res.OK || res.Kind != models.ValidationEmpty {
			t.Errorf("Validate(%q) = %+v, want empty failure", input, res)
		}
	}
}

func TestValidateSemanticProblemStatement(t *testing.T) {
	reg := script.NewRegistry()
	v := NewValidator()
	step := getStep(t, reg, models.PhaseDiscovery, script.StepProblemDescription)
	sc := models.NewSessionContext("s1", "u1", models.PhaseDiscovery, script.StepProblemDescription)

	tests := []struct {
		input   string
		subKind models.SemanticSubKind
	}{
		{"I want to get a promotion", models.SubKindProblemVsGoal},
		{"why do I always mess up?", models.SubKindProblemVsQuestion},
		{"I feel anxious and I can't sleep", models.SubKindMultipleProblems},
		{"sadness", models.SubKindSingleEmotion},
	}
	for _, tt := range tests {
		res := v.Validate(tt.input, step, sc)
		if res.OK || res.Kind != models.ValidationNeedsAI || res.SubKind != tt.subKind {
			t.Errorf("Validate(%q) = %+v, want needs-ai %s", tt.input, res, tt.subKind)
		}
	}

	// A plain problem statement passes.
	if res := v.Validate("I feel stuck in my job", step, sc); !res.OK {
		t.Errorf("Validate(problem statement) = %+v, want ok", res)
	}
	// Problem phrasing that mentions a want is still a problem.
	if res := v.Validate("I can't get out of bed", step, sc); !res.OK {
		t.Errorf("Validate(%q) = %+v, want ok", "I can't get out of bed", res)
	}
}

func TestValidateSemanticGoalStatement(t *testing.T) {
	reg := script.NewRegistry()
	v := NewValidator()
	step := getStep(t, reg, models.PhaseDiscovery, script.StepGoalDescription)
	sc := models.NewSessionContext("s1", "u1", models.PhaseDiscovery, script.StepGoalDescription)

	res := v.Validate("I can't stop procrastinating", step, sc)
	if res.OK || res.SubKind != models.SubKindGoalVsProblem {
		t.Errorf("problem phrasing at goal step = %+v, want goal_vs_problem", res)
	}

	res = v.Validate("should I change careers?", step, sc)
	if res.OK || res.SubKind != models.SubKindGoalVsQuestion {
		t.Errorf("question at goal step = %+v, want goal_vs_question", res)
	}

	if res := v.Validate("I want to run a marathon", step, sc); !res.OK {
		t.Errorf("goal statement = %+v, want ok", res)
	}
}

func TestValidateSemanticExperience(t *testing.T) {
	reg := script.NewRegistry()
	v := NewValidator()
	step := getStep(t, reg, models.PhaseDiscovery, script.StepExperienceDescription)
	sc := models.NewSessionContext("s1", "u1", models.PhaseDiscovery, script.StepExperienceDescription)

	res := v.Validate("I was bullied every time I went to school", step, sc)
	if res.OK || res.SubKind != models.SubKindMultipleEvents {
		t.Errorf("recurring-event language = %+v, want multiple_events", res)
	}

	if res := v.Validate("the car accident last May", step, sc); !res.OK {
		t.Errorf("single event = %+v, want ok", res)
	}
}

func TestValidateGenericRules(t *testing.T) {
	reg := script.NewRegistry()
	v := NewValidator()
	sc := models.NewSessionContext("s1", "u1", models.PhaseProblemShifting, script.StepProblemShiftingIntro)

	feeling := getStep(t, reg, models.PhaseProblemShifting, script.StepProblemShiftingIntro)
	if res := v.Validate("x", feeling, sc); res.OK || res.Kind != models.ValidationTooShort {
		t.Errorf("one-char feeling = %+v, want too_short", res)
	}

	yesNo := getStep(t, reg, models.PhaseProblemShifting, script.StepCheckIfStillProblem)
	if res := v.Validate("perhaps later", yesNo, sc); res.OK || res.Kind != models.ValidationKeywords {
		t.Errorf("non yes/no = %+v, want missing_keywords", res)
	}
	if res := v.Validate("yes", yesNo, sc); !res.OK {
		t.Errorf("yes = %+v, want ok", res)
	}
}

func TestValidatePercentFormat(t *testing.T) {
	reg := script.NewRegistry()
	v := NewValidator()
	step := getStep(t, reg, models.PhaseRealityShifting, script.StepRealityCertainty1)
	sc := models.NewSessionContext("s1", "u1", models.PhaseRealityShifting, script.StepRealityCertainty1)

	if res := v.Validate("pretty sure", step, sc); res.OK || res.Kind != models.ValidationFormat {
		t.Errorf("non-numeric certainty = %+v, want bad_format", res)
	}
	if res := v.Validate("about 80%", step, sc); !res.OK {
		t.Errorf("80%% = %+v, want ok", res)
	}
	if res := v.Validate("150", step, sc); res.OK || res.Kind != models.ValidationFormat {
		t.Errorf("150 = %+v, want bad_format", res)
	}
}
