package script

// Step ids. Globally unique across phases so transition rules and stored
// answers are unambiguous.
const (
	// Introduction.
	StepWelcome = "mind_shifting_explanation"

	// Discovery.
	StepProblemDescription    = "problem_description"
	StepWorkTypeConfirmation  = "work_type_confirmation"
	StepGoalDescription       = "goal_description"
	StepExperienceDescription = "negative_experience_description"

	// Method selection.
	StepChooseMethod = "choose_method"

	// Problem Shifting.
	StepProblemShiftingIntro = "problem_shifting_intro"
	StepBodySensationCheck   = "body_sensation_check"
	StepWhatNeedsToHappen    = "what_needs_to_happen_step"
	StepFeelSolutionState    = "feel_solution_state"
	StepFeelGoodState        = "feel_good_state"
	StepWhatHappens          = "what_happens_step"
	StepCheckIfStillProblem  = "check_if_still_problem"

	// Identity Shifting.
	StepIdentityShiftingIntro = "identity_shifting_intro"
	StepIdentityDissolveA     = "identity_dissolve_step_a"
	StepIdentityDissolveB     = "identity_dissolve_step_b"
	StepIdentityDissolveC     = "identity_dissolve_step_c"
	StepIdentityDissolveD     = "identity_dissolve_step_d"
	StepIdentityCheck         = "identity_check"
	StepIdentityProblemCheck  = "identity_problem_check"

	// Belief Shifting.
	StepBeliefShiftingIntro = "belief_shifting_intro"
	StepBeliefA             = "belief_step_a"
	StepBeliefB             = "belief_step_b"
	StepBeliefC             = "belief_step_c"
	StepBeliefD             = "belief_step_d"
	StepBeliefE             = "belief_step_e"
	StepBeliefCheck1        = "belief_check_1"
	StepBeliefCheck2        = "belief_check_2"
	StepBeliefProblemCheck  = "belief_problem_check"

	// Blockage Shifting.
	StepBlockageShiftingIntro = "blockage_shifting_intro"
	StepBlockageB             = "blockage_step_b"
	StepBlockageC             = "blockage_step_c"
	StepBlockageD             = "blockage_step_d"
	StepBlockageCheck         = "blockage_check_if_still_problem"

	// Reality Shifting.
	StepRealityShiftingIntro  = "reality_shifting_intro"
	StepRealityA2             = "reality_step_a2"
	StepRealityA3             = "reality_step_a3"
	StepRealityCertainty1     = "reality_certainty_check_1"
	StepRealityDoubtReason    = "reality_doubt_reason"
	StepRealityFeelDoubt      = "reality_feel_doubt"
	StepRealityFeelDoubtShift = "reality_feel_doubt_shift"
	StepRealityChecking       = "reality_checking_questions"
	StepRealityCertainty2     = "reality_certainty_check_2"

	// Trauma Shifting.
	StepTraumaShiftingIntro   = "trauma_shifting_intro"
	StepTraumaProblemRedirect = "trauma_problem_redirect"
	StepTraumaIdentity        = "trauma_identity_step"
	StepTraumaDissolveA       = "trauma_dissolve_step_a"
	StepTraumaDissolveB       = "trauma_dissolve_step_b"
	StepTraumaDissolveC       = "trauma_dissolve_step_c"
	StepTraumaDissolveD       = "trauma_dissolve_step_d"
	StepTraumaIdentityCheck   = "trauma_identity_check"
	StepTraumaExperienceCheck = "trauma_experience_check"
	StepTraumaFutureCheck     = "trauma_future_check"

	// Digging deeper.
	StepDiggingStart          = "digging_deeper_start"
	StepRestateFuture         = "restate_problem_future"
	StepScenarioCheck1        = "scenario_check_1"
	StepScenarioCheck2        = "scenario_check_2"
	StepScenarioCheck3        = "scenario_check_3"
	StepRestateScenario       = "restate_problem_scenario"
	StepAnythingElseCheck1    = "anything_else_check_1"
	StepAnythingElseCheck2    = "anything_else_check_2"
	StepAnythingElseCheck3    = "anything_else_check_3"
	StepRestateAnythingElse   = "restate_problem_anything_else"

	// Integration.
	StepAwareness1      = "integration_awareness_1"
	StepAwareness2      = "integration_awareness_2"
	StepAwareness3      = "integration_awareness_3"
	StepAwareness4      = "integration_awareness_4"
	StepAction1         = "integration_action_1"
	StepAction2         = "integration_action_2"
	StepAction3         = "integration_action_3"
	StepAction4         = "integration_action_4"
	StepSessionComplete = "session_complete"
)

// ContextualizedSteps is the fixed allow-list of step ids whose rendered
// templates may be rewritten by the assistance gateway using the user's own
// words. Everything else always renders literally.
var ContextualizedSteps = map[string]bool{
	StepBodySensationCheck: true,
	StepWhatHappens:        true,
	StepIdentityDissolveA:  true,
	StepBeliefB:            true,
	StepTraumaDissolveA:    true,
	StepRealityFeelDoubt:   true,
}

// PercentSteps expect a leading 0-100 percentage in the answer.
var PercentSteps = map[string]bool{
	StepRealityCertainty1: true,
	StepRealityCertainty2: true,
}

// ProblemStatementSteps collect a problem statement and get the full set of
// problem-phrasing semantic checks.
var ProblemStatementSteps = map[string]bool{
	StepProblemDescription:    true,
	StepRestateFuture:         true,
	StepRestateScenario:       true,
	StepRestateAnythingElse:   true,
	StepTraumaProblemRedirect: true,
}
