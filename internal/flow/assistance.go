package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BTreeMap/MindShift/internal/genai"
	"github.com/BTreeMap/MindShift/internal/metrics"
	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/text"
)

// Per-session assistance budget. Once either limit is reached the gateway
// answers from local fallbacks only.
const (
	MaxAssistanceCalls = 10
	MaxAssistanceCost  = 0.25

	// Rough per-token price used for budget accounting.
	costPerToken = 0.000002

	assistanceTimeout = 10 * time.Second
)

// Gateway is the single route through which the engine reaches the language
// model. Every capability degrades to a deterministic local answer.
type Gateway interface {
	// CorrectiveMessage turns a semantic validation mismatch into a short
	// guiding question. Never calls the provider.
	CorrectiveMessage(sub models.SemanticSubKind, input string) string
	// Escalate produces a short empathetic reply for a stuck or confused
	// user, falling back to a scripted line.
	Escalate(ctx context.Context, sc *models.SessionContext, trigger models.AssistanceTrigger, input string) string
	// Contextualize rewrites a scripted question using the user's own
	// words, falling back to the literal template.
	Contextualize(ctx context.Context, sc *models.SessionContext, stepID, rendered, lastInput string) string
}

// AssistanceGateway implements Gateway over a genai completion client. A nil
// client disables the provider entirely; local fallbacks still work.
type AssistanceGateway struct {
	client genai.ClientInterface
}

// NewAssistanceGateway wraps the given completion client. client may be nil.
func NewAssistanceGateway(client genai.ClientInterface) *AssistanceGateway {
	return &AssistanceGateway{client: client}
}

// CorrectiveMessage maps each semantic mismatch to its guiding question.
// multiple_problems and single_emotion are personalized from the input.
func (g *AssistanceGateway) CorrectiveMessage(sub models.SemanticSubKind, input string) string {
	switch sub {
	case models.SubKindProblemVsGoal:
		return "It sounds like you may have stated a goal instead of a problem. How would you state that as a problem? For example, what gets in the way of it?"
	case models.SubKindProblemVsQuestion:
		return "It sounds like you've asked a question rather than stated a problem. How would you state it as a problem you are having?"
	case models.SubKindGoalVsProblem:
		return "It sounds like you've stated a problem rather than a goal. What is it you want instead?"
	case models.SubKindGoalVsQuestion:
		return "It sounds like you've asked a question rather than stated a goal. What is it you want?"
	case models.SubKindSingleEmotion:
		word := strings.TrimSpace(strings.ToLower(input))
		return fmt.Sprintf("What are you %s about?", word)
	case models.SubKindMultipleProblems:
		problems := text.ExtractProblems(input)
		if len(problems) > 1 {
			var b strings.Builder
			b.WriteString("I heard more than one problem there. Which one would you like to work on first?\n")
			for i, p := range problems {
				fmt.Fprintf(&b, "%d. %s\n", i+1, p)
			}
			return strings.TrimRight(b.String(), "\n")
		}
		return "I heard more than one problem there. Which one would you like to work on first?"
	case models.SubKindMultipleEvents:
		if theme := eventTheme(input); theme != "" {
			return fmt.Sprintf("It sounds like this happened more than once. Since %s several times, think of it as one overall experience. How would you describe that experience in a few words?", theme)
		}
		return "It sounds like this happened more than once. Think of it as one overall experience. How would you describe that experience in a few words?"
	}
	return "Could you tell me that again in a few words?"
}

// eventTheme extracts a short restatement of a repeated experience.
var eventThemes = []struct {
	keyword string
	phrase  string
}{
	{"bullied", "you were bullied"},
	{"bully", "you were bullied"},
	{"abused", "you were abused"},
	{"rejected", "you were rejected"},
	{"criticized", "you were criticized"},
	{"ignored", "you were ignored"},
	{"humiliated", "you were humiliated"},
	{"hit", "you were hit"},
	{"left out", "you were left out"},
}

func eventTheme(input string) string {
	lower := strings.ToLower(input)
	for _, t := range eventThemes {
		if strings.Contains(lower, t.keyword) {
			return t.phrase
		}
	}
	return ""
}

// Escalate asks the provider for a brief empathetic response to a stuck user.
func (g *AssistanceGateway) Escalate(ctx context.Context, sc *models.SessionContext, trigger models.AssistanceTrigger, input string) string {
	fallback := "That's okay. There are no wrong answers here. Just notice whatever comes up for you, and tell me the first thing that you feel."
	system := "You are guiding a person through a structured self-help process. " +
		"The person seems stuck or confused. Reply with one or two short, warm sentences " +
		"that reassure them and invite them to answer the current question in their own words. " +
		"Do not introduce new questions, techniques, or advice."
	user := fmt.Sprintf("Current step: %s\nThe person said: %q", trigger.Context, input)

	out := g.complete(ctx, sc, "escalation", system, user, 120, fallback)
	return out
}

// Contextualize rewrites a scripted question around the user's last answer.
// Only steps on the script allow-list reach here; the literal template is the
// fallback whenever the provider is unavailable or over budget.
func (g *AssistanceGateway) Contextualize(ctx context.Context, sc *models.SessionContext, stepID, rendered, lastInput string) string {
	if strings.TrimSpace(lastInput) == "" {
		return rendered
	}
	system := "You adapt one scripted question so it flows naturally from what the person just said. " +
		"Keep the question's meaning and structure exactly. You must keep every significant word the person used, " +
		"especially feelings and identity words, verbatim. Output only the adapted question."
	user := fmt.Sprintf("Scripted question: %s\nThe person just said: %q", rendered, lastInput)

	return g.complete(ctx, sc, "contextualization", system, user, 150, rendered)
}

// complete runs one budgeted provider call, returning fallback on any
// failure, missing client, or exhausted budget.
func (g *AssistanceGateway) complete(ctx context.Context, sc *models.SessionContext, capability, system, user string, maxTokens int, fallback string) string {
	if g.client == nil {
		metrics.AssistanceFallbacks.WithLabelValues("disabled").Inc()
		return fallback
	}
	if sc.Metadata.AssistanceCalls >= MaxAssistanceCalls || sc.Metadata.AssistanceCost >= MaxAssistanceCost {
		slog.Info("AssistanceGateway.complete: budget exhausted, using fallback",
			"sessionID", sc.SessionID, "calls", sc.Metadata.AssistanceCalls, "cost", sc.Metadata.AssistanceCost)
		metrics.AssistanceFallbacks.WithLabelValues("budget").Inc()
		return fallback
	}

	cctx, cancel := context.WithTimeout(ctx, assistanceTimeout)
	defer cancel()

	sc.Metadata.AssistanceCalls++
	metrics.AssistanceCalls.WithLabelValues(capability).Inc()

	resp, err := g.client.Complete(cctx, genai.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    maxTokens,
		Temperature:  0.4,
	})
	if err != nil {
		slog.Warn("AssistanceGateway.complete: provider call failed, using fallback",
			"sessionID", sc.SessionID, "capability", capability, "error", err)
		metrics.AssistanceFallbacks.WithLabelValues("error").Inc()
		return fallback
	}
	sc.Metadata.AssistanceCost += float64(resp.TokensUsed) * costPerToken

	out := strings.TrimSpace(resp.Text)
	out = strings.Trim(out, `"`)
	if out == "" {
		metrics.AssistanceFallbacks.WithLabelValues("empty").Inc()
		return fallback
	}
	return out
}
