// Package text provides pure linguistic heuristics for classifying user
// input during treatment sessions. The functions here are deliberately
// simple keyword and phrase matchers, not a statistical model, and never
// mutate session state.
package text

import (
	"strings"
	"unicode"
)

// WorkLanguage is the classification of a free-text answer during statement
// collection.
type WorkLanguage struct {
	IsGoal     bool
	IsQuestion bool
	IsProblem  bool
}

// goalPhrases mark aspirational language independent of the "get" token.
var goalPhrases = []string{
	"i want to", "i wish", "i would like", "i'd like", "my goal",
	"i hope to", "hope to", "i aim to", "want to be", "want to have",
	"to achieve", "achieve", "to become", "to improve", "improve my",
	"to start", "to earn", "to build",
}

// aspirationalGetPatterns are the only "get" constructions treated as goal
// language. A bare "get" is not enough: "I can't get out of bed" is a
// problem, not a goal.
var aspirationalGetPatterns = []string{
	"get a ", "get an ", "get the ",
	"get better", "get rid of", "get over", "get help", "get to ", "get more",
}

var problemPhrases = []string{
	"can't", "cannot", "can not", "unable to", "struggle", "struggling",
	"problem", "difficult", "hard to", "hard for me", "stuck", "afraid",
	"scared", "anxious", "anxiety", "worried", "worry", "stressed", "stress",
	"depressed", "sad", "angry", "upset", "hate", "fear", "overwhelmed",
	"frustrated", "lonely", "hurt", "tired of", "fed up", "never", "always fail",
}

var questionStarters = []string{
	"how ", "what ", "why ", "when ", "where ", "who ", "which ",
	"can i", "could i", "should i", "will i", "would i", "do i", "am i",
	"is it", "is there",
}

// ClassifyWorkLanguage classifies text as goal, question, and/or problem
// language using curated phrase lists.
func ClassifyWorkLanguage(input string) WorkLanguage {
	t := normalize(input)
	var wl WorkLanguage

	if strings.HasSuffix(strings.TrimSpace(input), "?") {
		wl.IsQuestion = true
	}
	for _, q := range questionStarters {
		if strings.HasPrefix(t, q) {
			wl.IsQuestion = true
			break
		}
	}

	for _, g := range goalPhrases {
		if strings.Contains(t, g) {
			wl.IsGoal = true
			break
		}
	}
	if !wl.IsGoal && strings.Contains(t, "get") {
		for _, p := range aspirationalGetPatterns {
			if strings.Contains(t, p) {
				wl.IsGoal = true
				break
			}
		}
	}

	for _, p := range problemPhrases {
		if strings.Contains(t, p) {
			wl.IsProblem = true
			break
		}
	}
	return wl
}

// problemConnectors are checked in order; splitting uses only the first
// connector type found, applied once, to avoid over-fragmentation.
var problemConnectors = []string{
	" and ", " also ", " plus ", " additionally ", " another ",
	" other ", " too ", " as well ", " along with ",
}

// connectorDenylist holds fixed phrases that contain a connector but name a
// single subject and must not be split.
var connectorDenylist = []string{
	"health and wellness", "love and peace", "peace and quiet",
	"back and forth", "now and then", "mum and dad", "mom and dad",
	"friends and family", "family and friends", "ups and downs",
	"pros and cons", "give and take",
	"too much", "too many", "too little", "too late", "too often",
	"too hard", "too old", "too young", "too tired", "too long",
}

// ExtractProblems splits text into separate problem statements on the first
// connector type found. Denylisted fixed phrases are never treated as two
// problems. Segments are trimmed and empty segments dropped.
func ExtractProblems(input string) []string {
	t := normalize(input)
	if t == "" {
		return nil
	}

	for _, conn := range problemConnectors {
		idx := connectorIndex(t, conn)
		if idx < 0 {
			continue
		}
		first := strings.TrimSpace(t[:idx])
		second := strings.TrimSpace(t[idx+len(conn):])
		var out []string
		if first != "" {
			out = append(out, first)
		}
		if second != "" {
			out = append(out, second)
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{t}
}

// CountProblems counts distinct problems detected in text.
func CountProblems(input string) int {
	return len(ExtractProblems(input))
}

// connectorIndex finds the first occurrence of conn in t that is not inside
// a denylisted fixed phrase, or -1.
func connectorIndex(t, conn string) int {
	from := 0
	for {
		rel := strings.Index(t[from:], conn)
		if rel < 0 {
			return -1
		}
		idx := from + rel
		if !insideDenylistedPhrase(t, idx, len(conn)) {
			return idx
		}
		from = idx + len(conn)
	}
}

func insideDenylistedPhrase(t string, connStart, connLen int) bool {
	for _, phrase := range connectorDenylist {
		pIdx := strings.Index(t, phrase)
		for pIdx >= 0 {
			if connStart >= pIdx && connStart+connLen <= pIdx+len(phrase) {
				return true
			}
			rel := strings.Index(t[pIdx+1:], phrase)
			if rel < 0 {
				break
			}
			pIdx = pIdx + 1 + rel
		}
	}
	return false
}

// identityNouns already name an identity; phrases containing one are kept
// verbatim instead of having "person" appended.
var identityNouns = []string{
	"person", "man", "woman", "child", "kid", "boy", "girl", "adult",
	"victim", "survivor", "someone", "somebody", "loser", "failure",
	"coward", "fraud", "monster", "freak", "outsider", "perfectionist",
	"people", "parent", "mother", "father",
}

var identityPrefixes = []string{
	"i am being ", "i'm being ", "i am ", "i'm ", "being ", "a ", "an ",
}

// ProcessIdentityResponse normalizes a short identity phrase to an
// "<adjective> person" form. Phrases that already contain an identity noun
// are preserved verbatim, as are simile phrases starting with "like".
func ProcessIdentityResponse(input string) string {
	t := normalize(input)
	for changed := true; changed; {
		changed = false
		for _, p := range identityPrefixes {
			if strings.HasPrefix(t, p) {
				t = strings.TrimSpace(strings.TrimPrefix(t, p))
				changed = true
			}
		}
	}
	if t == "" {
		return "person"
	}
	for _, noun := range identityNouns {
		if containsWord(t, noun) {
			return t
		}
	}
	if strings.HasPrefix(t, "like ") {
		return t
	}
	return t + " person"
}

// beliefRewrite is one ordered negation-rewriting rule.
type beliefRewrite struct {
	match   string
	replace string
}

// beliefRewrites are applied in order; the first matching rule wins.
var beliefRewrites = []beliefRewrite{
	{"that i am not ", "that i am "},
	{"that i am ", "that i am not "},
	{"i must ", "i don't have to "},
	{"i can't ", "i can "},
	{"i cannot ", "i can "},
	{"i'm not ", "i'm "},
	{"i am not ", "i am "},
	{"i don't ", "i "},
	{"nobody", "somebody"},
	{"nothing", "something"},
	{"never ", ""},
}

// CreatePositiveBeliefStatement rewrites a negative belief into its positive
// counterpart using ordered negation rules, falling back to an explicit
// "not" prefix when no pattern matches.
func CreatePositiveBeliefStatement(input string) string {
	t := normalize(input)
	if t == "" {
		return ""
	}
	for _, r := range beliefRewrites {
		if idx := strings.Index(t, r.match); idx >= 0 {
			return capitalizeI(t[:idx] + r.replace + t[idx+len(r.match):])
		}
	}
	if strings.HasPrefix(t, "that ") {
		return capitalizeI("that i am not " + strings.TrimPrefix(t, "that "))
	}
	return capitalizeI("i am not " + t)
}

var agreementWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "yup": true, "sure": true,
	"ok": true, "okay": true, "right": true, "correct": true, "exactly": true,
	"definitely": true, "absolutely": true, "agreed": true, "true": true,
	"certainly": true, "always": true, "still": true,
}

var disagreementWords = map[string]bool{
	"no": true, "nope": true, "nah": true, "not": true, "never": true,
	"disagree": true, "incorrect": true, "wrong": true, "nothing": true,
	"none": true, "gone": true,
}

// IsAgreement reports whether the input expresses agreement.
func IsAgreement(input string) bool {
	return anyWordIn(input, agreementWords)
}

// IsDisagreement reports whether the input expresses disagreement.
func IsDisagreement(input string) bool {
	return anyWordIn(input, disagreementWords)
}

func anyWordIn(input string, set map[string]bool) bool {
	for _, w := range strings.Fields(normalize(input)) {
		if set[w] {
			return true
		}
	}
	return false
}

// normalize lower-cases the input and strips punctuation, preserving
// apostrophes so contractions like "can't" survive.
func normalize(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '\'' || r == '%' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func containsWord(t, word string) bool {
	for _, w := range strings.Fields(t) {
		if w == word {
			return true
		}
	}
	return false
}

// capitalizeI restores the capital pronoun in rewritten belief statements.
func capitalizeI(t string) string {
	t = strings.TrimSpace(t)
	fields := strings.Fields(t)
	for i, w := range fields {
		switch w {
		case "i":
			fields[i] = "I"
		case "i'm":
			fields[i] = "I'm"
		case "i'll":
			fields[i] = "I'll"
		case "i've":
			fields[i] = "I've"
		}
	}
	out := strings.Join(fields, " ")
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
