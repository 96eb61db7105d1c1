package keyword

import (
	"math"
	"strings"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
)

// Lexicon names a keyword bucket.
type Lexicon string

const (
	Polite       Lexicon = "polite"
	Professional Lexicon = "professional"
	Technical    Lexicon = "technical"
	Empathetic   Lexicon = "empathetic"
	Resolving    Lexicon = "resolving"
	Closing      Lexicon = "closing"
)

// PointsPerMatch is awarded once per distinct keyword found in an utterance.
const PointsPerMatch = 25

var keywordBuckets = map[Lexicon][]string{
	Polite:       {"please", "thank", "appreciate", "welcome"},
	Professional: {"assist", "help", "provide", "support"},
	Technical:    {"account", "system", "process", "verify"},
	Empathetic:   {"understand", "sorry", "apologize", "concern"},
	Resolving:    {"sent", "unlocked", "reset", "fixed"},
	Closing:      {"anything else", "let me know", "glad", "have a"},
}

// Keywords returns a copy of the bucket for lexicon.
func Keywords(lexicon Lexicon) []string {
	return append([]string(nil), keywordBuckets[lexicon]...)
}

// Politeness scores agent courtesy on a 0-100 scale.
func Politeness(agentUtterances []chat.Utterance) float64 {
	return Score(Polite, agentUtterances)
}

// Score sums PointsPerMatch for every distinct lexicon keyword present in
// each utterance, across all utterances, and caps the total at 100.
// Repeating a keyword inside one utterance does not add points.
func Score(lexicon Lexicon, utterances []chat.Utterance) float64 {
	keywords := keywordBuckets[lexicon]
	total := 0
	for _, u := range utterances {
		total += Matches(keywords, u.Content) * PointsPerMatch
	}
	return math.Min(100, float64(total))
}

// Matches counts distinct keywords contained in text, case-insensitively.
func Matches(keywords []string, text string) int {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return 0
	}

	count := 0
	for _, word := range keywords {
		if word == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(word)) {
			count++
		}
	}
	return count
}

// ContainsAny reports whether text contains any of the words, ignoring case.
func ContainsAny(text string, words ...string) bool {
	return Matches(words, text) > 0
}

// ContainsAll reports whether text contains every one of the words,
// ignoring case.
func ContainsAll(text string, words ...string) bool {
	return Matches(words, text) == len(words)
}
