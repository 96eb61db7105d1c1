package checklist

import (
	"time"

	"github.com/zhouzirui/scorecard/backend/internal/analysis/keyword"
	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
)

// Question labels a checklist item.
type Question string

const (
	AgentIntroduction    Question = "Agent Introduction"
	IdentityVerification Question = "Identity Verification"
	ProblemUnderstanding Question = "Problem Understanding"
	SolutionExplanation  Question = "Solution Explanation"
	DataCollection       Question = "Data Collection"
	TechnicalAccuracy    Question = "Technical Accuracy"
	FollowUpOffered      Question = "Follow-up Offered"
	ClosingConfirmation  Question = "Closing Confirmation"
)

// Questions is the checklist in display order.
var Questions = []Question{
	AgentIntroduction,
	IdentityVerification,
	ProblemUnderstanding,
	SolutionExplanation,
	DataCollection,
	TechnicalAccuracy,
	FollowUpOffered,
	ClosingConfirmation,
}

// Result is the state of one checklist item. Once Passed it stays passed.
type Result struct {
	Question    Question   `json:"question"`
	Passed      bool       `json:"passed"`
	SatisfiedAt *time.Time `json:"satisfiedAt"`
}

// Set is an ordered checklist.
type Set []Result

// Predicate decides whether the transcript satisfies a check.
type Predicate func(history []chat.Utterance) bool

// predicates holds the checks that have a concrete rule. The others stay
// unpassed until a rule is written for them.
var predicates = map[Question]Predicate{
	AgentIntroduction:    introduced,
	IdentityVerification: verifiedIdentity,
}

// New returns a checklist with every item unpassed.
func New() Set {
	set := make(Set, 0, len(Questions))
	for _, q := range Questions {
		set = append(set, Result{Question: q})
	}
	return set
}

// Evaluate returns an updated copy of current. Items already passed are
// carried over untouched; unpassed items with a predicate that now holds
// are marked passed at now.
func Evaluate(history []chat.Utterance, current Set, now time.Time) Set {
	next := make(Set, len(current))
	copy(next, current)
	if len(history) == 0 {
		return next
	}

	for i, item := range next {
		if item.Passed {
			continue
		}
		predicate, ok := predicates[item.Question]
		if !ok || !predicate(history) {
			continue
		}
		satisfied := now
		next[i] = Result{Question: item.Question, Passed: true, SatisfiedAt: &satisfied}
	}
	return next
}

// Passed reports whether q is marked passed in the set.
func (s Set) Passed(q Question) bool {
	for _, item := range s {
		if item.Question == q {
			return item.Passed
		}
	}
	return false
}

// introduced checks the opening line of the transcript, whoever sent it.
func introduced(history []chat.Utterance) bool {
	return keyword.ContainsAny(history[0].Content, "hello", "welcome")
}

// verifiedIdentity looks for a single utterance mentioning both "account"
// and "number", from either side.
func verifiedIdentity(history []chat.Utterance) bool {
	for _, u := range history {
		if keyword.ContainsAll(u.Content, "account", "number") {
			return true
		}
	}
	return false
}
