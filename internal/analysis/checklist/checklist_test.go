package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
)

func transcript(lines ...string) []chat.Utterance {
	out := make([]chat.Utterance, 0, len(lines))
	for i, line := range lines {
		sender := chat.SenderAgent
		if i%2 == 1 {
			sender = chat.SenderUser
		}
		out = append(out, chat.Utterance{Sender: sender, Content: line})
	}
	return out
}

func TestNewStartsUnpassed(t *testing.T) {
	set := New()
	require.Len(t, set, len(Questions))
	for _, item := range set {
		assert.False(t, item.Passed)
		assert.Nil(t, item.SatisfiedAt)
	}
}

func TestIntroductionThenIdentityVerification(t *testing.T) {
	t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(3 * time.Second)

	history := transcript("Hello! How can I assist you today?", "I'm having trouble with my account.")
	set := Evaluate(history, New(), t1)

	assert.True(t, set.Passed(AgentIntroduction))
	assert.False(t, set.Passed(IdentityVerification))

	history = append(history, chat.Utterance{Sender: chat.SenderAgent, Content: "Could you please provide your account number?"})
	set = Evaluate(history, set, t2)

	assert.True(t, set.Passed(AgentIntroduction))
	assert.True(t, set.Passed(IdentityVerification))
	require.NotNil(t, set[0].SatisfiedAt)
	assert.Equal(t, t1, *set[0].SatisfiedAt, "latched check keeps its original time")
	require.NotNil(t, set[1].SatisfiedAt)
	assert.Equal(t, t2, *set[1].SatisfiedAt)
}

func TestPassedCheckNeverReverts(t *testing.T) {
	now := time.Now()
	set := Evaluate(transcript("Welcome to support"), New(), now)
	require.True(t, set.Passed(AgentIntroduction))

	set = Evaluate(transcript("What do you want?"), set, now.Add(time.Minute))
	assert.True(t, set.Passed(AgentIntroduction))

	set = Evaluate(nil, set, now.Add(2*time.Minute))
	assert.True(t, set.Passed(AgentIntroduction))
}

func TestIntroductionOnlyLooksAtFirstUtterance(t *testing.T) {
	set := Evaluate(transcript("What do you want?", "hello?", "Hello!"), New(), time.Now())
	assert.False(t, set.Passed(AgentIntroduction))
}

func TestIdentityNeedsCoOccurrenceInOneUtterance(t *testing.T) {
	set := Evaluate(transcript("Give me the account.", "The number is 42."), New(), time.Now())
	assert.False(t, set.Passed(IdentityVerification))
}

func TestIdentityAcceptsCustomerSide(t *testing.T) {
	set := Evaluate(transcript("Hi", "My account number is AC1"), New(), time.Now())
	assert.True(t, set.Passed(IdentityVerification))
}

func TestUndefinedChecksStayUnpassed(t *testing.T) {
	history := transcript(
		"Hello, thank you for calling. Could you share your account number?",
		"Sure, it's AC123456789",
		"Is there anything else I can help with today?",
	)
	set := Evaluate(history, New(), time.Now())
	for _, q := range []Question{ProblemUnderstanding, SolutionExplanation, DataCollection, TechnicalAccuracy, FollowUpOffered, ClosingConfirmation} {
		assert.False(t, set.Passed(q), string(q))
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	current := New()
	_ = Evaluate(transcript("hello"), current, time.Now())
	assert.False(t, current.Passed(AgentIntroduction))
}
