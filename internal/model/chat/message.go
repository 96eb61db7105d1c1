package chat

import (
	"strings"
	"time"
)

// Sender identifies which side of the conversation produced an utterance.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// ParseSender normalises raw sender labels. "assistant" is accepted as an
// alias for the agent side.
func ParseSender(raw string) (Sender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user", "customer":
		return SenderUser, true
	case "agent", "assistant":
		return SenderAgent, true
	default:
		return "", false
	}
}

// Utterance is one timestamped turn of a transcript. It is never mutated
// after being appended to a session.
type Utterance struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId,omitempty"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// FromAgent reports whether the utterance was produced by the agent.
func (u Utterance) FromAgent() bool {
	return u.Sender == SenderAgent
}

// FromUser reports whether the utterance was produced by the customer.
func (u Utterance) FromUser() bool {
	return u.Sender == SenderUser
}

// AgentOnly filters the agent side of a transcript, preserving order.
func AgentOnly(utterances []Utterance) []Utterance {
	out := make([]Utterance, 0, len(utterances))
	for _, u := range utterances {
		if u.FromAgent() {
			out = append(out, u)
		}
	}
	return out
}

// Window returns the most recent limit utterances.
func Window(utterances []Utterance, limit int) []Utterance {
	if limit <= 0 || len(utterances) <= limit {
		return utterances
	}
	return utterances[len(utterances)-limit:]
}
