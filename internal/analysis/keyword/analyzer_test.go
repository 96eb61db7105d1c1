package keyword

import (
	"testing"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
)

func agent(lines ...string) []chat.Utterance {
	out := make([]chat.Utterance, 0, len(lines))
	for _, line := range lines {
		out = append(out, chat.Utterance{Sender: chat.SenderAgent, Content: line})
	}
	return out
}

func TestPolitenessZeroWithoutKeywords(t *testing.T) {
	if got := Politeness(agent("What do you want?", "Account number?")); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestPolitenessEmptyInput(t *testing.T) {
	if got := Politeness(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestPolitenessAllKeywordsCapped(t *testing.T) {
	got := Politeness(agent("Please, thank you, we appreciate it and you're welcome. Please! Thanks!"))
	if got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestPolitenessCountsDistinctKeywordsPerUtterance(t *testing.T) {
	got := Politeness(agent("please please please"))
	if got != 25 {
		t.Fatalf("repeated keyword should count once, got %v", got)
	}
}

func TestPolitenessAccumulatesAcrossUtterances(t *testing.T) {
	got := Politeness(agent("Please hold.", "Thank you.", "Please confirm."))
	if got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}

	got = Politeness(agent("Please, thank you.", "Please, thank you.", "Please, thank you."))
	if got != 100 {
		t.Fatalf("expected clamp at 100, got %v", got)
	}
}

func TestPolitenessIsCaseInsensitive(t *testing.T) {
	if got := Politeness(agent("THANK YOU")); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
}

func TestContainsHelpers(t *testing.T) {
	if !ContainsAny("Hello there", "hello", "welcome") {
		t.Fatal("expected hello to match")
	}
	if !ContainsAll("Your ACCOUNT Number please", "account", "number") {
		t.Fatal("expected both words to match")
	}
	if ContainsAll("your account", "account", "number") {
		t.Fatal("number is missing")
	}
}
