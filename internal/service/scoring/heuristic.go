package scoring

import (
	"context"
	"strings"

	"github.com/zhouzirui/scorecard/backend/internal/analysis/keyword"
	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

// HeuristicScorer scores in process from keyword lexicons. It needs no
// network and never fails on a non-empty window.
type HeuristicScorer struct{}

// NewHeuristicScorer returns the in-process backend.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Score implements Scorer.
func (HeuristicScorer) Score(_ context.Context, window []chat.Utterance) (metrics.Scores, error) {
	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}

	agent := chat.AgentOnly(window)
	professional := keyword.Score(keyword.Professional, agent)
	empathy := keyword.Score(keyword.Empathetic, agent)
	resolution := keyword.Score(keyword.Resolving, agent)

	return metrics.Scores{
		metrics.Politeness:            keyword.Politeness(agent),
		metrics.Professionalism:       metrics.Clamp(40+professional*0.6, 0, 100),
		metrics.ProblemResolution:     metrics.Clamp(30+resolution*0.7, 0, 100),
		metrics.Clarity:               clarity(agent),
		metrics.EmotionalIntelligence: metrics.Clamp(40+empathy*0.6, 0, 100),
		metrics.TechnicalAccuracy:     metrics.Clamp(40+keyword.Score(keyword.Technical, agent)*0.6, 0, 100),
		metrics.Completion:            completion(agent),
	}, nil
}

// clarity rewards agent replies that land near a conversational length and
// penalises one-word answers and walls of text.
func clarity(agent []chat.Utterance) float64 {
	if len(agent) == 0 {
		return 0
	}
	words := 0
	for _, u := range agent {
		words += len(strings.Fields(u.Content))
	}
	avg := float64(words) / float64(len(agent))

	const ideal = 15.0
	diff := avg - ideal
	if diff < 0 {
		diff = -diff
	}
	return metrics.Clamp(100-diff*3, 0, 100)
}

// completion looks at how the most recent agent turn wraps up.
func completion(agent []chat.Utterance) float64 {
	if len(agent) == 0 {
		return 0
	}
	last := agent[len(agent)-1]
	score := 20 + float64(keyword.Matches(keyword.Keywords(keyword.Closing), last.Content))*40
	if keyword.Matches(keyword.Keywords(keyword.Professional), last.Content) > 0 {
		score += 20
	}
	return metrics.Clamp(score, 0, 100)
}
