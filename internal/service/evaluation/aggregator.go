package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/analysis/checklist"
	"github.com/zhouzirui/scorecard/backend/internal/analysis/keyword"
	"github.com/zhouzirui/scorecard/backend/internal/analysis/latency"
	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
	"github.com/zhouzirui/scorecard/backend/internal/service/scoring"
	"github.com/zhouzirui/scorecard/backend/internal/telemetry"
)

// Gate thresholds.
const (
	PoliteThreshold       = 50.0
	IntroductionThreshold = 30.0

	// EngagementPerMessage converts window length into engagementDuration.
	EngagementPerMessage = 10.0
)

// Input is everything one evaluation needs. The aggregator never reads
// session state on its own.
type Input struct {
	// Window is the recent transcript; only the last scoring.WindowLimit
	// utterances are used.
	Window []chat.Utterance

	// History is the full transcript, used for latency and the checklist.
	// Defaults to Window when nil.
	History []chat.Utterance

	// Scorer selects the backend; unknown values use the registry default.
	Scorer string

	// Checks is the current checklist; nil starts from a fresh one.
	Checks checklist.Set

	Now time.Time
}

// Evaluation is the merged result of one aggregator run.
type Evaluation struct {
	EvaluatedAt            time.Time        `json:"evaluatedAt"`
	Scorer                 string           `json:"scorer"`
	Fallback               bool             `json:"fallback"`
	IsPolite               bool             `json:"isPolite"`
	IsIntroductionComplete bool             `json:"isIntroductionComplete"`
	Metrics                metrics.Record   `json:"metrics"`
	QualityChecks          checklist.Set    `json:"qualityChecks"`
	Analysis               metrics.Analysis `json:"analysis"`
}

// Entry converts the evaluation into a history entry.
func (e Evaluation) Entry() metrics.Entry {
	return metrics.Entry{
		EvaluatedAt: e.EvaluatedAt,
		Scorer:      e.Scorer,
		Fallback:    e.Fallback,
		Metrics:     e.Metrics,
	}
}

// Aggregator merges local heuristics with an external scorer into one
// metrics record. It keeps no state between calls.
type Aggregator struct {
	scorers *scoring.Registry
	logger  logrus.FieldLogger
}

// NewAggregator creates an aggregator over the registered scorers.
func NewAggregator(scorers *scoring.Registry, logger logrus.FieldLogger) *Aggregator {
	return &Aggregator{
		scorers: scorers,
		logger:  logger.WithField("component", "aggregator"),
	}
}

// Evaluate scores the window. ok is false, and nothing is produced, when
// the window is empty. Scorer failures never surface: the scorer-derived
// metrics fall back to metrics.FallbackValue.
func (a *Aggregator) Evaluate(ctx context.Context, in Input) (Evaluation, bool) {
	window := chat.Window(in.Window, scoring.WindowLimit)
	scorerID, scorer := a.scorers.Resolve(in.Scorer)
	if len(window) == 0 {
		telemetry.RecordEvaluation(scorerID, telemetry.OutcomeSkipped)
		return Evaluation{}, false
	}

	history := in.History
	if history == nil {
		history = window
	}
	checks := in.Checks
	if checks == nil {
		checks = checklist.New()
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	politeness := keyword.Politeness(chat.AgentOnly(window))
	speed := latency.SpeedScore(latency.MeanReply(history))

	scores, fallback := a.score(ctx, scorerID, scorer, window)

	record := metrics.FromScores(scores).
		With(metrics.Politeness, politeness).
		With(metrics.ResponseSpeed, speed).
		With(metrics.EngagementDuration, float64(len(window))*EngagementPerMessage)

	outcome := telemetry.OutcomeScored
	if fallback {
		outcome = telemetry.OutcomeFallback
	}
	telemetry.RecordEvaluation(scorerID, outcome)

	return Evaluation{
		EvaluatedAt:            now,
		Scorer:                 scorerID,
		Fallback:               fallback,
		IsPolite:               record.Politeness > PoliteThreshold,
		IsIntroductionComplete: record.Completion > IntroductionThreshold,
		Metrics:                record,
		QualityChecks:          checklist.Evaluate(history, checks, now),
		Analysis:               metrics.Analyze(record),
	}, true
}

// score calls the backend and applies the fallback policy: any error, and
// any nil or incomplete payload, yields the fallback set.
func (a *Aggregator) score(ctx context.Context, scorerID string, scorer scoring.Scorer, window []chat.Utterance) (metrics.Scores, bool) {
	done := telemetry.ObserveScorer(scorerID)
	scores, err := scorer.Score(ctx, window)
	done()

	if err == nil && !scores.Complete() {
		err = scoring.ErrMalformedPayload
	}
	if err != nil {
		reason := fallbackReason(ctx, err)
		telemetry.RecordFallback(scorerID, reason)
		a.logger.WithFields(logrus.Fields{
			"scorer": scorerID,
			"reason": reason,
			"error":  err,
		}).Warn("Scorer failed, using fallback scores")
		return metrics.FallbackScores(), true
	}
	return scores, false
}

func fallbackReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() == context.DeadlineExceeded:
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, scoring.ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, scoring.ErrScorerUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
