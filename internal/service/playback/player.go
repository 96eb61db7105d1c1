package playback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/scenario"
	"github.com/zhouzirui/scorecard/backend/internal/service/evaluation"
	"github.com/zhouzirui/scorecard/backend/internal/telemetry"
)

var ErrScenarioNotFound = errors.New("scenario not found")

// DefaultInterval is the pause between scripted lines.
const DefaultInterval = 3 * time.Second

// Step is one played line together with the evaluation it triggered.
type Step struct {
	Index      int                    `json:"index"`
	Total      int                    `json:"total"`
	Utterance  chat.Utterance         `json:"utterance"`
	Evaluation *evaluation.Evaluation `json:"evaluation,omitempty"`
}

// Player feeds scripted scenarios into a session, one line per tick.
type Player struct {
	scenarios scenario.Store
	monitor   *evaluation.Monitor
	interval  time.Duration
	logger    logrus.FieldLogger
}

// New creates a player. A non-positive interval uses DefaultInterval.
func New(scenarios scenario.Store, monitor *evaluation.Monitor, interval time.Duration, logger logrus.FieldLogger) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{
		scenarios: scenarios,
		monitor:   monitor,
		interval:  interval,
		logger:    logger.WithField("component", "playback"),
	}
}

// Interval returns the pause between lines.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Run plays the scenario in real time: the first line immediately, then
// one line per interval. onStep is called after each line is evaluated.
// Cancelling ctx stops playback after the current line.
func (p *Player) Run(ctx context.Context, sessionID, scenarioID string, onStep func(Step)) error {
	sc, err := p.find(scenarioID)
	if err != nil {
		return err
	}
	defer telemetry.StartPlayback()()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for i := range sc.Lines {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if err := p.play(ctx, sessionID, sc, i, time.Time{}, onStep); err != nil {
			return err
		}
	}
	p.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"scenario":   sc.ID,
	}).Info("Playback finished")
	return nil
}

// Replay plays the scenario without waiting. Line i is stamped
// start + i*interval, so latency scoring matches a real-time run.
func (p *Player) Replay(ctx context.Context, sessionID, scenarioID string, start time.Time, onStep func(Step)) error {
	sc, err := p.find(scenarioID)
	if err != nil {
		return err
	}
	defer telemetry.StartPlayback()()

	for i := range sc.Lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		stamp := start.Add(time.Duration(i) * p.interval)
		if err := p.play(ctx, sessionID, sc, i, stamp, onStep); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) find(scenarioID string) (scenario.Scenario, error) {
	sc, ok := p.scenarios.FindByID(scenarioID)
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("%w: %s", ErrScenarioNotFound, scenarioID)
	}
	return sc, nil
}

func (p *Player) play(ctx context.Context, sessionID string, sc scenario.Scenario, i int, stamp time.Time, onStep func(Step)) error {
	saved, eval, err := p.monitor.Ingest(ctx, chat.Utterance{
		SessionID: sessionID,
		Sender:    scenario.SenderAt(i),
		Content:   sc.Lines[i],
		Timestamp: stamp,
	})
	if err != nil {
		return fmt.Errorf("play line %d of %s: %w", i, sc.ID, err)
	}

	step := Step{Index: i, Total: len(sc.Lines), Utterance: saved}
	if !eval.EvaluatedAt.IsZero() {
		step.Evaluation = &eval
	}
	if onStep != nil {
		onStep(step)
	}
	return nil
}
