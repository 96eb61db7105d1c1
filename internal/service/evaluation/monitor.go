package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/zhouzirui/scorecard/backend/internal/analysis/checklist"
	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
	chatservice "github.com/zhouzirui/scorecard/backend/internal/service/chat"
	"github.com/zhouzirui/scorecard/backend/internal/service/scoring"
)

// Monitor owns the per-session evaluation state: the checklist and the
// metrics history. Evaluations of one session run one at a time; different
// sessions evaluate in parallel.
type Monitor struct {
	chats      *chatservice.Service
	aggregator *Aggregator
	logger     logrus.FieldLogger
	now        func() time.Time

	mu     sync.Mutex
	states map[string]*sessionState
}

type sessionState struct {
	// slot admits one evaluation at a time.
	slot *semaphore.Weighted

	mu      sync.RWMutex
	checks  checklist.Set
	history metrics.History
}

// NewMonitor wires the transcript store to the aggregator.
func NewMonitor(chats *chatservice.Service, aggregator *Aggregator, logger logrus.FieldLogger) *Monitor {
	return &Monitor{
		chats:      chats,
		aggregator: aggregator,
		logger:     logger.WithField("component", "monitor"),
		now:        func() time.Time { return time.Now().UTC() },
		states:     make(map[string]*sessionState),
	}
}

// state returns the session's evaluation state, creating it on first use.
// The session is looked up under m.mu so state is never recreated for a
// session Forget has already removed.
func (m *Monitor) state(ctx context.Context, sessionID string) (chat.Session, *sessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.chats.GetSession(ctx, sessionID)
	if err != nil {
		return chat.Session{}, nil, err
	}
	st, ok := m.states[sessionID]
	if !ok {
		st = &sessionState{
			slot:   semaphore.NewWeighted(1),
			checks: checklist.New(),
		}
		m.states[sessionID] = st
	}
	return session, st, nil
}

// Ingest appends an utterance and evaluates the grown transcript.
func (m *Monitor) Ingest(ctx context.Context, utterance chat.Utterance) (chat.Utterance, Evaluation, error) {
	saved, err := m.chats.AppendUtterance(ctx, utterance)
	if err != nil {
		return chat.Utterance{}, Evaluation{}, err
	}

	eval, _, err := m.Observe(ctx, saved.SessionID)
	if err != nil {
		return saved, Evaluation{}, err
	}
	return saved, eval, nil
}

// Observe evaluates the session's current transcript. The snapshot is
// taken once this call holds the session's evaluation slot, so a queued
// evaluation always sees every utterance appended before it ran. ok is
// false when the transcript is empty.
func (m *Monitor) Observe(ctx context.Context, sessionID string) (Evaluation, bool, error) {
	session, st, err := m.state(ctx, sessionID)
	if err != nil {
		return Evaluation{}, false, err
	}

	if err := st.slot.Acquire(ctx, 1); err != nil {
		return Evaluation{}, false, fmt.Errorf("wait for evaluation slot: %w", err)
	}
	defer st.slot.Release(1)

	transcript, err := m.chats.LoadTranscript(ctx, sessionID)
	if err != nil {
		return Evaluation{}, false, err
	}

	st.mu.RLock()
	checks := st.checks
	st.mu.RUnlock()

	eval, ok := m.aggregator.Evaluate(ctx, Input{
		Window:  chat.Window(transcript, scoring.WindowLimit),
		History: transcript,
		Scorer:  session.Scorer,
		Checks:  checks,
		Now:     m.now(),
	})
	if !ok {
		return Evaluation{}, false, nil
	}

	st.mu.Lock()
	st.checks = eval.QualityChecks
	st.history = st.history.Append(eval.Entry())
	st.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"scorer":     eval.Scorer,
		"fallback":   eval.Fallback,
		"messages":   len(transcript),
	}).Debug("Evaluated transcript")

	return eval, true, nil
}

// Checklist returns the session's current checklist.
func (m *Monitor) Checklist(ctx context.Context, sessionID string) (checklist.Set, error) {
	_, st, err := m.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append(checklist.Set(nil), st.checks...), nil
}

// History returns the session's evaluation log.
func (m *Monitor) History(ctx context.Context, sessionID string) (metrics.History, error) {
	_, st, err := m.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.history, nil
}

// Forget drops the session, its transcript and its evaluation state.
func (m *Monitor) Forget(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.chats.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	delete(m.states, sessionID)
	return nil
}
