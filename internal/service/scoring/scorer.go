package scoring

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

// Backend identifiers accepted by the Registry.
const (
	Ollama    = "ollama"
	Ark       = "ark"
	OpenAI    = "openai"
	Heuristic = "heuristic"
)

// aliases maps legacy selector values onto registered identifiers.
var aliases = map[string]string{
	"llama": Ollama,
}

// WindowLimit bounds how many recent utterances a scorer sees.
const WindowLimit = 10

var (
	ErrScorerUnavailable = errors.New("scorer unavailable")
	ErrMalformedPayload  = errors.New("malformed scorer payload")
	ErrEmptyWindow       = errors.New("empty transcript window")
)

// Scorer grades the agent side of a transcript window.
type Scorer interface {
	Score(ctx context.Context, window []chat.Utterance) (metrics.Scores, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, window []chat.Utterance) (metrics.Scores, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, window []chat.Utterance) (metrics.Scores, error) {
	return f(ctx, window)
}

// Registry resolves scorer identifiers to backends. Unknown identifiers
// resolve to the default backend.
type Registry struct {
	mu        sync.RWMutex
	logger    logrus.FieldLogger
	scorers   map[string]Scorer
	defaultID string
}

// NewRegistry creates an empty registry with defaultID as the fallback
// selection.
func NewRegistry(logger logrus.FieldLogger, defaultID string) *Registry {
	return &Registry{
		logger:    logger.WithField("component", "scoring"),
		scorers:   make(map[string]Scorer),
		defaultID: normalizeID(defaultID),
	}
}

// Register adds or replaces a backend.
func (r *Registry) Register(id string, scorer Scorer) {
	id = normalizeID(id)
	r.mu.Lock()
	r.scorers[id] = scorer
	r.mu.Unlock()
	r.logger.WithField("scorer", id).Info("Registered scorer backend")
}

// DefaultID returns the identifier used for unknown selections.
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// IDs lists the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.scorers))
	for id := range r.scorers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the backend for id together with the identifier that was
// actually selected. When neither id nor the default is registered the
// returned scorer always fails with ErrScorerUnavailable.
func (r *Registry) Resolve(id string) (string, Scorer) {
	id = normalizeID(id)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if scorer, ok := r.scorers[id]; ok {
		return id, scorer
	}
	if id != "" && id != r.defaultID {
		r.logger.WithFields(logrus.Fields{
			"scorer":         id,
			"default_scorer": r.defaultID,
		}).Warn("Scorer not found, falling back to default")
	}
	if scorer, ok := r.scorers[r.defaultID]; ok {
		return r.defaultID, scorer
	}
	return r.defaultID, unavailable{}
}

type unavailable struct{}

func (unavailable) Score(context.Context, []chat.Utterance) (metrics.Scores, error) {
	return nil, ErrScorerUnavailable
}

func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if alias, ok := aliases[id]; ok {
		return alias
	}
	return id
}
