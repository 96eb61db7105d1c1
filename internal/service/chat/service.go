package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/telemetry"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSender   = errors.New("sender must be user or agent")
	ErrEmptyContent    = errors.New("utterance content is required")
)

// Service encapsulates transcript state for in-memory sessions.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Utterance
}

// NewService bootstraps the in-memory transcript service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Utterance),
	}
}

// CreateSession provisions a session scored by the named backend. An empty
// scorer leaves the choice to the registry default.
func (s *Service) CreateSession(_ context.Context, scorer, scenarioID string) (chat.Session, error) {
	session := chat.Session{
		ID:         uuid.NewString(),
		Scorer:     strings.ToLower(strings.TrimSpace(scorer)),
		ScenarioID: scenarioID,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = make([]chat.Utterance, 0, 16)
	s.mu.Unlock()

	telemetry.SessionOpened()
	return session, nil
}

// AppendUtterance validates and appends an utterance to the session
// transcript, assigning its ID and, when missing, its timestamp.
func (s *Service) AppendUtterance(_ context.Context, utterance chat.Utterance) (chat.Utterance, error) {
	if utterance.SessionID == "" {
		return chat.Utterance{}, ErrSessionNotFound
	}
	sender, ok := chat.ParseSender(string(utterance.Sender))
	if !ok {
		return chat.Utterance{}, ErrInvalidSender
	}
	if strings.TrimSpace(utterance.Content) == "" {
		return chat.Utterance{}, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[utterance.SessionID]; !ok {
		return chat.Utterance{}, ErrSessionNotFound
	}

	utterance.ID = uuid.NewString()
	utterance.Sender = sender
	if utterance.Timestamp.IsZero() {
		utterance.Timestamp = time.Now().UTC()
	}

	s.messages[utterance.SessionID] = append(s.messages[utterance.SessionID], utterance)
	telemetry.RecordUtterance(string(sender))
	return utterance, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// LoadTranscript returns a copy of the stored utterances for the session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Utterance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Utterance, len(messages))
	copy(copied, messages)
	return copied, nil
}

// DeleteSession drops a session and its transcript.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	telemetry.SessionClosed()
	return nil
}
