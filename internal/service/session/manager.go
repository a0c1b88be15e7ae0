package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manojpracturu/first-aid/internal/model/chat"
)

var (
	ErrUserRequired    = errors.New("session: user id is required")
	ErrSessionNotFound = errors.New("session: not found")
)

// Manager tracks the live controllers, one per open session.
type Manager struct {
	assistant Assistant
	store     TranscriptStore

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewManager wires the shared collaborators for all sessions.
func NewManager(assistant Assistant, store TranscriptStore) *Manager {
	return &Manager{
		assistant: assistant,
		store:     store,
		sessions:  make(map[string]*Controller),
	}
}

// Open creates a controller for the user, loads their transcript and
// registers the session. An empty language falls back to the caller's
// default.
func (m *Manager) Open(ctx context.Context, userID, language string) (*Controller, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	sess := chat.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Language:  language,
		CreatedAt: time.Now().UTC(),
	}

	ctl := NewController(sess, m.assistant, m.store)
	if err := ctl.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID] = ctl
	m.mu.Unlock()

	return ctl, nil
}

// Get returns the controller for a session id.
func (m *Manager) Get(sessionID string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctl, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ctl, nil
}

// Close tears down and forgets a session. Closing an unknown session is a
// no-op.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	ctl, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if ok {
		ctl.Close()
	}
}
