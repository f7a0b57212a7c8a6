package advisor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/conversation"
	"github.com/mdbplc/advisor/schema"
)

// SessionData is the per-session conversation state. Sessions never see
// each other's data.
type SessionData struct {
	ID        string               `json:"session_id"`
	CreatedAt time.Time            `json:"created_at"`
	History   []schema.ChatMessage `json:"history"`
	LastTopic string               `json:"last_topic,omitempty"`
	State     conversation.State   `json:"state,omitempty"`
	UserInfo  map[string]string    `json:"user_info,omitempty"`
}

// SessionStore persists per-session state keyed by session id.
type SessionStore interface {
	Create() *SessionData
	Get(id string) (*SessionData, bool)
	Put(sess *SessionData) error
	Delete(id string) bool
}

// NewSessionStore builds the configured store implementation.
func NewSessionStore(cfg *config.SessionConfig) (SessionStore, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemSessionStore(), nil
	case "redis":
		return NewRedisSessionStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported session provider: %s", cfg.Provider)
	}
}

// MemSessionStore keeps sessions in process memory.
type MemSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionData
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{sessions: make(map[string]*SessionData)}
}

func (m *MemSessionStore) Create() *SessionData {
	s := newSessionData()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *MemSessionStore) Get(id string) (*SessionData, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	return s, ok
}

func (m *MemSessionStore) Put(sess *SessionData) error {
	if sess.ID == "" {
		return fmt.Errorf("session id empty")
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

func (m *MemSessionStore) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	return ok
}

func newSessionData() *SessionData {
	return &SessionData{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		History:   []schema.ChatMessage{},
		State:     conversation.StateIdle,
		UserInfo:  map[string]string{},
	}
}
