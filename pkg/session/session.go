// Package session keeps per-client UI state: the selected patient and the
// assistant chat history. Each client is identified by a session id.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

type Session struct {
	ID string

	mu             sync.Mutex
	currentPatient string
	history        []Message
	lastSeen       time.Time
}

func (s *Session) CurrentPatient() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPatient
}

func (s *Session) SelectPatient(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPatient = name
}

// Exchange appends a question and its answer as one unit so concurrent
// requests on a session never interleave halves of two exchanges.
func (s *Session) Exchange(question, answer string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		Message{Role: RoleUser, Content: question, SentAt: at},
		Message{Role: RoleAssistant, Content: answer, SentAt: at},
	)
}

func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session), now: time.Now}
}

// Get returns the session for id, creating it if needed. An empty id gets a
// fresh random one.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		m.sessions[id] = sess
	}
	sess.mu.Lock()
	sess.lastSeen = m.now()
	sess.mu.Unlock()
	return sess
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune drops sessions idle for longer than maxIdle and reports how many went.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
