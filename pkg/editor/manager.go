package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/busline-vn/backoffice/pkg/config"
	"github.com/busline-vn/backoffice/pkg/log"
	"github.com/busline-vn/backoffice/pkg/utils"
	"github.com/busline-vn/backoffice/pkg/way"
)

// Manager owns the open editor sessions and the sweeper that expires
// idle ones.
type Manager struct {
	config *config.EditorConfig
	logger *log.Logger
	store  WayStore
	dir    OfficeDirectory
	tokens *utils.TokenGenerator

	mu       sync.Mutex
	sessions map[string]*Session

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewManager creates a new session manager.
func NewManager(cfg *config.EditorConfig, store WayStore, dir OfficeDirectory, logger *log.Logger) *Manager {
	return &Manager{
		config:   cfg,
		logger:   logger,
		store:    store,
		dir:      dir,
		tokens:   utils.NewTokenGenerator(),
		sessions: make(map[string]*Session),
		stopCh:   make(chan struct{}),
	}
}

// Open starts a new editing session for the employee. When wayID is nil
// the session holds a fresh draft; otherwise the way is loaded from the
// store and decoded. The office directory is fetched once per session;
// a directory failure is logged and surfaced on the session but does
// not prevent editing.
func (m *Manager) Open(employeeID uint, wayID *uint) (*Session, error) {
	m.mu.Lock()
	open := len(m.sessions)
	m.mu.Unlock()
	if open >= m.config.MaxOpenSessions {
		return nil, ErrTooManySessions
	}

	draft := way.NewDraft()
	if wayID != nil {
		t, err := m.store.GetWayTransport(*wayID)
		if err != nil {
			return nil, fmt.Errorf("editor: load way %d: %w", *wayID, err)
		}
		draft, err = way.Decode(t)
		if err != nil {
			return nil, err
		}
	}

	offices, err := m.dir.ActiveOfficeRefs()
	dirWarning := ""
	if err != nil {
		m.logger.WithError(err).Error("Failed to load office directory for editor session")
		dirWarning = "office directory unavailable; office selection is empty"
		offices = nil
	}

	session := &Session{
		ID:         m.tokens.GenerateSessionID(),
		EmployeeID: employeeID,
		draft:      draft,
		offices:    offices,
		dirWarning: dirWarning,
		store:      m.store,
		lastActive: time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.LogEditor(session.ID, employeeID, "open", true, "")
	return session, nil
}

// Get returns the open session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok || session.isClosed() {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close discards the session's draft and forgets the session. Closing
// never persists anything; submissions go through Submit.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.close()
	m.logger.LogEditor(id, session.EmployeeID, "close", true, "")
	return nil
}

// Discard forgets a session that completed via Submit.
func (m *Manager) Discard(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// OpenCount returns the number of open sessions.
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweep closes sessions idle longer than the TTL and drops completed
// ones. Returns the number of sessions removed.
func (m *Manager) sweep(now time.Time) int {
	ttl := time.Duration(m.config.SessionTTLMinutes) * time.Minute

	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if session.isClosed() || now.Sub(session.idleSince()) > ttl {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.close()
		m.logger.LogEditor(session.ID, session.EmployeeID, "expire", true, "idle session swept")
	}
	return len(expired)
}
