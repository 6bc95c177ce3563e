package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/router"
)

// Session is one live navigation channel. Its navigator is driven only by
// the connection's read loop.
type Session struct {
	ID        string
	CreatedAt time.Time

	conn      *websocket.Conn
	navigator *router.Navigator
	localizer *i18n.Localizer
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// wmu serializes writes; gorilla connections allow one writer.
	wmu          sync.Mutex
	writeTimeout time.Duration

	lastActive atomic.Int64
	closed     atomic.Bool
	closeOnce  sync.Once
}

func newSession(parent context.Context, conn *websocket.Conn, nav *router.Navigator, l *i18n.Localizer, writeTimeout time.Duration, logger *slog.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	s := &Session{
		ID:           id,
		CreatedAt:    time.Now(),
		conn:         conn,
		navigator:    nav,
		localizer:    l,
		logger:       logger.With("session_id", id),
		ctx:          ctx,
		cancel:       cancel,
		writeTimeout: writeTimeout,
	}
	s.touch()
	return s
}

// Navigator returns the session navigator.
func (s *Session) Navigator() *router.Navigator {
	return s.navigator
}

// Localizer returns the session localizer.
func (s *Session) Localizer() *i18n.Localizer {
	return s.localizer
}

// Context returns the session context, canceled when the session closes.
func (s *Session) Context() context.Context {
	return s.ctx
}

// LastActive returns the time of the last received message.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// IsClosed reports whether Close was called.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// Send writes v as one JSON text frame.
func (s *Session) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) ping() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	deadline := time.Now().Add(s.writeTimeout)
	if s.writeTimeout <= 0 {
		deadline = time.Now().Add(10 * time.Second)
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

// Close cancels the session and closes its connection. Safe to call more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.wmu.Lock()
		s.closed.Store(true)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
			time.Now().Add(time.Second))
		s.wmu.Unlock()

		s.cancel()
		_ = s.conn.Close()
	})
}

// SessionManager tracks live sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64

	onOpen  func(*Session)
	onClose func(*Session)

	logger *slog.Logger
}

// NewSessionManager creates an empty manager.
func NewSessionManager(logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// OnOpen sets a callback run after a session is added.
func (m *SessionManager) OnOpen(fn func(*Session)) {
	m.onOpen = fn
}

// OnClose sets a callback run after a session is removed.
func (m *SessionManager) OnClose(fn func(*Session)) {
	m.onClose = fn
}

// Add registers s.
func (m *SessionManager) Add(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.totalCreated.Add(1)
	m.logger.Debug("session opened", "session_id", s.ID)
	if m.onOpen != nil {
		m.onOpen(s)
	}
}

// Get returns the session with id, or nil.
func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove closes and unregisters the session with id. It reports whether the
// session was registered.
func (m *SessionManager) Remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	m.logger.Debug("session closed",
		"session_id", id,
		"duration", time.Since(s.CreatedAt))
	if m.onClose != nil {
		m.onClose(s)
	}
	m.totalClosed.Add(1)
	return true
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stats returns the live, created and closed session counts.
func (m *SessionManager) Stats() (active int, created, closed uint64) {
	return m.Count(), m.totalCreated.Load(), m.totalClosed.Load()
}

// Shutdown closes every session.
func (m *SessionManager) Shutdown() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Remove(id)
	}
	m.logger.Info("sessions closed", "count", len(ids))
}
