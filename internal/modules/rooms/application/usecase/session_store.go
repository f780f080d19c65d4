package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"askRoomWeb/internal/modules/rooms/application/port"
)

// SessionStore keeps one Session per browser, keyed by session id.
type SessionStore struct {
	api       port.RoomsAPI
	publisher port.ViewPublisher
	idleTTL   time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore(api port.RoomsAPI, publisher port.ViewPublisher, idleTTL time.Duration) *SessionStore {
	return &SessionStore{
		api:       api,
		publisher: publisher,
		idleTTL:   idleTTL,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Open returns the session for id, creating and mounting it when it does not exist yet.
// An empty id gets a freshly generated one.
func (s *SessionStore) Open(ctx context.Context, id string) (*Session, bool) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		trimmed = uuid.NewString()
	}

	s.mu.RLock()
	existing, ok := s.sessions[trimmed]
	s.mu.RUnlock()
	if ok {
		existing.Touch()
		return existing, false
	}

	s.mu.Lock()
	if existing, ok := s.sessions[trimmed]; ok {
		s.mu.Unlock()
		existing.Touch()
		return existing, false
	}
	session := NewSession(trimmed, s.api, s.publisher)
	session.now = s.now
	session.Touch()
	s.sessions[trimmed] = session
	s.mu.Unlock()

	slog.Info("session opened", slog.String("sessionId", trimmed))
	_ = session.Mount(ctx)
	return session, true
}

// Get returns an existing session without creating one.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(id)]
	return session, ok
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the configured TTL and returns how many
// were removed. A non-positive TTL disables sweeping.
func (s *SessionStore) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("idle sessions swept", slog.Int("removed", removed), slog.Int("remaining", len(s.sessions)))
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// RefreshAll runs the refetch pattern in every live session concurrently.
func (s *SessionStore) RefreshAll(ctx context.Context, roomID string) {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	slog.Debug("refreshing sessions", slog.String("roomId", roomID), slog.Int("sessions", len(sessions)))
	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			sess.Refresh(ctx, roomID)
		}(session)
	}
	wg.Wait()
}

var _ port.Refresher = (*SessionStore)(nil)
