package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/standup-notifier/internal/persistence"
)

// MemorySessionStore is an in-memory persistence.SharingSessionRepository
// with the same version and sentinel semantics as the SQLite store.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]persistence.SharingSession
	clock    func() time.Time
}

// NewMemorySessionStore returns an empty store. A nil clock falls back to
// time.Now.
func NewMemorySessionStore(clock func() time.Time) *MemorySessionStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemorySessionStore{
		sessions: make(map[string]persistence.SharingSession),
		clock:    clock,
	}
}

func (s *MemorySessionStore) InsertSession(_ context.Context, session persistence.SharingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return persistence.ErrDuplicate
	}

	if session.PartitionKey == "" {
		session.PartitionKey = "ZoomSharing"
	}
	session.Version = 1
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.clock()
	}
	session.UpdatedAt = session.CreatedAt
	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) UpdateSession(_ context.Context, session persistence.SharingSession) (persistence.SharingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.sessions[session.ID]
	if !exists {
		return persistence.SharingSession{}, persistence.ErrNotFound
	}
	if current.Version != session.Version {
		return persistence.SharingSession{}, persistence.ErrConcurrencyConflict
	}

	current.Username = session.Username
	current.RoomName = session.RoomName
	current.EndSharing = cloneTime(session.EndSharing)
	current.Version++
	current.UpdatedAt = s.clock()
	s.sessions[session.ID] = current
	return current, nil
}

func (s *MemorySessionStore) ListOpenSessions(_ context.Context, userID, roomID string) ([]persistence.SharingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matching := make([]persistence.SharingSession, 0)
	for _, session := range s.sessions {
		if session.UserID == userID && session.RoomID == roomID && session.Open() {
			matching = append(matching, session)
		}
	}
	sortSessions(matching)
	return matching, nil
}

func (s *MemorySessionStore) ListSessions(_ context.Context) ([]persistence.SharingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]persistence.SharingSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		all = append(all, session)
	}
	sortSessions(all)
	return all, nil
}

func (s *MemorySessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return persistence.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Get returns a stored session by id for assertions.
func (s *MemorySessionStore) Get(id string) (persistence.SharingSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Seed inserts sessions directly, preserving the versions they carry.
func (s *MemorySessionStore) Seed(sessions ...persistence.SharingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range sessions {
		if session.Version == 0 {
			session.Version = 1
		}
		s.sessions[session.ID] = session
	}
}

func sortSessions(sessions []persistence.SharingSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].StartSharing.Equal(sessions[j].StartSharing) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartSharing.Before(sessions[j].StartSharing)
	})
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
