package repository

import (
	"context"
	"sync"
	"time"

	"roomy/internal/model"
)

// MemoryStore keeps sessions and preferences in process. It backs local
// development and tests; nothing survives a restart.
type MemoryStore struct {
	mu          sync.Mutex
	ttl         time.Duration
	now         func() time.Time
	sessions    map[string]model.ChatSession
	preferences map[string]model.Preferences
}

// NewMemoryStore creates an empty store. Sessions idle longer than ttl are
// treated as absent; zero disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[string]model.ChatSession),
		preferences: make(map[string]model.Preferences),
	}
}

// SetClock replaces the time source
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) expired(s model.ChatSession, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.UpdatedAt) > m.ttl
}

// GetOrCreateSession loads a live session or creates an empty one
func (m *MemoryStore) GetOrCreateSession(_ context.Context, sessionID string, userID *string) (*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if s, ok := m.sessions[sessionID]; ok && !m.expired(s, now) {
		return copySession(s), nil
	}

	s := model.ChatSession{
		SessionID: sessionID,
		UserID:    userID,
		History:   model.History{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.sessions[sessionID] = s
	return copySession(s), nil
}

// UpdateSession stores the session if its version is still current
func (m *MemoryStore) UpdateSession(_ context.Context, session *model.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stored, ok := m.sessions[session.SessionID]
	if !ok || m.expired(stored, now) || stored.Version != session.Version {
		return ErrSessionConflict
	}

	next := *copySession(*session)
	next.Version++
	next.UpdatedAt = now
	if next.UserID == nil {
		next.UserID = stored.UserID
	}
	m.sessions[session.SessionID] = next

	session.Version = next.Version
	session.UpdatedAt = now
	return nil
}

// DeleteSession removes a session and its history
func (m *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// GetPreferences returns the stored preferences of a user, or nil
func (m *MemoryStore) GetPreferences(_ context.Context, userID string) (*model.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.preferences[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SaveLearnedPreferences merges the learned values into the stored ones
func (m *MemoryStore) SaveLearnedPreferences(_ context.Context, userID string, learned model.LearnedPreferences) error {
	if learned.IsEmpty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.preferences[userID]
	p.UserID = userID
	if learned.Area != nil {
		p.PreferredArea = learned.Area
	}
	if learned.RoomType != nil {
		p.PreferredRoomType = learned.RoomType
	}
	if learned.Amenity != nil {
		p.PreferredAmenity = learned.Amenity
	}
	p.UpdatedAt = m.now()
	m.preferences[userID] = p
	return nil
}

// SetPreferences replaces everything stored for a user
func (m *MemoryStore) SetPreferences(_ context.Context, prefs model.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefs.UpdatedAt = m.now()
	m.preferences[prefs.UserID] = prefs
	return nil
}

// ClearPreferences forgets everything stored for a user
func (m *MemoryStore) ClearPreferences(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.preferences, userID)
	return nil
}

// copySession detaches the history slice so callers cannot mutate the
// stored one.
func copySession(s model.ChatSession) *model.ChatSession {
	s.History = append(model.History{}, s.History...)
	return &s
}
