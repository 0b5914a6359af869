package usecase

import (
	"sort"
	"sync"
	"time"

	"price_backend/internal/feature/pricestream/domain/entity"
)

// TaskCanceller stops every emission task belonging to a session and waits for them to exit.
type TaskCanceller interface {
	CancelAll(sessionID string)
}

// ConnectionRegistry owns every live Session of the process.
type ConnectionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	byUser   map[uint]map[string]struct{}

	tasks TaskCanceller
	now   func() time.Time
}

// NewConnectionRegistry creates an empty registry. tasks may be nil when no scheduler is attached.
func NewConnectionRegistry(tasks TaskCanceller) *ConnectionRegistry {
	return &ConnectionRegistry{
		sessions: make(map[string]*entity.Session),
		byUser:   make(map[uint]map[string]struct{}),
		tasks:    tasks,
		now:      time.Now,
	}
}

// Open registers a new session for the transport. It fails only when the transport is already registered.
func (r *ConnectionRegistry) Open(t entity.Transport, userID uint) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[t.ID()]; ok {
		return nil, ErrSessionExists
	}
	sess := entity.NewSession(t, userID, r.now())
	r.sessions[sess.ID] = sess
	ids, ok := r.byUser[userID]
	if !ok {
		ids = make(map[string]struct{})
		r.byUser[userID] = ids
	}
	ids[sess.ID] = struct{}{}
	return sess, nil
}

// Close removes the session and cancels its emission tasks.
// When Close returns no further tick is delivered for the session.
// Closing an unknown or already closed session is a no-op that returns nil.
func (r *ConnectionRegistry) Close(sessionID string) *entity.Session {
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	sess.MarkClosed()
	delete(r.sessions, sessionID)
	if ids, ok := r.byUser[sess.UserID]; ok {
		delete(ids, sessionID)
		if len(ids) == 0 {
			delete(r.byUser, sess.UserID)
		}
	}
	r.mu.Unlock()

	// the scheduler takes its own lock and waits for task goroutines
	if r.tasks != nil {
		r.tasks.CancelAll(sessionID)
	}
	return sess
}

// LookupByUser returns the ids of every live session held by userID, sorted.
func (r *ConnectionRegistry) LookupByUser(userID uint) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byUser[userID]))
	for id := range r.byUser[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns the live session with the given id.
func (r *ConnectionRegistry) Get(sessionID string) (*entity.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sessionID]
	return sess, ok
}

// count returns the number of live sessions.
func (r *ConnectionRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the ids of all live sessions.
func (r *ConnectionRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
