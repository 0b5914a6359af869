// Package entity defines the domain entities for the pricestream feature.
package entity

import (
	"sort"
	"sync"
	"time"
)

// Transport is the outbound half of one live streaming connection.
// Implementations must be safe for concurrent use.
type Transport interface {
	// ID returns the identifier assigned to the connection by the transport layer.
	ID() string
	// Send enqueues an event for delivery. It must never block.
	Send(evt Event) error
	// Close terminates the connection. Calling it more than once is a no-op.
	Close() error
}

// Session is the server-side state of one authenticated connection.
// The subscription set is guarded by mu; once closed, no symbol can be added.
type Session struct {
	ID          string
	UserID      uint
	ConnectedAt time.Time

	transport Transport

	mu      sync.RWMutex
	symbols map[string]struct{}
	closed  bool
}

// NewSession binds a transport to an authenticated user.
func NewSession(t Transport, userID uint, now time.Time) *Session {
	return &Session{
		ID:          t.ID(),
		UserID:      userID,
		ConnectedAt: now,
		transport:   t,
		symbols:     make(map[string]struct{}),
	}
}

// Transport returns the connection this session was opened on.
func (s *Session) Transport() Transport {
	return s.transport
}

// Send forwards an event to the underlying transport.
func (s *Session) Send(evt Event) error {
	return s.transport.Send(evt)
}

// IsSubscribed reports whether the session is live and subscribed to name.
func (s *Session) IsSubscribed(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	_, ok := s.symbols[name]
	return ok
}

// Subscribe adds names to the subscription set and returns the ones that were not present before.
// It returns false when the session is already closed.
func (s *Session) Subscribe(names []string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	var added []string
	for _, name := range names {
		if _, ok := s.symbols[name]; ok {
			continue
		}
		s.symbols[name] = struct{}{}
		added = append(added, name)
	}
	return added, true
}

// Unsubscribe removes names from the subscription set. Unknown names are ignored.
// It returns false when the session is already closed.
func (s *Session) Unsubscribe(names []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	for _, name := range names {
		delete(s.symbols, name)
	}
	return true
}

// Symbols returns the current subscription set in ascending order.
func (s *Session) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MarkClosed flags the session as closed and clears its subscriptions.
// It returns true only for the call that performed the transition.
func (s *Session) MarkClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	s.symbols = make(map[string]struct{})
	return true
}

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
