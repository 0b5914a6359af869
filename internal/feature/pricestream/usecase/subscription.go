package usecase

import (
	"context"
	"fmt"
)

// EmissionControl starts and cancels per-symbol emission tasks.
type EmissionControl interface {
	Start(sessionID, symbol string) bool
	Cancel(sessionID, symbol string)
}

// SubscriptionManager applies subscribe and unsubscribe requests to live sessions.
type SubscriptionManager struct {
	sessions SessionLookup
	catalog  SymbolCatalog
	tasks    EmissionControl
}

// NewSubscriptionManager wires a SubscriptionManager.
func NewSubscriptionManager(sessions SessionLookup, catalog SymbolCatalog, tasks EmissionControl) *SubscriptionManager {
	return &SubscriptionManager{sessions: sessions, catalog: catalog, tasks: tasks}
}

// Subscribe adds the public names among requested to the session and starts their emission.
// Names missing from the current public catalog are dropped without error.
// A nil requested slice means the payload was missing or malformed.
// It returns the full subscription set after the change.
func (m *SubscriptionManager) Subscribe(ctx context.Context, sessionID string, requested []string) ([]string, error) {
	sess, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if requested == nil {
		return nil, ErrInvalidRequest
	}

	entries, err := m.catalog.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	public := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		public[e.Name] = struct{}{}
	}
	accepted := make([]string, 0, len(requested))
	for _, name := range requested {
		if _, ok := public[name]; ok {
			accepted = append(accepted, name)
		}
	}

	if _, ok := sess.Subscribe(accepted); !ok {
		return nil, ErrNotAuthenticated
	}
	// Start is idempotent, so already running keys are left untouched.
	for _, name := range accepted {
		m.tasks.Start(sessionID, name)
	}
	return sess.Symbols(), nil
}

// Unsubscribe removes names from the session and cancels their emission.
// Names that were never subscribed are ignored.
// It returns the full subscription set after the change.
func (m *SubscriptionManager) Unsubscribe(_ context.Context, sessionID string, names []string) ([]string, error) {
	sess, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if names == nil {
		return nil, ErrInvalidRequest
	}

	if !sess.Unsubscribe(names) {
		return nil, ErrNotAuthenticated
	}
	for _, name := range names {
		m.tasks.Cancel(sessionID, name)
	}
	return sess.Symbols(), nil
}
