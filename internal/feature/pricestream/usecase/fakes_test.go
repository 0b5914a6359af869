package usecase

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"price_backend/internal/feature/pricestream/domain/entity"
)

// fakeTransport records every event it receives.
type fakeTransport struct {
	id string

	mu      sync.Mutex
	events  []entity.Event
	closed  bool
	sendErr error
}

func newFakeTransport(id string) *fakeTransport {
	return &fakeTransport{id: id}
}

func (f *fakeTransport) ID() string { return f.id }

func (f *fakeTransport) Send(evt entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrOutboundClosed
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) Events() []entity.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Event(nil), f.events...)
}

func (f *fakeTransport) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeTransport) countEvents(name string) int {
	n := 0
	for _, e := range f.Events() {
		if e.Name == name {
			n++
		}
	}
	return n
}

// mockCatalog is a mock implementation of SymbolCatalog.
type mockCatalog struct {
	mu sync.Mutex
	// ListPublicFunc is called when the ListPublic method is invoked.
	ListPublicFunc func(ctx context.Context) ([]entity.CatalogEntry, error)
	calls          int
}

func (m *mockCatalog) ListPublic(ctx context.Context) ([]entity.CatalogEntry, error) {
	m.mu.Lock()
	m.calls++
	fn := m.ListPublicFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return defaultCatalog(), nil
}

func (m *mockCatalog) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func defaultCatalog() []entity.CatalogEntry {
	return []entity.CatalogEntry{
		{Name: "BTC/USD", ReferencePrice: decimal.RequireFromString("50000.00")},
		{Name: "ETH/USD", ReferencePrice: decimal.RequireFromString("3000.00")},
	}
}

// mockAuthenticator is a mock implementation of Authenticator.
type mockAuthenticator struct {
	// VerifyFunc is called when the Verify method is invoked.
	VerifyFunc func(ctx context.Context, credential string) (entity.Identity, error)
}

func (m *mockAuthenticator) Verify(ctx context.Context, credential string) (entity.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, credential)
	}
	return entity.Identity{}, ErrInvalidCredential
}

// recordingCanceller is a TaskCanceller that records its calls.
type recordingCanceller struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingCanceller) CancelAll(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, sessionID)
}
