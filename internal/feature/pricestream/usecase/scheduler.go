package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/pricestream/domain/entity"
)

// DefaultTickInterval is the emission period of a single (session, symbol) task.
const DefaultTickInterval = time.Second

// SessionLookup resolves live sessions by id.
type SessionLookup interface {
	Get(sessionID string) (*entity.Session, bool)
}

// SymbolCatalog lists the symbols that may be streamed, with their reference prices.
type SymbolCatalog interface {
	ListPublic(ctx context.Context) ([]entity.CatalogEntry, error)
}

// emissionTask is one running ticker goroutine.
type emissionTask struct {
	sessionID string
	symbol    string
	cancel    context.CancelFunc
	done      chan struct{}
}

// BroadcastScheduler runs one periodic emission task per (session, symbol) pair.
type BroadcastScheduler struct {
	sessions SessionLookup
	catalog  SymbolCatalog
	pricer   *PriceSimulator
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	tasks   map[string]map[string]*emissionTask
	stopped bool
}

// SchedulerOption customises a BroadcastScheduler.
type SchedulerOption func(*BroadcastScheduler)

// WithTickInterval overrides the emission period.
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *BroadcastScheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithPriceSimulator overrides the tick price generator.
func WithPriceSimulator(p *PriceSimulator) SchedulerOption {
	return func(s *BroadcastScheduler) {
		if p != nil {
			s.pricer = p
		}
	}
}

// WithClock overrides the timestamp source of emitted ticks.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *BroadcastScheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewBroadcastScheduler creates a scheduler reading sessions from sessions and prices from catalog.
func NewBroadcastScheduler(sessions SessionLookup, catalog SymbolCatalog, opts ...SchedulerOption) *BroadcastScheduler {
	s := &BroadcastScheduler{
		sessions: sessions,
		catalog:  catalog,
		pricer:   NewPriceSimulator(nil),
		interval: DefaultTickInterval,
		now:      time.Now,
		tasks:    make(map[string]map[string]*emissionTask),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins periodic emission for (sessionID, symbol).
// It is idempotent per key and refuses to start when the session is gone or not subscribed to symbol.
// It reports whether a new task was started.
func (s *BroadcastScheduler) Start(sessionID, symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if _, ok := s.tasks[sessionID][symbol]; ok {
		return false
	}
	// Checked under s.mu so a concurrent CancelAll either sees this task or the session is already gone.
	sess, ok := s.sessions.Get(sessionID)
	if !ok || !sess.IsSubscribed(symbol) {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := &emissionTask{
		sessionID: sessionID,
		symbol:    symbol,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	bySymbol, ok := s.tasks[sessionID]
	if !ok {
		bySymbol = make(map[string]*emissionTask)
		s.tasks[sessionID] = bySymbol
	}
	bySymbol[symbol] = task

	go s.run(ctx, task)
	return true
}

// Cancel stops the task for (sessionID, symbol), if any, and waits for it to exit.
func (s *BroadcastScheduler) Cancel(sessionID, symbol string) {
	s.mu.Lock()
	task, ok := s.tasks[sessionID][symbol]
	if ok {
		s.removeLocked(task)
	}
	s.mu.Unlock()

	if ok {
		stop(task)
	}
}

// CancelAll stops every task of sessionID and waits for them to exit.
func (s *BroadcastScheduler) CancelAll(sessionID string) {
	s.mu.Lock()
	bySymbol := s.tasks[sessionID]
	delete(s.tasks, sessionID)
	s.mu.Unlock()

	stopAll(bySymbol)
}

// Stop cancels every task and refuses new ones.
func (s *BroadcastScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	all := s.tasks
	s.tasks = make(map[string]map[string]*emissionTask)
	s.mu.Unlock()

	for _, bySymbol := range all {
		stopAll(bySymbol)
	}
}

// activeSymbols returns the symbols with a running task for sessionID.
func (s *BroadcastScheduler) activeSymbols(sessionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tasks[sessionID]))
	for symbol := range s.tasks[sessionID] {
		out = append(out, symbol)
	}
	return out
}

// activeTasks returns the number of running tasks across all sessions.
func (s *BroadcastScheduler) activeTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, bySymbol := range s.tasks {
		n += len(bySymbol)
	}
	return n
}

func (s *BroadcastScheduler) run(ctx context.Context, task *emissionTask) {
	defer close(task.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// a cancellation racing with the ticker wins
			if ctx.Err() != nil {
				return
			}
			if !s.tick(ctx, task) {
				s.release(task)
				return
			}
		}
	}
}

// tick performs one emission. It returns false when the task must terminate itself.
func (s *BroadcastScheduler) tick(ctx context.Context, task *emissionTask) bool {
	log := logrus.WithFields(logrus.Fields{"session_id": task.sessionID, "symbol": task.symbol})

	sess, ok := s.sessions.Get(task.sessionID)
	if !ok || !sess.IsSubscribed(task.symbol) {
		log.Debug("emission task no longer backed by a subscription, stopping")
		return false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.interval)
	entries, err := s.catalog.ListPublic(lookupCtx)
	cancel()
	if err != nil {
		log.WithError(err).Warn("catalog lookup failed, skipping tick")
		return true
	}
	entry, found := findEntry(entries, task.symbol)
	if !found {
		log.Debug("symbol not in public catalog, skipping tick")
		return true
	}

	price := s.pricer.Next(entry.ReferencePrice)
	evt := entity.NewPriceUpdateEvent(task.symbol, price.InexactFloat64(), s.now())
	if err := sess.Send(evt); err != nil {
		log.WithError(err).Debug("price update dropped")
	}
	return true
}

// release removes a self-terminated task unless it has already been replaced or cancelled.
func (s *BroadcastScheduler) release(task *emissionTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[task.sessionID][task.symbol] == task {
		s.removeLocked(task)
	}
	task.cancel()
}

func (s *BroadcastScheduler) removeLocked(task *emissionTask) {
	bySymbol := s.tasks[task.sessionID]
	delete(bySymbol, task.symbol)
	if len(bySymbol) == 0 {
		delete(s.tasks, task.sessionID)
	}
}

func findEntry(entries []entity.CatalogEntry, name string) (entity.CatalogEntry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return entity.CatalogEntry{}, false
}

func stop(task *emissionTask) {
	task.cancel()
	<-task.done
}

func stopAll(bySymbol map[string]*emissionTask) {
	for _, task := range bySymbol {
		task.cancel()
	}
	for _, task := range bySymbol {
		<-task.done
	}
}
