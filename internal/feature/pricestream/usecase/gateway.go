package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/pricestream/domain/entity"
)

// Authenticator verifies a bearer credential and resolves the client behind it.
// Any failure, including a non-client role, is reported as ErrInvalidCredential.
type Authenticator interface {
	Verify(ctx context.Context, credential string) (entity.Identity, error)
}

// Request is a decoded inbound frame.
type Request struct {
	Event string
	ID    string
	// Symbols is nil when the payload did not carry a valid symbols list.
	Symbols []string
}

// GatewayConfig tunes the streaming pipeline.
type GatewayConfig struct {
	TickInterval time.Duration
	Pricer       *PriceSimulator
	Clock        func() time.Time
}

// Gateway drives the connection lifecycle: authentication, request dispatch and teardown.
type Gateway struct {
	auth      Authenticator
	registry  *ConnectionRegistry
	scheduler *BroadcastScheduler
	subs      *SubscriptionManager
}

// NewGateway assembles the registry, scheduler and subscription manager around catalog.
func NewGateway(auth Authenticator, catalog SymbolCatalog, cfg GatewayConfig) *Gateway {
	registry := NewConnectionRegistry(nil)
	scheduler := NewBroadcastScheduler(registry, catalog,
		WithTickInterval(cfg.TickInterval),
		WithPriceSimulator(cfg.Pricer),
		WithClock(cfg.Clock),
	)
	registry.tasks = scheduler

	return &Gateway{
		auth:      auth,
		registry:  registry,
		scheduler: scheduler,
		subs:      NewSubscriptionManager(registry, catalog, scheduler),
	}
}

// Stats is a point-in-time view of the gateway's load.
type Stats struct {
	Sessions int
	Tasks    int
}

// Stats reports the live sessions and running emission tasks.
func (g *Gateway) Stats() Stats {
	return Stats{Sessions: g.registry.count(), Tasks: g.scheduler.activeTasks()}
}

// Connect authenticates a freshly opened transport and registers its session.
// On failure an error event is sent, the transport is closed and no session is created.
func (g *Gateway) Connect(ctx context.Context, t entity.Transport, carriers Carriers) (*entity.Session, error) {
	log := logrus.WithField("connection_id", t.ID())

	token, err := ExtractCredential(carriers)
	if err != nil {
		log.Info("stream connection rejected: no credential")
		g.reject(t, "Authentication failed: "+err.Error())
		return nil, err
	}

	identity, err := g.auth.Verify(ctx, token)
	if err != nil {
		log.WithError(err).Info("stream connection rejected: invalid credential")
		g.reject(t, "Authentication failed")
		if !errors.Is(err, ErrInvalidCredential) {
			err = errors.Join(ErrInvalidCredential, err)
		}
		return nil, err
	}

	sess, err := g.registry.Open(t, identity.UserID)
	if err != nil {
		log.WithError(err).Error("failed to register stream session")
		g.reject(t, "Authentication failed")
		return nil, err
	}

	if err := sess.Send(entity.NewConnectedEvent()); err != nil {
		log.WithError(err).Warn("failed to deliver connected event")
	}
	log.WithField("user_id", identity.UserID).Info("stream client connected")
	return sess, nil
}

func (g *Gateway) reject(t entity.Transport, message string) {
	_ = t.Send(entity.NewErrorEvent(message))
	_ = t.Close()
}

// Handle serves one inbound request and returns the reply to deliver on the same connection.
// Requests on an unregistered session are refused before the event is looked at.
func (g *Gateway) Handle(ctx context.Context, sessionID string, req Request) entity.Event {
	reply := entity.Event{Name: req.Event, ID: req.ID}

	if _, ok := g.registry.Get(sessionID); !ok {
		reply.Data = entity.ErrorReply{Error: ErrNotAuthenticated.Error()}
		return reply
	}

	var (
		symbols []string
		err     error
	)
	switch req.Event {
	case entity.EventSubscribe:
		symbols, err = g.subs.Subscribe(ctx, sessionID, req.Symbols)
	case entity.EventUnsubscribe:
		symbols, err = g.subs.Unsubscribe(ctx, sessionID, req.Symbols)
	default:
		err = ErrUnknownEvent
	}

	if err != nil {
		if errors.Is(err, ErrCatalogUnavailable) {
			logrus.WithError(err).WithField("session_id", sessionID).Warn("subscription request failed")
			err = ErrCatalogUnavailable
		}
		reply.Data = entity.ErrorReply{Error: err.Error()}
		return reply
	}
	reply.Data = entity.SubscriptionAck{SubscribedSymbols: symbols}
	return reply
}

// Disconnect tears down a session after its transport went away. Unknown ids are ignored.
func (g *Gateway) Disconnect(sessionID string) {
	if sess := g.registry.Close(sessionID); sess != nil {
		logrus.WithFields(logrus.Fields{"session_id": sessionID, "user_id": sess.UserID}).Info("stream client disconnected")
	}
}

// DisconnectUser closes every session held by userID.
// It returns false when the user had no live session.
func (g *Gateway) DisconnectUser(userID uint) bool {
	ids := g.registry.LookupByUser(userID)
	closed := false
	for _, id := range ids {
		sess := g.registry.Close(id)
		if sess == nil {
			continue
		}
		if err := sess.Transport().Close(); err != nil {
			logrus.WithError(err).WithField("session_id", id).Warn("failed to close transport")
		}
		closed = true
	}
	if closed {
		logrus.WithField("user_id", userID).Info("user stream sessions force-disconnected")
	}
	return closed
}

// Shutdown closes every live session and stops the scheduler.
func (g *Gateway) Shutdown() {
	stats := g.Stats()
	logrus.WithFields(logrus.Fields{"sessions": stats.Sessions, "tasks": stats.Tasks}).Info("price stream shutting down")
	for _, id := range g.registry.IDs() {
		if sess := g.registry.Close(id); sess != nil {
			_ = sess.Transport().Close()
		}
	}
	g.scheduler.Stop()
}
