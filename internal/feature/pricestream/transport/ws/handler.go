// Package ws serves the price stream over websockets.
package ws

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/pricestream/domain/entity"
	"price_backend/internal/feature/pricestream/usecase"
	"price_backend/internal/shared/ratelimiter"
)

const (
	// TokenQueryParam is the explicit credential carrier on the upgrade request.
	TokenQueryParam = "token"
	// AccessTokenCookie is the cookie credential carrier.
	AccessTokenCookie = "access_token"

	errRateLimited = "rate limit exceeded"
)

// Gateway is the stream lifecycle consumed by the handler.
type Gateway interface {
	Connect(ctx context.Context, t entity.Transport, carriers usecase.Carriers) (*entity.Session, error)
	Handle(ctx context.Context, sessionID string, req usecase.Request) entity.Event
	Disconnect(sessionID string)
}

// Config tunes each websocket connection.
type Config struct {
	OutboundBuffer int
	// InboundRate is the number of client frames served per second.
	InboundRate    float64
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	// CheckOrigin validates the Origin header; nil accepts every origin.
	CheckOrigin func(r *http.Request) bool
}

func (c Config) withDefaults() Config {
	if c.OutboundBuffer <= 0 {
		c.OutboundBuffer = 64
	}
	if c.InboundRate <= 0 {
		c.InboundRate = 20
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = func(*http.Request) bool { return true }
	}
	return c
}

// Handler upgrades GET /prices and pumps frames between the socket and the gateway.
type Handler struct {
	gateway  Gateway
	cfg      Config
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler.
func NewHandler(gateway Gateway, cfg Config) *Handler {
	cfg = cfg.withDefaults()
	return &Handler{
		gateway: gateway,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// Serve handles one connection until either side closes it.
func (h *Handler) Serve(c *gin.Context) {
	carriers := usecase.Carriers{
		Explicit:      c.Query(TokenQueryParam),
		Authorization: c.GetHeader("Authorization"),
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		carriers.Cookie = cookie
	}

	wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).WithField("remote_addr", c.ClientIP()).Warn("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	t := newConn(uuid.NewString(), wsConn, h.cfg)
	go t.writePump()

	sess, err := h.gateway.Connect(ctx, t, carriers)
	if err != nil {
		<-t.stopped
		return
	}

	h.readPump(ctx, t, sess.ID)
	h.gateway.Disconnect(sess.ID)
	t.Close()
	<-t.stopped
}

// readPump serves client frames in arrival order until the socket fails.
func (h *Handler) readPump(ctx context.Context, t *conn, sessionID string) {
	log := logrus.WithField("session_id", sessionID)
	limiter := ratelimiter.NewRateLimiter(h.cfg.InboundRate, int(math.Ceil(h.cfg.InboundRate)))

	t.ws.SetReadLimit(h.cfg.MaxMessageSize)
	_ = t.ws.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	t.ws.SetPongHandler(func(string) error {
		return t.ws.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		_, raw, err := t.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("stream read ended")
			}
			return
		}
		_ = t.ws.SetReadDeadline(time.Now().Add(h.cfg.PongWait))

		req, err := decodeFrame(raw)
		if err != nil {
			h.reply(t, log, entity.Event{Name: entity.EventError, Data: entity.ErrorReply{Error: usecase.ErrInvalidRequest.Error()}})
			continue
		}
		if !limiter.Allow() {
			h.reply(t, log, entity.Event{Name: req.Event, ID: req.ID, Data: entity.ErrorReply{Error: errRateLimited}})
			continue
		}
		h.reply(t, log, h.gateway.Handle(ctx, sessionID, req))
	}
}

func (h *Handler) reply(t *conn, log *logrus.Entry, evt entity.Event) {
	if err := t.Send(evt); err != nil {
		log.WithError(err).Debug("failed to queue reply")
	}
}
