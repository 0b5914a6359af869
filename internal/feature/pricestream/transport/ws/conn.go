package ws

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/pricestream/domain/entity"
	"price_backend/internal/feature/pricestream/usecase"
)

// conn is the websocket Transport of one stream session.
// Frames are queued on send and written by writePump, the only writer of ws.
type conn struct {
	id   string
	ws   *websocket.Conn
	cfg  Config
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
	// stopped closes when writePump has returned and the socket is closed.
	stopped chan struct{}
}

var _ entity.Transport = (*conn)(nil)

func newConn(id string, ws *websocket.Conn, cfg Config) *conn {
	return &conn{
		id:      id,
		ws:      ws,
		cfg:     cfg,
		send:    make(chan []byte, cfg.OutboundBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (c *conn) ID() string { return c.id }

// Send queues evt without blocking.
func (c *conn) Send(evt entity.Event) error {
	select {
	case <-c.done:
		return usecase.ErrOutboundClosed
	default:
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return usecase.ErrOutboundClosed
	case c.send <- data:
		return nil
	default:
		return usecase.ErrOutboundFull
	}
}

// Close flushes queued frames and closes the socket. It is idempotent.
func (c *conn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
		close(c.stopped)
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				logrus.WithError(err).WithField("connection_id", c.id).Debug("stream write failed")
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.drain()
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// drain writes whatever is still queued so a final error event reaches the peer.
func (c *conn) drain() {
	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *conn) write(messageType int, data []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, data)
}
