package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ErrSlowConsumer is returned when a client's outbound queue is full. The
// client is disconnected; the browser reconnects and refetches.
var ErrSlowConsumer = errors.New("client send queue is full")

// Timing controls keepalive and queueing for a connection
type Timing struct {
	WriteWait time.Duration
	PongWait  time.Duration
	QueueSize int
	ReadLimit int64
}

// DefaultTiming pings every 54s and drops peers silent for 60s
var DefaultTiming = Timing{
	WriteWait: 10 * time.Second,
	PongWait:  60 * time.Second,
	QueueSize: 256,
	ReadLimit: 512,
}

func (t Timing) pingPeriod() time.Duration {
	return t.PongWait * 9 / 10
}

// Client is one browser tab subscribed to an owner's change events
type Client struct {
	id      string
	ownerID uuid.UUID
	conn    *websocket.Conn
	timing  Timing
	queue   chan []byte

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

// NewClient wraps an upgraded connection with DefaultTiming
func NewClient(conn *websocket.Conn, ownerID uuid.UUID) *Client {
	return NewClientWithTiming(conn, ownerID, DefaultTiming)
}

// NewClientWithTiming wraps an upgraded connection
func NewClientWithTiming(conn *websocket.Conn, ownerID uuid.UUID, timing Timing) *Client {
	return &Client{
		id:      uuid.New().String(),
		ownerID: ownerID,
		conn:    conn,
		timing:  timing,
		queue:   make(chan []byte, timing.QueueSize),
		done:    make(chan struct{}),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// OwnerID returns the ID of the user the client belongs to
func (c *Client) OwnerID() uuid.UUID {
	return c.ownerID
}

// Send queues an encoded event. It never blocks: a full queue disconnects
// the client.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.queue <- data:
		return nil
	default:
		go c.Close()
		return ErrSlowConsumer
	}
}

// Close ends the connection. It is idempotent.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.done)
		c.mu.Unlock()

		err = c.conn.Close()
	})
	return err
}

// Serve registers the client with hub and pumps the connection until the
// peer goes away, ctx ends or the client is closed. It unregisters before
// returning.
func (c *Client) Serve(ctx context.Context, hub *Hub) {
	hub.Register(c)
	defer func() {
		hub.Unregister(c)
		_ = c.Close()
	}()

	go c.writeLoop()
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-c.done:
		}
	}()

	c.readLoop()
}

// readLoop discards inbound frames; the connection is push-only. Reading
// keeps pong handling and close detection working.
func (c *Client) readLoop() {
	c.conn.SetReadLimit(c.timing.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.timing.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.timing.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("owner_id", c.ownerID.String()).
					Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(c.timing.pingPeriod())
	defer ticker.Stop()

	for {
		select {
		case message := <-c.queue:
			if err := c.write(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("owner_id", c.ownerID.String()).
					Msg("WebSocket write error")
				_ = c.Close()
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-c.done:
			// Best effort; the connection may already be gone
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.timing.WriteWait))
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timing.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
