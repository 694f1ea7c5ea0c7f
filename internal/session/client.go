package session

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codepair/internal/models"
)

const (
	sendQueueSize = 256
	writeWait     = 5 * time.Second
)

var (
	// ErrSlowConsumer reports a recipient whose outbound queue is full.
	ErrSlowConsumer = errors.New("outbound queue full")
	ErrClientClosed = errors.New("client closed")
)

// Client is the handle for one live websocket connection. Outbound events
// are queued and drained by WritePump so a stalled peer never blocks the
// goroutine that enqueued the event.
type Client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	hook   func(models.OutboundEvent) error
	closed bool

	send chan models.OutboundEvent
	done chan struct{}
	once sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan models.OutboundEvent, sendQueueSize),
		done: make(chan struct{}),
	}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.OutboundEvent) error) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send enqueues one event without blocking. A full queue or a closed
// client is reported as an error so the caller can treat it as a
// per-recipient delivery failure.
func (c *Client) Send(event models.OutboundEvent) error {
	c.mu.Lock()
	hook, closed := c.hook, c.closed
	c.mu.Unlock()

	if hook != nil {
		return hook(event)
	}
	if closed {
		return ErrClientClosed
	}
	select {
	case c.send <- event:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSlowConsumer
	}
}

// Read blocks until the next inbound event arrives on the connection.
func (c *Client) Read(event *models.InboundEvent) error {
	if c.conn == nil {
		return ErrClientClosed
	}
	return c.conn.ReadJSON(event)
}

// WritePump drains the outbound queue onto the connection. It exits when
// the client is closed or a write fails; the session's own read loop
// notices the dead connection independently.
func (c *Client) WritePump() {
	for {
		select {
		case event := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// CloseWithReason sends an application-level close frame before tearing
// the connection down.
func (c *Client) CloseWithReason(code int, reason string) {
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	c.Close()
}

func (c *Client) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}
