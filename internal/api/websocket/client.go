package websocket

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fortuna/dugout/internal/commands"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024
	sendBufferSize = 256
)

const (
	MessageTypeReply       = "reply"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeSubscribed  = "subscribed"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// ClientMessage is sent by subscribers. Subscribe narrows the feed to the
// listed commands and sources; empty lists match everything.
type ClientMessage struct {
	Type     string   `json:"type"`
	Commands []string `json:"commands,omitempty"`
	Sources  []string `json:"sources,omitempty"`
}

// ServerMessage is everything the server writes.
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type filter struct {
	commands []string
	sources  []string
}

// Client is one websocket subscriber.
type Client struct {
	ID     string
	conn   *websocket.Conn
	send   chan ServerMessage
	hub    *Hub
	logger *slog.Logger

	mu     sync.RWMutex
	filter filter
	closed bool
}

func newClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:     id,
		conn:   conn,
		send:   make(chan ServerMessage, sendBufferSize),
		hub:    hub,
		logger: hub.logger.With("client", id),
	}
}

// Matches reports whether ev passes the client's subscription filter.
func (c *Client) Matches(ev commands.Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.filter.commands) > 0 && !slices.Contains(c.filter.commands, ev.Command) {
		return false
	}
	if len(c.filter.sources) > 0 && !slices.Contains(c.filter.sources, ev.Source) {
		return false
	}
	return true
}

func (c *Client) setFilter(f filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

func (c *Client) trySend(msg ServerMessage) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close stops delivery. Safe to call more than once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump handles subscription messages until the connection drops.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for ctx.Err() == nil {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("unexpected close", "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg ClientMessage) {
	switch msg.Type {
	case MessageTypeSubscribe:
		f := filter{sources: msg.Sources}
		for _, name := range msg.Commands {
			f.commands = append(f.commands, strings.ToLower(name))
		}
		c.setFilter(f)
		c.trySend(ServerMessage{Type: MessageTypeSubscribed, Payload: msg, Timestamp: time.Now()})
	case MessageTypeUnsubscribe:
		c.setFilter(filter{})
		c.trySend(ServerMessage{Type: MessageTypeSubscribed, Payload: ClientMessage{Type: MessageTypeUnsubscribe}, Timestamp: time.Now()})
	case MessageTypeHeartbeat:
		c.trySend(ServerMessage{Type: MessageTypeHeartbeat, Timestamp: time.Now()})
	default:
		c.trySend(ServerMessage{
			Type:      MessageTypeError,
			Payload:   map[string]string{"code": "unknown_message_type", "message": "unknown message type: " + msg.Type},
			Timestamp: time.Now(),
		})
	}
}

// writePump drains send to the connection and keeps it alive with pings.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
