package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fortuna/dugout/internal/commands"
)

const broadcastBuffer = 1000

// Hub maintains the set of active clients and fans command replies out to
// them. It implements commands.Observer.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan commands.Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex

	logger *slog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan commands.Event, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws-hub"),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case ev := <-h.broadcast:
			h.broadcastEvent(ev)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues ev for every subscribed client. Drops when the queue is full.
func (h *Hub) Broadcast(ev commands.Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("broadcast buffer full, dropping reply", "command", ev.Command)
	}
}

// OnCommand implements commands.Observer.
func (h *Hub) OnCommand(_ context.Context, ev commands.Event) {
	h.Broadcast(ev)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.logger.Debug("client connected", "client", c.ID, "total", len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
		h.logger.Debug("client disconnected", "client", c.ID, "total", len(h.clients))
	}
}

func (h *Hub) broadcastEvent(ev commands.Event) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	msg := ServerMessage{
		Type:      MessageTypeReply,
		Payload:   ev,
		Timestamp: time.Now(),
	}

	sent := 0
	for _, c := range clients {
		if !c.Matches(ev) {
			continue
		}
		if c.trySend(msg) {
			sent++
			continue
		}
		// too slow to keep up
		h.logger.Warn("client buffer full, disconnecting", "client", c.ID)
		go h.Unregister(c)
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages++
		h.metricsMu.Unlock()
	}
}

// Metrics returns hub counters.
func (h *Hub) Metrics() map[string]interface{} {
	active := h.ClientCount()

	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	return map[string]interface{}{
		"active_clients":     active,
		"total_connections":  h.totalConnections,
		"total_messages":     h.totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info("shutting down hub", "clients", len(h.clients))
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}
