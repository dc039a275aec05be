// Package server exposes the analysis service over HTTP: a WebSocket feed
// of per-star analysis events, Prometheus metrics and a status endpoint.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/pipeline"
)

// Event is one message on the WebSocket feed.
type Event struct {
	Type       string                    `json:"type"`
	StarID     string                    `json:"star_id"`
	Status     string                    `json:"status,omitempty"`
	Candidates []domain.TransitCandidate `json:"candidates,omitempty"`
	Timestamp  int64                     `json:"timestamp"`
}

// Event types published on the feed.
const (
	EventStarAnalyzed  = "star_analyzed"
	EventBatchStarted  = "batch_started"
	EventBatchFinished = "batch_finished"
)

const (
	// clientBuffer is the per-client send queue. A client that falls this
	// far behind is disconnected rather than blocking the hub.
	clientBuffer = 64

	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 60 * time.Second
)

// Hub fans analysis events out to connected WebSocket clients.
type Hub struct {
	logger *slog.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client is one connected WebSocket peer.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. Call Run before publishing events.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*client]struct{}),
	}
}

// Run dispatches events until ctx is cancelled. It closes all client
// connections on shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", "clients", h.ClientCount())
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", "clients", h.ClientCount())
		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow client, drop it.
					go func(c *client) { h.unregister <- c }(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts an event to all connected clients. It never blocks:
// if the hub's queue is full the event is dropped.
func (h *Hub) Publish(ev Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("event dropped, broadcast queue full", "type", ev.Type)
	}
}

// PublishOutcome publishes a star_analyzed event for one outcome.
func (h *Hub) PublishOutcome(out *pipeline.Outcome) {
	h.Publish(Event{
		Type:       EventStarAnalyzed,
		StarID:     out.StarID,
		Status:     string(out.Status),
		Candidates: out.Candidates,
	})
}

// serve registers the client and pumps messages until the connection drops.
func (h *Hub) serve(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
	h.register <- c

	go c.writePump()
	c.readPump(h)
}

// readPump discards inbound messages and detects disconnects. The feed is
// one-way; clients only listen.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends queued events and periodic pings to the client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
