package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"aquavigil/backend/services/dashboard-agent/internal/metrics"
)

// Event is one update pushed to connected dashboard views.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans poll updates out to every connected dashboard view. Push-only: the
// read side exists solely to notice the peer going away.
type Hub struct {
	mu           sync.Mutex
	conns        map[*client]struct{}
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

type client struct {
	ws   *websocket.Conn
	send chan Event
}

// NewHub builds an empty hub.
func NewHub(writeTimeout time.Duration, logger *zap.Logger) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Hub{
		conns:        make(map[*client]struct{}),
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler upgrades the request and keeps the connection subscribed until it
// closes.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{ws: conn, send: make(chan Event, 16)}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	metrics.WSClientDelta(1)
	h.logger.Info("dashboard view connected", zap.String("remote", conn.RemoteAddr().String()))

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	c.ws.SetReadLimit(4096)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	for event := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.ws.WriteJSON(event); err != nil {
			h.logger.Info("dashboard view write failed", zap.Error(err))
			_ = c.ws.Close()
			return
		}
	}
	_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

// Broadcast queues the event for every connected view, dropping it for clients
// whose buffer is full.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	event := Event{Type: eventType, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- event:
		default:
			h.logger.Warn("dropping dashboard event, buffer full", zap.String("type", eventType))
		}
	}
}

// Close tears down every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range conns {
		close(c.send)
		_ = c.ws.Close()
		metrics.WSClientDelta(-1)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.conns[c]
	if ok {
		delete(h.conns, c)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	close(c.send)
	_ = c.ws.Close()
	metrics.WSClientDelta(-1)
}
