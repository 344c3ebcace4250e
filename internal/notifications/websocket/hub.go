package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/alerts"
)

// Message is the envelope pushed to connected clients.
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub delivers alert notifications to each principal's open connections.
// It implements the alert engine's Notifier interface.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[string]*connection
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

type connection struct {
	id        string
	principal string
	conn      *websocket.Conn
	send      chan Message
}

// NewHub creates the notification hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string]map[string]*connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades the request and registers the connection under
// the given principal.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, principal string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		id:        uuid.NewString(),
		principal: principal,
		conn:      conn,
		send:      make(chan Message, 64),
	}

	h.mu.Lock()
	if h.connections[principal] == nil {
		h.connections[principal] = make(map[string]*connection)
	}
	h.connections[principal][c.id] = c
	h.mu.Unlock()

	h.logger.Info("websocket connected",
		zap.String("connection_id", c.id),
		zap.String("principal", principal))

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// AlertCreated pushes a new alert to the owning principal's connections.
// Delivery is best effort: a full buffer drops the message.
func (h *Hub) AlertCreated(alert alerts.Alert) {
	msg := Message{Type: "alert", Data: alert, Timestamp: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.connections[alert.Principal] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping alert notification, buffer full",
				zap.String("connection_id", c.id))
		}
	}
}

// ConnectionCount returns the number of open connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, conns := range h.connections {
		count += len(conns)
	}
	return count
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	if conns, ok := h.connections[c.principal]; ok {
		if _, ok := conns[c.id]; ok {
			delete(conns, c.id)
			close(c.send)
			if len(conns) == 0 {
				delete(h.connections, c.principal)
			}
		}
	}
	h.mu.Unlock()
}

// readPump discards inbound frames and tears the connection down on error.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
