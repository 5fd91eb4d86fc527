// Package events pushes file record changes to the owner's open websocket
// connections.
package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"filemeta/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

const (
	EventFileCreated       = "file_created"
	EventFileStatusChanged = "file_status_changed"
	EventFileDeleted       = "file_deleted"
)

// Event is the message written to clients.
type Event struct {
	Type           string            `json:"type"`
	File           domain.FileRecord `json:"file"`
	PreviousStatus domain.FileStatus `json:"previous_status,omitempty"`
	At             time.Time         `json:"at"`
}

type connection struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks open connections per user. A user may hold several.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{connections: make(map[string]map[*connection]struct{})}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.userID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.connections, c.userID)
	}
}

// Connected returns the number of open connections of userID.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

func (h *Hub) FileCreated(f domain.FileRecord) {
	h.SendToUser(f.OwnerID, &Event{Type: EventFileCreated, File: f, At: f.CreatedAt})
}

func (h *Hub) FileStatusChanged(f domain.FileRecord, from domain.FileStatus) {
	h.SendToUser(f.OwnerID, &Event{Type: EventFileStatusChanged, File: f, PreviousStatus: from, At: f.UpdatedAt})
}

func (h *Hub) FileDeleted(f domain.FileRecord) {
	h.SendToUser(f.OwnerID, &Event{Type: EventFileDeleted, File: f, At: time.Now().UTC()})
}

// SendToUser queues event on every connection of userID. Slow clients whose
// buffer is full miss the event.
func (h *Hub) SendToUser(userID string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws_event_marshal_failed type=%s error=%q", event.Type, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[userID] {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ServeWS registers conn for userID and blocks until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID string) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// readPump only drains control frames; clients do not send commands.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws_read_error user_id=%s error=%q", c.userID, err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
