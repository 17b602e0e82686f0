// Package realtime pushes change events to connected websocket clients so
// they can refetch the affected lists.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Tables that emit change events.
const (
	TablePosts         = "posts"
	TableComments      = "comments"
	TableLikes         = "likes"
	TableMessages      = "messages"
	TablePollVotes     = "poll_votes"
	TableNotifications = "notifications"
)

// Change types.
const (
	Insert = "INSERT"
	Update = "UPDATE"
	Delete = "DELETE"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

// Event describes one row change. UserIDs scopes delivery; empty means everyone.
type Event struct {
	Table    string `json:"table"`
	Type     string `json:"type"`
	RecordID string `json:"record_id"`
	UserIDs  []uint `json:"user_ids,omitempty"`
}

// Publisher is implemented by anything that can fan an event out.
type Publisher interface {
	Publish(ev Event)
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	send   chan []byte
}

// Hub tracks connected clients. All client set mutations happen on the Run goroutine.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	events     chan Event
	count      chan chan int
	done       chan struct{}
	upgrader   websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan Event, 256),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = true

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev Event) {
	msg, err := json.Marshal(Event{Table: ev.Table, Type: ev.Type, RecordID: ev.RecordID})
	if err != nil {
		log.Printf("realtime: marshal event: %v", err)
		return
	}

	var audience map[uint]bool
	if len(ev.UserIDs) > 0 {
		audience = make(map[uint]bool, len(ev.UserIDs))
		for _, id := range ev.UserIDs {
			audience[id] = true
		}
	}

	for c := range h.clients {
		if audience != nil && !audience[c.userID] {
			continue
		}
		select {
		case c.send <- msg:
		default:
			// slow consumer; it will reconnect and refetch
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Publish queues ev for delivery. Events are dropped when the queue is full.
func (h *Hub) Publish(ev Event) {
	select {
	case h.events <- ev:
	default:
		log.Printf("realtime: event queue full, dropping %s %s", ev.Table, ev.Type)
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Serve upgrades the request and streams events for userID until the
// connection drops.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{hub: h, conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}

	go c.writePump()
	c.readPump()
	return nil
}

// readPump only watches for close and pong frames; clients do not send data.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("realtime: read error for user %d: %v", c.userID, err)
			}
			return
		}
	}
}

func (c *client) writePump() {
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
