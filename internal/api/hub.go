package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/velobay/shopsim/internal/events"
)

// wsMessage is the JSON envelope for every frame pushed over the socket.
type wsMessage struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// client is one connected browser tab.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub relays engine events to every connected websocket client. Subscribe it
// to the event bus and run it in its own goroutine.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

// NewHub creates an unstarted hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Relay returns the event handler to subscribe on the bus. Events are
// serialized here, on the publisher's goroutine, so the frame order matches
// the publish order.
func (h *Hub) Relay() func(events.Event) {
	return func(ev events.Event) {
		frame, err := json.Marshal(wsMessage{
			Type:    string(ev.Type),
			At:      ev.At,
			Payload: ev.Data,
		})
		if err != nil {
			slog.Error("event frame marshal failed", "type", ev.Type, "error", err)
			return
		}
		select {
		case h.broadcast <- frame:
		default:
			// Drop rather than stall the simulation behind a full relay.
			slog.Warn("event relay buffer full, dropping frame", "type", ev.Type)
		}
	}
}

// Run is the hub's event loop. Blocks; run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			slog.Info("websocket client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				slog.Info("websocket client disconnected", "clients", len(h.clients))
			}

		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// Slow consumer. Cut it loose instead of blocking the hub.
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// serveWs upgrades an HTTP request to a websocket and attaches it to the hub.
func serveWs(h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}
	c.hub.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so close frames are processed. Inbound
// payloads are ignored; the socket is a one-way event feed.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
