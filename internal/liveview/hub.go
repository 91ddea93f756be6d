// Package liveview mirrors the dashboard's snapshot over a browser
// websocket, read-only and additive to spec.md (SPEC_FULL.md §5.3):
// it never accepts a write back into the store. Grounded on the
// teacher's internal/server package (Hub/Client register-unregister-
// broadcast loop, gorilla/mux route registration, gorilla/websocket
// upgrade handshake), narrowed to one outbound envelope carrying two
// message types (snapshot, activity) instead of the teacher's
// multi-type WSMessage taxonomy.
package liveview

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// wsBufferSize bounds the per-client and broadcast channel depth,
// matching the teacher's WebSocketBufferSize.
const wsBufferSize = 256

// Client is one connected browser.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans broadcast messages out to every registered Client. Safe
// for concurrent use; Run must be started exactly once in its own
// goroutine.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	log        zerolog.Logger
}

// NewHub builds an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, wsBufferSize),
		log:        log,
	}
}

// Run services register/unregister/broadcast until its channels are
// abandoned; intended to run for the process lifetime in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a client to the broadcast set.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister removes a client.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// ClientCount reports the number of connected browsers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastJSON marshals v and fans it out to every client, dropping
// silently (with a warning log) on marshal failure since there is no
// caller to return an error to from the dashboard loop.
func (h *Hub) BroadcastJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Warn().Err(err).Msg("liveview: failed to marshal broadcast message")
		return
	}
	h.broadcast <- data
}

// readPump drains and discards incoming frames; liveview is read-only
// so the only purpose of reading is to detect client disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump delivers queued messages to the browser until send is
// closed (on unregister) or a write fails.
func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
