package liveview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/events"
	"github.com/taskweave/orchestrator/internal/store"
)

// wsMessage is the single outbound envelope liveview ever sends: a
// full snapshot on connect and a refresh, or a single activity event
// as it happens. The browser distinguishes them by Type.
type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	msgTypeSnapshot = "snapshot"
	msgTypeActivity = "activity"
)

// upgrader has CheckOrigin always true: this mirror is meant for a
// loopback dashboard companion view, and spec.md's Non-goals exclude
// authentication entirely, so no origin allowlist is maintained.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the store snapshot and activity stream over HTTP,
// read-only. Grounded on the teacher's internal/server.Server: a
// gorilla/mux router, an http.Server, and a Hub, wired together in
// NewServer/Start/Shutdown the same way.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	hub        *Hub
	db         *store.DB
	bus        *events.Bus
	log        zerolog.Logger

	unsubscribe func()
}

// NewServer builds a Server bound to addr (e.g. "127.0.0.1:7777").
// recentLimit bounds the activity backlog included in each snapshot
// response.
func NewServer(addr string, db *store.DB, bus *events.Bus, recentLimit int, log zerolog.Logger) *Server {
	if recentLimit <= 0 {
		recentLimit = 20
	}
	hub := NewHub(log)

	s := &Server{
		hub: hub,
		db:  db,
		bus: bus,
		log: log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/snapshot", s.handleSnapshot(recentLimit)).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
	s.router = r

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the hub loop, the activity-event bridge, and the HTTP
// server, blocking until the server stops. Call from its own
// goroutine; Shutdown triggers a clean return.
func (s *Server) Start() error {
	go s.hub.Run()
	s.unsubscribe = s.bridgeActivity()

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server and unsubscribes from the
// event bus.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	return s.httpServer.Shutdown(ctx)
}

// bridgeActivity subscribes to every activity event and re-broadcasts
// it to connected browsers, returning an unsubscribe func.
func (s *Server) bridgeActivity() func() {
	ch := s.bus.Subscribe()
	go func() {
		for event := range ch {
			s.hub.BroadcastJSON(wsMessage{Type: msgTypeActivity, Data: event})
		}
	}()
	return func() { s.bus.Unsubscribe(ch) }
}

func (s *Server) handleSnapshot(recentLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.db.TakeSnapshot(recentLimit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			s.log.Warn().Err(err).Msg("liveview: failed to encode snapshot response")
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("liveview: websocket upgrade failed")
		return
	}

	client := &Client{hub: s.hub, conn: conn, send: make(chan []byte, wsBufferSize)}
	s.hub.Register(client)

	if snap, err := s.db.TakeSnapshot(20); err == nil {
		data, _ := json.Marshal(wsMessage{Type: msgTypeSnapshot, Data: snap})
		select {
		case client.send <- data:
		default:
		}
	}

	go client.writePump()
	go client.readPump()
}
