// Package busbridge optionally mirrors every store.ActivityEvent onto
// an embedded NATS subject ("orchestrator.events") so out-of-scope
// external collaborators (notification relays, IDE plugins) can
// subscribe without the core ever depending on them (SPEC_FULL.md §3).
// Purely additive: the store remains the sole source of truth, and a
// disabled or failed bridge never affects reconciliation.
//
// Grounded on the teacher's internal/nats package: EmbeddedServer's
// server.Options + server.NewServer + ReadyForConnections startup
// sequence (internal/nats/server.go) and Client's Connect/Publish
// wrapper (internal/nats/client.go), narrowed from the teacher's
// general-purpose pub/sub + request/reply + JetStream surface down to
// the one subject this domain needs.
package busbridge

import (
	"encoding/json"
	"fmt"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	nc "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/events"
	"github.com/taskweave/orchestrator/internal/store"
)

// EventsSubject is the single NATS subject activity events are mirrored to.
const EventsSubject = "orchestrator.events"

// Bridge owns an embedded NATS server plus a publishing client
// subscribed to the in-process event bus.
type Bridge struct {
	server      *natsserver.Server
	conn        *nc.Conn
	unsubscribe func()
	log         zerolog.Logger
}

// Start launches an embedded NATS server on port, connects a client to
// it, and republishes every event.Bus event (no type filter) to
// EventsSubject as JSON until Close is called.
func Start(port int, bus *events.Bus, log zerolog.Logger) (*Bridge, error) {
	opts := &natsserver.Options{
		Host:       "127.0.0.1",
		Port:       port,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: 1024 * 1024,
	}

	ns, err := natsserver.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create embedded nats server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		return nil, fmt.Errorf("embedded nats server not ready for connections")
	}

	conn, err := nc.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connect to embedded nats server: %w", err)
	}

	b := &Bridge{server: ns, conn: conn, log: log}
	b.unsubscribe = b.bridgeEvents(bus)
	log.Info().Str("url", ns.ClientURL()).Str("subject", EventsSubject).Msg("event bus bridge started")
	return b, nil
}

func (b *Bridge) bridgeEvents(bus *events.Bus) func() {
	ch := bus.Subscribe()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				b.publish(event)
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		bus.Unsubscribe(ch)
	}
}

func (b *Bridge) publish(event store.ActivityEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		b.log.Warn().Err(err).Msg("failed to marshal activity event for nats bridge")
		return
	}
	if err := b.conn.Publish(EventsSubject, data); err != nil {
		b.log.Warn().Err(err).Msg("failed to publish activity event to nats")
	}
}

// Close stops the bridge goroutine, closes the client connection
// without draining it, and shuts down the embedded server.
func (b *Bridge) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
	if b.conn != nil {
		b.conn.Close()
	}
	if b.server != nil {
		b.server.Shutdown()
		b.server.WaitForShutdown()
	}
}
