// Package relay implements an adversarial-transport-capable frame relay:
// a server that forwards opaque Double Ratchet ciphertext between exactly
// two named endpoints per channel, with no visibility into (and no
// dependency on) the ratchet semantics it carries. It is generalized from
// the teacher's chat Hub/Client (internal/websocket/hub.go,
// internal/websocket/client.go): the connection-lifecycle skeleton
// (register/unregister channels, a clients map guarded by a mutex,
// ReadPump/WritePump) survives; the JSON message-type routing, HMAC/nonce
// replay protection, Redis cross-server fan-out, and presence/inbox
// integration do not, since a relay has no notion of message content,
// users, or offline delivery — those all live above it, in the ratchet
// and X3DH layers the spec defines.
package relay

import (
	"log"
	"sync"
	"time"
)

// Hub owns the set of open channels, each pairing at most two endpoints.
// Mirrors the teacher's Hub shape (internal/websocket/hub.go Hub struct)
// stripped to what a content-blind relay needs.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]*Channel

	register   chan *registration
	unregister chan *Client
	frame      chan incomingFrame

	transport Transport
	metrics   MetricsSink

	shutdown chan struct{}
}

// MetricsSink is the subset of telemetry.Telemetry the hub records
// against, kept as an interface so this package does not import
// internal/telemetry directly (avoiding a dependency edge the teacher's
// own Hub also doesn't take on - it's told about counters, not wired to
// a concrete metrics type).
type MetricsSink interface {
	RecordConnection(delta int)
	RecordRelayed(outcome string)
	RecordDropped(reason string)
}

type noopMetrics struct{}

func (noopMetrics) RecordConnection(int) {}
func (noopMetrics) RecordRelayed(string) {}
func (noopMetrics) RecordDropped(string) {}

type registration struct {
	client *Client
	result chan error
}

type incomingFrame struct {
	from *Client
	data []byte
}

// Channel is a rendezvous point for exactly two endpoints exchanging
// ratchet frames.
type Channel struct {
	ID      string
	Clients map[string]*Client // keyed by endpoint ID
}

// NewHub constructs a Hub. A nil transport behaves as an ideal (lossless,
// in-order, no duplication) transport; a nil metrics sink discards all
// observations.
func NewHub(transport Transport, metrics MetricsSink) *Hub {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Hub{
		channels:   make(map[string]*Channel),
		register:   make(chan *registration),
		unregister: make(chan *Client),
		frame:      make(chan incomingFrame, 256),
		transport:  transport,
		metrics:    metrics,
		shutdown:   make(chan struct{}),
	}
}

// Run drives the hub's main loop, mirroring the teacher's Hub.Run select
// loop over register/unregister/broadcast channels
// (internal/websocket/hub.go).
func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			reg.result <- h.addClient(reg.client)

		case c := <-h.unregister:
			h.removeClient(c)

		case f := <-h.frame:
			h.relay(f)

		case <-h.shutdown:
			return
		}
	}
}

// Stop ends the hub's Run loop.
func (h *Hub) Stop() {
	close(h.shutdown)
}

func (h *Hub) addClient(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.channels[c.ChannelID]
	if !ok {
		ch = &Channel{ID: c.ChannelID, Clients: make(map[string]*Client)}
		h.channels[c.ChannelID] = ch
	}
	if len(ch.Clients) >= 2 {
		if _, alreadyPresent := ch.Clients[c.EndpointID]; !alreadyPresent {
			return ErrChannelFull
		}
	}
	ch.Clients[c.EndpointID] = c
	h.metrics.RecordConnection(1)
	log.Printf("relay: %s joined channel %s (%d/2)", c.EndpointID, c.ChannelID, len(ch.Clients))
	return nil
}

// deliver sends d to dest, honoring d.Delay to simulate reordering
// (spec §4.4 out-of-order delivery). A delayed send that races a channel
// close just drops silently, matching the teacher's best-effort
// WritePump backpressure handling (internal/websocket/client.go).
func (h *Hub) deliver(dest *Client, d Delivery) {
	send := func() {
		defer func() { recover() }()
		select {
		case dest.send <- d.Data:
			h.metrics.RecordRelayed("delivered")
		default:
			h.metrics.RecordDropped("send_buffer_full")
		}
	}
	if d.Delay <= 0 {
		send()
		return
	}
	time.AfterFunc(d.Delay, send)
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.channels[c.ChannelID]
	if !ok {
		return
	}
	if current, ok := ch.Clients[c.EndpointID]; ok && current == c {
		delete(ch.Clients, c.EndpointID)
		close(c.send)
		h.metrics.RecordConnection(-1)
	}
	if len(ch.Clients) == 0 {
		delete(h.channels, c.ChannelID)
	}
}

// relay forwards a frame from its sender to the other endpoint in the
// same channel, subject to the configured Transport's drop/duplicate/
// reorder behavior.
func (h *Hub) relay(f incomingFrame) {
	h.mu.RLock()
	ch, ok := h.channels[f.from.ChannelID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	var dest *Client
	h.mu.RLock()
	for id, c := range ch.Clients {
		if id != f.from.EndpointID {
			dest = c
			break
		}
	}
	h.mu.RUnlock()
	if dest == nil {
		h.metrics.RecordDropped("no_peer")
		return
	}

	transport := h.transport
	if transport == nil {
		transport = IdealTransport{}
	}

	deliveries := transport.Apply(f.data)
	if len(deliveries) == 0 {
		h.metrics.RecordDropped("transport_simulation")
		return
	}
	for _, d := range deliveries {
		h.deliver(dest, d)
	}
}
