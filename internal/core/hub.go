package core

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// NamePolicy decides what happens when a connection announces a display name
// that another live connection already holds.
type NamePolicy int

const (
	// NameTakeover registers the new connection under the name and announces
	// a reconnect. The older entry stays until its own disconnect, so two
	// live connections can share a name for the length of the reconnect
	// window.
	NameTakeover NamePolicy = iota
	// NameReject refuses the announce with a name_taken error and leaves all
	// state untouched.
	NameReject
)

// ParseNamePolicy maps a configuration string onto a NamePolicy.
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch s {
	case "", "takeover":
		return NameTakeover, nil
	case "reject":
		return NameReject, nil
	default:
		return NameTakeover, fmt.Errorf("unknown duplicate name policy %q", s)
	}
}

func (p NamePolicy) String() string {
	if p == NameReject {
		return "reject"
	}
	return "takeover"
}

// inboundCommand pairs a command with the client that issued it.
type inboundCommand struct {
	client *Client
	cmd    Command
}

// Hub owns all mutable chat state: the session registry, the history log and
// the set of connected clients. Every mutation funnels through Run's select
// loop, so concurrent connects, disconnects and messages collapse into one
// serial order. State is committed before fan-out, and fan-out never blocks:
// a full client buffer loses the event for that client only.
type Hub struct {
	history  *History
	registry *Registry
	policy   NamePolicy
	log      *zerolog.Logger

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundCommand
	done       chan struct{}

	// now stamps history events; swapped out in tests.
	now func() time.Time

	started   time.Time
	connected atomic.Int64
	received  atomic.Int64
	delivered atomic.Int64
	dropped   atomic.Int64
}

// NewHub wires a hub around its state. A nil history or registry gets a
// default instance; a nil logger disables logging.
func NewHub(history *History, registry *Registry, policy NamePolicy, logger *zerolog.Logger) *Hub {
	if history == nil {
		history = NewHistory(DefaultHistoryCapacity)
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		history:    history,
		registry:   registry,
		policy:     policy,
		log:        logger,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundCommand, 64),
		done:       make(chan struct{}),
		now:        time.Now,
		started:    time.Now(),
	}
}

// History exposes the log for read-only snapshots.
func (h *Hub) History() *History {
	return h.history
}

// Registry exposes the session table for read-only snapshots.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Register hands a freshly accepted connection to the hub. The connection
// starts unnamed and receives a targeted history snapshot before any further
// events. Safe to call after shutdown.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister signals the disconnect of a connection. Safe to call more than
// once and after shutdown.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Dispatch queues a client command for serialized processing.
func (h *Hub) Dispatch(c *Client, cmd Command) {
	select {
	case h.inbound <- inboundCommand{client: c, cmd: cmd}:
	case <-h.done:
	}
}

// Run processes hub traffic until the context is cancelled. It is the only
// writer of the registry, the history and the client set.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return
		case c := <-h.register:
			h.handleConnect(c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case in := <-h.inbound:
			h.handleCommand(in.client, in.cmd)
		}
	}
}

func (h *Hub) stop() {
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Events)
	}
	h.connected.Store(0)
	h.log.Debug().Msg("hub stopped")
}

func (h *Hub) handleConnect(c *Client) {
	h.clients[c] = struct{}{}
	h.connected.Add(1)
	h.send(c, NewHistoryEvent(h.history.Snapshot()))
	h.log.Debug().Str("conn_id", c.ID).Int("clients", len(h.clients)).Msg("client connected")
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.connected.Add(-1)
	close(c.Events)

	name, named := h.registry.Lookup(c.ID)
	if !named {
		// Never announced, so leaving is not a visible event.
		h.log.Debug().Str("conn_id", c.ID).Msg("unnamed client disconnected")
		return
	}
	h.registry.Remove(c.ID)
	ev := NewLeftEvent(c.ID, name, h.now())
	h.history.Append(ev)
	h.broadcast(ev)
	h.log.Debug().Str("conn_id", c.ID).Str("user", name).Msg("client left")
}

func (h *Hub) handleCommand(c *Client, cmd Command) {
	if _, ok := h.clients[c]; !ok {
		// Commands racing a disconnect are dropped.
		return
	}
	switch cmd.Kind {
	case CommandAnnounceName:
		h.handleAnnounce(c, cmd.Name)
	case CommandPostMessage:
		h.handlePost(c, cmd.Body)
	default:
		h.log.Debug().Int("kind", int(cmd.Kind)).Msg("ignoring unknown command")
	}
}

func (h *Hub) handleAnnounce(c *Client, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		// Empty and whitespace-only names are rejected without a reply.
		h.log.Debug().Str("conn_id", c.ID).Msg("ignoring empty name announce")
		return
	}
	if h.registry.NameInUse(name) {
		if h.policy == NameReject {
			h.send(c, NewErrorEvent(ErrCodeNameTaken, "display name already in use"))
			h.log.Debug().Str("conn_id", c.ID).Str("user", name).Msg("rejected duplicate name")
			return
		}
		// Takeover: the name moves to this connection; the stale entry is
		// pruned by its own disconnect. Reconnects never enter history.
		h.registry.Register(c.ID, name)
		h.broadcast(NewReconnectedEvent(c.ID, name))
		h.log.Debug().Str("conn_id", c.ID).Str("user", name).Msg("client reconnected")
		return
	}
	h.registry.Register(c.ID, name)
	ev := NewJoinedEvent(c.ID, name, h.now())
	h.history.Append(ev)
	h.broadcast(ev)
	h.log.Debug().Str("conn_id", c.ID).Str("user", name).Msg("client joined")
}

func (h *Hub) handlePost(c *Client, body string) {
	name, ok := h.registry.Lookup(c.ID)
	if !ok {
		// Unnamed connections cannot post.
		h.log.Debug().Str("conn_id", c.ID).Msg("dropping message from unnamed client")
		return
	}
	h.received.Add(1)
	ev := NewMessageEvent(c.ID, name, body, h.now())
	h.history.Append(ev)
	h.broadcast(ev)
}

// broadcast offers the event to every connected client, originator included.
// The caller has already committed the matching state change.
func (h *Hub) broadcast(ev Event) {
	for c := range h.clients {
		h.send(c, ev)
	}
}

func (h *Hub) send(c *Client, ev Event) {
	select {
	case c.Events <- ev:
		h.delivered.Add(1)
	default:
		// Drop rather than stall the loop on a slow consumer.
		h.dropped.Add(1)
		h.log.Warn().Str("conn_id", c.ID).Int("kind", int(ev.Kind)).Msg("dropping event for slow client")
	}
}

// Stats is a point-in-time snapshot of hub counters.
type Stats struct {
	ConnectedClients int64
	MessagesReceived int64
	EventsDelivered  int64
	EventsDropped    int64
	HistoryLen       int
	Uptime           time.Duration
}

// Stats reports the current counters. Safe from any goroutine.
func (h *Hub) Stats() Stats {
	return Stats{
		ConnectedClients: h.connected.Load(),
		MessagesReceived: h.received.Load(),
		EventsDelivered:  h.delivered.Load(),
		EventsDropped:    h.dropped.Load(),
		HistoryLen:       h.history.Len(),
		Uptime:           time.Since(h.started),
	}
}
