// Package proto defines the JSON envelopes and payloads exchanged over the
// websocket, plus the protocol version handshake.
package proto

import "encoding/json"

// ProtocolVersion is the wire protocol version this server speaks. Clients
// may announce theirs in hello; a newer one is refused.
const ProtocolVersion = 1

// Inbound is an envelope for messages from a client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound message types.
const (
	// InboundTypeHello announces the client's display name.
	InboundTypeHello = "hello"
	// InboundTypeMsg posts a chat message.
	InboundTypeMsg = "msg"
)

// HelloData carries the display name announce. Protocol is optional; zero
// means whatever the server speaks.
type HelloData struct {
	User     string `json:"user"`
	Protocol int    `json:"protocol,omitempty"`
}

// MsgData carries a chat message body.
type MsgData struct {
	Text string `json:"text"`
}

// Outbound is an envelope for messages to a client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Outbound envelope types.
const (
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// Outbound event names.
const (
	EventNameMessage     = "message"
	EventNameUserJoined  = "user_joined"
	EventNameUserLeft    = "user_left"
	EventNameReconnected = "user_reconnected"
	EventNameHistory     = "history"
)

// Error describes a failure reported to one client.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// EventMessage is a chat message broadcast to every client. TS is the HH:MM
// label the event was recorded with.
type EventMessage struct {
	ConnID string `json:"conn_id"`
	User   string `json:"user"`
	Body   string `json:"body"`
	TS     string `json:"ts"`
}

// EventUserJoined announces a user joining the chat.
type EventUserJoined struct {
	ConnID  string `json:"conn_id"`
	User    string `json:"user"`
	Message string `json:"message"`
	TS      string `json:"ts"`
}

// EventUserLeft announces a user leaving the chat.
type EventUserLeft struct {
	ConnID  string `json:"conn_id"`
	User    string `json:"user"`
	Message string `json:"message"`
	TS      string `json:"ts"`
}

// EventUserReconnected announces a live display name picked up by a new
// connection. Reconnects carry no timestamp and never appear in history.
type EventUserReconnected struct {
	ConnID string `json:"conn_id"`
	User   string `json:"user"`
}

// History entry kinds.
const (
	HistoryKindJoined  = "joined"
	HistoryKindLeft    = "left"
	HistoryKindMessage = "message"
)

// HistoryEntry is one recorded event inside a history snapshot, tagged by
// kind. Message is set for joined/left entries, Body for message entries.
type HistoryEntry struct {
	Kind    string `json:"kind"`
	ConnID  string `json:"conn_id"`
	User    string `json:"user"`
	Message string `json:"message,omitempty"`
	Body    string `json:"body,omitempty"`
	TS      string `json:"ts"`
}

// EventHistory delivers the snapshot to a newly connected client, oldest
// entry first.
type EventHistory struct {
	Events []HistoryEntry `json:"events"`
}
