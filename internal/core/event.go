package core

import (
	"fmt"
	"time"
)

// TimestampLayout is the minute-granularity wall-clock label attached to
// history events. It is display metadata; insertion order stays the
// authoritative ordering.
const TimestampLayout = "15:04"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserJoined announces a connection that registered a fresh display name.
	EventUserJoined EventKind = iota
	// EventUserLeft announces the disconnect of a named connection.
	EventUserLeft
	// EventUserReconnected announces a live display name picked up by a new
	// connection. Never recorded in history.
	EventUserReconnected
	// EventChatMessage carries a chat message from a named connection.
	EventChatMessage
	// EventHistory delivers the history snapshot to a newly connected client.
	EventHistory
	// EventError notifies a single client about a domain error.
	EventError
)

// Event describes what happened in the system. Joined, left and message
// events are the ones the history log records; the other kinds are live-only.
type Event struct {
	Kind   EventKind
	ConnID string
	User   string
	// Message is the human-readable system line for joined/left events.
	Message string
	// Body is the chat text for message events.
	Body string
	// Timestamp is the HH:MM label the event was stamped with.
	Timestamp string
	// History carries the snapshot for EventHistory.
	History []Event
	Error   *CoreError
}

// NewJoinedEvent builds the history event for a first-time name announce.
func NewJoinedEvent(connID, user string, at time.Time) Event {
	return Event{
		Kind:      EventUserJoined,
		ConnID:    connID,
		User:      user,
		Message:   fmt.Sprintf("%s joined the chat", user),
		Timestamp: at.Format(TimestampLayout),
	}
}

// NewLeftEvent builds the history event for the disconnect of a named connection.
func NewLeftEvent(connID, user string, at time.Time) Event {
	return Event{
		Kind:      EventUserLeft,
		ConnID:    connID,
		User:      user,
		Message:   fmt.Sprintf("%s left the chat", user),
		Timestamp: at.Format(TimestampLayout),
	}
}

// NewMessageEvent builds the history event for a chat message.
func NewMessageEvent(connID, user, body string, at time.Time) Event {
	return Event{
		Kind:      EventChatMessage,
		ConnID:    connID,
		User:      user,
		Body:      body,
		Timestamp: at.Format(TimestampLayout),
	}
}

// NewReconnectedEvent builds the live-only rejoin notification.
func NewReconnectedEvent(connID, user string) Event {
	return Event{Kind: EventUserReconnected, ConnID: connID, User: user}
}

// NewHistoryEvent wraps a snapshot for targeted delivery to one client.
func NewHistoryEvent(events []Event) Event {
	return Event{Kind: EventHistory, History: events}
}

// NewErrorEvent wraps a domain error for targeted delivery to one client.
func NewErrorEvent(code, msg string) Event {
	return Event{Kind: EventError, Error: coreError(code, msg)}
}
