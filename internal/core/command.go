package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandAnnounceName registers a display name for the connection.
	CommandAnnounceName CommandKind = iota
	// CommandPostMessage sends a chat message to every connected client.
	CommandPostMessage
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	// Name is the display name for CommandAnnounceName.
	Name string
	// Body is the chat text for CommandPostMessage. Passed through unvalidated.
	Body string
}
