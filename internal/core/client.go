package core

// Client is a single live connection as seen by the core layer. ID is the
// transport-assigned connection identity: unique per connection, invalid
// after disconnect, never reused. Events carries everything the hub wants
// delivered to this connection; the hub closes it on unregister.
type Client struct {
	ID     string
	Events chan Event
}

// NewClient constructs a client with a buffered event channel. Buffers below
// one fall back to a small default so the hub's non-blocking sends have room.
func NewClient(id string, buffer int) *Client {
	if buffer < 1 {
		buffer = 8
	}
	return &Client{
		ID:     id,
		Events: make(chan Event, buffer),
	}
}
