package projection

// EntryKind distinguishes how a timeline entry is rendered.
type EntryKind int

const (
	// EntrySystem renders as a presence line (joins and leaves).
	EntrySystem EntryKind = iota
	// EntryChat renders as a chat bubble.
	EntryChat
)

// Entry is one line of the reconstructed timeline.
type Entry struct {
	Kind EntryKind
	User string
	// Text is the system line for EntrySystem and the message body for
	// EntryChat.
	Text string
	// TS is the minute label the entry arrived with.
	TS string
	// IsOwn marks chat entries authored by the local user.
	IsOwn bool
	// Separator marks entries whose minute label differs from the previous
	// entry's. The first entry never carries one, so entries sharing a label
	// group together visually.
	Separator bool
}
