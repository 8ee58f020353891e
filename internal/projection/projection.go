// Package projection rebuilds a client-side view of the chat from the
// history snapshot and the live event stream. It never queries server state:
// the online set and the timeline derive purely from delivered events, so a
// user whose join fell off the bounded history (and who never left) is
// silently missing from a fresh reconstruction.
package projection

import (
	"encoding/json"
	"sort"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

// Projection is one client's view of who is online and what the chat looks
// like. Not safe for concurrent use; feed it from a single receive loop.
type Projection struct {
	self    string
	online  map[string]string // display name -> latest connection id
	entries []Entry
}

// New creates an empty projection. selfName marks which chat entries are the
// local user's own.
func New(selfName string) *Projection {
	return &Projection{
		self:   selfName,
		online: make(map[string]string),
	}
}

// ReplaySnapshot applies a history snapshot in order: joined entries record
// the name with its latest connection id, left entries remove the name no
// matter which connection carried it, and every entry lands in the timeline.
func (p *Projection) ReplaySnapshot(events []proto.HistoryEntry) {
	for _, e := range events {
		switch e.Kind {
		case proto.HistoryKindJoined:
			p.online[e.User] = e.ConnID
			p.appendEntry(EntrySystem, e.User, e.Message, e.TS)
		case proto.HistoryKindLeft:
			delete(p.online, e.User)
			p.appendEntry(EntrySystem, e.User, e.Message, e.TS)
		case proto.HistoryKindMessage:
			p.appendEntry(EntryChat, e.User, e.Body, e.TS)
		}
	}
}

// ApplyJoined handles a live join. The roster grows only when neither the
// connection id nor the name is present yet; the system line always lands.
func (p *Projection) ApplyJoined(ev proto.EventUserJoined) {
	if _, ok := p.online[ev.User]; !ok && !p.hasConn(ev.ConnID) {
		p.online[ev.User] = ev.ConnID
	}
	p.appendEntry(EntrySystem, ev.User, ev.Message, ev.TS)
}

// ApplyReconnected moves the name to its new connection id, replacing
// whichever connection held it before. Reconnects are presence-only and
// leave no timeline entry.
func (p *Projection) ApplyReconnected(ev proto.EventUserReconnected) {
	p.online[ev.User] = ev.ConnID
}

// ApplyMessage appends a chat entry. Presence does not change.
func (p *Projection) ApplyMessage(ev proto.EventMessage) {
	p.appendEntry(EntryChat, ev.User, ev.Body, ev.TS)
}

// ApplyLeft handles a live leave. Removal matches on the connection id, so
// the delayed death of a taken-over connection cannot knock out the user who
// reconnected under a new one.
func (p *Projection) ApplyLeft(ev proto.EventUserLeft) {
	for name, connID := range p.online {
		if connID == ev.ConnID {
			delete(p.online, name)
			break
		}
	}
	p.appendEntry(EntrySystem, ev.User, ev.Message, ev.TS)
}

// Consume decodes an outbound envelope and applies it. Unknown event names
// are skipped so older clients survive newer servers; error envelopes are
// the caller's business.
func (p *Projection) Consume(out proto.Outbound) error {
	if out.Type != proto.OutboundTypeEvent {
		return nil
	}
	raw, err := json.Marshal(out.Data)
	if err != nil {
		return err
	}
	switch out.Event {
	case proto.EventNameHistory:
		var ev proto.EventHistory
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		p.ReplaySnapshot(ev.Events)
	case proto.EventNameUserJoined:
		var ev proto.EventUserJoined
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		p.ApplyJoined(ev)
	case proto.EventNameReconnected:
		var ev proto.EventUserReconnected
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		p.ApplyReconnected(ev)
	case proto.EventNameMessage:
		var ev proto.EventMessage
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		p.ApplyMessage(ev)
	case proto.EventNameUserLeft:
		var ev proto.EventUserLeft
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		p.ApplyLeft(ev)
	}
	return nil
}

// Online returns the reconstructed set of present display names, sorted.
func (p *Projection) Online() []string {
	names := make([]string, 0, len(p.online))
	for name := range p.online {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConnFor reports the latest connection id recorded for the name.
func (p *Projection) ConnFor(name string) (string, bool) {
	id, ok := p.online[name]
	return id, ok
}

// Timeline returns a copy of the reconstructed entries, oldest first.
func (p *Projection) Timeline() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

func (p *Projection) hasConn(connID string) bool {
	for _, id := range p.online {
		if id == connID {
			return true
		}
	}
	return false
}

func (p *Projection) appendEntry(kind EntryKind, user, text, ts string) {
	e := Entry{Kind: kind, User: user, Text: text, TS: ts}
	if kind == EntryChat {
		e.IsOwn = user == p.self
	}
	if n := len(p.entries); n > 0 && p.entries[n-1].TS != ts {
		e.Separator = true
	}
	p.entries = append(p.entries, e)
}
