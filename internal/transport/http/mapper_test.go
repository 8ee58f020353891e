package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

func TestInboundToCommandHello(t *testing.T) {
	data, _ := json.Marshal(proto.HelloData{User: "alice"})
	cmd, protoErr := inboundToCommand(proto.Inbound{Type: proto.InboundTypeHello, Data: data})

	if protoErr != nil {
		t.Fatalf("protoErr = %+v, want nil", protoErr)
	}
	if cmd == nil || cmd.Kind != core.CommandAnnounceName || cmd.Name != "alice" {
		t.Fatalf("cmd = %+v, want announce alice", cmd)
	}
}

func TestInboundToCommandMsg(t *testing.T) {
	data, _ := json.Marshal(proto.MsgData{Text: "hi"})
	cmd, protoErr := inboundToCommand(proto.Inbound{Type: proto.InboundTypeMsg, Data: data})

	if protoErr != nil {
		t.Fatalf("protoErr = %+v, want nil", protoErr)
	}
	if cmd == nil || cmd.Kind != core.CommandPostMessage || cmd.Body != "hi" {
		t.Fatalf("cmd = %+v, want post hi", cmd)
	}
}

func TestInboundToCommandRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name     string
		inbound  proto.Inbound
		wantCode string
	}{
		{
			name:     "unknown type",
			inbound:  proto.Inbound{Type: "subscribe"},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "malformed hello payload",
			inbound:  proto.Inbound{Type: proto.InboundTypeHello, Data: json.RawMessage(`42`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "malformed msg payload",
			inbound:  proto.Inbound{Type: proto.InboundTypeMsg, Data: json.RawMessage(`"nope"`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name: "protocol from the future",
			inbound: proto.Inbound{
				Type: proto.InboundTypeHello,
				Data: json.RawMessage(`{"user":"alice","protocol":99}`),
			},
			wantCode: core.ErrCodeUnsupportedVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, protoErr := inboundToCommand(tt.inbound)
			if cmd != nil {
				t.Fatalf("cmd = %+v, want nil", cmd)
			}
			if protoErr == nil || protoErr.Code != tt.wantCode {
				t.Fatalf("protoErr = %+v, want code %q", protoErr, tt.wantCode)
			}
		})
	}
}

func TestOutboundFromEventShapes(t *testing.T) {
	at := time.Date(2024, 5, 4, 12, 30, 0, 0, time.UTC)

	out := outboundFromEvent(core.NewJoinedEvent("c1", "alice", at))
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventNameUserJoined {
		t.Fatalf("envelope = %+v, want user_joined event", out)
	}
	joined, ok := out.Data.(proto.EventUserJoined)
	if !ok {
		t.Fatalf("data type = %T, want proto.EventUserJoined", out.Data)
	}
	if joined.ConnID != "c1" || joined.User != "alice" || joined.TS != "12:30" {
		t.Fatalf("payload = %+v", joined)
	}
	if joined.Message != "alice joined the chat" {
		t.Fatalf("message = %q, want %q", joined.Message, "alice joined the chat")
	}

	out = outboundFromEvent(core.NewReconnectedEvent("c2", "alice"))
	if out.Event != proto.EventNameReconnected {
		t.Fatalf("event = %q, want %q", out.Event, proto.EventNameReconnected)
	}
	reconnected := out.Data.(proto.EventUserReconnected)
	if reconnected.ConnID != "c2" || reconnected.User != "alice" {
		t.Fatalf("payload = %+v", reconnected)
	}

	out = outboundFromEvent(core.NewErrorEvent(core.ErrCodeNameTaken, "name in use"))
	if out.Type != proto.OutboundTypeError || out.Error == nil {
		t.Fatalf("envelope = %+v, want error", out)
	}
	if out.Error.Code != core.ErrCodeNameTaken {
		t.Fatalf("code = %q, want %q", out.Error.Code, core.ErrCodeNameTaken)
	}
}

func TestOutboundFromEventHistorySnapshot(t *testing.T) {
	at := time.Date(2024, 5, 4, 12, 30, 0, 0, time.UTC)
	snapshot := []core.Event{
		core.NewJoinedEvent("c1", "alice", at),
		core.NewMessageEvent("c1", "alice", "hello", at),
		core.NewLeftEvent("c1", "alice", at.Add(time.Minute)),
	}

	out := outboundFromEvent(core.NewHistoryEvent(snapshot))
	if out.Event != proto.EventNameHistory {
		t.Fatalf("event = %q, want %q", out.Event, proto.EventNameHistory)
	}
	history := out.Data.(proto.EventHistory)
	if len(history.Events) != 3 {
		t.Fatalf("entries = %d, want 3", len(history.Events))
	}

	if history.Events[0].Kind != proto.HistoryKindJoined || history.Events[0].Message == "" {
		t.Fatalf("entry 0 = %+v, want tagged joined", history.Events[0])
	}
	if history.Events[1].Kind != proto.HistoryKindMessage || history.Events[1].Body != "hello" {
		t.Fatalf("entry 1 = %+v, want tagged message", history.Events[1])
	}
	if history.Events[2].Kind != proto.HistoryKindLeft || history.Events[2].TS != "12:31" {
		t.Fatalf("entry 2 = %+v, want tagged left at 12:31", history.Events[2])
	}

	empty := outboundFromEvent(core.NewHistoryEvent(nil)).Data.(proto.EventHistory)
	if empty.Events == nil {
		t.Fatal("empty snapshot = nil, want empty slice")
	}
}
