package http

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

// inboundToCommand maps a wire frame onto a core command. A non-nil
// proto.Error means the frame was decodable but not actionable; the caller
// answers it on the same connection and keeps reading.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if err := json.Unmarshal(inbound.Data, &hello); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed hello payload"}
		}
		if hello.Protocol > proto.ProtocolVersion {
			return nil, &proto.Error{
				Code: core.ErrCodeUnsupportedVersion,
				Msg:  fmt.Sprintf("server speaks protocol %d", proto.ProtocolVersion),
			}
		}
		// Blank names are the hub's call; it drops them without replying.
		return &core.Command{Kind: core.CommandAnnounceName, Name: hello.User}, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed msg payload"}
		}
		return &core.Command{Kind: core.CommandPostMessage, Body: msg.Text}, nil
	default:
		return nil, &proto.Error{
			Code: core.ErrCodeBadRequest,
			Msg:  fmt.Sprintf("unknown message type %q", inbound.Type),
		}
	}
}

// outboundFromEvent shapes a hub event into its wire envelope.
func outboundFromEvent(event core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventChatMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data: proto.EventMessage{
				ConnID: event.ConnID,
				User:   event.User,
				Body:   event.Body,
				TS:     event.Timestamp,
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserJoined,
			Data: proto.EventUserJoined{
				ConnID:  event.ConnID,
				User:    event.User,
				Message: event.Message,
				TS:      event.Timestamp,
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserLeft,
			Data: proto.EventUserLeft{
				ConnID:  event.ConnID,
				User:    event.User,
				Message: event.Message,
				TS:      event.Timestamp,
			},
		}
	case core.EventUserReconnected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameReconnected,
			Data: proto.EventUserReconnected{
				ConnID: event.ConnID,
				User:   event.User,
			},
		}
	case core.EventHistory:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameHistory,
			Data: proto.EventHistory{
				Events: lo.Map(event.History, func(ev core.Event, _ int) proto.HistoryEntry {
					return historyEntryFromEvent(ev)
				}),
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown error"},
			}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

// historyEntryFromEvent tags one recorded event for the wire. Shared by the
// snapshot envelope and the REST history endpoint so both surfaces agree.
func historyEntryFromEvent(event core.Event) proto.HistoryEntry {
	entry := proto.HistoryEntry{
		ConnID: event.ConnID,
		User:   event.User,
		TS:     event.Timestamp,
	}
	switch event.Kind {
	case core.EventUserJoined:
		entry.Kind = proto.HistoryKindJoined
		entry.Message = event.Message
	case core.EventUserLeft:
		entry.Kind = proto.HistoryKindLeft
		entry.Message = event.Message
	case core.EventChatMessage:
		entry.Kind = proto.HistoryKindMessage
		entry.Body = event.Body
	}
	return entry
}
