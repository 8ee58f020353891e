// Command ws_smoke connects, announces a name, posts one message and waits
// for the echo. Exit code 0 means the round trip worked.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "tester", "display name to announce with hello")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: data}); err != nil {
			return fmt.Errorf("send %s: %w", msgType, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeHello, proto.HelloData{User: *user, Protocol: proto.ProtocolVersion}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMsg, proto.MsgData{Text: *text}); err != nil {
		return err
	}

	sawHistory := false
	for {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		if out.Type == proto.OutboundTypeError {
			if out.Error != nil {
				return fmt.Errorf("server refused: %s (%s)", out.Error.Msg, out.Error.Code)
			}
			return fmt.Errorf("server refused with an empty error")
		}

		raw, err := json.Marshal(out.Data)
		if err != nil {
			return fmt.Errorf("marshal outbound data: %w", err)
		}

		switch out.Event {
		case proto.EventNameHistory:
			var ev proto.EventHistory
			if err := json.Unmarshal(raw, &ev); err != nil {
				return fmt.Errorf("unmarshal history: %w", err)
			}
			fmt.Printf("History snapshot: %d events\n", len(ev.Events))
			sawHistory = true
		case proto.EventNameUserJoined:
			var ev proto.EventUserJoined
			if err := json.Unmarshal(raw, &ev); err != nil {
				return fmt.Errorf("unmarshal user_joined: %w", err)
			}
			fmt.Printf("Joined: %s (%s)\n", ev.User, ev.ConnID)
		case proto.EventNameMessage:
			var ev proto.EventMessage
			if err := json.Unmarshal(raw, &ev); err != nil {
				return fmt.Errorf("unmarshal message: %w", err)
			}
			if ev.User != *user || ev.Body != *text {
				fmt.Printf("Skipping foreign message from %s\n", ev.User)
				continue
			}
			if !sawHistory {
				return fmt.Errorf("message echo arrived before the history snapshot")
			}
			fmt.Printf("Echo: user=%s body=%q ts=%s\n", ev.User, ev.Body, ev.TS)
			return nil
		}
	}
}
