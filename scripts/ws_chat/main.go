// Command ws_chat is an interactive terminal client. It keeps no server
// state: who is online and what the room looks like are reconstructed
// purely from the history snapshot and the live event stream.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/projection"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "display name to announce")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	helloPayload, err := json.Marshal(proto.HelloData{User: *user, Protocol: proto.ProtocolVersion})
	if err != nil {
		return fmt.Errorf("marshal hello: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeHello, Data: helloPayload}); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	fmt.Printf("Connected to %s as %s\n", *addr, *user)
	fmt.Println("Type to chat. /who lists who is online, /quit leaves. Ctrl+C exits.")

	view := projection.New(*user)
	var mu sync.Mutex

	go func() {
		defer cancel()
		readLoop(ctx, conn, view, &mu)
	}()

	writeLoop(ctx, conn, view, &mu)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn, view *projection.Projection, mu *sync.Mutex) {
	printed := 0
	for {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if out.Type == proto.OutboundTypeError {
			if out.Error != nil {
				fmt.Printf("! server refused: %s (%s)\n", out.Error.Msg, out.Error.Code)
			}
			continue
		}

		mu.Lock()
		if err := view.Consume(out); err != nil {
			mu.Unlock()
			log.Printf("apply event: %v", err)
			continue
		}
		timeline := view.Timeline()
		mu.Unlock()

		for _, entry := range timeline[printed:] {
			printEntry(entry)
		}
		printed = len(timeline)
	}
}

func printEntry(e projection.Entry) {
	if e.Separator {
		fmt.Printf("--- %s ---\n", e.TS)
	}
	switch e.Kind {
	case projection.EntrySystem:
		fmt.Printf("* %s\n", e.Text)
	case projection.EntryChat:
		name := e.User
		if e.IsOwn {
			name = "you"
		}
		fmt.Printf("%s: %s\n", name, e.Text)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, view *projection.Projection, mu *sync.Mutex) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			switch text {
			case "/quit":
				return
			case "/who":
				mu.Lock()
				names := view.Online()
				mu.Unlock()
				if len(names) == 0 {
					fmt.Println("* nobody is online")
					continue
				}
				fmt.Printf("* online: %s\n", strings.Join(names, ", "))
				continue
			}

			payload, err := json.Marshal(proto.MsgData{Text: text})
			if err != nil {
				log.Printf("marshal msg: %v", err)
				return
			}
			if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMsg, Data: payload}); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
