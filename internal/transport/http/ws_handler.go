package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/config"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

// WSHandler upgrades HTTP requests to WebSocket connections and bridges
// them to hub clients. One connection maps to exactly one core.Client.
type WSHandler struct {
	hub *core.Hub
	cfg *config.Config
	log *zerolog.Logger
}

// NewWSHandler builds the WebSocket endpoint handler.
func NewWSHandler(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString(), h.cfg.ClientBuffer)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	h.log.Debug().Str("conn_id", client.ID).Msg("ws connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	// Whichever loop fails first tears down the other.
	err = <-errCh
	cancel()
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "bye"
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
	default:
		h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("ws session ended")
		status = websocket.StatusInternalError
		reason = "internal error"
	}

	if closeErr := conn.Close(status, reason); closeErr != nil {
		h.log.Debug().Err(closeErr).Str("conn_id", client.ID).Msg("ws close")
	}
}

// readLoop decodes inbound frames and feeds them to the hub. Frames that
// decode but fail validation are answered with an error envelope on the
// same connection; the session keeps going.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newRateLimiter(h.cfg.WSRateLimit)
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}
		if !limiter.allow(time.Now()) {
			h.log.Debug().Str("conn_id", client.ID).Msg("inbound frame rate limited")
			continue
		}

		cmd, protoErr := inboundToCommand(inbound)
		if protoErr != nil {
			out := proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr}
			if err := wsjson.Write(ctx, conn, out); err != nil {
				return err
			}
			continue
		}
		h.hub.Dispatch(client, *cmd)
	}
}

// writeLoop drains the client's event channel onto the wire. The hub closes
// the channel on unregister, which ends the loop cleanly.
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
