package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

// APIHandlers serves the read-only REST surface over the hub's state.
type APIHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{hub: hub, log: logger}
}

// HistoryResponse is the recorded event log, oldest first.
type HistoryResponse struct {
	Events []proto.HistoryEntry `json:"events"`
}

// OnlineUser is one live registry entry.
type OnlineUser struct {
	User   string `json:"user"`
	ConnID string `json:"conn_id"`
}

// OnlineResponse lists the display names currently registered, with the
// connection each name is bound to. During a takeover the same name can
// appear under two connections until the older one disconnects.
type OnlineResponse struct {
	Users []OnlineUser `json:"users"`
	Count int          `json:"count"`
}

// StatsResponse mirrors core.Stats for the wire.
type StatsResponse struct {
	ConnectedClients int64   `json:"connected_clients"`
	MessagesReceived int64   `json:"messages_received"`
	EventsDelivered  int64   `json:"events_delivered"`
	EventsDropped    int64   `json:"events_dropped"`
	HistoryLen       int     `json:"history_len"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// History handles GET /api/history.
func (h *APIHandlers) History(c *gin.Context) {
	snapshot := h.hub.History().Snapshot()
	events := lo.Map(snapshot, func(ev core.Event, _ int) proto.HistoryEntry {
		return historyEntryFromEvent(ev)
	})
	h.log.Debug().Int("events", len(events)).Msg("history requested")
	c.JSON(http.StatusOK, HistoryResponse{Events: events})
}

// Online handles GET /api/online.
func (h *APIHandlers) Online(c *gin.Context) {
	entries := h.hub.Registry().Snapshot()
	users := lo.MapToSlice(entries, func(connID, name string) OnlineUser {
		return OnlineUser{User: name, ConnID: connID}
	})
	sort.Slice(users, func(i, j int) bool {
		if users[i].User != users[j].User {
			return users[i].User < users[j].User
		}
		return users[i].ConnID < users[j].ConnID
	})
	c.JSON(http.StatusOK, OnlineResponse{Users: users, Count: len(users)})
}

// Stats handles GET /api/stats.
func (h *APIHandlers) Stats(c *gin.Context) {
	stats := h.hub.Stats()
	c.JSON(http.StatusOK, StatsResponse{
		ConnectedClients: stats.ConnectedClients,
		MessagesReceived: stats.MessagesReceived,
		EventsDelivered:  stats.EventsDelivered,
		EventsDropped:    stats.EventsDropped,
		HistoryLen:       stats.HistoryLen,
		UptimeSeconds:    stats.Uptime.Seconds(),
	})
}
