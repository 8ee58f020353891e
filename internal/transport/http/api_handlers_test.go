package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/proto"
)

func getJSON(t *testing.T, url string, v any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: status = %d, want %d", url, resp.StatusCode, http.StatusOK)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestAPIHistoryReflectsRecordedEvents(t *testing.T) {
	ts, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	sendHello(t, ctx, conn, "alice")

	var joined proto.EventUserJoined
	unmarshalPayload(t, readEvent(t, ctx, conn, proto.EventNameUserJoined), &joined)

	sendMsg(t, ctx, conn, "hello world")
	readEvent(t, ctx, conn, proto.EventNameMessage)

	var history HistoryResponse
	getJSON(t, ts.URL+"/api/history", &history)

	if len(history.Events) != 2 {
		t.Fatalf("history events = %d, want 2", len(history.Events))
	}
	if history.Events[0].Kind != proto.HistoryKindJoined || history.Events[0].User != "alice" {
		t.Fatalf("first entry = %+v, want alice joined", history.Events[0])
	}
	if history.Events[1].Kind != proto.HistoryKindMessage || history.Events[1].Body != "hello world" {
		t.Fatalf("second entry = %+v, want hello world", history.Events[1])
	}
	if history.Events[1].ConnID != joined.ConnID {
		t.Fatalf("second entry conn_id = %q, want %q", history.Events[1].ConnID, joined.ConnID)
	}
}

func TestAPIHistoryEmptyLog(t *testing.T) {
	ts, _ := startTestServer(t)

	var history HistoryResponse
	getJSON(t, ts.URL+"/api/history", &history)

	if history.Events == nil {
		t.Fatal("events = null, want empty array")
	}
	if len(history.Events) != 0 {
		t.Fatalf("history events = %d, want 0", len(history.Events))
	}
}

func TestAPIOnlineSortsByName(t *testing.T) {
	ts, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connB := dialWS(t, ctx, ts)
	sendHello(t, ctx, connB, "bob")
	readEvent(t, ctx, connB, proto.EventNameUserJoined)

	connA := dialWS(t, ctx, ts)
	sendHello(t, ctx, connA, "alice")
	readEvent(t, ctx, connA, proto.EventNameUserJoined)

	var online OnlineResponse
	getJSON(t, ts.URL+"/api/online", &online)

	if online.Count != 2 || len(online.Users) != 2 {
		t.Fatalf("online = %+v, want 2 users", online)
	}
	if online.Users[0].User != "alice" || online.Users[1].User != "bob" {
		t.Fatalf("users = %+v, want alice before bob", online.Users)
	}
	if online.Users[0].ConnID == "" || online.Users[1].ConnID == "" {
		t.Fatalf("users = %+v, want connection ids", online.Users)
	}
}

func TestAPIOnlineSkipsUnnamedConnections(t *testing.T) {
	ts, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	readEvent(t, ctx, conn, proto.EventNameHistory)

	var online OnlineResponse
	getJSON(t, ts.URL+"/api/online", &online)

	if online.Count != 0 {
		t.Fatalf("online count = %d, want 0", online.Count)
	}
}

func TestAPIStatsCounters(t *testing.T) {
	ts, _ := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	sendHello(t, ctx, conn, "alice")
	readEvent(t, ctx, conn, proto.EventNameUserJoined)

	sendMsg(t, ctx, conn, "ping")
	readEvent(t, ctx, conn, proto.EventNameMessage)

	var stats StatsResponse
	getJSON(t, ts.URL+"/api/stats", &stats)

	if stats.ConnectedClients != 1 {
		t.Fatalf("connected_clients = %d, want 1", stats.ConnectedClients)
	}
	if stats.MessagesReceived != 1 {
		t.Fatalf("messages_received = %d, want 1", stats.MessagesReceived)
	}
	if stats.HistoryLen != 2 {
		t.Fatalf("history_len = %d, want 2", stats.HistoryLen)
	}
	if stats.EventsDelivered == 0 {
		t.Fatal("events_delivered = 0, want > 0")
	}
}
