package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dragonknightbit/air-ball/internal/tracker"
	"github.com/gorilla/websocket"
)

func dialPositions(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/api/positions"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func TestPositionsHandler_PublishBroadcasts(t *testing.T) {
	s := New(Config{})
	srv := httptest.NewServer(s)
	defer srv.Close()

	conn := dialPositions(t, srv)
	defer conn.Close()

	// Registration happens in the upgrade handler goroutine; wait for it.
	deadline := time.Now().Add(time.Second)
	for s.Positions().ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Positions().ClientCount() != 1 {
		t.Fatal("client was not registered")
	}

	s.Positions().Publish([]tracker.Position{
		{X: 626, Y: 20},
		{X: 240, Y: 250},
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message failed: %v", err)
	}

	var msg struct {
		Positions []tracker.Position `json:"positions"`
		Timestamp int64              `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(msg.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(msg.Positions))
	}
	if msg.Positions[0].X != 626 || msg.Positions[0].Y != 20 {
		t.Errorf("first position = %+v, want {626 20}", msg.Positions[0])
	}
	if msg.Timestamp == 0 {
		t.Error("expected non-zero timestamp")
	}
}

func TestPositionsHandler_PublishEmptyCycle(t *testing.T) {
	s := New(Config{})
	srv := httptest.NewServer(s)
	defer srv.Close()

	conn := dialPositions(t, srv)
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for s.Positions().ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	// A cycle with no detected hands still broadcasts an empty list.
	s.Positions().Publish([]tracker.Position{})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message failed: %v", err)
	}

	var msg struct {
		Positions []tracker.Position `json:"positions"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if msg.Positions == nil || len(msg.Positions) != 0 {
		t.Errorf("expected empty positions list, got %v", msg.Positions)
	}
}

func TestPositionsHandler_NoClients(t *testing.T) {
	h := NewPositionsHandler()

	// Publishing with no clients must be a cheap no-op.
	h.Publish([]tracker.Position{{X: 1, Y: 2}})

	if h.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", h.ClientCount())
	}
}

func TestPositionsHandler_ClientDisconnect(t *testing.T) {
	s := New(Config{})
	srv := httptest.NewServer(s)
	defer srv.Close()

	conn := dialPositions(t, srv)

	deadline := time.Now().Add(time.Second)
	for s.Positions().ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(time.Second)
	for s.Positions().ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := s.Positions().ClientCount(); got != 0 {
		t.Errorf("ClientCount() after disconnect = %d, want 0", got)
	}
}
