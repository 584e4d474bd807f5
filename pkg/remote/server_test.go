package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func httptestHandler(s *Server) http.Handler {
	return http.HandlerFunc(s.HandleWebSocket)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Bad event payload %q: %v", data, err)
	}
	return ev
}

func TestServer_BroadcastsPageChanges(t *testing.T) {
	s := NewServer()
	defer s.Close()

	srv := httptest.NewServer(httptestHandler(s))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	waitForFollowers(t, s, 1)
	s.BroadcastPage(7)

	ev := readEvent(t, conn)
	if ev.Type != "page" || ev.Page != 7 {
		t.Errorf("Expected page event for 7, got %+v", ev)
	}
}

func TestServer_LateJoinerSeesLastEvent(t *testing.T) {
	s := NewServer()
	defer s.Close()

	srv := httptest.NewServer(httptestHandler(s))
	defer srv.Close()

	s.BroadcastLoaded(42)

	conn := dial(t, srv)
	defer conn.Close()

	ev := readEvent(t, conn)
	if ev.Type != "loaded" || ev.Pages != 42 {
		t.Errorf("Late joiner should replay the last event, got %+v", ev)
	}
}

func TestServer_DropsDisconnectedFollowers(t *testing.T) {
	s := NewServer()
	defer s.Close()

	srv := httptest.NewServer(httptestHandler(s))
	defer srv.Close()

	conn := dial(t, srv)
	waitForFollowers(t, s, 1)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.FollowerCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Disconnected follower was never dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func waitForFollowers(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.FollowerCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %d followers, have %d", n, s.FollowerCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
