// Package remote implements follow mode: a WebSocket server broadcasting
// the presenter's viewing state (page changes, document loads, load
// failures) to any number of follower clients, so a second screen can
// track the reading position live.
package remote

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one follow-mode notification.
type Event struct {
	Type  string `json:"type"`            // "page" | "loaded" | "error"
	Page  int    `json:"page,omitempty"`  // 1-based, for "page"
	Pages int    `json:"pages,omitempty"` // page count, for "loaded"
	Error string `json:"error,omitempty"` // for "error"
}

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 64
)

// Server fans viewer events out to follower connections.
type Server struct {
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	followers map[*follower]struct{}
	last      *Event // replayed to newly connected followers
}

type follower struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

// NewServer creates a follow-mode server.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Followers are read-only peers on a trusted link; any
			// origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		followers: make(map[*follower]struct{}),
	}
}

// HandleWebSocket upgrades an HTTP request into a follower connection.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Follow] Failed to upgrade connection: %v", err)
		return
	}

	f := &follower{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.followers[f] = struct{}{}
	last := s.last
	s.mu.Unlock()

	// Late joiners immediately see the current position
	if last != nil {
		if data, err := json.Marshal(last); err == nil {
			f.enqueue(data)
		}
	}

	go f.writeLoop(s)
	go f.readLoop(s)
}

// FollowerCount returns the number of connected followers.
func (s *Server) FollowerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.followers)
}

// BroadcastPage announces a page change (1-based).
func (s *Server) BroadcastPage(page int) {
	s.broadcast(Event{Type: "page", Page: page})
}

// BroadcastLoaded announces a committed document load.
func (s *Server) BroadcastLoaded(pageCount int) {
	s.broadcast(Event{Type: "loaded", Pages: pageCount})
}

// BroadcastError announces a failed load.
func (s *Server) BroadcastError(err error) {
	s.broadcast(Event{Type: "error", Error: err.Error()})
}

func (s *Server) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Follow] Failed to encode event: %v", err)
		return
	}

	s.mu.Lock()
	s.last = &ev
	fs := make([]*follower, 0, len(s.followers))
	for f := range s.followers {
		fs = append(fs, f)
	}
	s.mu.Unlock()

	for _, f := range fs {
		f.enqueue(data)
	}
}

// Close disconnects every follower.
func (s *Server) Close() {
	s.mu.Lock()
	fs := make([]*follower, 0, len(s.followers))
	for f := range s.followers {
		fs = append(fs, f)
	}
	s.followers = make(map[*follower]struct{})
	s.mu.Unlock()

	for _, f := range fs {
		f.close()
	}
}

func (s *Server) drop(f *follower) {
	s.mu.Lock()
	delete(s.followers, f)
	s.mu.Unlock()
	f.close()
}

func (f *follower) enqueue(data []byte) {
	select {
	case f.send <- data:
	default:
		// Slow follower: drop the event rather than stall the viewer
	}
}

func (f *follower) close() {
	f.closeOnce.Do(func() {
		close(f.done)
		f.conn.Close()
	})
}

// writeLoop pushes queued events and keepalive pings to one follower.
func (f *follower) writeLoop(s *Server) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-f.send:
			f.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := f.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.drop(f)
				return
			}
		case <-ticker.C:
			f.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.drop(f)
				return
			}
		case <-f.done:
			return
		}
	}
}

// readLoop drains the connection; followers send nothing meaningful but
// the read pump surfaces disconnects and handles control frames.
func (f *follower) readLoop(s *Server) {
	defer s.drop(f)
	for {
		if _, _, err := f.conn.ReadMessage(); err != nil {
			return
		}
	}
}
