// Package diag serves generation diagnostics over HTTP: the compute
// capability probe as JSON, and live progress milestones over a
// websocket, for loading screens and settings UIs that live outside the
// generator process.
package diag

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/hexgen/internal/compute"
	"github.com/talgya/hexgen/internal/worldgen"
)

// Server exposes the diagnostics endpoints. Progress events are fanned
// out to every connected websocket; slow consumers are dropped rather
// than allowed to stall generation.
type Server struct {
	port     int
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*subscriber]struct{}
	last *progressEvent // replayed to late subscribers
}

type subscriber struct {
	ch chan progressEvent
}

// progressEvent is the wire shape of one milestone.
type progressEvent struct {
	Step      string  `json:"step"`
	Fraction  float64 `json:"fraction"`
	Completed bool    `json:"completed"`
	Provinces int     `json:"provinces,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// capabilityResponse is the wire shape of the probe result.
type capabilityResponse struct {
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	Backend          string `json:"backend"`
	MaxWorkgroupSize int    `json:"max_workgroup_size,omitempty"`
	MaxBufferBytes   int64  `json:"max_buffer_bytes,omitempty"`
}

// NewServer builds a diagnostics server for the port.
func NewServer(port int) *Server {
	return &Server{
		port: port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/capability", s.handleCapability)
	mux.HandleFunc("/api/v1/progress", s.handleProgress)

	addr := fmt.Sprintf(":%d", s.port)
	go func() {
		slog.Info("diagnostics server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("diagnostics server stopped", "error", err)
		}
	}()
}

// Publish forwards one generation progress event to all subscribers.
// Intended to be called from the Generate consumer loop.
func (s *Server) Publish(p worldgen.Progress) {
	ev := progressEvent{
		Step:      p.Step,
		Fraction:  p.Fraction,
		Completed: p.Completed,
	}
	if p.World != nil {
		ev.Provinces = len(p.World.Provinces)
	}
	if p.Err != nil {
		ev.Error = p.Err.Error()
	}

	s.mu.Lock()
	s.last = &ev
	for sub := range s.subs {
		select {
		case sub.ch <- ev:
		default:
			// Consumer is behind; it will catch up from its next event.
		}
	}
	s.mu.Unlock()
}

func (s *Server) handleCapability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	probe := compute.Probe()
	resp := capabilityResponse{
		Status:           probe.Status.String(),
		Reason:           probe.Reason,
		Backend:          probe.Backend,
		MaxWorkgroupSize: probe.MaxWorkgroupSize,
		MaxBufferBytes:   probe.MaxBufferBytes,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := &subscriber{ch: make(chan progressEvent, 16)}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	last := s.last
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
	}()

	// Read pump: we expect no client messages, but reading is what
	// surfaces close frames and dead peers.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Late joiners immediately see where generation stands.
	if last != nil {
		if err := writeEvent(conn, *last); err != nil {
			return
		}
	}
	for {
		select {
		case ev := <-sub.ch:
			if err := writeEvent(conn, ev); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev progressEvent) error {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(ev)
}
