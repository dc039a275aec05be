package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"transit-search-lab/internal/observability"
)

// Server serves the WebSocket event feed and operational endpoints.
type Server struct {
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu           sync.Mutex
	started      time.Time
	lastBatchRun time.Time
	batchRuns    int
	batchRunning bool
}

// NewServer creates a Server around the given hub.
func NewServer(hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		started: time.Now(),
	}
}

// BatchStarted records the start of a batch run and notifies clients.
func (s *Server) BatchStarted() {
	s.mu.Lock()
	s.batchRunning = true
	s.mu.Unlock()
	s.hub.Publish(Event{Type: EventBatchStarted})
}

// BatchFinished records the end of a batch run and notifies clients.
func (s *Server) BatchFinished() {
	s.mu.Lock()
	s.batchRunning = false
	s.lastBatchRun = time.Now()
	s.batchRuns++
	s.mu.Unlock()
	s.hub.Publish(Event{Type: EventBatchFinished})
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWS)

	return mux
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status       string    `json:"status"`
	Uptime       string    `json:"uptime"`
	Clients      int       `json:"clients"`
	BatchRuns    int       `json:"batch_runs"`
	BatchRunning bool      `json:"batch_running"`
	LastBatchRun time.Time `json:"last_batch_run,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:       "running",
		Uptime:       time.Since(s.started).String(),
		Clients:      s.hub.ClientCount(),
		BatchRuns:    s.batchRuns,
		BatchRunning: s.batchRunning,
		LastBatchRun: s.lastBatchRun,
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.hub.serve(conn)
}
