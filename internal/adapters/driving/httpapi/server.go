// Package httpapi exposes the chat engine over a JSON HTTP API with an
// embedded browser chat page.
package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driving"
	"github.com/nyayalabs/nyaya-cli/internal/logger"
)

//go:embed static
var staticFS embed.FS

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the chat API and the embedded chat page.
type Server struct {
	chat driving.ChatService
	http *http.Server
}

// chatRequest is the POST /api/chat request body.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// chatResponse is the POST /api/chat response body.
type chatResponse struct {
	Answer    string       `json:"answer"`
	SessionID string       `json:"session_id"`
	Sources   []sourceInfo `json:"sources,omitempty"`
}

// sourceInfo describes one supporting chunk.
type sourceInfo struct {
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the GET /api/health response body.
type healthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

// New creates a server for the given chat service.
func New(chat driving.ChatService, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{chat: chat}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleClearSession)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /", http.FileServerFS(staticFS))
	mux.HandleFunc("GET /{$}", s.handleIndex)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the underlying HTTP handler. Used in tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe serves until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := s.chat.Answer(r.Context(), req.Message, req.SessionID)
	if err != nil {
		writeChatError(w, err)
		return
	}

	resp := chatResponse{
		Answer:    answer.Text,
		SessionID: answer.SessionID,
	}
	for _, rc := range answer.Supporting {
		resp.Sources = append(resp.Sources, sourceInfo{
			ChunkID: rc.Chunk.Metadata[domain.MetaChunkID],
			Score:   rc.Score,
			Excerpt: excerpt(rc.Chunk.Content),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.chat.ClearSession(id) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Ready:  s.chat.Ready(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, staticFS, "static/index.html")
}

// writeChatError maps engine errors onto HTTP status codes.
func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "corpus not ingested yet")
	case errors.Is(err, domain.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, "answer generation failed")
	default:
		logger.Warn("chat handler: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// excerpt truncates chunk content for the sources list.
func excerpt(content string) string {
	const max = 200
	if len(content) <= max {
		return content
	}
	return content[:max] + "…"
}
