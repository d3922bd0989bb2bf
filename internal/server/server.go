// Package server exposes a Shipper over HTTP for local runs: POST an event to
// /invoke to process it as if Lambda had delivered it.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/dispatch"
)

// Lambda rejects synchronous payloads above 6 MB; do the same.
const maxEventSize = 6 << 20

// Headers that populate the invocation context.
const (
	HeaderFunctionName = "X-Function-Name"
	HeaderFunctionARN  = "X-Function-Arn"
	HeaderLogGroup     = "X-Log-Group"
	HeaderLogStream    = "X-Log-Stream"
	HeaderRequestID    = "X-Request-Id"
)

// Invoker processes one event.
type Invoker interface {
	Invoke(ctx context.Context, event []byte, inv domain.InvocationContext) (dispatch.Report, error)
}

// Server provides HTTP endpoints for invoking and monitoring the shipper.
type Server struct {
	invoker Invoker
	mux     *http.ServeMux
	server  *http.Server
}

type invokeResponse struct {
	RequestID string          `json:"request_id"`
	Report    dispatch.Report `json:"report"`
	Error     string          `json:"error,omitempty"`
}

// NewServer creates a new server.
func NewServer(invoker Invoker, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		invoker: invoker,
		mux:     mux,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/invoke", s.handleInvoke)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	event, err := io.ReadAll(io.LimitReader(r.Body, maxEventSize+1))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(event) > maxEventSize {
		http.Error(w, "event too large", http.StatusRequestEntityTooLarge)
		return
	}

	inv := invocationFromRequest(r)
	report, err := s.invoker.Invoke(r.Context(), event, inv)

	resp := invokeResponse{RequestID: inv.RequestID, Report: report}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusBadGateway
		slog.Warn("Local invocation failed", "request_id", inv.RequestID, "error", err)
	}
	writeJSON(w, status, resp)
}

func invocationFromRequest(r *http.Request) domain.InvocationContext {
	inv := domain.InvocationContext{
		FunctionName:       r.Header.Get(HeaderFunctionName),
		InvokedFunctionARN: r.Header.Get(HeaderFunctionARN),
		LogGroupName:       r.Header.Get(HeaderLogGroup),
		LogStreamName:      r.Header.Get(HeaderLogStream),
		RequestID:          r.Header.Get(HeaderRequestID),
	}
	if inv.RequestID == "" {
		inv.RequestID = uuid.NewString()
	}
	return inv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
