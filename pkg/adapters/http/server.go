// Package http exposes the refinement engine over a JSON/SSE API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/refinehq/refine/internal/logging"
	"github.com/refinehq/refine/internal/runtime"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// Engine is the workflow core the server drives. *runtime.Engine satisfies it.
type Engine interface {
	Run(ctx context.Context, req domain.RunRequest) (*domain.State, error)
	RunStream(ctx context.Context, req domain.RunRequest, sink runtime.EventSink) (*domain.State, error)
}

// Server routes API requests to the engine and the conversation store.
type Server struct {
	engine   Engine
	store    ports.ConversationStore
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	origins  []string
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the conversation-history endpoints.
func WithStore(store ports.ConversationStore) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics exposes the registry on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithAllowedOrigins sets the CORS allow list. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// NewServer builds a server around the engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		logger:  logging.NewNop(),
		origins: []string{"*"},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/refine-requirements", s.refineRequirements)
	r.Post("/api/refine-requirements/stream", s.refineRequirementsStream)
	r.Get("/api/health", s.health)
	r.Get("/api/agents", s.agents)
	r.Get("/api/conversation-history/recent", s.recentHistory)
	r.Get("/api/conversation-history/{threadID}", s.threadHistory)
	r.Delete("/api/conversation-history/{threadID}", s.clearHistory)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return s.enableCORS(r)
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	allowed := "*"
	if len(s.origins) > 0 {
		allowed = strings.Join(s.origins, ", ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowed)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) decodeRunRequest(w http.ResponseWriter, r *http.Request) (domain.RunRequest, bool) {
	var req domain.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("invalid request body", "error", err)
		return req, false
	}

	clean, err := runtime.SanitizeQuery(req.Query)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, runtime.ErrQueryTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, fmt.Sprintf("Invalid query: %v", err), status)
		s.logger.Warn("query rejected", "error", err, "size", len(req.Query))
		return req, false
	}
	req.Query = clean

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Query must not be empty", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *Server) refineRequirements(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRunRequest(w, r)
	if !ok {
		return
	}

	start := s.now()
	state, err := s.engine.Run(r.Context(), req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Refinement error: %v", err), http.StatusInternalServerError)
		s.logger.Error("run failed", "error", err, "thread_id", req.ThreadID)
		return
	}

	resp := domain.ResponseFrom(state, s.now().Sub(start).Seconds())
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) refineRequirementsStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRunRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// The engine invokes the sink synchronously on this goroutine, so the
	// writer needs no locking.
	sink := func(ev runtime.Event) {
		s.writeEvent(w, flusher, ev)
	}

	if _, err := s.engine.RunStream(r.Context(), req, sink); err != nil {
		s.logger.Error("stream run failed", "error", err, "thread_id", req.ThreadID)
		s.writeEvent(w, flusher, runtime.Event{Type: runtime.EventError, Content: err.Error()})
		return
	}
	s.writeEvent(w, flusher, runtime.Event{Type: runtime.EventComplete})
}

func (s *Server) writeEvent(w http.ResponseWriter, flusher http.Flusher, ev runtime.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("event encode failed", "error", err, "type", ev.Type)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":       "ok",
		"system":       "Product Requirements Refinement",
		"architecture": "supervisor with dynamic routing",
		"agents": []string{
			"Supervisor (Orchestrator)",
			"Domain Expert",
			"UX/UI Specialist",
			"Technical Architect",
			"Revenue Model Analyst",
			"Moderator/Aggregator",
			"Debate Handler",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("health encode failed", "error", err)
	}
}

func (s *Server) agents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"agents": domain.AgentCatalog()}); err != nil {
		s.logger.Error("agents encode failed", "error", err)
	}
}

func (s *Server) threadHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Conversation history not configured", http.StatusNotFound)
		return
	}
	threadID := chi.URLParam(r, "threadID")
	limit := queryLimit(r, 10)

	history, err := s.store.History(r.Context(), threadID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			http.Error(w, fmt.Sprintf("Thread %s not found", threadID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("History error: %v", err), http.StatusInternalServerError)
		s.logger.Error("history lookup failed", "error", err, "thread_id", threadID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(history); err != nil {
		s.logger.Error("history encode failed", "error", err)
	}
}

func (s *Server) recentHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Conversation history not configured", http.StatusNotFound)
		return
	}
	limit := queryLimit(r, 20)

	threads, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("History error: %v", err), http.StatusInternalServerError)
		s.logger.Error("thread listing failed", "error", err)
		return
	}

	recent := make([]*domain.Snapshot, 0, limit)
	for _, threadID := range threads {
		snaps, err := s.store.History(r.Context(), threadID, limit)
		if err != nil {
			if errors.Is(err, domain.ErrThreadNotFound) {
				continue
			}
			http.Error(w, fmt.Sprintf("History error: %v", err), http.StatusInternalServerError)
			s.logger.Error("history lookup failed", "error", err, "thread_id", threadID)
			return
		}
		recent = append(recent, snaps...)
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(recent); err != nil {
		s.logger.Error("recent history encode failed", "error", err)
	}
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Conversation history not configured", http.StatusNotFound)
		return
	}
	threadID := chi.URLParam(r, "threadID")

	if err := s.store.Clear(r.Context(), threadID); err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			http.Error(w, fmt.Sprintf("Thread %s not found", threadID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Clear error: %v", err), http.StatusInternalServerError)
		s.logger.Error("history clear failed", "error", err, "thread_id", threadID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]string{"message": fmt.Sprintf("Conversation history cleared for thread %s", threadID)}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("clear encode failed", "error", err)
	}
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
