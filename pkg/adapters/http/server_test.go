package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinehq/refine/internal/metrics"
	"github.com/refinehq/refine/internal/runtime"
	httpapi "github.com/refinehq/refine/pkg/adapters/http"
	"github.com/refinehq/refine/pkg/adapters/memory"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/providers/scripted"
)

func newTestHandler(t *testing.T, opts ...httpapi.Option) http.Handler {
	t.Helper()
	provider := scripted.New(nil)
	engine := runtime.NewEngine(provider, provider, runtime.Options{})
	return httpapi.NewServer(engine, opts...).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_RefineRequirements(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/refine-requirements", domain.RunRequest{
		Query: "Refine a meal planning app",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Answer)
	assert.NotEmpty(t, resp.History)
	assert.GreaterOrEqual(t, resp.ProcessingTime, 0.0)
}

func TestServer_RefineRequirements_EmptyQuery(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/refine-requirements", domain.RunRequest{Query: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RefineRequirements_InvalidBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/refine-requirements", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RefineRequirements_OversizedQuery(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/refine-requirements", domain.RunRequest{
		Query: strings.Repeat("a", runtime.MaxQuerySize+1),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_RefineRequirements_StripsControlCharacters(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/refine-requirements", domain.RunRequest{
		Query: "Refine a \x1b[31mmeal\x07 planning app",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func sseEvents(t *testing.T, body string) []runtime.Event {
	t.Helper()
	var events []runtime.Event
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev runtime.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestServer_Stream(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/refine-requirements/stream", domain.RunRequest{
		Query: "Refine a meal planning app",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := sseEvents(t, rec.Body.String())
	require.NotEmpty(t, events)

	var types []string
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, runtime.EventComplete, types[len(types)-1])
	assert.Contains(t, types, runtime.EventSupervisorDecision)
	assert.Contains(t, types, runtime.EventFinalAnswer)
}

func TestServer_Stream_ErrorEvent(t *testing.T) {
	provider := scripted.New(&scripted.Scenario{
		Fail: map[string]string{scripted.OpClassify: "model unavailable"},
	})
	engine := runtime.NewEngine(provider, provider, runtime.Options{})
	handler := httpapi.NewServer(engine).Handler()

	rec := postJSON(t, handler, "/api/refine-requirements/stream", domain.RunRequest{
		Query: "Refine a meal planning app",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	events := sseEvents(t, rec.Body.String())
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, runtime.EventError, last.Type)
	assert.Contains(t, last.Content, "model unavailable")
}

func TestServer_Health(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestServer_Agents(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Agents map[string]domain.AgentInfo `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Agents, 7)
	assert.Equal(t, "Supervisor (Orchestrator)", resp.Agents["supervisor"].Name)
}

func seedStore(t *testing.T, store *memory.Store) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snaps := []*domain.Snapshot{
		{ThreadID: "alpha", Timestamp: base, UserQuery: "first", FinalAnswer: "a1"},
		{ThreadID: "alpha", Timestamp: base.Add(time.Minute), UserQuery: "second", FinalAnswer: "a2"},
		{ThreadID: "beta", Timestamp: base.Add(2 * time.Minute), UserQuery: "third", FinalAnswer: "b1"},
	}
	for _, snap := range snaps {
		require.NoError(t, store.Save(context.Background(), snap.ThreadID, snap))
	}
}

func TestServer_ThreadHistory(t *testing.T) {
	store := memory.NewStore()
	seedStore(t, store)
	handler := newTestHandler(t, httpapi.WithStore(store))

	req := httptest.NewRequest(http.MethodGet, "/api/conversation-history/alpha", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snaps []*domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	require.Len(t, snaps, 2)
	assert.Equal(t, "second", snaps[0].UserQuery)
}

func TestServer_ThreadHistory_Unknown(t *testing.T) {
	handler := newTestHandler(t, httpapi.WithStore(memory.NewStore()))

	req := httptest.NewRequest(http.MethodGet, "/api/conversation-history/ghost", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ThreadHistory_NotConfigured(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/conversation-history/alpha", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RecentHistory(t *testing.T) {
	store := memory.NewStore()
	seedStore(t, store)
	handler := newTestHandler(t, httpapi.WithStore(store))

	req := httptest.NewRequest(http.MethodGet, "/api/conversation-history/recent?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snaps []*domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	require.Len(t, snaps, 2)
	assert.Equal(t, "third", snaps[0].UserQuery)
	assert.Equal(t, "second", snaps[1].UserQuery)
}

func TestServer_ClearHistory(t *testing.T) {
	store := memory.NewStore()
	seedStore(t, store)
	handler := newTestHandler(t, httpapi.WithStore(store))

	req := httptest.NewRequest(http.MethodDelete, "/api/conversation-history/alpha", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := store.History(context.Background(), "alpha", 0)
	assert.ErrorIs(t, err, domain.ErrThreadNotFound)
}

func TestServer_CORS(t *testing.T) {
	handler := newTestHandler(t, httpapi.WithAllowedOrigins([]string{"https://app.example.com"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/refine-requirements", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	provider := scripted.New(nil)
	engine := runtime.NewEngine(provider, provider, runtime.Options{
		Metrics: metrics.New(registry),
	})
	handler := httpapi.NewServer(engine, httpapi.WithMetrics(registry)).Handler()

	rec := postJSON(t, handler, "/api/refine-requirements", domain.RunRequest{Query: "Refine a meal planning app"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	handler.ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "refine_engine_node_executions_total")
}
