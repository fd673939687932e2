package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage/sqlite"
	"github.com/atlasos/atlas/internal/trackers"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewServer(store, trackers.NewRegistry(), cfg)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decodeBody(t, rec)["status"]; got != "ok" {
		t.Fatalf("status field = %v, want ok", got)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec := doJSON(t, srv, http.MethodPost, "/v1/tasks", map[string]any{
		"title":    "write report",
		"priority": "high",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	if created["title"] != "write report" {
		t.Fatalf("title = %v, want write report", created["title"])
	}
	id := created["id"]

	rec = doJSON(t, srv, http.MethodGet, "/v1/tasks/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["id"]; got != id {
		t.Fatalf("get id = %v, want %v", got, id)
	}

	rec = doJSON(t, srv, http.MethodPost, "/v1/tasks/1/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["status"]; got != "completed" {
		t.Fatalf("status after complete = %v, want completed", got)
	}
}

func TestValidationFailureReturnsCode(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec := doJSON(t, srv, http.MethodPost, "/v1/tasks", map[string]any{"title": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decodeBody(t, rec)["code"]; got != "TASK_TITLE_EMPTY" {
		t.Fatalf("code = %v, want TASK_TITLE_EMPTY", got)
	}
}

func TestUnknownEntityReturns404(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec := doJSON(t, srv, http.MethodGet, "/v1/notes/42", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if got := decodeBody(t, rec)["code"]; got != "NOTE_NOT_FOUND" {
		t.Fatalf("code = %v, want NOTE_NOT_FOUND", got)
	}
}

func TestInvalidIDReturns400(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec := doJSON(t, srv, http.MethodGet, "/v1/tasks/banana", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decodeBody(t, rec)["code"]; got != "ENTITY_ID_INVALID" {
		t.Fatalf("code = %v, want ENTITY_ID_INVALID", got)
	}
}

func TestBearerAuth(t *testing.T) {
	const secret = "test-secret"
	srv := newTestServer(t, Config{AuthSecret: secret})

	rec := doJSON(t, srv, http.MethodGet, "/v1/events", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if got := decodeBody(t, rec)["code"]; got != "AUTH_TOKEN_MISSING" {
		t.Fatalf("code = %v, want AUTH_TOKEN_MISSING", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	bad := httptest.NewRecorder()
	srv.Handler().ServeHTTP(bad, req)
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token status = %d, want %d", bad.Code, http.StatusUnauthorized)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "atlas",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ok := httptest.NewRecorder()
	srv.Handler().ServeHTTP(ok, req)
	if ok.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, body %s", ok.Code, ok.Body.String())
	}

	// Health stays open regardless of auth configuration.
	rec = doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestExplainReturnsEntityHistory(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec := doJSON(t, srv, http.MethodPost, "/v1/habits", map[string]any{"name": "stretch"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("define status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, srv, http.MethodPost, "/v1/habits/1/check", map[string]any{"date": "2026-03-01"})
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/explain/habit/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("explain status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	events, ok := body["events"].([]any)
	if !ok || len(events) != 2 {
		t.Fatalf("events = %v, want 2 entries", body["events"])
	}
	first := events[0].(map[string]any)
	if first["event_type"] != "HABIT_DEFINED" {
		t.Fatalf("first event = %v, want HABIT_DEFINED", first["event_type"])
	}
}

func TestEventListAndCountWithFilter(t *testing.T) {
	srv := newTestServer(t, Config{})

	doJSON(t, srv, http.MethodPost, "/v1/tasks", map[string]any{"title": "a"})
	doJSON(t, srv, http.MethodPost, "/v1/notes", map[string]any{"title": "b"})

	rec := doJSON(t, srv, http.MethodGet, "/v1/events?entity_type=task", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	events := decodeBody(t, rec)["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("filtered events = %d, want 1", len(events))
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/events/count", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("count status = %d", rec.Code)
	}
	if got := decodeBody(t, rec)["count"]; got != float64(2) {
		t.Fatalf("count = %v, want 2", got)
	}
}

func TestExplainFlagsPreCreationHistory(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	// A target set against a goal that was never defined: the registry
	// accepts the type, so only the audit can flag the ordering.
	if _, err := store.Append(context.Background(), event.Event{
		Type:       "GOAL_TARGET_SET",
		EntityType: "goal",
		EntityID:   1,
		Payload:    []byte(`{"target_date":"2026-06-01"}`),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	srv := NewServer(store, trackers.NewRegistry(), Config{})

	rec := doJSON(t, srv, http.MethodGet, "/v1/explain/goal/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("explain status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	anomalies, ok := body["anomalies"].([]any)
	if !ok || len(anomalies) != 1 {
		t.Fatalf("anomalies = %v, want exactly 1", body["anomalies"])
	}
	a := anomalies[0].(map[string]any)
	if a["code"] != "PROJECTION_INCONSISTENT" {
		t.Fatalf("anomaly code = %v, want PROJECTION_INCONSISTENT", a["code"])
	}
	if a["event_type"] != "GOAL_TARGET_SET" {
		t.Fatalf("anomaly event = %v, want GOAL_TARGET_SET", a["event_type"])
	}
}

func TestListEventsRejectsMalformedPaging(t *testing.T) {
	srv := newTestServer(t, Config{})

	for _, query := range []string{"after_id=banana", "limit=banana", "limit=0", "after_id=-3"} {
		rec := doJSON(t, srv, http.MethodGet, "/v1/events?"+query, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want %d", query, rec.Code, http.StatusBadRequest)
		}
		if got := decodeBody(t, rec)["code"]; got != "PAYLOAD_INVALID" {
			t.Fatalf("%s: code = %v, want PAYLOAD_INVALID", query, got)
		}
	}
}
