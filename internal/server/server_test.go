package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/config"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:     0,
		GinMode:  "test",
		LogLevel: "error",
		DataDir:  t.TempDir(),
	}
	srv, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv.HTTP().Handler
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, payload
}

func TestPing(t *testing.T) {
	handler := newTestServer(t)

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := payload["data"].(map[string]any)
	if data["now"] == "" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	handler := newTestServer(t)

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if payload["status"] != "error" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestWrongMethodReturns405(t *testing.T) {
	handler := newTestServer(t)

	rec, payload := doJSON(t, handler, http.MethodPatch, "/api/settings", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if payload["error"] != "method PATCH not allowed" {
		t.Fatalf("error = %q, want the method spelled out", payload["error"])
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	handler := newTestServer(t)

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/api-keys", `{"type":"xai","value":"secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %v", rec.Code, payload)
	}
	data, _ := payload["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("create payload = %v", payload)
	}
	if data["type"] != "xai" {
		t.Fatalf("type = %v", data["type"])
	}

	rec, payload = doJSON(t, handler, http.MethodGet, "/api/api-keys/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d: %v", rec.Code, payload)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, "/api/api-keys/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodGet, "/api/api-keys/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestAPIKeyValidation(t *testing.T) {
	handler := newTestServer(t)

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/api-keys", `{"type":"smoke-signals","value":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %v", rec.Code, payload)
	}
	if payload["fields"] == nil {
		t.Fatalf("payload missing field detail: %v", payload)
	}
}

func TestSettingsDefault(t *testing.T) {
	handler := newTestServer(t)

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, _ := payload["data"].(map[string]any)
	if data["model"] != "grok-3-mini-beta" {
		t.Fatalf("default model = %v", data["model"])
	}
}

func TestDatabaseCRUD(t *testing.T) {
	handler := newTestServer(t)

	body := `{"label":"local","type":"mysql","context":"","host":"localhost","port":"3306","user":"root","password":"pw","database":"shop"}`
	rec, payload := doJSON(t, handler, http.MethodPost, "/api/databases", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %v", rec.Code, payload)
	}
	data, _ := payload["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("create payload = %v", payload)
	}

	update := `{"label":"renamed","type":"mysql","context":"shop db","host":"localhost","port":"3306","user":"root","password":"pw","database":"shop"}`
	rec, payload = doJSON(t, handler, http.MethodPut, "/api/databases/"+id, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %v", rec.Code, payload)
	}
	data, _ = payload["data"].(map[string]any)
	if data["label"] != "renamed" {
		t.Fatalf("label = %v", data["label"])
	}

	rec, _ = doJSON(t, handler, http.MethodPut, "/api/databases/missing", update)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing status = %d, want 404", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, "/api/databases/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestChatsEmptyAndNewSentinel(t *testing.T) {
	handler := newTestServer(t)

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/chats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/chats/new", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sentinel status = %d", rec.Code)
	}
	data, _ := payload["data"].(map[string]any)
	if id, _ := data["id"].(string); id == "" || id == "new" {
		t.Fatalf("sentinel id = %v", data["id"])
	}

	rec, _ = doJSON(t, handler, http.MethodGet, "/api/chats/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing chat status = %d, want 404", rec.Code)
	}
}

func TestPromptWithUnknownDatabaseFailsBeforeStreaming(t *testing.T) {
	handler := newTestServer(t)

	body := `{"database_id":"missing","api_key_id":"missing","model":"grok-3","prompt":"hi"}`
	rec, payload := doJSON(t, handler, http.MethodPost, "/api/chats/chat-1/prompt", body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %v", rec.Code, payload)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content type = %q, want JSON error", ct)
	}
}
