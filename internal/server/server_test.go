package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/presenter"
	"github.com/phishguard/phishguard/internal/server"
	"github.com/phishguard/phishguard/internal/testutil"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	cfg := server.Config{
		ListenAddr:  ":0",
		StorageRoot: t.TempDir(),
		Classifier:  &classifier.Config{Backend: classifier.BackendLocal},
		Logger:      &testutil.DummyLogger{},
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func doJSON(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

// waitTerminal polls the controller until the current state is terminal.
func waitTerminal(t *testing.T, s *server.Server) model.ScanState {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if state := s.Controller().State(); state.Terminal() {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for terminal state")
	return model.ScanState{}
}

// ─── CORS ──────────────────────────────────────────────────────────────

func TestServer_CORS_HeaderPresent(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/scan", "")

	origin := rec.Header().Get("Access-Control-Allow-Origin")
	if origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
}

// ─── Scan lifecycle ────────────────────────────────────────────────────

func TestServer_SubmitScan_InvalidJSON(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/scan", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_SubmitScan_EmptyURL(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/scan", `{"url": "   "}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d (%s)", rec.Code, rec.Body.String())
	}

	var state model.ScanState
	decodeJSON(t, rec, &state)
	if state.Phase != model.PhaseFailed {
		t.Errorf("expected failed phase, got %s", state.Phase)
	}
	if state.Err == nil || state.Err.Kind != model.ErrorValidation {
		t.Errorf("expected validation error, got %+v", state.Err)
	}
}

func TestServer_SubmitScan_ResolvesAndServesView(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/scan", `{"url": "http://192.168.1.10/login"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d (%s)", rec.Code, rec.Body.String())
	}

	var submitted model.ScanState
	decodeJSON(t, rec, &submitted)
	if submitted.Phase != model.PhaseChecking {
		t.Fatalf("expected checking snapshot, got %s", submitted.Phase)
	}

	waitTerminal(t, s)

	rec = doJSON(t, s, "GET", "/scan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view presenter.View
	decodeJSON(t, rec, &view)
	if view.Phase != "resolved" {
		t.Fatalf("expected resolved view, got %+v", view)
	}
	if view.Label != presenter.LabelPhishing {
		t.Errorf("expected phishing label for IP-literal host, got %q", view.Label)
	}
}

// ─── History ───────────────────────────────────────────────────────────

func TestServer_ListScansAfterResolution(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	doJSON(t, s, "POST", "/scan", `{"url": "https://example.org"}`)
	waitTerminal(t, s)

	// Recording happens after the terminal state is visible; poll.
	var recs []model.ScanRecord
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec := doJSON(t, s, "GET", "/scans?limit=10", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		recs = nil
		decodeJSON(t, rec, &recs)
		if len(recs) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(recs) != 1 {
		t.Fatalf("expected one recorded scan, got %d", len(recs))
	}
	if recs[0].URL != "https://example.org" {
		t.Errorf("unexpected record %+v", recs[0])
	}

	rec := doJSON(t, s, "GET", "/scans/"+recs[0].ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for recorded scan, got %d", rec.Code)
	}
}

func TestServer_GetScanRecord_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/scans/does-not-exist", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ─── WebSocket ─────────────────────────────────────────────────────────

func TestServer_ScanWS_StreamsViews(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/scan"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var initial presenter.View
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("reading initial view: %v", err)
	}
	if initial.Phase != "idle" {
		t.Fatalf("expected idle initial view, got %+v", initial)
	}

	doJSON(t, s, "POST", "/scan", `{"url": "https://example.org"}`)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var view presenter.View
		if err := conn.ReadJSON(&view); err != nil {
			t.Fatalf("reading streamed view: %v", err)
		}
		if view.Phase == "resolved" || view.Phase == "failed" {
			if view.Label == "" && view.Message == "" {
				t.Errorf("terminal view carries neither label nor message: %+v", view)
			}
			return
		}
	}
}

// ─── Health ────────────────────────────────────────────────────────────

func TestServer_Healthz(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
