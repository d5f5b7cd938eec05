package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tinytelemetry/abacus/internal/calc"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg Config) (*Server, *gin.Engine) {
	t.Helper()
	eval, err := calc.NewGovaluateEvaluator(16)
	if err != nil {
		t.Fatalf("NewGovaluateEvaluator: %v", err)
	}
	srv := NewServer(cfg, eval, zerolog.Nop())
	srv.startTime = time.Now()
	return srv, srv.Handler()
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v; body: %s", err, w.Body.String())
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	_, r := newTestServer(t, Config{})

	postJSON(r, "/api/evaluate", `{"expression": "1+1"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decode(t, w)
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
	if body["evaluations"] != float64(1) {
		t.Errorf("evaluations = %v, want 1", body["evaluations"])
	}
}

func TestEvaluateEndpoint(t *testing.T) {
	_, r := newTestServer(t, Config{})

	tests := []struct {
		expr string
		want string
	}{
		{"9+-3", "6"},
		{"5--3", "8"},
		{"9*-9", "-81"},
		{"-3+-3", "-6"},
	}
	for _, tt := range tests {
		tt := tt
		w := postJSON(r, "/api/evaluate", `{"expression": "`+tt.expr+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want %d; body: %s", tt.expr, w.Code, http.StatusOK, w.Body.String())
		}
		body := decode(t, w)
		if body["result"] != tt.want {
			t.Errorf("%s: result = %v, want %s", tt.expr, body["result"], tt.want)
		}
		if body["expression"] != tt.expr {
			t.Errorf("%s: expression = %v, want the submitted text", tt.expr, body["expression"])
		}
	}
}

func TestEvaluateEndpoint_Errors(t *testing.T) {
	_, r := newTestServer(t, Config{})

	tests := []struct {
		body     string
		wantCode int
		wantKind string
	}{
		{`{"expression": "5/0"}`, http.StatusUnprocessableEntity, "MATH"},
		{`{"expression": "5+*"}`, http.StatusUnprocessableEntity, "SYNTAX"},
		{`{"expression": "sqrt(4)"}`, http.StatusUnprocessableEntity, "SYNTAX"},
		{`{}`, http.StatusBadRequest, ""},
		{`not json`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		tt := tt
		w := postJSON(r, "/api/evaluate", tt.body)
		if w.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d", tt.body, w.Code, tt.wantCode)
			continue
		}
		if tt.wantKind == "" {
			continue
		}
		if got := decode(t, w)["kind"]; got != tt.wantKind {
			t.Errorf("%s: kind = %v, want %s", tt.body, got, tt.wantKind)
		}
	}
}

func TestReplayEndpoint(t *testing.T) {
	_, r := newTestServer(t, Config{})

	w := postJSON(r, "/api/replay", `{"keys": ["5", "+", "=", "f1"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		State   stateJSON  `json:"state"`
		Steps   []stepJSON `json:"steps"`
		Ignored int        `json:"ignored"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.State.History != "5+5=10" || body.State.Display != "10" {
		t.Errorf("state = %+v, want history 5+5=10", body.State)
	}
	if len(body.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(body.Steps))
	}
	if body.Steps[1].Key != "+" || body.Steps[1].History != "5+" {
		t.Errorf("step 1 = %+v", body.Steps[1])
	}
	if body.Ignored != 1 {
		t.Errorf("ignored = %d, want 1", body.Ignored)
	}
}

func TestReplayEndpoint_ReportsError(t *testing.T) {
	_, r := newTestServer(t, Config{})

	w := postJSON(r, "/api/replay", `{"keys": ["5", "/", "0", "enter"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"display":"MATH ERROR"`) {
		t.Errorf("body missing MATH ERROR display: %s", w.Body.String())
	}
}

func TestReplayEndpoint_TooManyKeys(t *testing.T) {
	_, r := newTestServer(t, Config{MaxReplayKeys: 2})

	w := postJSON(r, "/api/replay", `{"keys": ["1", "2", "3"]}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("replay status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	_, r := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Gin returns 404 unless HandleMethodNotAllowed is enabled.
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestStartStop(t *testing.T) {
	srv, _ := newTestServer(t, Config{Addr: "127.0.0.1:0"})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
