package serve

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/wordrank/models"
)

func newTestServer(t *testing.T, cfg models.ServerConfig) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := New(cfg, models.DefaultN, logger, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHealthKeepsClientRequestID(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{})

	resp, data := post(t, ts, "/analyze", `{"text": "  Olá olá, mundo!  ", "n": 2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}

	var body models.AnalyzeResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.N != 2 {
		t.Errorf("n = %d, want 2", body.N)
	}
	wantReport := "Top 2 most common words:\n1. ola -> 2\n2. mundo -> 1\n"
	if body.Report != wantReport {
		t.Errorf("report = %q, want %q", body.Report, wantReport)
	}
	wantItems := []models.RankedWord{
		{Rank: 1, Word: "ola", Count: 2},
		{Rank: 2, Word: "mundo", Count: 1},
	}
	if len(body.Items) != len(wantItems) {
		t.Fatalf("items = %+v, want %+v", body.Items, wantItems)
	}
	for i := range wantItems {
		if body.Items[i] != wantItems[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, body.Items[i], wantItems[i])
		}
	}
}

func TestAnalyzeDefaultN(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{})

	resp, data := post(t, ts, "/analyze", `{"text": "a b c d e f g h i j k l"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var body models.AnalyzeResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.N != 10 || len(body.Items) != 10 {
		t.Errorf("n = %d, items = %d; want 10 and 10", body.N, len(body.Items))
	}
}

func TestAnalyzePunctuationOnly(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{})

	resp, data := post(t, ts, "/analyze", `{"text": "?!...", "n": 3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	if !strings.Contains(string(data), `"items":[]`) {
		t.Errorf("expected empty items array, got %s", data)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{MaxN: 50, MaxBodyBytes: 64})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "blank text", body: `{"text": "   "}`, wantStatus: http.StatusBadRequest, wantError: "text is empty"},
		{name: "only separator controls", body: `{"text": "\u001c\u001f"}`, wantStatus: http.StatusBadRequest, wantError: "text is empty"},
		{name: "empty text", body: `{"text": ""}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "missing text", body: `{"n": 3}`, wantStatus: http.StatusUnprocessableEntity, wantError: "text is required"},
		{name: "n zero", body: `{"text": "ola", "n": 0}`, wantStatus: http.StatusUnprocessableEntity, wantError: "n must be between 1 and 50"},
		{name: "n above max", body: `{"text": "ola", "n": 51}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "text wrong type", body: `{"text": 5}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed json", body: `{"text": `, wantStatus: http.StatusBadRequest},
		{name: "body too large", body: `{"text": "` + strings.Repeat("a", 100) + `"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, ts, "/analyze", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, data)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(data, &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
			if tt.wantError != "" && body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{})

	resp, err := http.Get(ts.URL + "/analyze")
	if err != nil {
		t.Fatalf("GET /analyze: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, models.ServerConfig{})

	resp, data := post(t, ts, "/stats", `{"text": "Olá mundo!\nIsto é Python."}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var stats models.TextStats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Chars != 25 || stats.Words != 5 || stats.Lines != 2 {
		t.Errorf("stats = %+v", stats)
	}

	for _, blank := range []string{`{"text": " "}`, `{"text": "\u001e\t"}`} {
		resp, _ = post(t, ts, "/stats", blank)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("blank text %s: status = %d, want 400", blank, resp.StatusCode)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := New(models.ServerConfig{}, 10, slog.New(slog.NewJSONHandler(io.Discard, nil)), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
