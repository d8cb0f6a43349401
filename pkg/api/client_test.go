package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harunnryd/nexus/pkg/errorsx"
)

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	hs, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if hs.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", hs.Status)
	}
}

func TestHealthFailureReason(t *testing.T) {
	c, err := New(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = c.Health(context.Background())
	if !errorsx.HasReason(err, errorsx.ReasonHealthCheck) {
		t.Fatalf("expected health_check reason, got %v", err)
	}
}

func TestOpenStreamSendsIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stream" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req StreamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Text != "Hello" || req.UserID != "u1" || req.SessionID != "s1" {
			t.Fatalf("unexpected request body: %+v", req)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"done\":true,\"full_text\":\"ok\"}\n")
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	body, err := c.OpenStream(context.Background(), StreamRequest{Text: "Hello", UserID: "u1", SessionID: "s1"})
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if len(data) == 0 {
		t.Fatalf("expected stream body")
	}
}

func TestOpenStreamNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.OpenStream(context.Background(), StreamRequest{Text: "x"})
	if !errorsx.HasReason(err, errorsx.ReasonStreamConnect) {
		t.Fatalf("expected stream_connect reason, got %v", err)
	}
}

func TestSynthesizeDecodesAudio(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x04}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req StreamRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Text != "Hi there!" {
			t.Fatalf("unexpected text %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":         req.Text,
			"audio":        base64.StdEncoding.EncodeToString(audio),
			"audio_format": "mp3",
		})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	res, err := c.Synthesize(context.Background(), "Hi there!", Identity{UserID: "u", SessionID: "s"})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if res.Format != "mp3" || len(res.Audio) != len(audio) {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSynthesizeWithoutAudioIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"text": "quiet", "audio": nil})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	res, err := c.Synthesize(context.Background(), "quiet", Identity{})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(res.Audio) != 0 {
		t.Fatalf("expected no audio, got %d bytes", len(res.Audio))
	}
}

func TestGaiaStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gaia/status" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"weather":  map[string]any{"location": "Jakarta", "condition": "Clear", "temperature": "88°F"},
			"datetime": map[string]any{"formatted": "Monday, September 1, 2025 at 10:00 AM"},
		})
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	st, err := c.GaiaStatus(context.Background())
	if err != nil {
		t.Fatalf("gaia status: %v", err)
	}
	if st.Weather.Location != "Jakarta" || st.Weather.Condition != "Clear" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestNewIdentityGeneratesSession(t *testing.T) {
	id := NewIdentity("", "")
	if id.UserID != "default" {
		t.Fatalf("expected default user id, got %q", id.UserID)
	}
	if id.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
	fixed := NewIdentity("u", "s")
	if fixed.UserID != "u" || fixed.SessionID != "s" {
		t.Fatalf("expected configured identity preserved, got %+v", fixed)
	}
}
