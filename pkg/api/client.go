package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harunnryd/nexus/pkg/configutil"
	"github.com/harunnryd/nexus/pkg/errorsx"
	"github.com/harunnryd/nexus/pkg/logging"
)

// Config carries the backend connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the NEXUS backend over HTTP. Streaming calls use a client
// without a deadline so long replies are not cut off mid-stream.
type Client struct {
	baseURL   string
	http      *http.Client
	streaming *http.Client
	logger    *slog.Logger
}

func New(cfg Config) (*Client, error) {
	if err := configutil.RequireString(cfg.BaseURL, "backend.base_url"); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		streaming: &http.Client{},
		logger:    logging.NewComponentLogger(nil, "api_client"),
	}, nil
}

// Health checks backend reachability.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	if err := c.getJSON(ctx, "/health", &out); err != nil {
		return HealthStatus{}, errorsx.Wrap(err, errorsx.ReasonHealthCheck)
	}
	return out, nil
}

// OpenStream issues the chat request and returns the raw SSE body. The caller
// owns the returned reader and must close it.
func (c *Client) OpenStream(ctx context.Context, req StreamRequest) (io.ReadCloser, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonStreamConnect)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/stream", bytes.NewReader(body))
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonStreamConnect)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.streaming.Do(httpReq)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonStreamConnect)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, errorsx.Wrap(fmt.Errorf("stream request failed: status=%d", resp.StatusCode), errorsx.ReasonStreamConnect)
	}
	if resp.Body == nil {
		return nil, errorsx.Wrap(fmt.Errorf("stream response has no body"), errorsx.ReasonStreamConnect)
	}
	c.logger.Debug("stream opened",
		slog.String("session_id", req.SessionID))
	return resp.Body, nil
}

// Synthesize converts finished reply text into audio via POST /api/tts.
// The wire convention is JSON with inline base64 audio.
func (c *Client) Synthesize(ctx context.Context, text string, id Identity) (SynthesisResult, error) {
	payload := StreamRequest{Text: text, UserID: id.UserID, SessionID: id.SessionID}
	body, err := json.Marshal(payload)
	if err != nil {
		return SynthesisResult{}, errorsx.Wrap(err, errorsx.ReasonSynthesis)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tts", bytes.NewReader(body))
	if err != nil {
		return SynthesisResult{}, errorsx.Wrap(err, errorsx.ReasonSynthesis)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SynthesisResult{}, errorsx.Wrap(err, errorsx.ReasonSynthesis)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SynthesisResult{}, errorsx.Wrap(fmt.Errorf("tts request failed: status=%d", resp.StatusCode), errorsx.ReasonSynthesis)
	}

	var raw struct {
		Text        string `json:"text"`
		Audio       string `json:"audio"`
		AudioFormat string `json:"audio_format"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return SynthesisResult{}, errorsx.Wrap(err, errorsx.ReasonSynthesis)
	}
	out := SynthesisResult{Text: raw.Text, Format: raw.AudioFormat}
	if raw.Audio != "" {
		data, err := base64.StdEncoding.DecodeString(raw.Audio)
		if err != nil {
			return SynthesisResult{}, errorsx.Wrap(err, errorsx.ReasonAudioDecode)
		}
		out.Audio = data
	}
	return out, nil
}

// EchoGreeting fetches the memory-derived greeting.
func (c *Client) EchoGreeting(ctx context.Context) (EchoGreeting, error) {
	var out EchoGreeting
	if err := c.getJSON(ctx, "/api/echo/greeting", &out); err != nil {
		return EchoGreeting{}, errorsx.Wrap(err, errorsx.ReasonProfileFetch)
	}
	return out, nil
}

// EchoInsights fetches memory-derived insights about the user.
func (c *Client) EchoInsights(ctx context.Context) (EchoInsights, error) {
	var out EchoInsights
	if err := c.getJSON(ctx, "/api/echo/insights", &out); err != nil {
		return EchoInsights{}, errorsx.Wrap(err, errorsx.ReasonProfileFetch)
	}
	return out, nil
}

// EchoProfile fetches the full user-memory profile.
func (c *Client) EchoProfile(ctx context.Context) (EchoProfile, error) {
	var out EchoProfile
	if err := c.getJSON(ctx, "/api/echo/profile", &out); err != nil {
		return EchoProfile{}, errorsx.Wrap(err, errorsx.ReasonProfileFetch)
	}
	return out, nil
}

// GaiaStatus fetches the live weather/time snapshot.
func (c *Client) GaiaStatus(ctx context.Context) (GaiaStatus, error) {
	var out GaiaStatus
	if err := c.getJSON(ctx, "/api/gaia/status", &out); err != nil {
		return GaiaStatus{}, errorsx.Wrap(err, errorsx.ReasonGaiaFetch)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s failed: status=%d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
