package api

import (
	"strings"

	"github.com/google/uuid"
)

// Identity is the caller identity passed through to the backend. It is
// configured, never inferred, except that a missing session id gets a
// generated one.
type Identity struct {
	UserID    string
	SessionID string
}

func NewIdentity(userID, sessionID string) Identity {
	if strings.TrimSpace(userID) == "" {
		userID = "default"
	}
	if strings.TrimSpace(sessionID) == "" {
		sessionID = uuid.NewString()
	}
	return Identity{UserID: userID, SessionID: sessionID}
}

// StreamRequest is the body of POST /api/stream.
type StreamRequest struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// SynthesisResult is the decoded reply of POST /api/tts. Audio is empty when
// the backend produced no clip; that is not an error.
type SynthesisResult struct {
	Text   string
	Format string
	Audio  []byte
}

// HealthStatus is the reply of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

// EchoGreeting is the reply of GET /api/echo/greeting.
type EchoGreeting struct {
	Greeting string `json:"greeting"`
}

// EchoInsights is the reply of GET /api/echo/insights.
type EchoInsights struct {
	Insights []string `json:"insights"`
}

// EchoProfile describes the backend's memory of a user.
type EchoProfile struct {
	UserID      string            `json:"user_id"`
	Name        string            `json:"name"`
	Facts       []string          `json:"facts"`
	Preferences map[string]string `json:"preferences"`
	Stats       ProfileStats      `json:"stats"`
}

type ProfileStats struct {
	Sessions     int `json:"sessions"`
	Messages     int `json:"messages"`
	FactsLearned int `json:"facts_learned"`
}

// GaiaStatus is the weather/time snapshot from GET /api/gaia/status.
type GaiaStatus struct {
	Weather WeatherSnapshot `json:"weather"`
	Time    TimeSnapshot    `json:"datetime"`
}

type WeatherSnapshot struct {
	Location    string `json:"location"`
	Condition   string `json:"condition"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Mock        bool   `json:"mock"`
}

type TimeSnapshot struct {
	Formatted string `json:"formatted"`
	DayOfWeek string `json:"day_of_week"`
	Time      string `json:"time"`
}
