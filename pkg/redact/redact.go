package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

// Privacy modes as persisted by the preference store.
const (
	ModePublic  = "public"
	ModePrivate = "private"
)

var enabled atomic.Bool

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
)

// SetMode enables redaction for the private mode, disables it otherwise.
func SetMode(mode string) {
	enabled.Store(strings.EqualFold(strings.TrimSpace(mode), ModePrivate))
}

// SetEnabled toggles redaction directly.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Enabled returns true when redaction is active.
func Enabled() bool {
	return enabled.Load()
}

// Text redacts emails and phone numbers when enabled.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}
