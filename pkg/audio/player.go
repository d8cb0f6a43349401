package audio

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/harunnryd/nexus/pkg/errorsx"
	"github.com/harunnryd/nexus/pkg/logging"
)

// Clip is one playable audio payload.
type Clip struct {
	Format string
	Data   []byte
}

// Sink is the playback device boundary. Implementations own the actual
// output; they are not expected to arbitrate between callers.
type Sink interface {
	Play(clip Clip) error
	Stop()
}

// Player is the single shared playback slot. Starting a clip always stops
// whatever is currently playing first, so at most one clip plays at a time
// and the last request wins.
type Player struct {
	mu      sync.Mutex
	sink    Sink
	playing bool
	logger  *slog.Logger
}

func NewPlayer(sink Sink) *Player {
	return &Player{
		sink:   sink,
		logger: logging.NewComponentLogger(nil, "audio_player"),
	}
}

// Start stops the current clip, then plays the new one.
func (p *Player) Start(clip Clip) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.sink.Stop()
		p.playing = false
	}
	if err := p.sink.Play(clip); err != nil {
		p.logger.Warn("playback failed",
			slog.String("format", clip.Format),
			slog.Int("size_bytes", len(clip.Data)),
			slog.String("error", err.Error()))
		return errorsx.Wrap(err, errorsx.ReasonAudioPlay)
	}
	p.playing = true
	p.logger.Debug("playback started",
		slog.String("format", clip.Format),
		slog.Int("size_bytes", len(clip.Data)))
	return nil
}

// Stop halts playback. Safe to call when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.sink.Stop()
	p.playing = false
}

// Playing reports whether a clip is currently in the slot.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// NopSink discards playback. Used when no output device is configured.
type NopSink struct{}

func (NopSink) Play(clip Clip) error {
	slog.Debug("discarding audio clip",
		slog.String("format", strings.ToLower(clip.Format)),
		slog.Int("size_bytes", len(clip.Data)))
	return nil
}

func (NopSink) Stop() {}
