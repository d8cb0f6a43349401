package reply

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/harunnryd/nexus/pkg/api"
	"github.com/harunnryd/nexus/pkg/audio"
	"github.com/harunnryd/nexus/pkg/errorsx"
	"github.com/harunnryd/nexus/pkg/logging"
	"github.com/harunnryd/nexus/pkg/redact"
	"github.com/harunnryd/nexus/pkg/stream"
	"github.com/harunnryd/nexus/pkg/transcript"
)

// ConnectionErrorText is the fixed user-visible text written into the open
// entry when the stream request fails at the transport level.
const ConnectionErrorText = "Connection error. Is the API running?"

// ErrBusy is returned when a submission arrives while a previous request is
// still open.
var ErrBusy = errors.New("a request is already in flight")

// Backend is the slice of the API client the consumer needs.
type Backend interface {
	OpenStream(ctx context.Context, req api.StreamRequest) (io.ReadCloser, error)
	Synthesize(ctx context.Context, text string, id api.Identity) (api.SynthesisResult, error)
}

// Player is the audio slot the consumer hands finished clips to.
type Player interface {
	Start(clip audio.Clip) error
	Stop()
}

// Consumer turns a chat query into a live-updating transcript entry.
//
// Submit issues the stream request, applies delta frames to the open entry in
// arrival order, closes the entry on the completion frame, and then runs the
// best-effort voice synthesis step. One request may be open at a time;
// progress is observed through TranscriptStore mutation.
type Consumer struct {
	backend    Backend
	store      *transcript.Store
	player     Player
	identity   api.Identity
	processing atomic.Bool
	logger     *slog.Logger
}

func NewConsumer(backend Backend, store *transcript.Store, player Player, identity api.Identity) *Consumer {
	return &Consumer{
		backend:  backend,
		store:    store,
		player:   player,
		identity: identity,
		logger:   logging.NewComponentLogger(nil, "reply_consumer"),
	}
}

// Processing reports whether a request is currently open. The caller uses it
// to disable submission while a reply is streaming.
func (c *Consumer) Processing() bool {
	return c.processing.Load()
}

// Submit runs one full request: user entry, open assistant entry, stream
// consumption, completion handling, synthesis. Empty queries are silently
// ignored. A submission while another request is open returns ErrBusy without
// touching the transcript. No retries: a failed request is terminal and the
// user must resubmit.
func (c *Consumer) Submit(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if !c.processing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.processing.Store(false)

	c.store.Append(transcript.RoleUser, query)
	entry, err := c.store.Open(transcript.RoleAssistant)
	if err != nil {
		return err
	}

	c.logger.Info("submitting query",
		slog.String("session_id", c.identity.SessionID),
		slog.String("query", redact.Text(query)))

	body, err := c.backend.OpenStream(ctx, api.StreamRequest{
		Text:      query,
		UserID:    c.identity.UserID,
		SessionID: c.identity.SessionID,
	})
	if err != nil {
		c.logger.Error("stream request failed",
			slog.String("session_id", c.identity.SessionID),
			slog.String("error", err.Error()))
		_ = entry.CloseWithText(ConnectionErrorText)
		return err
	}
	defer body.Close()

	return c.consume(ctx, stream.NewDecoder(body), entry)
}

func (c *Consumer) consume(ctx context.Context, dec *stream.Decoder, entry *transcript.Handle) error {
	var sb strings.Builder
	for {
		frame, err := dec.Next()
		if err == io.EOF {
			// The stream ended without a completion frame. The entry keeps
			// whatever text accumulated; it is closed so the next request
			// can open one, but no error text is injected.
			c.logger.Warn("stream ended without completion",
				slog.String("session_id", c.identity.SessionID),
				slog.Int("partial_len", sb.Len()))
			_ = entry.Close()
			return nil
		}
		if err != nil {
			c.logger.Error("stream read failed",
				slog.String("session_id", c.identity.SessionID),
				slog.String("error", err.Error()))
			_ = entry.CloseWithText(ConnectionErrorText)
			return errorsx.Wrap(err, errorsx.ReasonStreamRead)
		}

		switch f := frame.(type) {
		case stream.DeltaFrame:
			sb.WriteString(f.Text())
			_ = entry.SetText(sb.String())
		case stream.CompletionFrame:
			_ = entry.Complete(f.FullText(), f.Sources())
			c.logger.Info("reply completed",
				slog.String("session_id", c.identity.SessionID),
				slog.Int("sources", len(f.Sources())))
			c.synthesize(ctx, f.FullText())
			return nil
		}
	}
}

// synthesize runs the secondary voice fetch. Audio is an enhancement, never a
// correctness requirement: every failure here is logged and swallowed.
func (c *Consumer) synthesize(ctx context.Context, text string) {
	if c.player == nil || strings.TrimSpace(text) == "" {
		return
	}
	res, err := c.backend.Synthesize(ctx, text, c.identity)
	if err != nil {
		c.logger.Warn("synthesis failed",
			slog.String("session_id", c.identity.SessionID),
			slog.String("error", err.Error()))
		return
	}
	if len(res.Audio) == 0 {
		c.logger.Debug("synthesis returned no audio",
			slog.String("session_id", c.identity.SessionID))
		return
	}
	format := res.Format
	if format == "" {
		format = "mp3"
	}
	if err := c.player.Start(audio.Clip{Format: format, Data: res.Audio}); err != nil {
		c.logger.Warn("audio playback failed",
			slog.String("session_id", c.identity.SessionID),
			slog.String("error", err.Error()))
	}
}
