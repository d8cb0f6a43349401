package nexus

import (
	"context"
	"log/slog"
	"time"

	"github.com/harunnryd/nexus/pkg/adapters/recognizer"
	"github.com/harunnryd/nexus/pkg/api"
	"github.com/harunnryd/nexus/pkg/audio"
	"github.com/harunnryd/nexus/pkg/logging"
	"github.com/harunnryd/nexus/pkg/prefs"
	"github.com/harunnryd/nexus/pkg/redact"
	"github.com/harunnryd/nexus/pkg/reply"
	"github.com/harunnryd/nexus/pkg/status"
	"github.com/harunnryd/nexus/pkg/transcript"
)

// Options configures a Session. Zero-value fields fall back to defaults so
// tests can inject fakes piecemeal.
type Options struct {
	Config     Config
	Sink       audio.Sink
	Prefs      prefs.Store
	Recognizer recognizer.Recognizer
}

// Session wires the client together: backend, transcript, reply consumer,
// audio slot, status poller, recognizer, preferences. One Session is one
// conversation with one identity.
type Session struct {
	cfg      Config
	identity api.Identity
	client   *api.Client
	store    *transcript.Store
	consumer *reply.Consumer
	player   *audio.Player
	poller   *status.Poller
	prefs    prefs.Store
	rec      recognizer.Recognizer
	logger   *slog.Logger
}

func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	logging.SetDefault(cfg.LogLevel, cfg.LogFormat)

	client, err := api.New(api.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: time.Duration(cfg.Backend.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	prefStore := opts.Prefs
	if prefStore == nil {
		prefStore, err = prefs.NewFileStore(cfg.Prefs.Path)
		if err != nil {
			return nil, err
		}
	}
	mode, _ := prefStore.Get(prefs.KeyPrivacyMode)
	redact.SetMode(mode)

	sink := opts.Sink
	if sink == nil {
		sink = audio.NopSink{}
	}
	player := audio.NewPlayer(sink)

	identity := api.NewIdentity(cfg.User.ID, cfg.User.SessionID)
	store := transcript.NewStore()

	var consumerPlayer reply.Player
	if cfg.Voice.Enabled {
		consumerPlayer = player
	}

	s := &Session{
		cfg:      cfg,
		identity: identity,
		client:   client,
		store:    store,
		consumer: reply.NewConsumer(client, store, consumerPlayer, identity),
		player:   player,
		poller:   status.NewPoller(client, time.Duration(cfg.Status.RefreshMS)*time.Millisecond),
		prefs:    prefStore,
		rec:      opts.Recognizer,
		logger:   logging.NewComponentLogger(nil, "session"),
	}

	s.logger.Info("session ready",
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("user_id", identity.UserID),
		slog.String("session_id", identity.SessionID),
		slog.Bool("voice", cfg.Voice.Enabled))
	return s, nil
}

// CheckHealth verifies backend reachability.
func (s *Session) CheckHealth(ctx context.Context) error {
	_, err := s.client.Health(ctx)
	return err
}

// Submit sends a query; progress lands in the transcript store.
func (s *Session) Submit(ctx context.Context, text string) error {
	return s.consumer.Submit(ctx, text)
}

// Processing reports whether a request is in flight.
func (s *Session) Processing() bool {
	return s.consumer.Processing()
}

// Run consumes recognizer results, submitting each final transcript as a
// query. It returns when the recognizer channel closes or the context ends.
// Without a recognizer it blocks until the context ends.
func (s *Session) Run(ctx context.Context) error {
	if s.rec == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	if err := s.rec.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = s.rec.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-s.rec.Results():
			if !ok {
				return nil
			}
			if !res.Final {
				continue
			}
			if err := s.Submit(ctx, res.Transcript); err == reply.ErrBusy {
				s.logger.Warn("dropping utterance while a reply is streaming",
					slog.String("transcript", redact.Text(res.Transcript)))
			} else if err != nil {
				s.logger.Error("submit failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Transcript exposes the conversation store for rendering.
func (s *Session) Transcript() *transcript.Store {
	return s.store
}

// Status exposes the cached widget data poller.
func (s *Session) Status() *status.Poller {
	return s.poller
}

// Identity returns the caller identity sent with every request.
func (s *Session) Identity() api.Identity {
	return s.identity
}

// StopAudio halts the current clip, if any.
func (s *Session) StopAudio() {
	s.player.Stop()
}

// PrivacyMode returns the persisted privacy preference, defaulting to public.
func (s *Session) PrivacyMode() string {
	if mode, ok := s.prefs.Get(prefs.KeyPrivacyMode); ok {
		return mode
	}
	return redact.ModePublic
}

// SetPrivacyMode persists the preference and applies it to log redaction.
func (s *Session) SetPrivacyMode(mode string) error {
	if err := s.prefs.Set(prefs.KeyPrivacyMode, mode); err != nil {
		return err
	}
	redact.SetMode(mode)
	s.logger.Info("privacy mode changed", slog.String("mode", mode))
	return nil
}
