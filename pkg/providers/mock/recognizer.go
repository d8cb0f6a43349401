package mock

import (
	"context"
	"sync"

	"github.com/harunnryd/nexus/pkg/adapters/recognizer"
)

type RecognizerConfig struct {
	// Scripted results emitted in order once Start is called.
	Results []recognizer.Result
}

// Recognizer is a scripted speech-capture stand-in for tests and offline use.
type Recognizer struct {
	cfg     RecognizerConfig
	out     chan recognizer.Result
	mu      sync.Mutex
	started bool
}

func NewRecognizer(cfg RecognizerConfig) *Recognizer {
	return &Recognizer{
		cfg: cfg,
		out: make(chan recognizer.Result, len(cfg.Results)+1),
	}
}

func (r *Recognizer) Name() string { return "mock_recognizer" }

func (r *Recognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	r.started = true
	for _, res := range r.cfg.Results {
		r.out <- res
	}
	return nil
}

func (r *Recognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.out != nil {
		close(r.out)
		r.out = nil
	}
	r.started = false
	return nil
}

func (r *Recognizer) Results() <-chan recognizer.Result { return r.out }

var _ recognizer.Recognizer = (*Recognizer)(nil)
