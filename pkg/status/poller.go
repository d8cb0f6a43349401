package status

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/harunnryd/nexus/pkg/api"
	"github.com/harunnryd/nexus/pkg/logging"
)

const (
	keyGaia     = "gaia"
	keyGreeting = "echo_greeting"
	keyInsights = "echo_insights"
	keyProfile  = "echo_profile"
)

// Source is the slice of the API client the poller reads from.
type Source interface {
	GaiaStatus(ctx context.Context) (api.GaiaStatus, error)
	EchoGreeting(ctx context.Context) (api.EchoGreeting, error)
	EchoInsights(ctx context.Context) (api.EchoInsights, error)
	EchoProfile(ctx context.Context) (api.EchoProfile, error)
}

// Poller serves the read-only widget data (weather/time snapshot, memory
// profile) with a TTL cache in front of the backend. Failures here never
// affect the transcript; callers degrade to absent data.
type Poller struct {
	src    Source
	cache  *gocache.Cache
	logger *slog.Logger
}

func NewPoller(src Source, ttl time.Duration) *Poller {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Poller{
		src:    src,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logging.NewComponentLogger(nil, "status_poller"),
	}
}

func (p *Poller) Gaia(ctx context.Context) (api.GaiaStatus, error) {
	if v, ok := p.cache.Get(keyGaia); ok {
		return v.(api.GaiaStatus), nil
	}
	st, err := p.src.GaiaStatus(ctx)
	if err != nil {
		p.logger.Warn("gaia fetch failed", slog.String("error", err.Error()))
		return api.GaiaStatus{}, err
	}
	p.cache.SetDefault(keyGaia, st)
	return st, nil
}

func (p *Poller) Greeting(ctx context.Context) (api.EchoGreeting, error) {
	if v, ok := p.cache.Get(keyGreeting); ok {
		return v.(api.EchoGreeting), nil
	}
	g, err := p.src.EchoGreeting(ctx)
	if err != nil {
		p.logger.Warn("greeting fetch failed", slog.String("error", err.Error()))
		return api.EchoGreeting{}, err
	}
	p.cache.SetDefault(keyGreeting, g)
	return g, nil
}

func (p *Poller) Insights(ctx context.Context) (api.EchoInsights, error) {
	if v, ok := p.cache.Get(keyInsights); ok {
		return v.(api.EchoInsights), nil
	}
	in, err := p.src.EchoInsights(ctx)
	if err != nil {
		p.logger.Warn("insights fetch failed", slog.String("error", err.Error()))
		return api.EchoInsights{}, err
	}
	p.cache.SetDefault(keyInsights, in)
	return in, nil
}

func (p *Poller) Profile(ctx context.Context) (api.EchoProfile, error) {
	if v, ok := p.cache.Get(keyProfile); ok {
		return v.(api.EchoProfile), nil
	}
	pr, err := p.src.EchoProfile(ctx)
	if err != nil {
		p.logger.Warn("profile fetch failed", slog.String("error", err.Error()))
		return api.EchoProfile{}, err
	}
	p.cache.SetDefault(keyProfile, pr)
	return pr, nil
}

// Invalidate drops all cached widget data.
func (p *Poller) Invalidate() {
	p.cache.Flush()
}
