package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/pergola"
	boltstore "github.com/aretw0/pergola/pkg/adapters/bbolt"
	redisstore "github.com/aretw0/pergola/pkg/adapters/redis"
	"github.com/aretw0/pergola/pkg/dom"
	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/ports"
)

// Options returns the engine options derived from the config.
// The caller supplies the browser and any hooks; stores opened here are
// returned through cleanup for the caller to close.
func (c *Config) Options(browser ports.Browser, logger *slog.Logger) ([]pergola.Option, func(), error) {
	opts := []pergola.Option{
		pergola.WithBrowser(browser),
		pergola.WithLogger(logger),
	}
	cleanup := func() {}

	if len(c.Schema) > 0 {
		schema, err := dom.SchemaFromMap(c.Schema)
		if err != nil {
			return nil, nil, fmt.Errorf("error in schema config: %w", err)
		}
		opts = append(opts, pergola.WithDOM(dom.New(dom.WithSchema(schema))))
	}

	if d := c.Timeout(); d > 0 {
		opts = append(opts, pergola.WithTimeout(d))
	}
	if c.Cache != nil && !*c.Cache {
		opts = append(opts, pergola.WithoutCache())
	}
	if c.Prefetch != nil && !*c.Prefetch {
		opts = append(opts, pergola.WithoutPrefetch())
	}

	if c.Redis != nil && c.Redis.Addr != "" {
		ttl, err := c.Redis.RedisTTL()
		if err != nil {
			return nil, nil, err
		}
		store := redisstore.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB, redisstore.WithTTL(ttl))
		opts = append(opts, pergola.WithMarkupStore(store))
	}

	if c.HistoryPath != "" {
		store, err := boltstore.Open(c.HistoryPath)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening history store: %w", err)
		}
		opts = append(opts, pergola.WithHistoryStore(store))
		cleanup = func() { store.Close() }
	}

	return opts, cleanup, nil
}

// Level parses the configured log level, defaulting to Info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DebugHooks returns lifecycle hooks that trace engine activity through
// the logger. Wired in when the debug flag is set.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGo: func(_ context.Context, e *domain.NavigationEvent) {
			logger.Debug("navigation started", "url", e.URL, "trigger", e.Trigger)
		},
		OnRefresh: func(_ context.Context, e *domain.NavigationEvent) {
			logger.Debug("navigation committed", "url", e.URL, "namespace", e.Namespace)
		},
		OnFetch: func(_ context.Context, e *domain.FetchEvent) {
			logger.Debug("fetch settled", "url", e.URL, "cached", e.Cached, "prefetch", e.Prefetch, "err", e.Err)
		},
		OnPhase: func(_ context.Context, e *domain.PhaseEvent) {
			logger.Debug("phase done", "transition", e.Transition, "phase", e.Phase, "duration", e.Duration)
		},
		OnError: func(_ context.Context, e *domain.NavigationEvent, err error) {
			logger.Warn("navigation failed", "url", e.URL, "error", err)
		},
	}
}
