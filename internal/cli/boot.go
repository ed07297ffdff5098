package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/pergola"
	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/pkg/adapters/memory"
	"github.com/aretw0/pergola/pkg/fetch"
)

// Boot assembles a headless engine from the config file, fetches the
// start page and boots. Used by the serve and mcp commands; the returned
// cleanup closes any opened stores and destroys the engine.
func Boot(ctx context.Context, startURL, configPath string, debug bool) (*pergola.Engine, func(), error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Level()
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	browser := memory.NewBrowser(startURL)
	engineOpts, closeStores, err := cfg.Options(browser, logger)
	if err != nil {
		return nil, nil, err
	}

	if debug {
		engineOpts = append(engineOpts, pergola.WithLifecycleHooks(DebugHooks(logger)))
	}
	if len(cfg.Transitions) > 0 {
		engineOpts = append(engineOpts, pergola.WithTransitions(cfg.BuildTransitions(nil, nil)...))
	}

	engine, err := pergola.New(engineOpts...)
	if err != nil {
		closeStores()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}

	clientOpts := []fetch.Option{fetch.WithLogger(logger)}
	if d := cfg.Timeout(); d > 0 {
		clientOpts = append(clientOpts, fetch.WithTimeout(d))
	}
	client := fetch.New(clientOpts...)
	markup, err := client.Fetch(ctx, startURL)
	if err != nil {
		closeStores()
		return nil, nil, fmt.Errorf("error fetching start page: %w", err)
	}
	if err := engine.Boot(ctx, markup); err != nil {
		closeStores()
		return nil, nil, fmt.Errorf("error booting engine: %w", err)
	}

	cleanup := func() {
		engine.Destroy()
		closeStores()
	}
	return engine, cleanup, nil
}
