// Package cli wires configuration, providers, storage and the engine
// for the refine commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"

	"github.com/refinehq/refine"
	"github.com/refinehq/refine/internal/config"
	"github.com/refinehq/refine/internal/logging"
	"github.com/refinehq/refine/internal/metrics"
	"github.com/refinehq/refine/pkg/adapters/memory"
	redisadapter "github.com/refinehq/refine/pkg/adapters/redis"
	"github.com/refinehq/refine/pkg/ports"
	"github.com/refinehq/refine/pkg/providers/anthropic"
	"github.com/refinehq/refine/pkg/providers/gemini"
	"github.com/refinehq/refine/pkg/providers/scripted"
	"github.com/refinehq/refine/pkg/session"
)

// App bundles the components the commands operate on.
type App struct {
	Config   config.Config
	Client   *refine.Client
	Sessions *session.Manager
	Registry *prometheus.Registry
	Logger   *slog.Logger

	redis *backend.Client
}

// BuildApp loads configuration and wires the full application. The
// returned App must be closed when done.
func BuildApp(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))

	provider, oracle, err := buildProvider(ctx, cfg.Provider, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	var store ports.ConversationStore
	if cfg.Redis.Enabled {
		app.redis = backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisadapter.NewStore(app.redis, cfg.Redis.Prefix)
		sessionOpts = append(sessionOpts, session.WithLocker(redisadapter.NewLocker(app.redis, cfg.Redis.Prefix)))
	} else {
		store = memory.NewStore()
	}
	app.Sessions = session.NewManager(store, sessionOpts...)

	app.Client = refine.New(provider, oracle,
		refine.WithStore(app.Sessions),
		refine.WithLogger(logger),
		refine.WithMetrics(metrics.New(app.Registry)),
		refine.WithMaxSteps(cfg.Engine.MaxSteps),
		refine.WithRunBudget(cfg.Engine.RunBudget),
		refine.WithFinalizeGrace(cfg.Engine.FinalizeGrace),
		refine.WithHistoryLimit(cfg.Engine.HistoryLimit),
	)

	return app, nil
}

// Close releases backend connections.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func buildProvider(ctx context.Context, cfg config.ProviderConfig, logger *slog.Logger) (ports.Provider, ports.Oracle, error) {
	switch cfg.Backend {
	case config.BackendGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("gemini backend: %w", err)
		}
		return client, client, nil
	case config.BackendAnthropic:
		client := anthropic.New(anthropic.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			Logger: logger,
		})
		return client, client, nil
	case config.BackendScripted:
		var scenario *scripted.Scenario
		if cfg.ScenarioPath != "" {
			var err error
			scenario, err = scripted.Load(cfg.ScenarioPath)
			if err != nil {
				return nil, nil, err
			}
		}
		provider := scripted.New(scenario)
		return provider, provider, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider backend %q", cfg.Backend)
	}
}
