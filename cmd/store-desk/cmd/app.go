package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Store-Desk/Storedesk/internal/adapter/outbound/dummyjson"
	"github.com/Store-Desk/Storedesk/internal/adapter/outbound/localstore"
	"github.com/Store-Desk/Storedesk/internal/config"
	"github.com/Store-Desk/Storedesk/internal/domain/catalog"
	"github.com/Store-Desk/Storedesk/internal/domain/session"
)

// app wires the stores and adapters for one command invocation. Store
// handles are passed down explicitly from here; there are no
// package-level singletons.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	records  *localstore.Store
	client   *dummyjson.Client
	session  *session.Store
	catalog  *catalog.Store
	registry *prometheus.Registry
}

// newApp loads config, builds the adapters and stores, and rehydrates the
// persisted session (an explicit startup step: a well-formed record marks
// the session authenticated, anything else starts anonymous).
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Storage.Dir = dataDir
	}
	if devMode {
		cfg.DevMode = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	if cfg.DevMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Debug("loaded config", "file", configFile)
	}

	records := localstore.New(cfg.Storage.Dir, logger)

	registry := prometheus.NewRegistry()
	metrics := dummyjson.NewMetrics(registry)

	client := dummyjson.NewClient(
		dummyjson.WithBaseURL(cfg.API.BaseURL),
		dummyjson.WithTimeout(cfg.TimeoutDuration()),
		dummyjson.WithCacheTTL(cfg.CacheTTLDuration()),
		dummyjson.WithCacheMaxSize(cfg.API.CacheMaxSize),
		dummyjson.WithTokenProvider(records),
		dummyjson.WithLogger(logger),
		dummyjson.WithMetrics(metrics),
	)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		records:  records,
		client:   client,
		session:  session.NewStore(client, records, logger),
		catalog:  catalog.NewStore(client, cfg.Catalog.PageSize, logger),
		registry: registry,
	}
	a.session.Restore()
	return a, nil
}

// close flushes per-invocation diagnostics: the gathered request metrics
// at debug level.
func (a *app) close() {
	families, err := a.registry.Gather()
	if err != nil {
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				attrs = append(attrs, "count", m.GetHistogram().GetSampleCount(),
					"sum_seconds", m.GetHistogram().GetSampleSum())
			}
			a.logger.Debug("api metric", attrs...)
		}
	}
}

// requireAuth fails with a login hint when no session is held. This is
// the CLI analog of redirecting an unauthenticated route to /login.
func (a *app) requireAuth() error {
	if !a.session.Snapshot().Authenticated() {
		return fmt.Errorf("not logged in; run 'store-desk login' first")
	}
	return nil
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch level {
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
