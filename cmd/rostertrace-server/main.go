package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/yndnr/rostertrace/internal/core/service"
	"github.com/yndnr/rostertrace/internal/infra/buildinfo"
	"github.com/yndnr/rostertrace/internal/infra/confloader"
	"github.com/yndnr/rostertrace/internal/infra/shutdown"
	"github.com/yndnr/rostertrace/internal/server/config"
	"github.com/yndnr/rostertrace/internal/server/httpserver"
	"github.com/yndnr/rostertrace/internal/server/httpserver/handler"
	"github.com/yndnr/rostertrace/internal/source/cached"
	"github.com/yndnr/rostertrace/internal/source/rest"
	"github.com/yndnr/rostertrace/internal/storage"
	"github.com/yndnr/rostertrace/internal/storage/memory"
	"github.com/yndnr/rostertrace/internal/telemetry/logger"
	"github.com/yndnr/rostertrace/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		checkConfig = flag.Bool("check-config", false, "Validate configuration, print it and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("rostertrace-server " + buildinfo.String())
		return nil
	}

	loader := newLoader(*configFile)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *checkConfig {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(config.Sanitize(cfg))
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting rostertrace-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", loader.FilePath())
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	ctx := context.Background()
	registry := metric.NewRegistry()

	// Acquisition cache: in-process tier over the configured durable tier.
	durable, err := storage.OpenDurable(ctx, cfg.StorageConfig(), log, registry.Registerer())
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	acqMemory := memory.New()
	cache := storage.NewTieredCache(acqMemory, durable, cfg.Cache.MemoryTTL, log)

	// Upstream source with a response cache for completed seasons.
	client, err := rest.NewClient(cfg.SourceConfig(), log)
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}
	srcMemory := memory.New()
	source := cached.New(client, srcMemory, cfg.Cache.LeagueTTL, log)

	registry.Registerer().MustRegister(metric.NewCollector(map[string]metric.SizeReporter{
		"acquisitions": acqMemory,
		"source":       source,
	}))

	svc := service.NewProvenanceService(source, cache, cfg.ProvenanceConfig(log, registry))

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Resolver: svc,
		Checks: map[string]handler.ReadinessCheck{
			"cache":  cache.Ping,
			"source": sourceCheck(client),
		},
		MetricsHandler: registry.Handler(),
		Metrics:        registry,
		Logger:         log,
		RateLimit:      cfg.Server.HTTP.RateLimit,
		RateBurst:      cfg.Server.HTTP.Burst,
		EnableAudit:    true,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, log)

	// Hooks run in reverse order: HTTP first, storage last.
	shutdownHandler.OnShutdown("durable cache", func(context.Context) error {
		return durable.Close()
	})
	shutdownHandler.OnShutdown("memory tiers", func(context.Context) error {
		return errors.Join(acqMemory.Close(), srcMemory.Close())
	})

	reload := func() { reloadConfig(loader, log) }
	shutdownHandler.OnReload(reload)

	if path := loader.FilePath(); path != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("init config watcher: %w", err)
		}
		if err := watcher.Watch(path); err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		watcher.OnChange(func(string) { reload() })
		go watcher.Run(ctx)
		shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
			return watcher.Stop()
		})
	}

	shutdownHandler.OnShutdown("http server", httpServer.Shutdown)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			serveErr <- err
			shutdownHandler.Trigger()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	waitErr := shutdownHandler.Wait(ctx)

	select {
	case err := <-serveErr:
		return errors.Join(fmt.Errorf("http server: %w", err), waitErr)
	default:
	}
	if waitErr != nil {
		log.Error("shutdown error", "error", waitErr)
		return waitErr
	}

	log.Info("server stopped gracefully")
	return nil
}

func newLoader(configFile string) *confloader.Loader {
	opts := []confloader.Option{
		confloader.WithDefaults(config.DefaultMap()),
	}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	return confloader.NewLoader(opts...)
}

// loadConfig loads and validates configuration from every source.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// reloadConfig applies the reloadable settings. Only the log level is
// reloadable; other changes need a restart.
func reloadConfig(loader *confloader.Loader, log *slog.Logger) {
	cfg, err := loadConfig(loader)
	if err != nil {
		log.Error("config reload rejected", "error", err)
		return
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Error("config reload rejected", "error", err)
		return
	}
	log.Info("configuration reloaded", "log_level", cfg.Log.Level)
}

// sourceCheck reports not ready while the upstream circuit is open.
func sourceCheck(client *rest.Client) handler.ReadinessCheck {
	return func(context.Context) error {
		if state := client.BreakerState(); state == "open" {
			return fmt.Errorf("upstream circuit %s", state)
		}
		return nil
	}
}
