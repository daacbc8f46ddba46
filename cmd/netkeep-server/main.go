package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/yndnr/netkeep-go/internal/core/service"
	"github.com/yndnr/netkeep-go/internal/infra/buildinfo"
	"github.com/yndnr/netkeep-go/internal/infra/confloader"
	"github.com/yndnr/netkeep-go/internal/infra/shutdown"
	"github.com/yndnr/netkeep-go/internal/platform"
	"github.com/yndnr/netkeep-go/internal/server/config"
	"github.com/yndnr/netkeep-go/internal/server/daemon"
	"github.com/yndnr/netkeep-go/internal/server/mgmtserver"
	"github.com/yndnr/netkeep-go/internal/storage/settings"
	"github.com/yndnr/netkeep-go/internal/telemetry/logger"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
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
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("netkeep-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := log.Slog()

	info := buildinfo.Get()
	log.Info("starting netkeep-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	metrics := metric.NewRegistry()

	store, err := settings.Open(settings.Config{
		Path:          cfg.Settings.Path,
		DefaultPath:   cfg.Settings.DefaultPath,
		FlushInterval: cfg.Settings.FlushInterval,
	}, settings.WithLogger(slogLogger), settings.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	plat, err := platform.New(platform.Config{
		Kind:           cfg.Platform.Kind,
		Interface:      cfg.Platform.Interface,
		HotspotProfile: cfg.Platform.HotspotProfile,
		UseSudo:        cfg.Platform.UseSudo,
		CommandTimeout: cfg.Reconcile.CommandTimeout,
	}, slogLogger)
	if err != nil {
		return fmt.Errorf("init platform: %w", err)
	}
	log.Info("platform selected", "platform", plat.Name())

	app := daemon.New(daemon.Config{
		Interval: cfg.Reconcile.Interval,
		Connectivity: service.ConnectivityConfig{
			MinCycleGap:          cfg.Reconcile.MinCycleGap,
			ActivityQuiet:        cfg.Reconcile.ActivityQuiet,
			HotspotAfter:         cfg.Reconcile.HotspotAfter,
			ManualConnectTimeout: cfg.Reconcile.ManualConnectTimeout,
			CommandTimeout:       cfg.Reconcile.CommandTimeout,
		},
		ConnectTimeout: cfg.Reconcile.ConnectTimeout,
	}, store, plat, daemon.WithLogger(slogLogger), daemon.WithMetrics(metrics))

	ctx := context.Background()
	if err := app.Startup(ctx); err != nil {
		// The reconcile loop still runs; the hotspot profile is retried
		// after the next settings reset.
		log.Warn("startup hotspot setup failed", "error", err)
	}

	router := mgmtserver.NewRouter(&mgmtserver.RouterConfig{
		App:       app,
		Metrics:   metrics,
		Logger:    slogLogger,
		RateLimit: cfg.Server.Local.RateLimit,
		Burst:     cfg.Server.Local.Burst,
	})
	mgmt := mgmtserver.New(cfg.Server.Local.Path, router, slogLogger)
	if err := mgmt.Listen(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, slogLogger)

	// Hooks run in reverse order, so settings are flushed last.
	shutdownHandler.OnShutdown("settings", func(context.Context) error {
		return app.Flush()
	})

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, slogLogger)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	shutdownHandler.OnShutdown("mgmt-server", mgmt.Shutdown)
	shutdownHandler.OnShutdown("reconcile-loop", app.Stop)

	go func() {
		log.Info("management API listening", "socket", mgmt.Path())
		if err := mgmt.Serve(); err != nil {
			log.Error("management server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	go app.Run(ctx)

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// watchConfig reloads the log level when the config file changes. Other
// settings need a restart.
func watchConfig(path string, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}
