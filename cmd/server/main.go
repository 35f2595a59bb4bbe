package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rbt-academy/trainer/internal/api"
	"github.com/rbt-academy/trainer/internal/config"
	"github.com/rbt-academy/trainer/internal/factory"
	"github.com/rbt-academy/trainer/internal/services/account"
	"github.com/rbt-academy/trainer/internal/services/judge"
	"github.com/rbt-academy/trainer/internal/storage/postgres"
	redisstorage "github.com/rbt-academy/trainer/internal/storage/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultSources())
	if err != nil {
		return err
	}

	// Set up logging with JSON output
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("storage close failed", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AccountService: app.AccountService,
		StatsService:   app.StatsService,
		AdminService:   app.AdminService,
		Catalog:        app.Catalog,
		Guard:          app.Guard,
		Hub:            app.Hub,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	serverConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	server := api.NewServer(ctx, router, serverConfig, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Hub.Run()
		return nil
	})
	g.Go(func() error {
		if err := app.Watcher.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		app.Watcher.Stop()
		return nil
	})
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		// Closing the hub first ends open event streams so Shutdown does not wait on them
		app.Hub.Close()
		return server.Shutdown(context.Background())
	})

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.Bool("judge_available", app.Guard.Available()))

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func factoryConfig(cfg config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		SQLitePath:  cfg.Storage.SQLitePath,
		JudgeConfig: judge.Config{
			APIKey:  cfg.Judge.APIKey,
			Model:   cfg.Judge.Model,
			Timeout: cfg.Judge.Timeout,
		},
		AccountConfig: account.Config{
			AdminSecret:     cfg.Admin.Secret,
			AdminSecretHash: cfg.Admin.SecretHash,
		},
		WatchInterval: cfg.Registry.WatchInterval,
		ProfanityFile: cfg.ProfanityFile,
	}

	switch cfg.Storage.Type {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		redisCfg.KeyPrefix = cfg.Storage.RedisPrefix
		fc.RedisConfig = &redisCfg
	case config.StoragePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.DSN = cfg.Storage.PostgresDSN
		fc.PostgresConfig = &pgCfg
	}
	return fc
}
