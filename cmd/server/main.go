package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"urlshortener/internal/auth"
	"urlshortener/internal/bot"
	"urlshortener/internal/cache"
	"urlshortener/internal/config"
	"urlshortener/internal/database"
	"urlshortener/internal/service"
)

type appStore interface {
	service.Store
	bot.Accounts
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg.LogLevel, cfg.LogFile)
	defer closeLog()
	slog.SetDefault(logger)
	slog.Info("Starting URL shortener service...", "port", cfg.Port, "env", cfg.Environment)

	if err := run(cfg); err != nil {
		slog.Error("Service stopped with error", "error", err)
		closeLog()
		os.Exit(1)
	}
}

// app is everything run starts and later tears down.
type app struct {
	store     appStore
	shortener *service.Shortener
	server    *service.Server
	analytics *database.Analytics
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp opens the store and cache and wires them behind the HTTP server.
// Only the store is required to be reachable.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	store, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, func() { _ = store.Close() })

	urlCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.closers = append(a.closers, closeCache)

	a.shortener = service.NewShortener(store, urlCache, service.Options{
		Retention: cfg.Retention,
		Location:  cfg.StatsLocation,
	})

	var sink service.ClickSink
	if cfg.ClickHouse.Addr != "" {
		analytics, err := database.ConnectClickHouse(database.ClickHouseConfig{
			Addr:      cfg.ClickHouse.Addr,
			User:      cfg.ClickHouse.User,
			Password:  cfg.ClickHouse.Password,
			Database:  cfg.ClickHouse.Database,
			GeoIPPath: cfg.GeoIPPath,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		a.analytics = analytics
		a.closers = append(a.closers, func() { _ = analytics.Close() })
		sink = analytics
	}

	a.server = service.NewServer(cfg.Port, cfg.BaseURL, a.shortener, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), sink)
	a.server.SetShutdownTimeout(cfg.ShutdownTimeout)
	a.server.AddHealthCheck("store", store, true)
	if p, ok := urlCache.(service.Pinger); ok {
		a.server.AddHealthCheck("cache", p, false)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: 0.2,
		}); err != nil {
			slog.Warn("Sentry initialization failed", "error", err)
		} else {
			a.closers = append(a.closers, func() { sentry.Flush(2 * time.Second) })
			a.server.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
		}
	}

	return a, nil
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// The analytics worker outlives the HTTP server so clicks pushed by
	// in-flight requests during shutdown are still flushed.
	analyticsCtx, stopAnalytics := context.WithCancel(context.Background())
	defer stopAnalytics()
	if a.analytics != nil {
		a.analytics.Start(analyticsCtx)
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- a.server.Start(ctx) }()

	var botErr chan error
	if cfg.TelegramToken != "" {
		tgBot, err := bot.NewTelegramBot(cfg.TelegramToken, cfg.BaseURL, a.store, a.shortener)
		if err != nil {
			stop()
			<-serverErr
			return fmt.Errorf("init bot: %w", err)
		}
		botErr = make(chan error, 1)
		go func() { botErr <- tgBot.Start(ctx) }()
	}

	slog.Info("Service is up and running!")

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case runErr = <-serverErr:
		serverErr = nil
	case err := <-botErr:
		botErr = nil
		if err != nil {
			slog.Error("Bot stopped with error", "error", err)
		}
	}

	slog.Info("Shutting down gracefully...")
	stop()
	if serverErr != nil {
		runErr = <-serverErr
	}
	if botErr != nil {
		if err := <-botErr; err != nil {
			slog.Error("Bot stopped with error", "error", err)
		}
	}

	if a.analytics != nil {
		stopAnalytics()
		<-a.analytics.Done()
	}
	return runErr
}

func openStore(ctx context.Context, url string) (appStore, error) {
	if url == config.MemoryDatabase {
		slog.Warn("Using in-memory store, data will not survive a restart")
		return database.NewMemoryStore(), nil
	}
	return database.Open(ctx, url)
}

// openCache never fails on an unreachable Redis: the service runs against the
// store alone and the client reconnects once Redis is back.
func openCache(ctx context.Context, cfg *config.Config) (service.Cache, func(), error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		c := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx); err != nil {
			slog.Warn("Redis unreachable, serving from the database until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		return c, func() { _ = c.Close() }, nil
	case config.CacheLocal:
		c, err := cache.NewLocalCache(cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
