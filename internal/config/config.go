package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	CacheRedis = "redis"
	CacheLocal = "local"
	CacheNone  = "none"

	MemoryDatabase = "memory"
)

type ClickHouse struct {
	Addr     string
	User     string
	Password string
	Database string
}

type Config struct {
	Port            string
	BaseURL         string
	DatabaseURL     string
	ShutdownTimeout time.Duration

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Retention     time.Duration
	StatsLocation *time.Location

	JWTSecret string
	TokenTTL  time.Duration

	ClickHouse    ClickHouse
	GeoIPPath     string
	TelegramToken string
	SentryDSN     string
	Environment   string

	LogLevel slog.Level
	LogFile  string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Error loading .env file", "error", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		BaseURL:       strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		DatabaseURL:   getEnv("DATABASE_URL", "file:shortener.db"),
		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheRedis)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		ClickHouse: ClickHouse{
			Addr:     getEnv("CLICKHOUSE_ADDR", ""),
			User:     getEnv("CLICKHOUSE_USER", "default"),
			Password: getEnv("CLICKHOUSE_PASSWORD", ""),
			Database: getEnv("CLICKHOUSE_DB", "default"),
		},
		GeoIPPath:     getEnv("GEOIP_DB", ""),
		TelegramToken: getEnv("TELEGRAM_API_TOKEN", ""),
		SentryDSN:     getEnv("SENTRY_DSN", ""),
		Environment:   getEnv("APP_ENV", "local"),
		LogFile:       getEnv("LOG_FILE", ""),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getEnvDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	days, err := getEnvInt("SHORTURL_EXPIRATION_DAYS", 30)
	if err != nil {
		return nil, err
	}
	cfg.Retention = time.Duration(days) * 24 * time.Hour

	if cfg.StatsLocation, err = time.LoadLocation(getEnv("STATS_TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("STATS_TIMEZONE: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	switch c.CacheBackend {
	case CacheRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis cache"))
		}
	case CacheLocal, CacheNone:
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q: want redis, local or none", c.CacheBackend))
	}
	if c.Retention < 0 {
		errs = append(errs, errors.New("SHORTURL_EXPIRATION_DAYS must not be negative"))
	}
	if c.GeoIPPath != "" && c.ClickHouse.Addr == "" {
		errs = append(errs, errors.New("GEOIP_DB needs CLICKHOUSE_ADDR"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
