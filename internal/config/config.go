package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Feed     FeedConfig
	Log      LogConfig
}

type AppConfig struct {
	Name        string
	Environment string
	HTTPPort    string
}

type StoreConfig struct {
	// Driver selects the persistence backend: postgres for real deployments,
	// memory for DB-less local development.
	Driver string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	PoolMaxConns int32
	PoolMinConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type AuthConfig struct {
	Enabled         bool
	AccessSecret    string
	AccessExpiresIn time.Duration
	// DefaultUserID scopes connections when auth is disabled.
	DefaultUserID string
}

type FeedConfig struct {
	URL      string
	CacheTTL time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errInvalidConfig = errors.New("invalid configuration")

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "referral-radar")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "referral_radar")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_POOL_MAX_CONNS", 8)
	v.SetDefault("DB_POOL_MIN_CONNS", 0)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("AUTH_ACCESS_SECRET", "")
	v.SetDefault("AUTH_ACCESS_TTL", "24h")
	v.SetDefault("AUTH_DEFAULT_USER_ID", "current_user")

	v.SetDefault("FEED_URL", "https://raw.githubusercontent.com/SimplifyJobs/Summer2026-Internships/dev/.github/scripts/listings.json")
	v.SetDefault("FEED_CACHE_TTL", "10m")

	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)

	cfg := Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENV"),
			HTTPPort:    v.GetString("HTTP_PORT"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			PoolMaxConns: v.GetInt32("DB_POOL_MAX_CONNS"),
			PoolMinConns: v.GetInt32("DB_POOL_MIN_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			Enabled:         v.GetBool("AUTH_ENABLED"),
			AccessSecret:    v.GetString("AUTH_ACCESS_SECRET"),
			AccessExpiresIn: v.GetDuration("AUTH_ACCESS_TTL"),
			DefaultUserID:   v.GetString("AUTH_DEFAULT_USER_ID"),
		},
		Feed: FeedConfig{
			URL:      v.GetString("FEED_URL"),
			CacheTTL: v.GetDuration("FEED_CACHE_TTL"),
		},
		Log: LogConfig{
			JSON:  v.GetBool("LOG_JSON"),
			Debug: v.GetBool("LOG_DEBUG"),
		},
	}

	if cfg.Store.Driver != StoreDriverPostgres && cfg.Store.Driver != StoreDriverMemory {
		return Config{}, fmt.Errorf("%w: unknown STORE_DRIVER %q", errInvalidConfig, cfg.Store.Driver)
	}
	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.AccessSecret) == "" {
		return Config{}, fmt.Errorf("%w: AUTH_ENABLED requires AUTH_ACCESS_SECRET", errInvalidConfig)
	}
	if strings.TrimSpace(cfg.Feed.URL) == "" {
		return Config{}, fmt.Errorf("%w: FEED_URL must not be empty", errInvalidConfig)
	}

	return cfg, nil
}
