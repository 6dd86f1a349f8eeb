package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"
)

// Config holds connection settings for the backing database. Connection and
// resource lifecycle belong to the caller owning the pool, not to the
// adapter.
type Config struct {
	Host            string        `envconfig:"POSTGRES_HOST" default:"postgres"`
	Port            uint          `envconfig:"POSTGRES_PORT" default:"5432"`
	Database        string        `envconfig:"POSTGRES_DATABASE" default:"filterkit"`
	Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres"`
	Password        string        `envconfig:"POSTGRES_PASSWORD" default:""`
	SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConnections  int           `envconfig:"POSTGRES_MAX_CONNECTIONS" default:"25"`
	MinConnections  int           `envconfig:"POSTGRES_MIN_CONNECTIONS" default:"5"`
	ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s"`
	MaxConnLifetime time.Duration `envconfig:"POSTGRES_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"POSTGRES_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ConfigFromEnv loads Config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse postgres configuration: %w", err)
	}

	return cfg, nil
}

// NewPool builds and pings a pgx connection pool from cfg.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
