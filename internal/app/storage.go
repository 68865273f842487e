package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-daily-todo/internal/config"
	"github.com/adanyl0v/go-daily-todo/internal/services"
	"github.com/adanyl0v/go-daily-todo/internal/storage/memory"
	"github.com/adanyl0v/go-daily-todo/internal/storage/postgres"
	"github.com/adanyl0v/go-daily-todo/internal/storage/sqlite"
)

type storage interface {
	services.UserRepository
	services.SessionRepository
	services.TaskRepository

	Migrate(ctx context.Context) error
	Close()
}

var globalStorage storage

func MustConnectStorage() {
	cfg := config.Global()

	var err error
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		globalStorage, err = connectPostgres(cfg.Postgres)
	case config.StorageDriverSQLite:
		globalStorage, err = connectSQLite(cfg.SQLite)
	case config.StorageDriverMemory:
		globalStorage = memory.New()
	default:
		err = fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Storage.Driver).
			Msg("failed to connect to storage")
		panic(err)
	}

	err = globalStorage.Migrate(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Storage.Driver).
			Msg("failed to migrate storage")
		panic(err)
	}
	globalLogger.Info().
		Str("driver", cfg.Storage.Driver).
		Msg("connected to storage")
}

func connectPostgres(cfg config.PostgresConfig) (*postgres.Storage, error) {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	globalLogger.Debug().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
	return postgres.New(pool), nil
}

func connectSQLite(cfg config.SQLiteConfig) (*sqlite.Storage, error) {
	dir := filepath.Dir(cfg.Path)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
	}

	s, err := sqlite.New(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	globalLogger.Debug().
		Str("path", cfg.Path).
		Msg("opened sqlite")
	return s, nil
}

// MustSeedStorage inserts the default user and a sample task
// into an empty storage when seeding is enabled.
func MustSeedStorage() {
	cfg := config.Global()
	if !cfg.Seed.Enabled {
		globalLogger.Debug().Msg("seeding disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := services.Seed(
		ctx,
		globalLogger,
		newAuthService(),
		globalStorage,
		globalStorage,
		mustNewCalendar(),
		services.SeedParams{
			Username: cfg.Seed.Username,
			Password: cfg.Seed.Password,
		},
	)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to seed storage")
		panic(err)
	}
}

func DisconnectStorage() {
	globalStorage.Close()
	globalLogger.Info().Msg("disconnected from storage")
}
