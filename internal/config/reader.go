package config

import (
	"fmt"
	"time"
	// Calendar time zones must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// FileReader reads a YAML/TOML/JSON/.env file and falls back to the
// environment for fields the file does not set.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.path, cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Postgres.Username == "" || c.Postgres.Database == "" {
			return fmt.Errorf("postgres storage requires POSTGRES_USERNAME and POSTGRES_DATABASE")
		}
	case StorageDriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite storage requires SQLITE_PATH")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}

	_, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return fmt.Errorf("invalid calendar timezone: %w", err)
	}
	return nil
}
