package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()

	t.Setenv("ENV", EnvDev)
	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("STORAGE_DRIVER", StorageDriverMemory)
}

func TestEnvReader_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTP.Port)
	}
	if cfg.JWT.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected default access token ttl, got %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.Calendar.Timezone != "UTC" {
		t.Fatalf("expected UTC calendar, got %q", cfg.Calendar.Timezone)
	}
	if !cfg.Seed.Enabled || cfg.Seed.Username != "admin" {
		t.Fatalf("unexpected seed config: %+v", cfg.Seed)
	}
}

func TestEnvReader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown env", env: map[string]string{"ENV": "staging"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{
			name: "postgres without credentials",
			env: map[string]string{
				"STORAGE_DRIVER":    StorageDriverPostgres,
				"POSTGRES_USERNAME": "",
				"POSTGRES_DATABASE": "",
			},
		},
		{name: "unknown timezone", env: map[string]string{"CALENDAR_TIMEZONE": "Mars/Olympus_Mons"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := NewEnvReader().Read()
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestFileReader(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageDriverSQLite)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: local
jwt:
  signing_key: from-file
storage:
  driver: memory
sqlite:
  path: /tmp/todos.db
calendar:
  timezone: Europe/Berlin
`
	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := NewFileReader(path).Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != EnvLocal || cfg.JWT.SigningKey != "from-file" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// The environment takes precedence over the file.
	if cfg.Storage.Driver != StorageDriverSQLite {
		t.Fatalf("expected driver from env, got %q", cfg.Storage.Driver)
	}
	if cfg.Calendar.Timezone != "Europe/Berlin" {
		t.Fatalf("unexpected timezone: %q", cfg.Calendar.Timezone)
	}
}
