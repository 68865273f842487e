package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-daily-todo/internal/config"
)

// MustReadConfig reads the config from the file at path, or from the
// environment alone when path is empty.
func MustReadConfig(path string) {
	var reader config.Reader = config.NewEnvReader()
	if path != "" {
		reader = config.NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("read config")

	config.SetGlobal(cfg)
}
