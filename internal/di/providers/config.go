// Package providers contains dependency injection providers for the notes server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/logger"
)

// ProvideConfig returns a provider for an already loaded configuration. The
// server loads it from os.Args while the CLI builds its own from cobra flags.
func ProvideConfig(cfg *config.Config) do.Provider[*config.Config] {
	return func(do.Injector) (*config.Config, error) {
		return cfg, nil
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
		File: logger.FileConfig{
			Path:       cfg.Logger.File,
			MaxSizeMB:  cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAgeDays: cfg.Logger.MaxAgeDays,
			Compress:   true,
		},
	})

	log.Debug("logger configured",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"log_file", cfg.Logger.File,
		"data_path", cfg.Data.BasePath,
	)

	return log, nil
}
