package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Sync:   SyncConfig{RatePerMinute: 30},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"INFO", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_RejectsNegativeRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.RatePerMinute = -1

	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiresDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DATA_PATH", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SYNC_RATE_LIMIT", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30, cfg.Sync.RatePerMinute)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.SettleDelay)
	assert.Equal(t, filepath.Join(home, ".notes-server"), cfg.Data.BasePath)
	assert.Equal(t, filepath.Join(home, ".notes-server", "notes.db"), cfg.Data.DatabasePath())
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{
		"-port", "9100",
		"-data-path", t.TempDir(),
		"-env-file", filepath.Join(t.TempDir(), "missing.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("SYNC_RATE_LIMIT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("PUBLIC_BASE_URL", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# analyzer settings\nSYNC_RATE_LIMIT=5\nCORS_ORIGINS=\"http://localhost:5173, https://notes.example.com\"\nPUBLIC_BASE_URL=https://notes.example.com/\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	// loadEnvFile sets real env vars; register cleanup for them.
	t.Cleanup(func() {
		os.Unsetenv("SYNC_RATE_LIMIT")
		os.Unsetenv("CORS_ORIGINS")
		os.Unsetenv("PUBLIC_BASE_URL")
	})

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-env-file", envPath, "-data-path", dir})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sync.RatePerMinute)
	assert.Equal(t, []string{"http://localhost:5173", "https://notes.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://notes.example.com", cfg.Server.PublicBaseURL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	_, err := Load(fs, []string{
		"-read-timeout", "soon",
		"-data-path", t.TempDir(),
		"-env-file", filepath.Join(t.TempDir(), "missing.env"),
	})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/notes", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
	assert.Nil(t, splitList(""))
}
