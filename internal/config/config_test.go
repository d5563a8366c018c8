package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithEnv(t *testing.T, env map[string]string) *Config {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "DATABASE_URL", "HTTP_BIND_ADDRESS", "HTTP_BASE_PATH",
		"SERVER_ENV", "PBKDF2_ITERATIONS", "SESSION_EXPIRATION_SECONDS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}
	LoadConfig()
	return AppConfig
}

func TestDefaults(t *testing.T) {
	cfg := loadWithEnv(t, nil)

	assert.Equal(t, "127.0.0.1:3000", cfg.Server.BindAddress)
	assert.Equal(t, "/", cfg.Server.BasePath)
	assert.Equal(t, int32(600_000), cfg.Auth.PBKDF2Iterations)
	assert.Equal(t, int64(2_592_000), cfg.Auth.SessionExpirationSeconds)
}

func TestEnvOverrides(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"DATABASE_URL":               "postgres://localhost/folio",
		"HTTP_BIND_ADDRESS":          "0.0.0.0:8080",
		"HTTP_BASE_PATH":             "/api",
		"SERVER_ENV":                 "dev",
		"PBKDF2_ITERATIONS":          "1000",
		"SESSION_EXPIRATION_SECONDS": "60",
	})

	assert.Equal(t, "postgres://localhost/folio", cfg.Database.DSN)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.BindAddress)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.Equal(t, int32(1000), cfg.Auth.PBKDF2Iterations)
	assert.Equal(t, int64(60), cfg.Auth.SessionExpirationSeconds)
}

func TestExplicitZeroExpirationKept(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"SESSION_EXPIRATION_SECONDS": "0",
	})
	assert.Equal(t, int64(0), cfg.Auth.SessionExpirationSeconds)
}

func TestConfigFileWithEnvWinning(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  bind_address: 10.0.0.1:9000\n  base_path: /from-file\ndatabase:\n  url: postgres://file-host/folio\n")
	require.NoError(t, os.WriteFile(configPath, content, 0o600))

	cfg := loadWithEnv(t, map[string]string{
		"CONFIG_PATH":    configPath,
		"HTTP_BASE_PATH": "/from-env",
	})

	assert.Equal(t, "10.0.0.1:9000", cfg.Server.BindAddress)
	assert.Equal(t, "postgres://file-host/folio", cfg.Database.DSN)
	// Environment beats the file.
	assert.Equal(t, "/from-env", cfg.Server.BasePath)
}
