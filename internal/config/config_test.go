package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvPort, EnvJWTPassword, EnvDatabaseDSN, EnvTokenTTL} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, ":3000", cfg.Addr)
	require.True(t, cfg.UsesInsecureSecret())
	require.True(t, cfg.UsesMemoryStore())
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 5, cfg.LoginMaxFails)
}

func TestLoad_FlagsThenEnv(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-addr", "127.0.0.1:8080", "-jwt-key", "flagkey", "-dsn", "postgres://flag"})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8080", cfg.Addr)
	require.Equal(t, "flagkey", cfg.JWTSecret)
	require.False(t, cfg.UsesInsecureSecret())

	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvJWTPassword, "envkey")
	t.Setenv(EnvDatabaseDSN, "postgres://env")
	t.Setenv(EnvTokenTTL, "0s")
	cfg, err = Load([]string{"-addr", "127.0.0.1:8080", "-jwt-key", "flagkey"})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Addr)
	require.Equal(t, "envkey", cfg.JWTSecret)
	require.Equal(t, "postgres://env", cfg.DatabaseDSN)
	require.Equal(t, time.Duration(0), cfg.TokenTTL)
}

func TestLoad_BadValues(t *testing.T) {
	clearEnv(t)

	t.Setenv(EnvPort, "not-a-port")
	_, err := Load(nil)
	require.Error(t, err)

	t.Setenv(EnvPort, "")
	t.Setenv(EnvTokenTTL, "forever")
	_, err = Load(nil)
	require.Error(t, err)

	t.Setenv(EnvTokenTTL, "")
	_, err = Load([]string{"-jwt-key", ""})
	require.Error(t, err)

	_, err = Load([]string{"-unknown"})
	require.Error(t, err)
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_PASSWORD=fromfile\nPORT=4000\n"), 0o600))

	t.Chdir(dir)

	// godotenv skips variables that exist, even when empty
	require.NoError(t, os.Unsetenv(EnvJWTPassword))
	t.Setenv(EnvPort, "5000")
	LoadDotEnv()

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "fromfile", cfg.JWTSecret)
	require.Equal(t, ":5000", cfg.Addr)
}
