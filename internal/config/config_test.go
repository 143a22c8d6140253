package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"OMARA_ADDR", "OMARA_DB", "REDIS_ADDR", "REDIS_TTL", "OMARA_PROCESS_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 2, cfg.Processing.Workers)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OMARA_ADDR", "127.0.0.1:9000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_TTL", "30s")
	t.Setenv("OMARA_PROCESS_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 4, cfg.Processing.Workers)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("OMARA_PROCESS_WORKERS", "many")
	t.Setenv("REDIS_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidEnv)
	assert.Contains(t, err.Error(), "OMARA_PROCESS_WORKERS")
	assert.Contains(t, err.Error(), "REDIS_TTL")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OMARA_TEST_DOTENV=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("OMARA_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("OMARA_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
