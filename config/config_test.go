package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, CheckConfig(cfg))
	assert.Equal(t, "info", cfg.Log.LogLevel)
	assert.Equal(t, 0, cfg.Pool.Workers)
	assert.Equal(t, "leveldb", cfg.Datastore.DBType)
}

func TestCheckConfig(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Config)
		valid bool
		msg   string
	}{
		{"missing sections", func(c *Config) { c.Log, c.Pool, c.Datastore = nil, nil, nil }, true, ""},
		{"empty level", func(c *Config) { c.Log.LogLevel = "" }, true, ""},
		{"bad level", func(c *Config) { c.Log.LogLevel = "loud" }, false, `invalid log level "loud"`},
		{"negative workers", func(c *Config) { c.Pool.Workers = -1 }, false, "workers must be within [0, 1024], got -1"},
		{"too many workers", func(c *Config) { c.Pool.Workers = MaxWorkers + 1 }, false, "workers must be within [0, 1024], got 1025"},
		{"negative cache", func(c *Config) { c.Pool.CacheEntries = -1 }, false, "cache entries cannot be negative, got -1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.apply(cfg)
			err := CheckConfig(cfg)
			if test.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, test.msg, err.Error())
			// errors carry the stack of the failing check
			assert.Contains(t, fmt.Sprintf("%+v", err), "config.CheckConfig")
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir, err := os.MkdirTemp("", "sha2-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, DefaultConfigFilename)
	require.NoError(t, os.WriteFile(file, []byte(`{"pool":{"workers":3},"log":{"log_level":"debug"}}`), 0600))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Pool.Workers)
	assert.Equal(t, "debug", cfg.Log.LogLevel)
	assert.Equal(t, defaultCacheEntries, cfg.Pool.CacheEntries)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestAppDataDir(t *testing.T) {
	assert.Equal(t, ".", appDataDir("linux", "", false))
	assert.Equal(t, ".", appDataDir("linux", ".", false))
	if home := homeDir(); home != "" {
		assert.Equal(t, filepath.Join(home, ".sha2sum"), appDataDir("linux", "sha2sum", false))
		assert.Equal(t, filepath.Join(home, "Library", "Application Support", "Sha2sum"),
			appDataDir("darwin", ".sha2sum", false))
	}
}

func TestCleanAndExpandPath(t *testing.T) {
	assert.Equal(t, "", CleanAndExpandPath(""))
	assert.Equal(t, "a/b", CleanAndExpandPath("a//b/"))
	os.Setenv("SHA2_TEST_DIR", "/tmp/sha2")
	defer os.Unsetenv("SHA2_TEST_DIR")
	assert.Equal(t, "/tmp/sha2/db", CleanAndExpandPath("$SHA2_TEST_DIR/db"))
}
