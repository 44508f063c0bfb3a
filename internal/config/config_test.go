package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/dugout/internal/registry"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"REGISTRY_DATA_PATH", "LOG_OUTBOUND_URLS", "PROVIDER_API_KEYS", "FETCH_TIMEOUT", "FETCH_MODE",
		"BROWSER_MIN_INTERVAL", "REDIS_URL", "PAGE_CACHE_TTL", "COMMAND_STREAM", "REST_PORT", "WS_PORT",
		"COMMAND_RATE_LIMIT", "CORS_ALLOW_ORIGINS", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.RegistryDataPath)
	assert.False(t, cfg.LogOutboundURLs)
	assert.Empty(t, cfg.ProviderAPIKeys)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, FetchModeHTTP, cfg.FetchMode)
	assert.Equal(t, 2*time.Second, cfg.BrowserMinInterval)
	assert.Equal(t, time.Duration(0), cfg.PageCacheTTL)
	assert.Equal(t, "commands.mlb", cfg.CommandStream)
	assert.Equal(t, "8080", cfg.RESTPort)
	assert.Equal(t, "8081", cfg.WSPort)
	assert.Equal(t, 30, cfg.CommandRateLimit)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.RegistryFromDatabase())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("REGISTRY_DATA_PATH", "postgres://u:p@db/dugout")
	t.Setenv("LOG_OUTBOUND_URLS", "true")
	t.Setenv("PROVIDER_API_KEYS", "news-provider=abc, salary-provider = xyz")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("FETCH_MODE", "Browser")
	t.Setenv("PAGE_CACHE_TTL", "10m")
	t.Setenv("COMMAND_RATE_LIMIT", "5")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.RegistryFromDatabase())
	assert.True(t, cfg.LogOutboundURLs)
	assert.Equal(t, map[registry.Provider]string{
		registry.ProviderNews:   "abc",
		registry.ProviderSalary: "xyz",
	}, cfg.ProviderAPIKeys)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, FetchModeBrowser, cfg.FetchMode)
	assert.Equal(t, 10*time.Minute, cfg.PageCacheTTL)
	assert.Equal(t, 5, cfg.CommandRateLimit)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("FETCH_MODE", "carrier-pigeon")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "FETCH_MODE")

	t.Setenv("FETCH_MODE", "")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "LOG_LEVEL")
}

func TestParseAPIKeys(t *testing.T) {
	keys, err := ParseAPIKeys("")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = ParseAPIKeys("news-provider")
	assert.ErrorContains(t, err, "malformed")

	_, err = ParseAPIKeys("news-provider=")
	assert.ErrorContains(t, err, "malformed")

	_, err = ParseAPIKeys("fanfeedr=abc")
	assert.ErrorContains(t, err, "unknown provider")

	keys, err = ParseAPIKeys("news-provider=a=b")
	require.NoError(t, err)
	assert.Equal(t, "a=b", keys[registry.ProviderNews])
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadDotenv(filepath.Join(dir, "absent.env")))
	})

	t.Run("values are exported", func(t *testing.T) {
		t.Setenv("DUGOUT_DOTENV_TEST", "")
		os.Unsetenv("DUGOUT_DOTENV_TEST")
		path := filepath.Join(dir, "good.env")
		require.NoError(t, os.WriteFile(path, []byte("DUGOUT_DOTENV_TEST=from-file\n"), 0o600))

		require.NoError(t, loadDotenv(path))
		assert.Equal(t, "from-file", os.Getenv("DUGOUT_DOTENV_TEST"))
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := filepath.Join(dir, "bad.env")
		require.NoError(t, os.WriteFile(path, []byte("FOO=\"unterminated\n"), 0o600))

		err := loadDotenv(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.env")
	})
}

func TestLoad_MalformedDotenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FOO=\"unterminated\n"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	assert.ErrorContains(t, err, ".env")
}
