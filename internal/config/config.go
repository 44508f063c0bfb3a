// Package config loads service settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/store"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

type Config struct {
	// Registry source: empty for the embedded dataset, a JSON file path, or a
	// postgres:// DSN.
	RegistryDataPath string
	LogOutboundURLs  bool
	ProviderAPIKeys  map[registry.Provider]string

	FetchTimeout       time.Duration
	FetchMode          string
	BrowserMinInterval time.Duration

	RedisURL      string
	PageCacheTTL  time.Duration
	CommandStream string

	RESTPort         string
	WSPort           string
	CommandRateLimit int // per client per minute
	CORSAllowOrigins []string

	LogLevel slog.Level
}

// Load reads .env (if any) and then the environment.
func Load() (Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// loadDotenv tolerates a missing file but not a malformed one.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// FromEnv reads the environment only.
func FromEnv() (Config, error) {
	keys, err := ParseAPIKeys(getEnv("PROVIDER_API_KEYS", ""))
	if err != nil {
		return Config{}, err
	}
	level, err := ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RegistryDataPath: getEnv("REGISTRY_DATA_PATH", ""),
		LogOutboundURLs:  getBool("LOG_OUTBOUND_URLS", false),
		ProviderAPIKeys:  keys,

		FetchTimeout:       getDuration("FETCH_TIMEOUT", 15*time.Second),
		FetchMode:          strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		BrowserMinInterval: getDuration("BROWSER_MIN_INTERVAL", 2*time.Second),

		RedisURL:      getEnv("REDIS_URL", ""),
		PageCacheTTL:  getDuration("PAGE_CACHE_TTL", 0),
		CommandStream: getEnv("COMMAND_STREAM", "commands.mlb"),

		RESTPort:         getEnv("REST_PORT", "8080"),
		WSPort:           getEnv("WS_PORT", "8081"),
		CommandRateLimit: getInt("COMMAND_RATE_LIMIT", 30),
		CORSAllowOrigins: getList("CORS_ALLOW_ORIGINS", []string{"*"}),

		LogLevel: level,
	}

	if cfg.FetchMode != FetchModeHTTP && cfg.FetchMode != FetchModeBrowser {
		return Config{}, fmt.Errorf("FETCH_MODE must be %q or %q, got %q", FetchModeHTTP, FetchModeBrowser, cfg.FetchMode)
	}
	return cfg, nil
}

// RegistryFromDatabase reports whether the registry should be read from Postgres.
func (c Config) RegistryFromDatabase() bool {
	return store.IsDSN(c.RegistryDataPath)
}

// ParseAPIKeys parses "provider=key,provider=key". Unknown providers are
// rejected so a typo doesn't silently leave a command keyless.
func ParseAPIKeys(s string) (map[registry.Provider]string, error) {
	keys := make(map[registry.Provider]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, key, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("PROVIDER_API_KEYS: malformed entry %q", pair)
		}
		p := registry.Provider(strings.TrimSpace(name))
		if !registry.IsKnownProvider(p) {
			return nil, fmt.Errorf("PROVIDER_API_KEYS: unknown provider %q", name)
		}
		keys[p] = strings.TrimSpace(key)
	}
	return keys, nil
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
