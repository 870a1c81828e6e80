package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration read from the environment
type Config struct {
	Server    ServerConfig
	Corpus    CorpusConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            string
	GinMode         string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	EnableHSTS      bool
}

// CorpusConfig selects the benchmark corpus source. DBPath wins over
// FilePath; with neither set the embedded corpus is used.
type CorpusConfig struct {
	DBPath   string
	FilePath string
}

// CacheConfig configures the scoring result cache
type CacheConfig struct {
	TTL      time.Duration
	MaxItems int
}

// RedisConfig configures the optional Redis rate-limit backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig configures per-IP limits
type RateLimitConfig struct {
	PerMinute int
}

// Load reads configuration from the environment, loading a .env file first
// when one is present. envFiles overrides the default ".env".
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	var errs []string
	intVar := func(key string, def int) int {
		v, err := strconv.Atoi(getEnvOrDefault(key, strconv.Itoa(def)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := time.ParseDuration(getEnvOrDefault(key, def.String()))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8080"),
			GinMode:         getEnvOrDefault("GIN_MODE", "release"),
			AllowedOrigins:  splitList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
			RequestTimeout:  durationVar("REQUEST_TIMEOUT", 10*time.Second),
			ShutdownTimeout: durationVar("SHUTDOWN_TIMEOUT", 30*time.Second),
			EnableHSTS:      getEnvOrDefault("ENABLE_HSTS", "false") == "true",
		},
		Corpus: CorpusConfig{
			DBPath:   os.Getenv("CORPUS_DB"),
			FilePath: os.Getenv("CORPUS_FILE"),
		},
		Cache: CacheConfig{
			TTL:      durationVar("CACHE_TTL", 15*time.Minute),
			MaxItems: intVar("CACHE_MAX_ITEMS", 10000),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intVar("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			PerMinute: intVar("RATE_LIMIT_PER_MIN", 60),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", c.RateLimit.PerMinute)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if c.Cache.MaxItems < 0 {
		return fmt.Errorf("CACHE_MAX_ITEMS must not be negative")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

// CorpusSource names where the corpus will come from
func (c CorpusConfig) CorpusSource() string {
	switch {
	case c.DBPath != "":
		return "sqlite:" + c.DBPath
	case c.FilePath != "":
		return "file:" + c.FilePath
	default:
		return "embedded"
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
