package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "CRESTIC_DOCS_"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	OverridesFile  string        // optional theme overrides YAML, empty = built-in theme only
	ReloadInterval time.Duration // interval to reload the overrides file (default: 1h)
	ThemeCacheTTL  time.Duration // lifetime of rendered themes in redis (default: 24h)

	FeedbackTTL    time.Duration // feedback records unseen for this long are pruned (default: 90 days)
	PruneInterval  time.Duration // interval of the feedback pruner (default: 24h)
	FeedbackBurst  int           // feedback clicks allowed per client IP within 10s
	FeedbackPerMin int           // feedback clicks allowed per client IP within a minute

	// Redis, optional: an empty address keeps feedback counters in memory only
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool
	RedisDB               int
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisMaxWait          time.Duration // max wait between retries
	RedisPingTimeout      time.Duration // timeout for each ping attempt
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict /reload to specific Host headers
	AllowedCIDRS []string // optional, restrict internal endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

// RedisEnabled reports whether a redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LOG_LEVEL", "info"),
		PrettyLog: mustBool("PRETTY_LOG", true),

		// Theme
		OverridesFile:  getenv("OVERRIDES_FILE", ""),
		ReloadInterval: mustDuration("RELOAD_INTERVAL", time.Hour),
		ThemeCacheTTL:  mustDuration("THEME_CACHE_TTL", 24*time.Hour),

		// Feedback
		FeedbackTTL:    mustDuration("FEEDBACK_TTL", 90*24*time.Hour),
		PruneInterval:  mustDuration("PRUNE_INTERVAL", 24*time.Hour),
		FeedbackBurst:  getenvInt("FEEDBACK_BURST", 10),
		FeedbackPerMin: getenvInt("FEEDBACK_PER_MIN", 30),

		// Redis settings
		RedisAddr:             getenv("REDIS_ADDR", ""),
		RedisUser:             getenv("REDIS_USERNAME", ""),
		RedisPassword:         getenv("REDIS_PASSWORD", ""),
		RedisPasswordRequired: mustBool("REDIS_PASSWORD_REQUIRED", false),
		RedisDB:               getenvInt("REDIS_DB", 0),
		RedisDT:               mustDurationRaw("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDurationRaw("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDurationRaw("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDurationRaw("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDurationRaw("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvIntRaw("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDurationRaw("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDurationRaw("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvIntRaw("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.ReloadInterval <= 0 {
		return fmt.Errorf("%sRELOAD_INTERVAL must be > 0, got %v", envPrefix, c.ReloadInterval)
	}
	if c.PruneInterval <= 0 {
		return fmt.Errorf("%sPRUNE_INTERVAL must be > 0, got %v", envPrefix, c.PruneInterval)
	}
	if c.FeedbackTTL <= 0 {
		return fmt.Errorf("%sFEEDBACK_TTL must be > 0, got %v", envPrefix, c.FeedbackTTL)
	}
	if c.RedisEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("%sREDIS_PASSWORD is required when %sREDIS_PASSWORD_REQUIRED=true", envPrefix, envPrefix)
	}
	return nil
}

// helpers, all keys but the REDIS_* connector tunables carry the prefix
func getenv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	return getenvIntRaw(envPrefix+key, def)
}

func getenvIntRaw(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	return mustDurationRaw(envPrefix+key, def)
}

func mustDurationRaw(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
