package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.ReloadInterval != time.Hour {
		t.Errorf("ReloadInterval = %v, want 1h", cfg.ReloadInterval)
	}
	if cfg.FeedbackTTL != 90*24*time.Hour {
		t.Errorf("FeedbackTTL = %v, want 2160h", cfg.FeedbackTTL)
	}
	if cfg.RedisEnabled() {
		t.Error("redis should be disabled without an address")
	}
	if cfg.OverridesFile != "" {
		t.Errorf("OverridesFile = %q, want empty", cfg.OverridesFile)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CRESTIC_DOCS_LISTEN_PORT", ":9090")
	t.Setenv("CRESTIC_DOCS_OVERRIDES_FILE", "/etc/crestic-docs/theme.yaml")
	t.Setenv("CRESTIC_DOCS_REDIS_ADDR", "localhost:6379")
	t.Setenv("CRESTIC_DOCS_ALLOWED_CIDRS", "10.0.0.0/8, '127.0.0.1'")
	t.Setenv("CRESTIC_DOCS_FEEDBACK_BURST", "3")
	t.Setenv("REDIS_POOL_SIZE", "20")

	cfg := Load()

	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.OverridesFile != "/etc/crestic-docs/theme.yaml" {
		t.Errorf("OverridesFile = %q", cfg.OverridesFile)
	}
	if !cfg.RedisEnabled() {
		t.Error("redis should be enabled")
	}
	if len(cfg.AllowedCIDRS) != 2 || cfg.AllowedCIDRS[1] != "127.0.0.1" {
		t.Errorf("AllowedCIDRS = %v", cfg.AllowedCIDRS)
	}
	if cfg.FeedbackBurst != 3 {
		t.Errorf("FeedbackBurst = %d, want 3", cfg.FeedbackBurst)
	}
	if cfg.RedisPoolSize != 20 {
		t.Errorf("RedisPoolSize = %d, want 20", cfg.RedisPoolSize)
	}
}

func TestLoadPanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("CRESTIC_DOCS_REDIS_ADDR", "localhost:6379")
	t.Setenv("CRESTIC_DOCS_REDIS_PASSWORD_REQUIRED", "true")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Load() should have panicked")
		}
		if !strings.Contains(r.(string), "REDIS_PASSWORD") {
			t.Errorf("panic = %v, want mention of REDIS_PASSWORD", r)
		}
	}()
	Load()
}

func TestValidate(t *testing.T) {
	base := Config{ReloadInterval: time.Hour, PruneInterval: time.Hour, FeedbackTTL: time.Hour}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero reload interval", mutate: func(c *Config) { c.ReloadInterval = 0 }},
		{name: "negative prune interval", mutate: func(c *Config) { c.PruneInterval = -time.Second }},
		{name: "zero feedback ttl", mutate: func(c *Config) { c.FeedbackTTL = 0 }},
		{name: "missing password", mutate: func(c *Config) {
			c.RedisAddr = "localhost:6379"
			c.RedisPasswordRequired = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "valid", value: "10s", expected: 10 * time.Second},
		{name: "invalid falls back", value: "soon", expected: 5 * time.Second},
		{name: "unset falls back", value: "", expected: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CRESTIC_DOCS_TEST_DURATION", tt.value)
			if got := mustDuration("TEST_DURATION", 5*time.Second); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true", value: "true", def: false, expected: true},
		{name: "numeric false", value: "0", def: true, expected: false},
		{name: "invalid falls back", value: "maybe", def: true, expected: true},
		{name: "unset falls back", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CRESTIC_DOCS_TEST_BOOL", tt.value)
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` a , "b",, 'c' `)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}
