package mw

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/alexander-kolodka/crestic-docs/internal/utils"
)

// BurstWindow is the short window the burst limit applies to.
const BurstWindow = 10 * time.Second

type RateLimitConfig struct {
	Burst      int  // requests allowed per client IP within BurstWindow
	PerMinute  int  // requests allowed per client IP within a minute
	TrustProxy bool // resolve IP from proxy headers when true
	OnLimited  func(r *http.Request)
}

// RateLimit chains a burst window and a per-minute window, both sliding
// and keyed by client IP.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.PerMinute < 1 {
		cfg.PerMinute = 1
	}

	keyFunc := func(r *http.Request) (string, error) {
		return utils.ClientIP(r, cfg.TrustProxy), nil
	}

	burst := limit(cfg, cfg.Burst, BurstWindow, keyFunc)
	perMinute := limit(cfg, cfg.PerMinute, time.Minute, keyFunc)

	return func(next http.Handler) http.Handler {
		return burst(perMinute(next))
	}
}

func limit(cfg RateLimitConfig, n int, window time.Duration, keyFunc httprate.KeyFunc) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(window.Seconds()))
	return httprate.Limit(
		n,
		window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if cfg.OnLimited != nil {
				cfg.OnLimited(r)
			}
			w.Header().Set("Retry-After", retryAfter)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
}
