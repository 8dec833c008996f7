package deps

import (
	"time"

	"github.com/alexander-kolodka/crestic-docs/internal/index"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	redisstore "github.com/alexander-kolodka/crestic-docs/internal/store/redis"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time   // for testing, defaults to time.Now
	AllowedHosts   []string           // Host headers allowed to access /reload
	AllowedCIDRS   []string           // IPs allowed to access internal endpoints
	TrustProxy     bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	OverridesFile  string             // Path to the theme overrides file, empty for built-in theme
	Store          *redisstore.Store  // Redis store, nil when redis is disabled
	MemoryIndex    *index.MemoryIndex // Current theme provider and feedback counters
	ThemeCacheTTL  time.Duration      // Lifetime of rendered themes in redis
	FeedbackBurst  int                // Feedback clicks per client IP within 10s
	FeedbackPerMin int                // Feedback clicks per client IP within a minute
	ReloadTrigger  chan struct{}      // Channel to trigger manual overrides reload
}

// Now returns the current time, honoring TimeNow.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
