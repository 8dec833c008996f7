package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	Site          string `json:"site,omitempty"`
	Revision      string `json:"revision,omitempty"`
	OverridesFile string `json:"overrides_file,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	PagesTracked  *int   `json:"pages_tracked,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"theme":    themeStatus(d),
			"feedback": feedbackStatus(d),
			"redis":    checkRedis(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func themeStatus(d deps.Deps) componentStatus {
	p := d.MemoryIndex.Provider()
	if p == nil {
		return componentStatus{OK: false, Error: "no provider"}
	}

	lastReload := "never"
	if t := d.MemoryIndex.GetLastReload(); !t.IsZero() {
		lastReload = t.Format("2006-01-02 15:04:05")
	}

	mode := "built-in"
	if d.OverridesFile != "" {
		mode = "overrides"
	}

	return componentStatus{
		OK:            true,
		Site:          p.Config().Logo.Plain(),
		Revision:      p.Revision(),
		OverridesFile: d.OverridesFile,
		LastReload:    lastReload,
		Mode:          mode,
	}
}

func feedbackStatus(d deps.Deps) componentStatus {
	pages := d.MemoryIndex.FeedbackCount()
	mode := "memory"
	if d.Store != nil {
		mode = "memory+redis"
	}
	return componentStatus{OK: true, PagesTracked: &pages, Mode: mode}
}

func determineStatus(components map[string]componentStatus) string {
	if t, exists := components["theme"]; exists && !t.OK {
		return "critical" // Nothing to serve
	}

	// Redis is optional but its absence loses counters on restart
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}

	return "ok"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "feedback-not-persisted,theme-cache-disabled",
			Error:  "not configured",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "feedback-not-persisted,theme-cache-disabled",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:   true,
		Mode: "optimal",
	}
}
