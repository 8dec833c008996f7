package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/handlers"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/mw"
	"github.com/alexander-kolodka/crestic-docs/internal/metrics"
)

func init() { Register(registerFeedback) }

func registerFeedback(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.FeedbackBurst,
		PerMinute:  d.FeedbackPerMin,
		TrustProxy: d.TrustProxy,
		OnLimited:  func(*http.Request) { metrics.IncFeedbackRateLimited() },
	})
	r.With(limit).Get("/feedback", handlers.Feedback(d))

	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/api/feedback", handlers.FeedbackStats(d))
}
