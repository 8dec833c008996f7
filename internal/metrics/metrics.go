package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crestic_docs"

var (
	// HTTP
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Theme
	themeRenderTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "theme_render_total",
		Help:      "Theme documents served by format and cache outcome",
	}, []string{"format", "cache"}) // cache=hit|miss|disabled

	overridesReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "overrides_reload_total",
		Help:      "Overrides reloads by trigger and outcome",
	}, []string{"trigger", "outcome"}) // trigger=start|ticker|watch|manual, outcome=success|failure|unchanged

	overridesLastReload = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "overrides_last_reload_timestamp_seconds",
		Help:      "Unix time of the last successful overrides reload",
	})

	// Feedback
	feedbackClicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_clicks_total",
		Help:      "Total number of feedback link clicks",
	})

	feedbackPages = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feedback_pages",
		Help:      "Number of pages with feedback in memory",
	})

	feedbackPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_pruned_total",
		Help:      "Total number of stale feedback records pruned",
	})

	feedbackRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_rate_limited_total",
		Help:      "Feedback clicks rejected by the rate limiter",
	})
)

func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func IncThemeRender(format, cache string) { themeRenderTotal.WithLabelValues(format, cache).Inc() }

func RecordOverridesReload(trigger, outcome string, at time.Time) {
	overridesReloadTotal.WithLabelValues(trigger, outcome).Inc()
	if outcome != "failure" {
		overridesLastReload.Set(float64(at.Unix()))
	}
}

func IncFeedbackClick()         { feedbackClicksTotal.Inc() }
func RecordFeedbackPages(n int) { feedbackPages.Set(float64(n)) }
func AddFeedbackPruned(n int)   { feedbackPrunedTotal.Add(float64(n)) }
func IncFeedbackRateLimited()   { feedbackRateLimitedTotal.Inc() }
