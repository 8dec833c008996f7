package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexander-kolodka/crestic-docs/internal/domain"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/metrics"
)

// maxTitleLength bounds the page titles stored with feedback clicks.
const maxTitleLength = 200

// Feedback counts one click of the feedback link of a page and redirects to
// the feedback issue form.
func Feedback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, err := domain.NormalizePage(q.Get("page"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_page", err.Error())
			return
		}
		title := truncate(strings.TrimSpace(q.Get("title")), maxTitleLength)
		now := d.Now()

		record := d.MemoryIndex.RecordFeedback(page, title, now)
		metrics.IncFeedbackClick()
		metrics.RecordFeedbackPages(d.MemoryIndex.FeedbackCount())

		// Persist to Redis (best effort)
		if d.Store != nil {
			if err := d.Store.RecordFeedback(r.Context(), page, title, now); err != nil {
				d.Logger.Warn("failed to record feedback in redis",
					logger.String("page", page),
					logger.Error(err))
			}
		}

		d.Logger.Debug("feedback recorded",
			logger.String("page", page),
			logger.Int64("count", record.Count))

		target := d.MemoryIndex.Provider().Config().FeedbackURL(title)
		http.Redirect(w, r, target, http.StatusFound)
	}
}

type feedbackEntry struct {
	Page      string    `json:"page"`
	Title     string    `json:"title,omitempty"`
	Count     int64     `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

type feedbackStatsResponse struct {
	Pages  int             `json:"pages"`
	Clicks int64           `json:"clicks"`
	Top    []feedbackEntry `json:"top"`
}

// FeedbackStats lists the feedback counters, most clicked first. The
// optional limit parameter caps the list, totals always cover every page.
func FeedbackStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := -1
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		records := d.MemoryIndex.GetAllFeedback()
		resp := feedbackStatsResponse{
			Pages: len(records),
			Top:   make([]feedbackEntry, 0, len(records)),
		}
		for i, f := range records {
			resp.Clicks += f.Count
			if limit >= 0 && i >= limit {
				continue
			}
			resp.Top = append(resp.Top, feedbackEntry{
				Page:      f.Page,
				Title:     f.Title,
				Count:     f.Count,
				FirstSeen: f.FirstSeen,
				LastSeen:  f.LastSeen,
			})
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
