package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/metrics"
	"github.com/alexander-kolodka/crestic-docs/internal/theme/render"
)

// Theme serves the current theme configuration in the requested format.
// Renderings are cached in redis per format, year and provider revision.
func Theme(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := render.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_format", err.Error())
			return
		}

		provider := d.MemoryIndex.Provider()
		cfg, year := provider.Snapshot()
		revision := provider.Revision()

		etag := fmt.Sprintf(`"%s-%d-%s"`, revision, year, format)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		ctx := r.Context()
		cache := "disabled"
		var body []byte

		if d.Store != nil {
			cached, err := d.Store.GetCachedTheme(ctx, string(format), year, revision)
			if err != nil {
				d.Logger.Warn("theme cache lookup failed", logger.Error(err))
			}
			if cached != nil {
				body, cache = cached, "hit"
			} else {
				cache = "miss"
			}
		}

		if body == nil {
			var buf bytes.Buffer
			if err := render.Write(&buf, format, cfg); err != nil {
				d.Logger.Error("failed to render theme",
					logger.String("format", string(format)),
					logger.Error(err))
				writeError(w, http.StatusInternalServerError, "render_failed", "")
				return
			}
			body = buf.Bytes()

			if d.Store != nil {
				if err := d.Store.CacheTheme(ctx, string(format), year, revision, body, d.ThemeCacheTTL); err != nil {
					d.Logger.Warn("failed to cache theme", logger.Error(err))
				}
			}
		}

		metrics.IncThemeRender(string(format), cache)

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("X-Cache", cache)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
