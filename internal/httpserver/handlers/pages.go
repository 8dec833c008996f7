package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

type titleResponse struct {
	Title string `json:"title"`
}

// Title formats the browser title of a page.
func Title(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := d.MemoryIndex.Provider().Config()
		writeJSON(w, http.StatusOK, titleResponse{
			Title: cfg.Title(r.URL.Query().Get("page")),
		})
	}
}

// Edit redirects to the "edit this page" link of the page path in the URL.
func Edit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pagePath := chi.URLParam(r, "*")

		target, err := d.MemoryIndex.Provider().Config().EditURL(pagePath)
		if err != nil {
			if errors.Is(err, theme.ErrInvalidPagePath) {
				writeError(w, http.StatusBadRequest, "invalid_page_path", err.Error())
				return
			}
			d.Logger.Error("failed to build edit url",
				logger.String("page", pagePath),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "edit_url_failed", "")
			return
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}
