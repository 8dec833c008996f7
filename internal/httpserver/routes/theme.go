package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/handlers"
)

func init() { Register(registerTheme, middleware.SetHeader("X-Content-Type-Options", "nosniff")) }

func registerTheme(r chi.Router, d deps.Deps) {
	r.Get("/api/theme", handlers.Theme(d))
	r.Get("/api/title", handlers.Title(d))
	r.Get("/edit/*", handlers.Edit(d))
}
