package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/handlers"
	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/mw"
)

func init() { Register(registerProbes) }

// registerProbes wires liveness (open) and readiness/infra (CIDR restricted).
func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	internal := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	internal.Get("/readyz", handlers.Readyz(d))
	internal.Get("/infra", handlers.Infra(d))
}
