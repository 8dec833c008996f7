package handlers

import (
	"net/http"

	"github.com/alexander-kolodka/crestic-docs/internal/httpserver/deps"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	"github.com/alexander-kolodka/crestic-docs/internal/utils"
)

// Reload triggers a manual reload of the theme overrides
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteIP := utils.ClientIP(r, d.TrustProxy)

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual overrides reload triggered via endpoint",
				logger.String("remote_ip", remoteIP))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Reload triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("overrides reload already pending",
				logger.String("remote_ip", remoteIP))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
