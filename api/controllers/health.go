package controllers

import (
	"net/http"
	"time"

	"github.com/tilestudio-il/tilestudio-backend/api/responses"
	"github.com/tilestudio-il/tilestudio-backend/pkg/config"
)

// HealthCheck reports process health, version and uptime.
func HealthCheck(cfg *config.Config, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"status":      "healthy",
			"version":     cfg.App.Version,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.App.Env,
			"uptime":      time.Since(startedAt).Round(time.Second).String(),
		})
	}
}
