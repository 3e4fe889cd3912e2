package main

import (
	"context"
	"net/http"
	"time"
)

// healthCheckHandler godoc
//
//	@Summary		Health check
//	@Description	Reports service status, version and database reachability
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	error
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
	}

	status := http.StatusOK
	if err := app.pinger.Ping(ctx); err != nil {
		app.logger.Errorw("health check: database unreachable", "error", err.Error())
		data["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	if err := app.jsonResponse(w, status, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
