package handlers

import (
	"net/http"
	"time"
)

// Health is the unauthenticated liveness probe.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "lookbook",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
