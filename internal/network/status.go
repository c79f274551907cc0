// Package network - status.go
// Read-only HTTP status API: connected players and server uptime, for
// monitoring and ops dashboards.
package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emberreach/server/internal/platform/logger"
)

// StatusHandler serves basic liveness/status information over HTTP.
type StatusHandler struct {
	hub       *Hub
	logger    *logger.Logger
	startedAt time.Time
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(hub *Hub, log *logger.Logger, startedAt time.Time) *StatusHandler {
	return &StatusHandler{hub: hub, logger: log, startedAt: startedAt}
}

// HandleStatus returns connected-player count and uptime.
// GET /api/status
func (sh *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	connected := sh.hub.ConnectedPlayers()

	sh.jsonOK(w, map[string]interface{}{
		"connected_players": connected,
		"online_count":      len(connected),
		"uptime_seconds":    int(time.Since(sh.startedAt).Seconds()),
		"timestamp":         time.Now().Unix(),
	})
}

// RegisterRoutes sets up the status API routes.
func (sh *StatusHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", sh.HandleStatus)
}

func (sh *StatusHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (sh *StatusHandler) jsonOK(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
