// Package network - event_history.go
// Read-only HTTP API over the event log, for debugging and for
// building a reconnect recap client-side without replaying the whole
// WebSocket session.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/emberreach/server/internal/events"
	"github.com/emberreach/server/internal/platform/logger"
)

// EventHistoryHandler exposes the in-memory event log over HTTP.
type EventHistoryHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewEventHistoryHandler creates a new event history handler.
func NewEventHistoryHandler(el *events.EventLog, log *logger.Logger) *EventHistoryHandler {
	return &EventHistoryHandler{eventLog: el, logger: log}
}

// HistoryEntry is a sanitized event for public viewing.
type HistoryEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	ActorID   string `json:"actor_id"`
	TargetID  string `json:"target_id,omitempty"`
}

// HistoryResponse is the API response for an event history query.
type HistoryResponse struct {
	TotalEvents int            `json:"total_events"`
	FilteredBy  string         `json:"filtered_by,omitempty"`
	GeneratedAt string         `json:"generated_at"`
	Events      []HistoryEntry `json:"events"`
}

// HandleHistory returns the event history, optionally filtered.
// GET /api/events?actor_id=XXX&type=PLAYER_DIED&limit=100
func (h *EventHistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actorID := r.URL.Query().Get("actor_id")
	eventType := r.URL.Query().Get("type")
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	all := h.eventLog.Replay()
	var out []HistoryEntry
	filterDesc := ""

	for _, e := range all {
		if actorID != "" && e.ActorID != actorID && e.TargetID != actorID {
			continue
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		out = append(out, toHistoryEntry(e))
	}
	if actorID != "" {
		filterDesc = "actor_id=" + actorID
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}

	h.jsonOK(w, HistoryResponse{
		TotalEvents: len(out),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      out,
	})
}

// HandleStats returns aggregate counts per event type.
// GET /api/events/stats
func (h *EventHistoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := h.eventLog.Replay()
	stats := make(map[string]int)
	for _, e := range all {
		stats[string(e.Type)]++
	}

	h.jsonOK(w, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"total_events": len(all),
		"by_type":      stats,
	})
}

// RegisterRoutes sets up the event history API routes.
func (h *EventHistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/events", h.HandleHistory)
	mux.HandleFunc("/api/events/stats", h.HandleStats)
}

func toHistoryEntry(e events.GameEvent) HistoryEntry {
	return HistoryEntry{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Type:      string(e.Type),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
	}
}

func (h *EventHistoryHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *EventHistoryHandler) jsonOK(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
