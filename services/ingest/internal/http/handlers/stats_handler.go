package handlers

import (
	"net/http"

	"evcharge/services/ingest/internal/mqtt"
	"evcharge/services/ingest/internal/service"
)

// StatsHandler exposes pipeline counters and subscription state.
type StatsHandler struct {
	service    *service.IngestService
	subscriber *mqtt.Subscriber
}

// NewStatsHandler returns handler.
func NewStatsHandler(svc *service.IngestService, sub *mqtt.Subscriber) *StatsHandler {
	return &StatsHandler{service: svc, subscriber: sub}
}

// ServeHTTP handles GET /stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats := h.service.Stats()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscriber_state": h.subscriber.State().String(),
		"received":         stats.Received,
		"stored":           stats.Stored,
		"dropped":          stats.Dropped,
	})
}
