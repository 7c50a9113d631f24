package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"evcharge/services/dashboard/internal/models"
)

// RecentCache is the redis-backed fast path for recent sessions.
type RecentCache interface {
	List(ctx context.Context, limit int) ([]json.RawMessage, error)
}

// RecentStore is the store fallback.
type RecentStore interface {
	RecentSessions(ctx context.Context, limit int) ([]models.RecentSession, error)
}

// RecentHandler serves GET /api/sessions/recent. It prefers the cache and
// falls back to the store when the cache is missing, empty or failing.
type RecentHandler struct {
	cache  RecentCache
	store  RecentStore
	logger *zap.Logger
}

// NewRecentHandler returns handler. cache may be nil.
func NewRecentHandler(cache RecentCache, store RecentStore, logger *zap.Logger) *RecentHandler {
	return &RecentHandler{cache: cache, store: store, logger: logger}
}

// ServeHTTP handles the request.
func (h *RecentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, 20, 100)

	if h.cache != nil {
		entries, err := h.cache.List(r.Context(), limit)
		if err != nil {
			h.logger.Warn("recent session cache read failed", zap.Error(err))
		} else if len(entries) > 0 {
			writeJSON(w, http.StatusOK, entries)
			return
		}
	}

	sessions, err := h.store.RecentSessions(r.Context(), limit)
	if err != nil {
		h.logger.Error("recent sessions query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load recent sessions")
		return
	}
	if sessions == nil {
		sessions = []models.RecentSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}
