package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"evcharge/services/dashboard/internal/models"
)

// StatsSource computes read-time aggregates from the store.
type StatsSource interface {
	Overview(ctx context.Context) (*models.Overview, error)
	ByTimeOfDay(ctx context.Context) ([]models.BucketStats, error)
	ByDayOfWeek(ctx context.Context) ([]models.BucketStats, error)
	ByVehicleModel(ctx context.Context) ([]models.BucketStats, error)
	TopStations(ctx context.Context, limit int) ([]models.StationStats, error)
	DailyTrends(ctx context.Context) ([]models.DailyStats, error)
}

// StatsHandlers serves aggregate endpoints.
type StatsHandlers struct {
	source StatsSource
	logger *zap.Logger
}

// NewStatsHandlers returns handler set.
func NewStatsHandlers(source StatsSource, logger *zap.Logger) *StatsHandlers {
	return &StatsHandlers{source: source, logger: logger}
}

// Overview handles GET /api/stats/overview.
func (h *StatsHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.source.Overview(r.Context())
	if err != nil {
		h.logger.Error("overview query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute overview")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// ByTimeOfDay handles GET /api/stats/time-of-day.
func (h *StatsHandlers) ByTimeOfDay(w http.ResponseWriter, r *http.Request) {
	h.buckets(w, r, h.source.ByTimeOfDay, "time of day")
}

// ByDayOfWeek handles GET /api/stats/day-of-week.
func (h *StatsHandlers) ByDayOfWeek(w http.ResponseWriter, r *http.Request) {
	h.buckets(w, r, h.source.ByDayOfWeek, "day of week")
}

// ByVehicleModel handles GET /api/stats/vehicle-models.
func (h *StatsHandlers) ByVehicleModel(w http.ResponseWriter, r *http.Request) {
	h.buckets(w, r, h.source.ByVehicleModel, "vehicle model")
}

func (h *StatsHandlers) buckets(w http.ResponseWriter, r *http.Request, query func(context.Context) ([]models.BucketStats, error), name string) {
	buckets, err := query(r.Context())
	if err != nil {
		h.logger.Error("bucket query failed", zap.String("group", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute "+name+" stats")
		return
	}
	if buckets == nil {
		buckets = []models.BucketStats{}
	}
	writeJSON(w, http.StatusOK, buckets)
}

// TopStations handles GET /api/stats/stations/top.
func (h *StatsHandlers) TopStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.source.TopStations(r.Context(), limitParam(r, 10, 100))
	if err != nil {
		h.logger.Error("top stations query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute station stats")
		return
	}
	if stations == nil {
		stations = []models.StationStats{}
	}
	writeJSON(w, http.StatusOK, stations)
}

// DailyTrends handles GET /api/stats/daily.
func (h *StatsHandlers) DailyTrends(w http.ResponseWriter, r *http.Request) {
	days, err := h.source.DailyTrends(r.Context())
	if err != nil {
		h.logger.Error("daily trends query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute daily trends")
		return
	}
	if days == nil {
		days = []models.DailyStats{}
	}
	writeJSON(w, http.StatusOK, days)
}
