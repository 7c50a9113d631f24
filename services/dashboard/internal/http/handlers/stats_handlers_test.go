package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"evcharge/services/dashboard/internal/models"
)

type fakeStats struct {
	overview *models.Overview
	buckets  []models.BucketStats
	stations []models.StationStats
	days     []models.DailyStats
	recent   []models.RecentSession
	err      error

	lastLimit int
}

func (f *fakeStats) Overview(ctx context.Context) (*models.Overview, error) {
	return f.overview, f.err
}

func (f *fakeStats) ByTimeOfDay(ctx context.Context) ([]models.BucketStats, error) {
	return f.buckets, f.err
}

func (f *fakeStats) ByDayOfWeek(ctx context.Context) ([]models.BucketStats, error) {
	return f.buckets, f.err
}

func (f *fakeStats) ByVehicleModel(ctx context.Context) ([]models.BucketStats, error) {
	return f.buckets, f.err
}

func (f *fakeStats) TopStations(ctx context.Context, limit int) ([]models.StationStats, error) {
	f.lastLimit = limit
	return f.stations, f.err
}

func (f *fakeStats) DailyTrends(ctx context.Context) ([]models.DailyStats, error) {
	return f.days, f.err
}

func (f *fakeStats) RecentSessions(ctx context.Context, limit int) ([]models.RecentSession, error) {
	f.lastLimit = limit
	return f.recent, f.err
}

type fakeRecentCache struct {
	entries []json.RawMessage
	err     error
}

func (f *fakeRecentCache) List(ctx context.Context, limit int) ([]json.RawMessage, error) {
	return f.entries, f.err
}

func TestOverviewReturnsAggregates(t *testing.T) {
	source := &fakeStats{overview: &models.Overview{
		TotalSessions:  50,
		TotalEnergyKWh: 1234.5,
		UniqueUsers:    12,
	}}
	h := NewStatsHandlers(source, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Overview(rec, httptest.NewRequest(http.MethodGet, "/api/stats/overview", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.TotalSessions != 50 || got.TotalEnergyKWh != 1234.5 || got.UniqueUsers != 12 {
		t.Fatalf("unexpected overview: %+v", got)
	}
}

func TestOverviewQueryFailure(t *testing.T) {
	source := &fakeStats{err: errors.New("db gone")}
	h := NewStatsHandlers(source, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Overview(rec, httptest.NewRequest(http.MethodGet, "/api/stats/overview", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestBucketEndpointsReturnEmptyArrayNotNull(t *testing.T) {
	h := NewStatsHandlers(&fakeStats{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ByTimeOfDay(rec, httptest.NewRequest(http.MethodGet, "/api/stats/time-of-day", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestTopStationsClampsLimit(t *testing.T) {
	source := &fakeStats{}
	h := NewStatsHandlers(source, zap.NewNop())

	rec := httptest.NewRecorder()
	h.TopStations(rec, httptest.NewRequest(http.MethodGet, "/api/stats/stations/top?limit=5000", nil))

	if source.lastLimit != 100 {
		t.Fatalf("expected limit clamp to 100, got %d", source.lastLimit)
	}

	rec = httptest.NewRecorder()
	h.TopStations(rec, httptest.NewRequest(http.MethodGet, "/api/stats/stations/top?limit=junk", nil))
	if source.lastLimit != 10 {
		t.Fatalf("expected default limit 10 for bad input, got %d", source.lastLimit)
	}
}

func TestRecentHandlerPrefersCache(t *testing.T) {
	cache := &fakeRecentCache{entries: []json.RawMessage{json.RawMessage(`{"id":1}`)}}
	store := &fakeStats{recent: []models.RecentSession{{ID: 99}}}
	h := NewRecentHandler(cache, store, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/recent", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 1 || string(entries[0]) != `{"id":1}` {
		t.Fatalf("expected cached entry, got %v", entries)
	}
}

func TestRecentHandlerFallsBackToStore(t *testing.T) {
	cache := &fakeRecentCache{err: errors.New("redis down")}
	store := &fakeStats{recent: []models.RecentSession{{ID: 7, StationID: "PT-EVS00007"}}}
	h := NewRecentHandler(cache, store, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/recent", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var sessions []models.RecentSession
	if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != 7 {
		t.Fatalf("expected store fallback row, got %+v", sessions)
	}
}
