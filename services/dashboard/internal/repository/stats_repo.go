package repository

import (
	"context"
	"database/sql"

	"evcharge/services/dashboard/internal/models"
)

// StatsRepository computes aggregates from the session table at read time.
// Nothing is cached in process: every call reflects the latest committed rows.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository returns repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns the headline aggregates.
func (r *StatsRepository) Overview(ctx context.Context) (*models.Overview, error) {
	const query = `
		SELECT
			COUNT(*),
			COALESCE(SUM(energy_consumed_kwh), 0),
			COALESCE(SUM(charging_cost_eur), 0),
			COUNT(DISTINCT user_id),
			COUNT(DISTINCT station_id),
			COALESCE(AVG(charging_duration_hours), 0)
		FROM charging_sessions
	`
	var o models.Overview
	err := r.db.QueryRowContext(ctx, query).Scan(
		&o.TotalSessions,
		&o.TotalEnergyKWh,
		&o.TotalCostEUR,
		&o.UniqueUsers,
		&o.UniqueStations,
		&o.AvgDurationHours,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ByTimeOfDay groups sessions by time-of-day bucket.
func (r *StatsRepository) ByTimeOfDay(ctx context.Context) ([]models.BucketStats, error) {
	const query = `
		SELECT time_of_day, COUNT(*), COALESCE(SUM(energy_consumed_kwh), 0), COALESCE(AVG(energy_consumed_kwh), 0)
		FROM charging_sessions
		GROUP BY time_of_day
		ORDER BY COUNT(*) DESC
	`
	return r.bucketQuery(ctx, query)
}

// ByDayOfWeek groups sessions by day of week.
func (r *StatsRepository) ByDayOfWeek(ctx context.Context) ([]models.BucketStats, error) {
	const query = `
		SELECT day_of_week, COUNT(*), COALESCE(SUM(energy_consumed_kwh), 0), COALESCE(AVG(energy_consumed_kwh), 0)
		FROM charging_sessions
		GROUP BY day_of_week
		ORDER BY COUNT(*) DESC
	`
	return r.bucketQuery(ctx, query)
}

// ByVehicleModel groups sessions by vehicle model.
func (r *StatsRepository) ByVehicleModel(ctx context.Context) ([]models.BucketStats, error) {
	const query = `
		SELECT vehicle_model, COUNT(*), COALESCE(SUM(energy_consumed_kwh), 0), COALESCE(AVG(energy_consumed_kwh), 0)
		FROM charging_sessions
		GROUP BY vehicle_model
		ORDER BY COUNT(*) DESC
	`
	return r.bucketQuery(ctx, query)
}

func (r *StatsRepository) bucketQuery(ctx context.Context, query string) ([]models.BucketStats, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []models.BucketStats
	for rows.Next() {
		var b models.BucketStats
		if err := rows.Scan(&b.Bucket, &b.Sessions, &b.TotalEnergyKWh, &b.AvgEnergyKWh); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

// TopStations returns the busiest stations.
func (r *StatsRepository) TopStations(ctx context.Context, limit int) ([]models.StationStats, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT station_id, COUNT(*), COALESCE(SUM(energy_consumed_kwh), 0), COALESCE(SUM(charging_cost_eur), 0)
		FROM charging_sessions
		GROUP BY station_id
		ORDER BY COUNT(*) DESC, station_id
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.StationStats
	for rows.Next() {
		var s models.StationStats
		if err := rows.Scan(&s.StationID, &s.Sessions, &s.TotalEnergyKWh, &s.TotalCostEUR); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// DailyTrends returns one row per ingestion day.
func (r *StatsRepository) DailyTrends(ctx context.Context) ([]models.DailyStats, error) {
	const query = `
		SELECT
			TO_CHAR(created_at::date, 'YYYY-MM-DD'),
			COUNT(*),
			COALESCE(SUM(energy_consumed_kwh), 0),
			COALESCE(AVG(energy_consumed_kwh), 0),
			COALESCE(SUM(charging_cost_eur), 0),
			COUNT(DISTINCT user_id)
		FROM charging_sessions
		GROUP BY created_at::date
		ORDER BY created_at::date
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.DailyStats
	for rows.Next() {
		var d models.DailyStats
		if err := rows.Scan(&d.Date, &d.Sessions, &d.TotalEnergyKWh, &d.AvgEnergyKWh, &d.TotalCostEUR, &d.UniqueUsers); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// RecentSessions returns the newest rows, used as a fallback when the redis
// cache is unavailable.
func (r *StatsRepository) RecentSessions(ctx context.Context, limit int) ([]models.RecentSession, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, created_at, user_id, station_id, vehicle_model,
			energy_consumed_kwh, charging_duration_hours, charging_cost_eur,
			time_of_day, day_of_week
		FROM charging_sessions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.RecentSession
	for rows.Next() {
		var s models.RecentSession
		if err := rows.Scan(
			&s.ID,
			&s.CreatedAt,
			&s.UserID,
			&s.StationID,
			&s.VehicleModel,
			&s.EnergyConsumedKWh,
			&s.ChargingDurationHours,
			&s.ChargingCostEUR,
			&s.TimeOfDay,
			&s.DayOfWeek,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
