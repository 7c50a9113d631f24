package repository

import (
	"context"
	"database/sql"

	"evcharge/libs/wire"
)

// SessionRepository persists charging session records.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert appends one session row. The store assigns id and created_at.
// Errors are wrapped in *Failure carrying the transient/permanent verdict.
func (r *SessionRepository) Insert(ctx context.Context, s *wire.ChargingSession) error {
	const query = `
		INSERT INTO charging_sessions (
			user_id, station_id, vehicle_model,
			battery_capacity_kwh, vehicle_age_years,
			energy_consumed_kwh, charging_duration_hours, charging_rate_kw, charging_cost_eur,
			time_of_day, day_of_week,
			state_of_charge_start_pct, state_of_charge_end_pct,
			distance_driven_km, temperature_c
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.UserID,
		s.StationID,
		s.VehicleModel,
		s.BatteryCapacityKWh,
		s.VehicleAgeYears,
		s.EnergyConsumedKWh,
		s.ChargingDurationHours,
		s.ChargingRateKW,
		s.ChargingCostEUR,
		s.TimeOfDay,
		s.DayOfWeek,
		s.StateOfChargeStartPct,
		s.StateOfChargeEndPct,
		s.DistanceDrivenKm,
		s.TemperatureC,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return classify(err)
	}
	return nil
}
