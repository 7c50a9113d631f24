package models

import "time"

// Overview holds the headline aggregates computed from the store.
type Overview struct {
	TotalSessions    int64   `json:"total_sessions"`
	TotalEnergyKWh   float64 `json:"total_energy_kwh"`
	TotalCostEUR     float64 `json:"total_cost_eur"`
	UniqueUsers      int64   `json:"unique_users"`
	UniqueStations   int64   `json:"unique_stations"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
}

// BucketStats is one group-by row (time of day, day of week or model).
type BucketStats struct {
	Bucket         string  `json:"bucket"`
	Sessions       int64   `json:"sessions"`
	TotalEnergyKWh float64 `json:"total_energy_kwh"`
	AvgEnergyKWh   float64 `json:"avg_energy_kwh"`
}

// StationStats is one per-station aggregate row.
type StationStats struct {
	StationID      string  `json:"station_id"`
	Sessions       int64   `json:"sessions"`
	TotalEnergyKWh float64 `json:"total_energy_kwh"`
	TotalCostEUR   float64 `json:"total_cost_eur"`
}

// DailyStats is one ingestion-day trend row.
type DailyStats struct {
	Date           string  `json:"date"`
	Sessions       int64   `json:"sessions"`
	TotalEnergyKWh float64 `json:"total_energy_kwh"`
	AvgEnergyKWh   float64 `json:"avg_energy_kwh"`
	TotalCostEUR   float64 `json:"total_cost_eur"`
	UniqueUsers    int64   `json:"unique_users"`
}

// RecentSession is one stored record as served to the dashboard.
type RecentSession struct {
	ID                    int64     `json:"id"`
	CreatedAt             time.Time `json:"created_at"`
	UserID                string    `json:"user_id"`
	StationID             string    `json:"station_id"`
	VehicleModel          string    `json:"vehicle_model"`
	EnergyConsumedKWh     float64   `json:"energy_consumed_kwh"`
	ChargingDurationHours float64   `json:"charging_duration_hours"`
	ChargingCostEUR       float64   `json:"charging_cost_eur"`
	TimeOfDay             string    `json:"time_of_day"`
	DayOfWeek             string    `json:"day_of_week"`
}
