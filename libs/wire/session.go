package wire

import "time"

// SchemaVersion tags every published payload. Decode rejects payloads carrying
// any other version instead of guessing at their layout.
const SchemaVersion = "1.0"

// ChargingSession is one observed charging event as carried on the wire.
// ID and CreatedAt are assigned by the store on insert and never serialized.
type ChargingSession struct {
	ID        int64     `json:"-"`
	CreatedAt time.Time `json:"-"`

	UserID       string `json:"user_id"`
	StationID    string `json:"station_id"`
	VehicleModel string `json:"vehicle_model"`

	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
	VehicleAgeYears    int     `json:"vehicle_age_years"`

	EnergyConsumedKWh     float64 `json:"energy_consumed_kwh"`
	ChargingDurationHours float64 `json:"charging_duration_hours"`
	ChargingRateKW        float64 `json:"charging_rate_kw"`
	ChargingCostEUR       float64 `json:"charging_cost_eur"`

	TimeOfDay string `json:"time_of_day"`
	DayOfWeek string `json:"day_of_week"`

	StateOfChargeStartPct float64 `json:"state_of_charge_start_pct"`
	StateOfChargeEndPct   float64 `json:"state_of_charge_end_pct"`

	DistanceDrivenKm float64 `json:"distance_driven_km"`
	TemperatureC     float64 `json:"temperature_c"`
}
