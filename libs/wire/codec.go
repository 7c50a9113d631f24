package wire

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports why a payload was rejected and which field caused it.
// It is always permanent: the same bytes will never decode successfully later.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: field %q: %s", e.Field, e.Reason)
}

// Encode serializes a session for publishing, stamping the schema version.
func Encode(s ChargingSession) ([]byte, error) {
	type payload struct {
		SchemaVersion string `json:"schema_version"`
		ChargingSession
	}
	return json.Marshal(payload{SchemaVersion: SchemaVersion, ChargingSession: s})
}

// Decode parses and validates one payload. It has no side effects; on any
// missing field, type mismatch or out-of-range value it returns *DecodeError
// and nil session.
func Decode(data []byte) (*ChargingSession, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &DecodeError{Field: "payload", Reason: "not a JSON object"}
	}

	version, err := stringField(fields, "schema_version")
	if err != nil {
		return nil, err
	}
	if version != SchemaVersion {
		return nil, &DecodeError{
			Field:  "schema_version",
			Reason: fmt.Sprintf("unsupported version %q, want %q", version, SchemaVersion),
		}
	}

	s := &ChargingSession{}

	if s.UserID, err = nonEmptyStringField(fields, "user_id"); err != nil {
		return nil, err
	}
	if s.StationID, err = nonEmptyStringField(fields, "station_id"); err != nil {
		return nil, err
	}
	if s.VehicleModel, err = nonEmptyStringField(fields, "vehicle_model"); err != nil {
		return nil, err
	}
	if s.TimeOfDay, err = stringField(fields, "time_of_day"); err != nil {
		return nil, err
	}
	if s.DayOfWeek, err = stringField(fields, "day_of_week"); err != nil {
		return nil, err
	}

	if s.BatteryCapacityKWh, err = nonNegativeField(fields, "battery_capacity_kwh"); err != nil {
		return nil, err
	}
	if s.EnergyConsumedKWh, err = nonNegativeField(fields, "energy_consumed_kwh"); err != nil {
		return nil, err
	}
	if s.ChargingDurationHours, err = nonNegativeField(fields, "charging_duration_hours"); err != nil {
		return nil, err
	}
	if s.ChargingRateKW, err = nonNegativeField(fields, "charging_rate_kw"); err != nil {
		return nil, err
	}
	if s.ChargingCostEUR, err = nonNegativeField(fields, "charging_cost_eur"); err != nil {
		return nil, err
	}
	if s.DistanceDrivenKm, err = nonNegativeField(fields, "distance_driven_km"); err != nil {
		return nil, err
	}

	if s.StateOfChargeStartPct, err = percentField(fields, "state_of_charge_start_pct"); err != nil {
		return nil, err
	}
	if s.StateOfChargeEndPct, err = percentField(fields, "state_of_charge_end_pct"); err != nil {
		return nil, err
	}

	// Ambient temperature is the one quantity allowed to be negative.
	if s.TemperatureC, err = numberField(fields, "temperature_c"); err != nil {
		return nil, err
	}

	age, err := numberField(fields, "vehicle_age_years")
	if err != nil {
		return nil, err
	}
	if age != float64(int(age)) {
		return nil, &DecodeError{Field: "vehicle_age_years", Reason: "not an integer"}
	}
	if age < 0 {
		return nil, &DecodeError{Field: "vehicle_age_years", Reason: "negative value"}
	}
	s.VehicleAgeYears = int(age)

	return s, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", &DecodeError{Field: key, Reason: "missing"}
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &DecodeError{Field: key, Reason: "not a string"}
	}
	return v, nil
}

func nonEmptyStringField(fields map[string]json.RawMessage, key string) (string, error) {
	v, err := stringField(fields, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", &DecodeError{Field: key, Reason: "empty"}
	}
	return v, nil
}

func numberField(fields map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, &DecodeError{Field: key, Reason: "missing"}
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &DecodeError{Field: key, Reason: "not a number"}
	}
	return v, nil
}

func nonNegativeField(fields map[string]json.RawMessage, key string) (float64, error) {
	v, err := numberField(fields, key)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &DecodeError{Field: key, Reason: "negative value"}
	}
	return v, nil
}

func percentField(fields map[string]json.RawMessage, key string) (float64, error) {
	v, err := numberField(fields, key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 100 {
		return 0, &DecodeError{Field: key, Reason: "outside [0,100]"}
	}
	return v, nil
}
