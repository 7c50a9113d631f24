package wire

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validSession() ChargingSession {
	return ChargingSession{
		UserID:                "User_7",
		StationID:             "PT-EVS00042",
		VehicleModel:          "Nissan Leaf",
		BatteryCapacityKWh:    62.5,
		VehicleAgeYears:       3,
		EnergyConsumedKWh:     41.37,
		ChargingDurationHours: 1.258,
		ChargingRateKW:        50.25,
		ChargingCostEUR:       18.93,
		TimeOfDay:             "Evening",
		DayOfWeek:             "Tuesday",
		StateOfChargeStartPct: 21.4,
		StateOfChargeEndPct:   87.6,
		DistanceDrivenKm:      154.2,
		TemperatureC:          -3.5,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := validSession()

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *out != in {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, *out)
	}
}

func TestEncodeStampsSchemaVersion(t *testing.T) {
	data, err := Encode(validSession())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var version string
	if err := json.Unmarshal(fields["schema_version"], &version); err != nil {
		t.Fatalf("schema_version: %v", err)
	}
	if version != SchemaVersion {
		t.Fatalf("expected version %q, got %q", SchemaVersion, version)
	}
	if _, ok := fields["id"]; ok {
		t.Fatal("store-assigned id must not be serialized")
	}
}

func TestDecodeMissingFieldNamesField(t *testing.T) {
	required := []string{
		"schema_version",
		"user_id",
		"station_id",
		"vehicle_model",
		"battery_capacity_kwh",
		"vehicle_age_years",
		"energy_consumed_kwh",
		"charging_duration_hours",
		"charging_rate_kw",
		"charging_cost_eur",
		"time_of_day",
		"day_of_week",
		"state_of_charge_start_pct",
		"state_of_charge_end_pct",
		"distance_driven_km",
		"temperature_c",
	}

	for _, field := range required {
		data, err := Encode(validSession())
		if err != nil {
			t.Fatalf("encode: %v", err)
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		delete(fields, field)
		stripped, err := json.Marshal(fields)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		_, err = Decode(stripped)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("field %s: expected DecodeError, got %v", field, err)
		}
		if decodeErr.Field != field {
			t.Fatalf("expected offending field %q, got %q", field, decodeErr.Field)
		}
		if decodeErr.Reason != "missing" {
			t.Fatalf("field %s: expected reason missing, got %q", field, decodeErr.Reason)
		}
	}
}

func TestDecodeRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ChargingSession)
		field  string
	}{
		{"negative energy", func(s *ChargingSession) { s.EnergyConsumedKWh = -5 }, "energy_consumed_kwh"},
		{"negative duration", func(s *ChargingSession) { s.ChargingDurationHours = -0.5 }, "charging_duration_hours"},
		{"negative rate", func(s *ChargingSession) { s.ChargingRateKW = -22 }, "charging_rate_kw"},
		{"negative cost", func(s *ChargingSession) { s.ChargingCostEUR = -1 }, "charging_cost_eur"},
		{"negative distance", func(s *ChargingSession) { s.DistanceDrivenKm = -10 }, "distance_driven_km"},
		{"negative capacity", func(s *ChargingSession) { s.BatteryCapacityKWh = -40 }, "battery_capacity_kwh"},
		{"negative age", func(s *ChargingSession) { s.VehicleAgeYears = -1 }, "vehicle_age_years"},
		{"soc start above 100", func(s *ChargingSession) { s.StateOfChargeStartPct = 101 }, "state_of_charge_start_pct"},
		{"soc end below 0", func(s *ChargingSession) { s.StateOfChargeEndPct = -0.1 }, "state_of_charge_end_pct"},
		{"empty station", func(s *ChargingSession) { s.StationID = "" }, "station_id"},
		{"empty model", func(s *ChargingSession) { s.VehicleModel = "" }, "vehicle_model"},
		{"empty user", func(s *ChargingSession) { s.UserID = "" }, "user_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSession()
			tc.mutate(&s)

			data, err := Encode(s)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}

			_, err = Decode(data)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if decodeErr.Field != tc.field {
				t.Fatalf("expected offending field %q, got %q", tc.field, decodeErr.Field)
			}
		})
	}
}

func TestDecodeAllowsSoftSanityViolations(t *testing.T) {
	// End below start is a soft check, not a decode failure.
	s := validSession()
	s.StateOfChargeStartPct = 80
	s.StateOfChargeEndPct = 40

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(data); err != nil {
		t.Fatalf("expected soft sanity violation to decode, got %v", err)
	}
}

func TestDecodeRejectsUnknownSchemaVersion(t *testing.T) {
	data, err := Encode(validSession())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	tampered := strings.Replace(string(data), SchemaVersion, "9.9", 1)

	_, err = Decode([]byte(tampered))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Field != "schema_version" {
		t.Fatalf("expected schema_version rejection, got field %q", decodeErr.Field)
	}
}

func TestDecodeRejectsTypeMismatch(t *testing.T) {
	payload := `{"schema_version":"1.0","user_id":"u","station_id":"s","vehicle_model":"m",` +
		`"battery_capacity_kwh":"sixty","vehicle_age_years":2,"energy_consumed_kwh":1,` +
		`"charging_duration_hours":1,"charging_rate_kw":1,"charging_cost_eur":1,` +
		`"time_of_day":"Morning","day_of_week":"Monday","state_of_charge_start_pct":10,` +
		`"state_of_charge_end_pct":20,"distance_driven_km":5,"temperature_c":15}`

	_, err := Decode([]byte(payload))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Field != "battery_capacity_kwh" || decodeErr.Reason != "not a number" {
		t.Fatalf("unexpected error: %v", decodeErr)
	}
}

func TestDecodeRejectsNonObjectPayloads(t *testing.T) {
	for _, payload := range []string{"", "not json", "[1,2,3]", `"text"`} {
		_, err := Decode([]byte(payload))
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("payload %q: expected DecodeError, got %v", payload, err)
		}
	}
}

func TestDecodeRejectsFractionalVehicleAge(t *testing.T) {
	data, err := Encode(validSession())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	tampered := strings.Replace(string(data), `"vehicle_age_years":3`, `"vehicle_age_years":3.5`, 1)

	_, err = Decode([]byte(tampered))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Field != "vehicle_age_years" {
		t.Fatalf("expected vehicle_age_years rejection, got %q", decodeErr.Field)
	}
}
