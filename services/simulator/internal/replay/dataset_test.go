package replay

import (
	"strings"
	"testing"

	"evcharge/libs/wire"
)

const header = "User ID;Vehicle Model;Battery Capacity (kWh);Charging Station ID;" +
	"Energy Consumed (kWh);Charging Duration (hours);Charging Rate (kW);Charging Cost (EUR);" +
	"Time of Day;Day of Week;State of Charge (Start %);State of Charge (End %);" +
	"Distance Driven (since last charge) (km);Temperature (C);Vehicle Age (years)"

func TestParseDataset(t *testing.T) {
	csv := header + "\n" +
		"User_1;Nissan Leaf;62,5;PT-EVS00042;41,37;1,258;50;18,93;Evening;Tuesday;21,4;87,6;154,2;-3,5;3\n" +
		"User_2;Tesla Model 3;75;PT-EVS00007;30.5;0.75;120;14.2;Morning;Friday;15;55;88;21;1\n"

	sessions, err := parseDataset(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	first := sessions[0]
	if first.UserID != "User_1" || first.StationID != "PT-EVS00042" {
		t.Fatalf("unexpected identifiers: %+v", first)
	}
	if first.BatteryCapacityKWh != 62.5 || first.EnergyConsumedKWh != 41.37 {
		t.Fatalf("decimal comma values not parsed: %+v", first)
	}
	if first.TemperatureC != -3.5 {
		t.Fatalf("negative temperature not preserved: %v", first.TemperatureC)
	}
	if first.VehicleAgeYears != 3 {
		t.Fatalf("vehicle age: %d", first.VehicleAgeYears)
	}
}

func TestParseDatasetDefaultsBlankCells(t *testing.T) {
	csv := header + "\n" +
		";;nan;;;;;;;;;;;;\n"

	sessions, err := parseDataset(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}

	s := sessions[0]
	if s.UserID != "Unknown" || s.VehicleModel != "Unknown" {
		t.Fatalf("expected Unknown fallbacks, got %+v", s)
	}
	if s.StationID == "" {
		t.Fatal("expected generated station id for blank cell")
	}
	if s.EnergyConsumedKWh != 0 || s.BatteryCapacityKWh != 0 {
		t.Fatalf("expected zero defaults, got %+v", s)
	}
}

func TestParseDatasetEveryRowEncodes(t *testing.T) {
	csv := header + "\n" +
		"User_1;Nissan Leaf;62,5;PT-EVS00042;41,37;1,258;50;18,93;Evening;Tuesday;-5;110;154,2;-3,5;3\n"

	sessions, err := parseDataset(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, s := range sessions {
		payload, err := wire.Encode(s)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if _, err := wire.Decode(payload); err != nil {
			t.Fatalf("dataset row does not survive the codec: %v", err)
		}
	}
}

func TestParseDatasetMissingColumn(t *testing.T) {
	csv := "User ID;Vehicle Model\nUser_1;Nissan Leaf\n"
	if _, err := parseDataset(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestParseDatasetStripsBOM(t *testing.T) {
	csv := "\uFEFF" + header + "\n" +
		"User_1;Nissan Leaf;62;PT-EVS00001;10;1;10;5;Morning;Monday;10;50;10;10;1\n"

	sessions, err := parseDataset(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sessions) != 1 || sessions[0].UserID != "User_1" {
		t.Fatalf("BOM header not handled: %+v", sessions)
	}
}
