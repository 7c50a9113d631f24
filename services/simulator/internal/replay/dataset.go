package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"evcharge/libs/wire"
)

// Dataset columns as exported by the offline EV charging dataset. The file is
// semicolon separated and may carry a UTF-8 BOM and decimal commas.
const (
	colUserID          = "User ID"
	colVehicleModel    = "Vehicle Model"
	colBatteryCapacity = "Battery Capacity (kWh)"
	colStationID       = "Charging Station ID"
	colEnergy          = "Energy Consumed (kWh)"
	colDuration        = "Charging Duration (hours)"
	colRate            = "Charging Rate (kW)"
	colCost            = "Charging Cost (EUR)"
	colTimeOfDay       = "Time of Day"
	colDayOfWeek       = "Day of Week"
	colSOCStart        = "State of Charge (Start %)"
	colSOCEnd          = "State of Charge (End %)"
	colDistance        = "Distance Driven (since last charge) (km)"
	colTemperature     = "Temperature (C)"
	colVehicleAge      = "Vehicle Age (years)"
)

var requiredColumns = []string{
	colUserID, colVehicleModel, colBatteryCapacity, colStationID,
	colEnergy, colDuration, colRate, colCost,
	colTimeOfDay, colDayOfWeek, colSOCStart, colSOCEnd,
	colDistance, colTemperature, colVehicleAge,
}

// LoadDataset reads the replay CSV into session records. Blank cells get the
// same defaults the offline dataset cleanup applies, so every returned record
// encodes successfully.
func LoadDataset(path string) ([]wire.ChargingSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open dataset: %w", err)
	}
	defer f.Close()

	return parseDataset(f)
}

func parseDataset(r io.Reader) ([]wire.ChargingSession, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("replay: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		index[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("replay: dataset missing column %q", col)
		}
	}

	var sessions []wire.ChargingSession
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("replay: row %d: %w", rowNum, err)
		}

		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		s := wire.ChargingSession{
			UserID:                stringOr(cell(colUserID), "Unknown"),
			VehicleModel:          stringOr(cell(colVehicleModel), "Unknown"),
			StationID:             stringOr(cell(colStationID), fmt.Sprintf("PT-EVS%05d", rowNum)),
			BatteryCapacityKWh:    parseNumber(cell(colBatteryCapacity)),
			VehicleAgeYears:       int(parseNumber(cell(colVehicleAge))),
			EnergyConsumedKWh:     parseNumber(cell(colEnergy)),
			ChargingDurationHours: parseNumber(cell(colDuration)),
			ChargingRateKW:        parseNumber(cell(colRate)),
			ChargingCostEUR:       parseNumber(cell(colCost)),
			TimeOfDay:             stringOr(cell(colTimeOfDay), "Unknown"),
			DayOfWeek:             stringOr(cell(colDayOfWeek), "Unknown"),
			StateOfChargeStartPct: clampPercent(parseNumber(cell(colSOCStart))),
			StateOfChargeEndPct:   clampPercent(parseNumber(cell(colSOCEnd))),
			DistanceDrivenKm:      parseNumber(cell(colDistance)),
			TemperatureC:          parseNumber(cell(colTemperature)),
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func stringOr(v, fallback string) string {
	if v == "" || strings.EqualFold(v, "nan") {
		return fallback
	}
	return v
}

// parseNumber handles European decimal commas; unparsable cells become 0,
// matching the dataset cleanup the offline pipeline performs.
func parseNumber(v string) float64 {
	if v == "" || strings.EqualFold(v, "nan") {
		return 0
	}
	v = strings.ReplaceAll(v, ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
