// Package vehicledata merges the three sources of vehicle descriptive
// data (government register snapshot, MOT history snapshot, manual
// maintenance record) into one display record under a fixed per-field
// precedence.
package vehicledata

import (
	"strconv"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

// DisplayField names one field of the merged display record.
type DisplayField string

const (
	FieldMake           DisplayField = "make"
	FieldModel          DisplayField = "model"
	FieldColour         DisplayField = "colour"
	FieldYear           DisplayField = "year"
	FieldFuelType       DisplayField = "fuel_type"
	FieldFirstUsedDate  DisplayField = "first_used_date"
	FieldEngineCapacity DisplayField = "engine_capacity"
	FieldTaxStatus      DisplayField = "tax_status"
	FieldMotStatus      DisplayField = "mot_status"
	FieldCO2Emissions   DisplayField = "co2_emissions"
	FieldEuroStatus     DisplayField = "euro_status"
	FieldWheelplan      DisplayField = "wheelplan"
	FieldCurrentMileage DisplayField = "current_mileage"
	FieldTrackerID      DisplayField = "tracker_id"
	FieldNotes          DisplayField = "notes"
)

// Sources are the three optional inputs to the merge. Any of them may
// be nil.
type Sources struct {
	Register   *models.VehicleSnapshot
	MotHistory *models.MotHistorySnapshot
	Record     *models.MaintenanceRecord
}

// lookup reads one field from one source, reporting whether the source
// carries a value for it.
type lookup func(Sources) (string, bool)

// fieldLookups is the precedence table: per field, an ordered list of
// source lookups evaluated left to right, first hit wins. Precedence
// lives here as data rather than buried in fallback expressions.
var fieldLookups = map[DisplayField][]lookup{
	FieldMake: {
		func(s Sources) (string, bool) { return registerString(s, func(v *models.VehicleSnapshot) string { return v.Make }) },
		func(s Sources) (string, bool) { return motString(s, func(m *models.MotHistorySnapshot) string { return m.Make }) },
	},
	FieldColour: {
		func(s Sources) (string, bool) { return registerString(s, func(v *models.VehicleSnapshot) string { return v.Colour }) },
		func(s Sources) (string, bool) { return motString(s, func(m *models.MotHistorySnapshot) string { return m.Colour }) },
	},
	FieldYear: {
		func(s Sources) (string, bool) { return registerInt(s, func(v *models.VehicleSnapshot) int { return v.YearOfManufacture }) },
		func(s Sources) (string, bool) {
			if s.MotHistory == nil || s.MotHistory.ManufactureYear == 0 {
				return "", false
			}
			return strconv.Itoa(s.MotHistory.ManufactureYear), true
		},
	},
	FieldFuelType: {
		func(s Sources) (string, bool) { return registerString(s, func(v *models.VehicleSnapshot) string { return v.FuelType }) },
		func(s Sources) (string, bool) { return motString(s, func(m *models.MotHistorySnapshot) string { return m.FuelType }) },
	},
	FieldModel: {
		func(s Sources) (string, bool) { return motString(s, func(m *models.MotHistorySnapshot) string { return m.Model }) },
	},
	FieldFirstUsedDate: {
		func(s Sources) (string, bool) { return motString(s, func(m *models.MotHistorySnapshot) string { return m.FirstUsedDate }) },
	},
	FieldEngineCapacity: {
		func(s Sources) (string, bool) { return registerInt(s, func(v *models.VehicleSnapshot) int { return v.EngineCapacity }) },
	},
	FieldTaxStatus: {
		func(s Sources) (string, bool) { return registerString(s, func(v *models.VehicleSnapshot) string { return v.TaxStatus }) },
	},
	FieldMotStatus: {
		func(s Sources) (string, bool) { return registerString(s, func(v *models.VehicleSnapshot) string { return v.MotStatus }) },
	},
	FieldCO2Emissions: {
		func(s Sources) (string, bool) { return registerInt(s, func(v *models.VehicleSnapshot) int { return v.CO2Emissions }) },
	},
	FieldEuroStatus: {
		func(s Sources) (string, bool) { return registerString(s, func(v *models.VehicleSnapshot) string { return v.EuroStatus }) },
	},
	FieldWheelplan: {
		func(s Sources) (string, bool) { return registerString(s, func(v *models.VehicleSnapshot) string { return v.Wheelplan }) },
	},
	FieldCurrentMileage: {
		func(s Sources) (string, bool) {
			if s.Record == nil || s.Record.CurrentMileage == nil {
				return "", false
			}
			return strconv.Itoa(*s.Record.CurrentMileage), true
		},
	},
	FieldTrackerID: {
		func(s Sources) (string, bool) { return recordString(s, func(r *models.MaintenanceRecord) string { return r.TrackerID }) },
	},
	FieldNotes: {
		func(s Sources) (string, bool) { return recordString(s, func(r *models.MaintenanceRecord) string { return r.Notes }) },
	},
}

// Merge produces the merged display record. Fields with no value in any
// eligible source are absent from the result; the map never contains
// empty strings. Merging the same sources twice yields identical output.
func Merge(s Sources) map[DisplayField]string {
	out := make(map[DisplayField]string)
	for field, lookups := range fieldLookups {
		for _, fn := range lookups {
			if v, ok := fn(s); ok {
				out[field] = v
				break
			}
		}
	}
	return out
}

func registerString(s Sources, get func(*models.VehicleSnapshot) string) (string, bool) {
	if s.Register == nil {
		return "", false
	}
	v := get(s.Register)
	return v, v != ""
}

func registerInt(s Sources, get func(*models.VehicleSnapshot) int) (string, bool) {
	if s.Register == nil {
		return "", false
	}
	v := get(s.Register)
	if v == 0 {
		return "", false
	}
	return strconv.Itoa(v), true
}

func motString(s Sources, get func(*models.MotHistorySnapshot) string) (string, bool) {
	if s.MotHistory == nil {
		return "", false
	}
	v := get(s.MotHistory)
	return v, v != ""
}

func recordString(s Sources, get func(*models.MaintenanceRecord) string) (string, bool) {
	if s.Record == nil {
		return "", false
	}
	v := get(s.Record)
	return v, v != ""
}
