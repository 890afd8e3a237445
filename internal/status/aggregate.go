package status

import (
	"time"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

// Category names one maintenance compliance category of an asset.
type Category string

const (
	CategoryTax      Category = "tax"
	CategoryMot      Category = "mot"
	CategoryService  Category = "service"
	CategoryCambelt  Category = "cambelt"
	CategoryFirstAid Category = "first_aid"
	CategoryLoler    Category = "loler"
)

// CategoryStatus pairs a category with its classification.
type CategoryStatus struct {
	Category Category `json:"category"`
	Check    Check    `json:"check"`
}

// Summary is the aggregated maintenance status of one asset. Categories
// that do not apply to the asset class are omitted entirely; not_set
// categories are present but never counted as overdue or due soon.
type Summary struct {
	Categories   []CategoryStatus `json:"categories"`
	OverdueCount int              `json:"overdue_count"`
	DueSoonCount int              `json:"due_soon_count"`
}

// ForAsset evaluates the categories that apply to the asset class.
func ForAsset(now time.Time, class models.AssetClass, rec models.MaintenanceRecord) Summary {
	if class == models.AssetClassPlant {
		return ForPlant(now, rec)
	}
	return ForVehicle(now, rec)
}

// ForVehicle evaluates tax, MOT, service, cambelt and first-aid-kit
// status for a road vehicle.
func ForVehicle(now time.Time, rec models.MaintenanceRecord) Summary {
	return summarize([]CategoryStatus{
		{Category: CategoryTax, Check: CheckDate(now, rec.TaxDueDate, TaxWarningDays)},
		{Category: CategoryMot, Check: CheckDate(now, rec.MotDueDate, MotWarningDays)},
		{Category: CategoryService, Check: CheckMetric(rec.CurrentMileage, rec.NextServiceMileage, ServiceWarningMiles, UnitMiles)},
		{Category: CategoryCambelt, Check: cambeltCheck(rec)},
		{Category: CategoryFirstAid, Check: CheckDate(now, rec.FirstAidKitExpiry, FirstAidWarningDays)},
	})
}

// ForPlant evaluates hours-based service and LOLER status for plant
// machinery. Plant has no tax, MOT, cambelt or first-aid categories.
func ForPlant(now time.Time, rec models.MaintenanceRecord) Summary {
	return summarize([]CategoryStatus{
		{Category: CategoryService, Check: CheckMetric(rec.CurrentHours, rec.NextServiceHours, ServiceWarningHours, UnitHours)},
		{Category: CategoryLoler, Check: CheckDate(now, rec.LolerDueDate, LolerWarningDays)},
	})
}

// cambeltCheck treats a cambelt marked done as satisfied regardless of
// the due mileage still recorded against it.
func cambeltCheck(rec models.MaintenanceRecord) Check {
	if rec.CambeltDone != nil && *rec.CambeltDone {
		return Check{State: StateOK, Unit: UnitMiles}
	}
	return CheckMetric(rec.CurrentMileage, rec.CambeltDueMileage, CambeltWarningMiles, UnitMiles)
}

func summarize(categories []CategoryStatus) Summary {
	s := Summary{Categories: categories}
	for _, c := range categories {
		switch c.Check.State {
		case StateOverdue:
			s.OverdueCount++
		case StateDueSoon:
			s.DueSoonCount++
		}
	}
	return s
}
