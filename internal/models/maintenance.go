package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceRecord holds the maintenance thresholds and readings for one
// asset. Every threshold is independently nullable: a nil field means the
// threshold was never set, which is a distinct state from "not due".
// Records are created on first data entry for an asset, mutated only
// through the comment-mandatory edit flow, and never deleted.
type MaintenanceRecord struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID primitive.ObjectID `bson:"asset_id" json:"asset_id"`

	// Vehicle readings and thresholds.
	CurrentMileage     *int       `bson:"current_mileage,omitempty" json:"current_mileage,omitempty"`
	TaxDueDate         *time.Time `bson:"tax_due_date,omitempty" json:"tax_due_date,omitempty"`
	MotDueDate         *time.Time `bson:"mot_due_date,omitempty" json:"mot_due_date,omitempty"`
	FirstAidKitExpiry  *time.Time `bson:"first_aid_kit_expiry,omitempty" json:"first_aid_kit_expiry,omitempty"`
	NextServiceMileage *int       `bson:"next_service_mileage,omitempty" json:"next_service_mileage,omitempty"`
	LastServiceMileage *int       `bson:"last_service_mileage,omitempty" json:"last_service_mileage,omitempty"`
	CambeltDueMileage  *int       `bson:"cambelt_due_mileage,omitempty" json:"cambelt_due_mileage,omitempty"`
	CambeltDone        *bool      `bson:"cambelt_done,omitempty" json:"cambelt_done,omitempty"`

	// Plant readings and thresholds.
	CurrentHours     *int `bson:"current_hours,omitempty" json:"current_hours,omitempty"`
	LastServiceHours *int `bson:"last_service_hours,omitempty" json:"last_service_hours,omitempty"`
	NextServiceHours *int `bson:"next_service_hours,omitempty" json:"next_service_hours,omitempty"`

	// LOLER lifting-equipment compliance (plant only).
	LolerDueDate                  *time.Time `bson:"loler_due_date,omitempty" json:"loler_due_date,omitempty"`
	LolerLastInspectionDate       *time.Time `bson:"loler_last_inspection_date,omitempty" json:"loler_last_inspection_date,omitempty"`
	LolerCertificateNumber        string     `bson:"loler_certificate_number,omitempty" json:"loler_certificate_number,omitempty"`
	LolerInspectionIntervalMonths *int       `bson:"loler_inspection_interval_months,omitempty" json:"loler_inspection_interval_months,omitempty"`

	TrackerID string `bson:"tracker_id,omitempty" json:"tracker_id,omitempty"`
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
