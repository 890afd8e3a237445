package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldName identifies a maintenance record field in the change ledger.
type FieldName string

const (
	FieldTaxDueDate                    FieldName = "tax_due_date"
	FieldMotDueDate                    FieldName = "mot_due_date"
	FieldFirstAidKitExpiry             FieldName = "first_aid_kit_expiry"
	FieldNextServiceMileage            FieldName = "next_service_mileage"
	FieldLastServiceMileage            FieldName = "last_service_mileage"
	FieldCambeltDueMileage             FieldName = "cambelt_due_mileage"
	FieldCambeltDone                   FieldName = "cambelt_done"
	FieldNotes                         FieldName = "notes"
	FieldCurrentMileage                FieldName = "current_mileage"
	FieldTrackerID                     FieldName = "tracker_id"
	FieldCurrentHours                  FieldName = "current_hours"
	FieldLastServiceHours              FieldName = "last_service_hours"
	FieldNextServiceHours              FieldName = "next_service_hours"
	FieldLolerDueDate                  FieldName = "loler_due_date"
	FieldLolerLastInspectionDate       FieldName = "loler_last_inspection_date"
	FieldLolerCertificateNumber        FieldName = "loler_certificate_number"
	FieldLolerInspectionIntervalMonths FieldName = "loler_inspection_interval_months"
	FieldNickname                      FieldName = "nickname"
	FieldAllFields                     FieldName = "all_fields"
	FieldNoChanges                     FieldName = "no_changes"
)

// ValueType tags how a history entry's old/new strings are interpreted.
type ValueType string

const (
	ValueTypeDate    ValueType = "date"
	ValueTypeMileage ValueType = "mileage"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeText    ValueType = "text"
)

// MaintenanceHistoryEntry is one row of the append-only change ledger:
// one changed field per entry, or a single no_changes entry for a
// comment-only edit. Entries are never updated or deleted.
type MaintenanceHistoryEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntryID    string             `bson:"entry_id" json:"entry_id"`
	AssetID    primitive.ObjectID `bson:"asset_id" json:"asset_id"`
	Field      FieldName          `bson:"field" json:"field"`
	ValueType  ValueType          `bson:"value_type" json:"value_type"`
	OldValue   string             `bson:"old_value" json:"old_value"`
	NewValue   string             `bson:"new_value" json:"new_value"`
	Comment    string             `bson:"comment" json:"comment"`
	AuthorID   string             `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
