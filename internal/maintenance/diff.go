// Package maintenance implements the comment-mandatory maintenance edit
// flow: diffing an edit submission against the stored record and turning
// the changes into append-only history ledger entries.
package maintenance

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinCommentLength is the minimum trimmed length of an edit comment.
const MinCommentLength = 10

var ErrCommentTooShort = errors.New("comment must be at least 10 characters")

// dateLayout is how date values are rendered into ledger entries.
const dateLayout = "2006-01-02"

// FieldChange is one changed field of an edit submission, with old and
// new values rendered as opaque strings per the value-type tag.
type FieldChange struct {
	Field     models.FieldName
	ValueType models.ValueType
	OldValue  string
	NewValue  string
}

// DiffRecords compares the stored record against the submitted one and
// returns a change per differing field. An unset value renders as the
// empty string, so setting, clearing and changing a threshold all
// produce a row.
func DiffRecords(old, updated models.MaintenanceRecord) []FieldChange {
	var changes []FieldChange
	add := func(field models.FieldName, vt models.ValueType, oldV, newV string) {
		if oldV != newV {
			changes = append(changes, FieldChange{Field: field, ValueType: vt, OldValue: oldV, NewValue: newV})
		}
	}

	add(models.FieldCurrentMileage, models.ValueTypeMileage, formatInt(old.CurrentMileage), formatInt(updated.CurrentMileage))
	add(models.FieldTaxDueDate, models.ValueTypeDate, formatDate(old.TaxDueDate), formatDate(updated.TaxDueDate))
	add(models.FieldMotDueDate, models.ValueTypeDate, formatDate(old.MotDueDate), formatDate(updated.MotDueDate))
	add(models.FieldFirstAidKitExpiry, models.ValueTypeDate, formatDate(old.FirstAidKitExpiry), formatDate(updated.FirstAidKitExpiry))
	add(models.FieldNextServiceMileage, models.ValueTypeMileage, formatInt(old.NextServiceMileage), formatInt(updated.NextServiceMileage))
	add(models.FieldLastServiceMileage, models.ValueTypeMileage, formatInt(old.LastServiceMileage), formatInt(updated.LastServiceMileage))
	add(models.FieldCambeltDueMileage, models.ValueTypeMileage, formatInt(old.CambeltDueMileage), formatInt(updated.CambeltDueMileage))
	add(models.FieldCambeltDone, models.ValueTypeBoolean, formatBool(old.CambeltDone), formatBool(updated.CambeltDone))
	add(models.FieldCurrentHours, models.ValueTypeMileage, formatInt(old.CurrentHours), formatInt(updated.CurrentHours))
	add(models.FieldLastServiceHours, models.ValueTypeMileage, formatInt(old.LastServiceHours), formatInt(updated.LastServiceHours))
	add(models.FieldNextServiceHours, models.ValueTypeMileage, formatInt(old.NextServiceHours), formatInt(updated.NextServiceHours))
	add(models.FieldLolerDueDate, models.ValueTypeDate, formatDate(old.LolerDueDate), formatDate(updated.LolerDueDate))
	add(models.FieldLolerLastInspectionDate, models.ValueTypeDate, formatDate(old.LolerLastInspectionDate), formatDate(updated.LolerLastInspectionDate))
	add(models.FieldLolerCertificateNumber, models.ValueTypeText, old.LolerCertificateNumber, updated.LolerCertificateNumber)
	add(models.FieldLolerInspectionIntervalMonths, models.ValueTypeText, formatInt(old.LolerInspectionIntervalMonths), formatInt(updated.LolerInspectionIntervalMonths))
	add(models.FieldTrackerID, models.ValueTypeText, old.TrackerID, updated.TrackerID)
	add(models.FieldNotes, models.ValueTypeText, old.Notes, updated.Notes)

	return changes
}

// ValidateComment enforces the minimum trimmed edit-comment length.
func ValidateComment(comment string) error {
	if utf8.RuneCountInString(strings.TrimSpace(comment)) < MinCommentLength {
		return ErrCommentTooShort
	}
	return nil
}

// BuildHistoryEntries turns an edit's changes into ledger rows, one per
// changed field, stamped with the author and comment. A comment-only
// edit (no changes) yields a single no_changes row so the submission is
// still visible on the audit trail.
func BuildHistoryEntries(assetID primitive.ObjectID, changes []FieldChange, comment, authorID, authorName string, now time.Time) ([]models.MaintenanceHistoryEntry, error) {
	if err := ValidateComment(comment); err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return []models.MaintenanceHistoryEntry{{
			EntryID:    uuid.NewString(),
			AssetID:    assetID,
			Field:      models.FieldNoChanges,
			ValueType:  models.ValueTypeText,
			Comment:    comment,
			AuthorID:   authorID,
			AuthorName: authorName,
			CreatedAt:  now,
		}}, nil
	}

	entries := make([]models.MaintenanceHistoryEntry, 0, len(changes))
	for _, change := range changes {
		entries = append(entries, models.MaintenanceHistoryEntry{
			EntryID:    uuid.NewString(),
			AssetID:    assetID,
			Field:      change.Field,
			ValueType:  change.ValueType,
			OldValue:   change.OldValue,
			NewValue:   change.NewValue,
			Comment:    comment,
			AuthorID:   authorID,
			AuthorName: authorName,
			CreatedAt:  now,
		})
	}
	return entries, nil
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func formatDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(dateLayout)
}
