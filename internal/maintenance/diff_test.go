package maintenance

import (
	"testing"
	"time"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDiffRecords_NoChanges(t *testing.T) {
	rec := models.MaintenanceRecord{
		CurrentMileage: intPtr(50000),
		TaxDueDate:     datePtr("2025-09-01"),
		Notes:          "serviced at main dealer",
	}

	assert.Empty(t, DiffRecords(rec, rec))
}

func TestDiffRecords_ChangedFields(t *testing.T) {
	old := models.MaintenanceRecord{
		CurrentMileage: intPtr(50000),
		TaxDueDate:     datePtr("2025-09-01"),
	}
	updated := models.MaintenanceRecord{
		CurrentMileage: intPtr(51200),
		TaxDueDate:     datePtr("2026-09-01"),
	}

	changes := DiffRecords(old, updated)
	require.Len(t, changes, 2)

	byField := map[models.FieldName]FieldChange{}
	for _, c := range changes {
		byField[c.Field] = c
	}

	mileage := byField[models.FieldCurrentMileage]
	assert.Equal(t, models.ValueTypeMileage, mileage.ValueType)
	assert.Equal(t, "50000", mileage.OldValue)
	assert.Equal(t, "51200", mileage.NewValue)

	tax := byField[models.FieldTaxDueDate]
	assert.Equal(t, models.ValueTypeDate, tax.ValueType)
	assert.Equal(t, "2025-09-01", tax.OldValue)
	assert.Equal(t, "2026-09-01", tax.NewValue)
}

func TestDiffRecords_LolerIntervalIsNotAMileage(t *testing.T) {
	old := models.MaintenanceRecord{LolerInspectionIntervalMonths: intPtr(6)}
	updated := models.MaintenanceRecord{LolerInspectionIntervalMonths: intPtr(12)}

	changes := DiffRecords(old, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, models.FieldLolerInspectionIntervalMonths, changes[0].Field)
	assert.Equal(t, models.ValueTypeText, changes[0].ValueType)
	assert.Equal(t, "6", changes[0].OldValue)
	assert.Equal(t, "12", changes[0].NewValue)
}

func TestDiffRecords_SettingAndClearing(t *testing.T) {
	old := models.MaintenanceRecord{CambeltDone: boolPtr(false)}
	updated := models.MaintenanceRecord{
		CambeltDone:        boolPtr(true),
		NextServiceMileage: intPtr(60000),
	}

	changes := DiffRecords(old, updated)
	require.Len(t, changes, 2)

	byField := map[models.FieldName]FieldChange{}
	for _, c := range changes {
		byField[c.Field] = c
	}

	assert.Equal(t, "false", byField[models.FieldCambeltDone].OldValue)
	assert.Equal(t, "true", byField[models.FieldCambeltDone].NewValue)
	assert.Equal(t, "", byField[models.FieldNextServiceMileage].OldValue)
	assert.Equal(t, "60000", byField[models.FieldNextServiceMileage].NewValue)
}

func TestValidateComment(t *testing.T) {
	assert.ErrorIs(t, ValidateComment(""), ErrCommentTooShort)
	assert.ErrorIs(t, ValidateComment("short"), ErrCommentTooShort)
	assert.ErrorIs(t, ValidateComment("         a         "), ErrCommentTooShort)
	assert.NoError(t, ValidateComment("updated after service"))
	// Ten multi-byte characters satisfy the minimum even though they
	// span more than ten bytes.
	assert.NoError(t, ValidateComment("überprüfté"))
}

func TestBuildHistoryEntries_OnePerChange(t *testing.T) {
	assetID := primitive.NewObjectID()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	changes := []FieldChange{
		{Field: models.FieldCurrentMileage, ValueType: models.ValueTypeMileage, OldValue: "50000", NewValue: "51200"},
		{Field: models.FieldNotes, ValueType: models.ValueTypeText, OldValue: "", NewValue: "tyres rotated"},
	}

	entries, err := BuildHistoryEntries(assetID, changes, "routine mileage update", "u1", "Dee Smith", now)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, assetID, e.AssetID)
		assert.Equal(t, "routine mileage update", e.Comment)
		assert.Equal(t, "u1", e.AuthorID)
		assert.Equal(t, "Dee Smith", e.AuthorName)
		assert.Equal(t, now, e.CreatedAt)
		assert.NotEmpty(t, e.EntryID)
	}
	assert.NotEqual(t, entries[0].EntryID, entries[1].EntryID)
}

func TestBuildHistoryEntries_CommentOnlyProducesNoChangesRow(t *testing.T) {
	assetID := primitive.NewObjectID()

	entries, err := BuildHistoryEntries(assetID, nil, "checked over, all fine", "u1", "Dee Smith", time.Now())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.FieldNoChanges, entries[0].Field)
	assert.Equal(t, models.ValueTypeText, entries[0].ValueType)
	assert.Empty(t, entries[0].OldValue)
	assert.Empty(t, entries[0].NewValue)
}

func TestBuildHistoryEntries_RejectsShortComment(t *testing.T) {
	_, err := BuildHistoryEntries(primitive.NewObjectID(), nil, "nope", "u1", "Dee Smith", time.Now())
	assert.ErrorIs(t, err, ErrCommentTooShort)
}
