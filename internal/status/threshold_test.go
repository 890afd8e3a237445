package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCheckDate_NilDueIsNotSet(t *testing.T) {
	now := date("2025-06-01")

	check := CheckDate(now, nil, 30)
	assert.Equal(t, StateNotSet, check.State)
	assert.Equal(t, UnitDays, check.Unit)
}

func TestCheckDate_DueSoon(t *testing.T) {
	now := date("2025-06-01")
	due := date("2025-06-11") // 10 days out, margin 30

	check := CheckDate(now, &due, 30)
	assert.Equal(t, StateDueSoon, check.State)
	assert.Equal(t, 10, check.Remaining)
}

func TestCheckDate_Overdue(t *testing.T) {
	now := date("2025-06-01")
	due := date("2025-05-27") // 5 days ago

	check := CheckDate(now, &due, 30)
	assert.Equal(t, StateOverdue, check.State)
	assert.Equal(t, -5, check.Remaining)
}

func TestCheckDate_OK(t *testing.T) {
	now := date("2025-06-01")
	due := date("2025-12-01")

	check := CheckDate(now, &due, 30)
	assert.Equal(t, StateOK, check.State)
	assert.True(t, check.Remaining > 30)
}

func TestCheckDate_BoundaryEqualsMarginIsDueSoon(t *testing.T) {
	now := date("2025-06-01")
	due := date("2025-07-01") // exactly 30 days

	check := CheckDate(now, &due, 30)
	assert.Equal(t, StateDueSoon, check.State)
	assert.Equal(t, 30, check.Remaining)
}

func TestCheckDate_IgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 45, 0, 0, time.UTC)
	due := time.Date(2025, 6, 2, 0, 15, 0, 0, time.UTC)

	check := CheckDate(now, &due, 30)
	assert.Equal(t, 1, check.Remaining)
}

func TestCheckMetric_NilDueIsNotSetRegardlessOfReading(t *testing.T) {
	current := 95000

	check := CheckMetric(&current, nil, ServiceWarningMiles, UnitMiles)
	assert.Equal(t, StateNotSet, check.State)

	check = CheckMetric(nil, nil, ServiceWarningMiles, UnitMiles)
	assert.Equal(t, StateNotSet, check.State)
}

func TestCheckMetric_Classification(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		due       int
		margin    int
		state     State
		remaining int
	}{
		{"ok", 50000, 60000, 1000, StateOK, 10000},
		{"due soon", 59500, 60000, 1000, StateDueSoon, 500},
		{"boundary is due soon", 59000, 60000, 1000, StateDueSoon, 1000},
		{"overdue", 60200, 60000, 1000, StateOverdue, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckMetric(&tt.current, &tt.due, tt.margin, UnitMiles)
			assert.Equal(t, tt.state, check.State)
			assert.Equal(t, tt.remaining, check.Remaining)
		})
	}
}

func TestCheckMetric_NilReadingTreatedAsZero(t *testing.T) {
	due := 500

	check := CheckMetric(nil, &due, 1000, UnitHours)
	assert.Equal(t, StateDueSoon, check.State)
	assert.Equal(t, 500, check.Remaining)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "not set", Check{State: StateNotSet, Unit: UnitDays}.Label())
	assert.Equal(t, "due in 10 days", Check{State: StateDueSoon, Remaining: 10, Unit: UnitDays}.Label())
	assert.Equal(t, "overdue by 5 days", Check{State: StateOverdue, Remaining: -5, Unit: UnitDays}.Label())
	assert.Equal(t, "due in 2000 miles", Check{State: StateOK, Remaining: 2000, Unit: UnitMiles}.Label())
}

func TestCheckDate_DeterministicForFixedNow(t *testing.T) {
	now := date("2025-06-01")
	due := date("2025-06-11")

	first := CheckDate(now, &due, 30)
	second := CheckDate(now, &due, 30)
	assert.Equal(t, first, second)
}
