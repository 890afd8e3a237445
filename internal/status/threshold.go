package status

import (
	"fmt"
	"time"
)

// State classifies a maintenance threshold against its current value.
type State string

const (
	StateNotSet  State = "not_set"
	StateOK      State = "ok"
	StateDueSoon State = "due_soon"
	StateOverdue State = "overdue"
)

// Warning margins per category. Fixed constants, not user-configurable.
const (
	TaxWarningDays      = 30
	MotWarningDays      = 30
	FirstAidWarningDays = 30
	LolerWarningDays    = 30
	ServiceWarningMiles = 1000
	CambeltWarningMiles = 1000
	ServiceWarningHours = 50
)

// Unit tags what a check's remaining amount is measured in.
type Unit string

const (
	UnitDays  Unit = "days"
	UnitMiles Unit = "miles"
	UnitHours Unit = "hours"
)

// Check is the result of classifying one threshold. Remaining is signed:
// negative means overdue by that amount. Remaining is meaningless when
// State is not_set.
type Check struct {
	State     State `json:"state"`
	Remaining int   `json:"remaining"`
	Unit      Unit  `json:"unit"`
}

// CheckDate classifies a date threshold against a reference time. A nil
// due date is not_set unconditionally. Remaining is in whole calendar
// days; remaining == warningDays is due_soon, not ok.
func CheckDate(now time.Time, due *time.Time, warningDays int) Check {
	if due == nil {
		return Check{State: StateNotSet, Unit: UnitDays}
	}
	remaining := daysBetween(now, *due)
	return Check{State: classify(remaining, warningDays), Remaining: remaining, Unit: UnitDays}
}

// CheckMetric classifies a mileage or hours threshold against the current
// reading. A nil due value is not_set regardless of the reading; a nil
// reading is treated as zero.
func CheckMetric(current, due *int, warningMargin int, unit Unit) Check {
	if due == nil {
		return Check{State: StateNotSet, Unit: unit}
	}
	reading := 0
	if current != nil {
		reading = *current
	}
	remaining := *due - reading
	return Check{State: classify(remaining, warningMargin), Remaining: remaining, Unit: unit}
}

func classify(remaining, margin int) State {
	switch {
	case remaining < 0:
		return StateOverdue
	case remaining <= margin:
		return StateDueSoon
	default:
		return StateOK
	}
}

// daysBetween returns the whole calendar days from a to b, ignoring the
// time of day of either.
func daysBetween(a, b time.Time) int {
	a = truncateToDay(a)
	b = truncateToDay(b)
	return int(b.Sub(a).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Label renders a check as a human-readable "due in / overdue by" string.
func (c Check) Label() string {
	switch c.State {
	case StateNotSet:
		return "not set"
	case StateOverdue:
		return fmt.Sprintf("overdue by %d %s", -c.Remaining, c.Unit)
	default:
		return fmt.Sprintf("due in %d %s", c.Remaining, c.Unit)
	}
}
