// Package workshop implements the workshop task lifecycle: the finite
// state machine governing task transitions and the append-only
// status-history audit trail.
package workshop

import (
	"time"

	"github.com/google/uuid"
	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

// NewStatusHistoryEvent builds one audit-trail event. A zero `at` is
// stamped with the current UTC time. Meta is stored only when provided;
// it is never defaulted to an empty map.
func NewStatusHistoryEvent(status models.EventStatus, comment, authorID, authorName string, at time.Time, meta map[string]string) models.StatusHistoryEvent {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	event := models.StatusHistoryEvent{
		EventID:    uuid.NewString(),
		Status:     status,
		Timestamp:  at,
		AuthorID:   authorID,
		AuthorName: authorName,
		Comment:    comment,
	}
	if len(meta) > 0 {
		event.Meta = meta
	}
	return event
}

// AppendStatusHistoryEvent returns a new history slice with the event
// appended at the end. The input slice is never mutated; nil history is
// treated as empty. Legality of the transition is the caller's
// responsibility; this function only records.
func AppendStatusHistoryEvent(existing []models.StatusHistoryEvent, event models.StatusHistoryEvent) []models.StatusHistoryEvent {
	out := make([]models.StatusHistoryEvent, len(existing), len(existing)+1)
	copy(out, existing)
	return append(out, event)
}
