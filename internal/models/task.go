package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is the flat status of a workshop task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskLogged    TaskStatus = "logged"
	TaskOnHold    TaskStatus = "on_hold"
	TaskCompleted TaskStatus = "completed"
)

// IsValidTaskStatus checks if a status is recognised.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskPending, TaskLogged, TaskOnHold, TaskCompleted:
		return true
	default:
		return false
	}
}

// EventStatus tags a status-history event. It is a superset of TaskStatus:
// resume and undo get their own tags so the audit trail reads unambiguously.
type EventStatus string

const (
	EventLogged    EventStatus = "logged"
	EventOnHold    EventStatus = "on_hold"
	EventResumed   EventStatus = "resumed"
	EventCompleted EventStatus = "completed"
	EventReverted  EventStatus = "reverted"
)

// StatusHistoryEvent is one immutable entry of a task's audit trail.
// Events are appended in chronological order and never removed; the undo
// flow appends a reverted event rather than truncating history.
type StatusHistoryEvent struct {
	EventID    string            `bson:"event_id" json:"event_id"`
	Status     EventStatus       `bson:"status" json:"status"`
	Timestamp  time.Time         `bson:"timestamp" json:"timestamp"`
	AuthorID   string            `bson:"author_id" json:"author_id"`
	AuthorName string            `bson:"author_name" json:"author_name"`
	Comment    string            `bson:"comment,omitempty" json:"comment,omitempty"`
	Meta       map[string]string `bson:"meta,omitempty" json:"meta,omitempty"`
}

// WorkshopTask is a unit of workshop work (inspection defect or manually
// raised task) tied to an asset. Besides the flat transition columns it
// embeds the full status_history audit trail, so a transition commits the
// status, its columns and the appended event in a single document write.
type WorkshopTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID     primitive.ObjectID `bson:"asset_id" json:"asset_id"`
	Category    string             `bson:"category" json:"category"`
	Subcategory string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus         `bson:"status" json:"status"`

	LoggedAt      *time.Time `bson:"logged_at,omitempty" json:"logged_at,omitempty"`
	LoggedBy      string     `bson:"logged_by,omitempty" json:"logged_by,omitempty"`
	LoggedComment string     `bson:"logged_comment,omitempty" json:"logged_comment,omitempty"`

	ActionedAt      *time.Time `bson:"actioned_at,omitempty" json:"actioned_at,omitempty"`
	ActionedBy      string     `bson:"actioned_by,omitempty" json:"actioned_by,omitempty"`
	ActionedComment string     `bson:"actioned_comment,omitempty" json:"actioned_comment,omitempty"`

	StatusHistory []StatusHistoryEvent `bson:"status_history,omitempty" json:"status_history"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// WorkshopComment is a freestanding discussion entry attached to a task,
// independent of the status-history audit trail.
type WorkshopComment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID     primitive.ObjectID `bson:"task_id" json:"task_id"`
	AuthorID   string             `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
