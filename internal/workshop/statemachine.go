package workshop

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

// MaxCommentLength bounds every operator transition comment.
const MaxCommentLength = 300

// revertReason is the system-generated comment recorded by the undo flow.
const revertReason = "Status reverted to pending"

var (
	ErrCommentRequired   = errors.New("a comment is required for this action")
	ErrCommentTooLong    = fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
	ErrInvalidTransition = errors.New("action not permitted from the task's current status")
	ErrTaskCompleted     = errors.New("task is completed and can no longer change")
)

// Actor identifies who performs a transition.
type Actor struct {
	ID   string
	Name string
}

// Action names a state-machine transition request.
type Action string

const (
	ActionStart    Action = "start"
	ActionHold     Action = "hold"
	ActionResume   Action = "resume"
	ActionUndo     Action = "undo"
	ActionComplete Action = "complete"
)

// transitions is the legal transition table. Complete is handled
// separately because it is permitted from every non-terminal state.
var transitions = map[models.TaskStatus]map[Action]models.TaskStatus{
	models.TaskPending: {
		ActionStart:    models.TaskLogged,
		ActionComplete: models.TaskCompleted,
	},
	models.TaskLogged: {
		ActionHold:     models.TaskOnHold,
		ActionUndo:     models.TaskPending,
		ActionComplete: models.TaskCompleted,
	},
	models.TaskOnHold: {
		ActionResume:   models.TaskLogged,
		ActionComplete: models.TaskCompleted,
	},
}

// CanTransition reports whether the action is legal from the given
// status, and the resulting status when it is.
func CanTransition(from models.TaskStatus, action Action) (models.TaskStatus, bool) {
	to, ok := transitions[from][action]
	return to, ok
}

// ValidateComment enforces the operator-comment rule shared by all
// forward transitions: non-empty after trimming, at most 300 characters.
func ValidateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrCommentRequired
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

func checkTransition(task models.WorkshopTask, action Action) error {
	if task.Status == models.TaskCompleted {
		return ErrTaskCompleted
	}
	if _, ok := CanTransition(task.Status, action); !ok {
		return ErrInvalidTransition
	}
	return nil
}

// Start moves a pending task to logged ("in progress"). Returns the
// updated task; the input task is not modified on error.
func Start(task models.WorkshopTask, actor Actor, comment string, now time.Time) (models.WorkshopTask, error) {
	if err := checkTransition(task, ActionStart); err != nil {
		return task, err
	}
	if err := ValidateComment(comment); err != nil {
		return task, err
	}

	task.Status = models.TaskLogged
	task.LoggedAt = &now
	task.LoggedBy = actor.ID
	task.LoggedComment = comment
	task.UpdatedAt = now
	event := NewStatusHistoryEvent(models.EventLogged, comment, actor.ID, actor.Name, now, nil)
	task.StatusHistory = AppendStatusHistoryEvent(task.StatusHistory, event)
	return task, nil
}

// Hold moves a logged task to on_hold.
func Hold(task models.WorkshopTask, actor Actor, comment string, now time.Time) (models.WorkshopTask, error) {
	if err := checkTransition(task, ActionHold); err != nil {
		return task, err
	}
	if err := ValidateComment(comment); err != nil {
		return task, err
	}

	task.Status = models.TaskOnHold
	task.UpdatedAt = now
	event := NewStatusHistoryEvent(models.EventOnHold, comment, actor.ID, actor.Name, now, nil)
	task.StatusHistory = AppendStatusHistoryEvent(task.StatusHistory, event)
	return task, nil
}

// Resume moves an on_hold task back to logged. Resuming a task that is
// not on hold is rejected without mutation.
func Resume(task models.WorkshopTask, actor Actor, comment string, now time.Time) (models.WorkshopTask, error) {
	if err := checkTransition(task, ActionResume); err != nil {
		return task, err
	}
	if err := ValidateComment(comment); err != nil {
		return task, err
	}

	task.Status = models.TaskLogged
	task.UpdatedAt = now
	event := NewStatusHistoryEvent(models.EventResumed, comment, actor.ID, actor.Name, now, nil)
	task.StatusHistory = AppendStatusHistoryEvent(task.StatusHistory, event)
	return task, nil
}

// Undo reverts a logged task to pending. The reason is system-generated;
// no operator comment is required. History is extended with a reverted
// event carrying {from,to} meta; prior events are never removed.
func Undo(task models.WorkshopTask, actor Actor, now time.Time) (models.WorkshopTask, error) {
	if err := checkTransition(task, ActionUndo); err != nil {
		return task, err
	}

	meta := map[string]string{
		"from": string(models.TaskLogged),
		"to":   string(models.TaskPending),
	}
	task.Status = models.TaskPending
	task.LoggedAt = nil
	task.LoggedBy = ""
	task.LoggedComment = ""
	task.UpdatedAt = now
	event := NewStatusHistoryEvent(models.EventReverted, revertReason, actor.ID, actor.Name, now, meta)
	task.StatusHistory = AppendStatusHistoryEvent(task.StatusHistory, event)
	return task, nil
}

// Complete finishes a task from any non-terminal state. Completing a
// pending or on_hold task requires an additional intermediate comment:
// a synthetic logged (or resumed) event is appended first so the audit
// trail always shows a logged step before completion, and the completion
// event's timestamp is constructed strictly later (+1ms) so chronological
// sorting is unambiguous even when both events share the same instant.
func Complete(task models.WorkshopTask, actor Actor, completionComment, intermediateComment string, now time.Time) (models.WorkshopTask, error) {
	if err := checkTransition(task, ActionComplete); err != nil {
		return task, err
	}
	if err := ValidateComment(completionComment); err != nil {
		return task, err
	}

	completedAt := now
	if task.Status != models.TaskLogged {
		if err := ValidateComment(intermediateComment); err != nil {
			return task, err
		}

		intermediateStatus := models.EventLogged
		if task.Status == models.TaskOnHold {
			intermediateStatus = models.EventResumed
		}
		task.LoggedAt = &now
		task.LoggedBy = actor.ID
		task.LoggedComment = intermediateComment
		intermediate := NewStatusHistoryEvent(intermediateStatus, intermediateComment, actor.ID, actor.Name, now, nil)
		task.StatusHistory = AppendStatusHistoryEvent(task.StatusHistory, intermediate)
		completedAt = now.Add(time.Millisecond)
	}

	task.Status = models.TaskCompleted
	task.ActionedAt = &completedAt
	task.ActionedBy = actor.ID
	task.ActionedComment = completionComment
	task.UpdatedAt = completedAt
	event := NewStatusHistoryEvent(models.EventCompleted, completionComment, actor.ID, actor.Name, completedAt, nil)
	task.StatusHistory = AppendStatusHistoryEvent(task.StatusHistory, event)
	return task, nil
}
