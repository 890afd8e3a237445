package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mattduff36/avsworklog-sub000/internal/db"
	"github.com/mattduff36/avsworklog-sub000/internal/middleware"
	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"github.com/mattduff36/avsworklog-sub000/internal/notify"
	"github.com/mattduff36/avsworklog-sub000/internal/workshop"
)

// minDiscussionCommentLength bounds freestanding task comments, matching
// the dashboard's input validation.
const minDiscussionCommentLength = 10

// TaskHandler handles workshop task requests.
type TaskHandler struct {
	tasks     db.TaskCollection
	comments  db.CommentCollection
	assets    db.AssetCollection
	publisher *notify.Publisher
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks db.TaskCollection, comments db.CommentCollection, assets db.AssetCollection, publisher *notify.Publisher) *TaskHandler {
	return &TaskHandler{
		tasks:     tasks,
		comments:  comments,
		assets:    assets,
		publisher: publisher,
	}
}

// CreateTaskRequest is the task creation submission.
type CreateTaskRequest struct {
	AssetID     string `json:"asset_id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Tasks dispatches GET and POST on /api/tasks.
func (h *TaskHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	var assetID *primitive.ObjectID
	if raw := r.URL.Query().Get("asset_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			http.Error(w, "Invalid asset ID", http.StatusBadRequest)
			return
		}
		assetID = &id
	}

	var taskStatus *models.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TaskStatus(raw)
		if !models.IsValidTaskStatus(s) {
			http.Error(w, "Invalid task status", http.StatusBadRequest)
			return
		}
		taskStatus = &s
	}

	tasks, err := h.tasks.FindTasks(r.Context(), assetID, taskStatus)
	if err != nil {
		log.WithError(err).Error("failed to list tasks")
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserFromContext(r.Context()); !ok {
		http.Error(w, sessionExpiredMessage, http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CreateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		http.Error(w, "Category is required", http.StatusBadRequest)
		return
	}

	asset, err := h.assets.FindAssetByID(r.Context(), req.AssetID)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	task := models.WorkshopTask{
		AssetID:     asset.ID,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskPending,
	}

	id, err := h.tasks.InsertTask(r.Context(), task)
	if err != nil {
		log.WithError(err).Error("failed to create task")
		http.Error(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	task.ID = id
	writeJSON(w, http.StatusCreated, task)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// TransitionRequest carries the operator comment for a transition. The
// intermediate comment is only consulted when completing a task that is
// not yet logged.
type TransitionRequest struct {
	Comment             string `json:"comment"`
	IntermediateComment string `json:"intermediate_comment,omitempty"`
}

// TransitionResponse reports the transitioned task plus warnings from
// best-effort secondary updates.
type TransitionResponse struct {
	Task     models.WorkshopTask `json:"task"`
	Warnings []string            `json:"warnings,omitempty"`
}

// Start handles POST /api/tasks/{id}/start.
func (h *TaskHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(task models.WorkshopTask, actor workshop.Actor, req TransitionRequest, now time.Time) (models.WorkshopTask, error) {
		return workshop.Start(task, actor, req.Comment, now)
	})
}

// Hold handles POST /api/tasks/{id}/hold.
func (h *TaskHandler) Hold(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(task models.WorkshopTask, actor workshop.Actor, req TransitionRequest, now time.Time) (models.WorkshopTask, error) {
		return workshop.Hold(task, actor, req.Comment, now)
	})
}

// Resume handles POST /api/tasks/{id}/resume.
func (h *TaskHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(task models.WorkshopTask, actor workshop.Actor, req TransitionRequest, now time.Time) (models.WorkshopTask, error) {
		return workshop.Resume(task, actor, req.Comment, now)
	})
}

// Undo handles POST /api/tasks/{id}/undo. No comment is required; the
// reversion reason is system-generated.
func (h *TaskHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(task models.WorkshopTask, actor workshop.Actor, req TransitionRequest, now time.Time) (models.WorkshopTask, error) {
		return workshop.Undo(task, actor, now)
	})
}

// Complete handles POST /api/tasks/{id}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(task models.WorkshopTask, actor workshop.Actor, req TransitionRequest, now time.Time) (models.WorkshopTask, error) {
		return workshop.Complete(task, actor, req.Comment, req.IntermediateComment, now)
	})
}

// transition runs the shared flow: identity precondition first, then
// the state machine (which validates before mutating), then one
// document write committing status, columns and history together.
func (h *TaskHandler) transition(w http.ResponseWriter, r *http.Request, apply func(models.WorkshopTask, workshop.Actor, TransitionRequest, time.Time) (models.WorkshopTask, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, sessionExpiredMessage, http.StatusUnauthorized)
		return
	}

	var req TransitionRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	actor := workshop.Actor{ID: claims.UserID, Name: claims.Name}
	updated, err := apply(*task, actor, req, time.Now().UTC())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, workshop.ErrInvalidTransition) || errors.Is(err, workshop.ErrTaskCompleted) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	// The persistence failure path leaves the stored task untouched:
	// the transitioned document, history event included, lands in a
	// single replace or not at all.
	if err := h.tasks.ReplaceTask(r.Context(), r.PathValue("id"), updated); err != nil {
		log.WithError(err).Error("failed to persist task transition")
		http.Error(w, "Failed to save task", http.StatusInternalServerError)
		return
	}

	var warnings []string
	if updated.Status == models.TaskCompleted && updated.ActionedAt != nil {
		if err := h.assets.StampLastTaskCompleted(r.Context(), updated.AssetID.Hex(), *updated.ActionedAt); err != nil {
			log.WithError(err).Warn("asset completion stamp failed after task completion")
			warnings = append(warnings, "Task completed, but the asset's completion stamp could not be updated")
		}
	}

	if len(updated.StatusHistory) > 0 {
		h.publisher.PublishTaskTransition(updated, updated.StatusHistory[len(updated.StatusHistory)-1])
	}

	writeJSON(w, http.StatusOK, TransitionResponse{Task: updated, Warnings: warnings})
}

// Comments dispatches GET and POST on /api/tasks/{id}/comments.
func (h *TaskHandler) Comments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listComments(w, r)
	case http.MethodPost:
		h.addComment(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TaskHandler) listComments(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	comments, err := h.comments.FindCommentsByTaskID(r.Context(), task.ID)
	if err != nil {
		log.WithError(err).Error("failed to list task comments")
		http.Error(w, "Failed to list comments", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *TaskHandler) addComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, sessionExpiredMessage, http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.FindTaskByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Body)) < minDiscussionCommentLength {
		http.Error(w, "Comment must be at least 10 characters", http.StatusBadRequest)
		return
	}

	comment := models.WorkshopComment{
		TaskID:     task.ID,
		AuthorID:   claims.UserID,
		AuthorName: claims.Name,
		Body:       req.Body,
	}
	if err := h.comments.InsertComment(r.Context(), comment); err != nil {
		log.WithError(err).Error("failed to save task comment")
		http.Error(w, "Failed to save comment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Comment added"})
}
