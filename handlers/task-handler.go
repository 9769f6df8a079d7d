package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"kanban-board/middleware"
	"kanban-board/models"
	"kanban-board/validation"

	"github.com/gorilla/mux"
)

type TaskService interface {
	CreateTask(ctx context.Context, ownerID string, fields models.TaskFields) (*models.Task, error)
	GetTasks(ctx context.Context, ownerID, status string) ([]models.Task, error)
	UpdateTask(ctx context.Context, taskID, ownerID string, fields models.TaskFields) (*models.Task, error)
	ChangeTaskStatus(ctx context.Context, taskID, ownerID, status string) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID, ownerID string) (*models.Task, error)
}

// TaskRequest is the body of create and update. Pointer fields tell an
// omitted field apart from an empty one.
type TaskRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Priority    *string     `json:"priority"`
	DueDate     interface{} `json:"dueDate"`
	Status      *string     `json:"status"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type TaskHandler struct {
	service   TaskService
	validator *validation.Validator
}

func NewTaskHandler(service TaskService, validator *validation.Validator) *TaskHandler {
	return &TaskHandler{service: service, validator: validator}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	fields, err := h.decodeTask(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), ownerID, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.GetTasks(r.Context(), ownerID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	fields, err := h.decodeTask(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), mux.Vars(r)["id"], ownerID, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	// An unreadable body leaves Status empty, which the service rejects.
	var req StatusRequest
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)

	task, err := h.service.ChangeTaskStatus(r.Context(), mux.Vars(r)["id"], ownerID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	task, err := h.service.DeleteTask(r.Context(), mux.Vars(r)["id"], ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) decodeTask(w http.ResponseWriter, r *http.Request) (models.TaskFields, error) {
	body, err := readBody(w, r)
	if err != nil {
		return models.TaskFields{}, err
	}
	if err := h.validator.ValidateTask(body); err != nil {
		return models.TaskFields{}, err
	}

	var req TaskRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return models.TaskFields{}, &validation.Error{Message: "request body must be valid JSON"}
		}
	}
	return req.toFields()
}

func (req TaskRequest) toFields() (models.TaskFields, error) {
	fields := models.TaskFields{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		fields.Priority = &p
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		fields.Status = &s
	}
	if req.DueDate != nil {
		due, err := validation.ParseDate(req.DueDate)
		if err != nil {
			return models.TaskFields{}, &validation.Error{Field: "dueDate", Message: "must be a valid date"}
		}
		fields.DueDate = &due
	}
	return fields, nil
}

// ownerFromRequest reads the caller's id from the verified token. The owner is
// never taken from the body.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, models.ErrMissingToken)
		return "", false
	}
	return claims.ID, true
}
