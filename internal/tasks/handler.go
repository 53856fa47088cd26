package tasks

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/olegsavin/taskboard/internal/domain"
	"github.com/olegsavin/taskboard/internal/pkg/httputil"
)

// deadlineLayout is the wire format for task deadlines.
const deadlineLayout = "2006-01-02"

// Handler handles HTTP requests for the tasks module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new task handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers task routes. The path shapes follow the
// public API contract rather than a uniform REST layout.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks", h.CreateTask)
	r.Delete("/tasks/{taskID}", h.DeleteTask)
	r.Put("/update-deadline/{taskID}", h.UpdateDeadline)
	r.Get("/user-tasks/{userID}", h.ListUserTasks)
	r.Put("/update-task-status/{taskID}", h.UpdateStatus)
}

// CreateTaskRequest represents task creation request body.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to" validate:"required"`
}

// CreateTask handles POST /api/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Title and assigned user ID are required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Title and assigned user ID are required")
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, err := time.Parse(deadlineLayout, req.Deadline)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "Deadline must be a date in YYYY-MM-DD format")
			return
		}
		deadline = &d
	}

	result, err := h.service.CreateTask(r.Context(), CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		Status:      domain.TaskStatus(req.Status),
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrAssigneeNotFound, Status: http.StatusNotFound},
		})
		return
	}

	resp := map[string]interface{}{
		"message":           "Task created successfully",
		"taskId":            result.Task.ID,
		"notification_sent": result.NotificationErr == nil,
	}
	if result.NotificationErr != nil {
		resp["message"] = "Task created but the assignment email could not be sent"
	}
	httputil.JSON(w, http.StatusCreated, resp)
}

// ListTasks handles GET /api/tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListWithAssignees(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	httputil.JSON(w, http.StatusOK, rows)
}

// ListUserTasks handles GET /api/user-tasks/{userID}.
func (h *Handler) ListUserTasks(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rows, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	// An empty result is an explicit signal, not an error: the contract
	// answers 404 with a message body here.
	if len(rows) == 0 {
		httputil.Message(w, http.StatusNotFound, "No tasks found for this user")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"tasks": rows})
}

// UpdateDeadlineRequest represents deadline update request body.
type UpdateDeadlineRequest struct {
	Deadline string `json:"deadline" validate:"required"`
}

// UpdateDeadline handles PUT /api/update-deadline/{taskID}.
func (h *Handler) UpdateDeadline(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req UpdateDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "New deadline is required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "New deadline is required")
		return
	}

	deadline, err := time.Parse(deadlineLayout, req.Deadline)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Deadline must be a date in YYYY-MM-DD format")
		return
	}

	if err := h.service.UpdateDeadline(r.Context(), taskID, deadline); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrTaskNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.Message(w, http.StatusOK, "Deadline updated successfully")
}

// UpdateStatusRequest represents status update request body.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/update-task-status/{taskID}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Status is required")
		return
	}

	if err := h.service.UpdateStatus(r.Context(), taskID, domain.TaskStatus(req.Status)); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrTaskNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.Message(w, http.StatusOK, "Task status updated successfully")
}

// DeleteTask handles DELETE /api/tasks/{taskID}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrTaskNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.Message(w, http.StatusOK, "Task deleted successfully")
}
