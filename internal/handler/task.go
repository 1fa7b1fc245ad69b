package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
	"github.com/FiguringToCode/backend-workasana/internal/service"
)

// TaskHandler handles task creation, expanded listing and partial updates
type TaskHandler struct {
	taskService *service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{taskService: taskService, logger: logger}
}

// Create handles POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		h.logger.Warn("failed to decode task", slog.String("error", err.Error()))
		writeErrorBody(w, http.StatusBadRequest, "Error adding new task")
		return
	}

	if err := h.taskService.Create(r.Context(), &task); err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Task added successfully",
		"task":    task,
	})
}

// List handles GET /tasks. Every task is returned with its project, team and
// owners expanded; an empty store is a client-visible error, not an empty 200.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListExpanded(r.Context())
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	if len(tasks) == 0 {
		writeErrorBody(w, http.StatusBadRequest, "Tasks not found.")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// UpdateStatus handles POST /tasks/status/{taskId}. The body is a partial
// task; any stored field it names is overwritten, not just status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskId")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.Warn("failed to decode task update", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unable to update status."})
		return
	}

	task, err := h.taskService.UpdateFields(r.Context(), taskID, fields)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unable to update status."})
			return
		}
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Status updated successfully.",
		"updatedStatus": task,
	})
}
