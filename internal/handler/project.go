package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
)

// ProjectHandler handles project creation and listing
type ProjectHandler struct {
	projectRepo domain.ProjectRepository
	logger      *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectRepo domain.ProjectRepository, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectHandler{projectRepo: projectRepo, logger: logger}
}

// Create handles POST /project
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var project domain.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		h.logger.Warn("failed to decode project", slog.String("error", err.Error()))
		writeErrorBody(w, http.StatusBadRequest, "Error adding new project")
		return
	}

	if err := h.projectRepo.Create(r.Context(), &project); err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Project added successfully"})
}

// List handles GET /projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectRepo.List(r.Context())
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	if len(projects) == 0 {
		writeErrorBody(w, http.StatusBadRequest, "Project not found")
		return
	}

	writeJSON(w, http.StatusOK, projects)
}
