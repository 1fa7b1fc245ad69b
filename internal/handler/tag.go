package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
)

// TagHandler handles tag creation
type TagHandler struct {
	tagRepo domain.TagRepository
	logger  *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagRepo domain.TagRepository, logger *slog.Logger) *TagHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagHandler{tagRepo: tagRepo, logger: logger}
}

// Create handles POST /tag
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tag domain.Tag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil {
		h.logger.Warn("failed to decode tag", slog.String("error", err.Error()))
		writeErrorBody(w, http.StatusBadRequest, "Error adding tag")
		return
	}

	if err := h.tagRepo.Create(r.Context(), &tag); err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Tag added successfully"})
}

// List handles GET /tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagRepo.List(r.Context())
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	if len(tags) == 0 {
		writeErrorBody(w, http.StatusBadRequest, "Tags not found")
		return
	}

	writeJSON(w, http.StatusOK, tags)
}
