package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
)

// TeamHandler handles team creation and listing
type TeamHandler struct {
	teamRepo domain.TeamRepository
	logger   *slog.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamRepo domain.TeamRepository, logger *slog.Logger) *TeamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamHandler{teamRepo: teamRepo, logger: logger}
}

// Create handles POST /teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var team domain.Team
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		h.logger.Warn("failed to decode team", slog.String("error", err.Error()))
		writeErrorBody(w, http.StatusBadRequest, "Error adding new team.")
		return
	}

	if err := h.teamRepo.Create(r.Context(), &team); err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	// Message spelling matches the historical API response.
	writeJSON(w, http.StatusOK, map[string]string{"message": "Team added succesfully"})
}

// List handles GET /teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamRepo.List(r.Context())
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	if len(teams) == 0 {
		writeErrorBody(w, http.StatusBadRequest, "Teams not found")
		return
	}

	writeJSON(w, http.StatusOK, teams)
}
