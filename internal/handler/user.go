package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
	"github.com/FiguringToCode/backend-workasana/internal/service"
)

// UserHandler handles the authenticated user routes: creating users on
// behalf of others and fetching a user by id.
type UserHandler struct {
	authService *service.AuthService
	userRepo    domain.UserRepository
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService, userRepo domain.UserRepository, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{authService: authService, userRepo: userRepo, logger: logger}
}

// CreateUserRequest represents the POST /user body
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Create handles POST /user. The password is hashed before persisting, the
// same as signup.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode user", slog.String("error", err.Error()))
		writeErrorBody(w, http.StatusBadRequest, "Error adding new user")
		return
	}

	if _, err := h.authService.CreateUser(r.Context(), req.Username, req.Password, req.Email); err != nil {
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User added successfully"})
}

// GetByID handles GET /user/{userId}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeErrorBody(w, http.StatusBadRequest, "Not found user by id")
			return
		}
		writeErrorBody(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, user)
}
