package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/FiguringToCode/backend-workasana/internal/service"
)

// AdminLoginHandler handles POST /admin/login
type AdminLoginHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAdminLoginHandler creates a new admin login handler
func NewAdminLoginHandler(authService *service.AuthService, logger *slog.Logger) *AdminLoginHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminLoginHandler{authService: authService, logger: logger}
}

// AdminLoginRequest carries the shared admin secret
type AdminLoginRequest struct {
	Secret string `json:"secret"`
}

// ServeHTTP verifies the admin secret. A wrong secret is reported in a 200
// response body rather than a 401; clients of this API have always keyed off
// the body message here, not the status code.
func (h *AdminLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode admin login request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Invalid Secret"})
		return
	}

	token, err := h.authService.AdminLogin(req.Secret)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidSecret) {
			writeErrorBody(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Invalid Secret"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"message": "Access Granted",
	})
}
