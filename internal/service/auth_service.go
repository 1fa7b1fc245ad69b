package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
	"github.com/FiguringToCode/backend-workasana/internal/observability/metrics"
	"github.com/FiguringToCode/backend-workasana/internal/security/auth"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUsernameTooShort  = errors.New("username must be at least 5 characters")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidSecret     = errors.New("invalid secret")
)

const minUsernameLength = 5

// AuthService handles signup, user login and admin login
type AuthService struct {
	userRepo     domain.UserRepository
	tokenManager *auth.TokenManager
	adminSecret  []byte
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo domain.UserRepository,
	tokenManager *auth.TokenManager,
	adminSecret string,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		adminSecret:  []byte(adminSecret),
		logger:       logger,
	}
}

// AdminLogin checks the supplied secret against the configured admin secret
// and issues an admin token on match. The comparison is constant time.
func (s *AuthService) AdminLogin(secret string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(secret), s.adminSecret) != 1 {
		s.logger.Warn("admin login rejected")
		metrics.ObserveLogin("admin", "rejected")
		return "", ErrInvalidSecret
	}

	token, err := s.tokenManager.IssueAdminToken()
	if err != nil {
		s.logger.Error("failed to issue admin token", slog.String("error", err.Error()))
		return "", err
	}

	metrics.ObserveLogin("admin", "success")
	return token, nil
}

// Signup hashes the password and persists a new user. The plaintext password
// never reaches the repository.
func (s *AuthService) Signup(ctx context.Context, username, password, email string) (*domain.User, error) {
	if len(username) < minUsernameLength {
		return nil, ErrUsernameTooShort
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.ToLower(email),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login looks the user up by username, verifies the password and issues a
// user token embedding the id and username.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("login attempt with unknown username", slog.String("username", username))
			metrics.ObserveLogin("user", "unknown_username")
			return "", ErrInvalidUsername
		}
		return "", err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Info("login failed with wrong password", slog.String("username", username))
		metrics.ObserveLogin("user", "wrong_password")
		return "", ErrInvalidPassword
	}

	token, err := s.tokenManager.IssueUserToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error("failed to issue user token", slog.String("error", err.Error()))
		return "", err
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	metrics.ObserveLogin("user", "success")
	return token, nil
}

// CreateUser persists a user supplied through the authenticated POST /user
// route. The password is hashed exactly like signup; username length is not
// re-checked here because the store enforces the same uniqueness rules.
func (s *AuthService) CreateUser(ctx context.Context, username, password, email string) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.ToLower(email),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
