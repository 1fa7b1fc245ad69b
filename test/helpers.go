package test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
	"github.com/FiguringToCode/backend-workasana/internal/events"
	"github.com/FiguringToCode/backend-workasana/internal/handler"
	"github.com/FiguringToCode/backend-workasana/internal/infrastructure/logger"
	"github.com/FiguringToCode/backend-workasana/internal/security"
	"github.com/FiguringToCode/backend-workasana/internal/security/audit"
	"github.com/FiguringToCode/backend-workasana/internal/security/auth"
	"github.com/FiguringToCode/backend-workasana/internal/security/middleware"
	"github.com/FiguringToCode/backend-workasana/internal/security/ratelimit"
	"github.com/FiguringToCode/backend-workasana/internal/service"
	"github.com/FiguringToCode/backend-workasana/pkg/cache"
)

const (
	testJWTSecret   = "integration-jwt-secret"
	testAdminSecret = "integration-admin-secret"
)

// TestServerHelper wires the real handlers and middleware over in-memory
// repositories so the full HTTP surface can be exercised without Postgres.
type TestServerHelper struct {
	Server  *httptest.Server
	Logger  *slog.Logger
	Tokens  *auth.TokenManager
	limiter *ratelimit.Limiter
}

func NewTestServer(t *testing.T) *TestServerHelper {
	log := logger.NewLogger("debug")

	userRepo := newMemUserRepo()
	taskRepo := newMemTaskRepo()
	projectRepo := newMemProjectRepo()
	teamRepo := newMemTeamRepo()
	tagRepo := newMemTagRepo()

	tokenManager := auth.NewTokenManager(testJWTSecret, "workasana", time.Hour)
	authService := service.NewAuthService(userRepo, tokenManager, testAdminSecret, log)
	hub := events.NewHub()
	taskService := service.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, cache.NewMemory(), hub, time.Minute, log)

	limiter := ratelimit.NewLimiter(1000, time.Minute)
	auditLogger := audit.NewLogger(log)
	authz := security.NewAuthorizationService(false, log)

	adminLoginHandler := handler.NewAdminLoginHandler(authService, log)
	authHandler := handler.NewAuthHandler(authService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	projectHandler := handler.NewProjectHandler(projectRepo, log)
	teamHandler := handler.NewTeamHandler(teamRepo, log)
	userHandler := handler.NewUserHandler(authService, userRepo, log)
	tagHandler := handler.NewTagHandler(tagRepo, log)

	mux := http.NewServeMux()
	mux.Handle("POST /admin/login", adminLoginHandler)
	mux.HandleFunc("POST /user/signup", authHandler.Signup)
	mux.HandleFunc("POST /user/login", authHandler.Login)
	mux.HandleFunc("POST /tasks", taskHandler.Create)
	mux.HandleFunc("GET /tasks", taskHandler.List)
	mux.HandleFunc("POST /tasks/status/{taskId}", taskHandler.UpdateStatus)
	mux.HandleFunc("POST /project", projectHandler.Create)
	mux.HandleFunc("GET /projects", projectHandler.List)
	mux.HandleFunc("POST /teams", teamHandler.Create)
	mux.HandleFunc("GET /teams", teamHandler.List)
	mux.HandleFunc("POST /user", userHandler.Create)
	mux.HandleFunc("GET /user/{userId}", userHandler.GetByID)
	mux.HandleFunc("POST /tag", tagHandler.Create)
	mux.HandleFunc("GET /tags", tagHandler.List)

	root := middleware.AccessGate(tokenManager, log)(
		middleware.RateLimit(limiter, log)(
			middleware.RoleGuard(authz, auditLogger)(
				middleware.Audit(auditLogger)(
					middleware.ValidateJSONContentType(log)(mux),
				),
			),
		),
	)

	server := httptest.NewServer(root)
	t.Cleanup(func() {
		server.Close()
		limiter.Stop()
	})

	return &TestServerHelper{
		Server:  server,
		Logger:  log,
		Tokens:  tokenManager,
		limiter: limiter,
	}
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// In-memory repositories

type memUserRepo struct {
	byID       map[string]*domain.User
	byUsername map[string]*domain.User
	seq        int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*domain.User{}, byUsername: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == "" {
		m.seq++
		u.ID = fmt.Sprintf("u-%d", m.seq)
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = u
	m.byUsername[u.Username] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

type memTaskRepo struct {
	byID map[string]*domain.Task
	seq  int
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{byID: map[string]*domain.Task{}}
}

func (m *memTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if t.ID == "" {
		m.seq++
		t.ID = fmt.Sprintf("t-%d", m.seq)
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.byID[t.ID] = t
	return nil
}

func (m *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memTaskRepo) List(_ context.Context) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTaskRepo) UpdateFields(_ context.Context, id string, fields map[string]any) (*domain.Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s, ok := fields["status"].(string); ok {
		t.Status = s
	}
	if s, ok := fields["name"].(string); ok {
		t.Name = s
	}
	t.UpdatedAt = time.Now()
	return t, nil
}

func (m *memTaskRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, t := range m.byID {
		counts[t.Status]++
	}
	return counts, nil
}

type memProjectRepo struct {
	byID map[string]*domain.Project
	seq  int
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{byID: map[string]*domain.Project{}}
}

func (m *memProjectRepo) Create(_ context.Context, p *domain.Project) error {
	if p.ID == "" {
		m.seq++
		p.ID = fmt.Sprintf("p-%d", m.seq)
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.byID[p.ID] = p
	return nil
}

func (m *memProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memProjectRepo) List(_ context.Context) ([]*domain.Project, error) {
	out := []*domain.Project{}
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

type memTeamRepo struct {
	byID map[string]*domain.Team
	seq  int
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{byID: map[string]*domain.Team{}}
}

func (m *memTeamRepo) Create(_ context.Context, t *domain.Team) error {
	if t.ID == "" {
		m.seq++
		t.ID = fmt.Sprintf("tm-%d", m.seq)
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.byID[t.ID] = t
	return nil
}

func (m *memTeamRepo) GetByID(_ context.Context, id string) (*domain.Team, error) {
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memTeamRepo) List(_ context.Context) ([]*domain.Team, error) {
	out := []*domain.Team{}
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, nil
}

type memTagRepo struct {
	byID map[string]*domain.Tag
	seq  int
}

func newMemTagRepo() *memTagRepo {
	return &memTagRepo{byID: map[string]*domain.Tag{}}
}

func (m *memTagRepo) Create(_ context.Context, tag *domain.Tag) error {
	if tag.ID == "" {
		m.seq++
		tag.ID = fmt.Sprintf("tag-%d", m.seq)
	}
	tag.CreatedAt = time.Now()
	tag.UpdatedAt = tag.CreatedAt
	m.byID[tag.ID] = tag
	return nil
}

func (m *memTagRepo) GetByID(_ context.Context, id string) (*domain.Tag, error) {
	if tag, ok := m.byID[id]; ok {
		return tag, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memTagRepo) List(_ context.Context) ([]*domain.Tag, error) {
	out := []*domain.Tag{}
	for _, tag := range m.byID {
		out = append(out, tag)
	}
	return out, nil
}
