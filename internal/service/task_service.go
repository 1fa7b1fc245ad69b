package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
	"github.com/FiguringToCode/backend-workasana/internal/events"
	"github.com/FiguringToCode/backend-workasana/pkg/cache"
)

const expandedTasksKey = "tasks:expanded"

// TaskService creates and updates tasks and serves expanded reads. Expanded
// lists are cached; every write invalidates the cache and publishes an event
// to the hub.
type TaskService struct {
	taskRepo    domain.TaskRepository
	projectRepo domain.ProjectRepository
	teamRepo    domain.TeamRepository
	userRepo    domain.UserRepository
	cache       cache.Store
	hub         *events.Hub
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo domain.TaskRepository,
	projectRepo domain.ProjectRepository,
	teamRepo domain.TeamRepository,
	userRepo domain.UserRepository,
	cacheStore cache.Store,
	hub *events.Hub,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		cache:       cacheStore,
		hub:         hub,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Create stores the task with its raw reference ids. Referenced entities are
// not required to exist.
func (s *TaskService) Create(ctx context.Context, task *domain.Task) error {
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return err
	}

	s.invalidate(ctx)
	if s.hub != nil {
		s.hub.Publish(events.Event{Type: events.TypeTaskCreated, Task: task})
	}
	return nil
}

// ListExpanded returns every task with its project, team and owners replaced
// by the referenced records. A dangling project or team reference resolves to
// null; dangling owner ids are skipped.
func (s *TaskService) ListExpanded(ctx context.Context) ([]*domain.ExpandedTask, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, expandedTasksKey); ok {
			var expanded []*domain.ExpandedTask
			if err := json.Unmarshal([]byte(cached), &expanded); err == nil {
				return expanded, nil
			}
			s.cache.Delete(ctx, expandedTasksKey)
		}
	}

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	expanded := make([]*domain.ExpandedTask, 0, len(tasks))
	for _, task := range tasks {
		et, err := s.expand(ctx, task)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, et)
	}

	if s.cache != nil {
		if data, err := json.Marshal(expanded); err == nil {
			s.cache.Set(ctx, expandedTasksKey, string(data), s.cacheTTL)
		}
	}

	return expanded, nil
}

// UpdateFields merges the supplied fields into the task and returns the
// updated record. Returns domain.ErrNotFound when no task matches.
func (s *TaskService) UpdateFields(ctx context.Context, id string, fields map[string]any) (*domain.Task, error) {
	task, err := s.taskRepo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	if s.hub != nil {
		s.hub.Publish(events.Event{Type: events.TypeTaskUpdated, Task: task})
	}
	return task, nil
}

// expand resolves the task's references in order: project, team, owners.
// Each lookup is independent; resolution order carries no meaning.
func (s *TaskService) expand(ctx context.Context, task *domain.Task) (*domain.ExpandedTask, error) {
	et := &domain.ExpandedTask{
		ID:             task.ID,
		Name:           task.Name,
		Status:         task.Status,
		Owners:         []*domain.User{},
		Tags:           task.Tags,
		TimeToComplete: task.TimeToComplete,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if task.ProjectID != "" {
		project, err := s.projectRepo.GetByID(ctx, task.ProjectID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		et.Project = project
	}

	if task.TeamID != "" {
		team, err := s.teamRepo.GetByID(ctx, task.TeamID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		et.Team = team
	}

	for _, ownerID := range task.Owners {
		owner, err := s.userRepo.GetByID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		et.Owners = append(et.Owners, owner)
	}

	return et, nil
}

func (s *TaskService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, expandedTasksKey)
	}
}
