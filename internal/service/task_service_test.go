package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
	"github.com/FiguringToCode/backend-workasana/internal/events"
	"github.com/FiguringToCode/backend-workasana/pkg/cache"
)

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
	for k, v := range fields {
		switch k {
		case "name":
			if s, ok := v.(string); ok {
				t.Name = s
			}
		case "status":
			if s, ok := v.(string); ok {
				t.Status = s
			}
		case "timeToComplete":
			switch n := v.(type) {
			case int:
				t.TimeToComplete = n
			case float64:
				t.TimeToComplete = int(n)
			}
		}
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
}

func (m *memProjectRepo) Create(_ context.Context, p *domain.Project) error {
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
}

func (m *memTeamRepo) Create(_ context.Context, t *domain.Team) error {
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

func newTaskTestService() (*TaskService, *memTaskRepo, *memProjectRepo, *memTeamRepo, *memUserRepo) {
	taskRepo := newMemTaskRepo()
	projectRepo := &memProjectRepo{byID: map[string]*domain.Project{}}
	teamRepo := &memTeamRepo{byID: map[string]*domain.Team{}}
	userRepo := newMemUserRepo()
	svc := NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, cache.NewMemory(), events.NewHub(), time.Minute, nil)
	return svc, taskRepo, projectRepo, teamRepo, userRepo
}

func TestListExpandedResolvesReferences(t *testing.T) {
	ctx := context.Background()
	svc, _, projectRepo, teamRepo, userRepo := newTaskTestService()

	projectRepo.Create(ctx, &domain.Project{ID: "p-1", Name: "Launch"})
	teamRepo.Create(ctx, &domain.Team{ID: "tm-1", Name: "Platform"})
	owner := &domain.User{Username: "alice1"}
	userRepo.Create(ctx, owner)

	task := &domain.Task{
		Name:      "Ship it",
		Status:    "In Progress",
		ProjectID: "p-1",
		TeamID:    "tm-1",
		Owners:    []string{owner.ID},
	}
	if err := svc.Create(ctx, task); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	expanded, err := svc.ListExpanded(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(expanded) != 1 {
		t.Fatalf("expected 1 task, got %d", len(expanded))
	}
	et := expanded[0]
	if et.Project == nil || et.Project.Name != "Launch" {
		t.Fatalf("project not expanded: %+v", et.Project)
	}
	if et.Team == nil || et.Team.Name != "Platform" {
		t.Fatalf("team not expanded: %+v", et.Team)
	}
	if len(et.Owners) != 1 || et.Owners[0].Username != "alice1" {
		t.Fatalf("owners not expanded: %+v", et.Owners)
	}
}

func TestListExpandedDanglingReferences(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, userRepo := newTaskTestService()

	owner := &domain.User{Username: "bob99"}
	userRepo.Create(ctx, owner)

	task := &domain.Task{
		Name:      "Orphan",
		Status:    "To Do",
		ProjectID: "missing-project",
		TeamID:    "missing-team",
		Owners:    []string{"missing-user", owner.ID},
	}
	if err := svc.Create(ctx, task); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	expanded, err := svc.ListExpanded(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	et := expanded[0]
	if et.Project != nil {
		t.Fatalf("dangling project must resolve to nil, got %+v", et.Project)
	}
	if et.Team != nil {
		t.Fatalf("dangling team must resolve to nil, got %+v", et.Team)
	}
	if len(et.Owners) != 1 || et.Owners[0].Username != "bob99" {
		t.Fatalf("dangling owner must be skipped, got %+v", et.Owners)
	}
}

func TestUpdateFieldsMergesAndInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newTaskTestService()

	task := &domain.Task{Name: "Draft", Status: "To Do", TimeToComplete: 3}
	if err := svc.Create(ctx, task); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Prime the cache
	if _, err := svc.ListExpanded(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	updated, err := svc.UpdateFields(ctx, task.ID, map[string]any{"status": "Completed"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != "Completed" {
		t.Fatalf("status not updated: %q", updated.Status)
	}
	if updated.Name != "Draft" || updated.TimeToComplete != 3 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	// The next list must observe the write, not a stale cache entry
	expanded, err := svc.ListExpanded(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if expanded[0].Status != "Completed" {
		t.Fatalf("cache served stale status %q", expanded[0].Status)
	}
}

func TestUpdateFieldsUnknownTask(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newTaskTestService()

	if _, err := svc.UpdateFields(ctx, "missing", map[string]any{"status": "Done"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWritesPublishEvents(t *testing.T) {
	ctx := context.Background()
	taskRepo := newMemTaskRepo()
	projectRepo := &memProjectRepo{byID: map[string]*domain.Project{}}
	teamRepo := &memTeamRepo{byID: map[string]*domain.Team{}}
	userRepo := newMemUserRepo()
	hub := events.NewHub()
	svc := NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, cache.NewMemory(), hub, time.Minute, nil)

	ch, cancelSub := hub.Subscribe()
	defer cancelSub()

	task := &domain.Task{Name: "Announce", Status: "To Do"}
	if err := svc.Create(ctx, task); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Type != events.TypeTaskCreated {
			t.Fatalf("expected %q event, got %q", events.TypeTaskCreated, ev.Type)
		}
		if ev.Task == nil || ev.Task.ID != task.ID {
			t.Fatalf("event carries wrong task: %+v", ev.Task)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event published for create")
	}
}
