package domain

import (
	"context"
	"time"
)

// Task references its project, team and owners by id only. The ids are never
// validated against the referenced tables; a dangling reference resolves to
// null (project, team) or is skipped (owners) on expansion.
type Task struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	ProjectID      string    `json:"project"`
	TeamID         string    `json:"team"`
	Owners         []string  `json:"owners"`
	Tags           []string  `json:"tags"`
	TimeToComplete int       `json:"timeToComplete"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ExpandedTask is a Task with its references replaced by the referenced
// records. Unresolvable references are explicit: a nil Project or Team, an
// owners list containing only the users that resolved.
type ExpandedTask struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	Project        *Project  `json:"project"`
	Team           *Team     `json:"team"`
	Owners         []*User   `json:"owners"`
	Tags           []string  `json:"tags"`
	TimeToComplete int       `json:"timeToComplete"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Team represents a group of users
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Project represents a body of work tasks belong to
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tag is a freeform label
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskRepository defines data access for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context) ([]*Task, error)
	// UpdateFields merges the supplied fields into the stored record and
	// returns the updated task. Unknown fields are ignored.
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*Task, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// TeamRepository defines data access for teams
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id string) (*Team, error)
	List(ctx context.Context) ([]*Team, error)
}

// ProjectRepository defines data access for projects
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
}

// TagRepository defines data access for tags
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id string) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
}
