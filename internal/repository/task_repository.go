package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
)

// taskColumns maps the mutable JSON field names accepted by the partial
// update onto their columns. Fields outside this set are ignored.
var taskColumns = map[string]string{
	"name":           "name",
	"status":         "status",
	"project":        "project_id",
	"team":           "team_id",
	"owners":         "owners",
	"tags":           "tags",
	"timeToComplete": "time_to_complete",
}

// PostgresTaskRepository implements domain.TaskRepository using PostgreSQL
type PostgresTaskRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskRepository creates a new task repository
func NewPostgresTaskRepository(db *sql.DB, logger *slog.Logger) *PostgresTaskRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskRepository{db: db, logger: logger}
}

// Create persists a task with its status and raw reference ids. Referenced
// project, team and owner ids are not validated against their tables.
func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tasks (id, name, status, project_id, team_id, owners, tags, time_to_complete)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		task.ID,
		task.Name,
		task.Status,
		task.ProjectID,
		task.TeamID,
		textArray(task.Owners),
		textArray(task.Tags),
		task.TimeToComplete,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create task",
			slog.String("name", task.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `
		SELECT id, name, status, project_id, team_id, owners, tags, time_to_complete, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// List returns all tasks
func (r *PostgresTaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	query := `
		SELECT id, name, status, project_id, team_id, owners, tags, time_to_complete, created_at, updated_at
		FROM tasks
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateFields merges the supplied fields into the existing task record and
// returns the updated row. Returns domain.ErrNotFound when no task matches.
// Concurrent updates to the same task are serialized by the store's own row
// ordering; last writer wins.
func (r *PostgresTaskRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*domain.Task, error) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)

	for field, value := range fields {
		column, ok := taskColumns[field]
		if !ok {
			continue
		}
		args = append(args, toColumnValue(column, value))
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id = $%d
		RETURNING id, name, status, project_id, team_id, owners, tags, time_to_complete, created_at, updated_at
	`, strings.Join(sets, ", "), len(args))

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to update task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// CountByStatus returns the number of tasks per status value
func (r *PostgresTaskRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT status, count(*)
		FROM tasks
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan task count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	task := &domain.Task{}
	var owners, tags pq.StringArray

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Status,
		&task.ProjectID,
		&task.TeamID,
		&owners,
		&tags,
		&task.TimeToComplete,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Owners = []string(owners)
	task.Tags = []string(tags)
	return task, nil
}

// textArray converts a slice to its array driver value. A nil slice maps to
// an empty array, never SQL NULL; the owners and tags columns are NOT NULL
// and tasks are routinely created without either.
func textArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}

// toColumnValue converts a decoded JSON value into a driver value for its
// column. Array columns arrive as []any from the JSON decoder.
func toColumnValue(column string, value any) any {
	if column != "owners" && column != "tags" {
		return value
	}

	switch v := value.(type) {
	case []string:
		return textArray(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return textArray(out)
	default:
		return textArray(nil)
	}
}
