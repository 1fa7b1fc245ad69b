package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FiguringToCode/backend-workasana/internal/domain"
)

// PostgresTagRepository implements domain.TagRepository using PostgreSQL
type PostgresTagRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTagRepository creates a new tag repository
func NewPostgresTagRepository(db *sql.DB, logger *slog.Logger) *PostgresTagRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagRepository{db: db, logger: logger}
}

// Create persists a tag, assigning its id
func (r *PostgresTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tags (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, tag.ID, tag.Name).
		Scan(&tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create tag",
			slog.String("name", tag.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag by ID
func (r *PostgresTagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	t := &domain.Tag{}
	query := `
		SELECT id, name, created_at, updated_at
		FROM tags
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return t, nil
}

// List returns all tags
func (r *PostgresTagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM tags
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var out []*domain.Tag
	for rows.Next() {
		t := &domain.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
