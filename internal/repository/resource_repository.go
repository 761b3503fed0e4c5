package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyhub-app/studyhub-api/internal/models"
)

const resourceColumns = `id, user_id, title, description, subject, resource_type, url, content, tags, created_at, updated_at`

// ResourceRepository handles persistence of learning resources.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository constructs the repository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// List returns resources matching the filter, newest first.
func (r *ResourceRepository) List(ctx context.Context, filter models.ResourceFilter) ([]models.LearningResource, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("resource_type = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM learning_resources WHERE %s ORDER BY created_at DESC`,
		resourceColumns, strings.Join(conditions, " AND "))
	var resources []models.LearningResource
	if err := r.db.SelectContext(ctx, &resources, query, args...); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// FindByID returns one resource.
func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*models.LearningResource, error) {
	query := fmt.Sprintf(`SELECT %s FROM learning_resources WHERE id = $1 LIMIT 1`, resourceColumns)
	var resource models.LearningResource
	if err := r.db.GetContext(ctx, &resource, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return &resource, nil
}

// Create persists a new resource.
func (r *ResourceRepository) Create(ctx context.Context, resource *models.LearningResource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = now
	}
	resource.UpdatedAt = now
	const query = `INSERT INTO learning_resources (id, user_id, title, description, subject, resource_type, url, content, tags, created_at, updated_at)
        VALUES (:id, :user_id, :title, :description, :subject, :resource_type, :url, :content, :tags, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, resource); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a resource.
func (r *ResourceRepository) Update(ctx context.Context, resource *models.LearningResource) error {
	resource.UpdatedAt = time.Now().UTC()
	const query = `UPDATE learning_resources SET title = :title, description = :description, subject = :subject,
        resource_type = :resource_type, url = :url, content = :content, tags = :tags, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, resource); err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}

// Delete removes a resource.
func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM learning_resources WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}
