package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyhub-app/studyhub-api/internal/models"
)

const goalColumns = `id, user_id, title, description, target_date, completed, created_at, updated_at`

// GoalRepository handles persistence of study goals.
type GoalRepository struct {
	db *sqlx.DB
}

// NewGoalRepository constructs the repository.
func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// ListByUser returns a user's goals, newest first.
func (r *GoalRepository) ListByUser(ctx context.Context, userID string) ([]models.StudyGoal, error) {
	query := fmt.Sprintf(`SELECT %s FROM study_goals WHERE user_id = $1 ORDER BY created_at DESC`, goalColumns)
	var goals []models.StudyGoal
	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, fmt.Errorf("list study goals: %w", err)
	}
	return goals, nil
}

// FindByID returns one goal.
func (r *GoalRepository) FindByID(ctx context.Context, id string) (*models.StudyGoal, error) {
	query := fmt.Sprintf(`SELECT %s FROM study_goals WHERE id = $1 LIMIT 1`, goalColumns)
	var goal models.StudyGoal
	if err := r.db.GetContext(ctx, &goal, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find study goal: %w", err)
	}
	return &goal, nil
}

// Create persists a new goal.
func (r *GoalRepository) Create(ctx context.Context, goal *models.StudyGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	const query = `INSERT INTO study_goals (id, user_id, title, description, target_date, completed, created_at, updated_at)
        VALUES (:id, :user_id, :title, :description, :target_date, :completed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("create study goal: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a goal.
func (r *GoalRepository) Update(ctx context.Context, goal *models.StudyGoal) error {
	goal.UpdatedAt = time.Now().UTC()
	const query = `UPDATE study_goals SET title = :title, description = :description, target_date = :target_date,
        completed = :completed, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("update study goal: %w", err)
	}
	return nil
}

// SetCompleted flips a goal's completion flag.
func (r *GoalRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	const query = `UPDATE study_goals SET completed = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, completed); err != nil {
		return fmt.Errorf("set goal completed: %w", err)
	}
	return nil
}

// Delete removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM study_goals WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete study goal: %w", err)
	}
	return nil
}
