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

const sessionColumns = `id, user_id, subject, topic, session_date, start_time, duration_minutes, pomodoro_count, completed, created_at, updated_at`

// StudySessionRepository handles persistence of study sessions.
type StudySessionRepository struct {
	db *sqlx.DB
}

// NewStudySessionRepository constructs the repository.
func NewStudySessionRepository(db *sqlx.DB) *StudySessionRepository {
	return &StudySessionRepository{db: db}
}

// List returns sessions matching the filter, newest session date first.
func (r *StudySessionRepository) List(ctx context.Context, filter models.StudySessionFilter) ([]models.StudySession, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("session_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("session_date <= $%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM study_sessions WHERE %s ORDER BY session_date DESC, start_time DESC`,
		sessionColumns, strings.Join(conditions, " AND "))
	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	return sessions, nil
}

// ListSince returns a user's sessions on or after the cutoff date.
func (r *StudySessionRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]models.StudySession, error) {
	query := fmt.Sprintf(`SELECT %s FROM study_sessions WHERE user_id = $1 AND session_date >= $2
        ORDER BY session_date DESC`, sessionColumns)
	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, userID, since); err != nil {
		return nil, fmt.Errorf("list sessions since: %w", err)
	}
	return sessions, nil
}

// ListRecent returns the newest sessions of a user.
func (r *StudySessionRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.StudySession, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM study_sessions WHERE user_id = $1
        ORDER BY session_date DESC, start_time DESC LIMIT %d`, sessionColumns, limit)
	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	return sessions, nil
}

// ListUpcoming returns not-yet-completed sessions dated today or later.
func (r *StudySessionRepository) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]models.StudySession, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM study_sessions WHERE user_id = $1 AND completed = FALSE AND session_date >= $2
        ORDER BY session_date ASC, start_time ASC LIMIT %d`, sessionColumns, limit)
	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, userID, from); err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	return sessions, nil
}

// FindByID returns one session.
func (r *StudySessionRepository) FindByID(ctx context.Context, id string) (*models.StudySession, error) {
	query := fmt.Sprintf(`SELECT %s FROM study_sessions WHERE id = $1 LIMIT 1`, sessionColumns)
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find study session: %w", err)
	}
	return &session, nil
}

// Create persists a new session.
func (r *StudySessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	const query = `INSERT INTO study_sessions (id, user_id, subject, topic, session_date, start_time, duration_minutes, pomodoro_count, completed, created_at, updated_at)
        VALUES (:id, :user_id, :subject, :topic, :session_date, :start_time, :duration_minutes, :pomodoro_count, :completed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create study session: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a session.
func (r *StudySessionRepository) Update(ctx context.Context, session *models.StudySession) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE study_sessions SET subject = :subject, topic = :topic, session_date = :session_date,
        start_time = :start_time, duration_minutes = :duration_minutes, pomodoro_count = :pomodoro_count,
        completed = :completed, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update study session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (r *StudySessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM study_sessions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete study session: %w", err)
	}
	return nil
}

// SumDurationByUser returns a user's total minutes across all sessions.
func (r *StudySessionRepository) SumDurationByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, userID); err != nil {
		return 0, fmt.Errorf("sum session duration: %w", err)
	}
	return total, nil
}

// CountByUser returns a user's total number of sessions.
func (r *StudySessionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM study_sessions WHERE user_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count study sessions: %w", err)
	}
	return count, nil
}
