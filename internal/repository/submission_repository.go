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

const submissionColumns = `id, quiz_id, user_id, answers, score, total_points, time_spent_seconds, submitted_at`

// SubmissionRepository handles persistence of quiz submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create appends a new submission row. Resubmissions are not deduplicated.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.QuizSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO quiz_submissions (id, quiz_id, user_id, answers, score, total_points, time_spent_seconds, submitted_at)
        VALUES (:id, :quiz_id, :user_id, :answers, :score, :total_points, :time_spent_seconds, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create quiz submission: %w", err)
	}
	return nil
}

// FindLatest returns the newest submission of a student for a quiz.
func (r *SubmissionRepository) FindLatest(ctx context.Context, quizID, userID string) (*models.QuizSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_submissions WHERE quiz_id = $1 AND user_id = $2
        ORDER BY submitted_at DESC LIMIT 1`, submissionColumns)
	var submission models.QuizSubmission
	if err := r.db.GetContext(ctx, &submission, query, quizID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find latest submission: %w", err)
	}
	return &submission, nil
}

// ListByQuiz returns every submission for a quiz, newest first.
func (r *SubmissionRepository) ListByQuiz(ctx context.Context, quizID string) ([]models.QuizSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_submissions WHERE quiz_id = $1 ORDER BY submitted_at DESC`, submissionColumns)
	var submissions []models.QuizSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, quizID); err != nil {
		return nil, fmt.Errorf("list quiz submissions: %w", err)
	}
	return submissions, nil
}

// ListByUserSince returns a user's submissions newer than the cutoff.
func (r *SubmissionRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]models.QuizSubmission, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_submissions WHERE user_id = $1 AND submitted_at >= $2
        ORDER BY submitted_at DESC`, submissionColumns)
	var submissions []models.QuizSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, userID, since); err != nil {
		return nil, fmt.Errorf("list user submissions: %w", err)
	}
	return submissions, nil
}

// ListRecentByUser returns the newest submissions of a user.
func (r *SubmissionRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.QuizSubmission, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM quiz_submissions WHERE user_id = $1 ORDER BY submitted_at DESC LIMIT %d`, submissionColumns, limit)
	var submissions []models.QuizSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, userID); err != nil {
		return nil, fmt.Errorf("list recent submissions: %w", err)
	}
	return submissions, nil
}

// CountByUser returns a user's total number of submissions.
func (r *SubmissionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM quiz_submissions WHERE user_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}
