package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
)

func TestSubmissionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec("INSERT INTO quiz_submissions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	submission := &models.QuizSubmission{
		QuizID:      "quiz-1",
		UserID:      "student-1",
		Score:       8,
		TotalPoints: 10,
	}
	require.NoError(t, repo.Create(context.Background(), submission))
	require.NotEmpty(t, submission.ID)
	require.False(t, submission.SubmittedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryFindLatest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	newest := time.Now()
	rows := sqlmock.NewRows([]string{"id", "quiz_id", "user_id", "answers", "score", "total_points", "time_spent_seconds", "submitted_at"}).
		AddRow("sub-2", "quiz-1", "student-1", []byte(`[]`), 9, 10, 420, newest)
	mock.ExpectQuery("ORDER BY submitted_at DESC LIMIT 1").
		WithArgs("quiz-1", "student-1").
		WillReturnRows(rows)

	submission, err := repo.FindLatest(context.Background(), "quiz-1", "student-1")
	require.NoError(t, err)
	require.Equal(t, "sub-2", submission.ID)
	require.Equal(t, 9, submission.Score)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryFindLatestNone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery("ORDER BY submitted_at DESC LIMIT 1").
		WithArgs("quiz-1", "student-9").
		WillReturnError(sql.ErrNoRows)

	submission, err := repo.FindLatest(context.Background(), "quiz-1", "student-9")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Nil(t, submission)
	require.NoError(t, mock.ExpectationsWereMet())
}
