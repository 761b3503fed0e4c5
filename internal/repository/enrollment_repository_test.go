package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
)

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM class_students WHERE class_id = $1 AND user_id = $2 LIMIT 1")).
		WithArgs("class-1", "student-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	enrolled, err := repo.Exists(context.Background(), "class-1", "student-1")
	require.NoError(t, err)
	require.True(t, enrolled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsMiss(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM class_students WHERE class_id = $1 AND user_id = $2 LIMIT 1")).
		WithArgs("class-1", "student-2").
		WillReturnError(sql.ErrNoRows)

	enrolled, err := repo.Exists(context.Background(), "class-1", "student-2")
	require.NoError(t, err)
	require.False(t, enrolled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO class_students").
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment := &models.Enrollment{ClassID: "class-1", UserID: "student-1"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.NotEmpty(t, enrollment.ID)
	require.False(t, enrollment.EnrolledAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListStudentsByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "enrolled_at", "member_since"}).
		AddRow("student-1", "Ana", "Gomez", "ana@example.com", time.Now(), time.Now()).
		AddRow("student-2", "Ben", "Lee", "ben@example.com", time.Now(), time.Now())
	mock.ExpectQuery("FROM class_students cs").
		WithArgs("class-1").
		WillReturnRows(rows)

	students, err := repo.ListStudentsByClass(context.Background(), "class-1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "Ana", students[0].FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}
