package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassRepositoryCodeExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM classes WHERE class_code = $1 LIMIT 1")).
		WithArgs("AB12CD").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.CodeExists(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryCodeExistsMiss(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM classes WHERE class_code = $1 LIMIT 1")).
		WithArgs("ZZ99ZZ").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.CodeExists(context.Background(), "ZZ99ZZ")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByCodeNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE class_code = $1 LIMIT 1")).
		WithArgs("NOPE00").
		WillReturnError(sql.ErrNoRows)

	class, err := repo.FindByCode(context.Background(), "NOPE00")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Nil(t, class)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "name", "subject", "grade_level", "schedule", "room", "description", "class_code", "created_at", "updated_at", "student_count"}).
		AddRow("class-1", "teacher-1", "Algebra II", "Math", "10", "MWF 9:00", "201", "", "AB12CD", time.Now(), time.Now(), 24)
	mock.ExpectQuery("FROM classes c").
		WithArgs("teacher-1").
		WillReturnRows(rows)

	classes, err := repo.ListByTeacher(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, 24, classes[0].StudentCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryUpdateCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET class_code = $2")).
		WithArgs("class-1", "XY34ZW").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCode(context.Background(), "class-1", "XY34ZW"))
	require.NoError(t, mock.ExpectationsWereMet())
}
