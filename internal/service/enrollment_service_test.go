package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	existsFn               func(ctx context.Context, classID, userID string) (bool, error)
	createFn               func(ctx context.Context, enrollment *models.Enrollment) error
	deleteFn               func(ctx context.Context, classID, userID string) error
	listStudentsByClassFn  func(ctx context.Context, classID string) ([]models.EnrolledStudent, error)
	listClassesByStudentFn func(ctx context.Context, userID string) ([]models.EnrolledClass, error)
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, classID, userID string) (bool, error) {
	return m.existsFn(ctx, classID, userID)
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return m.createFn(ctx, enrollment)
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, classID, userID string) error {
	return m.deleteFn(ctx, classID, userID)
}

func (m *mockEnrollmentRepo) ListStudentsByClass(ctx context.Context, classID string) ([]models.EnrolledStudent, error) {
	return m.listStudentsByClassFn(ctx, classID)
}

func (m *mockEnrollmentRepo) ListClassesByStudent(ctx context.Context, userID string) ([]models.EnrolledClass, error) {
	return m.listClassesByStudentFn(ctx, userID)
}

type mockEnrollmentClassRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*models.Class, error)
	findByCodeFn func(ctx context.Context, code string) (*models.Class, error)
}

func (m *mockEnrollmentClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockEnrollmentClassRepo) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	return m.findByCodeFn(ctx, code)
}

func TestJoinByCodeSuccess(t *testing.T) {
	var created *models.Enrollment
	repo := &mockEnrollmentRepo{
		existsFn: func(ctx context.Context, classID, userID string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, enrollment *models.Enrollment) error {
			created = enrollment
			return nil
		},
	}
	classes := &mockEnrollmentClassRepo{
		findByCodeFn: func(ctx context.Context, code string) (*models.Class, error) {
			require.Equal(t, "AB12CD", code)
			return &models.Class{ID: "class-1", TeacherID: "teacher-1", ClassCode: code}, nil
		},
	}
	svc := NewEnrollmentService(repo, classes, nil, nil)

	class, err := svc.JoinByCode(context.Background(), "student-1", models.JoinClassRequest{ClassCode: "ab12cd"})
	require.NoError(t, err)
	require.Equal(t, "class-1", class.ID)
	require.NotNil(t, created)
	require.Equal(t, "student-1", created.UserID)
}

func TestJoinByCodeUnknownCode(t *testing.T) {
	classes := &mockEnrollmentClassRepo{
		findByCodeFn: func(ctx context.Context, code string) (*models.Class, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, classes, nil, nil)

	_, err := svc.JoinByCode(context.Background(), "student-1", models.JoinClassRequest{ClassCode: "ZZ99ZZ"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestJoinByCodeAlreadyEnrolled(t *testing.T) {
	repo := &mockEnrollmentRepo{
		existsFn: func(ctx context.Context, classID, userID string) (bool, error) { return true, nil },
		createFn: func(ctx context.Context, enrollment *models.Enrollment) error {
			t.Fatal("create must not be called for an enrolled student")
			return nil
		},
	}
	classes := &mockEnrollmentClassRepo{
		findByCodeFn: func(ctx context.Context, code string) (*models.Class, error) {
			return &models.Class{ID: "class-1", TeacherID: "teacher-1"}, nil
		},
	}
	svc := NewEnrollmentService(repo, classes, nil, nil)

	_, err := svc.JoinByCode(context.Background(), "student-1", models.JoinClassRequest{ClassCode: "AB12CD"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestRemoveStudentRequiresOwnership(t *testing.T) {
	classes := &mockEnrollmentClassRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Class, error) {
			return &models.Class{ID: id, TeacherID: "owner"}, nil
		},
	}
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, classes, nil, nil)

	err := svc.RemoveStudent(context.Background(), "class-1", "intruder", "student-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestListStudentsForbiddenForOutsiders(t *testing.T) {
	repo := &mockEnrollmentRepo{
		existsFn: func(ctx context.Context, classID, userID string) (bool, error) { return false, nil },
	}
	classes := &mockEnrollmentClassRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Class, error) {
			return &models.Class{ID: id, TeacherID: "owner"}, nil
		},
	}
	svc := NewEnrollmentService(repo, classes, nil, nil)

	_, err := svc.ListStudents(context.Background(), "class-1", &models.JWTClaims{UserID: "outsider", Role: models.RoleStudent})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}
