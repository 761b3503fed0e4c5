package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type mockClassRepo struct {
	listByTeacherFn  func(ctx context.Context, teacherID string) ([]models.ClassDetail, error)
	findByIDFn       func(ctx context.Context, id string) (*models.Class, error)
	findDetailByIDFn func(ctx context.Context, id string) (*models.ClassDetail, error)
	codeExistsFn     func(ctx context.Context, code string) (bool, error)
	createFn         func(ctx context.Context, class *models.Class) error
	updateFn         func(ctx context.Context, class *models.Class) error
	updateCodeFn     func(ctx context.Context, id, code string) error
	deleteFn         func(ctx context.Context, id string) error
}

func (m *mockClassRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassDetail, error) {
	return m.listByTeacherFn(ctx, teacherID)
}

func (m *mockClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockClassRepo) FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	return m.findDetailByIDFn(ctx, id)
}

func (m *mockClassRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	return m.codeExistsFn(ctx, code)
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	return m.createFn(ctx, class)
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	return m.updateFn(ctx, class)
}

func (m *mockClassRepo) UpdateCode(ctx context.Context, id, code string) error {
	return m.updateCodeFn(ctx, id, code)
}

func (m *mockClassRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockEnrollmentChecker struct {
	existsFn func(ctx context.Context, classID, userID string) (bool, error)
}

func (m *mockEnrollmentChecker) Exists(ctx context.Context, classID, userID string) (bool, error) {
	return m.existsFn(ctx, classID, userID)
}

func TestGenerateClassCodeShape(t *testing.T) {
	repo := &mockClassRepo{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) { return false, nil },
	}
	svc := NewClassService(repo, nil, nil, nil)

	for i := 0; i < 50; i++ {
		code, err := svc.GenerateClassCode(context.Background())
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.Contains(t, classCodeAlphabet, string(r))
		}
	}
}

func TestGenerateClassCodeRetriesOnCollision(t *testing.T) {
	var drawn []string
	repo := &mockClassRepo{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) {
			drawn = append(drawn, code)
			return len(drawn) == 1, nil
		},
	}
	svc := NewClassService(repo, nil, nil, nil)

	code, err := svc.GenerateClassCode(context.Background())
	require.NoError(t, err)
	require.Len(t, drawn, 2, "one collision means exactly one redraw")
	require.Equal(t, drawn[1], code)
}

func TestCreateClassStoresGeneratedCode(t *testing.T) {
	var created *models.Class
	repo := &mockClassRepo{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, class *models.Class) error {
			created = class
			return nil
		},
	}
	svc := NewClassService(repo, nil, nil, nil)

	class, err := svc.Create(context.Background(), "teacher-1", models.ClassCreateRequest{
		Name:    "Biology",
		Subject: "Science",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, "teacher-1", class.TeacherID)
	require.Len(t, class.ClassCode, 6)
	require.Equal(t, strings.ToUpper(class.ClassCode), class.ClassCode)
}

func TestCreateClassRejectsInvalidPayload(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), "teacher-1", models.ClassCreateRequest{Name: "Missing subject"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUpdateClassForbiddenForOtherTeacher(t *testing.T) {
	repo := &mockClassRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Class, error) {
			return &models.Class{ID: id, TeacherID: "owner"}, nil
		},
	}
	svc := NewClassService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "class-1", "intruder", models.ClassUpdateRequest{
		Name:    "Renamed",
		Subject: "Math",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}
