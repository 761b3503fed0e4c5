package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type mockQuizRepo struct {
	listByClassFn      func(ctx context.Context, classID string) ([]models.QuizSummary, error)
	listByTeacherFn    func(ctx context.Context, teacherID string) ([]models.QuizSummary, error)
	findByIDFn         func(ctx context.Context, id string) (*models.Quiz, error)
	createFn           func(ctx context.Context, quiz *models.Quiz) error
	updateFn           func(ctx context.Context, quiz *models.Quiz) error
	deleteFn           func(ctx context.Context, id string) error
	listQuestionsFn    func(ctx context.Context, quizID string) ([]models.QuizQuestion, error)
	findQuestionByIDFn func(ctx context.Context, id string) (*models.QuizQuestion, error)
	createQuestionFn   func(ctx context.Context, question *models.QuizQuestion) error
	updateQuestionFn   func(ctx context.Context, question *models.QuizQuestion) error
	deleteQuestionFn   func(ctx context.Context, id string) error
}

func (m *mockQuizRepo) ListByClass(ctx context.Context, classID string) ([]models.QuizSummary, error) {
	return m.listByClassFn(ctx, classID)
}

func (m *mockQuizRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.QuizSummary, error) {
	return m.listByTeacherFn(ctx, teacherID)
}

func (m *mockQuizRepo) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	return m.createFn(ctx, quiz)
}

func (m *mockQuizRepo) Update(ctx context.Context, quiz *models.Quiz) error {
	return m.updateFn(ctx, quiz)
}

func (m *mockQuizRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockQuizRepo) ListQuestions(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
	return m.listQuestionsFn(ctx, quizID)
}

func (m *mockQuizRepo) FindQuestionByID(ctx context.Context, id string) (*models.QuizQuestion, error) {
	return m.findQuestionByIDFn(ctx, id)
}

func (m *mockQuizRepo) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	return m.createQuestionFn(ctx, question)
}

func (m *mockQuizRepo) UpdateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	return m.updateQuestionFn(ctx, question)
}

func (m *mockQuizRepo) DeleteQuestion(ctx context.Context, id string) error {
	return m.deleteQuestionFn(ctx, id)
}

func quizListFixture() *mockQuizRepo {
	return &mockQuizRepo{
		listByClassFn: func(ctx context.Context, classID string) ([]models.QuizSummary, error) {
			return []models.QuizSummary{{Quiz: models.Quiz{ID: "quiz-1", ClassID: classID, Title: "Chapter 1"}}}, nil
		},
	}
}

func TestListByClassRejectsNonMember(t *testing.T) {
	listed := false
	repo := quizListFixture()
	inner := repo.listByClassFn
	repo.listByClassFn = func(ctx context.Context, classID string) ([]models.QuizSummary, error) {
		listed = true
		return inner(ctx, classID)
	}
	classes := &mockClassRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Class, error) {
			return &models.Class{ID: id, TeacherID: "owner"}, nil
		},
	}
	enrollments := &mockEnrollmentChecker{
		existsFn: func(ctx context.Context, classID, userID string) (bool, error) { return false, nil },
	}
	svc := NewQuizService(repo, classes, enrollments, nil, nil)

	_, err := svc.ListByClass(context.Background(), "class-1", &models.JWTClaims{UserID: "stranger", Role: models.RoleStudent})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	require.False(t, listed, "quizzes must not be fetched for a non-member")
}

func TestListByClassAllowsEnrolledStudent(t *testing.T) {
	classes := &mockClassRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Class, error) {
			return &models.Class{ID: id, TeacherID: "owner"}, nil
		},
	}
	enrollments := &mockEnrollmentChecker{
		existsFn: func(ctx context.Context, classID, userID string) (bool, error) {
			return classID == "class-1" && userID == "student-1", nil
		},
	}
	svc := NewQuizService(quizListFixture(), classes, enrollments, nil, nil)

	quizzes, err := svc.ListByClass(context.Background(), "class-1", &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
}

func TestListByClassAllowsOwnerWithoutEnrollmentLookup(t *testing.T) {
	classes := &mockClassRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Class, error) {
			return &models.Class{ID: id, TeacherID: "owner"}, nil
		},
	}
	enrollments := &mockEnrollmentChecker{
		existsFn: func(ctx context.Context, classID, userID string) (bool, error) {
			t.Fatal("enrollment must not be checked for the owning teacher")
			return false, nil
		},
	}
	svc := NewQuizService(quizListFixture(), classes, enrollments, nil, nil)

	quizzes, err := svc.ListByClass(context.Background(), "class-1", &models.JWTClaims{UserID: "owner", Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)

	quizzes, err = svc.ListByClass(context.Background(), "class-1", &models.JWTClaims{UserID: "someone-else", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
}
