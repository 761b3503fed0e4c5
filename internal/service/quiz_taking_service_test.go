package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type mockSubmissionRepo struct {
	createFn     func(ctx context.Context, submission *models.QuizSubmission) error
	findLatestFn func(ctx context.Context, quizID, userID string) (*models.QuizSubmission, error)
	listByQuizFn func(ctx context.Context, quizID string) ([]models.QuizSubmission, error)
}

func (m *mockSubmissionRepo) Create(ctx context.Context, submission *models.QuizSubmission) error {
	return m.createFn(ctx, submission)
}

func (m *mockSubmissionRepo) FindLatest(ctx context.Context, quizID, userID string) (*models.QuizSubmission, error) {
	return m.findLatestFn(ctx, quizID, userID)
}

func (m *mockSubmissionRepo) ListByQuiz(ctx context.Context, quizID string) ([]models.QuizSubmission, error) {
	return m.listByQuizFn(ctx, quizID)
}

type mockTakingQuizRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*models.Quiz, error)
	listQuestionsFn func(ctx context.Context, quizID string) ([]models.QuizQuestion, error)
}

func (m *mockTakingQuizRepo) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockTakingQuizRepo) ListQuestions(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
	return m.listQuestionsFn(ctx, quizID)
}

func newTakingService(subs *mockSubmissionRepo, quizzes *mockTakingQuizRepo, enrolled bool) *QuizTakingService {
	classes := &mockEnrollmentClassRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Class, error) {
			return &models.Class{ID: id, TeacherID: "teacher-1"}, nil
		},
	}
	checker := &mockEnrollmentChecker{
		existsFn: func(ctx context.Context, classID, userID string) (bool, error) { return enrolled, nil },
	}
	return NewQuizTakingService(subs, quizzes, classes, checker, nil, nil)
}

func TestGetForTakingStripsGradingKeys(t *testing.T) {
	quizzes := &mockTakingQuizRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Quiz, error) {
			return &models.Quiz{ID: id, ClassID: "class-1", Title: "Planets"}, nil
		},
		listQuestionsFn: func(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
			return sampleQuestions(), nil
		},
	}
	svc := newTakingService(&mockSubmissionRepo{}, quizzes, true)

	view, err := svc.GetForTaking(context.Background(), "quiz-1", "student-1")
	require.NoError(t, err)
	require.Len(t, view.Questions, 3)
	assert.Equal(t, []string{"Mercury", "Venus", "Mars"}, view.Questions[0].Options)
	for _, q := range view.Questions {
		assert.NotContains(t, q.Options, "", "options carry text only")
	}
}

func TestGetForTakingRequiresEnrollment(t *testing.T) {
	quizzes := &mockTakingQuizRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Quiz, error) {
			return &models.Quiz{ID: id, ClassID: "class-1"}, nil
		},
	}
	svc := newTakingService(&mockSubmissionRepo{}, quizzes, false)

	_, err := svc.GetForTaking(context.Background(), "quiz-1", "outsider")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmitGradesAndPersists(t *testing.T) {
	var stored *models.QuizSubmission
	subs := &mockSubmissionRepo{
		createFn: func(ctx context.Context, submission *models.QuizSubmission) error {
			stored = submission
			return nil
		},
	}
	quizzes := &mockTakingQuizRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Quiz, error) {
			return &models.Quiz{ID: id, ClassID: "class-1"}, nil
		},
		listQuestionsFn: func(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
			return sampleQuestions(), nil
		},
	}
	svc := newTakingService(subs, quizzes, true)

	submission, err := svc.Submit(context.Background(), "quiz-1", "student-1", models.SubmitQuizRequest{
		Answers: []models.SubmittedAnswer{
			{QuestionID: "q1", Answer: "Mercury"},
			{QuestionID: "q2", Answer: "false"},
		},
		TimeSpentSeconds: 300,
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, submission.Score)
	assert.Equal(t, 6, submission.TotalPoints)
	assert.Equal(t, 300, submission.TimeSpentSeconds)
	assert.Len(t, submission.Answers, 3, "unanswered questions are graded incorrect")
}

func TestResultsReturnsLatest(t *testing.T) {
	latest := &models.QuizSubmission{ID: "sub-2", Score: 9, SubmittedAt: time.Now()}
	subs := &mockSubmissionRepo{
		findLatestFn: func(ctx context.Context, quizID, userID string) (*models.QuizSubmission, error) {
			return latest, nil
		},
	}
	quizzes := &mockTakingQuizRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Quiz, error) {
			return &models.Quiz{ID: id, ClassID: "class-1"}, nil
		},
	}
	svc := newTakingService(subs, quizzes, true)

	submission, err := svc.Results(context.Background(), "quiz-1", "student-1")
	require.NoError(t, err)
	require.Equal(t, "sub-2", submission.ID)
}

func TestResultsNoSubmission(t *testing.T) {
	subs := &mockSubmissionRepo{
		findLatestFn: func(ctx context.Context, quizID, userID string) (*models.QuizSubmission, error) {
			return nil, sql.ErrNoRows
		},
	}
	quizzes := &mockTakingQuizRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Quiz, error) {
			return &models.Quiz{ID: id, ClassID: "class-1"}, nil
		},
	}
	svc := newTakingService(subs, quizzes, true)

	_, err := svc.Results(context.Background(), "quiz-1", "student-1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
