package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type submissionRepository interface {
	Create(ctx context.Context, submission *models.QuizSubmission) error
	FindLatest(ctx context.Context, quizID, userID string) (*models.QuizSubmission, error)
	ListByQuiz(ctx context.Context, quizID string) ([]models.QuizSubmission, error)
}

type takingQuizRepository interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	ListQuestions(ctx context.Context, quizID string) ([]models.QuizQuestion, error)
}

// QuizTakingService serves quizzes to students and grades submissions.
type QuizTakingService struct {
	submissions submissionRepository
	quizzes     takingQuizRepository
	classes     quizClassRepository
	enrollments classEnrollmentChecker
	progress    *ProgressService
	validator   *validator.Validate
	logger      *zap.Logger
}

// AttachProgressCache registers the progress service so cached stats are
// invalidated when a new submission lands.
func (s *QuizTakingService) AttachProgressCache(progress *ProgressService) {
	s.progress = progress
}

// NewQuizTakingService constructs a QuizTakingService instance.
func NewQuizTakingService(submissions submissionRepository, quizzes takingQuizRepository, classes quizClassRepository, enrollments classEnrollmentChecker, validate *validator.Validate, logger *zap.Logger) *QuizTakingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &QuizTakingService{
		submissions: submissions,
		quizzes:     quizzes,
		classes:     classes,
		enrollments: enrollments,
		validator:   validate,
		logger:      logger,
	}
}

// GetForTaking returns a quiz with its questions stripped of grading keys.
// Only students enrolled in the quiz's class may take it.
func (s *QuizTakingService) GetForTaking(ctx context.Context, quizID, userID string) (*models.TakeQuizView, error) {
	quiz, err := s.enrolledQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.quizzes.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}

	view := &models.TakeQuizView{Quiz: *quiz, Questions: make([]models.TakeQuestion, 0, len(questions))}
	for _, q := range questions {
		take := models.TakeQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			OrderIndex:   q.OrderIndex,
		}
		for _, opt := range q.Options {
			take.Options = append(take.Options, opt.OptionText)
		}
		view.Questions = append(view.Questions, take)
	}
	return view, nil
}

// Submit grades the student's answers and stores a new submission row.
// Submitting again appends another attempt.
func (s *QuizTakingService) Submit(ctx context.Context, quizID, userID string, req models.SubmitQuizRequest) (*models.QuizSubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	quiz, err := s.enrolledQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.quizzes.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}

	graded := Grade(questions, req.Answers)
	submission := &models.QuizSubmission{
		QuizID:           quiz.ID,
		UserID:           userID,
		Answers:          graded.Answers,
		Score:            graded.Score,
		TotalPoints:      graded.TotalPoints,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store submission")
	}
	if s.progress != nil {
		s.progress.InvalidateUser(ctx, userID)
	}

	s.logger.Info("quiz submitted",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID),
		zap.Int("score", submission.Score),
		zap.Int("total_points", submission.TotalPoints))
	return submission, nil
}

// Results returns the student's latest submission for a quiz.
func (s *QuizTakingService) Results(ctx context.Context, quizID, userID string) (*models.QuizSubmission, error) {
	if _, err := s.enrolledQuiz(ctx, quizID, userID); err != nil {
		return nil, err
	}

	submission, err := s.submissions.FindLatest(ctx, quizID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no submission for this quiz")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// ListSubmissions returns every submission for a quiz. Only the owning
// teacher may list them.
func (s *QuizTakingService) ListSubmissions(ctx context.Context, quizID, teacherID string) ([]models.QuizSubmission, error) {
	quiz, err := s.findQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	class, err := s.findClass(ctx, quiz.ClassID)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "quiz belongs to another teacher")
	}

	submissions, err := s.submissions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

func (s *QuizTakingService) enrolledQuiz(ctx context.Context, quizID, userID string) (*models.Quiz, error) {
	quiz, err := s.findQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.Exists(ctx, quiz.ClassID, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in this quiz's class")
	}
	return quiz, nil
}

func (s *QuizTakingService) findQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}
	return quiz, nil
}

func (s *QuizTakingService) findClass(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}
