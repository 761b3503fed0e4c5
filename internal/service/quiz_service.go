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

type quizRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.QuizSummary, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.QuizSummary, error)
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, quizID string) ([]models.QuizQuestion, error)
	FindQuestionByID(ctx context.Context, id string) (*models.QuizQuestion, error)
	CreateQuestion(ctx context.Context, question *models.QuizQuestion) error
	UpdateQuestion(ctx context.Context, question *models.QuizQuestion) error
	DeleteQuestion(ctx context.Context, id string) error
}

type quizClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// QuizService manages quiz and question authoring.
type QuizService struct {
	repo        quizRepository
	classes     quizClassRepository
	enrollments classEnrollmentChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(repo quizRepository, classes quizClassRepository, enrollments classEnrollmentChecker, validate *validator.Validate, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &QuizService{repo: repo, classes: classes, enrollments: enrollments, validator: validate, logger: logger}
}

// ListByClass returns the quizzes of a class. Visible to the owning teacher,
// enrolled students, and admins.
func (s *QuizService) ListByClass(ctx context.Context, classID string, requester *models.JWTClaims) ([]models.QuizSummary, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if requester.Role != models.RoleAdmin && class.TeacherID != requester.UserID {
		enrolled, err := s.enrollments.Exists(ctx, classID, requester.UserID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
		}
		if !enrolled {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not a member of this class")
		}
	}

	quizzes, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list quizzes")
	}
	return quizzes, nil
}

// ListByTeacher returns every quiz across the teacher's classes.
func (s *QuizService) ListByTeacher(ctx context.Context, teacherID string) ([]models.QuizSummary, error) {
	quizzes, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher quizzes")
	}
	return quizzes, nil
}

// Get returns a quiz with its questions, grading keys included. Only the
// owning teacher may see the full question set.
func (s *QuizService) Get(ctx context.Context, quizID, teacherID string) (*models.Quiz, []models.QuizQuestion, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, teacherID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.repo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return quiz, questions, nil
}

// Create stores a new quiz in one of the teacher's classes.
func (s *QuizService) Create(ctx context.Context, teacherID string, req models.QuizCreateRequest) (*models.Quiz, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quiz payload")
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if class.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class belongs to another teacher")
	}

	quiz := &models.Quiz{
		ClassID:          req.ClassID,
		Title:            req.Title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		TimeLimitMinutes: req.TimeLimitMinutes,
		QuizType:         req.QuizType,
	}
	if err := s.repo.Create(ctx, quiz); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create quiz")
	}

	s.logger.Info("quiz created", zap.String("quiz_id", quiz.ID), zap.String("class_id", quiz.ClassID))
	return quiz, nil
}

// Update replaces a quiz's details. Only the owning teacher may update it.
func (s *QuizService) Update(ctx context.Context, quizID, teacherID string, req models.QuizUpdateRequest) (*models.Quiz, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quiz payload")
	}

	quiz, err := s.ownedQuiz(ctx, quizID, teacherID)
	if err != nil {
		return nil, err
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.DueDate = req.DueDate
	quiz.TimeLimitMinutes = req.TimeLimitMinutes
	quiz.QuizType = req.QuizType
	if err := s.repo.Update(ctx, quiz); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update quiz")
	}
	return quiz, nil
}

// Delete removes a quiz along with its questions and submissions.
func (s *QuizService) Delete(ctx context.Context, quizID, teacherID string) error {
	if _, err := s.ownedQuiz(ctx, quizID, teacherID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, quizID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete quiz")
	}
	return nil
}

// AddQuestion appends a question to a quiz and bumps the quiz total.
func (s *QuizService) AddQuestion(ctx context.Context, quizID, teacherID string, req models.QuestionRequest) (*models.QuizQuestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if err := validateGradingKey(req); err != nil {
		return nil, err
	}

	quiz, err := s.ownedQuiz(ctx, quizID, teacherID)
	if err != nil {
		return nil, err
	}

	question := &models.QuizQuestion{
		QuizID:        quiz.ID,
		QuestionText:  req.QuestionText,
		QuestionType:  req.QuestionType,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		OrderIndex:    req.OrderIndex,
	}
	if err := s.repo.CreateQuestion(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}

	s.syncTotalPoints(ctx, quiz)
	return question, nil
}

// UpdateQuestion replaces a question's content and grading key.
func (s *QuizService) UpdateQuestion(ctx context.Context, questionID, teacherID string, req models.QuestionRequest) (*models.QuizQuestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if err := validateGradingKey(req); err != nil {
		return nil, err
	}

	question, quiz, err := s.ownedQuestion(ctx, questionID, teacherID)
	if err != nil {
		return nil, err
	}

	question.QuestionText = req.QuestionText
	question.QuestionType = req.QuestionType
	question.Options = req.Options
	question.CorrectAnswer = req.CorrectAnswer
	question.Points = req.Points
	question.OrderIndex = req.OrderIndex
	if err := s.repo.UpdateQuestion(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update question")
	}

	s.syncTotalPoints(ctx, quiz)
	return question, nil
}

// DeleteQuestion removes a question from a quiz.
func (s *QuizService) DeleteQuestion(ctx context.Context, questionID, teacherID string) error {
	_, quiz, err := s.ownedQuestion(ctx, questionID, teacherID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteQuestion(ctx, questionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}

	s.syncTotalPoints(ctx, quiz)
	return nil
}

func (s *QuizService) ownedQuiz(ctx context.Context, quizID, teacherID string) (*models.Quiz, error) {
	quiz, err := s.repo.FindByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz")
	}

	class, err := s.classes.FindByID(ctx, quiz.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if class.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "quiz belongs to another teacher")
	}
	return quiz, nil
}

func (s *QuizService) ownedQuestion(ctx context.Context, questionID, teacherID string) (*models.QuizQuestion, *models.Quiz, error) {
	question, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}

	quiz, err := s.ownedQuiz(ctx, question.QuizID, teacherID)
	if err != nil {
		return nil, nil, err
	}
	return question, quiz, nil
}

// syncTotalPoints recomputes the quiz total from its questions after a
// question change. Failures are logged, not surfaced, since the next change
// repairs the total.
func (s *QuizService) syncTotalPoints(ctx context.Context, quiz *models.Quiz) {
	questions, err := s.repo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		s.logger.Warn("failed to reload questions for total", zap.String("quiz_id", quiz.ID), zap.Error(err))
		return
	}

	total := 0
	for _, q := range questions {
		total += q.Points
	}
	if total == quiz.TotalPoints {
		return
	}

	quiz.TotalPoints = total
	if err := s.repo.Update(ctx, quiz); err != nil {
		s.logger.Warn("failed to update quiz total", zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
}

func validateGradingKey(req models.QuestionRequest) error {
	switch req.QuestionType {
	case models.QuestionMultipleChoice:
		if len(req.Options) < 2 {
			return appErrors.Clone(appErrors.ErrValidation, "multiple choice questions need at least two options")
		}
		for _, opt := range req.Options {
			if opt.IsCorrect {
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrValidation, "multiple choice questions need a correct option")
	case models.QuestionTrueFalse, models.QuestionShortAnswer:
		if req.CorrectAnswer == "" {
			return appErrors.Clone(appErrors.ErrValidation, "correct answer is required")
		}
	}
	return nil
}
