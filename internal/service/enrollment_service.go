package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type enrollmentRepository interface {
	Exists(ctx context.Context, classID, userID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, classID, userID string) error
	ListStudentsByClass(ctx context.Context, classID string) ([]models.EnrolledStudent, error)
	ListClassesByStudent(ctx context.Context, userID string) ([]models.EnrolledClass, error)
}

type enrollmentClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindByCode(ctx context.Context, code string) (*models.Class, error)
}

// EnrollmentService manages class membership.
type EnrollmentService struct {
	repo      enrollmentRepository
	classes   enrollmentClassRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(repo enrollmentRepository, classes enrollmentClassRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// JoinByCode enrolls a student into the class carrying the given join code.
// Unknown codes map to not found; joining twice is a conflict.
func (s *EnrollmentService) JoinByCode(ctx context.Context, userID string, req models.JoinClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid join payload")
	}

	code := strings.ToUpper(strings.TrimSpace(req.ClassCode))
	class, err := s.classes.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invalid class code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up class code")
	}

	if class.TeacherID == userID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "cannot join your own class")
	}

	enrolled, err := s.repo.Exists(ctx, class.ID, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this class")
	}

	if err := s.repo.Create(ctx, &models.Enrollment{ClassID: class.ID, UserID: userID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}

	s.logger.Info("student joined class", zap.String("class_id", class.ID), zap.String("user_id", userID))
	return class, nil
}

// ListMyClasses returns the classes the student is enrolled in.
func (s *EnrollmentService) ListMyClasses(ctx context.Context, userID string) ([]models.EnrolledClass, error) {
	classes, err := s.repo.ListClassesByStudent(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled classes")
	}
	return classes, nil
}

// ListStudents returns the class roster. Visible to the owning teacher,
// admins, and enrolled classmates.
func (s *EnrollmentService) ListStudents(ctx context.Context, classID string, requester *models.JWTClaims) ([]models.EnrolledStudent, error) {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if requester.Role != models.RoleAdmin && class.TeacherID != requester.UserID {
		enrolled, err := s.repo.Exists(ctx, classID, requester.UserID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
		}
		if !enrolled {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not a member of this class")
		}
	}

	students, err := s.repo.ListStudentsByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class roster")
	}
	return students, nil
}

// RemoveStudent removes a student from a class. Only the owning teacher may
// remove students.
func (s *EnrollmentService) RemoveStudent(ctx context.Context, classID, teacherID, studentID string) error {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return err
	}
	if class.TeacherID != teacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "class belongs to another teacher")
	}

	enrolled, err := s.repo.Exists(ctx, classID, studentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this class")
	}

	if err := s.repo.Delete(ctx, classID, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove student")
	}
	return nil
}

// Leave removes the requesting student from a class they joined.
func (s *EnrollmentService) Leave(ctx context.Context, classID, userID string) error {
	enrolled, err := s.repo.Exists(ctx, classID, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrNotFound, "not enrolled in this class")
	}

	if err := s.repo.Delete(ctx, classID, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to leave class")
	}
	return nil
}

func (s *EnrollmentService) findClass(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}
