package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

const (
	classCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	classCodeLength   = 6
)

type classRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassDetail, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	UpdateCode(ctx context.Context, id, code string) error
	Delete(ctx context.Context, id string) error
}

type classEnrollmentChecker interface {
	Exists(ctx context.Context, classID, userID string) (bool, error)
}

// ClassService manages classes and their join codes.
type ClassService struct {
	repo        classRepository
	enrollments classEnrollmentChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(repo classRepository, enrollments classEnrollmentChecker, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{repo: repo, enrollments: enrollments, validator: validate, logger: logger}
}

// List returns the requesting teacher's classes with student counts.
func (s *ClassService) List(ctx context.Context, teacherID string) ([]models.ClassDetail, error) {
	classes, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns one class. Visible to the owning teacher, enrolled students,
// and admins.
func (s *ClassService) Get(ctx context.Context, classID string, requester *models.JWTClaims) (*models.ClassDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if requester.Role == models.RoleAdmin || detail.TeacherID == requester.UserID {
		return detail, nil
	}

	enrolled, err := s.enrollments.Exists(ctx, classID, requester.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not a member of this class")
	}
	return detail, nil
}

// Create stores a new class with a freshly generated join code.
func (s *ClassService) Create(ctx context.Context, teacherID string, req models.ClassCreateRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	code, err := s.GenerateClassCode(ctx)
	if err != nil {
		return nil, err
	}

	class := &models.Class{
		TeacherID:   teacherID,
		Name:        req.Name,
		Subject:     req.Subject,
		GradeLevel:  req.GradeLevel,
		Schedule:    req.Schedule,
		Room:        req.Room,
		Description: req.Description,
		ClassCode:   code,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}

	s.logger.Info("class created", zap.String("class_id", class.ID), zap.String("class_code", class.ClassCode))
	return class, nil
}

// Update replaces a class's details. Only the owning teacher may update it.
func (s *ClassService) Update(ctx context.Context, classID, teacherID string, req models.ClassUpdateRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class, err := s.ownedClass(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}

	class.Name = req.Name
	class.Subject = req.Subject
	class.GradeLevel = req.GradeLevel
	class.Schedule = req.Schedule
	class.Room = req.Room
	class.Description = req.Description
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// RegenerateCode replaces a class's join code, invalidating the old one.
func (s *ClassService) RegenerateCode(ctx context.Context, classID, teacherID string) (*models.Class, error) {
	class, err := s.ownedClass(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}

	code, err := s.GenerateClassCode(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCode(ctx, class.ID, code); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class code")
	}
	class.ClassCode = code
	return class, nil
}

// Delete removes a class. Only the owning teacher may delete it.
func (s *ClassService) Delete(ctx context.Context, classID, teacherID string) error {
	if _, err := s.ownedClass(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, classID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

// GenerateClassCode draws six characters from A-Z0-9 and redraws the whole
// code until it is unused. Codes are join secrets, not security tokens, so
// math/rand is sufficient.
func (s *ClassService) GenerateClassCode(ctx context.Context) (string, error) {
	buf := make([]byte, classCodeLength)
	for {
		for i := range buf {
			buf[i] = classCodeAlphabet[rand.Intn(len(classCodeAlphabet))]
		}
		code := string(buf)

		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class code")
		}
		if !exists {
			return code, nil
		}
	}
}

func (s *ClassService) ownedClass(ctx context.Context, classID, teacherID string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if class.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class belongs to another teacher")
	}
	return class, nil
}
