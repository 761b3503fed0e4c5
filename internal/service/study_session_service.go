package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type studySessionRepository interface {
	List(ctx context.Context, filter models.StudySessionFilter) ([]models.StudySession, error)
	FindByID(ctx context.Context, id string) (*models.StudySession, error)
	Create(ctx context.Context, session *models.StudySession) error
	Update(ctx context.Context, session *models.StudySession) error
	Delete(ctx context.Context, id string) error
}

// StudySessionService manages study session planning and tracking.
type StudySessionService struct {
	repo      studySessionRepository
	progress  *ProgressService
	validator *validator.Validate
	logger    *zap.Logger
}

// AttachProgressCache registers the progress service so cached stats are
// invalidated when sessions change.
func (s *StudySessionService) AttachProgressCache(progress *ProgressService) {
	s.progress = progress
}

func (s *StudySessionService) invalidateStats(ctx context.Context, userID string) {
	if s.progress != nil {
		s.progress.InvalidateUser(ctx, userID)
	}
}

// NewStudySessionService constructs a StudySessionService instance.
func NewStudySessionService(repo studySessionRepository, validate *validator.Validate, logger *zap.Logger) *StudySessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudySessionService{repo: repo, validator: validate, logger: logger}
}

// List returns the user's sessions, optionally narrowed by subject and
// date range.
func (s *StudySessionService) List(ctx context.Context, userID, subject, startDate, endDate string) ([]models.StudySession, error) {
	filter := models.StudySessionFilter{UserID: userID, Subject: subject}

	if startDate != "" {
		ts, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &ts
	}
	if endDate != "" {
		ts, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
		}
		filter.EndDate = &ts
	}

	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Create stores a new study session for the user.
func (s *StudySessionService) Create(ctx context.Context, userID string, req models.StudySessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	session := &models.StudySession{
		UserID:          userID,
		Subject:         req.Subject,
		Topic:           req.Topic,
		SessionDate:     req.SessionDate,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		PomodoroCount:   req.PomodoroCount,
		Completed:       req.Completed,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	s.invalidateStats(ctx, userID)
	return session, nil
}

// Update replaces a session's details.
func (s *StudySessionService) Update(ctx context.Context, sessionID, userID string, req models.StudySessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.Subject = req.Subject
	session.Topic = req.Topic
	session.SessionDate = req.SessionDate
	session.StartTime = req.StartTime
	session.DurationMinutes = req.DurationMinutes
	session.PomodoroCount = req.PomodoroCount
	session.Completed = req.Completed
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	s.invalidateStats(ctx, userID)
	return session, nil
}

// Delete removes a session.
func (s *StudySessionService) Delete(ctx context.Context, sessionID, userID string) error {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	s.invalidateStats(ctx, userID)
	return nil
}

func (s *StudySessionService) ownedSession(ctx context.Context, sessionID, userID string) (*models.StudySession, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "study session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "session belongs to another user")
	}
	return session, nil
}
