package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

type statsSessionRepository interface {
	CountByUser(ctx context.Context, userID string) (int, error)
	SumDurationByUser(ctx context.Context, userID string) (int, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.StudySession, error)
	ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]models.StudySession, error)
}

type statsSubmissionRepository interface {
	CountByUser(ctx context.Context, userID string) (int, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.QuizSubmission, error)
}

type statsFlashcardRepository interface {
	CountSetsByUser(ctx context.Context, userID string) (int, error)
}

// UserService manages profiles and per-user activity summaries.
type UserService struct {
	users       profileRepository
	sessions    statsSessionRepository
	submissions statsSubmissionRepository
	flashcards  statsFlashcardRepository
	cache       *CacheService
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users profileRepository, sessions statsSessionRepository, submissions statsSubmissionRepository, flashcards statsFlashcardRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{
		users:       users,
		sessions:    sessions,
		submissions: submissions,
		flashcards:  flashcards,
		validator:   validate,
		logger:      logger,
	}
}

// AttachStatsCache enables dashboard caching. Dashboard entries share the
// stats:user:<id> key prefix, so the progress cache invalidation hooks cover
// them too.
func (s *UserService) AttachStatsCache(cache *CacheService, ttl time.Duration) {
	s.cache = cache
	s.cacheTTL = ttl
}

// GetProfile returns the user's profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// UpdateProfile replaces the editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Bio = req.Bio
	user.AvatarURL = req.AvatarURL
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return user, nil
}

// Stats summarises the user's lifetime study activity.
func (s *UserService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	sessionCount, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}

	minutes, err := s.sessions.SumDurationByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum study minutes")
	}

	submissionCount, err := s.submissions.CountByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count submissions")
	}

	setCount, err := s.flashcards.CountSetsByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count flashcard sets")
	}

	return &models.UserStats{
		TotalStudySessions:   sessionCount,
		CompletedQuizzes:     submissionCount,
		TotalStudyMinutes:    minutes,
		FlashcardSetsCreated: setCount,
	}, nil
}

// Dashboard bundles the user's recent and upcoming activity. Results are
// cached per user.
func (s *UserService) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	cacheKey := fmt.Sprintf("stats:user:%s:dashboard", userID)
	var cached models.Dashboard
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	recentSessions, err := s.sessions.ListRecent(ctx, userID, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent sessions")
	}

	recentSubmissions, err := s.submissions.ListRecentByUser(ctx, userID, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent submissions")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	upcoming, err := s.sessions.ListUpcoming(ctx, userID, today, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming sessions")
	}

	dashboard := &models.Dashboard{
		RecentSessions:    recentSessions,
		RecentSubmissions: recentSubmissions,
		UpcomingSessions:  upcoming,
	}

	if err := s.cache.Set(ctx, cacheKey, dashboard, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard", zap.String("user_id", userID), zap.Error(err))
	}

	return dashboard, nil
}
