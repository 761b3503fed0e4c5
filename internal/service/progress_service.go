package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type progressSessionRepository interface {
	ListSince(ctx context.Context, userID string, since time.Time) ([]models.StudySession, error)
}

type progressSubmissionRepository interface {
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]models.QuizSubmission, error)
}

// ProgressService computes study activity statistics over a lookback window.
type ProgressService struct {
	sessions    progressSessionRepository
	submissions progressSubmissionRepository
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewProgressService constructs a ProgressService instance.
func NewProgressService(sessions progressSessionRepository, submissions progressSubmissionRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{sessions: sessions, submissions: submissions, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Stats aggregates the user's sessions and quiz submissions over the period.
// Results are cached per user and period.
func (s *ProgressService) Stats(ctx context.Context, userID string, period models.StatsPeriod) (*models.ProgressStats, error) {
	since, err := periodStart(period)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("stats:user:%s:%s", userID, period)
	var cached models.ProgressStats
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	sessions, err := s.sessions.ListSince(ctx, userID, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}

	submissions, err := s.submissions.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submissions")
	}

	stats := &models.ProgressStats{
		TotalStudySessions: len(sessions),
		CompletedQuizzes:   len(submissions),
		SessionsBySubject:  make(map[string]int),
	}
	for _, session := range sessions {
		stats.TotalStudyMinutes += session.DurationMinutes
		if session.Subject != "" {
			stats.SessionsBySubject[session.Subject]++
		}
	}

	var scoreSum float64
	scored := 0
	for _, submission := range submissions {
		if submission.TotalPoints > 0 {
			scoreSum += float64(submission.Score) / float64(submission.TotalPoints) * 100
			scored++
		}
	}
	if scored > 0 {
		stats.AverageQuizScore = scoreSum / float64(scored)
	}

	if err := s.cache.Set(ctx, cacheKey, stats, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache progress stats", zap.String("user_id", userID), zap.Error(err))
	}

	return stats, nil
}

// InvalidateUser drops all cached stats for a user.
func (s *ProgressService) InvalidateUser(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("stats:user:%s:*", userID)); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func periodStart(period models.StatsPeriod) (time.Time, error) {
	now := time.Now().UTC()
	switch period {
	case models.PeriodWeek, "":
		return now.AddDate(0, 0, -7), nil
	case models.PeriodMonth:
		return now.AddDate(0, -1, 0), nil
	case models.PeriodYear:
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "period must be week, month or year")
}
