package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type mockProgressSessions struct {
	listSinceFn func(ctx context.Context, userID string, since time.Time) ([]models.StudySession, error)
}

func (m *mockProgressSessions) ListSince(ctx context.Context, userID string, since time.Time) ([]models.StudySession, error) {
	return m.listSinceFn(ctx, userID, since)
}

type mockProgressSubmissions struct {
	listByUserSinceFn func(ctx context.Context, userID string, since time.Time) ([]models.QuizSubmission, error)
}

func (m *mockProgressSubmissions) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]models.QuizSubmission, error) {
	return m.listByUserSinceFn(ctx, userID, since)
}

func TestStatsAggregatesActivity(t *testing.T) {
	sessions := &mockProgressSessions{
		listSinceFn: func(ctx context.Context, userID string, since time.Time) ([]models.StudySession, error) {
			return []models.StudySession{
				{Subject: "Math", DurationMinutes: 30},
				{Subject: "Math", DurationMinutes: 45},
				{Subject: "History", DurationMinutes: 25},
			}, nil
		},
	}
	submissions := &mockProgressSubmissions{
		listByUserSinceFn: func(ctx context.Context, userID string, since time.Time) ([]models.QuizSubmission, error) {
			return []models.QuizSubmission{
				{Score: 8, TotalPoints: 10},
				{Score: 6, TotalPoints: 10},
				{Score: 0, TotalPoints: 0},
			}, nil
		},
	}
	svc := NewProgressService(sessions, submissions, nil, 0, nil)

	stats, err := svc.Stats(context.Background(), "user-1", models.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalStudySessions)
	assert.Equal(t, 100, stats.TotalStudyMinutes)
	assert.Equal(t, 3, stats.CompletedQuizzes)
	assert.Equal(t, 2, stats.SessionsBySubject["Math"])
	assert.Equal(t, 1, stats.SessionsBySubject["History"])
	assert.InDelta(t, 70.0, stats.AverageQuizScore, 0.01, "zero-point submissions are excluded from the average")
}

func TestStatsWindowPerPeriod(t *testing.T) {
	var gotSince time.Time
	sessions := &mockProgressSessions{
		listSinceFn: func(ctx context.Context, userID string, since time.Time) ([]models.StudySession, error) {
			gotSince = since
			return nil, nil
		},
	}
	submissions := &mockProgressSubmissions{
		listByUserSinceFn: func(ctx context.Context, userID string, since time.Time) ([]models.QuizSubmission, error) {
			return nil, nil
		},
	}
	svc := NewProgressService(sessions, submissions, nil, 0, nil)

	_, err := svc.Stats(context.Background(), "user-1", models.PeriodMonth)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, -1, 0), gotSince, time.Minute)
}

func TestStatsRejectsUnknownPeriod(t *testing.T) {
	svc := NewProgressService(&mockProgressSessions{}, &mockProgressSubmissions{}, nil, 0, nil)

	_, err := svc.Stats(context.Background(), "user-1", "decade")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
