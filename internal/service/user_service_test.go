package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type mockProfileRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*models.User, error)
	updateProfileFn func(ctx context.Context, user *models.User) error
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockProfileRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, user)
	}
	return nil
}

type mockStatsSessionRepo struct {
	countFn        func(ctx context.Context, userID string) (int, error)
	sumDurationFn  func(ctx context.Context, userID string) (int, error)
	listRecentFn   func(ctx context.Context, userID string, limit int) ([]models.StudySession, error)
	listUpcomingFn func(ctx context.Context, userID string, from time.Time, limit int) ([]models.StudySession, error)
}

func (m *mockStatsSessionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockStatsSessionRepo) SumDurationByUser(ctx context.Context, userID string) (int, error) {
	if m.sumDurationFn != nil {
		return m.sumDurationFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockStatsSessionRepo) ListRecent(ctx context.Context, userID string, limit int) ([]models.StudySession, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockStatsSessionRepo) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]models.StudySession, error) {
	if m.listUpcomingFn != nil {
		return m.listUpcomingFn(ctx, userID, from, limit)
	}
	return nil, nil
}

type mockStatsSubmissionRepo struct {
	countFn      func(ctx context.Context, userID string) (int, error)
	listRecentFn func(ctx context.Context, userID string, limit int) ([]models.QuizSubmission, error)
}

func (m *mockStatsSubmissionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockStatsSubmissionRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.QuizSubmission, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, userID, limit)
	}
	return nil, nil
}

type mockStatsFlashcardRepo struct {
	countSetsFn func(ctx context.Context, userID string) (int, error)
}

func (m *mockStatsFlashcardRepo) CountSetsByUser(ctx context.Context, userID string) (int, error) {
	if m.countSetsFn != nil {
		return m.countSetsFn(ctx, userID)
	}
	return 0, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestUserStatsAggregates(t *testing.T) {
	svc := NewUserService(
		&mockProfileRepo{},
		&mockStatsSessionRepo{
			countFn:       func(ctx context.Context, userID string) (int, error) { return 12, nil },
			sumDurationFn: func(ctx context.Context, userID string) (int, error) { return 540, nil },
		},
		&mockStatsSubmissionRepo{
			countFn: func(ctx context.Context, userID string) (int, error) { return 7, nil },
		},
		&mockStatsFlashcardRepo{
			countSetsFn: func(ctx context.Context, userID string) (int, error) { return 3, nil },
		},
		nil, nil,
	)

	stats, err := svc.Stats(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalStudySessions)
	assert.Equal(t, 540, stats.TotalStudyMinutes)
	assert.Equal(t, 7, stats.CompletedQuizzes)
	assert.Equal(t, 3, stats.FlashcardSetsCreated)
}

func TestDashboardLimitsAndWindow(t *testing.T) {
	var (
		recentLimit   int
		upcomingLimit int
		upcomingFrom  time.Time
	)
	svc := NewUserService(
		&mockProfileRepo{},
		&mockStatsSessionRepo{
			listRecentFn: func(ctx context.Context, userID string, limit int) ([]models.StudySession, error) {
				recentLimit = limit
				return []models.StudySession{{ID: "s1"}}, nil
			},
			listUpcomingFn: func(ctx context.Context, userID string, from time.Time, limit int) ([]models.StudySession, error) {
				upcomingLimit = limit
				upcomingFrom = from
				return []models.StudySession{{ID: "s2"}}, nil
			},
		},
		&mockStatsSubmissionRepo{
			listRecentFn: func(ctx context.Context, userID string, limit int) ([]models.QuizSubmission, error) {
				return []models.QuizSubmission{{ID: "sub1"}}, nil
			},
		},
		&mockStatsFlashcardRepo{},
		nil, nil,
	)

	dashboard, err := svc.Dashboard(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 5, recentLimit)
	assert.Equal(t, 5, upcomingLimit)
	assert.WithinDuration(t, time.Now().UTC().Truncate(24*time.Hour), upcomingFrom, time.Second)
	assert.Len(t, dashboard.RecentSessions, 1)
	assert.Len(t, dashboard.RecentSubmissions, 1)
	assert.Len(t, dashboard.UpcomingSessions, 1)
}

func TestDashboardServedFromCache(t *testing.T) {
	repoCalls := 0
	svc := NewUserService(
		&mockProfileRepo{},
		&mockStatsSessionRepo{
			listRecentFn: func(ctx context.Context, userID string, limit int) ([]models.StudySession, error) {
				repoCalls++
				return []models.StudySession{{ID: "s1", Subject: "Math"}}, nil
			},
		},
		&mockStatsSubmissionRepo{},
		&mockStatsFlashcardRepo{},
		nil, nil,
	)
	svc.AttachStatsCache(NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true), time.Minute)

	first, err := svc.Dashboard(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := svc.Dashboard(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, repoCalls, "second dashboard comes from cache")
	assert.Equal(t, first.RecentSessions, second.RecentSessions)
}

func TestDashboardCacheInvalidatedWithStats(t *testing.T) {
	repoCalls := 0
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewUserService(
		&mockProfileRepo{},
		&mockStatsSessionRepo{
			listRecentFn: func(ctx context.Context, userID string, limit int) ([]models.StudySession, error) {
				repoCalls++
				return nil, nil
			},
		},
		&mockStatsSubmissionRepo{},
		&mockStatsFlashcardRepo{},
		nil, nil,
	)
	svc.AttachStatsCache(cacheSvc, time.Minute)
	progress := NewProgressService(&mockProgressSessions{}, &mockProgressSubmissions{}, cacheSvc, time.Minute, nil)

	_, err := svc.Dashboard(context.Background(), "user-1")
	require.NoError(t, err)

	progress.InvalidateUser(context.Background(), "user-1")

	_, err = svc.Dashboard(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, repoCalls, "dropping the user's stats keys also drops the dashboard")
}

func TestUpdateProfileInvalidPayload(t *testing.T) {
	svc := NewUserService(&mockProfileRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}, &mockStatsSessionRepo{}, &mockStatsSubmissionRepo{}, &mockStatsFlashcardRepo{}, nil, nil)

	_, err := svc.UpdateProfile(context.Background(), "user-1", models.UpdateProfileRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
