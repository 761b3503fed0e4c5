package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type mockAuthUserRepo struct {
	createFn                     func(ctx context.Context, user *models.User) error
	findByEmailFn                func(ctx context.Context, email string) (*models.User, error)
	findByIDFn                   func(ctx context.Context, id string) (*models.User, error)
	updateLastLoginFn            func(ctx context.Context, id string, ts time.Time) error
	updatePasswordFn             func(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	createRefreshTokenFn         func(ctx context.Context, token *models.RefreshToken) error
	findRefreshTokenFn           func(ctx context.Context, token string) (*models.RefreshToken, error)
	revokeRefreshTokenFn         func(ctx context.Context, id string, revokedAt time.Time) error
	revokeUserRefreshTokensFn    func(ctx context.Context, userID string) error
	createPasswordResetTokenFn   func(ctx context.Context, token *models.PasswordResetToken) error
	findPasswordResetTokenFn     func(ctx context.Context, token string) (*models.PasswordResetToken, error)
	markPasswordResetTokenUsedFn func(ctx context.Context, id string) error
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = "user-1"
	return nil
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id, ts)
	}
	return nil
}

func (m *mockAuthUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, passwordHash, updatedAt)
	}
	return nil
}

func (m *mockAuthUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.createRefreshTokenFn != nil {
		return m.createRefreshTokenFn(ctx, token)
	}
	return nil
}

func (m *mockAuthUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if m.findRefreshTokenFn != nil {
		return m.findRefreshTokenFn(ctx, token)
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	if m.revokeRefreshTokenFn != nil {
		return m.revokeRefreshTokenFn(ctx, id, revokedAt)
	}
	return nil
}

func (m *mockAuthUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	if m.revokeUserRefreshTokensFn != nil {
		return m.revokeUserRefreshTokensFn(ctx, userID)
	}
	return nil
}

func (m *mockAuthUserRepo) CreatePasswordResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	if m.createPasswordResetTokenFn != nil {
		return m.createPasswordResetTokenFn(ctx, token)
	}
	return nil
}

func (m *mockAuthUserRepo) FindPasswordResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	if m.findPasswordResetTokenFn != nil {
		return m.findPasswordResetTokenFn(ctx, token)
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) MarkPasswordResetTokenUsed(ctx context.Context, id string) error {
	if m.markPasswordResetTokenUsedFn != nil {
		return m.markPasswordResetTokenUsedFn(ctx, id)
	}
	return nil
}

func newAuthService(repo *mockAuthUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "studyhub-test",
	})
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterIssuesTokens(t *testing.T) {
	repo := &mockAuthUserRepo{}
	svc := newAuthService(repo)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "new@example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "User",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAuthUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email}, nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "secret123",
		FirstName: "Dup",
		LastName:  "User",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &mockAuthUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           "user-1",
				Email:        email,
				PasswordHash: hashPassword(t, "correct-password"),
				Active:       true,
			}, nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := newAuthService(&mockAuthUserRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := &mockAuthUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           "user-1",
				Email:        email,
				PasswordHash: hashPassword(t, "secret123"),
				Active:       false,
			}, nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "user@example.com",
		Password: "secret123",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestRefreshTokenRotates(t *testing.T) {
	var revokedID string
	repo := &mockAuthUserRepo{
		findRefreshTokenFn: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{
				ID:        "rt-1",
				UserID:    "user-1",
				Token:     token,
				ExpiresAt: time.Now().UTC().Add(time.Hour),
			}, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Email: "user@example.com", Role: models.RoleStudent, Active: true}, nil
		},
		revokeRefreshTokenFn: func(ctx context.Context, id string, revokedAt time.Time) error {
			revokedID = id
			return nil
		},
	}
	svc := newAuthService(repo)

	resp, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})

	require.NoError(t, err)
	assert.Equal(t, "rt-1", revokedID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "old-token", resp.RefreshToken)
}

func TestRefreshTokenExpired(t *testing.T) {
	repo := &mockAuthUserRepo{
		findRefreshTokenFn: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{
				ID:        "rt-1",
				UserID:    "user-1",
				Token:     token,
				ExpiresAt: time.Now().UTC().Add(-time.Minute),
			}, nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "expired-token"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	issued := false
	repo := &mockAuthUserRepo{
		createPasswordResetTokenFn: func(ctx context.Context, token *models.PasswordResetToken) error {
			issued = true
			return nil
		},
	}
	svc := newAuthService(repo)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "nobody@example.com"})

	require.NoError(t, err)
	assert.False(t, issued)
}

func TestResetPasswordConsumesToken(t *testing.T) {
	var (
		usedID       string
		revokedUser  string
		passwordHash string
	)
	repo := &mockAuthUserRepo{
		findPasswordResetTokenFn: func(ctx context.Context, token string) (*models.PasswordResetToken, error) {
			return &models.PasswordResetToken{
				ID:        "prt-1",
				UserID:    "user-1",
				Token:     token,
				ExpiresAt: time.Now().UTC().Add(30 * time.Minute),
			}, nil
		},
		updatePasswordFn: func(ctx context.Context, id, hash string, updatedAt time.Time) error {
			passwordHash = hash
			return nil
		},
		markPasswordResetTokenUsedFn: func(ctx context.Context, id string) error {
			usedID = id
			return nil
		},
		revokeUserRefreshTokensFn: func(ctx context.Context, userID string) error {
			revokedUser = userID
			return nil
		},
	}
	svc := newAuthService(repo)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Token:       "reset-token",
		NewPassword: "brand-new-pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "prt-1", usedID)
	assert.Equal(t, "user-1", revokedUser)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("brand-new-pass")))
}

func TestResetPasswordUsedToken(t *testing.T) {
	repo := &mockAuthUserRepo{
		findPasswordResetTokenFn: func(ctx context.Context, token string) (*models.PasswordResetToken, error) {
			return &models.PasswordResetToken{
				ID:        "prt-1",
				UserID:    "user-1",
				Token:     token,
				Used:      true,
				ExpiresAt: time.Now().UTC().Add(30 * time.Minute),
			}, nil
		},
	}
	svc := newAuthService(repo)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Token:       "reset-token",
		NewPassword: "brand-new-pass",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
