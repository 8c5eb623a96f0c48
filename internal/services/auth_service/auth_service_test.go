package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"mental_models_hub/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error {
	args := m.Called(ctx, userID, token, exp)
	return args.Error(0)
}

func (m *MockTokenRepository) GetRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	args := m.Called(ctx, userID, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockTokenRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

const testSecret = "test-secret"

func setupAuth() (*AuthService, *MockUserRepository, *MockTokenRepository) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	service := NewAuthService(slog.Default(), users, tokens, testSecret, 15*time.Minute, 7*24*time.Hour)
	return service, users, tokens
}

func editorUser(t *testing.T, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	return models.User{
		ID:             uuid.New(),
		Email:          "editor@example.com",
		HashedPassword: hash,
		Role:           models.RoleManager,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials get a token pair", func(t *testing.T) {
		service, users, tokens := setupAuth()
		user := editorUser(t, "correct horse")

		users.On("UserByEmail", ctx, user.Email).Return(user, nil)
		tokens.On("SaveRefreshToken", ctx, user.ID.String(), mock.Anything, 7*24*time.Hour).Return(nil)

		pair, err := service.Login(ctx, user.Email, "correct horse")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, user.ID, pair.UserID)
		tokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, users, _ := setupAuth()
		user := editorUser(t, "correct horse")

		users.On("UserByEmail", ctx, user.Email).Return(user, nil)

		_, err := service.Login(ctx, user.Email, "battery staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation consumes the presented token", func(t *testing.T) {
		service, users, tokens := setupAuth()
		user := editorUser(t, "pw-not-used-here")

		users.On("UserByEmail", ctx, user.Email).Return(user, nil)
		users.On("GetUserByID", ctx, user.ID).Return(user, nil)
		tokens.On("SaveRefreshToken", ctx, user.ID.String(), mock.Anything, mock.Anything).Return(nil)

		pair, err := service.Login(ctx, user.Email, "pw-not-used-here")
		require.NoError(t, err)

		tokens.On("GetRefreshToken", ctx, user.ID.String(), pair.RefreshToken).Return(true, nil)
		tokens.On("DeleteRefreshToken", ctx, user.ID.String(), pair.RefreshToken).Return(nil)

		next, err := service.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, next.AccessToken)
		tokens.AssertCalled(t, "DeleteRefreshToken", ctx, user.ID.String(), pair.RefreshToken)
	})

	t.Run("token absent from storage is rejected", func(t *testing.T) {
		service, users, tokens := setupAuth()
		user := editorUser(t, "pw")

		users.On("UserByEmail", ctx, user.Email).Return(user, nil)
		tokens.On("SaveRefreshToken", ctx, user.ID.String(), mock.Anything, mock.Anything).Return(nil)

		pair, err := service.Login(ctx, user.Email, "pw")
		require.NoError(t, err)

		tokens.On("GetRefreshToken", ctx, user.ID.String(), pair.RefreshToken).Return(false, nil)

		_, err = service.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrTokenNotInStorage)
	})

	t.Run("garbage token", func(t *testing.T) {
		service, _, _ := setupAuth()

		_, err := service.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_Session(t *testing.T) {
	ctx := context.Background()

	t.Run("access token resolves to its user", func(t *testing.T) {
		service, users, tokens := setupAuth()
		user := editorUser(t, "pw")

		users.On("UserByEmail", ctx, user.Email).Return(user, nil)
		users.On("GetUserByID", ctx, user.ID).Return(user, nil)
		tokens.On("SaveRefreshToken", ctx, user.ID.String(), mock.Anything, mock.Anything).Return(nil)

		pair, err := service.Login(ctx, user.Email, "pw")
		require.NoError(t, err)

		got, err := service.Session(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, models.RoleManager, got.Role)
	})

	t.Run("tampered token rejected", func(t *testing.T) {
		service, _, _ := setupAuth()

		_, err := service.Session(ctx, "eyJhbGciOiJIUzI1NiJ9.tampered.sig")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
