package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mental_models_hub/internal/domain/models"
	libjwt "mental_models_hub/internal/lib/jwt"
	"mental_models_hub/internal/lib/logger/sl"
	"mental_models_hub/internal/repository"
	"mental_models_hub/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenNotInStorage  = errors.New("token not found in storage")
)

type AuthService struct {
	log             *slog.Logger
	users           repository.UserRepository
	tokens          repository.TokenRepository
	tokenSecret     string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(
	log *slog.Logger,
	users repository.UserRepository,
	tokens repository.TokenRepository,
	tokenSecret string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:             log,
		users:           users,
		tokens:          tokens,
		tokenSecret:     tokenSecret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// Login verifies the password and issues a role-claim token pair. The
// refresh token is parked in redis until rotated or revoked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "auth_service.Login"
	log := s.log.With(slog.String("op", op))

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("login for unknown user")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		log.Warn("wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokens(ctx, user)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return pair, nil
}

// Refresh rotates a refresh token: the presented token must still exist in
// storage, and it is consumed before a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "auth_service.Refresh"
	log := s.log.With(slog.String("op", op))

	token, _, err := new(jwt.Parser).ParseUnverified(refreshToken, jwt.MapClaims{})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	exists, err := s.tokens.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		log.Error("refresh token lookup failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, ErrTokenNotInStorage
	}

	if err := s.tokens.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.generateTokens(ctx, user)
}

// Session resolves the bearer token into the user behind it.
func (s *AuthService) Session(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "auth_service.Session"

	claims, err := s.verify(accessToken)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	uid, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// Logout revokes every refresh token the user holds.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	const op = "auth_service.Logout"

	if err := s.tokens.DeleteAllUserTokens(ctx, userID.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *AuthService) generateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	accessToken, err := libjwt.NewToken(user, s.tokenSecret, s.accessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := libjwt.NewToken(user, s.tokenSecret, s.refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTokenTTL); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.tokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
