package repository

import (
	"context"
	"testing"
	"time"

	redisapp "mental_models_hub/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRepo() (*RedisTokenRepo, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	client := &redisapp.Client{Client: db}
	return NewRedisTokenRepo(client), mock
}

func TestSaveRefreshToken(t *testing.T) {
	repo, mock := setupTokenRepo()
	userID := uuid.New().String()
	token := "refresh-token"
	exp := time.Hour

	t.Run("success", func(t *testing.T) {
		mock.ExpectSet(refreshTokenKey(userID, token), "1", exp).SetVal("OK")

		err := repo.SaveRefreshToken(context.Background(), userID, token, exp)
		require.NoError(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet(refreshTokenKey(userID, token), "1", exp).SetErr(redis.ErrClosed)

		err := repo.SaveRefreshToken(context.Background(), userID, token, exp)
		assert.Error(t, err)
	})
}

func TestGetRefreshToken(t *testing.T) {
	repo, mock := setupTokenRepo()
	userID := uuid.New().String()
	token := "refresh-token"

	t.Run("found", func(t *testing.T) {
		mock.ExpectGet(refreshTokenKey(userID, token)).SetVal("1")

		exists, err := repo.GetRefreshToken(context.Background(), userID, token)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing is not an error", func(t *testing.T) {
		mock.ExpectGet(refreshTokenKey(userID, token)).RedisNil()

		exists, err := repo.GetRefreshToken(context.Background(), userID, token)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet(refreshTokenKey(userID, token)).SetErr(redis.ErrClosed)

		_, err := repo.GetRefreshToken(context.Background(), userID, token)
		assert.Error(t, err)
	})
}

func TestDeleteRefreshToken(t *testing.T) {
	repo, mock := setupTokenRepo()
	userID := uuid.New().String()
	token := "refresh-token"

	mock.ExpectDel(refreshTokenKey(userID, token)).SetVal(1)

	err := repo.DeleteRefreshToken(context.Background(), userID, token)
	require.NoError(t, err)
}

func TestDeleteAllUserTokens(t *testing.T) {
	userID := uuid.New().String()

	t.Run("deletes every key of the user", func(t *testing.T) {
		repo, mock := setupTokenRepo()

		keys := []string{
			refreshTokenKey(userID, "token-a"),
			refreshTokenKey(userID, "token-b"),
		}
		mock.ExpectKeys(refreshTokenKey(userID, "*")).SetVal(keys)
		mock.ExpectDel(keys...).SetVal(2)

		err := repo.DeleteAllUserTokens(context.Background(), userID)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no live tokens is not an error", func(t *testing.T) {
		repo, mock := setupTokenRepo()

		mock.ExpectKeys(refreshTokenKey(userID, "*")).SetVal([]string{})

		err := repo.DeleteAllUserTokens(context.Background(), userID)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
