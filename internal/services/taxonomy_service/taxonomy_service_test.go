package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockTaxonomyRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTaxonomyRepository) SaveCategory(ctx context.Context, category models.Category) (uuid.UUID, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTaxonomyRepository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockTaxonomyRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaxonomyRepository) SaveTag(ctx context.Context, tag models.Tag) (uuid.UUID, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTaxonomyRepository) UpdateTag(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockTaxonomyRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaxonomyRepository) ReplaceModelCategories(ctx context.Context, modelID uuid.UUID, categoryIDs []uuid.UUID) error {
	args := m.Called(ctx, modelID, categoryIDs)
	return args.Error(0)
}

func (m *MockTaxonomyRepository) ReplaceModelTags(ctx context.Context, modelID uuid.UUID, tagIDs []uuid.UUID) error {
	args := m.Called(ctx, modelID, tagIDs)
	return args.Error(0)
}

func TestTaxonomyService_ListCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("second read served from cache", func(t *testing.T) {
		repo := new(MockTaxonomyRepository)
		service := NewTaxonomyService(slog.Default(), repo, time.Minute)

		repo.On("ListCategories", ctx).Return([]models.Category{
			{Name: "Thinking", Slug: "thinking"},
		}, nil).Once()

		first, err := service.ListCategories(ctx)
		require.NoError(t, err)
		second, err := service.ListCategories(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		repo.AssertExpectations(t)
	})

	t.Run("store error propagates when cache is cold", func(t *testing.T) {
		repo := new(MockTaxonomyRepository)
		service := NewTaxonomyService(slog.Default(), repo, time.Minute)

		repo.On("ListCategories", ctx).Return(nil, errors.New("connection refused"))

		_, err := service.ListCategories(ctx)
		assert.Error(t, err)
	})
}

func TestTaxonomyService_CreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("slug derived from name and cache invalidated", func(t *testing.T) {
		repo := new(MockTaxonomyRepository)
		service := NewTaxonomyService(slog.Default(), repo, time.Minute)
		id := uuid.New()

		// prime the cache, then expect a fresh read after the mutation
		repo.On("ListCategories", ctx).Return([]models.Category{}, nil).Twice()
		repo.On("SaveCategory", ctx, mock.MatchedBy(func(c models.Category) bool {
			return c.Slug == "decision-making"
		})).Return(id, nil)

		_, err := service.ListCategories(ctx)
		require.NoError(t, err)

		created, err := service.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Decision Making"})
		require.NoError(t, err)
		assert.Equal(t, id, created)

		_, err = service.ListCategories(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		repo := new(MockTaxonomyRepository)
		service := NewTaxonomyService(slog.Default(), repo, time.Minute)

		_, err := service.CreateCategory(ctx, dto.CreateCategoryRequest{})
		assert.Error(t, err)
	})
}

func TestTaxonomyService_Tags(t *testing.T) {
	ctx := context.Background()

	t.Run("create and invalidate", func(t *testing.T) {
		repo := new(MockTaxonomyRepository)
		service := NewTaxonomyService(slog.Default(), repo, time.Minute)
		id := uuid.New()

		repo.On("ListTags", ctx).Return([]models.Tag{}, nil).Twice()
		repo.On("SaveTag", ctx, mock.MatchedBy(func(tag models.Tag) bool {
			return tag.Slug == "first-principles"
		})).Return(id, nil)

		_, err := service.ListTags(ctx)
		require.NoError(t, err)

		_, err = service.CreateTag(ctx, dto.CreateTagRequest{Name: "First Principles"})
		require.NoError(t, err)

		_, err = service.ListTags(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("update forwards allowed fields", func(t *testing.T) {
		repo := new(MockTaxonomyRepository)
		service := NewTaxonomyService(slog.Default(), repo, time.Minute)
		id := uuid.New()
		name := "Renamed"

		repo.On("UpdateTag", ctx, id, map[string]interface{}{"name": "Renamed"}).Return(nil)

		err := service.UpdateTag(ctx, id, dto.UpdateTagRequest{Name: &name})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
