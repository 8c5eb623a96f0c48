package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"mental_models_hub/internal/catalog"
	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/storage"
	"mental_models_hub/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockModelRepository struct {
	mock.Mock
}

func (m *MockModelRepository) FindModels(ctx context.Context, filter catalog.FilterRequest) ([]models.Model, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Model), args.Int(1), args.Error(2)
}

func (m *MockModelRepository) FindModelByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Model), args.Error(1)
}

func (m *MockModelRepository) FindModelBySlug(ctx context.Context, slug string) (*models.Model, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Model), args.Error(1)
}

func (m *MockModelRepository) SaveModel(ctx context.Context, model models.Model) (uuid.UUID, error) {
	args := m.Called(ctx, model)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockModelRepository) UpdateModelFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockModelRepository) DeleteModel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockModelRepository) ListModelStatuses(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockModelRepository) SetPrimaryAudio(ctx context.Context, modelID uuid.UUID, audioURL string) error {
	args := m.Called(ctx, modelID, audioURL)
	return args.Error(0)
}

type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockTaxonomyRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
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

func newTestService() (*ModelService, *MockModelRepository, *MockTaxonomyRepository) {
	modelRepo := new(MockModelRepository)
	taxonomyRepo := new(MockTaxonomyRepository)
	return NewModelService(slog.Default(), modelRepo, taxonomyRepo), modelRepo, taxonomyRepo
}

func storedModel(id uuid.UUID, slug string) *models.Model {
	return &models.Model{
		ID:          id,
		Title:       "Stored",
		Slug:        slug,
		Status:      models.StatusDraft,
		AudioStatus: models.AudioIdle,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestModelService_CreateModel(t *testing.T) {
	ctx := context.Background()

	t.Run("slug generated from title", func(t *testing.T) {
		service, modelRepo, _ := newTestService()
		id := uuid.New()

		modelRepo.On("SaveModel", ctx, mock.MatchedBy(func(m models.Model) bool {
			return m.Slug == "hanlons-razor" && m.Status == models.StatusDraft && m.AudioStatus == models.AudioIdle
		})).Return(id, nil)
		modelRepo.On("FindModelByID", ctx, id).Return(storedModel(id, "hanlons-razor"), nil)

		resp, err := service.CreateModel(ctx, dto.CreateModelRequest{
			Title:   "Hanlon's Razor",
			Summary: "Never attribute to malice",
			Body:    "what can be explained by carelessness",
		})
		require.NoError(t, err)
		assert.Equal(t, id, resp.ID)
		modelRepo.AssertExpectations(t)
	})

	t.Run("duplicate slug retried with unique suffix", func(t *testing.T) {
		service, modelRepo, _ := newTestService()
		id := uuid.New()

		dupErr := errors.New(`ERROR: duplicate key value violates unique constraint "models_slug_key"`)
		modelRepo.On("SaveModel", ctx, mock.MatchedBy(func(m models.Model) bool {
			return m.Slug == "inversion"
		})).Return(uuid.Nil, dupErr).Once()
		modelRepo.On("SaveModel", ctx, mock.MatchedBy(func(m models.Model) bool {
			return strings.HasPrefix(m.Slug, "inversion-") && m.Slug != "inversion"
		})).Return(id, nil).Once()
		modelRepo.On("FindModelByID", ctx, id).Return(storedModel(id, "inversion-123"), nil)

		_, err := service.CreateModel(ctx, dto.CreateModelRequest{Title: "Inversion"})
		require.NoError(t, err)
		modelRepo.AssertExpectations(t)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.CreateModel(ctx, dto.CreateModelRequest{Summary: "no title"})
		assert.Error(t, err)
	})

	t.Run("relations synced when ids given", func(t *testing.T) {
		service, modelRepo, taxonomyRepo := newTestService()
		id := uuid.New()
		catID := uuid.New()
		tagID := uuid.New()

		modelRepo.On("SaveModel", ctx, mock.Anything).Return(id, nil)
		modelRepo.On("FindModelByID", ctx, id).Return(storedModel(id, "x"), nil)
		taxonomyRepo.On("ReplaceModelCategories", ctx, id, []uuid.UUID{catID}).Return(nil)
		taxonomyRepo.On("ReplaceModelTags", ctx, id, []uuid.UUID{tagID}).Return(nil)

		_, err := service.CreateModel(ctx, dto.CreateModelRequest{
			Title:       "X",
			CategoryIDs: []uuid.UUID{catID},
			TagIDs:      []uuid.UUID{tagID},
		})
		require.NoError(t, err)
		taxonomyRepo.AssertExpectations(t)
	})
}

func TestModelService_SubmitModel(t *testing.T) {
	ctx := context.Background()

	t.Run("forces published status", func(t *testing.T) {
		service, modelRepo, _ := newTestService()
		id := uuid.New()

		modelRepo.On("SaveModel", ctx, mock.MatchedBy(func(m models.Model) bool {
			return m.Status == models.StatusPublished && m.AudioStatus == models.AudioIdle && m.ReadTime != nil
		})).Return(id, nil)
		modelRepo.On("FindModelByID", ctx, id).Return(storedModel(id, "x"), nil)

		_, err := service.SubmitModel(ctx, dto.CreateModelRequest{
			Title:   "Circle of Competence",
			Summary: "Know your edges",
			Body:    strings.Repeat("word ", 450),
		})
		require.NoError(t, err)
		modelRepo.AssertExpectations(t)
	})

	t.Run("incomplete submission rejected", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.SubmitModel(ctx, dto.CreateModelRequest{Title: "No body"})
		assert.Error(t, err)
	})
}

func TestModelService_UpdateModel(t *testing.T) {
	ctx := context.Background()

	t.Run("body change recomputes read time", func(t *testing.T) {
		service, modelRepo, _ := newTestService()
		id := uuid.New()
		body := strings.Repeat("word ", 600)

		modelRepo.On("FindModelByID", ctx, id).Return(storedModel(id, "x"), nil)
		modelRepo.On("UpdateModelFields", ctx, id, mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["read_time"] == 3 && updates["body"] == body
		})).Return(nil)

		_, err := service.UpdateModel(ctx, id, dto.UpdateModelRequest{Body: &body})
		require.NoError(t, err)
		modelRepo.AssertExpectations(t)
	})

	t.Run("empty slug regenerated from new title", func(t *testing.T) {
		service, modelRepo, _ := newTestService()
		id := uuid.New()
		title := "Second-Order Thinking"
		empty := ""

		modelRepo.On("FindModelByID", ctx, id).Return(storedModel(id, "old-slug"), nil)
		modelRepo.On("UpdateModelFields", ctx, id, mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["slug"] == "second-order-thinking"
		})).Return(nil)

		_, err := service.UpdateModel(ctx, id, dto.UpdateModelRequest{Title: &title, Slug: &empty})
		require.NoError(t, err)
		modelRepo.AssertExpectations(t)
	})
}

func TestModelService_GetPublishedBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("draft hidden from public surface", func(t *testing.T) {
		service, modelRepo, _ := newTestService()
		id := uuid.New()

		draft := storedModel(id, "hidden-draft")
		modelRepo.On("FindModelBySlug", ctx, "hidden-draft").Return(draft, nil)

		_, err := service.GetPublishedBySlug(ctx, "hidden-draft")
		assert.ErrorIs(t, err, storage.ErrModelNotFound)
	})

	t.Run("published returned", func(t *testing.T) {
		service, modelRepo, _ := newTestService()
		id := uuid.New()

		published := storedModel(id, "visible")
		published.Status = models.StatusPublished
		modelRepo.On("FindModelBySlug", ctx, "visible").Return(published, nil)

		resp, err := service.GetPublishedBySlug(ctx, "visible")
		require.NoError(t, err)
		assert.Equal(t, "visible", resp.Slug)
	})
}

func TestEstimateReadTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty body still one minute", 0, 1},
		{"short body rounds up to one", 40, 1},
		{"exactly one page", 200, 1},
		{"rounds to nearest", 500, 3},
		{"long body", 1900, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.TrimSpace(strings.Repeat("word ", tt.words))
			assert.Equal(t, tt.want, EstimateReadTime(body))
		})
	}
}
