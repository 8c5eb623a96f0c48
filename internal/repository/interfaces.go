package repository

import (
	"context"
	"time"

	"mental_models_hub/internal/catalog"
	"mental_models_hub/internal/domain/models"

	"github.com/google/uuid"
)

type ModelRepository interface {
	FindModels(ctx context.Context, filter catalog.FilterRequest) ([]models.Model, int, error)
	FindModelByID(ctx context.Context, id uuid.UUID) (*models.Model, error)
	FindModelBySlug(ctx context.Context, slug string) (*models.Model, error)
	SaveModel(ctx context.Context, model models.Model) (uuid.UUID, error)
	UpdateModelFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteModel(ctx context.Context, id uuid.UUID) error
	ListModelStatuses(ctx context.Context) ([]string, error)
	SetPrimaryAudio(ctx context.Context, modelID uuid.UUID, audioURL string) error
}

type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	SaveCategory(ctx context.Context, category models.Category) (uuid.UUID, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	SaveTag(ctx context.Context, tag models.Tag) (uuid.UUID, error)
	UpdateTag(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteTag(ctx context.Context, id uuid.UUID) error
	ReplaceModelCategories(ctx context.Context, modelID uuid.UUID, categoryIDs []uuid.UUID) error
	ReplaceModelTags(ctx context.Context, modelID uuid.UUID, tagIDs []uuid.UUID) error
}

type UserRepository interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
