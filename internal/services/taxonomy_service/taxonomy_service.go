package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/lib/logger/sl"
	"mental_models_hub/internal/repository"
	"mental_models_hub/internal/transport/http/dto"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	categoriesCacheKey = "taxonomy:categories"
	tagsCacheKey       = "taxonomy:tags"
)

// TaxonomyService serves category and tag lists from a short-TTL
// in-process cache. The lists are tiny and admin-curated, so staleness is
// bounded by the TTL and mutations simply invalidate.
type TaxonomyService struct {
	log   *slog.Logger
	repo  repository.TaxonomyRepository
	cache *gocache.Cache
}

func NewTaxonomyService(log *slog.Logger, repo repository.TaxonomyRepository, ttl time.Duration) *TaxonomyService {
	return &TaxonomyService{
		log:   log,
		repo:  repo,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "taxonomy_service.ListCategories"

	if cached, found := s.cache.Get(categoriesCacheKey); found {
		return cached.([]models.Category), nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.SetDefault(categoriesCacheKey, categories)
	return categories, nil
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "taxonomy_service.ListTags"

	if cached, found := s.cache.Get(tagsCacheKey); found {
		return cached.([]models.Tag), nil
	}

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.SetDefault(tagsCacheKey, tags)
	return tags, nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (uuid.UUID, error) {
	const op = "taxonomy_service.CreateCategory"
	log := s.log.With(slog.String("op", op))

	if req.Name == "" {
		return uuid.Nil, fmt.Errorf("category name is required")
	}
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}

	id, err := s.repo.SaveCategory(ctx, models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		log.Error("failed to create category", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(categoriesCacheKey)
	log.Info("category created", slog.String("category_id", id.String()))
	return id, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) error {
	const op = "taxonomy_service.UpdateCategory"

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(categoriesCacheKey)
	return nil
}

func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "taxonomy_service.DeleteCategory"

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(categoriesCacheKey)
	return nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, req dto.CreateTagRequest) (uuid.UUID, error) {
	const op = "taxonomy_service.CreateTag"
	log := s.log.With(slog.String("op", op))

	if req.Name == "" {
		return uuid.Nil, fmt.Errorf("tag name is required")
	}
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}

	id, err := s.repo.SaveTag(ctx, models.Tag{Name: req.Name, Slug: req.Slug})
	if err != nil {
		log.Error("failed to create tag", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(tagsCacheKey)
	log.Info("tag created", slog.String("tag_id", id.String()))
	return id, nil
}

func (s *TaxonomyService) UpdateTag(ctx context.Context, id uuid.UUID, req dto.UpdateTagRequest) error {
	const op = "taxonomy_service.UpdateTag"

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}

	if err := s.repo.UpdateTag(ctx, id, updates); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(tagsCacheKey)
	return nil
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	const op = "taxonomy_service.DeleteTag"

	if err := s.repo.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(tagsCacheKey)
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "'", "")
	return slug
}
