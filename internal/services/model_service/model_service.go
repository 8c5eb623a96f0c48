package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/lib/logger/sl"
	"mental_models_hub/internal/repository"
	"mental_models_hub/internal/storage"
	"mental_models_hub/internal/transport/http/dto"

	"github.com/google/uuid"
)

const wordsPerMinute = 200

type ModelService struct {
	log      *slog.Logger
	repo     repository.ModelRepository
	taxonomy repository.TaxonomyRepository
}

func NewModelService(log *slog.Logger, repo repository.ModelRepository, taxonomy repository.TaxonomyRepository) *ModelService {
	return &ModelService{log: log, repo: repo, taxonomy: taxonomy}
}

// CreateModel creates a model from the admin console. Slug is derived from
// the title when absent; a unique-violation gets one retry with a
// nanosecond suffix.
func (s *ModelService) CreateModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error) {
	const op = "model_service.CreateModel"
	log := s.log.With(slog.String("op", op))

	if req.Title == "" {
		return nil, fmt.Errorf("model title is required")
	}

	model := models.Model{
		Title:    req.Title,
		Slug:     req.Slug,
		Summary:  req.Summary,
		Body:     req.Body,
		Tags:     req.Tags,
		Category: req.Category,
		CoverURL: req.CoverURL,
		Status:   models.ModelStatus(req.Status),
	}

	if model.Slug == "" {
		model.Slug = generateSlug(model.Title)
		log.Debug("generated slug", slog.String("slug", model.Slug))
	}
	if model.Status == "" {
		model.Status = models.StatusDraft
	}
	if model.Tags == nil {
		model.Tags = []string{}
	}
	model.AudioStatus = models.AudioIdle

	rt := EstimateReadTime(model.Body)
	model.ReadTime = &rt

	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	id, err := s.repo.SaveModel(ctx, model)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			log.Warn("slug conflict, retrying with unique suffix", slog.String("slug", model.Slug))
			model.Slug = generateUniqueSlug(model.Slug)
			id, err = s.repo.SaveModel(ctx, model)
			if err != nil {
				log.Error("failed to create model after slug conflict", sl.Err(err))
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		} else {
			log.Error("failed to create model", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.syncRelations(ctx, id, req.CategoryIDs, req.TagIDs); err != nil {
		log.Error("failed to sync taxonomy relations", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("model created", slog.String("model_id", id.String()))
	return s.toResponse(ctx, id)
}

// SubmitModel is the public submission path: summary and body are
// mandatory and the model goes straight to published.
func (s *ModelService) SubmitModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error) {
	const op = "model_service.SubmitModel"

	if req.Title == "" || req.Summary == "" || req.Body == "" {
		return nil, fmt.Errorf("title, summary and body are required")
	}

	req.Status = string(models.StatusPublished)
	req.CategoryIDs = nil
	req.TagIDs = nil

	resp, err := s.CreateModel(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

func (s *ModelService) UpdateModel(ctx context.Context, modelID uuid.UUID, req dto.UpdateModelRequest) (*dto.ModelResponse, error) {
	const op = "model_service.UpdateModel"
	log := s.log.With(
		slog.String("op", op),
		slog.String("model_id", modelID.String()),
	)

	existing, err := s.repo.FindModelByID(ctx, modelID)
	if err != nil {
		log.Error("failed to get model", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Summary != nil {
		updates["summary"] = *req.Summary
	}
	if req.Body != nil {
		updates["body"] = *req.Body
		rt := EstimateReadTime(*req.Body)
		updates["read_time"] = rt
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.CoverURL != nil {
		updates["cover_url"] = *req.CoverURL
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	// empty slug on rename regenerates from the effective title
	if slug, ok := updates["slug"].(string); ok && slug == "" {
		if title, ok := updates["title"].(string); ok {
			updates["slug"] = generateSlug(title)
		} else {
			updates["slug"] = generateSlug(existing.Title)
		}
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateModelFields(ctx, modelID, updates); err != nil {
			log.Error("failed to update model", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if req.CategoryIDs != nil || req.TagIDs != nil {
		if err := s.syncRelations(ctx, modelID, req.CategoryIDs, req.TagIDs); err != nil {
			log.Error("failed to sync taxonomy relations", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("model updated")
	return s.toResponse(ctx, modelID)
}

func (s *ModelService) GetModelByID(ctx context.Context, modelID uuid.UUID) (*dto.ModelResponse, error) {
	const op = "model_service.GetModelByID"

	model, err := s.repo.FindModelByID(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return mapToResponse(model), nil
}

// GetPublishedBySlug backs the public detail page: drafts stay invisible.
func (s *ModelService) GetPublishedBySlug(ctx context.Context, slug string) (*dto.ModelResponse, error) {
	const op = "model_service.GetPublishedBySlug"

	model, err := s.repo.FindModelBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if model.Status != models.StatusPublished {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrModelNotFound)
	}
	return mapToResponse(model), nil
}

func (s *ModelService) DeleteModel(ctx context.Context, modelID uuid.UUID) error {
	const op = "model_service.DeleteModel"
	log := s.log.With(
		slog.String("op", op),
		slog.String("model_id", modelID.String()),
	)

	if err := s.repo.DeleteModel(ctx, modelID); err != nil {
		log.Error("failed to delete model", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("model deleted")
	return nil
}

func (s *ModelService) syncRelations(ctx context.Context, modelID uuid.UUID, categoryIDs, tagIDs []uuid.UUID) error {
	if categoryIDs != nil {
		if err := s.taxonomy.ReplaceModelCategories(ctx, modelID, categoryIDs); err != nil {
			return err
		}
	}
	if tagIDs != nil {
		if err := s.taxonomy.ReplaceModelTags(ctx, modelID, tagIDs); err != nil {
			return err
		}
	}
	return nil
}

func (s *ModelService) toResponse(ctx context.Context, modelID uuid.UUID) (*dto.ModelResponse, error) {
	model, err := s.repo.FindModelByID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return mapToResponse(model), nil
}

func mapToResponse(model *models.Model) *dto.ModelResponse {
	return &dto.ModelResponse{
		ID:          model.ID,
		Title:       model.Title,
		Slug:        model.Slug,
		Summary:     model.Summary,
		Body:        model.Body,
		Tags:        model.Tags,
		Category:    model.Category,
		CoverURL:    model.CoverURL,
		AudioURL:    model.AudioURL,
		ReadTime:    model.ReadTime,
		Status:      string(model.Status),
		AudioStatus: string(model.AudioStatus),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// EstimateReadTime assumes 200 words per minute, never under a minute.
func EstimateReadTime(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Round(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func generateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "'", "")
	slug = strings.ReplaceAll(slug, `"`, "")
	return slug
}

func generateUniqueSlug(base string) string {
	return fmt.Sprintf("%s-%d", base, time.Now().UnixNano())
}
