package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mental_models_hub/internal/catalog"
	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/lib/logger/sl"
	"mental_models_hub/internal/metrics"
	"mental_models_hub/internal/repository"

	"golang.org/x/sync/errgroup"
)

// TaxonomyLister is the read side of the taxonomy service. Browse only
// needs the lists; mutations stay on the taxonomy service proper.
type TaxonomyLister interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type CatalogService struct {
	log      *slog.Logger
	models   repository.ModelRepository
	taxonomy TaxonomyLister
}

func NewCatalogService(log *slog.Logger, modelRepo repository.ModelRepository, taxonomy TaxonomyLister) *CatalogService {
	return &CatalogService{
		log:      log,
		models:   modelRepo,
		taxonomy: taxonomy,
	}
}

type BrowseResult struct {
	Cards      []catalog.ModelCard `json:"items"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Categories []models.Category   `json:"categories"`
	Tags       []models.Tag        `json:"tags"`
	Statuses   []string            `json:"statuses,omitempty"`
}

// BrowseLibrary serves the public library view: status is pinned to
// published regardless of what the request carries.
func (s *CatalogService) BrowseLibrary(ctx context.Context, req catalog.FilterRequest) (*BrowseResult, error) {
	req.Statuses = []string{string(models.StatusPublished)}
	return s.browse(ctx, "library", req, false)
}

// BrowseAdmin serves the admin console: no implicit status restriction,
// and the distinct-status facet is included for the status filter.
func (s *CatalogService) BrowseAdmin(ctx context.Context, req catalog.FilterRequest) (*BrowseResult, error) {
	return s.browse(ctx, "admin", req, true)
}

func (s *CatalogService) browse(ctx context.Context, surface string, req catalog.FilterRequest, withStatuses bool) (*BrowseResult, error) {
	const op = "catalog_service.browse"
	log := s.log.With(
		slog.String("op", op),
		slog.String("surface", surface),
	)

	if req.PageSize <= 0 {
		req.PageSize = catalog.PageSize
	}
	if req.Page < 1 {
		req.Page = 1
	}

	var (
		items      []models.Model
		total      int
		categories []models.Category
		tags       []models.Tag
		statuses   []string
	)

	// Taxonomy fetches fail open: a missing list degrades labels, it
	// must never take the whole page down.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, total, err = s.models.FindModels(gctx, req)
		return err
	})
	g.Go(func() error {
		list, err := s.taxonomy.ListCategories(gctx)
		if err != nil {
			log.Warn("category list unavailable", sl.Err(err))
			return nil
		}
		categories = list
		return nil
	})
	g.Go(func() error {
		list, err := s.taxonomy.ListTags(gctx)
		if err != nil {
			log.Warn("tag list unavailable", sl.Err(err))
			return nil
		}
		tags = list
		return nil
	})
	if withStatuses {
		g.Go(func() error {
			list, err := s.models.ListModelStatuses(gctx)
			if err != nil {
				log.Warn("status facet unavailable", sl.Err(err))
				return nil
			}
			statuses = list
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.CatalogQueriesTotal.WithLabelValues(surface, "error").Inc()
		log.Error("model window query failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The requested page can fall past the end after content shrinks;
	// clamp unconditionally and refetch the real last page when the
	// clamped window still has content to show.
	if clamped := catalog.ClampPage(req.Page, total, req.PageSize); clamped != req.Page {
		req.Page = clamped
		if total > 0 {
			var err error
			items, total, err = s.models.FindModels(ctx, req)
			if err != nil {
				metrics.CatalogQueriesTotal.WithLabelValues(surface, "error").Inc()
				log.Error("clamped window query failed", sl.Err(err))
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	metrics.CatalogQueriesTotal.WithLabelValues(surface, "ok").Inc()

	return &BrowseResult{
		Cards:      catalog.DecorateModels(items, catalog.NewCategoryIndex(categories), catalog.NewTagIndex(tags)),
		TotalCount: total,
		Page:       req.Page,
		TotalPages: catalog.TotalPages(total, req.PageSize),
		Categories: categories,
		Tags:       tags,
		Statuses:   statuses,
	}, nil
}

// IsQueryFailure reports whether err came from the content store rather
// than bad input, so transport can pick a 500-class response.
func IsQueryFailure(err error) bool {
	return errors.Is(err, repository.ErrQueryFailure)
}
