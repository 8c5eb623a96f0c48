package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mental_models_hub/internal/catalog"
	"mental_models_hub/internal/domain/models"
	"mental_models_hub/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

// ErrQueryFailure wraps content-store errors on the catalog read path so
// callers can map them to a 500-class response without string matching.
var ErrQueryFailure = errors.New("catalog query failed")

const modelsTable = "models"

var modelColumns = []string{
	"id", "title", "slug", "summary", "body", "tags", "category",
	"cover_url", "audio_url", "read_time", "status", "audio_status",
	"created_at", "updated_at",
}

type ModelRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewModelRepository(db *pgxpool.Pool) *ModelRepo {
	return &ModelRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// applyFilter translates one FilterRequest into predicates shared by the
// window query and the count query.
func applyFilter(builder sq.SelectBuilder, f catalog.FilterRequest) sq.SelectBuilder {
	if term := catalog.SanitizeSearch(f.Search); term != "" {
		builder = builder.Where(sq.ILike{"title": "%" + term + "%"})
	}
	if len(f.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": f.Statuses})
	}
	if len(f.Categories) > 0 {
		builder = builder.Where(sq.Eq{"category": f.Categories})
	}
	if len(f.Tags) > 0 {
		// set overlap, not subset
		builder = builder.Where(sq.Expr("tags && ?::text[]", pq.Array(f.Tags)))
	}
	return builder
}

func (r *ModelRepo) buildWindowQuery(f catalog.FilterRequest) (string, []interface{}, error) {
	builder := applyFilter(r.sb.Select(modelColumns...).From(modelsTable), f)

	order := "created_at DESC"
	if f.Sort == catalog.SortOldest {
		order = "created_at ASC"
	}

	size := f.PageSize
	if size <= 0 {
		size = catalog.PageSize
	}

	return builder.
		OrderBy(order).
		Limit(uint64(size)).
		Offset(uint64(f.Offset())).
		ToSql()
}

func (r *ModelRepo) buildCountQuery(f catalog.FilterRequest) (string, []interface{}, error) {
	return applyFilter(r.sb.Select("COUNT(*)").From(modelsTable), f).ToSql()
}

// FindModels runs one filtered window query plus the matching count. An
// offset past the end yields an empty slice with the true count; it is not
// an error.
func (r *ModelRepo) FindModels(ctx context.Context, f catalog.FilterRequest) ([]models.Model, int, error) {
	const op = "repository.model_repository.FindModels"

	query, args, err := r.buildWindowQuery(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %s", op, ErrQueryFailure, err.Error())
	}
	defer rows.Close()

	items := make([]models.Model, 0, f.PageSize)
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %s", op, ErrQueryFailure, err.Error())
	}

	countQuery, countArgs, err := r.buildCountQuery(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return items, 0, nil
		}
		return nil, 0, fmt.Errorf("%s: %w: %s", op, ErrQueryFailure, err.Error())
	}

	return items, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanModel(row rowScanner) (models.Model, error) {
	var m models.Model
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Slug,
		&m.Summary,
		&m.Body,
		&m.Tags,
		&m.Category,
		&m.CoverURL,
		&m.AudioURL,
		&m.ReadTime,
		&m.Status,
		&m.AudioStatus,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *ModelRepo) FindModelByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	const op = "repository.model_repository.FindModelByID"
	return r.findOne(ctx, op, sq.Eq{"id": id})
}

func (r *ModelRepo) FindModelBySlug(ctx context.Context, slug string) (*models.Model, error) {
	const op = "repository.model_repository.FindModelBySlug"
	return r.findOne(ctx, op, sq.Eq{"slug": slug})
}

func (r *ModelRepo) findOne(ctx context.Context, op string, pred sq.Eq) (*models.Model, error) {
	query, args, err := r.sb.Select(modelColumns...).From(modelsTable).Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m, err := scanModel(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrModelNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &m, nil
}

func (r *ModelRepo) SaveModel(ctx context.Context, model models.Model) (uuid.UUID, error) {
	const op = "repository.model_repository.SaveModel"

	query, args, err := r.sb.Insert(modelsTable).
		Columns(
			"title",
			"slug",
			"summary",
			"body",
			"tags",
			"category",
			"cover_url",
			"audio_url",
			"read_time",
			"status",
			"audio_status",
			"created_at",
			"updated_at",
		).
		Values(
			model.Title,
			model.Slug,
			model.Summary,
			model.Body,
			pq.Array(model.Tags),
			model.Category,
			model.CoverURL,
			model.AudioURL,
			model.ReadTime,
			model.Status,
			model.AudioStatus,
			model.CreatedAt,
			model.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *ModelRepo) UpdateModelFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.model_repository.UpdateModelFields"

	allowedFields := map[string]bool{
		"title":        true,
		"slug":         true,
		"summary":      true,
		"body":         true,
		"tags":         true,
		"category":     true,
		"cover_url":    true,
		"audio_url":    true,
		"read_time":    true,
		"status":       true,
		"audio_status": true,
	}

	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	updateBuilder := r.sb.Update(modelsTable).
		Set("updated_at", time.Now().UTC())

	for field, value := range updates {
		if !allowedFields[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}
		if field == "tags" {
			if tags, ok := value.([]string); ok {
				value = pq.Array(tags)
			}
		}
		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ModelRepo) DeleteModel(ctx context.Context, id uuid.UUID) error {
	const op = "repository.model_repository.DeleteModel"

	query, args, err := r.sb.Delete(modelsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrModelNotFound)
	}

	return nil
}

// ListModelStatuses returns the distinct statuses present, for the admin
// status facet.
func (r *ModelRepo) ListModelStatuses(ctx context.Context) ([]string, error) {
	const op = "repository.model_repository.ListModelStatuses"

	query, args, err := r.sb.Select("DISTINCT status").From(modelsTable).OrderBy("status").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if s != "" {
			statuses = append(statuses, s)
		}
	}

	return statuses, rows.Err()
}

// SetPrimaryAudio demotes existing audio assets for the model and inserts
// the new one as primary.
func (r *ModelRepo) SetPrimaryAudio(ctx context.Context, modelID uuid.UUID, audioURL string) error {
	const op = "repository.model_repository.SetPrimaryAudio"

	demote, demoteArgs, err := r.sb.Update("audio_assets").
		Set("is_primary", false).
		Where(sq.Eq{"model_id": modelID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := r.db.Exec(ctx, demote, demoteArgs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	insert, insertArgs, err := r.sb.Insert("audio_assets").
		Columns("model_id", "audio_url", "status", "is_primary", "created_at").
		Values(modelID, audioURL, models.AudioReady, true, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := r.db.Exec(ctx, insert, insertArgs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
