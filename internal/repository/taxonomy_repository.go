package repository

import (
	"context"
	"fmt"
	"time"

	"mental_models_hub/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type TaxonomyRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewTaxonomyRepository(db *pgxpool.Pool) *TaxonomyRepo {
	return &TaxonomyRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListCategories returns every category ordered by name. Taxonomy tables
// are admin-curated and small; no pagination.
func (r *TaxonomyRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "repository.taxonomy_repository.ListCategories"

	query, args, err := r.sb.Select("id", "name", "slug", "description", "created_at", "updated_at").
		From("categories").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *TaxonomyRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "repository.taxonomy_repository.ListTags"

	query, args, err := r.sb.Select("id", "name", "slug", "created_at", "updated_at").
		From("tags").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

func (r *TaxonomyRepo) SaveCategory(ctx context.Context, category models.Category) (uuid.UUID, error) {
	const op = "repository.taxonomy_repository.SaveCategory"

	query, args, err := r.sb.Insert("categories").
		Columns("name", "slug", "description", "created_at", "updated_at").
		Values(category.Name, category.Slug, category.Description, time.Now().UTC(), time.Now().UTC()).
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

func (r *TaxonomyRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.taxonomy_repository.UpdateCategory"
	return r.updateFields(ctx, op, "categories", id, updates, map[string]bool{
		"name":        true,
		"slug":        true,
		"description": true,
	})
}

func (r *TaxonomyRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "repository.taxonomy_repository.DeleteCategory"
	return r.deleteByID(ctx, op, "categories", id)
}

func (r *TaxonomyRepo) SaveTag(ctx context.Context, tag models.Tag) (uuid.UUID, error) {
	const op = "repository.taxonomy_repository.SaveTag"

	query, args, err := r.sb.Insert("tags").
		Columns("name", "slug", "created_at", "updated_at").
		Values(tag.Name, tag.Slug, time.Now().UTC(), time.Now().UTC()).
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

func (r *TaxonomyRepo) UpdateTag(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.taxonomy_repository.UpdateTag"
	return r.updateFields(ctx, op, "tags", id, updates, map[string]bool{
		"name": true,
		"slug": true,
	})
}

func (r *TaxonomyRepo) DeleteTag(ctx context.Context, id uuid.UUID) error {
	const op = "repository.taxonomy_repository.DeleteTag"
	return r.deleteByID(ctx, op, "tags", id)
}

func (r *TaxonomyRepo) updateFields(ctx context.Context, op, table string, id uuid.UUID, updates map[string]interface{}, allowed map[string]bool) error {
	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	builder := r.sb.Update(table).Set("updated_at", time.Now().UTC())
	for field, value := range updates {
		if !allowed[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}
		builder = builder.Set(field, value)
	}

	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *TaxonomyRepo) deleteByID(ctx context.Context, op, table string, id uuid.UUID) error {
	query, args, err := r.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ReplaceModelCategories reconciles the model_categories junction to the
// given set: missing rows are upserted, surplus rows removed. Ordinary
// relational bookkeeping, no special machinery.
func (r *TaxonomyRepo) ReplaceModelCategories(ctx context.Context, modelID uuid.UUID, categoryIDs []uuid.UUID) error {
	const op = "repository.taxonomy_repository.ReplaceModelCategories"
	return r.replaceJunction(ctx, op, "model_categories", "category_id", modelID, categoryIDs)
}

func (r *TaxonomyRepo) ReplaceModelTags(ctx context.Context, modelID uuid.UUID, tagIDs []uuid.UUID) error {
	const op = "repository.taxonomy_repository.ReplaceModelTags"
	return r.replaceJunction(ctx, op, "model_tags", "tag_id", modelID, tagIDs)
}

func (r *TaxonomyRepo) replaceJunction(ctx context.Context, op, table, refColumn string, modelID uuid.UUID, refIDs []uuid.UUID) error {
	if len(refIDs) == 0 {
		query, args, err := r.sb.Delete(table).Where(sq.Eq{"model_id": modelID}).ToSql()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err := r.db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	insert := r.sb.Insert(table).Columns("model_id", refColumn)
	for _, refID := range refIDs {
		insert = insert.Values(modelID, refID)
	}
	query, args, err := insert.
		Suffix(fmt.Sprintf("ON CONFLICT (model_id, %s) DO NOTHING", refColumn)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// drop junction rows no longer in the set
	del, delArgs, err := r.sb.Delete(table).
		Where(sq.Eq{"model_id": modelID}).
		Where(sq.NotEq{refColumn: refIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := r.db.Exec(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
