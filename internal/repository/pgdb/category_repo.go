package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const categoryColumns = `id, name, slug, parent_id, is_active, level, path, sort_order, ancestors, image, created_at, updated_at`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// GetAll возвращает все категории в порядке создания.
func (c *CategoryRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at, id`

	rows, err := conn(ctx, c.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToArrEntity(models), nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	rows, err := conn(ctx, c.pool).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.collectOne(rows)
}

// Create вставляет категорию с уже вычисленными level, path и ancestors.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := c.conv.ToModel(category)
	query := `
		INSERT INTO categories (id, name, slug, parent_id, is_active, level, path, sort_order, ancestors, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + categoryColumns

	rows, err := tx.Query(ctx, query,
		model.ID,
		model.Name,
		model.Slug,
		model.ParentID,
		model.IsActive,
		model.Level,
		model.Path,
		model.SortOrder,
		model.Ancestors,
		model.Image,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapWriteError(err))
	}

	return c.collectOne(rows)
}

// Update сохраняет редактируемые поля категории. Денормализованные поля
// обновляются отдельно через UpdateHierarchy.
func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := c.conv.ToModel(category)
	query := `
		UPDATE categories
		SET name = $2, slug = $3, parent_id = $4, is_active = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	rows, err := tx.Query(ctx, query,
		model.ID,
		model.Name,
		model.Slug,
		model.ParentID,
		model.IsActive,
		model.SortOrder,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapWriteError(err))
	}

	return c.collectOne(rows)
}

// UpdateHierarchy пакетно записывает level, path и ancestors.
func (c *CategoryRepo) UpdateHierarchy(ctx context.Context, categories []domain.Category) error {
	query := `
		UPDATE categories
		SET level = $2, path = $3, ancestors = $4, updated_at = NOW()
		WHERE id = $1
	`

	batch := &pgx.Batch{}
	for i := range categories {
		model := c.conv.ToModel(&categories[i])
		batch.Queue(query, model.ID, model.Level, model.Path, model.Ancestors)
	}

	ids := make([]string, len(categories))
	for i, cat := range categories {
		ids[i] = cat.ID
	}

	return c.execBatch(ctx, batch, ids)
}

// UpdateOrder пакетно записывает порядок категорий.
func (c *CategoryRepo) UpdateOrder(ctx context.Context, items []usecase.ReorderItem) error {
	query := `UPDATE categories SET sort_order = $2, updated_at = NOW() WHERE id = $1`

	batch := &pgx.Batch{}
	ids := make([]string, len(items))
	for i, item := range items {
		batch.Queue(query, item.ID, item.Order)
		ids[i] = item.ID
	}

	return c.execBatch(ctx, batch, ids)
}

func (c *CategoryRepo) SetActive(ctx context.Context, id string, active bool) (*domain.Category, error) {
	query := `
		UPDATE categories SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	rows, err := conn(ctx, c.pool).Query(ctx, query, id, active)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.collectOne(rows)
}

func (c *CategoryRepo) SetImage(ctx context.Context, id string, image *string) (*domain.Category, error) {
	query := `
		UPDATE categories SET image = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	rows, err := conn(ctx, c.pool).Query(ctx, query, id, image)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.collectOne(rows)
}

// Delete удаляет категорию. Внешний ключ parent_id (ON DELETE RESTRICT)
// не даёт удалить категорию с потомками.
func (c *CategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, c.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrCategoryHasChildren)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}

	return nil
}

func (c *CategoryRepo) collectOne(rows pgx.Rows) (*domain.Category, error) {
	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), mapWriteError(err))
	}

	return c.conv.ToEntity(&model), nil
}

// execBatch выполняет пакет UPDATE'ов. Каждое выражение должно затронуть ровно одну строку.
func (c *CategoryRepo) execBatch(ctx context.Context, batch *pgx.Batch, ids []string) (err error) {
	if batch.Len() == 0 {
		return nil
	}

	results := conn(ctx, c.pool).SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = e.Wrap(whereami.WhereAmI(), closeErr)
		}
	}()

	for _, id := range ids {
		tag, err := results.Exec()
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), mapWriteError(err))
		}
		if tag.RowsAffected() == 0 {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %s", e.ErrCategoryNotFound, id))
		}
	}

	return nil
}

// mapWriteError переводит нарушения ограничений в доменные ошибки.
func mapWriteError(err error) error {
	switch {
	case postgresDuplicate(err):
		return e.ErrSlugTaken
	case postgresForeignKey(err):
		return e.ErrParentCategoryMissing
	default:
		return err
	}
}
