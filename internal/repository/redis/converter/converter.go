package converter

import (
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
)

type CategoriesSnapshotConverter interface {
	ToRedisModel(entity *usecase.CategorySnapshot) *CategoriesSnapshotRedisModel
	ToUseCase(model *CategoriesSnapshotRedisModel) *usecase.CategorySnapshot
}

type CategoriesSnapshotConverterImpl struct{}

func NewCategoriesSnapshotConverter() *CategoriesSnapshotConverterImpl {
	return &CategoriesSnapshotConverterImpl{}
}

func (c *CategoriesSnapshotConverterImpl) ToRedisModel(entity *usecase.CategorySnapshot) *CategoriesSnapshotRedisModel {
	if entity == nil {
		return nil
	}

	categories := make([]CategoryRedisModel, 0, len(entity.Categories))
	for _, cat := range entity.Categories {
		ancestors := make([]AncestorRedisModel, 0, len(cat.Ancestors))
		for _, a := range cat.Ancestors {
			ancestors = append(ancestors, AncestorRedisModel{ID: a.ID, Name: a.Name})
		}

		categories = append(categories, CategoryRedisModel{
			ID:        cat.ID,
			Name:      cat.Name,
			Slug:      cat.Slug,
			ParentID:  cat.ParentID,
			IsActive:  cat.IsActive,
			Level:     cat.Level,
			Path:      cat.Path,
			Order:     cat.Order,
			Ancestors: ancestors,
			Image:     cat.Image,
			CreatedAt: cat.CreatedAt,
			UpdatedAt: cat.UpdatedAt,
		})
	}

	return &CategoriesSnapshotRedisModel{
		Version:    entity.Version,
		LoadedAt:   entity.LoadedAt,
		Categories: categories,
	}
}

// ToUseCase восстанавливает снимок. Версия пересчитывается по содержимому,
// поэтому снимок, записанный другой версией сервиса, не смешается с текущими деревьями.
func (c *CategoriesSnapshotConverterImpl) ToUseCase(model *CategoriesSnapshotRedisModel) *usecase.CategorySnapshot {
	if model == nil {
		return nil
	}

	categories := make([]domain.Category, 0, len(model.Categories))
	for _, m := range model.Categories {
		ancestors := make([]domain.Ancestor, 0, len(m.Ancestors))
		for _, a := range m.Ancestors {
			ancestors = append(ancestors, domain.Ancestor{ID: a.ID, Name: a.Name})
		}

		categories = append(categories, domain.Category{
			ID:        m.ID,
			Name:      m.Name,
			Slug:      m.Slug,
			ParentID:  m.ParentID,
			IsActive:  m.IsActive,
			Level:     m.Level,
			Path:      m.Path,
			Order:     m.Order,
			Ancestors: ancestors,
			Image:     m.Image,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}

	return usecase.NewCategorySnapshot(categories, model.LoadedAt)
}
