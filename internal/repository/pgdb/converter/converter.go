package converter

import (
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
	ToArrEntity(models []CategoryModel) []domain.Category
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type CategoryConverterImpl struct{}

func NewCategoryConverter() *CategoryConverterImpl {
	return &CategoryConverterImpl{}
}

func (c *CategoryConverterImpl) ToModel(entity *domain.Category) *CategoryModel {
	if entity == nil {
		return nil
	}

	ancestors := make([]AncestorModel, 0, len(entity.Ancestors))
	for _, a := range entity.Ancestors {
		ancestors = append(ancestors, AncestorModel{ID: a.ID, Name: a.Name})
	}

	var parentID *string
	if entity.HasParent() {
		parentID = clonePointer(entity.ParentID)
	}

	return &CategoryModel{
		ID:        entity.ID,
		Name:      entity.Name,
		Slug:      entity.Slug,
		ParentID:  parentID,
		IsActive:  entity.IsActive,
		Level:     entity.Level,
		Path:      entity.Path,
		SortOrder: entity.Order,
		Ancestors: ancestors,
		Image:     clonePointer(entity.Image),
		CreatedAt: entity.CreatedAt,
		UpdatedAt: clonePointer(entity.UpdatedAt),
	}
}

func (c *CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}

	ancestors := make([]domain.Ancestor, 0, len(model.Ancestors))
	for _, a := range model.Ancestors {
		ancestors = append(ancestors, domain.Ancestor{ID: a.ID, Name: a.Name})
	}

	return &domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		Slug:      model.Slug,
		ParentID:  clonePointer(model.ParentID),
		IsActive:  model.IsActive,
		Level:     model.Level,
		Path:      model.Path,
		Order:     model.SortOrder,
		Ancestors: ancestors,
		Image:     clonePointer(model.Image),
		CreatedAt: model.CreatedAt,
		UpdatedAt: clonePointer(model.UpdatedAt),
	}
}

func (c *CategoryConverterImpl) ToArrEntity(models []CategoryModel) []domain.Category {
	out := make([]domain.Category, 0, len(models))
	for i := range models {
		out = append(out, *c.ToEntity(&models[i]))
	}
	return out
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverter() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (o *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: clonePointer(entity.ProcessedAt),
	}
}

func (o *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: clonePointer(model.ProcessedAt),
	}
}

func (o *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		out = append(out, o.ToEntity(m))
	}
	return out
}

// clonePointer копирует значение под указателем, чтобы модель и сущность не делили память.
func clonePointer[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
