package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateHierarchy(ctx context.Context, categories []domain.Category) error
	UpdateOrder(ctx context.Context, items []ReorderItem) error
	SetActive(ctx context.Context, id string, active bool) (*domain.Category, error)
	SetImage(ctx context.Context, id string, image *string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	// ResetStale возвращает в pending события, зависшие в processing дольше olderThan.
	ResetStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CacheRepository хранит снимок плоского списка категорий.
// GetCategories возвращает nil, nil при промахе.
type CacheRepository interface {
	GetCategories(ctx context.Context) (*CategorySnapshot, error)
	SetCategories(ctx context.Context, snapshot *CategorySnapshot) error
	DeleteCategories(ctx context.Context) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
