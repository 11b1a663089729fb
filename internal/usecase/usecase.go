package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type CategoryUC interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetTree(ctx context.Context, req *GetTreeReq) (*GetTreeRes, error)
	GetPath(ctx context.Context, id string) ([]domain.Ancestor, error)
	GetHoverPath(ctx context.Context, id string) ([]string, error)
	CreateCategory(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error)
	UpdateCategory(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ReorderCategories(ctx context.Context, req *ReorderReq) error
	ToggleStatus(ctx context.Context, id string) (*domain.Category, error)
	UploadImage(ctx context.Context, req *UploadImageReq) (*domain.Category, error)
}
