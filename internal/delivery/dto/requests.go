package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
)

type CreateCategoryRequest struct {
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Parent   *ParentRef `json:"parent"`
	Order    int        `json:"order"`
	IsActive *bool      `json:"isActive"`
}

func (r *CreateCategoryRequest) ToUseCase() *usecase.CreateCategoryReq {
	req := &usecase.CreateCategoryReq{
		Name:     r.Name,
		Slug:     strings.TrimSpace(r.Slug),
		Order:    r.Order,
		IsActive: r.IsActive,
	}
	if r.Parent != nil {
		parent := r.Parent.ID
		req.ParentID = &parent
	}
	return req
}

// OptionalParent различает отсутствующее поле parent и явный null.
type OptionalParent struct {
	Set bool
	ID  string // пустой при null — перенос в корень
}

func (o *OptionalParent) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.ID = ""
		return nil
	}

	var ref ParentRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	o.ID = ref.ID
	return nil
}

// UpdateCategoryRequest — тело PATCH. Отсутствующие поля не меняются.
type UpdateCategoryRequest struct {
	Name     *string        `json:"name"`
	Slug     *string        `json:"slug"`
	Parent   OptionalParent `json:"parent"`
	Order    *int           `json:"order"`
	IsActive *bool          `json:"isActive"`
}

func (r *UpdateCategoryRequest) ToUseCase(id string) *usecase.UpdateCategoryReq {
	req := &usecase.UpdateCategoryReq{
		ID:       id,
		Name:     r.Name,
		Slug:     r.Slug,
		Order:    r.Order,
		IsActive: r.IsActive,
	}
	if r.Parent.Set {
		parent := r.Parent.ID
		req.ParentID = &parent
	}
	return req
}

// Empty сообщает, что в запросе нет ни одного поля для изменения.
func (r *UpdateCategoryRequest) Empty() bool {
	return r.Name == nil && r.Slug == nil && !r.Parent.Set && r.Order == nil && r.IsActive == nil
}

type ReorderItemDTO struct {
	ID    string `json:"_id"`
	Order int    `json:"order"`
}

type ReorderRequest struct {
	Items []ReorderItemDTO `json:"items"`
}

func (r *ReorderRequest) ToUseCase() *usecase.ReorderReq {
	items := make([]usecase.ReorderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, usecase.ReorderItem{ID: it.ID, Order: it.Order})
	}
	return &usecase.ReorderReq{Items: items}
}

type TreeResponse struct {
	Version    string    `json:"version"`
	Categories []NodeDTO `json:"categories"`
}

type HoverPathResponse struct {
	IDs []string `json:"ids"`
}
