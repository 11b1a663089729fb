// Package dto описывает JSON-представление категорий, общее для HTTP, gRPC и CLI.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type AncestorDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ParentRef — ссылка на родителя. При чтении принимает строковый ID
// или заполненный объект {"_id": ...}; записывается всегда строкой.
type ParentRef struct {
	ID string
}

func (p ParentRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ID)
}

func (p *ParentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		p.ID = ""
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &p.ID)
	}

	var populated struct {
		UnderscoreID string `json:"_id"`
		ID           string `json:"id"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return fmt.Errorf("parent must be an id or an object with _id: %w", err)
	}

	p.ID = populated.UnderscoreID
	if p.ID == "" {
		p.ID = populated.ID
	}
	return nil
}

type CategoryDTO struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Slug      string        `json:"slug"`
	Parent    *ParentRef    `json:"parent"`
	IsActive  *bool         `json:"isActive,omitempty"` // отсутствует — категория активна
	Level     int           `json:"level"`
	Ancestors []AncestorDTO `json:"ancestors"`
	Path      string        `json:"path"`
	Order     int           `json:"order"`
	Image     *string       `json:"image"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

// NodeDTO — узел леса категорий.
type NodeDTO struct {
	CategoryDTO
	Children []NodeDTO `json:"children"`
}

func CategoryFromDomain(c domain.Category) CategoryDTO {
	active := c.IsActive
	out := CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		IsActive:  &active,
		Level:     c.Level,
		Ancestors: AncestorsFromDomain(c.Ancestors),
		Path:      c.Path,
		Order:     c.Order,
		Image:     c.Image,
		UpdatedAt: c.UpdatedAt,
	}
	if c.HasParent() {
		out.Parent = &ParentRef{ID: *c.ParentID}
	}
	if !c.CreatedAt.IsZero() {
		createdAt := c.CreatedAt
		out.CreatedAt = &createdAt
	}
	return out
}

func CategoriesFromDomain(categories []domain.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryFromDomain(c))
	}
	return out
}

// ToDomain переводит запись в доменную категорию. Пустой parent — корень.
func (d CategoryDTO) ToDomain() domain.Category {
	c := domain.Category{
		ID:        strings.TrimSpace(d.ID),
		Name:      d.Name,
		Slug:      d.Slug,
		IsActive:  d.IsActive == nil || *d.IsActive,
		Level:     d.Level,
		Path:      d.Path,
		Order:     d.Order,
		Image:     d.Image,
		UpdatedAt: d.UpdatedAt,
		Ancestors: make([]domain.Ancestor, 0, len(d.Ancestors)),
	}
	if d.Parent != nil && strings.TrimSpace(d.Parent.ID) != "" {
		parent := strings.TrimSpace(d.Parent.ID)
		c.ParentID = &parent
	}
	if d.CreatedAt != nil {
		c.CreatedAt = *d.CreatedAt
	}
	for _, a := range d.Ancestors {
		c.Ancestors = append(c.Ancestors, domain.Ancestor{ID: a.ID, Name: a.Name})
	}
	return c
}

func CategoriesToDomain(records []CategoryDTO) []domain.Category {
	out := make([]domain.Category, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToDomain())
	}
	return out
}

func AncestorsFromDomain(ancestors []domain.Ancestor) []AncestorDTO {
	out := make([]AncestorDTO, 0, len(ancestors))
	for _, a := range ancestors {
		out = append(out, AncestorDTO{ID: a.ID, Name: a.Name})
	}
	return out
}

func NodesFromDomain(nodes []*domain.CategoryNode) []NodeDTO {
	out := make([]NodeDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeDTO{
			CategoryDTO: CategoryFromDomain(n.Category),
			Children:    NodesFromDomain(n.Children),
		})
	}
	return out
}
