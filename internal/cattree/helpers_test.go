package cattree

import "github.com/DRSN-tech/catalog-backend/internal/domain"

func ptr(s string) *string { return &s }

func cat(id, name, parent string, order int) domain.Category {
	c := domain.Category{ID: id, Name: name, Slug: "s-" + id, Order: order, IsActive: true}
	if parent != "" {
		c.ParentID = ptr(parent)
	}
	return c
}

// shape — упрощённый вид леса для сравнения в тестах.
type shape struct {
	ID       string
	Children []shape
}

func shapeOf(nodes []*domain.CategoryNode) []shape {
	out := make([]shape, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, shape{ID: n.ID, Children: shapeOf(n.Children)})
	}
	return out
}

func ids(nodes []*domain.CategoryNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}
