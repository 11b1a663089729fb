package cattree

import (
	"slices"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// Denormalize возвращает плоские копии всех узлов леса с пересчитанными
// Level, Path и Ancestors. ParentID не меняется.
func Denormalize(roots []*domain.CategoryNode) []domain.Category {
	out := make([]domain.Category, 0, Count(roots))

	var walk func(nodes []*domain.CategoryNode, ancestors []domain.Ancestor, slugs []string)
	walk = func(nodes []*domain.CategoryNode, ancestors []domain.Ancestor, slugs []string) {
		for _, n := range nodes {
			c := n.Category.Clone()
			c.Level = len(ancestors)
			c.Ancestors = make([]domain.Ancestor, len(ancestors))
			copy(c.Ancestors, ancestors)

			path := append(slices.Clone(slugs), c.Slug)
			c.Path = strings.Join(path, "/")
			out = append(out, c)

			next := append(slices.Clone(ancestors), domain.Ancestor{ID: c.ID, Name: c.Name})
			walk(n.Children, next, path)
		}
	}
	walk(roots, nil, nil)

	return out
}
