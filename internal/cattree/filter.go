package cattree

import "github.com/DRSN-tech/catalog-backend/internal/domain"

// FilterActive возвращает лес для витрины без неактивных категорий.
// Активные потомки неактивной категории поднимаются на её место
// в том же порядке, поэтому выключенный раздел не скрывает живое поддерево.
func FilterActive(nodes []*domain.CategoryNode) []*domain.CategoryNode {
	out := make([]*domain.CategoryNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}

		children := FilterActive(n.Children)
		if !n.IsActive {
			out = append(out, children...)
			continue
		}

		out = append(out, &domain.CategoryNode{
			Category: n.Category.Clone(),
			Children: children,
		})
	}
	return out
}
