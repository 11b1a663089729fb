package cattree

import (
	"slices"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// ExpandState — множество раскрытых узлов. Хранится у вызывающей стороны,
// дерево от него не зависит. Нулевое значение (nil) допустимо только для чтения.
type ExpandState map[string]struct{}

func NewExpandState(ids ...string) ExpandState {
	s := make(ExpandState, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ExpandState) IsExpanded(id string) bool {
	_, ok := s[id]
	return ok
}

func (s ExpandState) Expand(id string) {
	s[id] = struct{}{}
}

func (s ExpandState) Collapse(id string) {
	delete(s, id)
}

// Toggle переключает узел и возвращает новое состояние.
func (s ExpandState) Toggle(id string) bool {
	if s.IsExpanded(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// ExpandPath раскрывает все узлы пути, например результат HoverPath.
func (s ExpandState) ExpandPath(ids []string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// ExpandAll раскрывает все узлы, у которых есть дети.
func (s ExpandState) ExpandAll(nodes []*domain.CategoryNode) {
	WalkAll(nodes, func(n *domain.CategoryNode, _ int) bool {
		if len(n.Children) > 0 {
			s[n.ID] = struct{}{}
		}
		return true
	})
}

func (s ExpandState) Clear() {
	clear(s)
}

// IDs возвращает раскрытые ID в отсортированном виде.
func (s ExpandState) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Selection — выбор категории в форме товара. Допускается только одна
// выбранная категория: Select заменяет всё множество.
type Selection struct {
	ids map[string]struct{}
}

func (s *Selection) Select(id string) {
	s.ids = map[string]struct{}{id: {}}
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Selected возвращает выбранный ID, если он есть.
func (s *Selection) Selected() (string, bool) {
	for id := range s.ids {
		return id, true
	}
	return "", false
}

func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids
}

func (s *Selection) Clear() {
	s.ids = nil
}

// VisitFunc вызывается для каждого посещённого узла. depth у корней равен 0.
// Возврат false прекращает обход.
type VisitFunc func(node *domain.CategoryNode, depth int) bool

// Walk обходит лес в глубину и спускается только в раскрытые узлы.
func Walk(nodes []*domain.CategoryNode, expanded ExpandState, visit VisitFunc) {
	walk(nodes, 0, func(n *domain.CategoryNode) bool { return expanded.IsExpanded(n.ID) }, visit, make(map[*domain.CategoryNode]struct{}))
}

// WalkAll обходит весь лес в глубину независимо от раскрытия.
func WalkAll(nodes []*domain.CategoryNode, visit VisitFunc) {
	walk(nodes, 0, func(*domain.CategoryNode) bool { return true }, visit, make(map[*domain.CategoryNode]struct{}))
}

func walk(
	nodes []*domain.CategoryNode,
	depth int,
	descend func(*domain.CategoryNode) bool,
	visit VisitFunc,
	seen map[*domain.CategoryNode]struct{},
) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}

		if !visit(n, depth) {
			return false
		}
		if len(n.Children) > 0 && descend(n) {
			if !walk(n.Children, depth+1, descend, visit, seen) {
				return false
			}
		}
	}
	return true
}

// Row — строка отрисовки дерева.
type Row struct {
	Node        *domain.CategoryNode
	Depth       int
	HasChildren bool
	Expanded    bool
}

// Visible возвращает строки, которые видны при данном наборе раскрытых узлов.
func Visible(nodes []*domain.CategoryNode, expanded ExpandState) []Row {
	rows := make([]Row, 0)
	Walk(nodes, expanded, func(n *domain.CategoryNode, depth int) bool {
		rows = append(rows, Row{
			Node:        n,
			Depth:       depth,
			HasChildren: len(n.Children) > 0,
			Expanded:    expanded.IsExpanded(n.ID),
		})
		return true
	})
	return rows
}

// Find ищет узел по ID. Возвращает nil, если узла нет.
func Find(nodes []*domain.CategoryNode, id string) *domain.CategoryNode {
	var found *domain.CategoryNode
	WalkAll(nodes, func(n *domain.CategoryNode, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Flatten возвращает все узлы в прямом порядке обхода.
func Flatten(nodes []*domain.CategoryNode) []*domain.CategoryNode {
	out := make([]*domain.CategoryNode, 0)
	WalkAll(nodes, func(n *domain.CategoryNode, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

func Count(nodes []*domain.CategoryNode) int {
	total := 0
	WalkAll(nodes, func(*domain.CategoryNode, int) bool {
		total++
		return true
	})
	return total
}

// Siblings возвращает упорядоченных детей parentID; пустой parentID означает корни.
// Для неизвестного родителя возвращается nil.
func Siblings(nodes []*domain.CategoryNode, parentID string) []*domain.CategoryNode {
	if parentID == "" {
		return nodes
	}
	parent := Find(nodes, parentID)
	if parent == nil {
		return nil
	}
	return parent.Children
}
