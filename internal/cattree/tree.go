// Package cattree строит дерево категорий из плоского списка и содержит
// обходы, которые используют админка, витрина и выбор категории в форме товара.
//
// Все функции чистые: входные данные не изменяются, каждый вызов возвращает новые узлы.
package cattree

import (
	"cmp"
	"slices"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type entry struct {
	node *domain.CategoryNode
	idx  int // позиция записи во входном срезе
}

// BuildTree превращает плоский список категорий в отсортированный лес.
//
// Категория без родителя, а также категория, чей родитель отсутствует во входных данных,
// становится корнем. При повторяющемся ID побеждает последняя запись. Если ссылки на
// родителей образуют цикл, первая по порядку категория цикла становится корнем, так что
// каждый уникальный ID попадает в лес ровно один раз.
//
// Соседи упорядочены по Order, при равенстве — по позиции во входном срезе.
func BuildTree(records []domain.Category) []*domain.CategoryNode {
	roots := make([]*domain.CategoryNode, 0)
	if len(records) == 0 {
		return roots
	}

	lookup := make(map[string]*entry, len(records))
	for i := range records {
		lookup[records[i].ID] = &entry{
			node: &domain.CategoryNode{
				Category: records[i].Clone(),
				Children: make([]*domain.CategoryNode, 0),
			},
			idx: i,
		}
	}

	survivors := make([]*entry, 0, len(lookup))
	for i := range records {
		if ent := lookup[records[i].ID]; ent.idx == i {
			survivors = append(survivors, ent) // более ранние дубли перекрыты
		}
	}

	cut := breakCycles(survivors, lookup)
	for _, ent := range survivors {
		parent := parentOf(ent, lookup)
		if _, ok := cut[ent]; ok || parent == nil {
			roots = append(roots, ent.node)
			continue
		}
		parent.node.Children = append(parent.node.Children, ent.node)
	}

	sortNodes(roots)
	return roots
}

func parentOf(ent *entry, lookup map[string]*entry) *entry {
	if !ent.node.HasParent() {
		return nil
	}
	return lookup[*ent.node.ParentID]
}

const (
	unvisited uint8 = iota
	onPath
	done
)

// breakCycles за один проход по цепочкам родителей находит циклы и возвращает
// по одному узлу из каждого: того, что раньше других встречается во входных данных.
// Каждый узел окрашивается один раз, поэтому глубина дерева на время не влияет.
func breakCycles(survivors []*entry, lookup map[string]*entry) map[*entry]struct{} {
	cut := make(map[*entry]struct{})
	state := make(map[*entry]uint8, len(survivors))
	path := make([]*entry, 0)

	for _, start := range survivors {
		if state[start] != unvisited {
			continue
		}

		path = path[:0]
		cur := start
		for cur != nil && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			cur = parentOf(cur, lookup)
		}

		// цепочка упёрлась в узел текущего пути: path[pos:] образует цикл
		if cur != nil && state[cur] == onPath {
			pos := len(path) - 1
			for path[pos] != cur {
				pos--
			}
			first := path[pos]
			for _, ent := range path[pos+1:] {
				if ent.idx < first.idx {
					first = ent
				}
			}
			cut[first] = struct{}{}
		}

		for _, ent := range path {
			state[ent] = done
		}
	}

	return cut
}

// sortNodes стабильно сортирует соседей по Order и рекурсивно спускается в детей.
func sortNodes(nodes []*domain.CategoryNode) {
	slices.SortStableFunc(nodes, func(a, b *domain.CategoryNode) int {
		return cmp.Compare(a.Order, b.Order)
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
