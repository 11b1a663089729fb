package cattree

import (
	"slices"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// Index — поиск категорий по ID в рамках одного снимка плоского списка.
type Index struct {
	byID     map[string]domain.Category
	children map[string]int
}

// NewIndex строит индекс. При повторяющемся ID побеждает последняя запись.
func NewIndex(records []domain.Category) *Index {
	idx := &Index{
		byID:     make(map[string]domain.Category, len(records)),
		children: make(map[string]int),
	}
	for _, r := range records {
		idx.byID[r.ID] = r
	}
	for _, r := range idx.byID {
		if r.HasParent() && *r.ParentID != r.ID {
			idx.children[*r.ParentID]++
		}
	}
	return idx
}

func (i *Index) Get(id string) (domain.Category, bool) {
	c, ok := i.byID[id]
	return c, ok
}

func (i *Index) Len() int {
	return len(i.byID)
}

// HasChildren сообщает, есть ли у категории прямые потомки.
func (i *Index) HasChildren(id string) bool {
	return i.children[id] > 0
}

// PathToRoot возвращает цепочку {ID, Name} от корня до категории id включительно.
// Подъём останавливается на корне или на отсутствующем родителе. При цикле подъём
// прекращается на первом повторно встреченном узле и возвращается уже собранный путь.
// Для неизвестного id результат пустой.
func (i *Index) PathToRoot(id string) []domain.Ancestor {
	path := make([]domain.Ancestor, 0)

	cur, ok := i.byID[id]
	if !ok {
		return path
	}

	visited := make(map[string]struct{})
	for {
		if _, seen := visited[cur.ID]; seen {
			break
		}
		visited[cur.ID] = struct{}{}
		path = append(path, domain.Ancestor{ID: cur.ID, Name: cur.Name})

		if !cur.HasParent() {
			break
		}
		parent, ok := i.byID[*cur.ParentID]
		if !ok {
			break
		}
		cur = parent
	}

	slices.Reverse(path)
	return path
}

// HoverPath возвращает ID от корня до наведённой категории, чтобы меню
// могло раскрыть подменю на каждом уровне одновременно.
func (i *Index) HoverPath(id string) []string {
	path := i.PathToRoot(id)
	ids := make([]string, len(path))
	for k, a := range path {
		ids[k] = a.ID
	}
	return ids
}

// IsWithin сообщает, лежит ли id в поддереве rootID (сам rootID тоже считается).
func (i *Index) IsWithin(id, rootID string) bool {
	for _, a := range i.PathToRoot(id) {
		if a.ID == rootID {
			return true
		}
	}
	return false
}

// FindPathToRoot — разовый вариант Index.PathToRoot.
func FindPathToRoot(id string, records []domain.Category) []domain.Ancestor {
	return NewIndex(records).PathToRoot(id)
}

// HoverPath — разовый вариант Index.HoverPath.
func HoverPath(id string, records []domain.Category) []string {
	return NewIndex(records).HoverPath(id)
}
