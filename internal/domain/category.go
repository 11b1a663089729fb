package domain

import "time"

// Ancestor — элемент денормализованной цепочки предков категории (от корня к родителю).
type Ancestor struct {
	ID   string
	Name string
}

// Category описывает категорию каталога в плоском виде, как она хранится в БД.
type Category struct {
	ID        string
	Name      string
	Slug      string
	ParentID  *string // nil или пустая строка — корневая категория
	IsActive  bool
	Level     int
	Path      string // слаги от корня до категории через "/"
	Order     int    // порядок среди соседей, по возрастанию
	Ancestors []Ancestor
	Image     *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CategoryNode — категория с вложенными дочерними узлами.
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

func NewCategory(id, name, slug string, parentID *string, order int) *Category {
	return &Category{
		ID:       id,
		Name:     name,
		Slug:     slug,
		ParentID: parentID,
		IsActive: true,
		Order:    order,
	}
}

// HasParent сообщает, ссылается ли категория на родителя.
func (c *Category) HasParent() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// Clone возвращает глубокую копию категории: указатели и срезы не разделяются с исходной.
func (c Category) Clone() Category {
	out := c
	if c.ParentID != nil {
		parent := *c.ParentID
		out.ParentID = &parent
	}
	if c.Image != nil {
		image := *c.Image
		out.Image = &image
	}
	if c.UpdatedAt != nil {
		updatedAt := *c.UpdatedAt
		out.UpdatedAt = &updatedAt
	}
	if c.Ancestors != nil {
		out.Ancestors = make([]Ancestor, len(c.Ancestors))
		copy(out.Ancestors, c.Ancestors)
	}
	return out
}
