package converter

import "time"

// CategoriesSnapshotRedisModel — снимок плоского списка категорий в кэше.
type CategoriesSnapshotRedisModel struct {
	Version    string               `json:"version"`
	LoadedAt   time.Time            `json:"loaded_at"`
	Categories []CategoryRedisModel `json:"categories"`
}

type CategoryRedisModel struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Slug      string               `json:"slug"`
	ParentID  *string              `json:"parent_id,omitempty"`
	IsActive  bool                 `json:"is_active"`
	Level     int                  `json:"level"`
	Path      string               `json:"path"`
	Order     int                  `json:"order"`
	Ancestors []AncestorRedisModel `json:"ancestors"`
	Image     *string              `json:"image,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt *time.Time           `json:"updated_at,omitempty"`
}

type AncestorRedisModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
