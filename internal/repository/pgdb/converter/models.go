package converter

import "time"

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Slug      string          `db:"slug"`
	ParentID  *string         `db:"parent_id"`
	IsActive  bool            `db:"is_active"`
	Level     int             `db:"level"`
	Path      string          `db:"path"`
	SortOrder int             `db:"sort_order"`
	Ancestors []AncestorModel `db:"ancestors"` // jsonb
	Image     *string         `db:"image"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt *time.Time      `db:"updated_at"`
}

// AncestorModel — элемент jsonb-массива categories.ancestors.
type AncestorModel struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
