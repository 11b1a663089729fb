package usecase

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/cespare/xxhash/v2"
)

// CATEGORY USECASE

// CategorySnapshot — плоский список категорий на момент загрузки из БД.
type CategorySnapshot struct {
	Version    string
	Categories []domain.Category
	LoadedAt   time.Time
}

type GetTreeReq struct {
	ActiveOnly bool // витрина: без неактивных категорий
}

// GetTreeRes — построенный лес. Узлы разделяются между запросами одного снимка,
// изменять их нельзя.
type GetTreeRes struct {
	Version string
	Nodes   []*domain.CategoryNode
}

type CreateCategoryReq struct {
	Name     string
	Slug     string // пустой — будет построен из Name
	ParentID *string
	Order    int
	IsActive *bool
}

// UpdateCategoryReq — частичное обновление. nil-поля не меняются.
// ParentID, указывающий на пустую строку, делает категорию корневой.
type UpdateCategoryReq struct {
	ID       string
	Name     *string
	Slug     *string
	ParentID *string
	Order    *int
	IsActive *bool
}

type ReorderItem struct {
	ID    string
	Order int
}

type ReorderReq struct {
	Items []ReorderItem
}

// CategoryImage представляет изображение, загруженное через multipart/form-data.
type CategoryImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому
	Size     int64
	Name     string // оригинальное имя файла (для логов и ключа объекта)
}

type UploadImageReq struct {
	CategoryID string
	Image      CategoryImage
}

// INFRASTUCTURE

type UploadImagesReq struct {
	Prefix string
	Images []CategoryImage
}

type UploadImagesRes struct {
	ImagesKeys []string
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	CategoryCreated       OutboxEventType = "category.created"
	CategoryUpdated       OutboxEventType = "category.updated"
	CategoryDeleted       OutboxEventType = "category.deleted"
	CategoriesReordered   OutboxEventType = "category.reordered"
	CategoryStatusChanged OutboxEventType = "category.status_changed"
	CategoryImageChanged  OutboxEventType = "category.image_changed"
)

type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// CategoryChangedEvent — событие, которое получают потребители каталога,
// чтобы перечитать список категорий.
type CategoryChangedEvent struct {
	EventID     string
	Type        OutboxEventType
	CategoryIDs []string
	OccurredAt  time.Time
}

// MAPPERS

func NewCategorySnapshot(categories []domain.Category, loadedAt time.Time) *CategorySnapshot {
	return &CategorySnapshot{
		Version:    SnapshotVersion(categories),
		Categories: categories,
		LoadedAt:   loadedAt,
	}
}

// SnapshotVersion вычисляет версию списка как хеш содержимого всех записей.
// Версия меняется при любом изменении полей, влияющих на дерево, включая порядок.
func SnapshotVersion(categories []domain.Category) string {
	d := xxhash.New()
	field := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.WriteString("\x00")
	}

	for _, c := range categories {
		field(c.ID)
		if c.HasParent() {
			field(*c.ParentID)
		} else {
			field("")
		}
		field(c.Name)
		field(c.Slug)
		field(strconv.FormatBool(c.IsActive))
		field(strconv.Itoa(c.Level))
		field(c.Path)
		field(strconv.Itoa(c.Order))
		if c.Image != nil {
			field(*c.Image)
		} else {
			field("")
		}
		for _, a := range c.Ancestors {
			field(a.ID)
			field(a.Name)
		}
		field(strconv.FormatInt(c.CreatedAt.UnixNano(), 10))
		if c.UpdatedAt != nil {
			field(strconv.FormatInt(c.UpdatedAt.UnixNano(), 10))
		} else {
			field("")
		}
		_, _ = d.WriteString("\x01")
	}

	return fmt.Sprintf("v%d-%016x", len(categories), d.Sum64())
}

func NewGetTreeRes(version string, nodes []*domain.CategoryNode) *GetTreeRes {
	return &GetTreeRes{
		Version: version,
		Nodes:   nodes,
	}
}

func NewCategoryImage(data []byte, mimeType string, size int64, name string) *CategoryImage {
	return &CategoryImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadImagesReq(prefix string, images []CategoryImage) *UploadImagesReq {
	return &UploadImagesReq{
		Prefix: prefix,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewCategoryChangedEvent(eventID string, eventType OutboxEventType, categoryIDs []string, occurredAt time.Time) *CategoryChangedEvent {
	return &CategoryChangedEvent{
		EventID:     eventID,
		Type:        eventType,
		CategoryIDs: categoryIDs,
		OccurredAt:  occurredAt,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, aggregateID string, payload []byte, createdAt time.Time) *OutboxEvent {
	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   createdAt,
	}
}
