package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cattree"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/slug"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const snapshotLoadKey = "categories"

// CategoryUseCase реализует бизнес-логику каталога категорий: чтение деревьев для
// витрины и админки и изменения, после которых дерево перестраивается заново.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	cacheRepo    CacheRepository
	imagesInfra  ImagesInfra
	encoder      EventEncoder
	txManager    TxManager
	logger       logger.Logger

	loads singleflight.Group
	memo  treeMemo

	newID func() string
	now   func() time.Time
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	encoder EventEncoder,
	txManager TxManager,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		cacheRepo:    cacheRepo,
		imagesInfra:  imagesInfra,
		encoder:      encoder,
		txManager:    txManager,
		logger:       logger,
		newID:        uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// treeMemo хранит леса, построенные из последнего снимка.
type treeMemo struct {
	mu      sync.Mutex
	version string
	all     []*domain.CategoryNode
	active  []*domain.CategoryNode
	index   *cattree.Index
}

func (m *treeMemo) get(snap *CategorySnapshot) ([]*domain.CategoryNode, []*domain.CategoryNode, *cattree.Index) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index == nil || m.version != snap.Version {
		m.all = cattree.BuildTree(snap.Categories)
		m.active = cattree.FilterActive(m.all)
		m.index = cattree.NewIndex(snap.Categories)
		m.version = snap.Version
	}

	return m.all, m.active, m.index
}

// ListCategories возвращает плоский список всех категорий.
func (c *CategoryUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CategoryUseCase.ListCategories"

	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return snap.Categories, nil
}

// GetTree строит лес категорий. Для витрины неактивные категории убираются.
func (c *CategoryUseCase) GetTree(ctx context.Context, req *GetTreeReq) (*GetTreeRes, error) {
	const op = "CategoryUseCase.GetTree"

	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	all, active, _ := c.memo.get(snap)
	if req != nil && req.ActiveOnly {
		return NewGetTreeRes(snap.Version, active), nil
	}

	return NewGetTreeRes(snap.Version, all), nil
}

// GetPath возвращает хлебные крошки от корня до категории.
func (c *CategoryUseCase) GetPath(ctx context.Context, id string) ([]domain.Ancestor, error) {
	const op = "CategoryUseCase.GetPath"

	index, err := c.index(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return index.PathToRoot(id), nil
}

// GetHoverPath возвращает ID от корня до категории для раскрытия меню.
func (c *CategoryUseCase) GetHoverPath(ctx context.Context, id string) ([]string, error) {
	const op = "CategoryUseCase.GetHoverPath"

	index, err := c.index(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return index.HoverPath(id), nil
}

// CreateCategory создаёт категорию, вычисляя денормализованные поля по родителю.
func (c *CategoryUseCase) CreateCategory(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.CreateCategory"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrCategoryNameRequired)
	}

	catSlug, err := resolveSlug(req.Slug, name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	category := domain.NewCategory(c.newID(), name, catSlug, normalizeParent(req.ParentID), req.Order)
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	var created *domain.Category
	err = c.txManager.Do(ctx, func(ctx context.Context) error {
		if err := c.fillHierarchy(ctx, category); err != nil {
			return err
		}

		created, err = c.categoryRepo.Create(ctx, category)
		if err != nil {
			return err
		}

		return c.enqueueEvent(ctx, CategoryCreated, created.ID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateCache(ctx)
	c.logger.Infof("category created: id=%s slug=%s", created.ID, created.Slug)

	return created, nil
}

// UpdateCategory частично обновляет категорию. При смене родителя, названия или slug
// пересчитываются уровень, путь и предки всего затронутого поддерева.
func (c *CategoryUseCase) UpdateCategory(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.UpdateCategory"

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, e.Wrap(op, e.ErrCategoryNameRequired)
	}
	if req.Slug != nil && !slug.Valid(*req.Slug) {
		return nil, e.Wrap(op, e.ErrInvalidSlug)
	}

	var saved *domain.Category
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := c.categoryRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		updated := current.Clone()
		hierarchyChanged := applyUpdate(&updated, req)

		if req.ParentID != nil && updated.HasParent() {
			if err := c.checkMove(ctx, updated.ID, *updated.ParentID); err != nil {
				return err
			}
		}

		saved, err = c.categoryRepo.Update(ctx, &updated)
		if err != nil {
			return err
		}

		if hierarchyChanged {
			saved, err = c.rebuildHierarchy(ctx, saved.ID)
			if err != nil {
				return err
			}
		}

		return c.enqueueEvent(ctx, CategoryUpdated, saved.ID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateCache(ctx)

	return saved, nil
}

// DeleteCategory удаляет категорию без дочерних категорий и её изображение.
func (c *CategoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	const op = "CategoryUseCase.DeleteCategory"

	var deleted *domain.Category
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		all, err := c.categoryRepo.GetAll(ctx)
		if err != nil {
			return err
		}

		index := cattree.NewIndex(all)
		current, ok := index.Get(id)
		if !ok {
			return e.ErrCategoryNotFound
		}
		if index.HasChildren(id) {
			return e.ErrCategoryHasChildren
		}

		if err := c.categoryRepo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = &current

		return c.enqueueEvent(ctx, CategoryDeleted, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateCache(ctx)
	c.cleanupImage(deleted.Image)

	return nil
}

// ReorderCategories задаёт порядок категорий одним пакетом.
func (c *CategoryUseCase) ReorderCategories(ctx context.Context, req *ReorderReq) error {
	const op = "CategoryUseCase.ReorderCategories"

	if req == nil || len(req.Items) == 0 {
		return e.Wrap(op, e.ErrEmptyReorder)
	}

	ids := make([]string, 0, len(req.Items))
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		if _, dup := seen[item.ID]; dup {
			return e.Wrap(op, fmt.Errorf("%w: %s", e.ErrDuplicateReorderID, item.ID))
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		if err := c.categoryRepo.UpdateOrder(ctx, req.Items); err != nil {
			return err
		}

		return c.enqueueEvent(ctx, CategoriesReordered, ids...)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateCache(ctx)

	return nil
}

// ToggleStatus включает или выключает категорию на витрине.
func (c *CategoryUseCase) ToggleStatus(ctx context.Context, id string) (*domain.Category, error) {
	const op = "CategoryUseCase.ToggleStatus"

	var saved *domain.Category
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		saved, err = c.categoryRepo.SetActive(ctx, id, !current.IsActive)
		if err != nil {
			return err
		}

		return c.enqueueEvent(ctx, CategoryStatusChanged, id)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateCache(ctx)

	return saved, nil
}

// UploadImage сохраняет изображение категории в объектное хранилище и записывает его URI.
// Если запись в БД не удалась, загруженный объект удаляется в фоне.
func (c *CategoryUseCase) UploadImage(ctx context.Context, req *UploadImageReq) (*domain.Category, error) {
	const op = "CategoryUseCase.UploadImage"

	if len(req.Image.Data) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	current, err := c.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	uploaded, err := c.imagesInfra.UploadImages(ctx, NewUploadImagesReq("categories/"+current.ID, []CategoryImage{req.Image}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(uploaded.ImagesKeys) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	imageURL := c.imagesInfra.ObjectURL(uploaded.ImagesKeys[0])

	var saved *domain.Category
	err = c.txManager.Do(ctx, func(ctx context.Context) error {
		saved, err = c.categoryRepo.SetImage(ctx, current.ID, &imageURL)
		if err != nil {
			return err
		}

		return c.enqueueEvent(ctx, CategoryImageChanged, current.ID)
	})
	if err != nil {
		c.logger.Warnf(
			"Cleaning up orphaned image after transaction failure. category_id: %s, error: %v",
			current.ID,
			e.Wrap(op, err),
		)
		c.imagesInfra.CleanupImages(uploaded.ImagesKeys)
		return nil, e.Wrap(op, err)
	}

	c.invalidateCache(ctx)
	c.cleanupImage(current.Image)

	return saved, nil
}

// snapshot возвращает плоский список из кэша, а при промахе — из БД.
// Одновременные промахи объединяются в одну загрузку.
func (c *CategoryUseCase) snapshot(ctx context.Context) (*CategorySnapshot, error) {
	const op = "CategoryUseCase.snapshot"

	snap, err := c.cacheRepo.GetCategories(ctx)
	if err != nil {
		c.logger.Warnf("Failed to read categories from cache: %v", e.Wrap(op, err))
	}
	if snap != nil {
		return snap, nil
	}

	v, err, _ := c.loads.Do(snapshotLoadKey, func() (any, error) {
		categories, err := c.categoryRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}

		loaded := NewCategorySnapshot(categories, c.now())

		// Фоновое добавление снимка в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cacheRepo.SetCategories(bgCtx, loaded); err != nil {
				c.logger.Warnf("Failed to cache categories in background: %v", e.Wrap(op, err))
			}
		}()

		return loaded, nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return v.(*CategorySnapshot), nil
}

func (c *CategoryUseCase) index(ctx context.Context, id string) (*cattree.Index, error) {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	_, _, index := c.memo.get(snap)
	if _, ok := index.Get(id); !ok {
		return nil, e.ErrCategoryNotFound
	}

	return index, nil
}

// fillHierarchy заполняет Level, Path и Ancestors новой категории по её родителю.
func (c *CategoryUseCase) fillHierarchy(ctx context.Context, category *domain.Category) error {
	if !category.HasParent() {
		category.Level = 0
		category.Path = category.Slug
		category.Ancestors = []domain.Ancestor{}
		return nil
	}

	parent, err := c.categoryRepo.GetByID(ctx, *category.ParentID)
	if err != nil {
		if errors.Is(err, e.ErrCategoryNotFound) {
			return e.ErrParentCategoryMissing
		}
		return err
	}

	category.Level = parent.Level + 1
	category.Path = parent.Path + "/" + category.Slug
	category.Ancestors = append(slices.Clone(parent.Ancestors), domain.Ancestor{ID: parent.ID, Name: parent.Name})

	return nil
}

// checkMove запрещает перенос категории под саму себя или её потомка.
func (c *CategoryUseCase) checkMove(ctx context.Context, id, newParentID string) error {
	all, err := c.categoryRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	index := cattree.NewIndex(all)
	if _, ok := index.Get(newParentID); !ok {
		return e.ErrParentCategoryMissing
	}
	if index.IsWithin(newParentID, id) {
		return e.ErrCategoryCycle
	}

	return nil
}

// rebuildHierarchy перестраивает дерево из БД и сохраняет категории,
// у которых изменились Level, Path или Ancestors.
func (c *CategoryUseCase) rebuildHierarchy(ctx context.Context, id string) (*domain.Category, error) {
	all, err := c.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]domain.Category, len(all))
	for _, cat := range all {
		stored[cat.ID] = cat
	}

	var (
		changed []domain.Category
		result  *domain.Category
	)
	for _, cat := range cattree.Denormalize(cattree.BuildTree(all)) {
		if cat.ID == id {
			result = &cat
		}
		if prev, ok := stored[cat.ID]; ok && sameHierarchy(prev, cat) {
			continue
		}
		changed = append(changed, cat)
	}

	if len(changed) > 0 {
		if err := c.categoryRepo.UpdateHierarchy(ctx, changed); err != nil {
			return nil, err
		}
	}

	if result == nil {
		return nil, e.ErrCategoryNotFound
	}

	return result, nil
}

func (c *CategoryUseCase) enqueueEvent(ctx context.Context, eventType OutboxEventType, ids ...string) error {
	event := NewCategoryChangedEvent(c.newID(), eventType, ids, c.now())

	payload, err := c.encoder.EncodeCategoryEvent(event)
	if err != nil {
		return err
	}

	aggregateID := ""
	if len(ids) > 0 {
		aggregateID = ids[0]
	}

	_, err = c.outboxRepo.Create(ctx, NewOutboxEvent(event.EventID, eventType, aggregateID, payload, event.OccurredAt))
	return err
}

func (c *CategoryUseCase) invalidateCache(ctx context.Context) {
	if err := c.cacheRepo.DeleteCategories(ctx); err != nil {
		c.logger.Warnf("Failed to invalidate categories cache: %v", err)
	}
}

func (c *CategoryUseCase) cleanupImage(imageURL *string) {
	if imageURL == nil {
		return
	}
	if key, ok := c.imagesInfra.ObjectKey(*imageURL); ok {
		c.imagesInfra.CleanupImages([]string{key})
	}
}

// applyUpdate применяет изменения к категории и сообщает, затронута ли иерархия.
func applyUpdate(category *domain.Category, req *UpdateCategoryReq) bool {
	changed := false

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		changed = changed || name != category.Name
		category.Name = name
	}
	if req.Slug != nil {
		changed = changed || *req.Slug != category.Slug
		category.Slug = *req.Slug
	}
	if req.ParentID != nil {
		next := normalizeParent(req.ParentID)
		changed = changed || parentKey(next) != parentKey(category.ParentID)
		category.ParentID = next
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	return changed
}

func sameHierarchy(a, b domain.Category) bool {
	return a.Level == b.Level && a.Path == b.Path && slices.Equal(a.Ancestors, b.Ancestors)
}

func resolveSlug(requested, name string) (string, error) {
	if requested != "" {
		if !slug.Valid(requested) {
			return "", e.ErrInvalidSlug
		}
		return requested, nil
	}

	generated := slug.Make(name)
	if generated == "" {
		return "", e.ErrInvalidSlug
	}
	return generated, nil
}

func normalizeParent(parentID *string) *string {
	if parentID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*parentID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parentKey(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}
