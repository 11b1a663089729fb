package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

type fakeCategoryRepo struct {
	mu      sync.Mutex
	rows    map[string]domain.Category
	order   []string
	getAll  int
	clock   time.Time
	failGet error
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{
		rows:  make(map[string]domain.Category),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, c := range categories {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = r.tick()
		}
		r.rows[c.ID] = c.Clone()
		r.order = append(r.order, c.ID)
	}
	return r
}

func (r *fakeCategoryRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeCategoryRepo) touch(c *domain.Category) {
	ts := r.tick()
	c.UpdatedAt = &ts
}

func (r *fakeCategoryRepo) GetAll(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getAll++
	if r.failGet != nil {
		return nil, r.failGet
	}
	out := make([]domain.Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rows[id].Clone())
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	out := c.Clone()
	return &out, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.Slug == category.Slug {
			return nil, e.ErrSlugTaken
		}
	}
	c := category.Clone()
	c.CreatedAt = r.tick()
	r.rows[c.ID] = c
	r.order = append(r.order, c.ID)
	out := c.Clone()
	return &out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[category.ID]; !ok {
		return nil, e.ErrCategoryNotFound
	}
	c := category.Clone()
	r.touch(&c)
	r.rows[c.ID] = c
	out := c.Clone()
	return &out, nil
}

func (r *fakeCategoryRepo) UpdateHierarchy(_ context.Context, categories []domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, upd := range categories {
		c, ok := r.rows[upd.ID]
		if !ok {
			return e.ErrCategoryNotFound
		}
		c.Level, c.Path, c.Ancestors = upd.Level, upd.Path, slices.Clone(upd.Ancestors)
		r.touch(&c)
		r.rows[c.ID] = c
	}
	return nil
}

func (r *fakeCategoryRepo) UpdateOrder(_ context.Context, items []ReorderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		c, ok := r.rows[it.ID]
		if !ok {
			return e.ErrCategoryNotFound
		}
		c.Order = it.Order
		r.touch(&c)
		r.rows[c.ID] = c
	}
	return nil
}

func (r *fakeCategoryRepo) SetActive(_ context.Context, id string, active bool) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	c.IsActive = active
	r.touch(&c)
	r.rows[id] = c
	out := c.Clone()
	return &out, nil
}

func (r *fakeCategoryRepo) SetImage(_ context.Context, id string, image *string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, e.ErrCategoryNotFound
	}
	c.Image = image
	r.touch(&c)
	r.rows[id] = c
	out := c.Clone()
	return &out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return e.ErrCategoryNotFound
	}
	delete(r.rows, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

func (r *fakeCategoryRepo) get(id string) domain.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Clone()
}

func (r *fakeCategoryRepo) getAllCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getAll
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
	err    error
}

func (o *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	ev := *event
	ev.ID = int64(len(o.events) + 1)
	o.events = append(o.events, &ev)
	return &ev, nil
}

func (o *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []*OutboxEvent
	for _, ev := range o.events {
		if ev.Status == Pending && len(out) < limit {
			ev.Status = Processing
			out = append(out, ev)
		}
	}
	return out, nil
}

func (o *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ev := range o.events {
		if ev.ID == id {
			ev.Status = Processed
			return nil
		}
	}
	return errors.New("event not found")
}

func (o *fakeOutboxRepo) ResetStale(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

func (o *fakeOutboxRepo) types() []OutboxEventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]OutboxEventType, 0, len(o.events))
	for _, ev := range o.events {
		out = append(out, ev.EventType)
	}
	return out
}

type fakeCache struct {
	mu      sync.Mutex
	snap    *CategorySnapshot
	deletes int
	getErr  error
}

func (c *fakeCache) GetCategories(_ context.Context) (*CategorySnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.snap, nil
}

func (c *fakeCache) SetCategories(_ context.Context, snapshot *CategorySnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snapshot
	return nil
}

func (c *fakeCache) DeleteCategories(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
	c.deletes++
	return nil
}

func (c *fakeCache) cached() *CategorySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

const testPublicURL = "http://cdn.local/catalog/"

type fakeImages struct {
	mu      sync.Mutex
	uploads []*UploadImagesReq
	cleaned []string
	err     error
}

func (f *fakeImages) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.uploads = append(f.uploads, req)
	keys := make([]string, 0, len(req.Images))
	for i, img := range req.Images {
		keys = append(keys, fmt.Sprintf("%s/%d-%s", req.Prefix, len(f.uploads)*10+i, img.Name))
	}
	return NewUploadImagesRes(keys), nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, keys...)
}

func (f *fakeImages) ObjectURL(key string) string {
	return testPublicURL + key
}

func (f *fakeImages) ObjectKey(url string) (string, bool) {
	if !strings.HasPrefix(url, testPublicURL) {
		return "", false
	}
	return strings.TrimPrefix(url, testPublicURL), true
}

func (f *fakeImages) cleanedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.cleaned)
}

type fakeEncoder struct{}

func (fakeEncoder) EncodeCategoryEvent(event *CategoryChangedEvent) ([]byte, error) {
	return []byte(string(event.Type) + ":" + strings.Join(event.CategoryIDs, ",")), nil
}

// fakeTx вызывает fn без транзакции: откат записей не эмулируется.
type fakeTx struct {
	calls int
}

func (t *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fixture struct {
	uc     *CategoryUseCase
	repo   *fakeCategoryRepo
	outbox *fakeOutboxRepo
	cache  *fakeCache
	images *fakeImages
	tx     *fakeTx
}

func newFixture(categories ...domain.Category) *fixture {
	f := &fixture{
		repo:   newFakeCategoryRepo(categories...),
		outbox: &fakeOutboxRepo{},
		cache:  &fakeCache{},
		images: &fakeImages{},
		tx:     &fakeTx{},
	}
	f.uc = NewCategoryUC(f.repo, f.outbox, f.cache, f.images, fakeEncoder{}, f.tx, logger.NewNopLogger())

	var (
		mu  sync.Mutex
		seq int
	)
	f.uc.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	f.uc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	return f
}

func ptr[T any](v T) *T { return &v }

func category(id, name, parent string, order int) domain.Category {
	c := domain.Category{ID: id, Name: name, Slug: id, Order: order, IsActive: true, Ancestors: []domain.Ancestor{}}
	if parent != "" {
		c.ParentID = ptr(parent)
	}
	return c
}

// denormalized возвращает категории с уже вычисленными Level, Path и Ancestors.
func denormalized(categories ...domain.Category) []domain.Category {
	byID := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	out := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		var chain []domain.Category
		for cur := c; ; {
			chain = append([]domain.Category{cur}, chain...)
			if !cur.HasParent() {
				break
			}
			cur = byID[*cur.ParentID]
		}

		slugs := make([]string, 0, len(chain))
		c.Ancestors = []domain.Ancestor{}
		for i, a := range chain {
			slugs = append(slugs, a.Slug)
			if i < len(chain)-1 {
				c.Ancestors = append(c.Ancestors, domain.Ancestor{ID: a.ID, Name: a.Name})
			}
		}
		c.Level = len(chain) - 1
		c.Path = strings.Join(slugs, "/")
		out = append(out, c)
	}

	return out
}
