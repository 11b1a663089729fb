package minio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageRepo struct {
	mu        sync.Mutex
	uploaded  []*domain.Image
	deleted   []string
	failName  string
	deleteErr int // сколько первых Delete завершатся ошибкой
}

func (f *fakeImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failName != "" && strings.Contains(image.ObjectKey, f.failName) {
		return "", errors.New("s3 unavailable")
	}
	f.uploaded = append(f.uploaded, image)
	return image.ObjectKey, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr > 0 {
		f.deleteErr--
		return errors.New("temporary failure")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImageRepo) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func newInfra(repo *fakeImageRepo) *MinioInfrastructure {
	infra := NewMinioInfrastructure(repo, &cfg.MinIOCfg{
		BucketName:        "categories",
		PublicURL:         "http://cdn.local/categories",
		UploadImagesLimit: 2,
	}, logger.NewNopLogger(), context.Background())
	infra.cleanupBackoff = time.Millisecond
	return infra
}

func png(name string) usecase.CategoryImage {
	return *usecase.NewCategoryImage([]byte("png"), "image/png", 3, name)
}

func TestUploadImages(t *testing.T) {
	repo := &fakeImageRepo{}
	infra := newInfra(repo)

	res, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("categories/phones/", []usecase.CategoryImage{png("Main Photo.PNG")}))
	require.NoError(t, err)
	require.Len(t, res.ImagesKeys, 1)

	key := res.ImagesKeys[0]
	assert.True(t, strings.HasPrefix(key, "categories/phones/main-photo-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "categories", repo.uploaded[0].Bucket)
	assert.Equal(t, "image/png", *repo.uploaded[0].MimeType)
}

func TestUploadImages_FailureCleansUp(t *testing.T) {
	repo := &fakeImageRepo{failName: "broken"}
	infra := newInfra(repo)

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("p", []usecase.CategoryImage{
		png("ok"),
		png("broken"),
	}))
	require.Error(t, err)

	require.NoError(t, infra.WaitForCleanup(context.Background()))
	repo.mu.Lock()
	uploaded := len(repo.uploaded)
	repo.mu.Unlock()
	assert.Len(t, repo.deletedKeys(), uploaded)
}

func TestUploadImages_Validation(t *testing.T) {
	infra := newInfra(&fakeImageRepo{})

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("p", nil))
	assert.ErrorIs(t, err, e.ErrNoImages)

	gif := *usecase.NewCategoryImage([]byte("gif"), "image/gif", 3, "a.gif")
	_, err = infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("p", []usecase.CategoryImage{gif}))
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
}

func TestCleanupImages_Retries(t *testing.T) {
	repo := &fakeImageRepo{deleteErr: 2}
	infra := newInfra(repo)

	infra.CleanupImages([]string{"a.png"})
	require.NoError(t, infra.WaitForCleanup(context.Background()))

	assert.Equal(t, []string{"a.png"}, repo.deletedKeys())
}

func TestObjectURLAndKey(t *testing.T) {
	infra := newInfra(&fakeImageRepo{})

	url := infra.ObjectURL("categories/phones/a.png")
	assert.Equal(t, "http://cdn.local/categories/categories/phones/a.png", url)

	key, ok := infra.ObjectKey(url)
	require.True(t, ok)
	assert.Equal(t, "categories/phones/a.png", key)

	_, ok = infra.ObjectKey("https://elsewhere.example/a.png")
	assert.False(t, ok)
	_, ok = infra.ObjectKey("http://cdn.local/categories/")
	assert.False(t, ok)
}
