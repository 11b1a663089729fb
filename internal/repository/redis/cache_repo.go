package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

const categoriesSnapshotKey = "categories:snapshot"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.CategoriesSnapshotConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.CategoriesSnapshotConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetCategories возвращает закэшированный снимок категорий или nil при промахе.
// Повреждённая запись удаляется и считается промахом.
func (r *CacheRepo) GetCategories(ctx context.Context) (*usecase.CategorySnapshot, error) {
	data, err := r.client.Client.Get(ctx, categoriesSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := unmarshalSnapshot(data)
	if err != nil {
		r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := r.client.Client.Del(ctx, categoriesSnapshotKey).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return r.conv.ToUseCase(model), nil
}

// SetCategories кэширует снимок с TTL из конфигурации.
func (r *CacheRepo) SetCategories(ctx context.Context, snapshot *usecase.CategorySnapshot) error {
	data, err := marshalSnapshot(r.conv.ToRedisModel(snapshot))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, categoriesSnapshotKey, data, r.cfg.CategoriesTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteCategories сбрасывает снимок после изменения каталога.
func (r *CacheRepo) DeleteCategories(ctx context.Context) error {
	if err := r.client.Client.Del(ctx, categoriesSnapshotKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// marshalSnapshot сериализует снимок в JSON для кэша
func marshalSnapshot(model *converter.CategoriesSnapshotRedisModel) ([]byte, error) {
	if model == nil {
		return nil, fmt.Errorf("nil snapshot")
	}

	return json.Marshal(model)
}

// unmarshalSnapshot десериализует JSON из кэша в модель снимка
func unmarshalSnapshot(data []byte) (*converter.CategoriesSnapshotRedisModel, error) {
	var model converter.CategoriesSnapshotRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}
