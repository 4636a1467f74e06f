package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"restaurant-webhooks/internal/cache"
	"restaurant-webhooks/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MenuRepository interface {
	ListAvailable(ctx context.Context, tenantID string) ([]model.MenuItem, error)
}

type menuRepoImpl struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepoImpl{
		db: db,
	}
}

func (r *menuRepoImpl) ListAvailable(ctx context.Context, tenantID string) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND available = ?", tenantID, true).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

type cachedMenuRepo struct {
	inner MenuRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedMenuRepository serves menus from the cache and falls back to inner
// on a miss or any cache failure.
func NewCachedMenuRepository(inner MenuRepository, c cache.Cache, ttl time.Duration) MenuRepository {
	return &cachedMenuRepo{inner: inner, cache: c, ttl: ttl}
}

func menuCacheKey(tenantID string) string {
	return "menu:" + tenantID
}

func (r *cachedMenuRepo) ListAvailable(ctx context.Context, tenantID string) ([]model.MenuItem, error) {
	key := menuCacheKey(tenantID)

	raw, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var items []model.MenuItem
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		log.Warn().Str("tenant_id", tenantID).Msg("discarding undecodable cached menu")
	case !errors.Is(err, cache.ErrMiss):
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("menu cache read failed")
	}

	items, err := r.inner.ListAvailable(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID).Msg("menu cache write failed")
		}
	}

	return items, nil
}
