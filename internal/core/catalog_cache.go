package core

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"dancewave-backend-go/internal/models"
	"dancewave-backend-go/pkg/cache"
)

const catalogCacheKey = "dancewave:danceclasses"

// catalogCache is a cache-aside wrapper for the published class list.
// Cache faults are logged and treated as misses.
type catalogCache struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func newCatalogCache(c cache.Cache, ttl time.Duration, logger *zap.Logger) catalogCache {
	if c == nil {
		c = cache.Noop{}
	}
	return catalogCache{cache: c, ttl: ttl, logger: logger}
}

func (c catalogCache) load(ctx context.Context) ([]*models.PublishedClass, bool) {
	raw, err := c.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var classes []*models.PublishedClass
	if err := json.Unmarshal([]byte(raw), &classes); err != nil {
		c.logger.Warn("Discarding undecodable catalog cache entry", zap.Error(err))
		return nil, false
	}
	return classes, true
}

func (c catalogCache) store(ctx context.Context, classes []*models.PublishedClass) {
	raw, err := json.Marshal(classes)
	if err != nil {
		c.logger.Warn("Failed to encode catalog for caching", zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, catalogCacheKey, raw, c.ttl); err != nil {
		c.logger.Warn("Catalog cache write failed", zap.Error(err))
	}
}

func (c catalogCache) invalidate(ctx context.Context) {
	if err := c.cache.Delete(ctx, catalogCacheKey); err != nil {
		c.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
