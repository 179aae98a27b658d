package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"

	DefaultCacheTTL = 10 * time.Minute
)

// CacheManager handles Redis caching for product listings. Writes bump a
// version counter instead of scanning for keys, so invalidation is O(1).
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		redis: client,
		ttl:   DefaultCacheTTL,
	}
}

// GetProductList retrieves a cached product listing page. The returned
// version is the one observed during the lookup; a later write for the same
// request must reuse it so the page never lands under a version bumped by a
// concurrent Invalidate.
func (cm *CacheManager) GetProductList(ctx context.Context, params services.ListProductsParams) (*services.ProductList, int64, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, 0, false
	}

	cacheKey := cm.listCacheKey(version, params)
	cachedData, err := cm.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		return nil, version, false
	}

	var list services.ProductList
	if err := json.Unmarshal([]byte(cachedData), &list); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, version, false
	}
	return &list, version, true
}

// SetProductListAsync caches a product listing page without blocking the
// request, keyed under the version captured at lookup time. A zero version
// means the lookup could not establish one; nothing is written then.
func (cm *CacheManager) SetProductListAsync(version int64, params services.ListProductsParams, list *services.ProductList) {
	if version == 0 {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		jsonBytes, err := json.Marshal(list)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cm.listCacheKey(version, params), jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate invalidates all cached listings by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		zap.L().Error("Failed to invalidate product cache", zap.Error(err))
		return
	}
	zap.L().Debug("Product cache invalidated", zap.Int64("new_version", newVersion))
}

// getCacheVersion retrieves the current cache version, initializing it on
// first use.
func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("failed to get cache version: %w", err)
}

func (cm *CacheManager) listCacheKey(version int64, params services.ListProductsParams) string {
	category := ""
	if params.CategoryID != nil {
		category = params.CategoryID.Hex()
	}
	return fmt.Sprintf("%s%d:p:%d:l:%d:s:%s:c:%s",
		ProductListCachePrefix, version, params.Page, params.Limit, params.Search, category)
}
