package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "insured-registration/internal/common/errors"
	"insured-registration/internal/common/logger"
	"insured-registration/internal/common/metrics"
	"insured-registration/internal/models"
)

const cacheKeyPrefix = "ref:"

// CachedGateway serves the static reference lists from Redis and delegates everything
// else to the wrapped Gateway. Cache failures never fail a lookup.
type CachedGateway struct {
	Gateway
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ Gateway = (*CachedGateway)(nil)

func NewCachedGateway(next Gateway, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedGateway {
	return &CachedGateway{
		Gateway: next,
		redis:   rdb,
		ttl:     ttl,
		logger:  log.WithFields(map[string]interface{}{"component": "gateway_cache"}),
	}
}

func (g *CachedGateway) Provinces(ctx context.Context) ([]models.Province, error) {
	return cached(ctx, g, "provinces", cacheKeyPrefix+"provinces", g.Gateway.Provinces)
}

func (g *CachedGateway) Cities(ctx context.Context, province models.Province) ([]models.City, error) {
	key := cacheKeyPrefix + "cities:" + province.ID
	return cached(ctx, g, "cities", key, func(ctx context.Context) ([]models.City, error) {
		return g.Gateway.Cities(ctx, province)
	})
}

func (g *CachedGateway) Brands(ctx context.Context) ([]models.VehicleBrand, error) {
	return cached(ctx, g, "brands", cacheKeyPrefix+"brands", g.Gateway.Brands)
}

func (g *CachedGateway) Models(ctx context.Context, brand models.VehicleBrand, year models.VehicleYear) ([]models.VehicleModel, error) {
	key := fmt.Sprintf("%smodels:%d:%d", cacheKeyPrefix, brand.Code, year)
	return cached(ctx, g, "models", key, func(ctx context.Context) ([]models.VehicleModel, error) {
		return g.Gateway.Models(ctx, brand, year)
	})
}

func (g *CachedGateway) Versions(ctx context.Context, brand models.VehicleBrand, year models.VehicleYear, model models.VehicleModel) ([]models.VehicleVersion, error) {
	key := fmt.Sprintf("%sversions:%d:%d:%d", cacheKeyPrefix, brand.Code, year, model.Code)
	return cached(ctx, g, "versions", key, func(ctx context.Context) ([]models.VehicleVersion, error) {
		return g.Gateway.Versions(ctx, brand, year, model)
	})
}

func cached[T any](ctx context.Context, g *CachedGateway, operation, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	val, err := g.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var items []T
		if err := json.Unmarshal([]byte(val), &items); err == nil {
			metrics.CacheResults.WithLabelValues(operation, "hit").Inc()
			return items, nil
		}
		g.logger.Warn("Discarding unreadable cache entry", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		g.logger.Warn("Cache read failed", map[string]interface{}{
			"error": apperrors.NewCacheFailedError(key, err).Details,
		})
	}
	metrics.CacheResults.WithLabelValues(operation, "miss").Inc()

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	// Empty lists are not cached.
	if len(items) == 0 {
		return items, nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := g.redis.Set(ctx, key, data, g.ttl).Err(); err != nil {
		g.logger.Warn("Cache write failed", map[string]interface{}{
			"error": apperrors.NewCacheFailedError(key, err).Details,
		})
	}
	return items, nil
}
