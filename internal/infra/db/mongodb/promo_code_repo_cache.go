package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"nyc-subway-trivia/internal/domain/model"
	"nyc-subway-trivia/internal/domain/ports/repository"
	"nyc-subway-trivia/internal/infra/metrics"
	red "nyc-subway-trivia/internal/infra/redis"
)

var _ repository.PromoCodeRepository = (*promoCodeRepoCacheDecorator)(nil)

const activeListKey = "promo:active:all"

func activeKey(t model.CodeType) string { return fmt.Sprintf("promo:active:%s", t) }

// cacheKeys lists every key a write can make stale.
func cacheKeys() []string {
	keys := make([]string, 0, len(model.CodeTypes)+1)
	for _, t := range model.CodeTypes {
		keys = append(keys, activeKey(t))
	}
	return append(keys, activeListKey)
}

type promoCodeRepoCacheDecorator struct {
	inner repository.PromoCodeRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewPromoCodeRepoCacheDecorator(inner repository.PromoCodeRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.PromoCodeRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &promoCodeRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   logger,
	}
}

func (d *promoCodeRepoCacheDecorator) FindActiveByType(ctx context.Context, typ model.CodeType) (*model.PromoCode, error) {
	key := activeKey(typ)
	var cached model.PromoCode
	if d.lookup(ctx, key, &cached) {
		metrics.IncCacheRequest("promo_code", "hit")
		return &cached, nil
	}

	metrics.IncCacheRequest("promo_code", "miss")
	code, err := d.inner.FindActiveByType(ctx, typ)
	if err != nil {
		return nil, err
	}
	d.store(ctx, key, code)
	return code, nil
}

func (d *promoCodeRepoCacheDecorator) ListActive(ctx context.Context) ([]*model.PromoCode, error) {
	var cached []*model.PromoCode
	if d.lookup(ctx, activeListKey, &cached) {
		metrics.IncCacheRequest("promo_code_list", "hit")
		return cached, nil
	}

	metrics.IncCacheRequest("promo_code_list", "miss")
	codes, err := d.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(codes) > 0 {
		d.store(ctx, activeListKey, codes)
	}
	return codes, nil
}

// For write operations, we must invalidate the cache. The keys are dropped
// even when the write fails since a failed update-many may be partial.
func (d *promoCodeRepoCacheDecorator) DeactivateAll(ctx context.Context) (int64, error) {
	defer d.invalidate(ctx)
	return d.inner.DeactivateAll(ctx)
}

func (d *promoCodeRepoCacheDecorator) Insert(ctx context.Context, code *model.PromoCode) error {
	defer d.invalidate(ctx)
	return d.inner.Insert(ctx, code)
}

func (d *promoCodeRepoCacheDecorator) EnsureCollection(ctx context.Context) error {
	return d.inner.EnsureCollection(ctx)
}

func (d *promoCodeRepoCacheDecorator) lookup(ctx context.Context, key string, dst any) bool {
	val, err := d.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, red.Nil) {
			d.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return false
	}
	return true
}

func (d *promoCodeRepoCacheDecorator) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (d *promoCodeRepoCacheDecorator) invalidate(ctx context.Context) {
	if err := d.cache.Del(ctx, cacheKeys()...); err != nil {
		d.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
