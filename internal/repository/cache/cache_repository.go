package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain/repository"
)

// KeyPrefix - префикс всех ключей сервиса
const KeyPrefix = "mobility:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository создает кеш поверх общего клиента Redis
func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return newCacheRepository(redis.Client(), redis.logger)
}

func newCacheRepository(client *redis.Client, logger *zap.Logger) *cacheRepository {
	return &cacheRepository{
		client: client,
		logger: logger.With(zap.String("component", "cache")),
	}
}

// GetJSON: битое значение удаляется и считается промахом
func (r *cacheRepository) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := r.get(ctx, key)
	if err != nil || raw == nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Warn("Dropping corrupted cache entry", zap.String("key", key), zap.Error(err))
		_ = r.Delete(ctx, key)
		return false, nil
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return true, nil
}

// SetJSON сериализует value и сохраняет с TTL
func (r *cacheRepository) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return r.set(ctx, key, raw, ttl)
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		r.logger.Warn("Cache delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache del %s: %w", key, err)
	}
	return nil
}

// get возвращает (nil, nil) при промахе
func (r *cacheRepository) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, KeyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		r.logger.Error("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return raw, nil
}

func (r *cacheRepository) set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, KeyPrefix+key, raw, ttl).Err(); err != nil {
		r.logger.Error("Cache write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}
