package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ctx = context.Background()

type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(url string, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(
		&redis.Options{
			Addr:     url,
			Password: "",
			DB:       0,
		},
	)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client, logger: logger}, nil
}

func (r *RedisCache) Get(key string, dest any) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache get failed, falling back to direct read",
				zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.Warn("cache entry undecodable, evicting",
			zap.String("key", key), zap.Error(err))
		r.Delete(key)
		return false
	}
	return true
}

func (r *RedisCache) Set(key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("cache set skipped, value not marshalable",
			zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *RedisCache) Delete(keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("cache invalidation failed, entries expire via TTL",
			zap.Strings("keys", keys), zap.Error(err))
	}
}

func (r *RedisCache) DeletePrefix(prefix string) {
	iter := r.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("cache prefix scan failed, entries expire via TTL",
			zap.String("prefix", prefix), zap.Error(err))
		return
	}
	r.Delete(keys...)
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
