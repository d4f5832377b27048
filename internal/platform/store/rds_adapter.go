package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// newRedisKV dials redis and returns the store.KV seam
func newRedisKV(ctx context.Context, cfg RedisConfig) (KV, error) {
	cl := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := cl.Ping(ctx).Err(); err != nil {
		_ = cl.Close()
		return nil, err
	}
	return &redisKV{cl: cl}, nil
}

// redisKV adapts *redis.Client to the store.KV seam
type redisKV struct {
	cl *redis.Client
}

var _ KV = (*redisKV)(nil)

func (r *redisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.cl.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKVMiss
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *redisKV) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return r.cl.Set(ctx, key, val, ttl).Err()
}

func (r *redisKV) Close() error { return r.cl.Close() }

// Ping verifies connectivity with redis
func (r *redisKV) Ping(ctx context.Context) error {
	if r == nil || r.cl == nil {
		return errors.New("store: nil redis adapter")
	}
	return r.cl.Ping(ctx).Err()
}
