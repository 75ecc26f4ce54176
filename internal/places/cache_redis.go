package places

import (
	"context"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisCache shares lookup responses across instances.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache() (*RedisCache, error) {
	opt, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		return nil, err
	}
	return &RedisCache{rdb: redis.NewClient(opt)}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	data, err := r.rdb.Get(ctx, "places:"+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = r.rdb.Set(ctx, "places:"+key, data, ttl).Err()
}
