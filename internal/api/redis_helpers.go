package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// hourlyRateKey 生成按小时分桶的限流 key，如 rate:optimize:42:2026090112。
func hourlyRateKey(scope, subject string) string {
	return "rate:" + scope + ":" + subject + ":" + time.Now().UTC().Format("2006010215")
}

// incrWithTTL 自增计数并在首次创建时设置过期，供各类限流复用。
func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
