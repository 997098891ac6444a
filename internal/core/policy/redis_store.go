package policy

import (
	"context"
	"fmt"
	"time"

	"kerouma/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// 日鍵輪替後的舊計數保留兩天再過期
const usageKeyTTL = 48 * time.Hour

// RedisStore Redis 用量儲存
// INCR 本身即是原子 read-modify-write，跨實例部署時計數不會遺失
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 用量儲存
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Count 讀取計數，鍵不存在視為 0
func (s *RedisStore) Count(ctx context.Context, key string) (int, error) {
	val, err := s.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get usage count: %w", err)
	}
	return val, nil
}

// Increment 原子遞增並設定過期時間
func (s *RedisStore) Increment(ctx context.Context, key string) (int, error) {
	val, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment usage count: %w", err)
	}
	if val == 1 {
		// 首次遞增才需要掛 TTL
		_ = s.client.Expire(ctx, key, usageKeyTTL).Err()
	}
	return int(val), nil
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
