package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SummaryCache 进度汇总的 Redis 短时缓存，提交答题时失效
// 缓存不可用只降级不报错，汇总永远可以从存储重建
type SummaryCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{RDB: rdb, TTL: ttl}
}

func summaryKey(userID uint) string {
	return fmt.Sprintf("algoquiz:progress:summary:%d", userID)
}

// Get 命中时反序列化到 dest 并返回 true
func (c *SummaryCache) Get(ctx context.Context, userID uint, dest interface{}) bool {
	if c == nil || c.RDB == nil {
		return false
	}
	raw, err := c.RDB.Get(ctx, summaryKey(userID)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (c *SummaryCache) Set(ctx context.Context, userID uint, value interface{}) {
	if c == nil || c.RDB == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.RDB.Set(ctx, summaryKey(userID), raw, c.TTL)
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID uint) {
	if c == nil || c.RDB == nil {
		return
	}
	if err := c.RDB.Del(ctx, summaryKey(userID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		// 失效失败只会导致 TTL 内的旧读，不影响写路径
		return
	}
}
