package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// chartCacheTTL 图表缓存有效期
const chartCacheTTL = 10 * time.Minute

// ChartCache 图表数据缓存，尽力而为：任何缓存故障都按未命中处理
type ChartCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

// RedisChartCache 基于Redis的图表缓存
type RedisChartCache struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewRedisChartCache 创建Redis图表缓存
func NewRedisChartCache(client *redis.Client, logger *zap.SugaredLogger) *RedisChartCache {
	return &RedisChartCache{client: client, logger: logger}
}

// Get 读取缓存并反序列化到dest，命中返回true
func (c *RedisChartCache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warnw("读取图表缓存失败", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.logger.Warnw("解析图表缓存失败", "key", key, "error", err)
		return false
	}
	return true
}

// Set 序列化并写入缓存
func (c *RedisChartCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Errorw("序列化图表缓存失败", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warnw("写入图表缓存失败", "key", key, "error", err)
	}
}
